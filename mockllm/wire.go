// Package mockllm implements an OpenAI-compatible mock LLM server that
// replays pre-recorded trajectory events, so agent e2e tests can run against
// a deterministic model backend.
package mockllm

import "encoding/json"

// ModelName is the model reported in every replayed response.
const ModelName = "mock-llm"

// ServerName identifies the server in health responses.
const ServerName = "mock-llm-trajectory"

// ChatCompletionRequest represents the OpenAI chat completion request.
type ChatCompletionRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []ChatMessage `json:"messages,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
	Tools       []Tool        `json:"tools,omitempty"`
}

// Tool represents a tool definition in a request.
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction represents a function definition.
type ToolFunction struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Parameters  interface{} `json:"parameters,omitempty"`
}

// ChatMessage represents a full (non-delta) chat message. Content serializes
// as JSON null for tool-call messages, matching the upstream protocol.
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    *string    `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall represents a tool call on a full message.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction represents the function in a tool call. Arguments is a
// JSON-encoded string.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ChatCompletionResponse represents the unary chat completion response.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice represents a unary completion choice.
type Choice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// Usage represents token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// StreamChunk represents a single SSE chunk of a streamed completion.
type StreamChunk struct {
	ID      string         `json:"id"`
	Object  string         `json:"object"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Choices []StreamChoice `json:"choices"`
}

// StreamChoice represents a streaming choice. FinishReason serializes as
// null on non-terminal chunks.
type StreamChoice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

// Delta is the incremental payload of one stream chunk. Content is kept as a
// raw value so the opening chunk of a tool call can carry an explicit null
// while plain-text chunks carry strings (including the empty string).
type Delta struct {
	Role      string          `json:"role,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`
	ToolCalls []ToolCallDelta `json:"tool_calls,omitempty"`
}

// ContentText decodes the delta content as a string. Returns "" for absent
// or null content.
func (d Delta) ContentText() string {
	if len(d.Content) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(d.Content, &s); err != nil {
		return ""
	}
	return s
}

// ToolCallDelta represents the incremental form of a tool call. Only the
// opening chunk carries ID and Type; followup chunks address the call by
// index alone.
type ToolCallDelta struct {
	Index    int                   `json:"index"`
	ID       string                `json:"id,omitempty"`
	Type     string                `json:"type,omitempty"`
	Function ToolCallDeltaFunction `json:"function"`
}

// ToolCallDeltaFunction carries the incremental function fields.
type ToolCallDeltaFunction struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments"`
}

// HealthResponse is the body served on GET /health and GET /.
type HealthResponse struct {
	Status             string `json:"status"`
	Server             string `json:"server"`
	ResponsesRemaining int    `json:"responses_remaining"`
}

// ResetResponse is the body served on GET /reset.
type ResetResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body served on request failures.
type ErrorResponse struct {
	Error string `json:"error"`
}
