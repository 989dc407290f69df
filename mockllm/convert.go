package mockllm

import (
	"strings"

	"github.com/google/uuid"
	"github.com/xiaot623/llmreplay/trajectory"
)

// DefaultContent is served when the trajectory is exhausted or an event kind
// is not handled, keeping the emulated conversation alive for the caller.
const DefaultContent = "Task completed."

// Envelope pairs the unary and streaming renderings of one replayed model
// turn. Built fresh per draw, never persisted.
type Envelope struct {
	Completion   ChatCompletionResponse
	StreamChunks []StreamChunk
}

// Converter maps trajectory events to response envelopes.
type Converter struct{}

// NewConverter creates a converter.
func NewConverter() *Converter {
	return &Converter{}
}

// ConvertEvent converts a single trajectory event. Action events with a tool
// call become tool-call responses, message events become text responses, and
// everything else falls back to the default response.
func (c *Converter) ConvertEvent(event trajectory.Event) Envelope {
	switch {
	case event.Kind == trajectory.KindActionEvent && event.ToolCall != nil:
		return c.toolCallResponse(event)
	case event.Kind == trajectory.KindMessageEvent && event.LLMMessage != nil:
		return c.messageResponse(*event.LLMMessage)
	default:
		return c.DefaultResponse()
	}
}

// DefaultResponse builds the fixed fallback response. It is part of the
// public contract: the request handler calls it directly once the replay
// queue is exhausted.
func (c *Converter) DefaultResponse() Envelope {
	return c.textEnvelope(DefaultContent)
}

func (c *Converter) toolCallResponse(event trajectory.Event) Envelope {
	tc := event.ToolCall

	toolCallID := tc.ID
	if toolCallID == "" {
		toolCallID = newHexID("call_")
	}
	toolName := tc.Name
	if toolName == "" {
		toolName = event.ToolName
	}
	if toolName == "" {
		toolName = "unknown"
	}
	arguments := tc.Arguments
	if arguments == "" {
		arguments = "{}"
	}

	completionID := newHexID("chatcmpl-")
	message := ChatMessage{
		Role:    "assistant",
		Content: nil,
		ToolCalls: []ToolCall{
			{
				ID:       toolCallID,
				Type:     "function",
				Function: ToolCallFunction{Name: toolName, Arguments: arguments},
			},
		},
	}

	return Envelope{
		Completion:   BuildCompletion(completionID, message, "tool_calls"),
		StreamChunks: BuildToolCallChunks(completionID, toolCallID, toolName, arguments),
	}
}

func (c *Converter) messageResponse(msg trajectory.LLMMessage) Envelope {
	return c.textEnvelope(msg.Content.AsText())
}

func (c *Converter) textEnvelope(content string) Envelope {
	completionID := newHexID("chatcmpl-")
	message := ChatMessage{Role: "assistant", Content: &content}
	return Envelope{
		Completion:   BuildCompletion(completionID, message, "stop"),
		StreamChunks: BuildMessageChunks(completionID, content, "stop"),
	}
}

// newHexID generates an opaque identifier: prefix plus 24 hex characters.
// Identifiers carry no cross-call meaning.
func newHexID(prefix string) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + hex[:24]
}
