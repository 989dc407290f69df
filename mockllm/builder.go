package mockllm

import (
	"encoding/json"
	"time"
)

// DefaultUsage is reported on every completion regardless of content length.
// Usage accounting is not something replay tests assert on.
var DefaultUsage = Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150}

// BuildCompletion assembles a unary chat completion envelope around message.
func BuildCompletion(completionID string, message ChatMessage, finishReason string) ChatCompletionResponse {
	return ChatCompletionResponse{
		ID:      completionID,
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   ModelName,
		Choices: []Choice{
			{Index: 0, Message: message, FinishReason: finishReason},
		},
		Usage: DefaultUsage,
	}
}

// BuildStreamChunk assembles a single streaming chunk. finishReason is nil on
// non-terminal chunks.
func BuildStreamChunk(completionID string, delta Delta, finishReason *string) StreamChunk {
	return StreamChunk{
		ID:      completionID,
		Object:  "chat.completion.chunk",
		Created: time.Now().Unix(),
		Model:   ModelName,
		Choices: []StreamChoice{
			{Index: 0, Delta: delta, FinishReason: finishReason},
		},
	}
}

// BuildMessageChunks renders a text message as a three-chunk stream: an
// opening chunk announcing the assistant turn, one chunk carrying the full
// text, and a terminal chunk with the finish reason. Content is deliberately
// not split token by token; replay only needs the protocol shape.
func BuildMessageChunks(completionID, content, finishReason string) []StreamChunk {
	return []StreamChunk{
		BuildStreamChunk(completionID, Delta{Role: "assistant", Content: rawJSON("")}, nil),
		BuildStreamChunk(completionID, Delta{Content: rawJSON(content)}, nil),
		BuildStreamChunk(completionID, Delta{}, &finishReason),
	}
}

// BuildToolCallChunks renders a tool call as a three-chunk stream: the
// opening chunk carries the call shell (id, type, name) with null content,
// the second delivers the complete arguments string under the same index,
// and the terminal chunk closes with finish_reason "tool_calls".
func BuildToolCallChunks(completionID, toolCallID, toolName, arguments string) []StreamChunk {
	finishReason := "tool_calls"
	return []StreamChunk{
		BuildStreamChunk(completionID, Delta{
			Role:    "assistant",
			Content: json.RawMessage("null"),
			ToolCalls: []ToolCallDelta{
				{
					Index:    0,
					ID:       toolCallID,
					Type:     "function",
					Function: ToolCallDeltaFunction{Name: toolName, Arguments: ""},
				},
			},
		}, nil),
		BuildStreamChunk(completionID, Delta{
			ToolCalls: []ToolCallDelta{
				{Index: 0, Function: ToolCallDeltaFunction{Arguments: arguments}},
			},
		}, nil),
		BuildStreamChunk(completionID, Delta{}, &finishReason),
	}
}

// rawJSON encodes a string as a JSON value for use in a Delta.
func rawJSON(s string) json.RawMessage {
	data, _ := json.Marshal(s)
	return data
}
