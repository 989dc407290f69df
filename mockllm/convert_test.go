package mockllm

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xiaot623/llmreplay/trajectory"
)

var completionIDPattern = regexp.MustCompile(`^chatcmpl-[0-9a-f]{24}$`)

func TestConvertActionEvent(t *testing.T) {
	conv := NewConverter()
	env := conv.ConvertEvent(trajectory.Event{
		Kind: trajectory.KindActionEvent,
		ToolCall: &trajectory.ToolCall{
			ID:        "call_xyz",
			Name:      "execute_bash",
			Arguments: `{"command":"echo hi"}`,
		},
	})

	assert.Regexp(t, completionIDPattern, env.Completion.ID)
	assert.Equal(t, "tool_calls", env.Completion.Choices[0].FinishReason)

	msg := env.Completion.Choices[0].Message
	assert.Equal(t, "assistant", msg.Role)
	assert.Nil(t, msg.Content)
	if assert.Len(t, msg.ToolCalls, 1) {
		assert.Equal(t, "call_xyz", msg.ToolCalls[0].ID)
		assert.Equal(t, "execute_bash", msg.ToolCalls[0].Function.Name)
		assert.Equal(t, `{"command":"echo hi"}`, msg.ToolCalls[0].Function.Arguments)
	}

	assert.Len(t, env.StreamChunks, 3)
	assert.Equal(t, env.Completion.ID, env.StreamChunks[0].ID)
}

func TestConvertActionEventFallbacks(t *testing.T) {
	conv := NewConverter()

	t.Run("missing id is synthesized", func(t *testing.T) {
		env := conv.ConvertEvent(trajectory.Event{
			Kind:     trajectory.KindActionEvent,
			ToolCall: &trajectory.ToolCall{Name: "run"},
		})
		tc := env.Completion.Choices[0].Message.ToolCalls[0]
		assert.Regexp(t, `^call_[0-9a-f]{24}$`, tc.ID)
		assert.Equal(t, "{}", tc.Function.Arguments)
	})

	t.Run("missing name falls back to tool_name", func(t *testing.T) {
		env := conv.ConvertEvent(trajectory.Event{
			Kind:     trajectory.KindActionEvent,
			ToolCall: &trajectory.ToolCall{ID: "call_1"},
			ToolName: "str_replace_editor",
		})
		assert.Equal(t, "str_replace_editor", env.Completion.Choices[0].Message.ToolCalls[0].Function.Name)
	})

	t.Run("missing name everywhere becomes unknown", func(t *testing.T) {
		env := conv.ConvertEvent(trajectory.Event{
			Kind:     trajectory.KindActionEvent,
			ToolCall: &trajectory.ToolCall{ID: "call_1"},
		})
		assert.Equal(t, "unknown", env.Completion.Choices[0].Message.ToolCalls[0].Function.Name)
	})
}

func TestConvertMessageEvent(t *testing.T) {
	conv := NewConverter()
	env := conv.ConvertEvent(trajectory.Event{
		Kind: trajectory.KindMessageEvent,
		LLMMessage: &trajectory.LLMMessage{
			Role:    "assistant",
			Content: trajectory.NewTextContent("hello"),
		},
	})

	msg := env.Completion.Choices[0].Message
	if assert.NotNil(t, msg.Content) {
		assert.Equal(t, "hello", *msg.Content)
	}
	assert.Equal(t, "stop", env.Completion.Choices[0].FinishReason)
	assert.Len(t, env.StreamChunks, 3)
	assert.Equal(t, "hello", env.StreamChunks[1].Choices[0].Delta.ContentText())
}

func TestConvertMessageEventBlockContent(t *testing.T) {
	conv := NewConverter()
	env := conv.ConvertEvent(trajectory.Event{
		Kind: trajectory.KindMessageEvent,
		LLMMessage: &trajectory.LLMMessage{
			Role: "assistant",
			Content: trajectory.NewBlockContent(
				trajectory.ContentBlock{Type: "text", Text: "first "},
				trajectory.ContentBlock{Type: "thinking", Text: "dropped"},
				trajectory.ContentBlock{Type: "text", Text: "second"},
			),
		},
	})

	msg := env.Completion.Choices[0].Message
	if assert.NotNil(t, msg.Content) {
		assert.Equal(t, "first second", *msg.Content)
	}
}

func TestConvertUnhandledKind(t *testing.T) {
	conv := NewConverter()

	for _, event := range []trajectory.Event{
		{Kind: "ObservationEvent"},
		{Kind: trajectory.KindActionEvent},  // no tool_call
		{Kind: trajectory.KindMessageEvent}, // no llm_message
	} {
		env := conv.ConvertEvent(event)
		msg := env.Completion.Choices[0].Message
		if assert.NotNil(t, msg.Content) {
			assert.Equal(t, DefaultContent, *msg.Content)
		}
	}
}

func TestDefaultResponse(t *testing.T) {
	conv := NewConverter()
	env := conv.DefaultResponse()

	msg := env.Completion.Choices[0].Message
	if assert.NotNil(t, msg.Content) {
		assert.Equal(t, DefaultContent, *msg.Content)
	}
	assert.Equal(t, "stop", env.Completion.Choices[0].FinishReason)
	assert.Len(t, env.StreamChunks, 3)
}

func TestCompletionIDsAreUnique(t *testing.T) {
	conv := NewConverter()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		env := conv.DefaultResponse()
		assert.Regexp(t, completionIDPattern, env.Completion.ID)
		assert.False(t, seen[env.Completion.ID], "duplicate completion id")
		seen[env.Completion.ID] = true
	}
}
