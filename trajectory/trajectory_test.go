package trajectory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageContentUnmarshalString(t *testing.T) {
	var msg LLMMessage
	err := json.Unmarshal([]byte(`{"role":"assistant","content":"hello"}`), &msg)
	assert.NoError(t, err)
	assert.Equal(t, "hello", msg.Content.AsText())
}

func TestMessageContentUnmarshalBlocks(t *testing.T) {
	raw := `{"role":"assistant","content":[
		{"type":"text","text":"hello "},
		{"type":"image","text":"ignored"},
		{"type":"text","text":"world"}
	]}`
	var msg LLMMessage
	err := json.Unmarshal([]byte(raw), &msg)
	assert.NoError(t, err)

	// Only text blocks contribute, in order; other block types drop silently.
	assert.Equal(t, "hello world", msg.Content.AsText())
}

func TestMessageContentUnmarshalInvalid(t *testing.T) {
	var msg LLMMessage
	err := json.Unmarshal([]byte(`{"role":"assistant","content":42}`), &msg)
	assert.Error(t, err)
}

func TestMessageContentRoundTrip(t *testing.T) {
	cases := []string{
		`"plain text"`,
		`[{"type":"text","text":"a"},{"type":"thought","text":"b"}]`,
	}
	for _, raw := range cases {
		var content MessageContent
		assert.NoError(t, json.Unmarshal([]byte(raw), &content))
		out, err := json.Marshal(content)
		assert.NoError(t, err)
		assert.JSONEq(t, raw, string(out))
	}
}

func TestLLMResponsesFiltering(t *testing.T) {
	traj := &Trajectory{
		Name: "test",
		Events: []Event{
			{Kind: KindMessageEvent, Source: SourceUser, LLMMessage: &LLMMessage{Role: "user", Content: NewTextContent("do it")}},
			{Kind: KindActionEvent, Source: SourceAgent, ToolCall: &ToolCall{ID: "call_1", Name: "run", Arguments: `{"cmd":"ls"}`}},
			{Kind: "ObservationEvent", Source: SourceEnvironment},
			{Kind: KindMessageEvent, Source: SourceAgent, LLMMessage: &LLMMessage{Role: "assistant", Content: NewTextContent("done")}},
		},
	}

	responses := traj.LLMResponses()
	assert.Len(t, responses, 2)
	assert.Equal(t, KindActionEvent, responses[0].Kind)
	assert.Equal(t, KindMessageEvent, responses[1].Kind)

	inputs := traj.UserInputs()
	assert.Len(t, inputs, 1)
	assert.Equal(t, "do it", inputs[0].LLMMessage.Content.AsText())
}

func TestLLMResponsesWithoutSourceTags(t *testing.T) {
	// Recordings without source tags fall back to kind-only filtering.
	traj := &Trajectory{
		Events: []Event{
			{Kind: KindActionEvent, ToolCall: &ToolCall{Name: "run"}},
			{Kind: "SystemEvent"},
			{Kind: KindMessageEvent, LLMMessage: &LLMMessage{Role: "assistant", Content: NewTextContent("hi")}},
		},
	}
	assert.Len(t, traj.LLMResponses(), 2)
}
