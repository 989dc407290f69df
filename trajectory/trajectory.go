// Package trajectory defines recorded agent-conversation trajectories used as
// ground truth for deterministic replay.
package trajectory

import (
	"encoding/json"
	"fmt"
)

// Event kinds that the replay server knows how to convert. Any other kind is
// passed through and handled as a default response downstream.
const (
	KindActionEvent  = "ActionEvent"
	KindMessageEvent = "MessageEvent"
)

// Event sources.
const (
	SourceAgent       = "agent"
	SourceUser        = "user"
	SourceEnvironment = "environment"
)

// ToolCall is a recorded request-for-function-invocation emitted by the model.
// Arguments is a JSON-encoded string, exactly as it appeared on the wire.
type ToolCall struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// ContentBlock is one element of a block-structured message content.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// MessageContent holds message content that is either a plain string or an
// ordered list of typed blocks, depending on how the conversation was
// recorded.
type MessageContent struct {
	Text   string
	Blocks []ContentBlock
	isList bool
}

// UnmarshalJSON accepts both content encodings.
func (m *MessageContent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		m.Text = s
		m.isList = false
		m.Blocks = nil
		return nil
	}

	var blocks []ContentBlock
	if err := json.Unmarshal(data, &blocks); err != nil {
		return fmt.Errorf("content is neither a string nor a block list: %w", err)
	}
	m.Blocks = blocks
	m.isList = true
	m.Text = ""
	return nil
}

// MarshalJSON round-trips the original encoding.
func (m MessageContent) MarshalJSON() ([]byte, error) {
	if m.isList {
		return json.Marshal(m.Blocks)
	}
	return json.Marshal(m.Text)
}

// AsText extracts the textual content. For block-structured content only
// blocks tagged "text" contribute, in order; other block types are dropped.
func (m MessageContent) AsText() string {
	if !m.isList {
		return m.Text
	}
	var out string
	for _, b := range m.Blocks {
		if b.Type == "text" {
			out += b.Text
		}
	}
	return out
}

// NewTextContent builds plain-string content. Used by tests and fixtures.
func NewTextContent(text string) MessageContent {
	return MessageContent{Text: text}
}

// NewBlockContent builds block-structured content.
func NewBlockContent(blocks ...ContentBlock) MessageContent {
	return MessageContent{Blocks: blocks, isList: true}
}

// LLMMessage is a recorded model message.
type LLMMessage struct {
	Role    string         `json:"role"`
	Content MessageContent `json:"content"`
}

// Event is a single recorded conversation event. Immutable once loaded.
type Event struct {
	Kind       string      `json:"kind"`
	Source     string      `json:"source,omitempty"`
	ToolCall   *ToolCall   `json:"tool_call,omitempty"`
	LLMMessage *LLMMessage `json:"llm_message,omitempty"`
	// ToolName is the fallback tool name when tool_call.name is absent.
	ToolName string `json:"tool_name,omitempty"`
}

// Trajectory is an ordered recording of one full agent run.
type Trajectory struct {
	Name   string  `json:"name"`
	Events []Event `json:"events"`
}

// LLMResponses returns the events that represent model turns, in recorded
// order: agent-sourced actions and messages, one per expected model call.
func (t *Trajectory) LLMResponses() []Event {
	var out []Event
	for _, ev := range t.Events {
		if ev.Source != "" && ev.Source != SourceAgent {
			continue
		}
		if ev.Kind == KindActionEvent || ev.Kind == KindMessageEvent {
			out = append(out, ev)
		}
	}
	return out
}

// UserInputs returns the user-sourced message events, in recorded order.
func (t *Trajectory) UserInputs() []Event {
	var out []Event
	for _, ev := range t.Events {
		if ev.Source == SourceUser && ev.Kind == KindMessageEvent {
			out = append(out, ev)
		}
	}
	return out
}
