package types

// EventType names what changed in the conversation.
type EventType string

const (
	EventMessage EventType = "message"
	EventSession EventType = "session"
	EventPending EventType = "pending"
	EventDraft   EventType = "draft"
)

// Event is published on every state change. Pending and Draft always carry
// the values current right after the change.
type Event struct {
	Type    EventType `json:"type"`
	Message *Message  `json:"message,omitempty"`
	Session *Session  `json:"session,omitempty"`
	Pending bool      `json:"pending"`
	Draft   string    `json:"draft"`
}

// Snapshot is a copy of the whole conversation state.
type Snapshot struct {
	Messages []Message `json:"messages"`
	Sessions []Session `json:"sessions"`
	Pending  bool      `json:"pending"`
	Draft    string    `json:"draft"`
}
