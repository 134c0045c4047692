// flashchat/types/message.go
package types

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind tells who produced a message. The set is closed: every switch over
// Kind handles each value and treats anything else as an error.
type Kind uint8

const (
	KindQuestion Kind = iota + 1
	KindAnswer
)

func (k Kind) Valid() bool {
	return k == KindQuestion || k == KindAnswer
}

func (k Kind) String() string {
	switch k {
	case KindQuestion:
		return "question"
	case KindAnswer:
		return "answer"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

func (k Kind) MarshalJSON() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("marshal kind: invalid %s", k)
	}
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "question":
		*k = KindQuestion
	case "answer":
		*k = KindAnswer
	default:
		return fmt.Errorf("unknown message kind %q", s)
	}
	return nil
}

// Message is one turn of the conversation. Never edited after creation.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func NewQuestion(text string) Message {
	return Message{ID: uuid.New(), Kind: KindQuestion, Text: text, CreatedAt: time.Now()}
}

func NewAnswer(text string) Message {
	return Message{ID: uuid.New(), Kind: KindAnswer, Text: text, CreatedAt: time.Now()}
}

// Session records one completed question/answer round trip.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

func NewSession(question, answer string) Session {
	return Session{ID: uuid.New(), Question: question, Answer: answer, CreatedAt: time.Now()}
}
