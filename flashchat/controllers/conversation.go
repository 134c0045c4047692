// flashchat/controllers/conversation.go
package controllers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"flashchat/flashchat/services/llm"
	"flashchat/flashchat/types"
	"flashchat/flashchat/utils/logging"
	"flashchat/flashchat/utils/textutils"

	"go.uber.org/zap"
)

// KeyEnter is the only key the controller reacts to.
const KeyEnter = "enter"

// Answerer produces a response for one question. *llm.GeminiClient is the
// production implementation.
type Answerer interface {
	Generate(ctx context.Context, prompt string) (*llm.GenerateResponse, error)
}

// ConversationController owns the message list, the session list, the
// pending flag and the draft. All state lives behind mu; at most one request
// is in flight at a time.
type ConversationController struct {
	answerer Answerer

	mu       sync.Mutex
	messages []types.Message
	sessions []types.Session
	pending  bool
	draft    string

	subs    map[int]chan types.Event
	nextSub int
}

func NewConversationController(answerer Answerer) *ConversationController {
	return &ConversationController{
		answerer: answerer,
		subs:     make(map[int]chan types.Event),
	}
}

// Submit appends question and starts the request in the background. It
// returns ok=false, and changes nothing, when the trimmed question is empty
// or another request is still pending. done is closed once the answer (or
// the error placeholder) has been appended.
//
// The request ignores ctx cancellation: once issued it runs to completion.
func (c *ConversationController) Submit(ctx context.Context, question string) (done <-chan struct{}, ok bool) {
	if strings.TrimSpace(question) == "" {
		return nil, false
	}

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		logging.AppLogger.Debug("submission ignored, request pending")
		return nil, false
	}
	msg := types.NewQuestion(question)
	c.messages = append(c.messages, msg)
	c.publishLocked(types.Event{Type: types.EventMessage, Message: &msg})
	c.pending = true
	c.publishLocked(types.Event{Type: types.EventPending})
	c.mu.Unlock()

	logging.AppLogger.Info("question submitted",
		zap.String("message_id", msg.ID.String()),
		zap.Int("length", len(question)),
	)

	ch := make(chan struct{})
	go c.fetch(context.WithoutCancel(ctx), question, ch)
	return ch, true
}

// KeyPress submits the current draft on enter and ignores every other key.
func (c *ConversationController) KeyPress(ctx context.Context, key string) (done <-chan struct{}, ok bool) {
	if key != KeyEnter {
		return nil, false
	}
	return c.Submit(ctx, c.Draft())
}

func (c *ConversationController) fetch(ctx context.Context, question string, done chan<- struct{}) {
	defer close(done)

	answer, err := c.ask(ctx, question)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		logging.ErrorLogger.Error("failed to fetch answer", zap.Error(err))
		msg := types.NewAnswer(textutils.FetchErrorAnswer)
		c.messages = append(c.messages, msg)
		c.publishLocked(types.Event{Type: types.EventMessage, Message: &msg})
	} else {
		msg := types.NewAnswer(answer)
		c.messages = append(c.messages, msg)
		c.publishLocked(types.Event{Type: types.EventMessage, Message: &msg})

		session := types.NewSession(question, answer)
		c.sessions = append(c.sessions, session)
		c.publishLocked(types.Event{Type: types.EventSession, Session: &session})
		logging.AppLogger.Info("answer received",
			zap.String("message_id", msg.ID.String()),
			zap.Int("sessions", len(c.sessions)),
		)
	}

	c.pending = false
	c.publishLocked(types.Event{Type: types.EventPending})
	c.draft = ""
	c.publishLocked(types.Event{Type: types.EventDraft})
}

// ask returns the cleaned answer text. A response without candidate text
// is not an error; it yields the ellipsis placeholder.
func (c *ConversationController) ask(ctx context.Context, question string) (answer string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while fetching answer: %v", r)
		}
	}()

	resp, err := c.answerer.Generate(ctx, question)
	if err != nil {
		return "", err
	}
	text, ok := resp.FirstText()
	if !ok || text == "" {
		text = textutils.EmptyAnswer
	}
	return textutils.CleanAnswer(text), nil
}

// SetDraft mirrors the text currently being composed.
func (c *ConversationController) SetDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.draft == text {
		return
	}
	c.draft = text
	c.publishLocked(types.Event{Type: types.EventDraft})
}

func (c *ConversationController) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

func (c *ConversationController) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

func (c *ConversationController) Messages() []types.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.Message(nil), c.messages...)
}

func (c *ConversationController) Sessions() []types.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.Session(nil), c.sessions...)
}

func (c *ConversationController) Snapshot() types.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return types.Snapshot{
		Messages: append([]types.Message{}, c.messages...),
		Sessions: append([]types.Session{}, c.sessions...),
		Pending:  c.pending,
		Draft:    c.draft,
	}
}

// Subscribe returns a channel receiving every state change. A subscriber
// that falls behind by more than buffer events loses the overflow and should
// re-read Snapshot. cancel closes the channel.
func (c *ConversationController) Subscribe(buffer int) (events <-chan types.Event, cancel func()) {
	ch := make(chan types.Event, buffer)

	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}

// publishLocked fills in the current pending/draft values and fans the event
// out without blocking. Callers hold mu, which keeps events in state order.
func (c *ConversationController) publishLocked(ev types.Event) {
	ev.Pending = c.pending
	ev.Draft = c.draft
	for id, ch := range c.subs {
		select {
		case ch <- ev:
		default:
			logging.AppLogger.Warn("dropping event for slow subscriber",
				zap.Int("subscriber", id), zap.String("type", string(ev.Type)))
		}
	}
}
