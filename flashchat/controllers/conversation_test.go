package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flashchat/flashchat/services/llm"
	"flashchat/flashchat/types"
	"flashchat/flashchat/utils/textutils"
)

// fakeAnswerer blocks until release is closed (if set), then returns resp/err.
type fakeAnswerer struct {
	release chan struct{}
	resp    *llm.GenerateResponse
	err     error
	panics  bool
	prompts []string
}

func (f *fakeAnswerer) Generate(ctx context.Context, prompt string) (*llm.GenerateResponse, error) {
	f.prompts = append(f.prompts, prompt)
	if f.release != nil {
		<-f.release
	}
	if f.panics {
		panic("boom")
	}
	return f.resp, f.err
}

func textResponse(text string) *llm.GenerateResponse {
	return &llm.GenerateResponse{Candidates: []llm.Candidate{{Content: llm.Content{Parts: []llm.Part{{Text: text}}}}}}
}

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("request did not complete")
	}
}

func TestSubmit_QuestionAppendedBeforeResponse(t *testing.T) {
	fake := &fakeAnswerer{release: make(chan struct{}), resp: textResponse("ok")}
	c := NewConversationController(fake)

	done, ok := c.Submit(context.Background(), "  hello  ")
	if !ok {
		t.Fatal("expected submission to be accepted")
	}

	msgs := c.Messages()
	if len(msgs) != 1 {
		t.Fatalf("len(messages) = %d, want 1 before response", len(msgs))
	}
	if msgs[0].Kind != types.KindQuestion || msgs[0].Text != "  hello  " {
		t.Errorf("question = %+v, want raw untrimmed text", msgs[0])
	}
	if !c.Pending() {
		t.Error("expected pending while request in flight")
	}

	close(fake.release)
	wait(t, done)

	if c.Pending() {
		t.Error("pending should be false after completion")
	}
	if got := len(c.Messages()); got != 2 {
		t.Errorf("len(messages) = %d, want 2", got)
	}
}

func TestSubmit_RejectedWhilePendingOrBlank(t *testing.T) {
	fake := &fakeAnswerer{release: make(chan struct{}), resp: textResponse("ok")}
	c := NewConversationController(fake)

	for _, q := range []string{"", "   ", "\n\t"} {
		if _, ok := c.Submit(context.Background(), q); ok {
			t.Errorf("blank question %q accepted", q)
		}
	}
	if snap := c.Snapshot(); len(snap.Messages) != 0 || snap.Pending {
		t.Fatalf("state changed by blank submissions: %+v", snap)
	}

	done, ok := c.Submit(context.Background(), "first")
	if !ok {
		t.Fatal("first submission rejected")
	}
	before := c.Snapshot()
	if _, ok := c.Submit(context.Background(), "second"); ok {
		t.Error("submission while pending accepted")
	}
	after := c.Snapshot()
	if len(after.Messages) != len(before.Messages) || after.Pending != before.Pending {
		t.Errorf("state changed by rejected submission: before %+v after %+v", before, after)
	}

	close(fake.release)
	wait(t, done)
	if len(fake.prompts) != 1 {
		t.Errorf("answerer called %d times, want 1", len(fake.prompts))
	}
}

func TestSubmit_NormalizesAnswer(t *testing.T) {
	c := NewConversationController(&fakeAnswerer{resp: textResponse("a\n\n\nb  ")})
	done, _ := c.Submit(context.Background(), "q")
	wait(t, done)

	msgs := c.Messages()
	if got := msgs[1].Text; got != "a\nb" {
		t.Errorf("answer = %q, want %q", got, "a\nb")
	}
	if msgs[1].Kind != types.KindAnswer {
		t.Errorf("kind = %s, want answer", msgs[1].Kind)
	}
}

func TestSubmit_MissingCandidates(t *testing.T) {
	for name, resp := range map[string]*llm.GenerateResponse{
		"no candidates": {},
		"empty text":    textResponse(""),
		"nil response":  nil,
	} {
		t.Run(name, func(t *testing.T) {
			c := NewConversationController(&fakeAnswerer{resp: resp})
			done, _ := c.Submit(context.Background(), "q")
			wait(t, done)

			if got := c.Messages()[1].Text; got != textutils.EmptyAnswer {
				t.Errorf("answer = %q, want %q", got, textutils.EmptyAnswer)
			}
			sessions := c.Sessions()
			if len(sessions) != 1 || sessions[0].Answer != textutils.EmptyAnswer {
				t.Errorf("sessions = %+v, want one with ellipsis answer", sessions)
			}
		})
	}
}

func TestSubmit_FailureUsesPlaceholder(t *testing.T) {
	for name, fake := range map[string]*fakeAnswerer{
		"error": {err: errors.New("connection refused")},
		"panic": {panics: true},
	} {
		t.Run(name, func(t *testing.T) {
			c := NewConversationController(fake)
			c.SetDraft("q")
			done, ok := c.KeyPress(context.Background(), KeyEnter)
			if !ok {
				t.Fatal("enter did not submit")
			}
			wait(t, done)

			snap := c.Snapshot()
			if got := snap.Messages[1].Text; got != textutils.FetchErrorAnswer {
				t.Errorf("answer = %q, want %q", got, textutils.FetchErrorAnswer)
			}
			if snap.Pending {
				t.Error("pending should be false after failure")
			}
			if snap.Draft != "" {
				t.Errorf("draft = %q, want empty", snap.Draft)
			}
			if len(snap.Sessions) != 0 {
				t.Errorf("failed exchange recorded as session: %+v", snap.Sessions)
			}

			// the conversation continues after a failure
			fake.err, fake.panics, fake.resp = nil, false, textResponse("fine")
			done, ok = c.Submit(context.Background(), "again")
			if !ok {
				t.Fatal("submission after failure rejected")
			}
			wait(t, done)
			if len(c.Sessions()) != 1 {
				t.Errorf("len(sessions) = %d, want 1", len(c.Sessions()))
			}
		})
	}
}

func TestSubmit_DraftClearedOnlyAfterCompletion(t *testing.T) {
	fake := &fakeAnswerer{release: make(chan struct{}), resp: textResponse("ok")}
	c := NewConversationController(fake)
	c.SetDraft("keep me")

	done, ok := c.KeyPress(context.Background(), KeyEnter)
	if !ok {
		t.Fatal("enter did not submit")
	}
	if got := c.Draft(); got != "keep me" {
		t.Errorf("draft during pending = %q, want it kept", got)
	}
	close(fake.release)
	wait(t, done)
	if got := c.Draft(); got != "" {
		t.Errorf("draft after completion = %q, want empty", got)
	}
}

func TestKeyPress_OtherKeysIgnored(t *testing.T) {
	c := NewConversationController(&fakeAnswerer{resp: textResponse("ok")})
	c.SetDraft("hello")
	for _, key := range []string{"a", "tab", "shift+enter", "esc"} {
		if _, ok := c.KeyPress(context.Background(), key); ok {
			t.Errorf("key %q submitted", key)
		}
	}
	if len(c.Messages()) != 0 {
		t.Error("messages appended by non-enter keys")
	}
}

func TestSessions_InSubmissionOrder(t *testing.T) {
	fake := &fakeAnswerer{}
	c := NewConversationController(fake)
	questions := []string{"one", " two ", "three\n"}
	for i, q := range questions {
		fake.resp = textResponse("answer\n\n" + q)
		done, ok := c.Submit(context.Background(), q)
		if !ok {
			t.Fatalf("submission %d rejected", i)
		}
		wait(t, done)
	}

	sessions := c.Sessions()
	if len(sessions) != len(questions) {
		t.Fatalf("len(sessions) = %d, want %d", len(sessions), len(questions))
	}
	for i, q := range questions {
		if sessions[i].Question != q {
			t.Errorf("sessions[%d].Question = %q, want %q", i, sessions[i].Question, q)
		}
		want := textutils.CleanAnswer("answer\n\n" + q)
		if sessions[i].Answer != want {
			t.Errorf("sessions[%d].Answer = %q, want %q", i, sessions[i].Answer, want)
		}
	}
}

func TestSubmit_CallerCancellationDoesNotAbort(t *testing.T) {
	fake := &fakeAnswerer{release: make(chan struct{}), resp: textResponse("late")}
	c := NewConversationController(fake)
	ctx, cancel := context.WithCancel(context.Background())

	done, _ := c.Submit(ctx, "q")
	cancel()
	close(fake.release)
	wait(t, done)

	if got := c.Messages()[1].Text; got != "late" {
		t.Errorf("answer = %q, want late", got)
	}
}

func TestSubscribe_EventOrder(t *testing.T) {
	c := NewConversationController(&fakeAnswerer{resp: textResponse("ok")})
	events, cancel := c.Subscribe(16)
	defer cancel()

	done, _ := c.Submit(context.Background(), "q")
	wait(t, done)

	want := []types.EventType{
		types.EventMessage, types.EventPending,
		types.EventMessage, types.EventSession, types.EventPending, types.EventDraft,
	}
	for i, w := range want {
		select {
		case ev := <-events:
			if ev.Type != w {
				t.Errorf("event %d = %s, want %s", i, ev.Type, w)
			}
			if i == 1 && !ev.Pending {
				t.Error("pending event after submit should carry pending=true")
			}
			if i == 4 && ev.Pending {
				t.Error("pending event after completion should carry pending=false")
			}
		case <-time.After(time.Second):
			t.Fatalf("missing event %d (%s)", i, w)
		}
	}
}

func TestSubscribe_CancelClosesChannel(t *testing.T) {
	c := NewConversationController(&fakeAnswerer{})
	events, cancel := c.Subscribe(1)
	cancel()
	cancel()
	if _, open := <-events; open {
		t.Error("channel should be closed after cancel")
	}
	c.SetDraft("no panic after cancel")
}

func TestSubmit_AgainstGeminiServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"a\n\n\nb  "}]}}]}`))
	}))
	defer srv.Close()

	c := NewConversationController(llm.NewGeminiClient(srv.URL, "key"))
	done, _ := c.Submit(context.Background(), "q")
	wait(t, done)
	if got := c.Messages()[1].Text; got != "a\nb" {
		t.Errorf("answer = %q, want %q", got, "a\nb")
	}

	srv.Close()
	done, _ = c.Submit(context.Background(), "offline")
	wait(t, done)
	snap := c.Snapshot()
	if got := snap.Messages[3].Text; got != textutils.FetchErrorAnswer {
		t.Errorf("answer = %q, want placeholder", got)
	}
	if snap.Pending {
		t.Error("pending should be false after network failure")
	}
}

func TestSubmit_UnexpectedJSONFallsBackToEllipsis(t *testing.T) {
	bodies := []string{
		`[]`,
		`"hi"`,
		`null`,
		`{"candidates":{}}`,
		`{"candidates":[null]}`,
		`{"candidates":[{"content":"x"}]}`,
		`{"candidates":[{"content":{"parts":"abc"}}]}`,
	}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			c := NewConversationController(llm.NewGeminiClient(srv.URL, "key"))
			done, _ := c.Submit(context.Background(), "q")
			wait(t, done)

			snap := c.Snapshot()
			if got := snap.Messages[1].Text; got != textutils.EmptyAnswer {
				t.Errorf("answer = %q, want %q", got, textutils.EmptyAnswer)
			}
			if len(snap.Sessions) != 1 {
				t.Errorf("len(sessions) = %d, want 1", len(snap.Sessions))
			}
		})
	}
}
