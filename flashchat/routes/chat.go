package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"flashchat/flashchat/controllers"
	"flashchat/flashchat/types"
	"flashchat/flashchat/utils/logging"
	utiltypes "flashchat/flashchat/utils/types"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const wsEventBuffer = 64

// generic wrapper to reduce boilerplate
func handleJSON(handler func(r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, status, err := handler(r)
		if err != nil {
			logging.RequestLogger.Info("request failed",
				zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
			http.Error(w, err.Error(), status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(res)
	}
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

// snapshotFrame is the first frame on a websocket: the full state, after
// which only events follow.
type snapshotFrame struct {
	Type     string         `json:"type"`
	Snapshot types.Snapshot `json:"snapshot"`
}

func ChatRoutes(ctrl *controllers.ConversationController) chi.Router {
	r := chi.NewRouter()

	// the websocket below is long-lived, so only REST calls get a timeout
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		// POST /chat/ : submit a question
		r.Post("/", handleJSON(func(r *http.Request) (any, int, error) {
			var req utiltypes.ChatRequest
			if err := decode(r, &req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			_, ok := ctrl.Submit(r.Context(), req.Question)
			return utiltypes.ChatResponse{Accepted: ok}, http.StatusAccepted, nil
		}))

		r.Get("/messages", handleJSON(func(r *http.Request) (any, int, error) {
			return ctrl.Snapshot().Messages, http.StatusOK, nil
		}))

		r.Get("/sessions", handleJSON(func(r *http.Request) (any, int, error) {
			return ctrl.Snapshot().Sessions, http.StatusOK, nil
		}))

		r.Get("/state", handleJSON(func(r *http.Request) (any, int, error) {
			return ctrl.Snapshot(), http.StatusOK, nil
		}))

		r.Put("/draft", handleJSON(func(r *http.Request) (any, int, error) {
			var req utiltypes.DraftRequest
			if err := decode(r, &req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			ctrl.SetDraft(req.Text)
			return ctrl.Snapshot(), http.StatusOK, nil
		}))

		// POST /chat/key : forward a key press; only "enter" does anything
		r.Post("/key", handleJSON(func(r *http.Request) (any, int, error) {
			var req utiltypes.KeyRequest
			if err := decode(r, &req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			_, ok := ctrl.KeyPress(r.Context(), req.Key)
			return utiltypes.ChatResponse{Accepted: ok}, http.StatusAccepted, nil
		}))
	})

	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		events, unsubscribe := ctrl.Subscribe(wsEventBuffer)
		defer unsubscribe()

		if err := wsjson.Write(ctx, conn, snapshotFrame{Type: "snapshot", Snapshot: ctrl.Snapshot()}); err != nil {
			return
		}

		// client frames are questions
		go func() {
			defer cancel()
			for {
				var in utiltypes.ChatRequest
				if err := wsjson.Read(ctx, conn, &in); err != nil {
					return
				}
				ctrl.Submit(ctx, in.Question)
			}
		}()

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if err := wsjson.Write(ctx, conn, ev); err != nil {
					logging.RequestLogger.Info("websocket write failed", zap.Error(err))
					return
				}
			case <-ctx.Done():
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
		}
	})
	return r
}
