package controllers

import (
	"encoding/json"
	"net/http"
)

type HealthController struct {
	chat *ConversationController
}

func NewHealthController(chat *ConversationController) *HealthController {
	return &HealthController{chat: chat}
}

func (h *HealthController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"pending": h.chat.Pending(),
	})
}
