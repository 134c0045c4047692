// flashchat/utils/types/chat.go
package types

type ChatRequest struct {
	Question string `json:"question"`
}

type ChatResponse struct {
	Accepted bool `json:"accepted"`
}

type DraftRequest struct {
	Text string `json:"text"`
}

type KeyRequest struct {
	Key string `json:"key"`
}
