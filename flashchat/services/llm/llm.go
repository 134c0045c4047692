// flashchat/services/llm/llm.go
package llm

import "encoding/json"

type Part struct {
	Text string `json:"text"`
}

type Content struct {
	Parts []Part `json:"parts"`
}

// GenerateRequest is the generateContent request body:
// {"contents":[{"parts":[{"text": ...}]}]}
type GenerateRequest struct {
	Contents []Content `json:"contents"`
}

func NewGenerateRequest(prompt string) GenerateRequest {
	return GenerateRequest{Contents: []Content{{Parts: []Part{{Text: prompt}}}}}
}

type Candidate struct {
	Content Content `json:"content"`
}

type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// UnmarshalJSON accepts any JSON value. Only candidates[0].content.parts[0].text
// is kept, and only when every step of that path has the expected shape;
// anything else decodes to an empty response rather than an error.
func (r *GenerateResponse) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = GenerateResponse{}
	if text, ok := firstText(raw); ok {
		r.Candidates = []Candidate{{Content: Content{Parts: []Part{{Text: text}}}}}
	}
	return nil
}

func firstText(raw any) (string, bool) {
	obj, _ := raw.(map[string]any)
	candidates, _ := obj["candidates"].([]any)
	if len(candidates) == 0 {
		return "", false
	}
	candidate, _ := candidates[0].(map[string]any)
	content, _ := candidate["content"].(map[string]any)
	parts, _ := content["parts"].([]any)
	if len(parts) == 0 {
		return "", false
	}
	part, _ := parts[0].(map[string]any)
	text, ok := part["text"].(string)
	return text, ok
}

// FirstText returns candidates[0].content.parts[0].text if the response has it.
func (r *GenerateResponse) FirstText() (string, bool) {
	if r == nil || len(r.Candidates) == 0 {
		return "", false
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", false
	}
	return parts[0].Text, true
}
