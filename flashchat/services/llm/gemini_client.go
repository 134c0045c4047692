package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	httputils "flashchat/flashchat/utils/http"
	"flashchat/flashchat/utils/logging"

	"go.uber.org/zap"
)

// APIKeyHeader carries the credential on every request.
const APIKeyHeader = "X-goog-api-key"

var ErrNoEndpoint = errors.New("gemini endpoint not configured")

type GeminiClient struct {
	url    string
	apiKey string
	http   *http.Client
}

// NewGeminiClient returns a client for a generateContent endpoint. The API
// key is sent verbatim; an empty key is allowed and left to the server.
func NewGeminiClient(url, apiKey string) *GeminiClient {
	return &GeminiClient{
		url:    url,
		apiKey: apiKey,
		// no Timeout: the transport's own limits are the only ones
		http: &http.Client{},
	}
}

// Generate sends prompt as a single-part request and decodes the reply.
// Any status with a JSON body is returned as a response; a body that is not
// JSON is an error.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (*GenerateResponse, error) {
	defer logging.LogDuration(ctx, "gemini_generate")()

	if c.url == "" {
		return nil, ErrNoEndpoint
	}

	status, body, err := httputils.PostJSON(ctx, c.http, c.url,
		map[string]string{APIKeyHeader: c.apiKey},
		NewGenerateRequest(prompt),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	if status < 200 || status > 299 {
		logging.AppLogger.Warn("gemini returned non-2xx status",
			zap.Int("status", status), zap.ByteString("body", truncate(body, 512)))
	}

	var parsed GenerateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode gemini response (status %d): %w", status, err)
	}
	return &parsed, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
