// AngelaMos | 2026
// client.go

package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/servicesync/backend/internal/config"
	"github.com/servicesync/backend/internal/core"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

// systemPrompt frames every user message before it goes upstream.
const systemPrompt = "You are a helpful Survey Sync assistant. " +
	"Help the user with services, navigation, and emergency contacts. " +
	"User says: "

var ErrNotConfigured = errors.New("assistant not configured")

type Client interface {
	Reply(ctx context.Context, message string) (string, error)
}

type geminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewGeminiClient(
	cfg config.AssistantConfig,
	logger *slog.Logger,
) Client {
	if cfg.APIKey == "" {
		logger.Warn("gemini api key is empty, chat is disabled")
	}

	return &geminiClient{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    geminiBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *geminiClient) Reply(
	ctx context.Context,
	message string,
) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	payload := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: systemPrompt + message}}},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	endpoint := fmt.Sprintf(
		"%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL,
		c.model,
		c.apiKey,
	)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		endpoint,
		bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("build generate request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("gemini request failed", "error", err)
		return "", core.UpstreamError("assistant")
	}
	defer resp.Body.Close() //nolint:errcheck // response body close

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read generate response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("gemini returned non-success status",
			"status", resp.StatusCode,
			"response", string(respBody),
		)
		return "", core.UpstreamError("assistant")
	}

	var result generateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		c.logger.Error("failed decoding gemini response", "error", err)
		return "", core.UpstreamError("assistant")
	}

	if len(result.Candidates) == 0 ||
		len(result.Candidates[0].Content.Parts) == 0 {
		c.logger.Error("gemini returned no candidates")
		return "", core.UpstreamError("assistant")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}
