package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultOpenAIBaseURL = "https://api.openai.com"

// KeyResolver returns the current API key for an engine
type KeyResolver func() string

// ModelResolver returns the current model name; empty means the default
type ModelResolver func() string

// OpenAISummarizer summarizes transcripts using the OpenAI Chat API
type OpenAISummarizer struct {
	baseURL       string
	apiKey        KeyResolver
	modelResolver ModelResolver
	httpClient    *http.Client
	limiter       *rate.Limiter
	logger        *slog.Logger
}

func NewOpenAISummarizer(baseURL string, apiKey KeyResolver, modelResolver ModelResolver, limiter *rate.Limiter, logger *slog.Logger) *OpenAISummarizer {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAISummarizer{
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiKey:        apiKey,
		modelResolver: modelResolver,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		limiter: limiter,
		logger:  logger.With("component", "openai-summary"),
	}
}

func (o *OpenAISummarizer) Name() string {
	return "openai"
}

func (o *OpenAISummarizer) currentModel() string {
	if o.modelResolver != nil {
		if m := o.modelResolver(); m != "" {
			return m
		}
	}
	return "gpt-4o"
}

func (o *OpenAISummarizer) Summarize(ctx context.Context, req Request) (string, error) {
	key := ""
	if o.apiKey != nil {
		key = o.apiKey()
	}
	if key == "" {
		return "", ErrMissingCredential
	}

	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	model := o.currentModel()
	o.logger.Info("requesting summary", "model", model, "chars", len(req.Transcript), "lang", req.Lang)

	reqBody := map[string]interface{}{
		"model": model,
		"messages": []map[string]string{
			{"role": "system", "content": SystemPrompt(req.OutputLanguage)},
			{"role": "user", "content": UserPrompt(req.Transcript, req.Lang)},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/v1/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+key)

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("OpenAI API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Provider: "OpenAI", StatusCode: resp.StatusCode, Body: errorMessage(body)}
	}

	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
	}

	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	if len(chatResp.Choices) == 0 || strings.TrimSpace(chatResp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty OpenAI response")
	}
	if fr := chatResp.Choices[0].FinishReason; fr != "" && fr != "stop" {
		o.logger.Warn("summary may be incomplete", "finish_reason", fr)
	}

	return chatResp.Choices[0].Message.Content, nil
}

// errorMessage pulls error.message out of a provider error body, falling
// back to the raw body.
func errorMessage(body []byte) string {
	var wrapped struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error.Message != "" {
		return wrapped.Error.Message
	}
	return strings.TrimSpace(string(body))
}
