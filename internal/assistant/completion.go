package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ErrNoCompletionText is returned when the service answers without any
// extractable candidate text.
var ErrNoCompletionText = errors.New("completion response has no text")

// Completer turns a prompt into generated text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GeminiClient calls the generateContent endpoint of the Generative Language API.
type GeminiClient struct {
	Endpoint   string
	Model      string
	APIKey     string
	HTTPClient *http.Client
}

// NewGeminiClient constructs a client; the API key is sent as a query parameter.
func NewGeminiClient(endpoint, model, apiKey string, client *http.Client) *GeminiClient {
	if client == nil {
		client = &http.Client{}
	}
	return &GeminiClient{Endpoint: endpoint, Model: model, APIKey: apiKey, HTTPClient: client}
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

func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload := generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s",
		strings.TrimRight(g.Endpoint, "/"), g.Model, url.QueryEscape(g.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("completion http error: %s", resp.Status)
	}

	var res generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", err
	}
	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 || res.Candidates[0].Content.Parts[0].Text == "" {
		return "", ErrNoCompletionText
	}
	return res.Candidates[0].Content.Parts[0].Text, nil
}
