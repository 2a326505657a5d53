package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiBackend calls the Gemini API through the genai SDK.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// GeminiFactory returns a BackendFactory for the Gemini API. Empty model and baseURL
// select the defaults.
func GeminiFactory(model, baseURL string, httpClient *http.Client) BackendFactory {
	if model == "" {
		model = DefaultGeminiModel
	}
	return func(ctx context.Context, credential string) (Backend, error) {
		cfg := &genai.ClientConfig{
			APIKey:     credential,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: httpClient,
		}
		if baseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
		}
		client, err := genai.NewClient(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create genai client: %w", err)
		}
		return &GeminiBackend{client: client, model: model}, nil
	}
}

func (b *GeminiBackend) Name() string {
	return "gemini"
}

func (b *GeminiBackend) Generate(ctx context.Context, req Request) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.ThinkingBudget != nil {
		config.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(*req.ThinkingBudget),
		}
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(req.Prompt), config)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
			return "", fmt.Errorf("%w: %s", ErrInvalidCredential, apiErr.Message)
		}
		return "", err
	}
	return resp.Text(), nil
}
