package geminiservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// --- Gemini API Configuration ---
const (
	DefaultBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel       = "gemini-2.5-flash"
	structuredMimeType = "application/json"
	apiKeyHeader       = "x-goog-api-key"
	credentialEnv      = "GEMINI_API_KEY"
	maxErrorBody       = 4 << 10
)

// --- Structs for Gemini API Request/Response ---

type GeminiPayload struct {
	Contents          []GeminiContent   `json:"contents"`
	SystemInstruction *GeminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

type GeminiPart struct {
	Text string `json:"text,omitempty"`
}

type GenerationConfig struct {
	ResponseMimeType string        `json:"responseMimeType"`
	ResponseSchema   *GeminiSchema `json:"responseSchema,omitempty"`
}

type GeminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// GatewayConfig carries everything the gateway needs. Empty Model and
// BaseURL fall back to the defaults; a nil HTTPClient uses http.DefaultClient.
type GatewayConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Gateway is the single integration point with the Gemini API.
// It is stateless between calls and safe for concurrent use.
type Gateway struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGateway refuses to construct without a credential.
func NewGateway(cfg GatewayConfig) (*Gateway, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, &CredentialError{Env: credentialEnv, Err: ErrMissingCredential}
	}

	g := &Gateway{
		apiKey:  apiKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  cfg.HTTPClient,
	}
	if g.model == "" {
		g.model = DefaultModel
	}
	if g.baseURL == "" {
		g.baseURL = DefaultBaseURL
	}
	if g.client == nil {
		g.client = http.DefaultClient
	}
	return g, nil
}

// Model returns the model identifier sent with every call.
func (g *Gateway) Model() string { return g.model }

// Invoke sends one (prompt, schema) pair and returns the raw text of the
// first candidate. There is exactly one attempt per call.
func (g *Gateway) Invoke(ctx context.Context, prompt string, schema *GeminiSchema) (string, error) {
	log := zerolog.Ctx(ctx)

	payload := GeminiPayload{
		SystemInstruction: &GeminiContent{
			Parts: []GeminiPart{{Text: SystemPrompt}},
		},
		Contents: []GeminiContent{
			{Role: "user", Parts: []GeminiPart{{Text: prompt}}},
		},
		GenerationConfig: &GenerationConfig{
			ResponseMimeType: structuredMimeType,
			ResponseSchema:   schema,
		},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", &GenerationError{Err: fmt.Errorf("failed to marshal payload: %w", err)}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payloadBytes))
	if err != nil {
		return "", &GenerationError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, g.apiKey)

	start := time.Now()
	log.Info().Str("model", g.model).Msg("Calling Gemini API...")

	resp, err := g.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Dur("duration", time.Since(start)).Msg("Gemini request failed")
		return "", &GenerationError{Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		err := fmt.Errorf("API returned non-200 status: %s, Body: %s", resp.Status, strings.TrimSpace(string(body)))
		log.Warn().Err(err).Dur("duration", time.Since(start)).Msg("Gemini rejected the request")
		return "", &GenerationError{Err: err}
	}

	var geminiResp GeminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", &GenerationError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		if geminiResp.PromptFeedback != nil && geminiResp.PromptFeedback.BlockReason != "" {
			return "", &GenerationError{Err: fmt.Errorf("prompt blocked: %s", geminiResp.PromptFeedback.BlockReason)}
		}
		return "", &GenerationError{Err: fmt.Errorf("no content found in Gemini response")}
	}

	// The structured reply may be split across parts.
	var text strings.Builder
	for _, part := range geminiResp.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	log.Info().Dur("duration", time.Since(start)).Int("bytes", text.Len()).Msg("Gemini call succeeded")
	return text.String(), nil
}
