package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/reflectai/reflect-backend/internal/apperrors"
	"github.com/reflectai/reflect-backend/internal/models"
)

// Analyzer produces a structured reflection for free journal text.
// Single request, single response: no retries, no streaming, no caching.
type Analyzer interface {
	// Configured reports whether a service credential is present. Callers
	// must check this before AnalyzeEntry so that a missing credential never
	// results in a network call.
	Configured() bool
	AnalyzeEntry(ctx context.Context, text string) (models.AIAnalysis, error)
}

// GeminiClient calls the Gemini generateContent endpoint requesting JSON
// output constrained to the AIAnalysis shape.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGeminiClient builds a client. An empty apiKey is allowed; the client
// then reports Configured() == false and refuses to call out.
func NewGeminiClient(apiKey, model, baseURL string) *GeminiClient {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	return &GeminiClient{
		apiKey:  strings.TrimSpace(apiKey),
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *GeminiClient) Configured() bool {
	return g.apiKey != ""
}

/* ---------------- Gemini payloads ---------------- */

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiSchema struct {
	Type        string                   `json:"type"`
	Description string                   `json:"description,omitempty"`
	Enum        []string                 `json:"enum,omitempty"`
	Properties  map[string]*geminiSchema `json:"properties,omitempty"`
	Items       *geminiSchema            `json:"items,omitempty"`
	Required    []string                 `json:"required,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseMIMEType string        `json:"responseMimeType"`
	ResponseSchema   *geminiSchema `json:"responseSchema"`
}

type geminiRequest struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// analysisSchema constrains the model output to the four AIAnalysis fields,
// with sentiment restricted to the four-value enumeration.
func analysisSchema() *geminiSchema {
	return &geminiSchema{
		Type: "OBJECT",
		Properties: map[string]*geminiSchema{
			"sentiment": {
				Type:        "STRING",
				Enum:        []string{"Positive", "Neutral", "Negative", "Mixed"},
				Description: "The overall emotional tone of the journal entry.",
			},
			"summary": {
				Type:        "STRING",
				Description: "A concise 1-sentence summary of the entry.",
			},
			"advice": {
				Type:        "STRING",
				Description: "A short, supportive piece of advice relevant to the entry.",
			},
			"tags": {
				Type:        "ARRAY",
				Items:       &geminiSchema{Type: "STRING"},
				Description: "3-5 relevant thematic tags.",
			},
		},
		Required: []string{"sentiment", "summary", "advice", "tags"},
	}
}

// AnalyzeEntry sends text to Gemini and parses the structured result.
// Fails with an analysis error when the credential is absent, the call
// fails, or the payload is empty or unparseable. Repeated calls with
// identical input re-invoke the backend.
func (g *GeminiClient) AnalyzeEntry(ctx context.Context, text string) (models.AIAnalysis, error) {
	if !g.Configured() {
		return models.AIAnalysis{}, apperrors.New(apperrors.CodeAnalysis,
			"AI API key is missing. Set GEMINI_API_KEY.")
	}

	prompt := fmt.Sprintf(`Analyze the following journal entry providing a sentiment, summary, supportive advice, and tags.

Entry: %q`, text)

	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		SystemInstruction: &geminiContent{Parts: []geminiPart{{
			Text: "You are an empathetic, insightful journaling assistant. Your goal is to help the user reflect on their day.",
		}}},
		GenerationConfig: geminiGenerationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   analysisSchema(),
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return models.AIAnalysis{}, apperrors.Wrap(apperrors.CodeAnalysis, "Failed to encode request", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return models.AIAnalysis{}, apperrors.Wrap(apperrors.CodeAnalysis, "Failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return models.AIAnalysis{}, apperrors.Wrap(apperrors.CodeAnalysis, "Failed to reach AI backend", err)
	}
	defer resp.Body.Close()

	slurp, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return models.AIAnalysis{}, apperrors.New(apperrors.CodeAnalysis,
			fmt.Sprintf("AI backend returned status %d", resp.StatusCode))
	}

	var gr geminiResponse
	if err := json.Unmarshal(slurp, &gr); err != nil {
		return models.AIAnalysis{}, apperrors.Wrap(apperrors.CodeAnalysis, "Bad AI response", err)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return models.AIAnalysis{}, apperrors.New(apperrors.CodeAnalysis, "Empty response from AI")
	}

	content := strings.TrimSpace(gr.Candidates[0].Content.Parts[0].Text)
	if content == "" {
		return models.AIAnalysis{}, apperrors.New(apperrors.CodeAnalysis, "Empty response from AI")
	}

	// The backend is not guaranteed to honor the schema; validate at the
	// boundary rather than trusting the payload.
	var analysis models.AIAnalysis
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return models.AIAnalysis{}, apperrors.Wrap(apperrors.CodeAnalysis, "Unparseable AI response", err)
	}
	if !analysis.Sentiment.Valid() {
		return models.AIAnalysis{}, apperrors.New(apperrors.CodeAnalysis,
			fmt.Sprintf("AI returned unknown sentiment %q", analysis.Sentiment))
	}
	if analysis.Summary == "" && analysis.Advice == "" && len(analysis.Tags) == 0 {
		return models.AIAnalysis{}, apperrors.New(apperrors.CodeAnalysis, "Empty analysis from AI")
	}

	return analysis, nil
}
