package query

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eventseekr/backend/internal/domain/entities"
	"github.com/eventseekr/backend/internal/infrastructure/clients/gemini"
	apperrors "github.com/eventseekr/backend/pkg/errors"
)

// GeminiParser delegates query interpretation to the Gemini text model. Any
// call or parse failure is returned to the caller, which falls back to the
// heuristic strategy for that request.
type GeminiParser struct {
	client *gemini.Client
}

// NewGeminiParser creates an AI-backed query parser.
func NewGeminiParser(client *gemini.Client) *GeminiParser {
	return &GeminiParser{client: client}
}

// Name identifies the strategy in logs.
func (p *GeminiParser) Name() string { return "gemini" }

// parsedQueryPayload mirrors the JSON object the model is instructed to
// return. Filter values arrive as strings so that both JSON null and the
// literal string "null" normalize the same way.
type parsedQueryPayload struct {
	SemanticQuery string `json:"semanticQuery"`
	Filters       struct {
		Cost     string `json:"cost"`
		Category string `json:"category"`
	} `json:"filters"`
}

// Parse sends the raw query plus the observed category labels to the model
// and decodes the JSON response.
func (p *GeminiParser) Parse(ctx context.Context, raw string, categories []string) (*entities.ParsedQuery, error) {
	prompt := buildParserPrompt(raw, categories)

	text, err := p.client.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, apperrors.NewExternalError("gemini query parsing failed", err)
	}

	cleaned := stripCodeFences(text)

	var payload parsedQueryPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode gemini response: %w", err)
	}

	return &entities.ParsedQuery{
		SemanticQuery: strings.TrimSpace(payload.SemanticQuery),
		Filters: entities.Filters{
			Cost:     normalizeNull(payload.Filters.Cost),
			Category: normalizeNull(payload.Filters.Category),
		},
	}, nil
}

// stripCodeFences removes Markdown code-block markers the model sometimes
// wraps around its JSON.
func stripCodeFences(text string) string {
	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// normalizeNull maps the literal string "null" to the empty value. Models
// occasionally emit it in place of JSON null.
func normalizeNull(value string) string {
	if strings.EqualFold(strings.TrimSpace(value), "null") {
		return ""
	}
	return strings.TrimSpace(value)
}
