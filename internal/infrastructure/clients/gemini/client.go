package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/eventseekr/backend/pkg/config"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client calls the Google Generative Language API. It covers the two
// operations the search pipeline needs: text generation for query parsing
// and query embedding for semantic retrieval.
//
// The HTTP client carries no timeout. Callers bound calls through the
// request context; cancellation means the caller stops waiting, not an
// in-flight abort guarantee.
type Client struct {
	apiKey     string
	model      string
	embedModel string
	baseURL    string
	httpClient *http.Client
	limiter    *tokenBucket
}

// NewClient creates a new Gemini client.
func NewClient(cfg *config.GeminiConfig) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}
	embedModel := cfg.EmbeddingModel
	if embedModel == "" {
		embedModel = "embedding-001"
	}

	return &Client{
		apiKey:     cfg.APIKey,
		model:      model,
		embedModel: embedModel,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
		limiter:    newTokenBucket(cfg.RateLimitRPM, cfg.RateLimitBurst),
	}, nil
}

// SetBaseURL overrides the API endpoint. Used by tests to point the client
// at a local server.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
	Role  string         `json:"role,omitempty"`
}

type generateRequest struct {
	Contents         []generateContent `json:"contents"`
	GenerationConfig struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
}

// GenerateContent sends a prompt to the text model and returns the first
// candidate's text.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	payload := generateRequest{
		Contents: []generateContent{
			{Parts: []generatePart{{Text: prompt}}},
		},
	}
	payload.GenerationConfig.Temperature = 0.2

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))

	var envelope generateResponse
	if err := c.post(ctx, c.model, endpoint, payload, &envelope); err != nil {
		return "", err
	}

	for _, candidate := range envelope.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}
	return "", errors.New("gemini response missing candidate text")
}

type embedRequest struct {
	Model    string          `json:"model"`
	Content  generateContent `json:"content"`
	TaskType string          `json:"taskType"`
}

type embedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// EmbedQuery embeds a free-text search query.
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	payload := embedRequest{
		Model:    "models/" + c.embedModel,
		Content:  generateContent{Parts: []generatePart{{Text: text}}},
		TaskType: "RETRIEVAL_QUERY",
	}

	endpoint := fmt.Sprintf("%s/models/%s:embedContent", c.baseURL, url.PathEscape(c.embedModel))

	var envelope embedResponse
	if err := c.post(ctx, c.embedModel, endpoint, payload, &envelope); err != nil {
		return nil, err
	}

	if len(envelope.Embedding.Values) == 0 {
		return nil, errors.New("gemini response missing embedding values")
	}
	return envelope.Embedding.Values, nil
}

func (c *Client) post(ctx context.Context, model, endpoint string, payload any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			recordGeminiMetric(ctx, model, 0, 0, err)
			return err
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordGeminiMetric(ctx, model, 0, time.Since(start), err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("gemini request failed with status %d", resp.StatusCode)
		recordGeminiMetric(ctx, model, resp.StatusCode, time.Since(start), err)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		recordGeminiMetric(ctx, model, resp.StatusCode, time.Since(start), err)
		return err
	}

	recordGeminiMetric(ctx, model, resp.StatusCode, time.Since(start), nil)
	return nil
}

func newTokenBucket(rpm int, burst int) *tokenBucket {
	if rpm == 0 {
		rpm = 60
	}
	if rpm < 0 {
		return nil
	}
	if burst <= 0 {
		burst = 5
	}
	return newTokenBucketWithRate(rpm, burst)
}

type tokenBucket struct {
	tokens chan struct{}
}

func newTokenBucketWithRate(rpm int, burst int) *tokenBucket {
	bucket := &tokenBucket{
		tokens: make(chan struct{}, burst),
	}

	for i := 0; i < burst; i++ {
		bucket.tokens <- struct{}{}
	}

	interval := time.Minute / time.Duration(rpm)
	if interval <= 0 {
		interval = time.Millisecond
	}

	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			select {
			case bucket.tokens <- struct{}{}:
			default:
			}
		}
	}()

	return bucket
}

func (b *tokenBucket) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.tokens:
		return nil
	}
}
