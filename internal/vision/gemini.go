package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrUnauthorized means the API key was rejected. Permanent: retrying
// with the same credentials cannot succeed.
var ErrUnauthorized = errors.New("vision: api key rejected")

var tracer = otel.Tracer("geolensbot/vision")

type Client struct {
	BaseURL    string
	APIKey     string
	Model      string
	MaxRetries int
	Backoff    time.Duration

	http *http.Client
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if model == "" {
		model = "gemini-2.5-pro"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
		MaxRetries: 3,
		Backoff:    time.Second,
		http:       &http.Client{Timeout: timeout},
	}
}

// GPS holds coordinates read off the image.
type GPS struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Analysis is the structured verdict for one image.
type Analysis struct {
	GPS     *GPS   `json:"gps"`
	Date    string `json:"date"`
	Address string `json:"address"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Promo   string `json:"promo"`
}

// Kind classifies the verdict for the history log.
func (a *Analysis) Kind() string {
	switch {
	case a.GPS != nil:
		return "gps"
	case a.Promo != "":
		return "promo"
	case a.Error != "":
		return "error"
	default:
		return "empty"
	}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

func (r *generateResponse) joinText() string {
	var sb strings.Builder
	for _, cand := range r.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// Analyze submits one image and returns the parsed verdict.
// Transient failures (network, 429, 5xx) are retried with backoff;
// a rejected API key surfaces ErrUnauthorized immediately.
func (c *Client) Analyze(ctx context.Context, image []byte, mimeType string) (_ *Analysis, err error) {
	ctx, span := tracer.Start(ctx, "vision.Analyze", trace.WithAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", c.Model),
		attribute.Int("image.bytes", len(image)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	payload := generateRequest{
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{Text: analysisPrompt},
				{InlineData: &inlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(image),
				}},
			},
		}},
		GenerationConfig: generationConfig{ResponseMIMEType: "application/json"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	text, err := c.generate(ctx, body)
	if err != nil {
		return nil, err
	}

	// The model occasionally wraps the payload in a markdown fence
	// despite the JSON response MIME type.
	text = stripFence(text)

	var result Analysis
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("vision: bad verdict payload: %w", err)
	}
	return &result, nil
}

func (c *Client) generate(ctx context.Context, body []byte) (string, error) {
	endpoint := strings.TrimRight(c.BaseURL, "/") +
		"/models/" + url.PathEscape(c.Model) + ":generateContent"

	var lastErr error
	for attempt := 0; attempt <= c.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.Backoff << (attempt - 1)):
			}
		}

		text, retryable, err := c.doRequest(ctx, endpoint, body)
		if err == nil {
			return text, nil
		}
		if !retryable {
			return "", err
		}
		lastErr = err
	}
	return "", fmt.Errorf("vision: giving up after %d attempts: %w", c.MaxRetries+1, lastErr)
}

func (c *Client) doRequest(ctx context.Context, endpoint string, body []byte) (text string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("vision: gemini connection failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", false, ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", true, fmt.Errorf("vision: gemini error: %s", resp.Status)
	case resp.StatusCode != http.StatusOK:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", false, fmt.Errorf("vision: gemini error: %s: %s", resp.Status, data)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", false, fmt.Errorf("vision: decode response: %w", err)
	}
	joined := result.joinText()
	if joined == "" {
		return "", false, errors.New("vision: empty response")
	}
	return joined, false, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
