package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
)

const captionSystemPrompt = "You are a professional social media content and design assistant."

// PostPlan is one caption plan returned by the text model: everything needed
// to assemble a post except the rendered image.
type PostPlan struct {
	Caption     string   `json:"caption"`
	Hashtags    []string `json:"hashtags"`
	ImagePrompt string   `json:"image_prompt"`
	LayoutNotes string   `json:"layout_notes,omitempty"`
}

// CaptionClient talks to an OpenAI-compatible chat completions endpoint. The
// API key is read at call time so key rotation through the env endpoints
// takes effect without restart.
type CaptionClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
	maxTokens  int
	apiKey     func() string
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
}

// NewCaptionClient builds the caption client. apiKey is invoked per call.
func NewCaptionClient(baseURL, model string, apiKey func() string) *CaptionClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "CaptionAPI",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
	})

	return &CaptionClient{
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		maxTokens:  600,
		apiKey:     apiKey,
		breaker:    breaker,
		limiter:    rate.NewLimiter(rate.Limit(1), 3),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GeneratePlans sends the prompt once and validates the answer as a JSON
// array of post plans. The count of plans is whatever the model returned.
func (c *CaptionClient) GeneratePlans(ctx context.Context, prompt string) ([]PostPlan, error) {
	key := c.apiKey()
	if key == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set: %w", ErrMissingCredential)
	}

	tracer := otel.Tracer("caption-client")
	ctx, span := tracer.Start(ctx, "caption.generate_plans")
	defer span.End()
	span.SetAttributes(
		attribute.String("caption.model", c.model),
		attribute.Int("caption.prompt_chars", len(prompt)),
	)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.complete(ctx, key, prompt)
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("caption.error", true))
		return nil, err
	}

	plans, err := ParsePostPlans(result.(string))
	if err != nil {
		span.SetAttributes(attribute.Bool("caption.bad_output", true))
		return nil, err
	}
	span.SetAttributes(attribute.Int("caption.plans", len(plans)))
	return plans, nil
}

func (c *CaptionClient) complete(ctx context.Context, key, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: captionSystemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("completion request returned status %d: %s: %w", resp.StatusCode, string(raw), ErrUpstream)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("completion response has no choices: %w", ErrUpstream)
	}
	return strings.TrimSpace(chat.Choices[0].Message.Content), nil
}

// ParsePostPlans validates raw model output as a JSON array of objects each
// carrying caption, hashtags and image_prompt. A leading markdown code fence
// is tolerated; anything else malformed fails with the raw text attached.
func ParsePostPlans(raw string) ([]PostPlan, error) {
	text := stripCodeFence(raw)

	var items []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("%w: not a JSON array of objects (%v); raw output: %s", ErrBadOutput, err, raw)
	}
	for i, item := range items {
		for _, key := range []string{"caption", "hashtags", "image_prompt"} {
			if _, ok := item[key]; !ok {
				return nil, fmt.Errorf("%w: item %d is missing key %q; raw output: %s", ErrBadOutput, i, key, raw)
			}
		}
	}

	var plans []PostPlan
	if err := json.Unmarshal([]byte(text), &plans); err != nil {
		return nil, fmt.Errorf("%w: %v; raw output: %s", ErrBadOutput, err, raw)
	}
	return plans, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
