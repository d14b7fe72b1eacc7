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

// ImageRequest describes one image generation call.
type ImageRequest struct {
	Prompt          string
	ReferenceImages []string
	AspectRatio     string
	OutputFormat    string
}

// ImageClient talks to the Replicate prediction API for one hosted model.
// Predictions are requested with the blocking "Prefer: wait" mode, so a call
// returns the finished output or an error.
type ImageClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiToken   func() string
	breaker    *gobreaker.CircuitBreaker
	limiter    *rate.Limiter
}

// NewImageClient builds the image client for a model like "google/nano-banana".
// apiToken is invoked per call.
func NewImageClient(baseURL, model string, apiToken func() string) *ImageClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "ImageAPI",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
	})

	return &ImageClient{
		httpClient: &http.Client{Timeout: 5 * time.Minute}, // rendering can take a while
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiToken:   apiToken,
		breaker:    breaker,
		limiter:    rate.NewLimiter(rate.Limit(1), 2),
	}
}

type predictionInput struct {
	Prompt       string   `json:"prompt"`
	ImageInput   []string `json:"image_input"`
	AspectRatio  string   `json:"aspect_ratio"`
	OutputFormat string   `json:"output_format"`
}

type predictionResponse struct {
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  any             `json:"error"`
}

// Generate renders one image and returns its hosted URL.
func (c *ImageClient) Generate(ctx context.Context, req ImageRequest) (string, error) {
	token := c.apiToken()
	if token == "" {
		return "", fmt.Errorf("REPLICATE_API_TOKEN not set: %w", ErrMissingCredential)
	}

	tracer := otel.Tracer("image-client")
	ctx, span := tracer.Start(ctx, "image.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("image.model", c.model),
		attribute.Int("image.reference_images", len(req.ReferenceImages)),
		attribute.String("image.aspect_ratio", req.AspectRatio),
	)

	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.predict(ctx, token, req)
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("image.error", true))
		return "", err
	}
	return result.(string), nil
}

func (c *ImageClient) predict(ctx context.Context, token string, req ImageRequest) (string, error) {
	refs := req.ReferenceImages
	if refs == nil {
		refs = []string{}
	}
	body, err := json.Marshal(map[string]predictionInput{
		"input": {
			Prompt:       req.Prompt,
			ImageInput:   refs,
			AspectRatio:  req.AspectRatio,
			OutputFormat: req.OutputFormat,
		},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v1/models/%s/predictions", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create prediction request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Prefer", "wait")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("prediction returned status %d: %s: %w", resp.StatusCode, string(raw), ErrUpstream)
	}

	var pred predictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return "", fmt.Errorf("failed to decode prediction response: %w", err)
	}
	if pred.Error != nil {
		return "", fmt.Errorf("prediction failed: %v: %w", pred.Error, ErrUpstream)
	}
	return ExtractImageURL(pred.Output)
}

// ExtractImageURL normalizes the polymorphic prediction output into a single
// URL. The service has returned, depending on model and version: a raw URL
// string, an object with a url field, or an array of either. The first
// usable URL wins.
func ExtractImageURL(output json.RawMessage) (string, error) {
	if len(output) == 0 {
		return "", fmt.Errorf("%w: prediction output is empty", ErrBadOutput)
	}

	var asString string
	if err := json.Unmarshal(output, &asString); err == nil {
		if asString == "" {
			return "", fmt.Errorf("%w: prediction output is an empty string", ErrBadOutput)
		}
		return asString, nil
	}

	var asObject struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(output, &asObject); err == nil && asObject.URL != "" {
		return asObject.URL, nil
	}

	var asList []json.RawMessage
	if err := json.Unmarshal(output, &asList); err == nil && len(asList) > 0 {
		return ExtractImageURL(asList[0])
	}

	return "", fmt.Errorf("%w: unrecognized prediction output shape: %s", ErrBadOutput, string(output))
}
