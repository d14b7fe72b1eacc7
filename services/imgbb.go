package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"social-studio-backend/internal/ai"
)

// ImageHost uploads image files to an external hosting service (ImgBB) and
// returns a public URL. Uploaded bytes stay on the host; deleting the local
// record later does not remove them.
type ImageHost struct {
	httpClient *http.Client
	baseURL    string
	apiKey     func() string
}

// NewImageHost builds the ImgBB client. apiKey is invoked per call.
func NewImageHost(baseURL string, apiKey func() string) *ImageHost {
	return &ImageHost{
		httpClient: &http.Client{Timeout: time.Minute},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

type imgbbResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Upload sends one image and returns its hosted URL.
func (h *ImageHost) Upload(ctx context.Context, name string, file io.Reader) (string, error) {
	key := h.apiKey()
	if key == "" {
		return "", fmt.Errorf("IMGBB_API_KEY not set: %w", ai.ErrMissingCredential)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fileWriter, err := writer.CreateFormFile("image", name)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(fileWriter, file); err != nil {
		return "", fmt.Errorf("failed to copy file data: %w", err)
	}
	writer.Close()

	params := url.Values{"key": {key}, "name": {name}}
	uploadURL := h.baseURL + "/1/upload?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "POST", uploadURL, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("image host returned status %d: %s: %w", resp.StatusCode, string(body), ai.ErrUpstream)
	}

	var hosted imgbbResponse
	if err := json.NewDecoder(resp.Body).Decode(&hosted); err != nil {
		return "", fmt.Errorf("failed to decode image host response: %w", err)
	}
	if !hosted.Success || hosted.Data.URL == "" {
		return "", fmt.Errorf("image host rejected upload (status %d): %w", hosted.Status, ai.ErrUpstream)
	}
	return hosted.Data.URL, nil
}
