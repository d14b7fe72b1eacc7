package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"social-studio-backend/internal/ai"
	"social-studio-backend/internal/logger"
	"social-studio-backend/models"
)

// EmailSender delivers finalize notifications. The Brevo implementation is
// used when a mail API key is configured; the log sender otherwise.
type EmailSender interface {
	Send(ctx context.Context, toEmail, toName, subject, htmlBody string) error
}

// BrevoSender sends transactional email through the Brevo API.
type BrevoSender struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      func() string
	senderName  string
	senderEmail string
}

func NewBrevoSender(baseURL, senderName, senderEmail string, apiKey func() string) *BrevoSender {
	return &BrevoSender{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		senderName:  senderName,
		senderEmail: senderEmail,
	}
}

type brevoParty struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type brevoEmailRequest struct {
	Sender      brevoParty   `json:"sender"`
	To          []brevoParty `json:"to"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent"`
}

func (s *BrevoSender) Send(ctx context.Context, toEmail, toName, subject, htmlBody string) error {
	key := s.apiKey()
	if key == "" {
		return fmt.Errorf("MAIL_API_KEY not set: %w", ai.ErrMissingCredential)
	}
	if toEmail == "" {
		return fmt.Errorf("no recipient email address")
	}

	body, err := json.Marshal(brevoEmailRequest{
		Sender:      brevoParty{Name: s.senderName, Email: s.senderEmail},
		To:          []brevoParty{{Name: toName, Email: toEmail}},
		Subject:     subject,
		HTMLContent: htmlBody,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/v3/smtp/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", key)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mail request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("mail service returned status %d: %s: %w", resp.StatusCode, string(raw), ai.ErrUpstream)
	}
	return nil
}

// LogSender writes the notification to the structured log instead of
// delivering it. Used when no mail key is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, toEmail, toName, subject, htmlBody string) error {
	logger.Info("Email delivery skipped (no mail key configured)",
		"to", toEmail, "name", toName, "subject", subject, "body_chars", len(htmlBody))
	return nil
}

// AutoSender picks the Brevo sender when a mail key is configured at send
// time and falls back to logging the notification otherwise.
type AutoSender struct {
	Brevo  *BrevoSender
	Log    LogSender
	HasKey func() bool
}

func (s AutoSender) Send(ctx context.Context, toEmail, toName, subject, htmlBody string) error {
	if s.HasKey() {
		return s.Brevo.Send(ctx, toEmail, toName, subject, htmlBody)
	}
	return s.Log.Send(ctx, toEmail, toName, subject, htmlBody)
}

var finalizeTemplate = template.Must(template.New("finalize").Parse(`<html><body>
<h2>Your posts are approved and ready</h2>
<p>Hello {{.ClientName}},</p>
<p>The following posts have been finalized:</p>
{{range .Posts}}<hr>
<p>{{.Caption}}</p>
<p><em>{{range .Hashtags}}{{.}} {{end}}</em></p>
<p><a href="{{.ImageURL}}">{{.ImageURL}}</a></p>
{{end}}
</body></html>`))

// BuildFinalizeEmail renders the notification body listing each finalized
// post's caption, hashtags and image URL.
func BuildFinalizeEmail(clientName string, posts []models.Post) (string, error) {
	var buf bytes.Buffer
	err := finalizeTemplate.Execute(&buf, struct {
		ClientName string
		Posts      []models.Post
	}{ClientName: clientName, Posts: posts})
	if err != nil {
		return "", fmt.Errorf("failed to render finalize email: %w", err)
	}
	return buf.String(), nil
}
