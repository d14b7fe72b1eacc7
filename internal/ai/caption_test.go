package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const twoPlans = `[
  {"caption": "First", "hashtags": ["#a"], "image_prompt": "a scene"},
  {"caption": "Second", "hashtags": ["#b", "#c"], "image_prompt": "another scene", "layout_notes": "logo top left"}
]`

func TestParsePostPlans(t *testing.T) {
	plans, err := ParsePostPlans(twoPlans)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(plans))
	}
	if plans[0].Caption != "First" || plans[1].LayoutNotes != "logo top left" {
		t.Fatalf("plans mangled: %+v", plans)
	}
}

func TestParsePostPlansStripsCodeFence(t *testing.T) {
	fenced := "```json\n" + twoPlans + "\n```"
	plans, err := ParsePostPlans(fenced)
	if err != nil {
		t.Fatalf("parse fenced: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(plans))
	}
}

func TestParsePostPlansRejectsNonArray(t *testing.T) {
	raw := `{"caption": "solo"}`
	_, err := ParsePostPlans(raw)
	if !errors.Is(err, ErrBadOutput) {
		t.Fatalf("expected ErrBadOutput, got %v", err)
	}
	if !strings.Contains(err.Error(), raw) {
		t.Fatalf("error should carry the raw output: %v", err)
	}
}

func TestParsePostPlansRejectsMissingKey(t *testing.T) {
	_, err := ParsePostPlans(`[{"caption": "no prompt", "hashtags": []}]`)
	if !errors.Is(err, ErrBadOutput) {
		t.Fatalf("expected ErrBadOutput, got %v", err)
	}
	if !strings.Contains(err.Error(), "image_prompt") {
		t.Fatalf("error should name the missing key: %v", err)
	}
}

func TestGeneratePlansRequiresKey(t *testing.T) {
	client := NewCaptionClient("http://unused", "gpt-4", func() string { return "" })
	_, err := client.GeneratePlans(context.Background(), "prompt")
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestGeneratePlansHappyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(chatResponse{Choices: []struct {
			Message chatMessage `json:"message"`
		}{{Message: chatMessage{Role: "assistant", Content: twoPlans}}}})
	}))
	defer srv.Close()

	client := NewCaptionClient(srv.URL, "gpt-4", func() string { return "test-key" })
	plans, err := client.GeneratePlans(context.Background(), "make two posts")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(plans) != 2 || plans[1].Caption != "Second" {
		t.Fatalf("unexpected plans: %+v", plans)
	}
}

func TestGeneratePlansUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewCaptionClient(srv.URL, "gpt-4", func() string { return "test-key" })
	_, err := client.GeneratePlans(context.Background(), "prompt")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}
