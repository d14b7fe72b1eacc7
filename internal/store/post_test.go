package store

import (
	"errors"
	"testing"
	"time"

	"social-studio-backend/models"
)

func makePost(id, clientID string) models.Post {
	return models.Post{
		ID:          id,
		ClientID:    clientID,
		CategoryID:  "CAT-1",
		TopicIDs:    []string{"TOP-1", "TOP-2"},
		Caption:     "Morning brew, done right",
		Hashtags:    []string{"#coffee", "#local"},
		ImageURL:    "https://cdn.example.com/post.jpg",
		VisualStyle: "Post",
		CreatedAt:   time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
	}
}

func TestPostAppendListRoundTrip(t *testing.T) {
	s := NewPostStore(t.TempDir())
	if err := s.Append(makePost("POST-1", "CLT-1")); err != nil {
		t.Fatalf("append: %v", err)
	}

	posts, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	p := posts[0]
	if len(p.TopicIDs) != 2 || p.TopicIDs[1] != "TOP-2" {
		t.Fatalf("topics mangled: %v", p.TopicIDs)
	}
	if len(p.Hashtags) != 2 || p.Hashtags[0] != "#coffee" {
		t.Fatalf("hashtags mangled: %v", p.Hashtags)
	}
	if p.Finalized {
		t.Fatal("fresh post should not be finalized")
	}
	if !p.CreatedAt.Equal(time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("timestamp mangled: %v", p.CreatedAt)
	}
}

func TestPostAppendRequiresIDs(t *testing.T) {
	s := NewPostStore(t.TempDir())
	if err := s.Append(models.Post{Caption: "no ids"}); err == nil {
		t.Fatal("expected error for post without ids")
	}
}

func TestPostFinalizeMixedIDs(t *testing.T) {
	s := NewPostStore(t.TempDir())
	for _, id := range []string{"POST-1", "POST-2"} {
		if err := s.Append(makePost(id, "CLT-1")); err != nil {
			t.Fatalf("append %s: %v", id, err)
		}
	}

	finalized, err := s.Finalize("CLT-1", []string{"POST-2", "POST-nope"})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if len(finalized) != 1 || finalized[0].ID != "POST-2" {
		t.Fatalf("expected only POST-2 finalized, got %+v", finalized)
	}
	if !finalized[0].Finalized {
		t.Fatal("returned post not marked finalized")
	}

	posts, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, p := range posts {
		if p.ID == "POST-1" && p.Finalized {
			t.Fatal("POST-1 should be untouched")
		}
	}
}

func TestPostFinalizeNoMatch(t *testing.T) {
	s := NewPostStore(t.TempDir())
	if err := s.Append(makePost("POST-1", "CLT-1")); err != nil {
		t.Fatalf("append: %v", err)
	}
	// Right id, wrong client.
	if _, err := s.Finalize("CLT-other", []string{"POST-1"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostDelete(t *testing.T) {
	s := NewPostStore(t.TempDir())
	if err := s.Append(makePost("POST-1", "CLT-1")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Delete("POST-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete("POST-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
