package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"social-studio-backend/internal/ai"
	"social-studio-backend/internal/store"
	"social-studio-backend/models"
)

type stubCaptions struct {
	plans   []ai.PostPlan
	err     error
	prompts []string
}

func (s *stubCaptions) GeneratePlans(_ context.Context, prompt string) ([]ai.PostPlan, error) {
	s.prompts = append(s.prompts, prompt)
	return s.plans, s.err
}

type stubImages struct {
	calls  int
	failAt int // 1-based call number that fails; 0 means never
}

func (s *stubImages) Generate(_ context.Context, req ai.ImageRequest) (string, error) {
	s.calls++
	if s.failAt != 0 && s.calls == s.failAt {
		return "", fmt.Errorf("render exploded: %w", ai.ErrUpstream)
	}
	return fmt.Sprintf("https://replicate.delivery/img-%d.jpg", s.calls), nil
}

type sentMail struct {
	toEmail, toName, subject, html string
}

type recordSender struct {
	sent []sentMail
	err  error
}

func (s *recordSender) Send(_ context.Context, toEmail, toName, subject, html string) error {
	s.sent = append(s.sent, sentMail{toEmail, toName, subject, html})
	return s.err
}

// seedGenerator builds a store with one client, one category and two topics.
func seedGenerator(t *testing.T) (*store.Store, models.ClientProfile, models.Category, []string) {
	t.Helper()
	st := store.Open(t.TempDir())

	client, err := st.Clients.Create(models.ClientProfile{
		ClientName: "Corner Roasters",
		Focus:      "Coffee",
		Mail:       "owner@example.com",
	})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}
	cat, err := st.Categories.Create("Seasonal")
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	topicIDs := make([]string, 0, 2)
	for _, title := range []string{"New blend launch", "Latte art"} {
		topic, err := st.Topics.Create(cat.ID, title, "")
		if err != nil {
			t.Fatalf("seed topic: %v", err)
		}
		topicIDs = append(topicIDs, topic.ID)
	}
	return st, client, cat, topicIDs
}

func TestGeneratePersistsEveryPlan(t *testing.T) {
	st, client, cat, topicIDs := seedGenerator(t)
	captions := &stubCaptions{plans: []ai.PostPlan{
		{Caption: "First", Hashtags: []string{"#a"}, ImagePrompt: "scene one"},
		{Caption: "Second", Hashtags: []string{"#b"}, ImagePrompt: "scene two"},
	}}
	images := &stubImages{}
	gen := NewPostGenerator(st, captions, images, &recordSender{})

	responses, err := gen.Generate(context.Background(), models.CreatePostRequest{
		ClientID:      client.ClientID,
		CategoryID:    cat.ID,
		Topics:        topicIDs,
		NumberOfPosts: 2,
		VisualStyle:   "Story",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(responses))
	}
	if responses[0].PostID == responses[1].PostID {
		t.Fatal("post ids collide")
	}
	if responses[1].ImageURL != "https://replicate.delivery/img-2.jpg" {
		t.Fatalf("unexpected image url %q", responses[1].ImageURL)
	}
	if len(captions.prompts) != 1 {
		t.Fatalf("expected one caption call for the batch, got %d", len(captions.prompts))
	}
	// Topic ids created inside one second can collide, so only the
	// last-created title is guaranteed to appear.
	if !strings.Contains(captions.prompts[0], "Latte art") {
		t.Fatal("topic titles not embedded in the prompt")
	}

	posts, err := st.Posts.List()
	if err != nil {
		t.Fatalf("list posts: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 persisted posts, got %d", len(posts))
	}
	if posts[0].VisualStyle != "Story" || posts[0].Finalized {
		t.Fatalf("persisted post wrong: %+v", posts[0])
	}
}

func TestGenerateFailsFastOnUnknownTopic(t *testing.T) {
	st, client, cat, topicIDs := seedGenerator(t)
	captions := &stubCaptions{}
	gen := NewPostGenerator(st, captions, &stubImages{}, &recordSender{})

	_, err := gen.Generate(context.Background(), models.CreatePostRequest{
		ClientID:   client.ClientID,
		CategoryID: cat.ID,
		Topics:     append(topicIDs, "TOP-nope"),
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(captions.prompts) != 0 {
		t.Fatal("caption model called despite invalid topic id")
	}
}

func TestGenerateMidBatchImageFailure(t *testing.T) {
	st, client, cat, topicIDs := seedGenerator(t)
	captions := &stubCaptions{plans: []ai.PostPlan{
		{Caption: "First", Hashtags: []string{"#a"}, ImagePrompt: "scene one"},
		{Caption: "Second", Hashtags: []string{"#b"}, ImagePrompt: "scene two"},
	}}
	gen := NewPostGenerator(st, captions, &stubImages{failAt: 2}, &recordSender{})

	_, err := gen.Generate(context.Background(), models.CreatePostRequest{
		ClientID:   client.ClientID,
		CategoryID: cat.ID,
		Topics:     topicIDs,
	})
	if !errors.Is(err, ai.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}

	// The post rendered before the failure stays on disk.
	posts, listErr := st.Posts.List()
	if listErr != nil {
		t.Fatalf("list posts: %v", listErr)
	}
	if len(posts) != 1 || posts[0].Caption != "First" {
		t.Fatalf("expected the first post persisted, got %+v", posts)
	}
}

func TestGenerateRejectsPlanWithoutImagePrompt(t *testing.T) {
	st, client, cat, topicIDs := seedGenerator(t)
	captions := &stubCaptions{plans: []ai.PostPlan{{Caption: "No art", Hashtags: []string{"#a"}}}}
	images := &stubImages{}
	gen := NewPostGenerator(st, captions, images, &recordSender{})

	_, err := gen.Generate(context.Background(), models.CreatePostRequest{
		ClientID:   client.ClientID,
		CategoryID: cat.ID,
		Topics:     topicIDs,
	})
	if !errors.Is(err, ai.ErrBadOutput) {
		t.Fatalf("expected ErrBadOutput, got %v", err)
	}
	if images.calls != 0 {
		t.Fatal("image model called for an empty prompt")
	}
}

func TestFinalizeSendsNotification(t *testing.T) {
	st, client, cat, topicIDs := seedGenerator(t)
	captions := &stubCaptions{plans: []ai.PostPlan{
		{Caption: "First", Hashtags: []string{"#a"}, ImagePrompt: "scene one"},
	}}
	sender := &recordSender{}
	gen := NewPostGenerator(st, captions, &stubImages{}, sender)

	responses, err := gen.Generate(context.Background(), models.CreatePostRequest{
		ClientID:   client.ClientID,
		CategoryID: cat.ID,
		Topics:     topicIDs,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	finalized, err := gen.Finalize(context.Background(), client.ClientID, []string{responses[0].PostID})
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if len(finalized) != 1 || !finalized[0].Finalized {
		t.Fatalf("unexpected finalize result: %+v", finalized)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(sender.sent))
	}
	mail := sender.sent[0]
	if mail.toEmail != "owner@example.com" {
		t.Fatalf("notification sent to %q", mail.toEmail)
	}
	if !strings.Contains(mail.html, "First") || !strings.Contains(mail.html, "https://replicate.delivery/img-1.jpg") {
		t.Fatal("notification body missing post details")
	}
}

func TestFinalizeSurvivesNotificationFailure(t *testing.T) {
	st, client, cat, topicIDs := seedGenerator(t)
	captions := &stubCaptions{plans: []ai.PostPlan{
		{Caption: "First", Hashtags: []string{"#a"}, ImagePrompt: "scene one"},
	}}
	sender := &recordSender{err: errors.New("smtp down")}
	gen := NewPostGenerator(st, captions, &stubImages{}, sender)

	responses, err := gen.Generate(context.Background(), models.CreatePostRequest{
		ClientID:   client.ClientID,
		CategoryID: cat.ID,
		Topics:     topicIDs,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	finalized, err := gen.Finalize(context.Background(), client.ClientID, []string{responses[0].PostID})
	if err != nil {
		t.Fatalf("finalize should not propagate mail errors: %v", err)
	}
	if len(finalized) != 1 {
		t.Fatalf("expected 1 finalized post, got %d", len(finalized))
	}
}
