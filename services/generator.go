package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"social-studio-backend/internal/ai"
	"social-studio-backend/internal/logger"
	"social-studio-backend/internal/store"
	"social-studio-backend/models"
)

// CaptionGenerator produces post plans from one prompt.
type CaptionGenerator interface {
	GeneratePlans(ctx context.Context, prompt string) ([]ai.PostPlan, error)
}

// ImageGenerator renders one image and returns its hosted URL.
type ImageGenerator interface {
	Generate(ctx context.Context, req ai.ImageRequest) (string, error)
}

// PostGenerator runs the post creation pipeline: resolve topics, resolve the
// client profile, build the prompt, one caption call for the whole batch,
// then one image call per returned plan, persisting each post as it
// completes.
type PostGenerator struct {
	store    *store.Store
	captions CaptionGenerator
	images   ImageGenerator
	sender   EmailSender
}

func NewPostGenerator(st *store.Store, captions CaptionGenerator, images ImageGenerator, sender EmailSender) *PostGenerator {
	return &PostGenerator{store: st, captions: captions, images: images, sender: sender}
}

// Generate runs the pipeline for one create-post request. All topic ids and
// the client id are resolved before any AI call; a failure there aborts the
// whole request. After caption generation the number of posts follows the
// model's plan count. A mid-batch image failure aborts the remaining posts;
// posts persisted before the failure stay persisted.
func (g *PostGenerator) Generate(ctx context.Context, req models.CreatePostRequest) ([]models.PostResponse, error) {
	count := req.NumberOfPosts
	if count < 1 {
		count = 1
	}

	topicTitles, err := g.store.Topics.TitlesByID(req.Topics)
	if err != nil {
		return nil, err
	}
	profile, err := g.store.Clients.Profile(req.ClientID)
	if err != nil {
		return nil, err
	}

	prompt := BuildPostPrompt(profile, req.VisualStyle, topicTitles, count, req.CustomPrompt)
	plans, err := g.captions.GeneratePlans(ctx, prompt)
	if err != nil {
		return nil, err
	}

	responses := make([]models.PostResponse, 0, len(plans))
	for i, plan := range plans {
		if plan.ImagePrompt == "" {
			return nil, fmt.Errorf("%w: plan %d has no image_prompt; raw caption: %q", ai.ErrBadOutput, i+1, plan.Caption)
		}

		imageURL, err := g.images.Generate(ctx, ai.ImageRequest{
			Prompt:          plan.ImagePrompt,
			ReferenceImages: req.ReferenceImages,
			AspectRatio:     "9:16",
			OutputFormat:    "jpg",
		})
		if err != nil {
			return nil, fmt.Errorf("image generation for post %d failed: %w", i+1, err)
		}

		post := models.Post{
			ID:          newPostID(),
			ClientID:    req.ClientID,
			CategoryID:  req.CategoryID,
			TopicIDs:    req.Topics,
			Caption:     plan.Caption,
			Hashtags:    plan.Hashtags,
			ImageURL:    imageURL,
			VisualStyle: req.VisualStyle,
			Finalized:   false,
			CreatedAt:   time.Now().UTC(),
		}
		if err := g.store.Posts.Append(post); err != nil {
			return nil, fmt.Errorf("failed to persist post %s: %w", post.ID, err)
		}

		responses = append(responses, models.PostResponse{
			PostID:   post.ID,
			Caption:  post.Caption,
			Hashtags: post.Hashtags,
			ImageURL: post.ImageURL,
		})
	}

	logger.Info("Post generation completed",
		"client_id", req.ClientID, "requested", count, "generated", len(responses))
	return responses, nil
}

// Finalize marks the client's posts as approved and emails the notification
// to the client's profile address. The finalize itself is the source of
// truth; a notification failure is logged but does not undo it.
func (g *PostGenerator) Finalize(ctx context.Context, clientID string, postIDs []string) ([]models.Post, error) {
	finalized, err := g.store.Posts.Finalize(clientID, postIDs)
	if err != nil {
		return nil, err
	}

	profile, err := g.store.Clients.Profile(clientID)
	if err != nil {
		logger.Warn("Finalize notification skipped, client profile unavailable",
			"client_id", clientID, "error", err)
		return finalized, nil
	}

	html, err := BuildFinalizeEmail(profile.ClientName, finalized)
	if err != nil {
		logger.Warn("Finalize notification skipped", "client_id", clientID, "error", err)
		return finalized, nil
	}

	subject := fmt.Sprintf("%d post(s) finalized for %s", len(finalized), profile.ClientName)
	if err := g.sender.Send(ctx, profile.Mail, profile.ClientName, subject, html); err != nil {
		logger.Warn("Finalize notification failed", "client_id", clientID, "error", err)
	}
	return finalized, nil
}

// newPostID builds ids like POST-20250101-1a2b3c4d. The uuid suffix keeps
// posts generated in the same second distinct.
func newPostID() string {
	return fmt.Sprintf("POST-%s-%s", time.Now().UTC().Format("20060102"), uuid.NewString()[:8])
}
