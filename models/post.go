package models

import "time"

// Post is one generated social media post as persisted in the post registry.
// TopicIDs and Hashtags are comma-joined in the CSV row and expanded back
// into slices when listed.
type Post struct {
	ID          string    `json:"post_id"`
	ClientID    string    `json:"client_id"`
	CategoryID  string    `json:"category_id"`
	TopicIDs    []string  `json:"topics"`
	Caption     string    `json:"caption"`
	Hashtags    []string  `json:"hashtags"`
	ImageURL    string    `json:"image_url"`
	VisualStyle string    `json:"visual_style"`
	Finalized   bool      `json:"finalized"`
	CreatedAt   time.Time `json:"created_at"`
}

// PostResponse is the per-post shape returned by the create endpoint.
type PostResponse struct {
	PostID   string   `json:"post_id"`
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
	ImageURL string   `json:"image_url"`
}

type CreatePostRequest struct {
	ClientID        string   `json:"client_id" binding:"required"`
	CategoryID      string   `json:"category_id"`
	Topics          []string `json:"topics" binding:"required,min=1"`
	NumberOfPosts   int      `json:"number_of_posts"`
	CustomPrompt    string   `json:"custom_prompt"`
	VisualStyle     string   `json:"visual_style" binding:"required"`
	ReferenceImages []string `json:"reference_images"`
}

type RemovePostRequest struct {
	PostID string `json:"post_id" binding:"required"`
}

type FinalizePostRequest struct {
	ClientID string   `json:"client_id" binding:"required"`
	PostIDs  []string `json:"post_ids" binding:"required,min=1"`
}
