package store

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"social-studio-backend/models"
)

var postHeader = []string{
	"post_id", "client_id", "category_id", "topics",
	"caption", "hashtags", "image_url", "visual_style", "finalized", "created_at",
}

// PostStore manages the generated-post registry CSV.
type PostStore struct {
	table *Table
}

func NewPostStore(dir string) *PostStore {
	return &PostStore{table: NewTable(filepath.Join(dir, "management.csv"), postHeader)}
}

// Append persists one generated post.
func (s *PostStore) Append(p models.Post) error {
	if p.ID == "" || p.ClientID == "" {
		return fmt.Errorf("post record missing id fields")
	}
	return s.table.Append([]string{
		p.ID, p.ClientID, p.CategoryID, strings.Join(p.TopicIDs, ","),
		p.Caption, strings.Join(p.Hashtags, ","), p.ImageURL, p.VisualStyle,
		strconv.FormatBool(p.Finalized), p.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// List returns every post with the comma-joined columns expanded back into
// slices.
func (s *PostStore) List() ([]models.Post, error) {
	rows, err := s.table.List()
	if err != nil {
		return nil, err
	}
	posts := make([]models.Post, 0, len(rows))
	for _, row := range rows {
		if len(row) < len(postHeader) || row[0] == "" {
			continue
		}
		p := models.Post{
			ID:          row[0],
			ClientID:    row[1],
			CategoryID:  row[2],
			Caption:     row[4],
			ImageURL:    row[6],
			VisualStyle: row[7],
		}
		if row[3] != "" {
			p.TopicIDs = strings.Split(row[3], ",")
		}
		if row[5] != "" {
			p.Hashtags = strings.Split(row[5], ",")
		}
		p.Finalized, _ = strconv.ParseBool(row[8])
		p.CreatedAt, _ = time.Parse(time.RFC3339, row[9])
		posts = append(posts, p)
	}
	return posts, nil
}

// Delete removes one post; ErrNotFound when the id is absent.
func (s *PostStore) Delete(id string) error {
	id = strings.TrimSpace(id)
	removed, err := s.table.DeleteWhere(func(row []string) bool {
		return len(row) > 0 && row[0] == id
	})
	if err != nil {
		return err
	}
	if removed == 0 {
		return fmt.Errorf("post %s: %w", id, ErrNotFound)
	}
	return nil
}

// Finalize marks every post of the client whose id is in postIDs as
// finalized and returns the affected posts. When a mix of valid and unknown
// ids is supplied, only the valid ones are touched; ErrNotFound only when
// nothing matched at all.
func (s *PostStore) Finalize(clientID string, postIDs []string) ([]models.Post, error) {
	wanted := make(map[string]bool, len(postIDs))
	for _, id := range postIDs {
		wanted[strings.TrimSpace(id)] = true
	}
	match := func(row []string) bool {
		return len(row) >= len(postHeader) && wanted[row[0]] && row[1] == clientID
	}
	updated, err := s.table.UpdateWhere(match, func(row []string) []string {
		row[8] = "true"
		return row
	})
	if err != nil {
		return nil, err
	}
	if updated == 0 {
		return nil, fmt.Errorf("no matching post ids for client %s: %w", clientID, ErrNotFound)
	}

	posts, err := s.List()
	if err != nil {
		return nil, err
	}
	finalized := make([]models.Post, 0, updated)
	for _, p := range posts {
		if wanted[p.ID] && p.ClientID == clientID {
			finalized = append(finalized, p)
		}
	}
	return finalized, nil
}
