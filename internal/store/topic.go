package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"social-studio-backend/models"
)

var topicHeader = []string{"topic_id", "category_id", "title", "description"}

// TopicStore manages the topic registry CSV.
type TopicStore struct {
	table *Table
}

func NewTopicStore(dir string) *TopicStore {
	return &TopicStore{table: NewTable(filepath.Join(dir, "management.csv"), topicHeader)}
}

// Create registers a topic. The caller is expected to have validated the
// category foreign key first.
func (s *TopicStore) Create(categoryID, title, description string) (models.Topic, error) {
	if strings.TrimSpace(title) == "" {
		return models.Topic{}, fmt.Errorf("topic title is empty")
	}
	top := models.Topic{
		ID:          TimestampID("TOP"),
		CategoryID:  strings.TrimSpace(categoryID),
		Title:       title,
		Description: description,
	}
	if err := s.table.Append([]string{top.ID, top.CategoryID, top.Title, top.Description}); err != nil {
		return models.Topic{}, err
	}
	return top, nil
}

// List returns every topic.
func (s *TopicStore) List() ([]models.Topic, error) {
	rows, err := s.table.List()
	if err != nil {
		return nil, err
	}
	topics := make([]models.Topic, 0, len(rows))
	for _, row := range rows {
		if len(row) < 4 || row[0] == "" {
			continue
		}
		topics = append(topics, models.Topic{
			ID:          strings.TrimSpace(row[0]),
			CategoryID:  strings.TrimSpace(row[1]),
			Title:       row[2],
			Description: row[3],
		})
	}
	return topics, nil
}

// ListByCategory returns the topics belonging to one category.
func (s *TopicStore) ListByCategory(categoryID string) ([]models.Topic, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	categoryID = strings.TrimSpace(categoryID)
	matched := make([]models.Topic, 0)
	for _, t := range all {
		if t.CategoryID == categoryID {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// TitlesByID resolves each topic id to its title, failing on the first id
// that does not exist.
func (s *TopicStore) TitlesByID(ids []string) ([]string, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]string, len(all))
	for _, t := range all {
		byID[t.ID] = t.Title
	}
	titles := make([]string, 0, len(ids))
	for _, id := range ids {
		title, ok := byID[strings.TrimSpace(id)]
		if !ok {
			return nil, fmt.Errorf("topic %s: %w", id, ErrNotFound)
		}
		titles = append(titles, title)
	}
	return titles, nil
}

// Delete removes one topic; ErrNotFound when the id is absent.
func (s *TopicStore) Delete(id string) error {
	id = strings.TrimSpace(id)
	removed, err := s.table.DeleteWhere(func(row []string) bool {
		return len(row) > 0 && strings.TrimSpace(row[0]) == id
	})
	if err != nil {
		return err
	}
	if removed == 0 {
		return fmt.Errorf("topic %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteByCategory removes every topic of a category. Zero matches is fine;
// categories may have no topics yet.
func (s *TopicStore) DeleteByCategory(categoryID string) error {
	categoryID = strings.TrimSpace(categoryID)
	_, err := s.table.DeleteWhere(func(row []string) bool {
		return len(row) > 1 && strings.TrimSpace(row[1]) == categoryID
	})
	return err
}
