package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"social-studio-backend/models"
)

var categoryHeader = []string{"category_id", "category_name"}

// CategoryStore manages the category registry CSV.
type CategoryStore struct {
	table *Table
}

func NewCategoryStore(dir string) *CategoryStore {
	return &CategoryStore{table: NewTable(filepath.Join(dir, "management.csv"), categoryHeader)}
}

// Create registers a new category. Names are unique case-insensitively;
// a duplicate yields ErrDuplicateName.
func (s *CategoryStore) Create(name string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, fmt.Errorf("category name is empty")
	}
	exists, err := s.NameExists(name)
	if err != nil {
		return models.Category{}, err
	}
	if exists {
		return models.Category{}, fmt.Errorf("category %q: %w", name, ErrDuplicateName)
	}
	cat := models.Category{ID: TimestampID("CAT"), Name: name}
	if err := s.table.Append([]string{cat.ID, cat.Name}); err != nil {
		return models.Category{}, err
	}
	return cat, nil
}

// List returns every category, skipping rows with missing fields.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.table.List()
	if err != nil {
		return nil, err
	}
	cats := make([]models.Category, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 || row[0] == "" || row[1] == "" {
			continue
		}
		cats = append(cats, models.Category{ID: strings.TrimSpace(row[0]), Name: strings.TrimSpace(row[1])})
	}
	return cats, nil
}

// Exists reports whether a category id is registered.
func (s *CategoryStore) Exists(id string) (bool, error) {
	cats, err := s.List()
	if err != nil {
		return false, err
	}
	for _, c := range cats {
		if c.ID == strings.TrimSpace(id) {
			return true, nil
		}
	}
	return false, nil
}

// NameExists reports whether name is already taken, ignoring case.
func (s *CategoryStore) NameExists(name string) (bool, error) {
	cats, err := s.List()
	if err != nil {
		return false, err
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return true, nil
		}
	}
	return false, nil
}

// Delete removes one category row; ErrNotFound when the id is absent.
// Cascading topic removal is the caller's job.
func (s *CategoryStore) Delete(id string) error {
	id = strings.TrimSpace(id)
	removed, err := s.table.DeleteWhere(func(row []string) bool {
		return len(row) > 0 && strings.TrimSpace(row[0]) == id
	})
	if err != nil {
		return err
	}
	if removed == 0 {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return nil
}
