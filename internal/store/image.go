package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"social-studio-backend/models"
)

var imageHeader = []string{"image_id", "image_name", "url", "client_id"}

// ImageStore manages the uploaded-image registry CSV. The image bytes live on
// the external host; only the metadata row is kept here.
type ImageStore struct {
	table *Table
}

func NewImageStore(dir string) *ImageStore {
	return &ImageStore{table: NewTable(filepath.Join(dir, "management.csv"), imageHeader)}
}

// Create registers an uploaded image. The caller validates the client FK and
// supplies the hosted URL.
func (s *ImageStore) Create(name, url, clientID string) (models.Image, error) {
	if url == "" {
		return models.Image{}, fmt.Errorf("image url is empty")
	}
	img := models.Image{ID: TimestampID("IMG"), Name: name, URL: url, ClientID: clientID}
	if err := s.table.Append([]string{img.ID, img.Name, img.URL, img.ClientID}); err != nil {
		return models.Image{}, err
	}
	return img, nil
}

// List returns every image record.
func (s *ImageStore) List() ([]models.Image, error) {
	rows, err := s.table.List()
	if err != nil {
		return nil, err
	}
	images := make([]models.Image, 0, len(rows))
	for _, row := range rows {
		if len(row) < 4 || row[0] == "" {
			continue
		}
		images = append(images, models.Image{ID: row[0], Name: row[1], URL: row[2], ClientID: row[3]})
	}
	return images, nil
}

// Search matches records by exact id or exact name; either filter may be
// empty.
func (s *ImageStore) Search(imageID, imageName string) ([]models.ImageSearchResult, error) {
	images, err := s.List()
	if err != nil {
		return nil, err
	}
	results := make([]models.ImageSearchResult, 0)
	for _, img := range images {
		if (imageID != "" && img.ID == imageID) || (imageName != "" && img.Name == imageName) {
			results = append(results, models.ImageSearchResult{ID: img.ID, URL: img.URL})
		}
	}
	return results, nil
}

// Delete removes one image record; ErrNotFound when the id is absent. The
// hosted image itself is left in place.
func (s *ImageStore) Delete(id string) error {
	id = strings.TrimSpace(id)
	removed, err := s.table.DeleteWhere(func(row []string) bool {
		return len(row) > 0 && row[0] == id
	})
	if err != nil {
		return err
	}
	if removed == 0 {
		return fmt.Errorf("image %s: %w", id, ErrNotFound)
	}
	return nil
}
