package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"social-studio-backend/models"
)

var clientHeader = []string{"client_id", "client_name", "tagline", "focus", "logo_urls"}

const profileFile = "profile.json"

// ClientStore manages the client registry CSV plus the per-client directory
// holding the profile document and asset folders.
type ClientStore struct {
	mu    sync.Mutex // guards profile document read-modify-write
	root  string
	table *Table
}

func NewClientStore(dir string) *ClientStore {
	return &ClientStore{root: dir, table: NewTable(filepath.Join(dir, "management.csv"), clientHeader)}
}

// Create registers a client: asset directories, profile document, then the
// registry row. Client names are unique; a duplicate yields ErrDuplicateName.
func (s *ClientStore) Create(profile models.ClientProfile) (models.ClientProfile, error) {
	exists, err := s.NameExists(profile.ClientName)
	if err != nil {
		return models.ClientProfile{}, err
	}
	if exists {
		return models.ClientProfile{}, fmt.Errorf("client %q: %w", profile.ClientName, ErrDuplicateName)
	}

	profile.ClientID = TimestampID("CLT")
	folder := filepath.Join(s.root, profile.ClientName)
	for _, sub := range []string{"assets/logos", "assets/reference_images"} {
		if err := os.MkdirAll(filepath.Join(folder, sub), 0755); err != nil {
			return models.ClientProfile{}, fmt.Errorf("failed to create client folders: %w", err)
		}
	}
	if err := s.writeDocument(folder, profile); err != nil {
		return models.ClientProfile{}, err
	}

	row := []string{profile.ClientID, profile.ClientName, profile.Tagline, profile.Focus, strings.Join(profile.LogoURLs, "|")}
	if err := s.table.Append(row); err != nil {
		return models.ClientProfile{}, err
	}
	return profile, nil
}

// Records returns every registry row.
func (s *ClientStore) Records() ([]models.ClientRecord, error) {
	rows, err := s.table.List()
	if err != nil {
		return nil, err
	}
	records := make([]models.ClientRecord, 0, len(rows))
	for _, row := range rows {
		if len(row) < 5 || row[0] == "" {
			continue
		}
		rec := models.ClientRecord{ID: row[0], Name: row[1], Tagline: row[2], Focus: row[3]}
		if row[4] != "" {
			rec.LogoURLs = strings.Split(row[4], "|")
		}
		records = append(records, rec)
	}
	return records, nil
}

// Record looks up one registry row by client id.
func (s *ClientStore) Record(clientID string) (models.ClientRecord, error) {
	records, err := s.Records()
	if err != nil {
		return models.ClientRecord{}, err
	}
	clientID = strings.TrimSpace(clientID)
	for _, rec := range records {
		if rec.ID == clientID {
			return rec, nil
		}
	}
	return models.ClientRecord{}, fmt.Errorf("client %s: %w", clientID, ErrNotFound)
}

// Exists reports whether a client id is registered.
func (s *ClientStore) Exists(clientID string) (bool, error) {
	_, err := s.Record(clientID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// NameExists reports whether a client name is already taken, ignoring case.
func (s *ClientStore) NameExists(name string) (bool, error) {
	records, err := s.Records()
	if err != nil {
		return false, err
	}
	for _, rec := range records {
		if strings.EqualFold(rec.Name, strings.TrimSpace(name)) {
			return true, nil
		}
	}
	return false, nil
}

// Profile loads the full typed profile for a client: registry row first for
// the folder name, then the profile document. Extra document fields beyond
// the typed profile are ignored here.
func (s *ClientStore) Profile(clientID string) (models.ClientProfile, error) {
	rec, err := s.Record(clientID)
	if err != nil {
		return models.ClientProfile{}, err
	}
	path := filepath.Join(s.root, rec.Name, profileFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return models.ClientProfile{}, fmt.Errorf("profile document missing for client %s: %w", rec.Name, err)
	}
	var profile models.ClientProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return models.ClientProfile{}, fmt.Errorf("failed to parse profile for client %s: %w", rec.Name, err)
	}
	return profile, nil
}

// FindFolder locates the client directory by scanning every profile document
// for a matching client_id. Returns ErrNotFound when no folder matches.
func (s *ClientStore) FindFolder(clientID string) (string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("client %s: %w", clientID, ErrNotFound)
		}
		return "", err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folder := filepath.Join(s.root, entry.Name())
		data, err := os.ReadFile(filepath.Join(folder, profileFile))
		if err != nil {
			continue
		}
		var doc map[string]any
		if err := json.Unmarshal(data, &doc); err != nil {
			continue
		}
		if id, _ := doc["client_id"].(string); id == clientID {
			return folder, nil
		}
	}
	return "", fmt.Errorf("client %s: %w", clientID, ErrNotFound)
}

// MergeFields merges free-form key/values into the profile document.
func (s *ClientStore) MergeFields(clientID string, data map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	folder, doc, err := s.loadDocument(clientID)
	if err != nil {
		return err
	}
	for k, v := range data {
		doc[k] = v
	}
	return s.writeDocument(folder, doc)
}

// RemoveField deletes one key from the profile document; ErrFieldMissing when
// the key is absent.
func (s *ClientStore) RemoveField(clientID, field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	folder, doc, err := s.loadDocument(clientID)
	if err != nil {
		return err
	}
	if _, ok := doc[field]; !ok {
		return fmt.Errorf("field %q: %w", field, ErrFieldMissing)
	}
	delete(doc, field)
	return s.writeDocument(folder, doc)
}

// Delete removes the registry row; with wipeData the whole client directory
// goes too. ErrNotFound when the id is absent from the registry.
func (s *ClientStore) Delete(clientID string, wipeData bool) error {
	clientID = strings.TrimSpace(clientID)
	folder := ""
	if wipeData {
		// Resolve the folder before the registry row disappears.
		folder, _ = s.FindFolder(clientID)
	}
	removed, err := s.table.DeleteWhere(func(row []string) bool {
		return len(row) > 0 && strings.TrimSpace(row[0]) == clientID
	})
	if err != nil {
		return err
	}
	if removed == 0 {
		return fmt.Errorf("client %s: %w", clientID, ErrNotFound)
	}
	if wipeData && folder != "" {
		os.RemoveAll(folder)
	}
	return nil
}

func (s *ClientStore) loadDocument(clientID string) (string, map[string]any, error) {
	folder, err := s.FindFolder(clientID)
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(filepath.Join(folder, profileFile))
	if err != nil {
		return "", nil, fmt.Errorf("failed to read profile document: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", nil, fmt.Errorf("failed to parse profile document: %w", err)
	}
	return folder, doc, nil
}

func (s *ClientStore) writeDocument(folder string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode profile document: %w", err)
	}
	if err := os.WriteFile(filepath.Join(folder, profileFile), data, 0644); err != nil {
		return fmt.Errorf("failed to write profile document: %w", err)
	}
	return nil
}
