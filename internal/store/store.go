// Package store persists every entity as a flat file under a single data
// directory: one CSV table per entity type plus one JSON profile document per
// client. The layout matches what a small agency can inspect and edit by
// hand, but callers only see typed records, so the backing store can be
// swapped without touching them.
package store

import (
	"path/filepath"
	"time"
)

// Store bundles the per-entity stores over one data directory.
type Store struct {
	Categories *CategoryStore
	Topics     *TopicStore
	Clients    *ClientStore
	Images     *ImageStore
	Posts      *PostStore
}

// Open wires up all entity stores rooted at dataDir. No files are created
// until first use.
func Open(dataDir string) *Store {
	return &Store{
		Categories: NewCategoryStore(filepath.Join(dataDir, "categories")),
		Topics:     NewTopicStore(filepath.Join(dataDir, "topics")),
		Clients:    NewClientStore(filepath.Join(dataDir, "clients")),
		Images:     NewImageStore(filepath.Join(dataDir, "images")),
		Posts:      NewPostStore(filepath.Join(dataDir, "posts")),
	}
}

// TimestampID builds an entity id like CAT-20250101-093045. Uniqueness relies
// on the second-resolution timestamp; callers that need stronger guarantees
// add their own suffix.
func TimestampID(prefix string) string {
	return prefix + "-" + time.Now().UTC().Format("20060102-150405")
}
