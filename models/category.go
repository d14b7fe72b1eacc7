// Package models holds the typed entities and request bodies shared between
// the HTTP surface and the store.
package models

// Category groups topics for a content plan.
type Category struct {
	ID   string `json:"category_id"`
	Name string `json:"category_name"`
}

// Topic is one content idea inside a category.
type Topic struct {
	ID          string `json:"topic_id"`
	CategoryID  string `json:"category_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CreateCategoryRequest is the body of POST /categories/create-category.
type CreateCategoryRequest struct {
	CategoryName string `json:"category_name" binding:"required,min=2,max=100"`
}

// CreateTopicRequest is the body of POST /categories/create-topic.
type CreateTopicRequest struct {
	CategoryID  string `json:"category_id" binding:"required"`
	Title       string `json:"title" binding:"required,min=2,max=200"`
	Description string `json:"description"`
}
