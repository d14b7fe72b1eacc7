package models

// Image is one row of the image registry. ClientID must reference an existing
// client; the URL points at the external image host, not local storage.
type Image struct {
	ID       string `json:"image_id"`
	Name     string `json:"image_name"`
	URL      string `json:"url"`
	ClientID string `json:"client_id"`
}

// ImageSearchResult is the trimmed shape returned by the image search
// endpoint.
type ImageSearchResult struct {
	ID  string `json:"image_id"`
	URL string `json:"url"`
}
