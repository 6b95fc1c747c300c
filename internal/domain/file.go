package domain

// StoredObject describes a file kept in object storage.
type StoredObject struct {
	Key          string `json:"key"`
	URL          string `json:"url"`
	Size         int64  `json:"size"`
	ContentType  string `json:"content_type"`
	OriginalName string `json:"original_name,omitempty"`
}
