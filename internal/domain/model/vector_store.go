package model

import "time"

// VectorStore mirrors a provider vector store (vs_...) used for file search.
// FileIDs are the remote file ids attached to the store.
type VectorStore struct {
	ID        string
	CompanyID string
	RemoteID  string
	Name      string
	FileIDs   []string
	CreatedAt time.Time
}
