package model

import "time"

// Document is a file uploaded to the provider for retrieval (file-...).
type Document struct {
	ID           string
	CompanyID    string
	RemoteFileID string
	Filename     string
	Bytes        int64
	Purpose      string // provider purpose, "assistants" for retrieval files
	CreatedAt    time.Time
}
