package model

import "time"

// Assistant mirrors a provider assistant (asst_...) bound to a company.
type Assistant struct {
	ID            string
	CompanyID     string
	RemoteID      string
	Name          string
	Instructions  string
	Model         string
	VectorStoreID string // local VectorStore.ID, empty until one is attached
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewAssistant(id, companyID, remoteID, name, instructions, model string) *Assistant {
	now := time.Now()
	return &Assistant{
		ID:           id,
		CompanyID:    companyID,
		RemoteID:     remoteID,
		Name:         name,
		Instructions: instructions,
		Model:        model,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
