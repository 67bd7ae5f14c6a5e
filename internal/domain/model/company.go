package model

import "time"

// Company owns assistants, documents and vector stores. Thin record; all
// provider-side state lives behind the RemoteID fields of the resources.
type Company struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCompany(id, name string) *Company {
	now := time.Now()
	return &Company{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}
}
