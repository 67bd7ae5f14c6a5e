package model

import "time"

type RunJobStatus string

const (
	RunJobStatusPending    RunJobStatus = "pending"
	RunJobStatusProcessing RunJobStatus = "processing"
	RunJobStatusCompleted  RunJobStatus = "completed"
	RunJobStatusFailed     RunJobStatus = "failed"
)

// RunJob is a queued "ask" waiting for a worker to submit it to the provider
// and poll the resulting run to completion.
type RunJob struct {
	ID        string
	Status    RunJobStatus
	ThreadID  string
	Prompt    string
	Reply     string
	Attempts  int
	LastError string
	CreatedAt time.Time
	UpdatedAt time.Time
}
