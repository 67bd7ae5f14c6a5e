package model

import "time"

type ThreadStatus string

const (
	ThreadActive ThreadStatus = "active"
	ThreadClosed ThreadStatus = "closed"
)

// ThreadMessage is one message within a conversation thread. RunID is set on
// assistant messages produced by a run, empty on user messages.
type ThreadMessage struct {
	ID        string
	ThreadID  string
	Role      string // "user" | "assistant"
	Content   string
	Tokens    int
	RunID     string
	Timestamp time.Time
}

// Thread is the aggregate root for one conversation against an assistant.
// RemoteID is the provider thread (thread_...).
type Thread struct {
	ID          string
	AssistantID string
	RemoteID    string
	Status      ThreadStatus
	Messages    []ThreadMessage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewThread(id, assistantID, remoteID string) *Thread {
	now := time.Now()
	return &Thread{
		ID:          id,
		AssistantID: assistantID,
		RemoteID:    remoteID,
		Status:      ThreadActive,
		Messages:    make([]ThreadMessage, 0, 8),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (t *Thread) AddMessage(id, role, content string, tokens int, runID string) {
	t.Messages = append(t.Messages, ThreadMessage{
		ID:        id,
		ThreadID:  t.ID,
		Role:      role,
		Content:   content,
		Tokens:    tokens,
		RunID:     runID,
		Timestamp: time.Now(),
	})
	t.UpdatedAt = time.Now()
}

func (t *Thread) RecentMessages(n int) []ThreadMessage {
	if n <= 0 || len(t.Messages) <= n {
		return t.Messages
	}
	return t.Messages[len(t.Messages)-n:]
}
