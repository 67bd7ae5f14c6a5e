package ai

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"assistant-hub/internal/domain/ports/adapter"
)

var _ adapter.AssistantsAPI = (*NoopAdapter)(nil)

// NoopAdapter is an offline AssistantsAPI for dev mode and tests: every run
// completes immediately and the assistant echoes the last posted message.
type NoopAdapter struct {
	mu      sync.Mutex
	seq     int
	lastMsg map[string]string // threadID -> last user message
	runs    map[string]string // runID -> threadID
}

func NewNoopAdapter() *NoopAdapter {
	return &NoopAdapter{
		lastMsg: map[string]string{},
		runs:    map[string]string{},
	}
}

func (n *NoopAdapter) next(prefix string) string {
	n.seq++
	return fmt.Sprintf("%s_noop_%d", prefix, n.seq)
}

func (n *NoopAdapter) ListModels(ctx context.Context) ([]string, error) {
	return []string{"noop-model"}, nil
}

func (n *NoopAdapter) CreateAssistant(ctx context.Context, spec adapter.AssistantSpec) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.next("asst"), nil
}

func (n *NoopAdapter) UpdateAssistantVectorStores(ctx context.Context, remoteID string, vectorStoreIDs []string) error {
	return nil
}

func (n *NoopAdapter) DeleteAssistant(ctx context.Context, remoteID string) error { return nil }

func (n *NoopAdapter) UploadFile(ctx context.Context, path string) (adapter.UploadedFile, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return adapter.UploadedFile{ID: n.next("file"), Filename: filepath.Base(path)}, nil
}

func (n *NoopAdapter) CreateVectorStore(ctx context.Context, name string, fileIDs []string) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.next("vs"), nil
}

func (n *NoopAdapter) AddFileToVectorStore(ctx context.Context, vectorStoreID, fileID string) error {
	return nil
}

func (n *NoopAdapter) CreateThread(ctx context.Context) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.next("thread"), nil
}

func (n *NoopAdapter) PostMessage(ctx context.Context, threadID, content string) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.lastMsg[threadID] = content
	return n.next("msg"), nil
}

func (n *NoopAdapter) StartRun(ctx context.Context, threadID, assistantID string) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.next("run")
	n.runs[id] = threadID
	return id, nil
}

func (n *NoopAdapter) RunStatus(ctx context.Context, threadID, runID string) (string, error) {
	return "completed", nil
}

func (n *NoopAdapter) LatestAssistantMessage(ctx context.Context, threadID, runID string) (adapter.AssistantMessage, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	last := n.lastMsg[threadID]
	if last == "" {
		return adapter.AssistantMessage{}, false, nil
	}
	return adapter.AssistantMessage{
		ID:      n.next("msg"),
		RunID:   runID,
		Content: "echo: " + last,
	}, true, nil
}
