package adapter

import "context"

// AssistantSpec is the provider-facing shape for creating an assistant.
type AssistantSpec struct {
	Name         string
	Instructions string
	Model        string
	// VectorStoreIDs are remote vector store ids attached for file search.
	VectorStoreIDs []string
}

// UploadedFile describes a file accepted by the provider.
type UploadedFile struct {
	ID       string
	Filename string
	Bytes    int64
}

// AssistantMessage is the provider's message-equivalent returned after a run.
type AssistantMessage struct {
	ID      string
	RunID   string
	Content string
}

// AssistantsAPI is the port for the provider's assistants surface
// (assistants, files, vector stores, threads, messages, runs). One
// implementation per provider; the noop adapter serves dev mode and tests.
type AssistantsAPI interface {
	ListModels(ctx context.Context) ([]string, error)

	CreateAssistant(ctx context.Context, spec AssistantSpec) (remoteID string, err error)
	UpdateAssistantVectorStores(ctx context.Context, remoteID string, vectorStoreIDs []string) error
	DeleteAssistant(ctx context.Context, remoteID string) error

	UploadFile(ctx context.Context, path string) (UploadedFile, error)

	CreateVectorStore(ctx context.Context, name string, fileIDs []string) (remoteID string, err error)
	AddFileToVectorStore(ctx context.Context, vectorStoreID, fileID string) error

	CreateThread(ctx context.Context) (remoteID string, err error)
	PostMessage(ctx context.Context, threadID, content string) (messageID string, err error)
	StartRun(ctx context.Context, threadID, assistantID string) (runID string, err error)

	// RunStatus returns the provider's raw run status string. Transport
	// failures must surface as errors, never as a stale status.
	RunStatus(ctx context.Context, threadID, runID string) (string, error)

	// LatestAssistantMessage fetches the most recent assistant message of a
	// run. A completed run with no message returns ok=false, not an error.
	LatestAssistantMessage(ctx context.Context, threadID, runID string) (msg AssistantMessage, ok bool, err error)
}
