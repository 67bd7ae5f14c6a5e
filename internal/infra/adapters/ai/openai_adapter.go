package ai

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"assistant-hub/internal/domain/ports/adapter"
	"assistant-hub/internal/infra/metrics"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.AssistantsAPI = (*OpenAIAdapter)(nil)

// OpenAIAdapter implements adapter.AssistantsAPI against the Assistants v2
// surface (assistants, files, vector stores, threads, runs).
type OpenAIAdapter struct {
	client *goopenai.Client
	model  string
}

func NewOpenAIAdapter(apiKey, model, baseURL string) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIAdapter{client: goopenai.NewClientWithConfig(cfg), model: model}, nil
}

// observe records one provider call for the latency histogram.
func observe(op string, start time.Time, err error) {
	metrics.ObserveProviderCall("openai", op, int(time.Since(start)/time.Millisecond), err == nil)
}

func (a *OpenAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	start := time.Now()
	list, err := a.client.ListModels(ctx)
	observe("list_models", start, err)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		out = append(out, m.ID)
	}
	return out, nil
}

func (a *OpenAIAdapter) CreateAssistant(ctx context.Context, spec adapter.AssistantSpec) (string, error) {
	model := spec.Model
	if model == "" {
		model = a.model
	}
	name := spec.Name
	instructions := spec.Instructions
	req := goopenai.AssistantRequest{
		Model:        model,
		Name:         &name,
		Instructions: &instructions,
		Tools:        []goopenai.AssistantTool{{Type: goopenai.AssistantToolTypeFileSearch}},
	}
	if len(spec.VectorStoreIDs) > 0 {
		req.ToolResources = &goopenai.AssistantToolResource{
			FileSearch: &goopenai.AssistantToolFileSearch{VectorStoreIDs: spec.VectorStoreIDs},
		}
	}

	start := time.Now()
	asst, err := a.client.CreateAssistant(ctx, req)
	observe("create_assistant", start, err)
	if err != nil {
		return "", err
	}
	return asst.ID, nil
}

func (a *OpenAIAdapter) UpdateAssistantVectorStores(ctx context.Context, remoteID string, vectorStoreIDs []string) error {
	req := goopenai.AssistantRequest{
		Tools: []goopenai.AssistantTool{{Type: goopenai.AssistantToolTypeFileSearch}},
		ToolResources: &goopenai.AssistantToolResource{
			FileSearch: &goopenai.AssistantToolFileSearch{VectorStoreIDs: vectorStoreIDs},
		},
	}
	start := time.Now()
	_, err := a.client.ModifyAssistant(ctx, remoteID, req)
	observe("modify_assistant", start, err)
	return err
}

func (a *OpenAIAdapter) DeleteAssistant(ctx context.Context, remoteID string) error {
	start := time.Now()
	_, err := a.client.DeleteAssistant(ctx, remoteID)
	observe("delete_assistant", start, err)
	return err
}

func (a *OpenAIAdapter) UploadFile(ctx context.Context, path string) (adapter.UploadedFile, error) {
	start := time.Now()
	f, err := a.client.CreateFile(ctx, goopenai.FileRequest{
		FileName: filepath.Base(path),
		FilePath: path,
		Purpose:  "assistants",
	})
	observe("create_file", start, err)
	if err != nil {
		return adapter.UploadedFile{}, err
	}
	return adapter.UploadedFile{ID: f.ID, Filename: f.FileName, Bytes: int64(f.Bytes)}, nil
}

func (a *OpenAIAdapter) CreateVectorStore(ctx context.Context, name string, fileIDs []string) (string, error) {
	start := time.Now()
	vs, err := a.client.CreateVectorStore(ctx, goopenai.VectorStoreRequest{
		Name:    name,
		FileIDs: fileIDs,
	})
	observe("create_vector_store", start, err)
	if err != nil {
		return "", err
	}
	return vs.ID, nil
}

func (a *OpenAIAdapter) AddFileToVectorStore(ctx context.Context, vectorStoreID, fileID string) error {
	start := time.Now()
	_, err := a.client.CreateVectorStoreFile(ctx, vectorStoreID, goopenai.VectorStoreFileRequest{FileID: fileID})
	observe("add_vector_store_file", start, err)
	return err
}

func (a *OpenAIAdapter) CreateThread(ctx context.Context) (string, error) {
	start := time.Now()
	th, err := a.client.CreateThread(ctx, goopenai.ThreadRequest{})
	observe("create_thread", start, err)
	if err != nil {
		return "", err
	}
	return th.ID, nil
}

func (a *OpenAIAdapter) PostMessage(ctx context.Context, threadID, content string) (string, error) {
	start := time.Now()
	msg, err := a.client.CreateMessage(ctx, threadID, goopenai.MessageRequest{
		Role:    goopenai.ChatMessageRoleUser,
		Content: content,
	})
	observe("create_message", start, err)
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (a *OpenAIAdapter) StartRun(ctx context.Context, threadID, assistantID string) (string, error) {
	start := time.Now()
	run, err := a.client.CreateRun(ctx, threadID, goopenai.RunRequest{AssistantID: assistantID})
	observe("create_run", start, err)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

func (a *OpenAIAdapter) RunStatus(ctx context.Context, threadID, runID string) (string, error) {
	start := time.Now()
	run, err := a.client.RetrieveRun(ctx, threadID, runID)
	observe("retrieve_run", start, err)
	if err != nil {
		return "", err
	}
	return string(run.Status), nil
}

func (a *OpenAIAdapter) LatestAssistantMessage(ctx context.Context, threadID, runID string) (adapter.AssistantMessage, bool, error) {
	limit := 1
	order := "desc"

	start := time.Now()
	list, err := a.client.ListMessage(ctx, threadID, &limit, &order, nil, nil, &runID)
	observe("list_messages", start, err)
	if err != nil {
		return adapter.AssistantMessage{}, false, err
	}
	if len(list.Messages) == 0 {
		return adapter.AssistantMessage{}, false, nil
	}

	m := list.Messages[0]
	var sb strings.Builder
	for _, c := range m.Content {
		if c.Text != nil {
			sb.WriteString(c.Text.Value)
		}
	}
	out := adapter.AssistantMessage{ID: m.ID, Content: sb.String()}
	if m.RunID != nil {
		out.RunID = *m.RunID
	}
	return out, true, nil
}
