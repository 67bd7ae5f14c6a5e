package ai

import (
	"context"

	"assistant-hub/internal/domain/ports/adapter"
	"assistant-hub/internal/runs"
)

var _ runs.Client = (*RunClient)(nil)

// RunClient bridges an AssistantsAPI to the runs.Client capability the poller
// consumes. Stateless; safe to share across concurrent polls.
type RunClient struct {
	api adapter.AssistantsAPI
}

func NewRunClient(api adapter.AssistantsAPI) *RunClient {
	return &RunClient{api: api}
}

func (c *RunClient) FetchStatus(ctx context.Context, h runs.Handle) (runs.Status, error) {
	s, err := c.api.RunStatus(ctx, h.ThreadID, h.RunID)
	if err != nil {
		return "", err
	}
	return runs.Status(s), nil
}

func (c *RunClient) FetchResult(ctx context.Context, h runs.Handle) (runs.Result, error) {
	msg, ok, err := c.api.LatestAssistantMessage(ctx, h.ThreadID, h.RunID)
	if err != nil {
		return runs.Result{}, err
	}
	if !ok {
		// Empty result set; the poller classifies this as a failure.
		return runs.Result{}, nil
	}
	return runs.Result{MessageID: msg.ID, Content: msg.Content}, nil
}
