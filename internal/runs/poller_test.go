package runs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptClient replays a fixed status sequence and counts calls. The last
// status repeats if the script runs out.
type scriptClient struct {
	statuses    []Status
	statusErr   error
	result      Result
	resultErr   error
	statusCalls int
	resultCalls int
	lastHandle  Handle
}

func (c *scriptClient) FetchStatus(ctx context.Context, h Handle) (Status, error) {
	c.lastHandle = h
	c.statusCalls++
	if c.statusErr != nil {
		return "", c.statusErr
	}
	i := c.statusCalls - 1
	if i >= len(c.statuses) {
		i = len(c.statuses) - 1
	}
	return c.statuses[i], nil
}

func (c *scriptClient) FetchResult(ctx context.Context, h Handle) (Result, error) {
	c.resultCalls++
	if c.resultErr != nil {
		return Result{}, c.resultErr
	}
	return c.result, nil
}

var testHandle = Handle{ThreadID: "thread_abc", RunID: "run_xyz"}

func TestPoll_PendingUntilBudget(t *testing.T) {
	cli := &scriptClient{statuses: []Status{StatusQueued}}
	p := NewPoller(cli, WithMaxAttempts(5), WithDelay(0))

	out, err := p.Poll(context.Background(), testHandle)
	require.NoError(t, err)
	assert.Equal(t, OutcomeTimeout, out.Kind)
	assert.Equal(t, 5, out.Attempts)
	assert.Equal(t, 5, cli.statusCalls)
	assert.Equal(t, 0, cli.resultCalls)
}

func TestPoll_SuccessOnKthAttempt(t *testing.T) {
	cli := &scriptClient{
		statuses: []Status{StatusQueued, StatusInProgress, StatusCompleted},
		result:   Result{MessageID: "msg_1", Content: "hello"},
	}
	p := NewPoller(cli, WithMaxAttempts(3), WithDelay(0))

	out, err := p.Poll(context.Background(), testHandle)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, out.Kind)
	assert.Equal(t, "hello", out.Result.Content)
	assert.Equal(t, 3, out.Attempts)
	assert.Equal(t, 3, cli.statusCalls)
	assert.Equal(t, 1, cli.resultCalls)
}

func TestPoll_TerminalFailureStopsImmediately(t *testing.T) {
	for _, st := range []Status{StatusCancelled, StatusFailed, StatusExpired} {
		cli := &scriptClient{statuses: []Status{st}}
		p := NewPoller(cli, WithMaxAttempts(10), WithDelay(0))

		out, err := p.Poll(context.Background(), testHandle)
		require.NoError(t, err)
		assert.Equal(t, OutcomeFailure, out.Kind, "status %q", st)
		assert.Equal(t, string(st), out.Reason)
		assert.Equal(t, st, out.RawStatus)
		assert.Equal(t, 1, cli.statusCalls)
		assert.Equal(t, 0, cli.resultCalls)
	}
}

func TestPoll_RequiresActionIsOneShot(t *testing.T) {
	cli := &scriptClient{statuses: []Status{StatusRequiresAction}}
	p := NewPoller(cli, WithMaxAttempts(10), WithDelay(0))

	out, err := p.Poll(context.Background(), testHandle)
	require.NoError(t, err)
	assert.Equal(t, OutcomeActionRequired, out.Kind)
	assert.Equal(t, StatusRequiresAction, out.RawStatus)
	assert.Equal(t, 1, cli.statusCalls)
	assert.Equal(t, 0, cli.resultCalls, "requires_action must not fetch the result")
}

func TestPoll_EmptyResultIsFailure(t *testing.T) {
	cli := &scriptClient{statuses: []Status{StatusCompleted}}
	p := NewPoller(cli, WithMaxAttempts(3), WithDelay(0))

	out, err := p.Poll(context.Background(), testHandle)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailure, out.Kind)
	assert.Equal(t, "empty result", out.Reason)
	assert.Equal(t, 1, cli.resultCalls)
}

func TestPoll_TransportErrorPropagatesImmediately(t *testing.T) {
	boom := errors.New("connection reset")
	cli := &scriptClient{statusErr: boom}
	p := NewPoller(cli, WithMaxAttempts(10), WithDelay(0))

	_, err := p.Poll(context.Background(), testHandle)
	require.Error(t, err)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, cli.statusCalls, "transport errors must not loop")
}

func TestPoll_TransportErrorOnResultFetch(t *testing.T) {
	boom := errors.New("read timeout")
	cli := &scriptClient{statuses: []Status{StatusCompleted}, resultErr: boom}
	p := NewPoller(cli, WithMaxAttempts(3), WithDelay(0))

	_, err := p.Poll(context.Background(), testHandle)
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "fetch result", te.Op)
}

func TestPoll_UnknownStatusIsFailure(t *testing.T) {
	cli := &scriptClient{statuses: []Status{Status("incomplete")}}
	p := NewPoller(cli, WithMaxAttempts(3), WithDelay(0))

	out, err := p.Poll(context.Background(), testHandle)
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailure, out.Kind)
	assert.Contains(t, out.Reason, "unrecognized status")
	assert.Equal(t, 1, cli.statusCalls)
}

func TestPoll_CancelledBeforeFirstFetch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cli := &scriptClient{statuses: []Status{StatusQueued}}
	p := NewPoller(cli, WithMaxAttempts(3), WithDelay(0))

	out, err := p.Poll(ctx, testHandle)
	require.NoError(t, err)
	assert.Equal(t, OutcomeCancelled, out.Kind)
	assert.Equal(t, 0, cli.statusCalls, "cancellation must skip the final fetch")
}

func TestPoll_Idempotent(t *testing.T) {
	cli := &scriptClient{
		statuses: []Status{StatusCompleted},
		result:   Result{MessageID: "msg_7", Content: "same"},
	}
	p := NewPoller(cli, WithMaxAttempts(3), WithDelay(0))

	first, err := p.Poll(context.Background(), testHandle)
	require.NoError(t, err)
	second, err := p.Poll(context.Background(), testHandle)
	require.NoError(t, err)
	assert.Equal(t, first, second, "poller holds no cross-call state")
	assert.Equal(t, testHandle, cli.lastHandle)
}

func TestPoll_ScenarioQueuedInProgressCompleted(t *testing.T) {
	cli := &scriptClient{
		statuses: []Status{StatusQueued, StatusInProgress, StatusCompleted},
		result:   Result{MessageID: "msg_2", Content: "done"},
	}
	p := NewPoller(cli, WithMaxAttempts(3), WithDelay(0))

	out, err := p.Poll(context.Background(), testHandle)
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, out.Kind)
	assert.Equal(t, 3, cli.statusCalls)
}

func TestPoll_ScenarioTwoQueuedTimesOut(t *testing.T) {
	cli := &scriptClient{statuses: []Status{StatusQueued, StatusQueued}}
	p := NewPoller(cli, WithMaxAttempts(2), WithDelay(0))

	out, err := p.Poll(context.Background(), testHandle)
	require.NoError(t, err)
	assert.Equal(t, OutcomeTimeout, out.Kind)
	assert.Equal(t, 2, cli.statusCalls)
}

func TestDefaults(t *testing.T) {
	p := NewPoller(&scriptClient{})
	assert.Equal(t, DefaultMaxAttempts, p.maxAttempts)
	assert.Equal(t, DefaultDelay, p.delay)

	// Non-positive overrides are ignored.
	p = NewPoller(&scriptClient{}, WithMaxAttempts(0), WithDelay(-1))
	assert.Equal(t, DefaultMaxAttempts, p.maxAttempts)
	assert.Equal(t, DefaultDelay, p.delay)
}
