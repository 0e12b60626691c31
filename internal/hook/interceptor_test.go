package hook

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPusher appends to a shared event log so ordering against the
// queue call is observable.
type recordingPusher struct {
	events *[]string
}

func (p *recordingPusher) PushActive(ctx context.Context) {
	*p.events = append(*p.events, "push")
}

func TestWrapPushesBeforeQueue(t *testing.T) {
	var events []string
	interceptor := New(&recordingPusher{events: &events})

	fn := interceptor.Wrap(func(ctx context.Context, workflow json.RawMessage) (json.RawMessage, error) {
		events = append(events, "queue")
		return json.RawMessage(`{"prompt_id":"1"}`), nil
	})

	result, err := fn(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"prompt_id":"1"}`, string(result))
	assert.Equal(t, []string{"push", "queue"}, events, "push must complete before the queue body runs")
}

func TestWrapForwardsArgumentsAndResult(t *testing.T) {
	var events []string
	interceptor := New(&recordingPusher{events: &events})

	workflow := json.RawMessage(`{"nodes":{"3":{"class_type":"FalApiKeyManager"}}}`)
	wantErr := errors.New("queue full")

	fn := interceptor.Wrap(func(ctx context.Context, got json.RawMessage) (json.RawMessage, error) {
		assert.Equal(t, workflow, got)
		return nil, wantErr
	})

	_, err := fn(context.Background(), workflow)
	assert.ErrorIs(t, err, wantErr, "the wrapped function's result passes through unchanged")
}

func TestQueueProceedsWhenPushTargetIsDown(t *testing.T) {
	// The pusher contract swallows failures internally, so from the
	// interceptor's side a dead host is indistinguishable from success.
	var events []string
	interceptor := New(&recordingPusher{events: &events})

	queued := false
	fn := interceptor.Wrap(func(ctx context.Context, workflow json.RawMessage) (json.RawMessage, error) {
		queued = true
		return nil, nil
	})

	_, err := fn(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, queued)
}

func TestInstallIsIdempotent(t *testing.T) {
	var events []string
	interceptor := New(&recordingPusher{events: &events})

	var fn QueueFunc = func(ctx context.Context, workflow json.RawMessage) (json.RawMessage, error) {
		events = append(events, "queue")
		return nil, nil
	}

	assert.True(t, interceptor.Install(&fn))
	assert.False(t, interceptor.Install(&fn), "second install must be a no-op")
	assert.True(t, interceptor.Installed())

	_, err := fn(context.Background(), nil)
	require.NoError(t, err)

	// One push per submission, even after the repeated install attempt.
	assert.Equal(t, []string{"push", "queue"}, events)
}
