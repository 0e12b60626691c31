package hook

import (
	"context"
	"encoding/json"
	"sync/atomic"
)

// Pusher mirrors the active credential to the host. Implementations are
// best-effort and never return an error; see falapi.Client.
type Pusher interface {
	PushActive(ctx context.Context)
}

// QueueFunc is the host's job-submission entry point: it enqueues one
// workflow and returns the host's reply.
type QueueFunc func(ctx context.Context, workflow json.RawMessage) (json.RawMessage, error)

// Interceptor wraps a queue function so the active credential push runs
// to completion before the submission body begins. The push outcome never
// changes what happens next: a failed push still queues.
type Interceptor struct {
	pusher    Pusher
	installed atomic.Bool
}

func New(pusher Pusher) *Interceptor {
	return &Interceptor{pusher: pusher}
}

// Wrap returns a queue function that pushes first, then delegates with
// all arguments and the result passed through unchanged.
func (i *Interceptor) Wrap(fn QueueFunc) QueueFunc {
	return func(ctx context.Context, workflow json.RawMessage) (json.RawMessage, error) {
		i.pusher.PushActive(ctx)
		return fn(ctx, workflow)
	}
}

// Install replaces *fn with its wrapped form. Idempotent: only the first
// call takes effect, so the push can never run twice per submission.
// Returns whether this call did the install.
func (i *Interceptor) Install(fn *QueueFunc) bool {
	if !i.installed.CompareAndSwap(false, true) {
		return false
	}
	*fn = i.Wrap(*fn)
	return true
}

// Installed reports whether Install has already taken effect.
func (i *Interceptor) Installed() bool {
	return i.installed.Load()
}
