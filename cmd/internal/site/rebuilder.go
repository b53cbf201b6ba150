package site

import (
	"context"
	"sync"

	"spacetraveling/cmd/internal/logger"
)

// Rebuilder serializes builds. A trigger that arrives while a build runs
// schedules exactly one more build after it; further triggers are coalesced.
type Rebuilder struct {
	builder interface {
		Build(ctx context.Context) (Report, error)
	}

	mu      sync.Mutex
	running bool
	pending bool
}

func NewRebuilder(builder *Builder) *Rebuilder {
	return &Rebuilder{builder: builder}
}

// Trigger starts a build in the background unless one is already running.
// It reports whether a new build goroutine was started.
func (r *Rebuilder) Trigger(ctx context.Context, reason string) bool {
	r.mu.Lock()
	if r.running {
		r.pending = true
		r.mu.Unlock()
		logger.InfoWithFields("site rebuild coalesced", logger.Fields{"reason": reason})
		return false
	}
	r.running = true
	r.mu.Unlock()

	go r.loop(ctx, reason)
	return true
}

func (r *Rebuilder) loop(ctx context.Context, reason string) {
	for {
		if _, err := r.builder.Build(ctx); err != nil {
			logger.ErrorWithFields("site rebuild failed", logger.Fields{"reason": reason, "error": err.Error()})
		}

		r.mu.Lock()
		if !r.pending || ctx.Err() != nil {
			r.running = false
			r.pending = false
			r.mu.Unlock()
			return
		}
		r.pending = false
		r.mu.Unlock()
		reason = "coalesced"
	}
}

// Running reports whether a build is in progress.
func (r *Rebuilder) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
