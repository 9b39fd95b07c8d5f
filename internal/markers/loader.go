package markers

import (
	"context"
	"sync"
)

// LoadState is the lifecycle of a one-time asynchronous initialization.
type LoadState int

const (
	StateUninitialized LoadState = iota
	StateLoading
	StateReady
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// LoadFunc performs the actual one-time initialization.
type LoadFunc func(ctx context.Context) error

// Loader gates consumers behind a one-time initialization with a single
// shared in-flight operation: concurrent Ensure calls during the load all
// await the same attempt instead of starting their own.
type Loader struct {
	mu    sync.Mutex
	load  LoadFunc
	state LoadState
	done  chan struct{}
	err   error
}

// NewLoader creates a Loader in the uninitialized state.
func NewLoader(load LoadFunc) *Loader {
	return &Loader{load: load}
}

// State returns the current lifecycle state.
func (l *Loader) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Ensure blocks until the initialization has completed, running it if no
// attempt is in flight. A failed load stays failed; every subsequent
// Ensure returns the original error. Waiting callers are released early if
// their context is cancelled, without affecting the in-flight load.
func (l *Loader) Ensure(ctx context.Context) error {
	l.mu.Lock()
	switch l.state {
	case StateReady:
		l.mu.Unlock()
		return nil
	case StateFailed:
		err := l.err
		l.mu.Unlock()
		return err
	case StateLoading:
		done := l.done
		l.mu.Unlock()
		select {
		case <-done:
			return l.Ensure(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	// Uninitialized: this caller runs the load.
	l.state = StateLoading
	l.done = make(chan struct{})
	done := l.done
	l.mu.Unlock()

	err := l.load(ctx)

	l.mu.Lock()
	if err != nil {
		l.state = StateFailed
		l.err = err
	} else {
		l.state = StateReady
	}
	l.mu.Unlock()
	close(done)

	return err
}
