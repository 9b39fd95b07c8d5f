package config

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"
)

const (
	BASE_BACKOFF   = 1 * time.Second
	MAX_BACKOFF    = 2 * time.Minute
	BACKOFF_FACTOR = 2.0
	JITTER_FACTOR  = 0.5
)

type backoffData struct {
	BackoffDelay time.Duration
	NextRetryAt  time.Time
}

// BackoffStore tracks per-source retry state so a source that keeps
// failing is polled less and less often.
type BackoffStore struct {
	mu       sync.RWMutex
	backoffs map[int]backoffData
}

// NewBackoffStore creates and returns a new BackoffStore.
func NewBackoffStore() *BackoffStore {
	return &BackoffStore{
		backoffs: make(map[int]backoffData),
	}
}

// NextRetryAt returns the earliest time the source should be retried, if
// it is currently in backoff.
func (s *BackoffStore) NextRetryAt(sourceID int) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if backoff, exists := s.backoffs[sourceID]; exists {
		return backoff.NextRetryAt.UTC(), true
	}
	return time.Time{}, false
}

// UpdateBackoff records a failure, doubling the source's delay up to the
// cap.
func (s *BackoffStore) UpdateBackoff(sourceID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if backoff, exists := s.backoffs[sourceID]; exists {
		backoff.BackoffDelay = calculateNewBackoffDelay(backoff.BackoffDelay)
		backoff.NextRetryAt = calculateNextRetryAt(backoff.BackoffDelay)
		s.backoffs[sourceID] = backoff
	} else {
		s.backoffs[sourceID] = backoffData{
			BackoffDelay: BASE_BACKOFF,
			NextRetryAt:  calculateNextRetryAt(BASE_BACKOFF),
		}
	}
}

// ResetBackoff clears the retry state after a successful fetch.
func (s *BackoffStore) ResetBackoff(sourceID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.backoffs, sourceID)
}

func calculateNextRetryAt(backoff time.Duration) time.Time {
	jitter := time.Duration(rand.Float64() * float64(backoff) * JITTER_FACTOR)
	backoff += jitter
	if backoff > MAX_BACKOFF {
		backoff = MAX_BACKOFF
	}
	return time.Now().Add(backoff).UTC()
}

func calculateNewBackoffDelay(backoffDelay time.Duration) time.Duration {
	backoffDelay *= BACKOFF_FACTOR
	if backoffDelay >= MAX_BACKOFF {
		backoffDelay = MAX_BACKOFF
	}
	return backoffDelay
}

// DoWithBackoff performs the request, retrying with jittered exponential
// backoff on transport errors and 5xx responses. It gives up after
// maxRetries additional attempts or when the context is cancelled.
func DoWithBackoff(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	delay := BASE_BACKOFF
	var lastErr error

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.WithContext(ctx))
		if err == nil && resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("server returned status: %d", resp.StatusCode)
			resp.Body.Close()
		}

		if attempt >= maxRetries {
			return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
		}

		jittered := delay + time.Duration(rand.Float64()*float64(delay)*JITTER_FACTOR)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(jittered):
		}

		delay = calculateNewBackoffDelay(delay)
	}
}
