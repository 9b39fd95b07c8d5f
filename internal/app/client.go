package app

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/1pybb7-prog/mytourproject1/internal/metrics"
)

// latencyTrackingRoundTripper wraps another RoundTripper to record the
// duration of each outgoing request as a Prometheus histogram, labeled by
// host, method, and response status.
type latencyTrackingRoundTripper struct {
	next http.RoundTripper
}

func (rt *latencyTrackingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := rt.next.RoundTrip(req)
	duration := time.Since(start).Seconds()

	status := "error"
	if err == nil && resp != nil {
		status = strconv.Itoa(resp.StatusCode)
	}

	metrics.OutgoingRequestDuration.WithLabelValues(
		req.URL.Host,
		req.Method,
		status,
	).Observe(duration)

	return resp, err
}

// NewPooledClient returns an HTTP client tuned for periodically polling
// the tour catalog API: generous keep-alive pooling so refresh rounds
// reuse connections, and short dial and handshake timeouts so a dead
// source fails fast. The transport is instrumented with request latency
// metrics.
func NewPooledClient() *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 5 * time.Second,
	}

	instrumentedTransport := &latencyTrackingRoundTripper{next: transport}

	client := &http.Client{
		Transport: instrumentedTransport,
		Timeout:   10 * time.Second,
	}
	return client
}
