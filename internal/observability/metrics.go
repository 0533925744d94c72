package observability

import (
	"sync"
	"time"
)

type requestKey struct {
	method string
	path   string
	status int
}

type errorKey struct {
	method string
	path   string
	code   string
}

// Metrics keeps in-process request and error counters for the helpdesk
// API. Counters are keyed by route, not by ticket, so cardinality stays
// bounded.
type Metrics struct {
	mu       sync.Mutex
	requests map[requestKey]int64
	errors   map[errorKey]int64
}

// NewMetrics initializes empty counters.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[requestKey]int64),
		errors:   make(map[errorKey]int64),
	}
}

// RecordRequest counts one handled request.
func (m *Metrics) RecordRequest(path, method string, status int, _ time.Duration) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[requestKey{method: method, path: path, status: status}]++
}

// RecordError counts one request that ended in a domain error, keyed by
// the error code the client saw.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[errorKey{method: method, path: path, code: code}]++
}
