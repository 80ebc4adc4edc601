// Package health implements Kubernetes-style liveness and readiness probes.
//
// Registered checks run periodically in background goroutines. A check flips
// to unhealthy only after failing failureThreshold consecutive runs, and back
// to healthy after successThreshold consecutive passes, which keeps probes
// from flapping on transient errors.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc probes a single component. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

const (
	failureThreshold = 3
	successThreshold = 1
)

// check holds configuration and state for one registered probe. The healthy
// flag and lastErr are shared with HTTP handlers and use atomics; the
// consecutive counters are touched only by the single runner goroutine.
type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc

	healthy atomic.Bool
	lastErr atomic.Pointer[error]

	fails  int
	passes int
}

func (c *check) run(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.fn(probeCtx)
	c.lastErr.Store(&err)

	if err != nil {
		c.passes = 0
		if c.fails++; c.fails >= failureThreshold {
			c.healthy.Store(false)
		}
		return
	}
	c.fails = 0
	if c.passes++; c.passes >= successThreshold {
		c.healthy.Store(true)
	}
}

func (c *check) failure() (string, bool) {
	if c.healthy.Load() {
		return "", false
	}
	if p := c.lastErr.Load(); p != nil && *p != nil {
		return (*p).Error(), true
	}
	return "check is unhealthy", true
}

// Service manages the probe set for one process. It starts not-ready; call
// SetReady(true) once initialization completes.
type Service struct {
	ready atomic.Bool

	mu        sync.RWMutex
	liveness  []*check
	readiness []*check
	cancel    context.CancelFunc
}

// New returns an empty, not-ready Service.
func New() *Service {
	return &Service{}
}

func newCheck(name string, timeout time.Duration, fn CheckFunc) *check {
	c := &check{name: name, timeout: timeout, fn: fn}
	c.healthy.Store(true)
	return c
}

// AddLivenessCheck registers a probe answering "is this process alive", such
// as a goroutine count limit.
func (s *Service) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveness = append(s.liveness, newCheck(name, timeout, fn))
}

// AddReadinessCheck registers a probe answering "can this process serve
// traffic", such as database connectivity.
func (s *Service) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readiness = append(s.readiness, newCheck(name, timeout, fn))
}

// Start launches one goroutine per registered check, each running at the
// given interval until Stop is called or the context is cancelled. Register
// all checks before calling Start.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	all := append(append([]*check(nil), s.liveness...), s.readiness...)
	s.mu.Unlock()

	for _, c := range all {
		go func(c *check) {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			c.run(ctx)
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					c.run(ctx)
				}
			}
		}(c)
	}
}

// Stop cancels the background probe goroutines. Safe to call repeatedly.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// SetReady flips the manual readiness gate. Set false during graceful
// shutdown so load balancers stop routing new traffic.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady reports whether the manual gate is open and every readiness check
// currently passes.
func (s *Service) IsReady() bool {
	if !s.ready.Load() {
		return false
	}
	s.mu.RLock()
	checks := s.readiness
	s.mu.RUnlock()

	for _, c := range checks {
		if !c.healthy.Load() {
			return false
		}
	}
	return true
}

type probeResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves /livez: 200 when all liveness checks pass, 503 with
// per-check failure details otherwise.
func (s *Service) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	checks := append([]*check(nil), s.liveness...)
	s.mu.RUnlock()

	writeProbe(w, failures(checks))
}

// ReadyEndpoint serves /readyz: 200 when the service is marked ready and all
// readiness checks pass, 503 with details otherwise.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	checks := append([]*check(nil), s.readiness...)
	s.mu.RUnlock()

	fs := failures(checks)
	if !s.ready.Load() {
		fs["_readiness"] = "service is not ready"
	}
	writeProbe(w, fs)
}

func failures(checks []*check) map[string]string {
	fs := make(map[string]string)
	for _, c := range checks {
		if msg, failed := c.failure(); failed {
			fs[c.name] = msg
		}
	}
	return fs
}

func writeProbe(w http.ResponseWriter, fs map[string]string) {
	w.Header().Set("Content-Type", "application/json")

	resp := probeResponse{Status: "ok"}
	status := http.StatusOK
	if len(fs) > 0 {
		resp.Status = "unhealthy"
		resp.Checks = fs
		status = http.StatusServiceUnavailable
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
