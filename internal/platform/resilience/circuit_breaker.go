package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreaker guards an outbound dependency. Consecutive failures
// past the threshold open the circuit; after the open timeout a limited
// number of probe requests decides whether it closes again.
type CircuitBreaker struct {
	mu sync.Mutex

	threshold   int
	openFor     time.Duration
	probeBudget int

	state          CircuitState
	failStreak     int
	reopenAt       time.Time
	probesInFlight int
	probesOK       int
	now            func() time.Time
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) *CircuitBreaker {
	if failureThreshold < 1 {
		failureThreshold = 1
	}
	if openTimeout <= 0 {
		openTimeout = 15 * time.Second
	}
	if halfOpenMaxReq < 1 {
		halfOpenMaxReq = 1
	}

	return &CircuitBreaker{
		threshold:   failureThreshold,
		openFor:     openTimeout,
		probeBudget: halfOpenMaxReq,
		state:       CircuitStateClosed,
		now:         time.Now,
	}
}

// Allow reports whether a request may proceed. In the half-open state it
// also reserves one probe slot, released by RecordSuccess/RecordFailure.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.resolveState() {
	case CircuitStateOpen:
		return ErrCircuitOpen
	case CircuitStateHalfOpen:
		if b.probesInFlight >= b.probeBudget {
			return ErrCircuitOpen
		}
		b.probesInFlight++
	}
	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.resolveState() {
	case CircuitStateClosed:
		b.failStreak = 0
	case CircuitStateHalfOpen:
		b.releaseProbe()
		b.probesOK++
		if b.probesOK >= b.probeBudget && b.probesInFlight == 0 {
			b.reset(CircuitStateClosed)
		}
	}
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.resolveState() {
	case CircuitStateClosed:
		b.failStreak++
		if b.failStreak >= b.threshold {
			b.trip()
		}
	case CircuitStateHalfOpen:
		b.releaseProbe()
		b.trip()
	case CircuitStateOpen:
		b.reopenAt = b.now().Add(b.openFor)
	}
}

func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resolveState()
}

// resolveState advances an expired open state to half-open. Callers hold
// the mutex.
func (b *CircuitBreaker) resolveState() CircuitState {
	if b.state == CircuitStateOpen && !b.now().Before(b.reopenAt) {
		b.reset(CircuitStateHalfOpen)
	}
	return b.state
}

func (b *CircuitBreaker) releaseProbe() {
	if b.probesInFlight > 0 {
		b.probesInFlight--
	}
}

func (b *CircuitBreaker) trip() {
	b.reset(CircuitStateOpen)
	b.reopenAt = b.now().Add(b.openFor)
}

func (b *CircuitBreaker) reset(state CircuitState) {
	b.state = state
	b.failStreak = 0
	b.probesInFlight = 0
	b.probesOK = 0
}
