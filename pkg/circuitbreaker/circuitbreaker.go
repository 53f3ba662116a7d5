package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// CircuitState is the current circuit breaker state.
type CircuitState int

const (
	// Closed allows requests to pass through
	Closed CircuitState = iota
	// Open blocks all requests
	Open
	// HalfOpen admits up to HalfOpenMaxCalls concurrent trial calls to test recovery
	HalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker guards calls and opens the circuit after repeated failures.
type CircuitBreaker interface {
	Call(func() error) error
	State() CircuitState
	Metrics() CircuitBreakerMetrics
	Reset()
}

type Config struct {
	FailureThreshold int           // consecutive failures before opening
	RecoveryTimeout  time.Duration // time spent Open before a HalfOpen trial
	SuccessThreshold int           // HalfOpen successes needed to close
	HalfOpenMaxCalls int           // concurrent HalfOpen trial calls; defaults to SuccessThreshold
	// IsFailure filters which errors count against the circuit. Nil counts every error.
	IsFailure func(error) bool
	// OnStateChange runs after every transition, outside the breaker's lock.
	OnStateChange func(from, to CircuitState)
}

func DefaultConfig() *Config {
	return &Config{
		FailureThreshold: 5,
		RecoveryTimeout:  60 * time.Second,
		SuccessThreshold: 3,
	}
}

// CircuitBreakerMetrics is a point-in-time snapshot of the breaker.
type CircuitBreakerMetrics struct {
	State        CircuitState
	FailureCount int
	SuccessCount int
	LastFailure  time.Time
	NextAttempt  time.Time
}

type transition struct {
	from, to CircuitState
}

type circuitBreaker struct {
	config      Config
	now         func() time.Time
	mutex       sync.Mutex
	state       CircuitState
	failures    int
	successes   int
	lastFailure time.Time
	nextAttempt time.Time
	trials      int
	generation  uint64
}

// NewCircuitBreaker returns a circuit breaker and applies defaults for nil or zero settings.
func NewCircuitBreaker(config *Config) CircuitBreaker {
	defaults := DefaultConfig()
	cfg := *defaults
	if config != nil {
		cfg = *config
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = defaults.RecoveryTimeout
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 1
	}
	if cfg.HalfOpenMaxCalls <= 0 {
		cfg.HalfOpenMaxCalls = cfg.SuccessThreshold
	}

	return &circuitBreaker{config: cfg, now: time.Now, state: Closed}
}

func (cb *circuitBreaker) Call(fn func() error) error {
	cb.mutex.Lock()
	changes := cb.admit()
	allowed := cb.state == Closed
	trial := false
	generation := cb.generation
	if cb.state == HalfOpen && cb.trials < cb.config.HalfOpenMaxCalls {
		cb.trials++
		allowed, trial = true, true
	}
	cb.mutex.Unlock()
	cb.notify(changes)

	if !allowed {
		return ErrCircuitOpen
	}

	// User code runs without the lock held.
	err := fn()

	cb.mutex.Lock()
	// A transition since admission already reset the trial count.
	if trial && generation == cb.generation {
		cb.trials--
	}
	if err != nil && cb.countsAsFailure(err) {
		changes = cb.recordFailure()
	} else {
		changes = cb.recordSuccess()
	}
	cb.mutex.Unlock()
	cb.notify(changes)

	return err
}

// admit moves Open to HalfOpen once the recovery timeout has passed.
func (cb *circuitBreaker) admit() []transition {
	if cb.state == Open && cb.now().After(cb.nextAttempt) {
		cb.successes = 0
		return cb.moveTo(HalfOpen)
	}
	return nil
}

func (cb *circuitBreaker) countsAsFailure(err error) bool {
	if cb.config.IsFailure == nil {
		return true
	}
	return cb.config.IsFailure(err)
}

func (cb *circuitBreaker) recordFailure() []transition {
	cb.failures++
	cb.lastFailure = cb.now()

	if cb.state == HalfOpen || (cb.state == Closed && cb.failures >= cb.config.FailureThreshold) {
		cb.nextAttempt = cb.now().Add(cb.config.RecoveryTimeout)
		return cb.moveTo(Open)
	}
	return nil
}

func (cb *circuitBreaker) recordSuccess() []transition {
	cb.failures = 0

	if cb.state != HalfOpen {
		return nil
	}

	cb.successes++
	if cb.successes < cb.config.SuccessThreshold {
		return nil
	}
	cb.successes = 0
	return cb.moveTo(Closed)
}

func (cb *circuitBreaker) moveTo(to CircuitState) []transition {
	if cb.state == to {
		return nil
	}
	from := cb.state
	cb.state = to
	cb.trials = 0
	cb.generation++
	return []transition{{from: from, to: to}}
}

func (cb *circuitBreaker) notify(changes []transition) {
	if cb.config.OnStateChange == nil {
		return
	}
	for _, t := range changes {
		cb.config.OnStateChange(t.from, t.to)
	}
}

func (cb *circuitBreaker) State() CircuitState {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

func (cb *circuitBreaker) Reset() {
	cb.mutex.Lock()
	changes := cb.moveTo(Closed)
	cb.failures = 0
	cb.successes = 0
	cb.mutex.Unlock()
	cb.notify(changes)
}

func (cb *circuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	return CircuitBreakerMetrics{
		State:        cb.state,
		FailureCount: cb.failures,
		SuccessCount: cb.successes,
		LastFailure:  cb.lastFailure,
		NextAttempt:  cb.nextAttempt,
	}
}
