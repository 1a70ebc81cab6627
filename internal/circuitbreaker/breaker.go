package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned while the breaker refuses calls.
var ErrOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Breaker guards the upstream generation API. Consecutive tripping failures
// open it; after the cooldown one probe call is let through. Not every error
// counts: the Tripping predicate decides what signals upstream trouble, so a
// malformed model reply does not take the upstream offline for everyone.
type Breaker struct {
	mu           sync.Mutex
	state        State
	failureCount int
	lastFailure  time.Time

	maxFailures int
	cooldown    time.Duration
	tripping    func(error) bool
}

type Config struct {
	MaxFailures int           // consecutive failures before opening; default 5
	Cooldown    time.Duration // how long to stay open; default 30s
	Tripping    func(error) bool
}

func New(cfg Config) *Breaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.Tripping == nil {
		cfg.Tripping = func(error) bool { return true }
	}

	return &Breaker{
		state:       StateClosed,
		maxFailures: cfg.MaxFailures,
		cooldown:    cfg.Cooldown,
		tripping:    cfg.Tripping,
	}
}

// Call runs fn unless the breaker is open. An open breaker fails fast with
// ErrOpen; callers surface that as an upstream error without retrying.
func (b *Breaker) Call(fn func() error) error {
	b.mu.Lock()
	if b.state == StateOpen {
		if time.Since(b.lastFailure) < b.cooldown {
			b.mu.Unlock()
			return ErrOpen
		}
		b.state = StateHalfOpen
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil && b.tripping(err) {
		b.failureCount++
		b.lastFailure = time.Now()
		if b.state == StateHalfOpen || b.failureCount >= b.maxFailures {
			b.state = StateOpen
		}
		return err
	}

	if err == nil {
		b.state = StateClosed
		b.failureCount = 0
	}

	return err
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failureCount = 0
}
