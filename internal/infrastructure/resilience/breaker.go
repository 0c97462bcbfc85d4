package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned without calling out while the breaker is open
// or while its single probe is in flight.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures a Breaker. Zero values fall back to 5 failures and
// a 30s cooldown.
type Settings struct {
	// Threshold is the number of consecutive failures that opens the breaker
	Threshold uint32
	// Cooldown is how long the breaker stays open before one probe is let through
	Cooldown time.Duration
	// OnStateChange is called with the breaker lock held; it must not call back
	OnStateChange func(name string, from, to State)
}

// Breaker stops calling a dependency that keeps failing
type Breaker struct {
	name     string
	settings Settings
	now      func() time.Time

	mu       sync.Mutex
	state    State
	failures uint32
	openedAt time.Time
	probing  bool
}

// New creates a closed breaker
func New(name string, settings Settings) *Breaker {
	if settings.Threshold == 0 {
		settings.Threshold = 5
	}
	if settings.Cooldown == 0 {
		settings.Cooldown = 30 * time.Second
	}
	return &Breaker{name: name, settings: settings, now: time.Now}
}

// Name returns the name of the circuit breaker
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state. An open breaker whose cooldown has
// elapsed reports half-open.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advance()
	return b.state
}

// Failures returns the current run of consecutive failures
func (b *Breaker) Failures() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// Execute runs call unless the breaker is open. Failures caused by the
// caller cancelling ctx are not held against the dependency.
func (b *Breaker) Execute(ctx context.Context, call func(context.Context) error) error {
	if err := b.acquire(); err != nil {
		return err
	}

	err := call(ctx)
	switch {
	case err == nil:
		b.release(outcomeSuccess)
	case ctx.Err() != nil:
		b.release(outcomeNeutral)
	default:
		b.release(outcomeFailure)
	}
	return err
}

type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeFailure
	outcomeNeutral
)

func (b *Breaker) acquire() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance()
	switch b.state {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if b.probing {
			return ErrCircuitOpen
		}
		b.probing = true
	}
	return nil
}

func (b *Breaker) release(o outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()

	halfOpen := b.state == StateHalfOpen
	b.probing = false

	switch o {
	case outcomeSuccess:
		b.failures = 0
		if halfOpen {
			b.transition(StateClosed)
		}
	case outcomeFailure:
		b.failures++
		if halfOpen || b.failures >= b.settings.Threshold {
			b.openedAt = b.now()
			b.transition(StateOpen)
		}
	}
}

// advance moves an open breaker to half-open once the cooldown elapsed;
// callers hold mu.
func (b *Breaker) advance() {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.settings.Cooldown {
		b.transition(StateHalfOpen)
	}
}

func (b *Breaker) transition(to State) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to
	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, from, to)
	}
}
