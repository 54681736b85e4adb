// Package circuitbreaker short-circuits calls to a model provider that keeps
// failing, using github.com/sony/gobreaker.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrOpen is returned instead of calling the provider while the breaker is
// open or while a half-open breaker already has its probe requests in flight.
var ErrOpen = errors.New("circuit breaker open")

// Config configures one breaker.
type Config struct {
	// Name identifies the breaker in logs, e.g. "openai-api".
	Name string

	// MaxRequests is how many probe calls a half-open breaker lets through.
	MaxRequests uint32

	// Interval resets the closed-state counts. Zero never resets them.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration

	// FailureThreshold trips the breaker once the failure ratio reaches it.
	FailureThreshold float64

	// MinRequests is the sample size needed before the ratio is considered.
	MinRequests uint32
}

// ForProvider returns the default breaker settings for a model provider.
func ForProvider(provider string) Config {
	return Config{
		Name:             provider + "-api",
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// Option customizes a CircuitBreaker.
type Option func(*CircuitBreaker)

// WithLogger sets the logger used for state changes.
func WithLogger(l *slog.Logger) Option {
	return func(cb *CircuitBreaker) { cb.logger = l }
}

// OnStateChange registers fn to run after every transition.
func OnStateChange(fn func(name string, from, to gobreaker.State)) Option {
	return func(cb *CircuitBreaker) { cb.hook = fn }
}

// CircuitBreaker guards calls to one provider.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
	logger  *slog.Logger
	hook    func(name string, from, to gobreaker.State)
}

// New creates a breaker from cfg.
func New(cfg Config, opts ...Option) *CircuitBreaker {
	cb := &CircuitBreaker{name: cfg.Name, logger: slog.Default()}
	for _, opt := range opts {
		opt(cb)
	}

	cb.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.Requests >= cfg.MinRequests &&
				float64(c.TotalFailures)/float64(c.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: cb.stateChanged,
	})
	return cb
}

func (cb *CircuitBreaker) stateChanged(name string, from, to gobreaker.State) {
	level := slog.LevelInfo
	if to == gobreaker.StateOpen {
		level = slog.LevelWarn
	}
	cb.logger.Log(context.Background(), level, "circuit breaker state changed",
		slog.String("circuit", name),
		slog.String("from", from.String()),
		slog.String("to", to.String()))
	if cb.hook != nil {
		cb.hook(name, from, to)
	}
}

// Do runs fn through cb. Rejected calls fail with ErrOpen without running fn.
func Do[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	res, err := cb.breaker.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, ErrOpen
		}
		return zero, err
	}
	return res.(T), nil
}

// State returns the current breaker state.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Counts returns the requests and failures seen in the current generation.
func (cb *CircuitBreaker) Counts() gobreaker.Counts {
	return cb.breaker.Counts()
}

// Name returns the breaker name.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// IsOpen reports whether calls are currently rejected outright.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}
