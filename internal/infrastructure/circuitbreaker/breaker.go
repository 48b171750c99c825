package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/pictovoz/internal/observability/telemetry"
	"github.com/seu-repo/pictovoz/pkg/config"
)

// Settings configures a breaker. Zero values take the defaults of
// DefaultSettings.
type Settings struct {
	Name string

	// MaxRequests passes through while half-open.
	MaxRequests uint32

	// Interval clears the closed-state counts.
	Interval time.Duration

	// Timeout is how long the breaker stays open.
	Timeout time.Duration

	// FailureRatio trips the breaker once MinRequests have been seen.
	FailureRatio float64
	MinRequests  uint32

	// IsSuccessful decides which errors count as failures. Nil counts every
	// non-nil error.
	IsSuccessful func(err error) bool
}

func DefaultSettings(name string) Settings {
	return Settings{
		Name:         name,
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		FailureRatio: 0.6,
		MinRequests:  5,
	}
}

// SettingsFromConfig maps the circuit_breaker config block onto Settings.
func SettingsFromConfig(name string, cfg config.CircuitBreakerConfig) Settings {
	s := DefaultSettings(name)
	if cfg.MaxRequests > 0 {
		s.MaxRequests = uint32(cfg.MaxRequests)
	}
	if cfg.Interval > 0 {
		s.Interval = cfg.Interval
	}
	if cfg.Timeout > 0 {
		s.Timeout = cfg.Timeout
	}
	if cfg.FailureThreshold > 0 {
		s.FailureRatio = cfg.FailureThreshold
	}
	if cfg.MinRequests > 0 {
		s.MinRequests = uint32(cfg.MinRequests)
	}
	return s
}

// CircuitBreaker guards calls to a remote dependency. It never retries: a
// rejected call fails immediately with ErrOpen.
type CircuitBreaker struct {
	cb  *gobreaker.CircuitBreaker
	log *zap.Logger
}

var ErrOpen = errors.New("circuit breaker is open")

func New(settings Settings, log *zap.Logger) *CircuitBreaker {
	defaults := DefaultSettings(settings.Name)
	if settings.MaxRequests == 0 {
		settings.MaxRequests = defaults.MaxRequests
	}
	if settings.FailureRatio <= 0 {
		settings.FailureRatio = defaults.FailureRatio
	}
	if settings.MinRequests == 0 {
		settings.MinRequests = defaults.MinRequests
	}
	if settings.Timeout == 0 {
		settings.Timeout = defaults.Timeout
	}

	breaker := &CircuitBreaker{log: log}
	breaker.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < settings.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= settings.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			telemetry.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			log.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: settings.IsSuccessful,
	})
	telemetry.CircuitBreakerState.WithLabelValues(settings.Name).Set(float64(gobreaker.StateClosed))

	return breaker
}

// Execute runs fn unless the breaker is open.
func (b *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrOpen
	}
	return result, err
}

// Call is a typed wrapper around Execute.
func Call[T any](b *CircuitBreaker, fn func() (T, error)) (T, error) {
	result, err := b.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if v, ok := result.(T); ok {
			return v, err
		}
		return zero, err
	}
	return result.(T), nil
}

func (b *CircuitBreaker) Name() string {
	return b.cb.Name()
}

func (b *CircuitBreaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *CircuitBreaker) Counts() gobreaker.Counts {
	return b.cb.Counts()
}

// IsCircuitOpen reports whether err was produced by an open breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, ErrOpen)
}

// Manager keeps one breaker per dependency name.
type Manager struct {
	breakers map[string]*CircuitBreaker
	mu       sync.RWMutex
	log      *zap.Logger
}

func NewManager(log *zap.Logger) *Manager {
	return &Manager{
		breakers: make(map[string]*CircuitBreaker),
		log:      log,
	}
}

// Get returns the named breaker, creating it with settings on first use.
func (m *Manager) Get(name string, settings Settings) *CircuitBreaker {
	m.mu.RLock()
	cb, exists := m.breakers[name]
	m.mu.RUnlock()

	if exists {
		return cb
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if cb, exists = m.breakers[name]; exists {
		return cb
	}

	settings.Name = name
	cb = New(settings, m.log)
	m.breakers[name] = cb

	return cb
}

// BreakerStatus is the health view of one breaker.
type BreakerStatus struct {
	Name   string           `json:"name"`
	State  string           `json:"state"`
	Counts gobreaker.Counts `json:"counts"`
}

func (m *Manager) Status() map[string]BreakerStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := make(map[string]BreakerStatus, len(m.breakers))
	for name, cb := range m.breakers {
		status[name] = BreakerStatus{
			Name:   name,
			State:  cb.State().String(),
			Counts: cb.Counts(),
		}
	}
	return status
}
