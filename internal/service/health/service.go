package health

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/pictovoz/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/pictovoz/internal/ports"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// CheckResult represents the result of a health check
type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ms"`
	Timestamp time.Time     `json:"timestamp"`
}

// HealthResponse represents the overall health response
type HealthResponse struct {
	Status    Status                 `json:"status"`
	Version   string                 `json:"version,omitempty"`
	Uptime    string                 `json:"uptime,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// ReadyResponse represents the readiness response
type ReadyResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Checker defines a health check function
type Checker func(ctx context.Context) CheckResult

// Service handles health checks
type Service struct {
	startTime time.Time
	version   string
	checkers  map[string]Checker
	log       *zap.Logger
	mu        sync.RWMutex
}

// Config holds health service configuration. Nil dependencies are not
// checked.
type Config struct {
	Version  string
	Cache    ports.Cache
	Gate     ports.CredentialGate
	Breakers *circuitbreaker.Manager
}

// NewService creates a new health service
func NewService(config *Config, log *zap.Logger) *Service {
	s := &Service{
		startTime: time.Now(),
		version:   config.Version,
		checkers:  make(map[string]Checker),
		log:       log,
	}

	if config.Cache != nil {
		s.RegisterChecker("cache", cacheChecker(config.Cache, log))
	}
	if config.Gate != nil {
		s.RegisterChecker("credential", credentialChecker(config.Gate))
	}
	if config.Breakers != nil {
		s.RegisterChecker("circuit_breakers", breakerChecker(config.Breakers))
	}

	return s
}

// RegisterChecker registers a custom health checker
func (s *Service) RegisterChecker(name string, checker Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers[name] = checker
	s.log.Info("Registered health checker", zap.String("name", name))
}

// Health performs a basic liveness check
func (s *Service) Health(ctx context.Context) *HealthResponse {
	return &HealthResponse{
		Status:    StatusHealthy,
		Version:   s.version,
		Uptime:    time.Since(s.startTime).String(),
		Timestamp: time.Now(),
	}
}

// Ready performs a comprehensive readiness check
func (s *Service) Ready(ctx context.Context) *ReadyResponse {
	s.mu.RLock()
	checkers := make(map[string]Checker, len(s.checkers))
	for k, v := range s.checkers {
		checkers[k] = v
	}
	s.mu.RUnlock()

	// Run all checks concurrently
	results := make(map[string]CheckResult)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker Checker) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			result := checker(checkCtx)

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, checker)
	}

	wg.Wait()

	// Determine overall status
	overallStatus := StatusHealthy
	allReady := true

	for _, result := range results {
		if result.Status == StatusUnhealthy {
			overallStatus = StatusUnhealthy
			allReady = false
		} else if result.Status == StatusDegraded && overallStatus != StatusUnhealthy {
			overallStatus = StatusDegraded
		}
	}

	return &ReadyResponse{
		Ready:     allReady,
		Status:    overallStatus,
		Timestamp: time.Now(),
		Checks:    results,
	}
}

func cacheChecker(cache ports.Cache, log *zap.Logger) Checker {
	return func(ctx context.Context) CheckResult {
		start := time.Now()
		result := CheckResult{
			Name:      "cache",
			Timestamp: start,
		}

		err := cache.Ping()
		result.Duration = time.Since(start)

		if err != nil {
			result.Status = StatusUnhealthy
			result.Message = fmt.Sprintf("ping failed: %v", err)
			log.Warn("Cache health check failed", zap.Error(err))
		} else {
			result.Status = StatusHealthy
			result.Message = "connection ok"
		}

		return result
	}
}

// credentialChecker reports a missing AI credential as degraded: every
// operation still answers through its local fallback.
func credentialChecker(gate ports.CredentialGate) Checker {
	return func(ctx context.Context) CheckResult {
		result := CheckResult{
			Name:      "credential",
			Status:    StatusHealthy,
			Message:   "configured",
			Timestamp: time.Now(),
		}
		if !gate.HasCredential() {
			result.Status = StatusDegraded
			result.Message = "no AI credential, serving fallbacks"
		}
		return result
	}
}

func breakerChecker(m *circuitbreaker.Manager) Checker {
	return func(ctx context.Context) CheckResult {
		result := CheckResult{
			Name:      "circuit_breakers",
			Status:    StatusHealthy,
			Message:   "all closed",
			Timestamp: time.Now(),
		}

		var open []string
		for name, st := range m.Status() {
			if st.State != gobreaker.StateClosed.String() {
				open = append(open, name+"="+st.State)
			}
		}
		if len(open) > 0 {
			sort.Strings(open)
			result.Status = StatusDegraded
			result.Message = strings.Join(open, ", ")
		}
		return result
	}
}
