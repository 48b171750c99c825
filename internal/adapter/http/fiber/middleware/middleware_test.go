package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/pictovoz/pkg/config"
)

func TestRateLimiter_PerClientBucket(t *testing.T) {
	// Arrange
	rl := NewRateLimiter(config.RateLimitingConfig{Enabled: true, RequestsPerSecond: 1, Burst: 2})
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	// Act / Assert
	if !rl.allow("a") || !rl.allow("a") {
		t.Fatal("Expected burst of 2 to pass")
	}
	if rl.allow("a") {
		t.Error("Expected third request to be limited")
	}
	if !rl.allow("b") {
		t.Error("Expected other client to have its own bucket")
	}

	now = now.Add(time.Second)
	if !rl.allow("a") {
		t.Error("Expected bucket to refill after one second")
	}
}

func TestRateLimiter_SweepsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitingConfig{RequestsPerSecond: 1, Burst: 1, IdleTTL: time.Minute})
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	rl.allow("a")
	rl.allow("b")
	now = now.Add(2 * time.Minute)
	rl.allow("c")

	if len(rl.visitors) != 1 {
		t.Errorf("Expected 1 visitor after sweep, got %d", len(rl.visitors))
	}
}

func TestRateLimit_Handler(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimit(config.RateLimitingConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected 429, got %d", resp.StatusCode)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimit(config.RateLimitingConfig{Enabled: false, RequestsPerSecond: 0.001, Burst: 1}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for i := 0; i < 3; i++ {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Expected 200, got %d", resp.StatusCode)
		}
	}
}

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	resp, _ := app.Test(req)
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "abc-123" || resp.Header.Get(HeaderRequestID) != "abc-123" {
		t.Errorf("Expected propagated id, got body %q header %q", body, resp.Header.Get(HeaderRequestID))
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if len(resp.Header.Get(HeaderRequestID)) != 36 {
		t.Errorf("Expected generated uuid, got %q", resp.Header.Get(HeaderRequestID))
	}
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Use(RequestLogger(zap.NewNop()))
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.ErrNotFound })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("secret detail") })

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", resp.StatusCode)
	}
	if strings.Contains(string(body), "secret detail") {
		t.Errorf("Expected internal error text to be hidden, got %s", body)
	}
}

func TestCORS_BoardDefaults(t *testing.T) {
	app := fiber.New()
	app.Use(NewCORS(config.CORSConfig{}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://board.local")
	resp, _ := app.Test(req)

	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("Expected wildcard origin, got %q", resp.Header.Get("Access-Control-Allow-Origin"))
	}
	if got := resp.Header.Get("Access-Control-Expose-Headers"); !strings.Contains(got, "Retry-After") {
		t.Errorf("Expected Retry-After to be exposed, got %q", got)
	}
}

func TestCORS_Config(t *testing.T) {
	cfg := corsConfig(config.CORSConfig{Credentials: true})
	if cfg.AllowCredentials {
		t.Error("Expected credentials to be refused with a wildcard origin")
	}
	if cfg.AllowMethods != "GET,POST,OPTIONS" {
		t.Errorf("Expected board methods, got %q", cfg.AllowMethods)
	}
	if cfg.MaxAge != 86400 {
		t.Errorf("Expected default max age, got %d", cfg.MaxAge)
	}

	cfg = corsConfig(config.CORSConfig{
		AllowedOrigins: []string{"https://board.example"},
		Credentials:    true,
		MaxAge:         60,
	})
	if !cfg.AllowCredentials || cfg.AllowOrigins != "https://board.example" || cfg.MaxAge != 60 {
		t.Errorf("Expected configured values to win, got %+v", cfg)
	}
}
