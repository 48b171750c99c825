package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	fibercors "github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/seu-repo/pictovoz/pkg/config"
)

// Board pages only read and post; the playback socket upgrades over GET.
var (
	boardMethods       = []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodOptions}
	boardRequestHeader = []string{fiber.HeaderOrigin, fiber.HeaderContentType, fiber.HeaderAccept, HeaderRequestID}
	boardExposeHeaders = []string{HeaderRequestID, fiber.HeaderRetryAfter}
)

const boardPreflightMaxAge = 86400

// NewCORS lets board pages served from other origins call the API.
// Configured lists replace the board defaults. Credentials are never
// allowed together with a wildcard origin.
func NewCORS(cfg config.CORSConfig) fiber.Handler {
	return fibercors.New(corsConfig(cfg))
}

func corsConfig(cfg config.CORSConfig) fibercors.Config {
	origins := joinOr(cfg.AllowedOrigins, []string{"*"})

	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = boardPreflightMaxAge
	}

	return fibercors.Config{
		AllowOrigins:     origins,
		AllowMethods:     joinOr(cfg.AllowedMethods, boardMethods),
		AllowHeaders:     joinOr(cfg.AllowedHeaders, boardRequestHeader),
		ExposeHeaders:    joinOr(cfg.ExposeHeaders, boardExposeHeaders),
		AllowCredentials: cfg.Credentials && !strings.Contains(origins, "*"),
		MaxAge:           maxAge,
	}
}

func joinOr(values, fallback []string) string {
	if len(values) == 0 {
		values = fallback
	}
	return strings.Join(values, ",")
}
