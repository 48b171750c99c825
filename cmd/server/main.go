package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/seu-repo/pictovoz/internal/adapter/ai/gemini"
	"github.com/seu-repo/pictovoz/internal/adapter/arasaac"
	"github.com/seu-repo/pictovoz/internal/adapter/cache"
	"github.com/seu-repo/pictovoz/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/pictovoz/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/pictovoz/internal/adapter/queue"
	"github.com/seu-repo/pictovoz/internal/adapter/speech"
	"github.com/seu-repo/pictovoz/internal/adapter/vault"
	wsAdapter "github.com/seu-repo/pictovoz/internal/adapter/websocket"
	"github.com/seu-repo/pictovoz/internal/domain"
	"github.com/seu-repo/pictovoz/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/pictovoz/internal/infrastructure/credential"
	"github.com/seu-repo/pictovoz/internal/observability/telemetry"
	"github.com/seu-repo/pictovoz/internal/ports"
	"github.com/seu-repo/pictovoz/internal/service/agent"
	"github.com/seu-repo/pictovoz/internal/service/health"
	"github.com/seu-repo/pictovoz/internal/service/sentence"
	"github.com/seu-repo/pictovoz/internal/service/vocabulary"
	"github.com/seu-repo/pictovoz/internal/service/voice"
	"github.com/seu-repo/pictovoz/pkg/config"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// 2. Initialize Logger
	logger, err := telemetry.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting pictovoz",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// 3. Initialize OpenTelemetry (Distributed Tracing)
	tracerProvider, err := telemetry.InitTracer(cfg.OpenTelemetry, cfg.App.Version)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 4. Resolve AI Credential (config, then Vault)
	var secrets credential.SecretSource
	if cfg.Vault.Enabled {
		sm, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token, cfg.Vault.SecretPath, logger)
		if err != nil {
			logger.Warn("Vault unavailable", zap.Error(err))
		} else {
			secrets = sm
		}
	}
	gate := credential.Resolve(ctx, cfg.Gemini.APIKey, secrets, logger)

	// 5. Initialize Cache (Redis or in-memory)
	appCache := cache.New(cfg.Redis, cfg.Cache, logger)
	defer appCache.Close()

	// 6. Initialize Event Bus
	var events ports.EventPublisher
	messageQueue, err := queue.Open(cfg.Events, logger)
	if err != nil {
		logger.Warn("Event bus unavailable, turn events disabled", zap.Error(err))
	} else if messageQueue != nil {
		defer messageQueue.Close()
		events = queue.NewTurnPublisher(messageQueue, cfg.Events.Subject, logger)
		go startTurnAudit(messageQueue, cfg.Events.Subject, logger)
	}

	// 7. Initialize Circuit Breakers
	breakers := circuitbreaker.NewManager(logger)
	breakerSettings := circuitbreaker.SettingsFromConfig("", cfg.CircuitBreaker)

	// 8. Initialize Gemini Client
	var backend ports.GenerativeBackend
	if gate.HasCredential() {
		geminiClient, err := gemini.NewClient(ctx, gate.APIKey(), cfg.Gemini.Timeout,
			breakers.Get("gemini", gemini.BreakerSettings(breakerSettings)), logger)
		if err != nil {
			logger.Error("Failed to initialize Gemini client, serving fallbacks", zap.Error(err))
		} else {
			backend = geminiClient
		}
	}

	// 9. Initialize Symbol Search
	symbolHTTP := circuitbreaker.NewHTTPClient(
		&http.Client{Timeout: cfg.Symbols.Timeout},
		breakers.Get("arasaac", breakerSettings),
		logger,
	)
	symbols := arasaac.NewClient(symbolHTTP, appCache, arasaac.Config{
		BaseURL:    cfg.Symbols.BaseURL,
		Locale:     cfg.Symbols.Locale,
		CacheTTL:   cfg.Symbols.CacheTTL,
		MaxResults: cfg.Symbols.MaxResult,
	}, logger)

	// 10. Initialize Playback Hub
	hub := wsAdapter.NewHub(logger)
	go hub.Run(ctx)

	var localSpeaker ports.LocalSpeaker = hub
	if cfg.Speech.Mode == "command" {
		localSpeaker = speech.NewCommandSpeaker(cfg.Speech.Command, cfg.Speech.Args, logger)
	}

	// 11. Initialize Services (Business Logic Layer)
	agentService := agent.NewOrchestrator(backend, gate, events, agent.Config{
		Model: cfg.Gemini.AgentModel,
	}, logger)
	sentenceService := sentence.NewService(backend, gate, appCache, sentence.Config{
		Model:       cfg.Gemini.TextModel,
		SentenceTTL: cfg.Cache.SentenceTTL,
		KeywordsTTL: cfg.Cache.KeywordsTTL,
	}, logger)
	playbackService := voice.NewPlayback(backend, gate, hub, localSpeaker, voice.Config{
		Model:        cfg.Gemini.SpeechModel,
		DefaultVoice: cfg.Gemini.VoiceName,
	}, logger)
	vocabularyService := vocabulary.NewService(symbols, logger)

	healthService := health.NewService(&health.Config{
		Version:  cfg.App.Version,
		Cache:    appCache,
		Gate:     gate,
		Breakers: breakers,
	}, logger)
	healthService.RegisterChecker("playback", func(ctx context.Context) health.CheckResult {
		return health.CheckResult{
			Name:      "playback",
			Status:    health.StatusHealthy,
			Message:   fmt.Sprintf("%d clients", hub.Clients()),
			Timestamp: time.Now(),
		}
	})

	// 12. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ServerHeader:          cfg.App.Name,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		BodyLimit:             cfg.HTTP.BodyLimit,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(logger))
	if cfg.CORS.Enabled {
		app.Use(middleware.NewCORS(cfg.CORS))
	}

	// Health Check Endpoints
	health.NewFiberHandler(healthService).RegisterRoutes(app)

	// Metrics endpoint for Prometheus
	if cfg.Prometheus.Enabled {
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		app.Get(cfg.Prometheus.Path, func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	// API v1 Routes
	v1 := app.Group("/api/v1", middleware.RateLimit(cfg.RateLimiting))

	agentHandler := handlers.NewAgentHandler(agentService, vocabularyService, cfg.Symbols.Locale, logger)
	v1.Post("/agent", agentHandler.Run)

	sentenceHandler := handlers.NewSentenceHandler(sentenceService, logger)
	v1.Post("/sentences/refine", sentenceHandler.Refine)
	v1.Post("/keywords/extract", sentenceHandler.Extract)

	speechHandler := handlers.NewSpeechHandler(playbackService, logger)
	v1.Post("/speech", speechHandler.Speak)
	v1.Get("/voices", speechHandler.Voices)

	vocabularyHandler := handlers.NewVocabularyHandler(vocabularyService, symbols, cfg.Symbols.Locale, logger)
	v1.Get("/vocabulary", vocabularyHandler.List)
	v1.Get("/categories", vocabularyHandler.Categories)
	v1.Get("/symbols/search", vocabularyHandler.SearchSymbols)
	v1.Get("/symbols/:id", vocabularyHandler.GetSymbol)

	// Playback WebSocket
	hub.Register(app, "/ws/playback")

	// 13. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server",
			zap.Int("port", cfg.HTTP.Port),
			zap.Bool("ai_available", backend != nil),
			zap.String("speech_mode", cfg.Speech.Mode),
		)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 14. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	// Flush turn events before the bus closes.
	agentService.Wait()

	logger.Info("Server exited gracefully")
}

// startTurnAudit logs every turn event seen on the bus at debug level.
func startTurnAudit(mq queue.MessageQueue, subject string, logger *zap.Logger) {
	err := queue.ConsumeTurns(mq, subject, logger, func(e domain.TurnEvent) {
		logger.Debug("Turn event",
			zap.String("turn_id", e.ID),
			zap.String("outcome", string(e.Outcome)),
			zap.Int("keywords", e.KeywordCount),
			zap.Bool("has_map", e.HasMap),
			zap.Int64("latency_ms", e.LatencyMs),
		)
	})
	if err != nil {
		logger.Warn("Turn audit subscription failed", zap.Error(err))
	}
}
