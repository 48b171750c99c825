package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Métricas do agente
	AgentTurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pictovoz_agent_turns_total",
		Help: "Total de turnos do agente por resultado e ação",
	}, []string{"outcome", "action"})

	AgentLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pictovoz_agent_latency_seconds",
		Help:    "Latência de um turno completo do agente",
		Buckets: prometheus.DefBuckets,
	})

	AgentMapReferencesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pictovoz_agent_map_references_total",
		Help: "Total de respostas com referência de mapa",
	})

	// Fallbacks de todas as operações
	FallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pictovoz_fallbacks_total",
		Help: "Total de fallbacks por operação e motivo",
	}, []string{"operation", "reason"})

	// Métricas de áudio
	PlaybackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pictovoz_playback_total",
		Help: "Total de reproduções por nível (ai, local, skipped)",
	}, []string{"outcome"})

	DecodedAudioSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pictovoz_decoded_audio_seconds",
		Help:    "Duração do áudio sintetizado e decodificado",
		Buckets: []float64{0.5, 1, 2, 4, 8, 16, 32},
	})

	// Métricas de infraestrutura
	BackendRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pictovoz_backend_requests_total",
		Help: "Total de chamadas ao backend generativo",
	}, []string{"operation", "status"})

	BackendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pictovoz_backend_latency_seconds",
		Help:    "Latência das chamadas ao backend generativo",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	SymbolRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pictovoz_symbol_requests_total",
		Help: "Total de consultas ao catálogo de símbolos",
	}, []string{"operation", "status"})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pictovoz_cache_lookups_total",
		Help: "Consultas ao cache por resultado",
	}, []string{"scope", "result"})

	LocalCacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pictovoz_local_cache_entries",
		Help: "Entradas no cache em memória",
	})

	LocalCacheEvictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pictovoz_local_cache_evictions_total",
		Help: "Entradas removidas do cache em memória por motivo",
	}, []string{"reason"})

	TurnEventsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pictovoz_turn_events_dropped_total",
		Help: "Eventos de turno descartados por fila de publicação cheia",
	})

	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "pictovoz_circuit_breaker_state",
		Help: "Estado do circuit breaker (0=closed, 1=half-open, 2=open)",
	}, []string{"name"})

	PlaybackClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pictovoz_playback_clients",
		Help: "Clientes conectados ao socket de reprodução",
	})
)
