// Package arasaac searches the ARASAAC pictogram catalog.
package arasaac

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/pictovoz/internal/domain"
	"github.com/seu-repo/pictovoz/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/pictovoz/internal/observability/telemetry"
	"github.com/seu-repo/pictovoz/internal/ports"
)

const maxBodyBytes = 4 << 20

type Config struct {
	BaseURL    string
	Locale     string
	CacheTTL   time.Duration
	MaxResults int
}

func DefaultConfig() Config {
	return Config{
		BaseURL:    "https://api.arasaac.org/v1",
		Locale:     "es",
		CacheTTL:   24 * time.Hour,
		MaxResults: 20,
	}
}

// Client implements ports.SymbolSearch. Every lookup is total: failures
// are logged and produce empty results.
type Client struct {
	http  *circuitbreaker.HTTPClient
	cache ports.Cache
	cfg   Config
	log   *zap.Logger
}

// NewClient builds the symbol client. cache may be nil.
func NewClient(httpClient *circuitbreaker.HTTPClient, cache ports.Cache, cfg Config, log *zap.Logger) *Client {
	defaults := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Locale == "" {
		cfg.Locale = defaults.Locale
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		http:  httpClient,
		cache: cache,
		cfg:   cfg,
		log:   log,
	}
}

// pictogramRecord is the wire shape of a catalog entry.
type pictogramRecord struct {
	ID       int `json:"_id"`
	Keywords []struct {
		Keyword string `json:"keyword"`
		Plural  string `json:"plural,omitempty"`
		Type    int    `json:"type,omitempty"`
	} `json:"keywords"`
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}

func (r pictogramRecord) toSymbol() domain.Symbol {
	s := domain.Symbol{
		ID:         r.ID,
		Categories: r.Categories,
		Tags:       r.Tags,
		ImageURL:   domain.PictogramURL(r.ID),
	}
	for _, k := range r.Keywords {
		if kw := strings.TrimSpace(k.Keyword); kw != "" {
			s.Keywords = append(s.Keywords, kw)
		}
	}
	return s
}

// Search finds pictograms whose keywords match query.
func (c *Client) Search(ctx context.Context, query, locale string) []domain.Symbol {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Symbol{}
	}
	if locale == "" {
		locale = c.cfg.Locale
	}

	key := "symbols:search:" + locale + ":" + strings.ToLower(query)
	if cached, ok := c.cachedSymbols(ctx, key); ok {
		return cached
	}

	endpoint := fmt.Sprintf("%s/pictograms/%s/search/%s", c.cfg.BaseURL, url.PathEscape(locale), url.PathEscape(query))

	var records []pictogramRecord
	if err := c.getJSON(ctx, "search", endpoint, &records); err != nil {
		c.log.Warn("Symbol search failed",
			zap.String("query", query),
			zap.String("locale", locale),
			zap.Error(err),
		)
		return []domain.Symbol{}
	}

	symbols := make([]domain.Symbol, 0, len(records))
	for _, r := range records {
		symbols = append(symbols, r.toSymbol())
		if c.cfg.MaxResults > 0 && len(symbols) == c.cfg.MaxResults {
			break
		}
	}

	c.store(ctx, key, symbols)
	return symbols
}

// GetByID fetches one pictogram record in the default locale. It returns
// nil when the record cannot be loaded.
func (c *Client) GetByID(ctx context.Context, id int) *domain.Symbol {
	if id <= 0 {
		return nil
	}

	endpoint := fmt.Sprintf("%s/pictograms/%s/%s", c.cfg.BaseURL, url.PathEscape(c.cfg.Locale), strconv.Itoa(id))

	var record pictogramRecord
	if err := c.getJSON(ctx, "get", endpoint, &record); err != nil {
		c.log.Warn("Symbol lookup failed", zap.Int("id", id), zap.Error(err))
		return nil
	}
	if record.ID == 0 {
		record.ID = id
	}

	symbol := record.toSymbol()
	return &symbol
}

func (c *Client) getJSON(ctx context.Context, operation, endpoint string, out interface{}) (err error) {
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		telemetry.SymbolRequestsTotal.WithLabelValues(operation, status).Inc()
	}()

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: HTTP error! status: %d", domain.ErrTransport, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %w", domain.ErrTransport, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	return nil
}

func (c *Client) cachedSymbols(ctx context.Context, key string) ([]domain.Symbol, bool) {
	if c.cache == nil {
		return nil, false
	}
	raw, err := c.cache.Get(ctx, key)
	if err != nil || raw == "" {
		telemetry.CacheLookupsTotal.WithLabelValues("symbols", "miss").Inc()
		return nil, false
	}
	var symbols []domain.Symbol
	if err := json.Unmarshal([]byte(raw), &symbols); err != nil {
		return nil, false
	}
	telemetry.CacheLookupsTotal.WithLabelValues("symbols", "hit").Inc()
	return symbols, true
}

func (c *Client) store(ctx context.Context, key string, symbols []domain.Symbol) {
	if c.cache == nil || c.cfg.CacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(symbols)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.log.Debug("Failed to cache symbol search", zap.String("key", key), zap.Error(err))
	}
}
