// Package tmdb fetches movie and TV metadata from The Movie Database API.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/catalogus/catalogus-backend/internal/config"
	"github.com/catalogus/catalogus-backend/internal/domain"
	"github.com/catalogus/catalogus-backend/internal/metrics"
	"github.com/catalogus/catalogus-backend/internal/provider"
)

const providerLabel = "tmdb"

// statusError is a non-success HTTP status returned by TMDB.
type statusError struct {
	code int
}

func (e *statusError) Error() string { return fmt.Sprintf("tmdb: unexpected status %d", e.code) }

func (e *statusError) transient() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}

// Client talks to the TMDB v3 REST API.
type Client struct {
	baseURL        string
	apiKey         string
	maxAttempts    int
	initialBackoff time.Duration

	httpClient *http.Client
	limiter    *rate.Limiter
	tracer     trace.Tracer
	log        *slog.Logger
}

// NewClient creates a Client from configuration.
func NewClient(cfg config.TMDBConfig, logger *slog.Logger) *Client {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	burst := int(cfg.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:         cfg.APIKey,
		maxAttempts:    attempts,
		initialBackoff: cfg.InitialBackoff,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		limiter:        rate.NewLimiter(limit, burst),
		tracer:         otel.Tracer("github.com/catalogus/catalogus-backend/internal/adapter/provider/tmdb"),
		log:            logger.With("adapter", providerLabel),
	}
}

// FetchMovie returns normalized details of a movie.
func (c *Client) FetchMovie(ctx context.Context, externalID string) (*provider.NormalizedMedia, error) {
	if err := checkID(externalID); err != nil {
		return nil, err
	}
	var m movieDetails
	if err := c.get(ctx, "fetch_movie", "/movie/"+externalID, nil, &m); err != nil {
		return nil, err
	}
	return mapMovie(m), nil
}

// FetchTV returns normalized details of a TV show.
func (c *Client) FetchTV(ctx context.Context, externalID string) (*provider.NormalizedMedia, error) {
	if err := checkID(externalID); err != nil {
		return nil, err
	}
	var t tvDetails
	if err := c.get(ctx, "fetch_tv", "/tv/"+externalID, nil, &t); err != nil {
		return nil, err
	}
	return mapTV(t), nil
}

// SearchMovies returns the first result page for query, most popular first.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]provider.SearchResult, error) {
	var page searchPage[movieHit]
	if err := c.get(ctx, "search_movie", "/search/movie", searchParams(query), &page); err != nil {
		return nil, err
	}
	out := make([]provider.SearchResult, 0, len(page.Results))
	for _, h := range page.Results {
		out = append(out, mapMovieHit(h))
	}
	byPopularity(out)
	return out, nil
}

// SearchTV returns the first result page for query, most popular first.
func (c *Client) SearchTV(ctx context.Context, query string) ([]provider.SearchResult, error) {
	var page searchPage[tvHit]
	if err := c.get(ctx, "search_tv", "/search/tv", searchParams(query), &page); err != nil {
		return nil, err
	}
	out := make([]provider.SearchResult, 0, len(page.Results))
	for _, h := range page.Results {
		out = append(out, mapTVHit(h))
	}
	byPopularity(out)
	return out, nil
}

func searchParams(query string) url.Values {
	return url.Values{
		"query":         {query},
		"page":          {"1"},
		"include_adult": {"false"},
	}
}

// TMDB ids are positive integers; anything else can never resolve.
func checkID(externalID string) error {
	if n, err := strconv.ParseInt(externalID, 10, 64); err != nil || n <= 0 {
		return domain.ErrProviderNotFound
	}
	return nil
}

// get performs a GET with rate limiting and exponential-backoff retries.
// 404 maps to domain.ErrProviderNotFound. Exhausted retries and rejected
// requests map to domain.ErrProviderUnavailable.
func (c *Client) get(ctx context.Context, operation, path string, query url.Values, dst any) (err error) {
	ctx, span := c.tracer.Start(ctx, "tmdb."+operation, trace.WithAttributes(
		attribute.String("tmdb.path", path),
	))
	start := time.Now()
	defer func() {
		metrics.ProviderLatency.WithLabelValues(providerLabel, operation).Observe(time.Since(start).Seconds())
		metrics.ProviderRequests.WithLabelValues(providerLabel, operation, outcome(err)).Inc()
		if err != nil && !errors.Is(err, domain.ErrProviderNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + query.Encode()

	c.log.DebugContext(ctx, "tmdb request", slog.String("op", operation), slog.String("path", path))

	attempts := 0
	op := func() error {
		attempts++
		if err := c.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}
		return c.do(ctx, reqURL, dst)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialBackoff
	b.Multiplier = 2
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxAttempts-1)), ctx)

	notify := func(err error, wait time.Duration) {
		metrics.ProviderRetries.WithLabelValues(providerLabel).Inc()
		c.log.WarnContext(ctx, "tmdb retry",
			slog.String("op", operation),
			slog.Int("attempt", attempts),
			slog.Duration("wait", wait),
			slog.String("reason", err.Error()),
		)
	}

	err = backoff.RetryNotify(op, policy, notify)
	span.SetAttributes(attribute.Int("tmdb.attempts", attempts))
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrProviderNotFound):
		return err
	case ctx.Err() != nil:
		return fmt.Errorf("tmdb %s: %w", operation, ctx.Err())
	}

	c.log.ErrorContext(ctx, "tmdb request failed",
		slog.String("op", operation),
		slog.Int("attempts", attempts),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("%w: tmdb %s: %w", domain.ErrProviderUnavailable, operation, err)
}

// do runs one attempt. Errors wrapped in backoff.Permanent stop retrying.
func (c *Client) do(ctx context.Context, reqURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return fmt.Errorf("request: %w", redact(err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return backoff.Permanent(domain.ErrProviderNotFound)
	default:
		se := &statusError{code: resp.StatusCode}
		if se.transient() {
			return se
		}
		return backoff.Permanent(se)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return backoff.Permanent(fmt.Errorf("decode json: %w", err))
	}
	return nil
}

// redact strips the request URL, which carries the API key, from transport errors.
func redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

func outcome(err error) string {
	var se *statusError
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, domain.ErrProviderNotFound):
		return metrics.OutcomeNotFound
	case errors.As(err, &se) && !se.transient():
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeUnavailable
	}
}
