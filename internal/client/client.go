package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/metrics"
)

// ErrProviderUnavailable is returned once every retry attempt has been
// exhausted. It always wraps the last underlying failure.
var ErrProviderUnavailable = errors.New("provider unavailable")

// ResponseCache caches raw provider responses for idempotent GETs.
// Implemented by cache.Redis; a nil cache disables caching entirely.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration)
}

// Client is the API-Football HTTP client. All resource methods funnel
// through one retrying fetch primitive.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	maxAttempts int
	retryDelay  time.Duration
	cache       ResponseCache
	cacheTTL    time.Duration
}

// Option customizes client construction.
type Option func(*Client)

// WithResponseCache installs a read-through cache in front of the fetch
// primitive. TTL of zero disables caching.
func WithResponseCache(c ResponseCache, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.cacheTTL = ttl
	}
}

// WithMaxAttempts overrides the default number of attempts per call.
func WithMaxAttempts(n int) Option {
	return func(cl *Client) { cl.maxAttempts = n }
}

// WithRetryDelay overrides the base backoff unit (useful in tests).
func WithRetryDelay(d time.Duration) Option {
	return func(cl *Client) { cl.retryDelay = d }
}

// NewClient creates a new API-Football client.
func NewClient(baseURL, apiKey string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		maxAttempts: 5,
		retryDelay:  time.Second,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs a GET request with retry, backoff and response caching.
// Policy: 429 honors Retry-After (falls back to exponential backoff),
// 5xx and network failures back off and retry, any other non-2xx fails
// immediately, and exhausting attempts yields ErrProviderUnavailable.
func (c *Client) get(ctx context.Context, path string, params map[string]string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, path)
	cacheKey := cacheKeyFor(path, params)

	if c.cache != nil && c.cacheTTL > 0 {
		if body, ok := c.cache.Get(ctx, cacheKey); ok {
			log.Debug().Str("url", url).Msg("Provider response served from cache")
			return body, nil
		}
	}

	var lastErr error
	// retryAfterOverride replaces the exponential backoff for the next
	// attempt when the provider supplied a Retry-After header.
	var retryAfterOverride time.Duration
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := c.backoffFor(attempt - 1)
			if retryAfterOverride > 0 {
				backoff = retryAfterOverride
				retryAfterOverride = 0
			}
			log.Info().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying provider request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("x-apisports-key", c.apiKey)
		req.Header.Set("Accept", "application/json")

		if len(params) > 0 {
			q := req.URL.Query()
			for key, value := range params {
				q.Add(key, value)
			}
			req.URL.RawQuery = q.Encode()
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Timeouts and network failures are transient but logged
			// apart from HTTP status errors.
			metrics.RecordProviderCall(path, "network_error", time.Since(start).Seconds())
			lastErr = fmt.Errorf("provider request failed: %w", err)
			log.Warn().
				Err(err).
				Str("url", url).
				Int("attempt", attempt).
				Msg("Provider network failure, will retry")
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			metrics.RecordProviderCall(path, "read_error", time.Since(start).Seconds())
			lastErr = fmt.Errorf("failed to read response body: %w", readErr)
			continue
		}

		metrics.RecordProviderCall(path, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			log.Debug().
				Str("url", url).
				Int("status", resp.StatusCode).
				Int("size", len(body)).
				Msg("Provider request successful")
			if c.cache != nil && c.cacheTTL > 0 && cacheable(body) {
				c.cache.Set(ctx, cacheKey, body, c.cacheTTL)
			}
			return body, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("provider rate limited (status %d)", resp.StatusCode)
			if wait, ok := retryAfter(resp); ok {
				retryAfterOverride = wait
				log.Warn().
					Str("url", url).
					Dur("retry_after", wait).
					Int("attempt", attempt).
					Msg("Rate limited, honoring Retry-After")
			} else {
				log.Warn().
					Str("url", url).
					Int("attempt", attempt).
					Msg("Rate limited, backing off")
			}
			continue

		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("provider returned status %d: %s", resp.StatusCode, truncateBody(body))
			log.Warn().
				Str("url", url).
				Int("status", resp.StatusCode).
				Int("attempt", attempt).
				Msg("Provider server error, will retry")
			continue

		default:
			// Client errors are permanent: retrying cannot help.
			return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, truncateBody(body))
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrProviderUnavailable, c.maxAttempts, lastErr)
}

// backoffFor returns 2^attempt seconds scaled by the configured base delay.
func (c *Client) backoffFor(attempt int) time.Duration {
	return c.retryDelay * time.Duration(1<<uint(attempt))
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(resp *http.Response) (time.Duration, bool) {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

func truncateBody(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}

func cacheKeyFor(path string, params map[string]string) string {
	if len(params) == 0 {
		return "apifootball:" + path
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString("apifootball:")
	b.WriteString(path)
	for _, k := range keys {
		b.WriteByte('?')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}
