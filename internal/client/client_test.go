package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leaguesBody = `{
	"get": "leagues",
	"parameters": [],
	"errors": [],
	"results": 1,
	"paging": {"current": 1, "total": 1},
	"response": [
		{
			"league": {"id": 39, "name": "Premier League", "type": "League", "logo": "https://media.api-sports.io/football/leagues/39.png"},
			"country": {"name": "England", "code": "GB", "flag": "https://media.api-sports.io/flags/gb.svg"},
			"seasons": [
				{"year": 2023, "start": "2023-08-11", "end": "2024-05-19", "current": true,
				 "coverage": {"fixtures": {"events": true, "lineups": true, "statistics_fixtures": false},
				              "standings": true, "injuries": false, "predictions": true, "odds": true}}
			]
		}
	]
}`

func newTestClient(url string, opts ...Option) *Client {
	base := []Option{WithRetryDelay(time.Millisecond)}
	return NewClient(url, "test-key", 5*time.Second, append(base, opts...)...)
}

func TestClient_Leagues(t *testing.T) {
	var gotKey atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey.Store(r.Header.Get("x-apisports-key"))
		fmt.Fprint(w, leaguesBody)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	leagues, err := c.Leagues(context.Background())
	require.NoError(t, err, "Should fetch leagues")
	require.Len(t, leagues, 1, "Should decode one league")

	assert.Equal(t, "test-key", gotKey.Load(), "Should authenticate with the API key header")
	assert.Equal(t, int64(39), leagues[0].League.ID, "League id should match")
	assert.Equal(t, "England", leagues[0].Country.Name, "Country should match")
	require.Len(t, leagues[0].Seasons, 1, "Should decode seasons")
	assert.True(t, leagues[0].Seasons[0].Current, "Season should be current")
	assert.True(t, leagues[0].Seasons[0].Coverage.Odds, "Coverage flags should decode")
}

func TestClient_RetriesAreBounded(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestClient(server.URL, WithMaxAttempts(3))
	_, err := c.Leagues(context.Background())
	require.Error(t, err, "Should fail after exhausting attempts")

	assert.ErrorIs(t, err, ErrProviderUnavailable, "Exhaustion should surface as provider unavailable")
	assert.Contains(t, err.Error(), "status 500", "Should wrap the last underlying failure")
	assert.Equal(t, int32(3), calls.Load(), "Should make exactly maxAttempts requests")
}

func TestClient_RetriesServerErrorsThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, leaguesBody)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	leagues, err := c.Leagues(context.Background())
	require.NoError(t, err, "Should recover once the provider does")
	assert.Len(t, leagues, 1)
	assert.Equal(t, int32(3), calls.Load(), "Should have retried twice")
}

func TestClient_ClientErrorsArePermanent(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Leagues(context.Background())
	require.Error(t, err, "Client errors should fail the call")

	assert.NotErrorIs(t, err, ErrProviderUnavailable, "Permanent failures are not retry exhaustion")
	assert.Equal(t, int32(1), calls.Load(), "Should not retry a permanent error")
}

func TestClient_HonorsRetryAfter(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, leaguesBody)
	}))
	defer server.Close()

	// Base delay is deliberately huge; only Retry-After can explain a
	// fast second attempt.
	c := newTestClient(server.URL, WithRetryDelay(30*time.Second))
	start := time.Now()
	_, err := c.Leagues(context.Background())
	elapsed := time.Since(start)

	require.NoError(t, err, "Should succeed on the second attempt")
	assert.Equal(t, int32(2), calls.Load(), "Should retry once")
	assert.GreaterOrEqual(t, elapsed, time.Second, "Should wait the advertised Retry-After")
	assert.Less(t, elapsed, 10*time.Second, "Should not fall back to exponential backoff")
}

func TestClient_RejectsProviderErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"get": "fixtures",
			"errors": {"token": "Error/Missing application key."},
			"results": 0,
			"paging": {"current": 1, "total": 1},
			"response": []
		}`)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Fixtures(context.Background(), 39, 2023)
	require.Error(t, err, "Provider-level errors should fail the call")
	assert.Contains(t, err.Error(), "rejected", "Should surface the rejection")
}

func TestClient_RejectsMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"get": "leagues", "errors": [], "response": {"not": "an array"}}`)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	_, err := c.Leagues(context.Background())
	require.Error(t, err, "Unexpected payload shapes should be rejected at the boundary")
}

type fakeCache struct {
	store map[string][]byte
	sets  int
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, bool) {
	body, ok := f.store[key]
	return body, ok
}

func (f *fakeCache) Set(ctx context.Context, key string, body []byte, ttl time.Duration) {
	f.store[key] = body
	f.sets++
}

func TestClient_ResponseCache(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, leaguesBody)
	}))
	defer server.Close()

	cache := &fakeCache{store: make(map[string][]byte)}
	c := newTestClient(server.URL, WithResponseCache(cache, time.Minute))

	_, err := c.Leagues(context.Background())
	require.NoError(t, err)
	_, err = c.Leagues(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load(), "Second call should be served from cache")
	assert.Equal(t, 1, cache.sets, "Response should be cached once")
}

func TestClient_DoesNotCacheProviderRejections(t *testing.T) {
	// The provider reports key and rate-limit failures inside a 200 body.
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{
			"get": "leagues",
			"errors": {"token": "Error/Missing application key."},
			"results": 0,
			"paging": {"current": 1, "total": 1},
			"response": []
		}`)
	}))
	defer server.Close()

	cache := &fakeCache{store: make(map[string][]byte)}
	c := newTestClient(server.URL, WithResponseCache(cache, time.Minute))

	_, err := c.Leagues(context.Background())
	require.Error(t, err, "Rejected body should fail the call")
	_, err = c.Leagues(context.Background())
	require.Error(t, err)

	assert.Equal(t, int32(2), calls.Load(), "Each call should reach the provider, not the cache")
	assert.Equal(t, 0, cache.sets, "Rejected bodies must never be cached")
}

func TestClient_PlayersFollowsPaging(t *testing.T) {
	pageBody := func(current int, name string, id int64) string {
		return fmt.Sprintf(`{
			"get": "players",
			"errors": [],
			"results": 1,
			"paging": {"current": %d, "total": 2},
			"response": [
				{"player": {"id": %d, "name": %q, "birth": {"date": "1998-01-01"},
				            "height": "180 cm", "weight": "75 kg"},
				 "statistics": [{"games": {"position": "Midfielder"}}]}
			]
		}`, current, id, name)
	}

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, pageBody(2, "Declan Rice", 2937))
			return
		}
		fmt.Fprint(w, pageBody(1, "Bukayo Saka", 1460))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	players, err := c.Players(context.Background(), 42, 2023)
	require.NoError(t, err, "Should fetch every squad page")

	require.Len(t, players, 2, "Should combine all pages")
	assert.Equal(t, int32(2), calls.Load(), "Should request each page exactly once")
	assert.Equal(t, "Bukayo Saka", players[0].Player.Name)
	assert.Equal(t, "Declan Rice", players[1].Player.Name)
}
