package quotes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quoteServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits++
		require.Equal(t, "test-key", r.URL.Query().Get("token"))
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		require.Len(t, parts, 3) // stock/<symbol>/quote
		switch parts[1] {
		case "AAPL":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"symbol": "AAPL", "companyName": "Apple Inc", "latestPrice": 130.15,
			})
		case "FLAKY":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return rdb
}

func TestLookup_Success(t *testing.T) {
	hits := 0
	srv := quoteServer(t, &hits)
	c := NewClient(srv.URL, "test-key", nil)

	q, err := c.Lookup(context.Background(), " aapl ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Symbol, "symbol is normalized")
	assert.Equal(t, "Apple Inc", q.Name)
	assert.True(t, q.Price.Equal(decimal.NewFromFloat(130.15)))
}

func TestLookup_UnknownSymbol(t *testing.T) {
	hits := 0
	srv := quoteServer(t, &hits)
	c := NewClient(srv.URL, "test-key", nil)

	_, err := c.Lookup(context.Background(), "NOPE")
	assert.Equal(t, ErrUnknownSymbol, err)
}

func TestLookup_EmptySymbol(t *testing.T) {
	c := NewClient("http://unused", "test-key", nil)

	_, err := c.Lookup(context.Background(), "   ")
	assert.Equal(t, ErrUnknownSymbol, err)
}

func TestLookup_UpstreamError(t *testing.T) {
	hits := 0
	srv := quoteServer(t, &hits)
	c := NewClient(srv.URL, "test-key", nil)

	_, err := c.Lookup(context.Background(), "FLAKY")
	assert.Equal(t, ErrQuoteUnavailable, err)
}

func TestLookup_CachesQuotes(t *testing.T) {
	hits := 0
	srv := quoteServer(t, &hits)
	c := NewClient(srv.URL, "test-key", testRedis(t))
	ctx := context.Background()

	q1, err := c.Lookup(ctx, "AAPL")
	require.NoError(t, err)
	q2, err := c.Lookup(ctx, "AAPL")
	require.NoError(t, err)

	assert.Equal(t, 1, hits, "second lookup served from cache")
	assert.True(t, q1.Price.Equal(q2.Price))
}

func TestLookup_ErrorsAreNotCached(t *testing.T) {
	hits := 0
	srv := quoteServer(t, &hits)
	c := NewClient(srv.URL, "test-key", testRedis(t))
	ctx := context.Background()

	_, err := c.Lookup(ctx, "NOPE")
	require.Equal(t, ErrUnknownSymbol, err)
	_, err = c.Lookup(ctx, "NOPE")
	require.Equal(t, ErrUnknownSymbol, err)
	assert.Equal(t, 2, hits)
}
