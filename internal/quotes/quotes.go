package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownSymbol means the symbol is not in the quote provider's universe.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrQuoteUnavailable means the provider could not be reached or returned garbage.
	ErrQuoteUnavailable = errors.New("quote unavailable")
)

// Quote is a point-in-time name/price pair for a ticker symbol.
type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// Source abstracts quote lookup (production HTTP client or test doubles).
type Source interface {
	Lookup(ctx context.Context, symbol string) (*Quote, error)
}

const cachePrefix = "quote:"
const cacheTTL = 60 * time.Second

// Client fetches quotes from the upstream quote API, with a short Redis cache
// so bursts of portfolio reads don't hammer the provider. Rdb may be nil;
// cache errors degrade to a direct fetch, never to a request failure.
type Client struct {
	BaseURL string
	APIKey  string
	Rdb     *redis.Client
	HTTP    *http.Client
}

// NewClient builds a quote client with an 8s outbound timeout.
func NewClient(baseURL, apiKey string, rdb *redis.Client) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Rdb:     rdb,
		HTTP:    &http.Client{Timeout: 8 * time.Second},
	}
}

type providerQuote struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	LatestPrice float64 `json:"latestPrice"`
}

// Lookup returns the current name/price for a symbol. Symbols are normalized
// to upper case. A 404 from the provider maps to ErrUnknownSymbol; everything
// else unexpected maps to ErrQuoteUnavailable.
func (c *Client) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrUnknownSymbol
	}

	if q, ok := c.fromCache(ctx, symbol); ok {
		return q, nil
	}

	u := fmt.Sprintf("%s/stock/%s/quote?token=%s", c.BaseURL, url.PathEscape(symbol), url.QueryEscape(c.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, ErrQuoteUnavailable
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, ErrQuoteUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrUnknownSymbol
	}
	if resp.StatusCode != http.StatusOK {
		return nil, ErrQuoteUnavailable
	}

	var raw providerQuote
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, ErrQuoteUnavailable
	}
	if raw.LatestPrice <= 0 {
		return nil, ErrQuoteUnavailable
	}

	q := &Quote{
		Symbol: symbol,
		Name:   raw.CompanyName,
		Price:  decimal.NewFromFloat(raw.LatestPrice).Round(2),
	}
	c.toCache(ctx, symbol, q)
	return q, nil
}

func (c *Client) fromCache(ctx context.Context, symbol string) (*Quote, bool) {
	if c.Rdb == nil {
		return nil, false
	}
	b, err := c.Rdb.Get(ctx, cachePrefix+symbol).Bytes()
	if err != nil {
		return nil, false
	}
	var q Quote
	if err := json.Unmarshal(b, &q); err != nil {
		return nil, false
	}
	return &q, true
}

func (c *Client) toCache(ctx context.Context, symbol string, q *Quote) {
	if c.Rdb == nil {
		return
	}
	b, err := json.Marshal(q)
	if err != nil {
		return
	}
	_ = c.Rdb.Set(ctx, cachePrefix+symbol, b, cacheTTL).Err()
}
