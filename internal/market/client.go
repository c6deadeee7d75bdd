// Package market fetches indicative market quotes for the dashboard.
// Quotes are read-only and guest-accessible; prices stay as decimal strings
// end to end and are never converted to cents.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Maxerns/moneymentor-sub000/internal/cache"
)

// Quote is one symbol's latest price and day-over-day change.
type Quote struct {
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"changePercent"`
	AsOf          time.Time       `json:"asOf"`
}

type quotePayload struct {
	Symbol        string `json:"symbol"`
	Price         string `json:"price"`
	PreviousClose string `json:"previousClose"`
}

// Client fetches quotes from an upstream HTTP API and caches them briefly
// so dashboard refreshes don't hammer the provider.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	quotes     *cache.LRUCache[Quote]
}

func NewClient(baseURL, apiKey string, cacheTTL time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		quotes:     cache.NewLRUCache[Quote](256, cacheTTL),
	}
}

// Cache exposes the quote cache for cleanup registration.
func (c *Client) Cache() cache.Cleaner {
	return c.quotes
}

// GetQuotes resolves each symbol, serving from cache where possible. Blank
// symbols are skipped; an upstream failure fails the batch.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) ([]Quote, error) {
	quotes := make([]Quote, 0, len(symbols))
	for _, symbol := range symbols {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" {
			continue
		}
		if q, ok := c.quotes.Get(symbol); ok {
			quotes = append(quotes, q)
			continue
		}
		q, err := c.fetch(ctx, symbol)
		if err != nil {
			return nil, err
		}
		c.quotes.Set(symbol, q)
		quotes = append(quotes, q)
	}
	return quotes, nil
}

func (c *Client) fetch(ctx context.Context, symbol string) (Quote, error) {
	u := c.baseURL + "/quote?" + url.Values{
		"symbol": {symbol},
		"apikey": {c.apiKey},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("build quote request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("fetch quote %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("fetch quote %s: unexpected status %d", symbol, resp.StatusCode)
	}

	var payload quotePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Quote{}, fmt.Errorf("decode quote %s: %w", symbol, err)
	}

	price, err := decimal.NewFromString(payload.Price)
	if err != nil {
		return Quote{}, fmt.Errorf("parse price for %s: %w", symbol, err)
	}
	prev, err := decimal.NewFromString(payload.PreviousClose)
	if err != nil {
		return Quote{}, fmt.Errorf("parse previous close for %s: %w", symbol, err)
	}

	change := price.Sub(prev)
	changePct := decimal.Zero
	if !prev.IsZero() {
		changePct = change.Div(prev).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return Quote{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		ChangePercent: changePct,
		AsOf:          time.Now().UTC(),
	}, nil
}
