// Package quotes fetches current market prices for position PnL updates.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Provider fetches the current USD price for a ticker symbol.
type Provider interface {
	// Name returns the provider's display name.
	Name() string

	// PriceUSD returns the current USD price for the given symbol.
	PriceUSD(ctx context.Context, symbol string) (float64, error)
}

// Common tickers whose CoinGecko coin ID differs from the lowercased symbol.
var coinIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"SOL":  "solana",
	"ADA":  "cardano",
	"XRP":  "ripple",
	"DOGE": "dogecoin",
	"DOT":  "polkadot",
	"LINK": "chainlink",
}

// CoinGecko fetches crypto prices from the CoinGecko simple price API.
type CoinGecko struct {
	httpClient *http.Client
	baseURL    string
}

// NewCoinGecko creates a new CoinGecko price provider.
func NewCoinGecko(baseURL string, httpClient *http.Client) *CoinGecko {
	return &CoinGecko{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Name returns the provider's display name.
func (p *CoinGecko) Name() string { return "CoinGecko" }

// PriceUSD fetches the current USD price for the given ticker symbol.
func (p *CoinGecko) PriceUSD(ctx context.Context, symbol string) (float64, error) {
	id := coinID(symbol)
	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", p.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("creating price request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching price for %s: %w", symbol, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("fetching price for %s: unexpected status %d", symbol, resp.StatusCode)
	}

	var payload map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decoding price response: %w", err)
	}

	price, ok := payload[id]["usd"]
	if !ok {
		return 0, fmt.Errorf("no USD price for %s", symbol)
	}
	return price, nil
}

// coinID maps a ticker symbol to a CoinGecko coin ID.
func coinID(symbol string) string {
	upper := strings.ToUpper(strings.TrimSpace(symbol))
	if id, ok := coinIDs[upper]; ok {
		return id
	}
	return strings.ToLower(upper)
}
