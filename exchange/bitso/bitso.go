// Package bitso provides a client for the Bitso public REST API.
package bitso

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/raykavin/bitsobot/core"
)

const (
	// DefaultBaseURL is the production Bitso v3 API endpoint.
	DefaultBaseURL = "https://api.bitso.com/v3"

	defaultRequestTimeout = 10 * time.Second
	tickerPath            = "/ticker/"
)

// Exchange implements core.Quoter against the Bitso ticker endpoint.
// It is stateless; every LastQuote call issues exactly one request and
// collapses any failure into core.ErrUnavailable.
type Exchange struct {
	baseURL string
	client  *http.Client
	log     core.Logger
}

// Option is a function that configures an Exchange instance.
type Option func(*Exchange)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Exchange) {
		e.client = client
	}
}

// NewExchange creates a Bitso client for the given base URL.
func NewExchange(baseURL string, log core.Logger, options ...Option) *Exchange {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	exchange := &Exchange{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: defaultRequestTimeout},
		log:     log,
	}

	for _, option := range options {
		option(exchange)
	}

	return exchange
}

// tickerResponse mirrors the relevant slice of the Bitso ticker payload.
// The price field is kept untyped because the API serves it as a string
// while fixtures and older payloads use numbers.
type tickerResponse struct {
	Success bool `json:"success"`
	Payload struct {
		Book string `json:"book"`
		Last any    `json:"last"`
	} `json:"payload"`
}

// LastQuote fetches the last traded price for a trading pair (book).
// Transport errors, non-success statuses, and malformed payloads are
// logged and reported as core.ErrUnavailable; no raw error escapes.
func (e *Exchange) LastQuote(ctx context.Context, pair string) (float64, error) {
	endpoint := fmt.Sprintf("%s%s?book=%s", e.baseURL, tickerPath, url.QueryEscape(pair))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		e.log.WithError(err).WithField("book", pair).Error("failed to build ticker request")
		return 0, core.ErrUnavailable
	}

	resp, err := e.client.Do(req)
	if err != nil {
		e.log.WithError(err).WithField("book", pair).Error("ticker request failed")
		return 0, core.ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		e.log.WithField("book", pair).Errorf("unexpected ticker status %d", resp.StatusCode)
		return 0, core.ErrUnavailable
	}

	var ticker tickerResponse
	if err := json.NewDecoder(resp.Body).Decode(&ticker); err != nil {
		e.log.WithError(err).WithField("book", pair).Error("failed to decode ticker response")
		return 0, core.ErrUnavailable
	}

	if !ticker.Success {
		e.log.WithField("book", pair).Error("ticker response flagged unsuccessful")
		return 0, core.ErrUnavailable
	}

	price, ok := parseLast(ticker.Payload.Last)
	if !ok {
		e.log.WithField("book", pair).Error("ticker response missing usable price")
		return 0, core.ErrUnavailable
	}

	return price, nil
}

// parseLast coerces the last-traded-price field into a positive float.
func parseLast(value any) (float64, bool) {
	switch v := value.(type) {
	case string:
		price, err := strconv.ParseFloat(v, 64)
		return price, err == nil && price > 0
	case float64:
		return v, v > 0
	case json.Number:
		price, err := v.Float64()
		return price, err == nil && price > 0
	default:
		return 0, false
	}
}
