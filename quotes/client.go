// Package quotes is a client for the brapi.dev market data API.
package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"investment-portfolio/metrics"
)

// ErrTickerNotFound is returned when the provider has no data for a ticker.
var ErrTickerNotFound = errors.New("ticker not found")

// APIError is a non-2xx response other than 404.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("brapi returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("brapi returned status %d: %s", e.StatusCode, e.Message)
}

// Quote is a point-in-time price snapshot. PriceEarnings and EarningsPerShare
// are only populated by GetFundamentals.
type Quote struct {
	Symbol                     string  `json:"symbol"`
	ShortName                  string  `json:"shortName,omitempty"`
	LongName                   string  `json:"longName,omitempty"`
	Currency                   string  `json:"currency,omitempty"`
	RegularMarketPrice         float64 `json:"regularMarketPrice"`
	RegularMarketChange        float64 `json:"regularMarketChange"`
	RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
	RegularMarketTime          string  `json:"regularMarketTime,omitempty"`
	RegularMarketOpen          float64 `json:"regularMarketOpen,omitempty"`
	RegularMarketDayHigh       float64 `json:"regularMarketDayHigh,omitempty"`
	RegularMarketDayLow        float64 `json:"regularMarketDayLow,omitempty"`
	RegularMarketVolume        float64 `json:"regularMarketVolume,omitempty"`
	RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose,omitempty"`
	FiftyTwoWeekLow            float64 `json:"fiftyTwoWeekLow,omitempty"`
	FiftyTwoWeekHigh           float64 `json:"fiftyTwoWeekHigh,omitempty"`
	MarketCap                  float64 `json:"marketCap,omitempty"`
	LogoURL                    string  `json:"logourl,omitempty"`
	PriceEarnings              float64 `json:"priceEarnings,omitempty"`
	EarningsPerShare           float64 `json:"earningsPerShare,omitempty"`
}

// DisplayName prefers the long company name.
func (q Quote) DisplayName() string {
	if q.LongName != "" {
		return q.LongName
	}
	return q.ShortName
}

type quoteResponse struct {
	Results []Quote `json:"results"`
}

type availableResponse struct {
	Indexes []string `json:"indexes"`
	Stocks  []string `json:"stocks"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client calls brapi.dev. It keeps no state between calls.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewClient creates a brapi client. m may be nil.
func NewClient(cfg Config, m *metrics.Metrics, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
		metrics: m,
		log:     log.With().Str("client", "brapi").Logger(),
	}
}

// GetQuote returns the current quote for ticker.
func (c *Client) GetQuote(ctx context.Context, ticker string) (*Quote, error) {
	return c.single(ctx, "quote", ticker, nil)
}

// GetFundamentals returns the quote for ticker including fundamental data.
func (c *Client) GetFundamentals(ctx context.Context, ticker string) (*Quote, error) {
	return c.single(ctx, "fundamentals", ticker, url.Values{"fundamental": {"true"}})
}

// GetQuotes returns quotes for several tickers in one request. Tickers the
// provider does not know are absent from the result. brapi answers 404 when
// any ticker of the batch is unknown, which yields an empty result.
func (c *Client) GetQuotes(ctx context.Context, tickers []string) ([]Quote, error) {
	segments := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if t = normalize(t); t != "" {
			segments = append(segments, url.PathEscape(t))
		}
	}
	if len(segments) == 0 {
		return []Quote{}, nil
	}

	var resp quoteResponse
	err := c.get(ctx, "quotes", "/quote/"+strings.Join(segments, ","), nil, &resp)
	if errors.Is(err, ErrTickerNotFound) {
		return []Quote{}, nil
	}
	if err != nil {
		return nil, err
	}
	if resp.Results == nil {
		resp.Results = []Quote{}
	}
	return resp.Results, nil
}

// Search lists tickers matching query by symbol or company name.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	return c.available(ctx, "search", url.Values{"search": {query}})
}

// Available lists every ticker the provider knows.
func (c *Client) Available(ctx context.Context) ([]string, error) {
	return c.available(ctx, "available", nil)
}

func (c *Client) single(ctx context.Context, op, ticker string, params url.Values) (*Quote, error) {
	ticker = normalize(ticker)
	if ticker == "" {
		return nil, ErrTickerNotFound
	}

	var resp quoteResponse
	if err := c.get(ctx, op, "/quote/"+url.PathEscape(ticker), params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, ErrTickerNotFound
	}
	return &resp.Results[0], nil
}

func (c *Client) available(ctx context.Context, op string, params url.Values) ([]string, error) {
	var resp availableResponse
	if err := c.get(ctx, op, "/available", params, &resp); err != nil {
		return nil, err
	}
	if resp.Stocks == nil {
		resp.Stocks = []string{}
	}
	return resp.Stocks, nil
}

func (c *Client) get(ctx context.Context, op, path string, params url.Values, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		outcome := "ok"
		switch {
		case errors.Is(err, ErrTickerNotFound):
			outcome = "not_found"
		case err != nil:
			outcome = "error"
		}
		c.metrics.ObserveQuote(op, outcome, elapsed.Seconds())

		if err != nil && outcome == "error" {
			c.log.Warn().Err(err).Str("op", op).Str("path", path).Dur("took", elapsed).Msg("brapi request failed")
		} else {
			c.log.Debug().Str("op", op).Str("path", path).Str("outcome", outcome).Dur("took", elapsed).Msg("brapi request")
		}
	}()

	if params == nil {
		params = url.Values{}
	}
	if c.token != "" {
		params.Set("token", c.token)
	}

	endpoint := c.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("brapi request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrTickerNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var e errorResponse
		_ = json.Unmarshal(body, &e)
		return &APIError{StatusCode: resp.StatusCode, Message: e.Message}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse brapi response: %w", err)
	}
	return nil
}

func normalize(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
