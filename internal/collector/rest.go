package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"Phoenix/internal/model"
)

// RESTSource implements QuoteSource against a generic quote REST API
// exposing GET /api/v1/quote?symbol=.
type RESTSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTSource creates a new quote source with optional proxy support.
func NewRESTSource(baseURL, apiKey, proxyURL string) *RESTSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RESTSource{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *RESTSource) Name() string { return "rest" }

// restQuote is the expected JSON shape from the quote API.
type restQuote struct {
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Timestamp int64   `json:"timestamp"`
}

func (f *RESTSource) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	endpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch quote: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result restQuote
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	if result.Price < 0 {
		return nil, fmt.Errorf("fetch quote: negative price %.4f", result.Price)
	}

	observed := time.Now()
	if result.Timestamp > 0 {
		observed = time.Unix(result.Timestamp, 0)
	}
	currency := result.Currency
	if currency == "" {
		currency = "USD"
	}
	return &model.Quote{
		Symbol:   symbol,
		Price:    result.Price,
		Currency: currency,
		Time:     observed,
	}, nil
}
