// Package wikidata provides a KnowledgeBase implementation backed by the
// Wikidata entity search API and SPARQL query service.
package wikidata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ersonp/placefolk/internal/domain/entities"
	"github.com/ersonp/placefolk/internal/domain/ports"
	"github.com/ersonp/placefolk/internal/infrastructure/config"
	"github.com/ersonp/placefolk/internal/infrastructure/metrics"
)

// Request kinds, used as log attributes and metric labels.
const (
	KindSearch = "search"
	KindAsk    = "ask"
	KindSelect = "select"
)

const (
	sparqlResultsType = "application/sparql-results+json"
	maxErrorBody      = 512
)

// Client implements ports.KnowledgeBase over HTTP.
type Client struct {
	sparqlURL   *url.URL
	apiURL      *url.URL
	userAgent   string
	language    string
	searchLimit int

	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *metrics.GatewayMetrics
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLanguage sets the language used for entity search.
func WithLanguage(lang string) Option {
	return func(c *Client) {
		if lang != "" {
			c.language = lang
		}
	}
}

// WithMetrics records every request on m.
func WithMetrics(m *metrics.GatewayMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the logger. Requests are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new Wikidata client.
func NewClient(cfg config.WikidataConfig, opts ...Option) (*Client, error) {
	sparqlURL, err := parseEndpoint(cfg.SPARQLEndpoint)
	if err != nil {
		return nil, fmt.Errorf("sparql endpoint: %w", err)
	}
	apiURL, err := parseEndpoint(cfg.APIEndpoint)
	if err != nil {
		return nil, fmt.Errorf("api endpoint: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	c := &Client{
		sparqlURL:   sparqlURL,
		apiURL:      apiURL,
		userAgent:   cfg.UserAgent,
		language:    "en",
		searchLimit: cfg.SearchLimit,
		httpClient:  &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(limit, max(cfg.Burst, 1)),
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func parseEndpoint(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, errors.New("endpoint is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint %q must be http or https", raw)
	}
	return u, nil
}

type searchResponse struct {
	Search *[]searchHit `json:"search"`
	Error  *apiError    `json:"error"`
}

type searchHit struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

// SearchEntities runs a wbsearchentities lookup and returns the ranked hits.
func (c *Client) SearchEntities(ctx context.Context, text string) ([]entities.Candidate, error) {
	params := url.Values{}
	params.Set("action", "wbsearchentities")
	params.Set("search", text)
	params.Set("language", c.language)
	params.Set("type", "item")
	params.Set("format", "json")
	if c.searchLimit > 0 {
		params.Set("limit", strconv.Itoa(c.searchLimit))
	}

	var resp searchResponse
	if err := c.get(ctx, KindSearch, c.apiURL, params, "application/json", &resp); err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: search: %s: %s", ports.ErrQuery, resp.Error.Code, resp.Error.Info)
	}
	if resp.Search == nil {
		return nil, fmt.Errorf("%w: search: response has no search field", ports.ErrQuery)
	}

	candidates := make([]entities.Candidate, 0, len(*resp.Search))
	for _, hit := range *resp.Search {
		candidates = append(candidates, entities.Candidate{
			ID:          entities.EntityID(hit.ID),
			Label:       hit.Label,
			Description: hit.Description,
		})
	}
	return candidates, nil
}

type sparqlResponse struct {
	Boolean *bool          `json:"boolean"`
	Results *sparqlResults `json:"results"`
}

type sparqlResults struct {
	Bindings []ports.Row `json:"bindings"`
}

// Ask evaluates a SPARQL ASK query.
func (c *Client) Ask(ctx context.Context, query string) (bool, error) {
	var resp sparqlResponse
	if err := c.get(ctx, KindAsk, c.sparqlURL, sparqlParams(query), sparqlResultsType, &resp); err != nil {
		return false, err
	}
	if resp.Boolean == nil {
		return false, fmt.Errorf("%w: ask: response has no boolean field", ports.ErrQuery)
	}
	return *resp.Boolean, nil
}

// Select evaluates a SPARQL SELECT query.
func (c *Client) Select(ctx context.Context, query string) ([]ports.Row, error) {
	var resp sparqlResponse
	if err := c.get(ctx, KindSelect, c.sparqlURL, sparqlParams(query), sparqlResultsType, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return nil, fmt.Errorf("%w: select: response has no results field", ports.ErrQuery)
	}
	if resp.Results.Bindings == nil {
		return []ports.Row{}, nil
	}
	return resp.Results.Bindings, nil
}

func sparqlParams(query string) url.Values {
	params := url.Values{}
	params.Set("query", query)
	params.Set("format", "json")
	return params
}

// get performs one rate-limited GET and decodes the JSON body into out.
// Every failure wraps ports.ErrQuery.
func (c *Client) get(ctx context.Context, kind string, endpoint *url.URL, params url.Values, accept string, out any) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.Observe(kind, start, err)
		if err != nil {
			c.logger.Debug("knowledge base request failed", "kind", kind, "duration", time.Since(start), "error", err)
			return
		}
		c.logger.Debug("knowledge base request", "kind", kind, "duration", time.Since(start))
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: rate limit: %w", ports.ErrQuery, kind, err)
	}

	u := *endpoint
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: %s: create request: %w", ports.ErrQuery, kind, err)
	}
	req.Header.Set("Accept", accept)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s request: %w", ports.ErrQuery, kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s: status %d: %s", ports.ErrQuery, kind, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: decode: %w", ports.ErrQuery, kind, err)
	}
	return nil
}
