package apifootball

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/sports-data-service/internal/platform/logging"
	"github.com/riskibarqy/sports-data-service/internal/platform/resilience"
	"github.com/riskibarqy/sports-data-service/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://v3.football.api-sports.io"
	defaultHost    = "v3.football.api-sports.io"
	maxBodyBytes   = 6 << 20
)

var errTransient = crerr.New("api-football transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Host       string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	// RetryStep is the linear backoff unit between attempts.
	RetryStep time.Duration
	// RatePerMinute caps outgoing requests. Zero disables the limiter.
	RatePerMinute  int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches raw API-Football records. It implements
// usecase.SportDataProvider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	host       string
	apiKey     string
	retry      resilience.RetryPolicy
	limiter    *rate.Limiter
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	flight     singleflight.Group
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = defaultHost
	}

	var limiter *rate.Limiter
	if cfg.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), 1)
	}

	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker,
		resilience.WithFailurePredicate(isCircuitFailure),
		resilience.WithStateListener(func(from, to resilience.CircuitState) {
			logger.Warn("api-football circuit breaker state changed", "from", from, "to", to)
		}),
	)

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		host:       host,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		retry:      resilience.RetryPolicy{MaxRetries: max(cfg.MaxRetries, 0), Step: cfg.RetryStep},
		limiter:    limiter,
		logger:     logger,
		breaker:    breaker,
	}
}

func (c *Client) FetchLeagues(ctx context.Context) ([]usecase.RawRecord, error) {
	return c.fetch(ctx, "/leagues", nil)
}

func (c *Client) FetchTeams(ctx context.Context, leagueAPIID int64, season int) ([]usecase.RawRecord, error) {
	return c.fetch(ctx, "/teams", map[string]string{
		"league": strconv.FormatInt(leagueAPIID, 10),
		"season": strconv.Itoa(season),
	})
}

// FetchFixtures lists a league's fixtures for a season, narrowed to one day
// when date is set.
func (c *Client) FetchFixtures(ctx context.Context, leagueAPIID int64, season int, date string) ([]usecase.RawRecord, error) {
	query := map[string]string{
		"league": strconv.FormatInt(leagueAPIID, 10),
		"season": strconv.Itoa(season),
	}
	if date = strings.TrimSpace(date); date != "" {
		query["date"] = date
	}
	return c.fetch(ctx, "/fixtures", query)
}

func (c *Client) FetchLiveFixtures(ctx context.Context) ([]usecase.RawRecord, error) {
	return c.fetch(ctx, "/fixtures", map[string]string{"live": "all"})
}

func (c *Client) fetch(ctx context.Context, path string, query map[string]string) ([]usecase.RawRecord, error) {
	var payload envelope
	if err := c.doJSON(ctx, path, query, &payload); err != nil {
		return nil, err
	}
	if err := payload.err(); err != nil {
		return nil, crerr.Wrapf(err, "api-football %s", path)
	}
	if payload.Paging.Total > 1 {
		c.logger.WarnContext(ctx, "api-football response has more pages than fetched",
			"path", path,
			"current_page", payload.Paging.Current,
			"total_pages", payload.Paging.Total,
		)
	}

	out := make([]usecase.RawRecord, 0, len(payload.Response))
	for _, item := range payload.Response {
		out = append(out, usecase.RawRecord(item))
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, shared := c.flight.Do(fullURL, func() (any, error) {
		done, err := c.breaker.Acquire()
		if err != nil {
			return nil, err
		}
		raw, reqErr := c.executeRequest(ctx, fullURL)
		done(reqErr)
		return raw, reqErr
	})
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "api-football circuit breaker rejected request", "path", path, "state", c.breaker.State())
		return fmt.Errorf("%w: sport data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	if err != nil {
		return err
	}
	if shared {
		c.logger.DebugContext(ctx, "api-football request shared with in-flight call", "path", path)
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Wrapf(err, "decode api-football %s payload", path)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var body []byte
	err := resilience.Retry(ctx, c.retry, func(attempt int) (bool, error) {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return false, crerr.Wrap(err, "wait for api-football rate limit")
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return false, crerr.Wrap(err, "build request")
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("x-rapidapi-key", c.apiKey)
		req.Header.Set("x-rapidapi-host", c.host)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return true, crerr.Mark(
				crerr.Newf("send request (attempt %d): %s", attempt+1, sanitizeSensitiveText(err.Error(), c.apiKey)),
				errTransient,
			)
		}
		raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		_ = resp.Body.Close()
		if readErr != nil {
			return true, crerr.Mark(crerr.Wrap(readErr, "read response body"), errTransient)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			body = raw
			return false, nil
		}
		statusErr := crerr.Newf("provider status=%d body=%s", resp.StatusCode, sanitizeSensitiveText(abbreviateBody(raw), c.apiKey))
		if isRetryableStatus(resp.StatusCode) {
			return true, crerr.Mark(statusErr, errTransient)
		}
		return false, statusErr
	})
	if err != nil {
		c.logger.WarnContext(ctx, "api-football request failed", "url", fullURL, "error", err)
		return nil, err
	}
	return body, nil
}

// envelope is the wrapper around every API-Football response.
type envelope struct {
	Get        string            `json:"get"`
	Parameters json.RawMessage   `json:"parameters"`
	Errors     json.RawMessage   `json:"errors"`
	Results    int               `json:"results"`
	Paging     paging            `json:"paging"`
	Response   []json.RawMessage `json:"response"`
}

type paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// err reports provider-side errors. API-Football returns quota and auth
// problems with HTTP 200 and a non-empty errors object or array.
func (e envelope) err() error {
	raw := strings.TrimSpace(string(e.Errors))
	switch raw {
	case "", "null", "[]", "{}":
		return nil
	}

	var messages []string
	var decoded any
	if err := sonic.UnmarshalString(raw, &decoded); err != nil {
		return crerr.Newf("provider reported errors: %s", abbreviateBody([]byte(raw)))
	}
	switch typed := decoded.(type) {
	case map[string]any:
		for key, value := range typed {
			messages = append(messages, fmt.Sprintf("%s: %v", key, value))
		}
	case []any:
		for _, value := range typed {
			messages = append(messages, fmt.Sprint(value))
		}
	default:
		messages = append(messages, fmt.Sprint(typed))
	}
	if len(messages) == 0 {
		return nil
	}
	return crerr.Newf("provider reported errors: %s", strings.Join(messages, "; "))
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" || apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, apiKey, "REDACTED")
}

func isCircuitFailure(err error) bool {
	return err != nil && crerr.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
