package ergast

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/f1-fantasy/internal/domain/race"
	"github.com/riskibarqy/f1-fantasy/internal/platform/logging"
	"github.com/riskibarqy/f1-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/f1-fantasy/internal/usecase"
	"golang.org/x/sync/singleflight"
)

const (
	defaultBaseURL  = "https://api.jolpi.ca/ergast/f1"
	defaultPageSize = 100
	maxPages        = 200
)

var errErgastTransient = crerr.New("ergast transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	PageSize       int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads season classifications from an Ergast compatible API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	pageSize       int
	retryBackoff   time.Duration
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	flight         singleflight.Group
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	retryBackoff := cfg.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = time.Second
	}
	breakerCfg := cfg.CircuitBreaker
	breakerCfg.IsFailure = isCircuitFailure

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     max(cfg.MaxRetries, 0),
		pageSize:       pageSize,
		retryBackoff:   retryBackoff,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg),
	}
}

// FetchSession pages through one session of a season. Races split across
// pages are merged by round.
func (c *Client) FetchSession(ctx context.Context, year int, session race.Session) ([]race.FeedRace, error) {
	if year <= 0 {
		return nil, fmt.Errorf("year must be greater than zero")
	}
	resource, err := sessionResource(session)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/%d/%s.json", year, resource)
	byRound := make(map[int]int)
	out := make([]race.FeedRace, 0, 24)

	offset := 0
	for page := 0; page < maxPages; page++ {
		var envelope responseEnvelope
		query := map[string]string{
			"limit":  strconv.Itoa(c.pageSize),
			"offset": strconv.Itoa(offset),
		}
		if err := c.doJSON(ctx, path, query, &envelope); err != nil {
			return nil, fmt.Errorf("fetch %s year=%d offset=%d: %w", resource, year, offset, err)
		}

		for _, item := range envelope.MRData.RaceTable.Races {
			parsed, err := item.toFeedRace(session)
			if err != nil {
				return nil, err
			}
			if idx, ok := byRound[parsed.Round]; ok {
				out[idx].Entries = append(out[idx].Entries, parsed.Entries...)
				continue
			}
			byRound[parsed.Round] = len(out)
			out = append(out, parsed)
		}

		total := parseInt(envelope.MRData.Total)
		limit := parseInt(envelope.MRData.Limit)
		if limit <= 0 {
			limit = c.pageSize
		}
		offset = parseInt(envelope.MRData.Offset) + limit
		if offset >= total {
			return out, nil
		}
	}

	c.logger.WarnContext(ctx, "ergast paging stopped at page limit", "year", year, "session", session, "offset", offset)
	return out, nil
}

func sessionResource(session race.Session) (string, error) {
	switch session {
	case race.SessionRace:
		return "results", nil
	case race.SessionSprint:
		return "sprint", nil
	case race.SessionQualifying:
		return "qualifying", nil
	default:
		return "", fmt.Errorf("%w: unknown session %q", usecase.ErrInvalidInput, session)
	}
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

	// Only the flight leader takes a breaker slot and reports the outcome.
	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "ergast circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: results feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		raw, reqErr := c.executeRequest(ctx, fullURL)
		c.breaker.Record(reqErr)
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode ergast payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errErgastTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errErgastTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errErgastTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "ergast request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isCircuitFailure(err error) bool {
	return err != nil && stderrors.Is(err, errErgastTransient)
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

func parseInt(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return value
}

func parseFloat(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return value
}
