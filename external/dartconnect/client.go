package dartconnect

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/dart-league-stats/internal/platform/logging"
	"github.com/riskibarqy/dart-league-stats/internal/platform/resilience"
	"github.com/riskibarqy/dart-league-stats/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL           = "https://tv.dartconnect.com"
	defaultRequestsPerMinute = 240
	maxResponseBytes         = 8 << 20
	userAgent                = "dart-league-stats/1.0"
)

var errDartTransient = crerr.New("dartconnect transient failure")

type ClientConfig struct {
	HTTPClient        *http.Client
	BaseURL           string
	LeaderboardURL    string
	VenueScheduleURL  string
	LeagueID          string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerMinute int
	Logger            *logging.Logger
	CircuitBreaker    resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient       *http.Client
	baseURL          string
	leaderboardURL   string
	venueScheduleURL string
	leagueID         string
	maxRetries       int
	logger           *logging.Logger
	limiter          *rate.Limiter
	breaker          *resilience.CircuitBreaker
	circuitEnabled   bool
	flight           resilience.SingleFlight[[]byte]
	sleep            func(ctx context.Context, d time.Duration) error
}

var _ usecase.DartProvider = (*Client)(nil)

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
	leaderboardURL := strings.TrimSpace(cfg.LeaderboardURL)
	if leaderboardURL == "" {
		leaderboardURL = baseURL + "/api/leaderboard"
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = defaultRequestsPerMinute
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:       httpClient,
		baseURL:          baseURL,
		leaderboardURL:   leaderboardURL,
		venueScheduleURL: strings.TrimSpace(cfg.VenueScheduleURL),
		leagueID:         strings.TrimSpace(cfg.LeagueID),
		maxRetries:       maxInt(cfg.MaxRetries, 0),
		logger:           logger.Named("dartconnect"),
		limiter:          rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		breaker:          resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled:   breakerCfg.Enabled,
		sleep:            sleepContext,
	}
}

type request struct {
	method  string
	url     string
	body    []byte
	session *usecase.ExternalSession
	retries int
}

type response struct {
	body    []byte
	cookies []*http.Cookie
}

func (c *Client) leaguePath(format string, args ...any) string {
	return c.baseURL + "/league/" + url.PathEscape(c.leagueID) + fmt.Sprintf(format, args...)
}

func (c *Client) apiPath(endpoint string) string {
	return c.baseURL + "/api/league/" + url.PathEscape(c.leagueID) + "/" + endpoint
}

// getPage fetches an HTML page. Concurrent fetches of the same URL share one
// request.
func (c *Client) getPage(ctx context.Context, fullURL string) ([]byte, error) {
	raw, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
		resp, err := c.do(ctx, request{method: http.MethodGet, url: fullURL, retries: c.maxRetries})
		if err != nil {
			return nil, err
		}
		return resp.body, nil
	})
	return raw, err
}

// postJSON encodes payload, posts it and decodes the JSON reply into target.
func (c *Client) postJSON(ctx context.Context, fullURL string, session *usecase.ExternalSession, payload any, target any) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}

	resp, err := c.do(ctx, request{
		method:  http.MethodPost,
		url:     fullURL,
		body:    buf.B,
		session: session,
		retries: c.maxRetries,
	})
	if err != nil {
		return err
	}
	if err := sonic.Unmarshal(resp.body, target); err != nil {
		return fmt.Errorf("%w: decode %s: %v", usecase.ErrRemoteShapeChanged, redactURL(fullURL), err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, req request) (response, error) {
	if !c.circuitEnabled {
		return c.executeRequest(ctx, req)
	}

	var resp response
	err := c.breaker.Execute(func() error {
		var reqErr error
		resp, reqErr = c.executeRequest(ctx, req)
		return reqErr
	}, isCircuitFailure)
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "dartconnect circuit breaker rejected request", "state", c.breaker.State())
		return response{}, fmt.Errorf("%w: dart platform is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	return resp, err
}

func (c *Client) executeRequest(ctx context.Context, call request) (response, error) {
	var lastErr error
	for attempt := 0; attempt <= call.retries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return response{}, err
		}

		req, err := c.buildRequest(ctx, call)
		if err != nil {
			return response{}, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errDartTransient, err)
		} else {
			body, readErr := readBody(resp.Body)
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errDartTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return response{body: body, cookies: resp.Cookies()}, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: platform status=%d body=%s", errDartTransient, resp.StatusCode, abbreviateBody(body))
			default:
				return response{}, fmt.Errorf("platform status=%d url=%s body=%s", resp.StatusCode, redactURL(call.url), abbreviateBody(body))
			}
		}

		if attempt == call.retries {
			break
		}
		if err := c.sleep(ctx, time.Duration(attempt+1)*time.Second); err != nil {
			return response{}, err
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("platform request failed")
	}
	c.logger.WarnContext(ctx, "dartconnect request failed", "method", call.method, "url", redactURL(call.url), "error", lastErr)
	return response{}, lastErr
}

func (c *Client) buildRequest(ctx context.Context, call request) (*http.Request, error) {
	var body io.Reader
	if call.body != nil {
		body = bytes.NewReader(call.body)
	}
	req, err := http.NewRequestWithContext(ctx, call.method, call.url, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("user-agent", userAgent)
	if call.body != nil {
		req.Header.Set("content-type", "application/json")
		req.Header.Set("accept", "application/json")
	} else {
		req.Header.Set("accept", "text/html,application/json")
	}
	if call.session != nil {
		req.Header.Set("X-XSRF-TOKEN", call.session.CSRFToken)
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		for _, cookie := range call.session.Cookies {
			req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
		}
	}
	return req, nil
}

func readBody(body io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(body, maxResponseBytes)); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return crerr.Is(err, errDartTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func redactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.RawQuery = ""
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
