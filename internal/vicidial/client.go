// Package vicidial is the gateway to the Vicidial non-agent API and the
// admin pages served next to it.
package vicidial

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wolfman30/vicidial-admin/internal/observability/metrics"
	"github.com/wolfman30/vicidial-admin/internal/wire"
	"github.com/wolfman30/vicidial-admin/pkg/logging"
)

const (
	defaultSource         = "vicidial-admin"
	defaultConnectTimeout = 10 * time.Second
	defaultRequestTimeout = 15 * time.Second
	defaultUserAgent      = "vicidial-admin/1.0"

	// errorMarker is how the API reports failures inside 200 responses.
	errorMarker = "ERROR:"

	// adminPageFunction labels admin page fetches in logs and metrics.
	adminPageFunction = "admin_page"

	maxErrorBody = 512
)

var tracer = otel.Tracer("vicidial.internal.gateway")

// Config controls how the gateway behaves. It is fixed for the lifetime of
// a Client.
type Config struct {
	BaseURL        string
	User           string
	Password       string
	Source         string
	ServerIP       string
	TemplateID     string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
	HTTPClient     *http.Client
	Logger         *logging.Logger
	Metrics        *metrics.AdminMetrics
	UserAgent      string
}

// PhoneSettings are the server values the phone functions need.
type PhoneSettings struct {
	ServerIP   string
	TemplateID string
}

// Client issues authenticated GET requests against the API. It never
// retries and is safe for concurrent use.
type Client struct {
	baseURL    string
	user       string
	password   string
	source     string
	phone      PhoneSettings
	httpClient *http.Client
	logger     *logging.Logger
	metrics    *metrics.AdminMetrics
	userAgent  string
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("vicidial: base url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("vicidial: invalid base url: %w", err)
	}
	if strings.TrimSpace(cfg.User) == "" || cfg.Password == "" {
		return nil, errors.New("vicidial: api user and password are required")
	}
	source := strings.TrimSpace(cfg.Source)
	if source == "" {
		source = defaultSource
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(cfg.ConnectTimeout, cfg.RequestTimeout)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:  baseURL,
		user:     cfg.User,
		password: cfg.Password,
		source:   source,
		phone: PhoneSettings{
			ServerIP:   strings.TrimSpace(cfg.ServerIP),
			TemplateID: strings.TrimSpace(cfg.TemplateID),
		},
		httpClient: httpClient,
		logger:     logger,
		metrics:    cfg.Metrics,
		userAgent:  userAgent,
	}, nil
}

func newHTTPClient(connectTimeout, requestTimeout time.Duration) *http.Client {
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	dialer := &net.Dialer{Timeout: connectTimeout}
	return &http.Client{
		Timeout: requestTimeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: connectTimeout,
		},
	}
}

// PhoneSettings returns the server values configured for phone functions.
func (c *Client) PhoneSettings() PhoneSettings {
	return c.phone
}

// Call invokes an API function. The query starts with source, user, pass and
// function, followed by params in the order given. A non-200 status or a body
// containing ERROR: is returned as an *APIError.
func (c *Client) Call(ctx context.Context, function string, params wire.Params) (string, error) {
	if strings.TrimSpace(function) == "" {
		return "", errors.New("vicidial: function name required")
	}
	query := wire.Params{}.
		Add("source", c.source).
		Add("user", c.user).
		Add("pass", c.password).
		Add("function", function)
	query = append(query, params...)

	body, status, err := c.get(ctx, function, c.buildURL(query), nil)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", &APIError{Function: function, StatusCode: status, Message: truncate(body)}
	}
	if msg, ok := inBandError(body); ok {
		return "", &APIError{Function: function, StatusCode: status, Message: msg}
	}
	return body, nil
}

// FetchAdminPage downloads an admin UI page using HTTP Basic credentials.
func (c *Client) FetchAdminPage(ctx context.Context, pageURL string) (string, error) {
	if strings.TrimSpace(pageURL) == "" {
		return "", errors.New("vicidial: admin page url required")
	}
	body, status, err := c.get(ctx, adminPageFunction, pageURL, func(req *http.Request) {
		req.SetBasicAuth(c.user, c.password)
	})
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", &APIError{Function: adminPageFunction, StatusCode: status}
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, function, fullURL string, decorate func(*http.Request)) (string, int, error) {
	ctx, span := tracer.Start(ctx, "vicidial."+function, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("vicidial.function", function))

	start := time.Now()
	body, status, err := c.do(ctx, function, fullURL, decorate)
	elapsed := time.Since(start)

	outcome := classify(status, body, err, function != adminPageFunction)
	c.metrics.ObserveRequest(function, outcome, elapsed.Seconds())
	span.SetAttributes(attribute.Int("http.status_code", status), attribute.String("vicidial.outcome", outcome))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		c.logger.Warn("vicidial request failed",
			"function", function,
			"outcome", outcome,
			"elapsed_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return "", status, err
	}
	if outcome != "ok" {
		span.SetStatus(codes.Error, outcome)
	}
	c.logger.Debug("vicidial request",
		"function", function,
		"status", status,
		"outcome", outcome,
		"elapsed_ms", elapsed.Milliseconds(),
	)
	return body, status, nil
}

func (c *Client) do(ctx context.Context, function, fullURL string, decorate func(*http.Request)) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("vicidial: build %s request: %w", function, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/plain, text/html")
	if decorate != nil {
		decorate(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, transportError(ctx, function, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, transportError(ctx, function, err)
	}
	return string(data), resp.StatusCode, nil
}

func (c *Client) buildURL(query wire.Params) string {
	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + query.Encode()
}

func transportError(ctx context.Context, function string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%w: %s: %w", ErrInterrupted, function, ctx.Err())
	}
	var netErr net.Error
	timeout := errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())
	return &NetworkError{Function: function, Timeout: timeout, Err: stripURL(err)}
}

// stripURL drops the request URL from *url.Error so credentials carried in
// the query string never reach error messages.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

func inBandError(body string) (string, bool) {
	idx := strings.Index(body, errorMarker)
	if idx < 0 {
		return "", false
	}
	line := body[idx:]
	if nl := strings.IndexAny(line, "\r\n"); nl >= 0 {
		line = line[:nl]
	}
	return strings.TrimSpace(line), true
}

func classify(status int, body string, err error, checkMarker bool) string {
	switch {
	case errors.Is(err, ErrInterrupted):
		return "interrupted"
	case errors.Is(err, ErrNetwork):
		return "network_error"
	case err != nil:
		return "error"
	case status != http.StatusOK:
		return "http_error"
	case checkMarker && strings.Contains(body, errorMarker):
		return "api_error"
	default:
		return "ok"
	}
}

func truncate(body string) string {
	body = strings.TrimSpace(body)
	if len(body) > maxErrorBody {
		return body[:maxErrorBody] + "..."
	}
	return body
}
