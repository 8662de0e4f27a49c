// Package apiclient is the HTTP client for the recruitment backend's admin REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/target/recruit-admin/internal/observability/metrics"
	"github.com/target/recruit-admin/internal/ports"
)

const (
	// DefaultTimeout bounds each backend call.
	DefaultTimeout = 15 * time.Second
	// DefaultMessagePath extracts the human-readable message from an error body.
	DefaultMessagePath = "message"
	// DefaultFieldErrorsPath extracts per-field validation errors from an error body.
	DefaultFieldErrorsPath = "errors"

	tracerName      = "github.com/target/recruit-admin/internal/apiclient"
	maxResponseBody = 4 << 20
	requestIDHeader = "X-Request-Id"
)

// Observer receives one observation per backend call.
type Observer interface {
	ObserveAPICall(method, route string, status int, d time.Duration, err error)
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// Tokens supplies the admin bearer token; nil sends unauthenticated requests.
	Tokens ports.TokenStore
	// Transport is the underlying RoundTripper (default http.DefaultTransport).
	Transport http.RoundTripper
	Logger    *slog.Logger
	Metrics   Observer
	// MessagePath and FieldErrorsPath are JMESPath expressions over the JSON error body.
	MessagePath     string
	FieldErrorsPath string
	Now             func() time.Time
}

// Client issues JSON requests against the backend.
// Each Client owns its own AuthRejected subscriber list; WithTokens derives an independent one.
type Client struct {
	baseURL   *url.URL
	timeout   time.Duration
	transport http.RoundTripper
	http      *http.Client
	auth      *authTransport
	extractor errorExtractor
	logger    *slog.Logger
	metrics   Observer
	tracer    trace.Tracer
	now       func() time.Time
}

// New validates opts and constructs a Client.
func New(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MessagePath == "" {
		opts.MessagePath = DefaultMessagePath
	}
	if opts.FieldErrorsPath == "" {
		opts.FieldErrorsPath = DefaultFieldErrorsPath
	}
	if err := validateExpression("message", opts.MessagePath); err != nil {
		return nil, err
	}
	if err := validateExpression("field errors", opts.FieldErrorsPath); err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:   base,
		timeout:   opts.Timeout,
		transport: opts.Transport,
		extractor: errorExtractor{messagePath: opts.MessagePath, fieldErrorsPath: opts.FieldErrorsPath},
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		tracer:    otel.Tracer(tracerName),
		now:       opts.Now,
	}
	c.bind(opts.Tokens)
	return c, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("apiclient: base URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("apiclient: base URL must be absolute http(s), got %q", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	return u, nil
}

func (c *Client) bind(tokens ports.TokenStore) {
	c.auth = &authTransport{base: c.transport, tokens: tokens, bus: &rejectionBus{}, now: c.now}
	c.http = &http.Client{Transport: c.auth, Timeout: c.timeout}
}

// WithTokens returns a Client sharing configuration and connection pool but reading
// tokens from store, with a fresh subscriber list.
func (c *Client) WithTokens(store ports.TokenStore) *Client {
	cp := *c
	cp.bind(store)
	return &cp
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// Timeout returns the per-call bound applied to backend requests.
func (c *Client) Timeout() time.Duration { return c.timeout }

// OnAuthRejected subscribes fn to 401 responses. The returned func unsubscribes.
func (c *Client) OnAuthRejected(fn func(ports.AuthRejected)) func() {
	return c.auth.bus.subscribe(fn)
}

func (c *Client) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

// Get issues a GET and decodes the JSON response into dst.
func (c *Client) Get(ctx context.Context, path string, query url.Values, dst any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, dst)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, dst any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, dst)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, dst any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, dst)
}

// Delete issues a DELETE, optionally with a JSON body.
func (c *Client) Delete(ctx context.Context, path string, body, dst any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, body, dst)
}

// Do sends one request. Non-2xx answers return *ResponseError, network failures
// *TransportError and undecodable 2xx bodies *DecodeError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, dst any) (err error) {
	route := metrics.RouteLabel(path)
	ctx, span := c.tracer.Start(ctx, "apiclient."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("http.route", route),
		),
	)
	start := c.now()
	status := 0
	defer func() {
		elapsed := c.now().Sub(start)
		if c.metrics != nil {
			c.metrics.ObserveAPICall(method, route, status, elapsed, err)
		}
		if status > 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", status))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		c.log().DebugContext(ctx, "backend call",
			"method", method, "route", route, "status", status,
			"duration_ms", elapsed.Milliseconds(), "error", err)
	}()

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: unwrapURLError(err)}
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, fields := c.extractor.extract(data)
		return &ResponseError{
			StatusCode:  resp.StatusCode,
			Method:      method,
			Path:        path,
			Body:        data,
			Message:     msg,
			FieldErrors: fields,
		}
	}

	if dst == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return &DecodeError{Method: method, Path: path, Err: err}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	reqID := middleware.GetReqID(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set(requestIDHeader, reqID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	return req, nil
}

func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err
	}
	return err
}
