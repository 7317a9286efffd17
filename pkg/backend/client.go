// Package backend is the HTTP/JSON client for the Fresh Find backend. It owns
// transport, bearer-token attachment and the mapping of backend failures onto
// the storefront error codes. It holds no session state of its own.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/freshfind/storefront/pkg/errors"
	"github.com/freshfind/storefront/pkg/logger"
	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 10 * time.Second

var errBaseURLRequired = errors.New("backend base url is required")

// TokenSource supplies the bearer token attached to every request.
type TokenSource interface {
	Token() string
}

// Observer receives one callback per completed backend call.
type Observer interface {
	ObserveBackend(resource, method string, status int, duration time.Duration)
	IncBackendError(resource, code string)
}

// Client wraps the resty client used for every backend resource.
type Client struct {
	http           *resty.Client
	baseURL        string
	timeout        time.Duration
	httpClient     *http.Client
	tokens         TokenSource
	observer       Observer
	logg           *logger.Logger
	onUnauthorized func(context.Context)
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithTokenSource attaches Authorization headers from ts.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		c.logg = logg
	}
}

// WithUnauthorizedHandler registers fn to run whenever the backend answers 401.
// The session uses it to drop a revoked token.
func WithUnauthorizedHandler(fn func(context.Context)) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// NewClient builds the backend client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL: trimmed,
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	var rc *resty.Client
	if client.httpClient != nil {
		rc = resty.NewWithClient(client.httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(client.baseURL).
		SetTimeout(client.timeout).
		SetHeader("Accept", "application/json")
	if client.logg != nil {
		rc.SetLogger(restyLogger{logg: client.logg})
	}
	client.http = rc

	return client, nil
}

// SetTokenSource swaps the token source after construction. The session
// context is built after the client, so main wires it late.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// SetUnauthorizedHandler swaps the 401 hook after construction.
func (c *Client) SetUnauthorizedHandler(fn func(context.Context)) {
	c.onUnauthorized = fn
}

type call struct {
	resource string
	method   string
	path     string
	query    map[string]string
	body     any
	// form and upload send a multipart body instead of JSON.
	form   map[string]string
	upload *Upload
	out    any
}

func (c *Client) do(ctx context.Context, req call) error {
	if c == nil || c.http == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "backend client not configured")
	}

	r := c.http.R().SetContext(ctx)
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			r.SetAuthToken(token)
		}
	}
	if len(req.query) > 0 {
		r.SetQueryParams(req.query)
	}
	switch {
	case req.form != nil:
		r.SetMultipartFormData(req.form)
		if req.upload != nil {
			r.SetFileReader(req.upload.Field, req.upload.Name, req.upload.Reader)
		}
	case req.body != nil:
		r.SetHeader("Content-Type", "application/json").SetBody(req.body)
	}

	started := time.Now()
	resp, err := r.Execute(req.method, req.path)
	status := 0
	if resp != nil && resp.RawResponse != nil {
		status = resp.StatusCode()
	}
	c.observe(req, status, time.Since(started))

	if err != nil {
		return c.fail(req, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s request failed", req.resource)).
			WithDetails(pkgerrors.BackendDetails{Resource: req.resource}))
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		if status == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return c.fail(req, mapStatus(req.resource, status, resp.Body()))
	}

	if req.out == nil {
		return nil
	}
	body := resp.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, req.out); err != nil {
		return c.fail(req, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s response", req.resource)).
			WithDetails(pkgerrors.BackendDetails{Status: status, Resource: req.resource}))
	}
	return nil
}

func (c *Client) observe(req call, status int, elapsed time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveBackend(req.resource, req.method, status, elapsed)
}

func (c *Client) fail(req call, err *pkgerrors.Error) error {
	if c.observer != nil {
		c.observer.IncBackendError(req.resource, string(err.Code()))
	}
	return err
}

type restyLogger struct {
	logg *logger.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logg.Error(context.Background(), fmt.Sprintf(format, v...), nil)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logg.Warn(context.Background(), fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logg.Debug(context.Background(), fmt.Sprintf(format, v...))
}
