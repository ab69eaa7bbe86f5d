// Package api is the typed HTTP client of the memorial REST service.
//
// The client is stateless: it holds no cache and never retries. Every call
// takes a context and returns either a decoded value or one of the typed
// errors declared in errors.go.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// TokenHeader carries the admin token on authenticated requests.
const TokenHeader = "X-Auth-Token"

// TokenSource yields the current admin token; an empty string means anonymous.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

// Token implements TokenSource.
func (f TokenFunc) Token() string { return f() }

// Client talks to the memorial service.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource sets where the admin token is read from before each request.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the logger used for request tracing at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  TokenFunc(func() string { return "" }),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Heroes returns the /heroes endpoints.
func (c *Client) Heroes() *HeroesAPI { return &HeroesAPI{c: c} }

// Monuments returns the /monuments endpoints.
func (c *Client) Monuments() *MonumentsAPI { return &MonumentsAPI{c: c} }

// Auth returns the /auth endpoints.
func (c *Client) Auth() *AuthAPI { return &AuthAPI{c: c} }

// Upload returns the /upload endpoint.
func (c *Client) Upload() *UploadAPI { return &UploadAPI{c: c} }

// Files returns the /files endpoints.
func (c *Client) Files() *FilesAPI { return &FilesAPI{c: c} }

// Submissions returns the /submissions endpoint.
func (c *Client) Submissions() *SubmissionsAPI { return &SubmissionsAPI{c: c} }

// call describes one request.
type call struct {
	resource string
	method   string
	path     string
	query    url.Values
	body     any
}

// do sends the request and returns the response body of a 2xx answer.
func (c *Client) do(ctx context.Context, cl call) ([]byte, error) {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode request: %w", cl.resource, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", cl.resource, err)
	}
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set(TokenHeader, tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Resource: cl.resource, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Resource: cl.resource, Err: err}
	}

	c.log.Debug("api request",
		zap.String("method", cl.method),
		zap.String("url", u),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestFailedError{
			Resource: cl.resource,
			Status:   resp.StatusCode,
			Message:  errorMessage(data),
		}
	}
	return data, nil
}

// doJSON sends the request and decodes a 2xx body into out.
func (c *Client) doJSON(ctx context.Context, cl call, out any) error {
	data, err := c.do(ctx, cl)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &DecodeError{Resource: cl.resource, Err: err}
	}
	return nil
}

// errorMessage extracts {"error": ...} or {"message": ...} from an error body.
func errorMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return strings.TrimSpace(string(data))
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}

// IsNotFound reports whether err is a RequestFailedError with status 404.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized reports whether err is a RequestFailedError with status 401.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

func hasStatus(err error, status int) bool {
	var rf *RequestFailedError
	return errors.As(err, &rf) && rf.Status == status
}

func idQuery(key string, id int64) url.Values {
	return url.Values{key: []string{fmt.Sprint(id)}}
}

// created is the body of a successful POST.
type created struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}
