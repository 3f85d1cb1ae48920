// Package bitbucketapi provides a typed Bitbucket Cloud REST API 2.0 client.
package bitbucketapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultServerURL = "https://api.bitbucket.org/2.0"
	DefaultTimeout   = 30 * time.Second

	tracerName = "bitbucket-mcp/server/pkg/bitbucketapi"
)

// Options configures a Client. Zero values fall back to Bitbucket Cloud defaults.
type Options struct {
	ServerURL  string
	Username   string
	Password   string
	Timeout    time.Duration
	MaxRetries int

	// Transport replaces the pooled transport (tests use a mock transport here).
	Transport http.RoundTripper
	Logger    logrus.FieldLogger
}

// basicSecuritySource supplies HTTP basic credentials (username:app_password).
type basicSecuritySource struct {
	username string
	password string
}

func (s basicSecuritySource) apply(req *retryablehttp.Request) {
	req.SetBasicAuth(s.username, s.password)
}

// Client issues authenticated requests against one Bitbucket API base URL.
type Client struct {
	http      *retryablehttp.Client
	serverURL string
	security  basicSecuritySource
	tracer    trace.Tracer
}

// NewClient creates a client with basic authentication.
func NewClient(opts Options) (*Client, error) {
	serverURL := strings.TrimRight(opts.ServerURL, "/")
	if serverURL == "" {
		serverURL = DefaultServerURL
	}
	if _, err := url.Parse(serverURL); err != nil {
		return nil, errors.Wrap(err, "invalid server URL")
	}
	if opts.MaxRetries < 0 {
		return nil, errors.Errorf("invalid retry count %d", opts.MaxRetries)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = timeout
	if opts.Transport != nil {
		httpClient.Transport = opts.Transport
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = httpClient
	rc.RetryMax = opts.MaxRetries
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil
	if opts.Logger != nil {
		rc.Logger = leveledLogger{log: opts.Logger}
	}

	return &Client{
		http:      rc,
		serverURL: serverURL,
		security:  basicSecuritySource{username: opts.Username, password: opts.Password},
		tracer:    otel.Tracer(tracerName),
	}, nil
}

// ServerURL returns the base URL requests are sent to.
func (c *Client) ServerURL() string {
	return c.serverURL
}

// do sends a request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "bitbucket "+method, trace.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	u := c.serverURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request body")
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	c.security.apply(req)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// pathOf joins escaped path segments: pathOf("repositories", ws, repo) -> /repositories/ws/repo.
func pathOf(segments ...string) string {
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(s))
	}
	return sb.String()
}
