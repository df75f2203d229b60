// Package transport executes prepared resource requests against a Flexi
// server over HTTP.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/roach88/flexi/internal/document"
	"github.com/roach88/flexi/internal/resource"
)

// DefaultTimeout applies when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Config configures the HTTP client.
type Config struct {
	// BaseURL is the server root, e.g. https://demo.flexibee.eu:5434.
	BaseURL string
	// Company is the company database identifier placed after /c/.
	Company  string
	Username string
	Password string
	Timeout  time.Duration
	Headers  map[string]string

	Logger  zerolog.Logger
	Metrics *Metrics

	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
	// NewRequestID overrides the uuid generator.
	NewRequestID func() string
}

// Client sends PreparedRequests to one company endpoint.
//
// Thread-safety: Client is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	endpoint   string
	username   string
	password   string
	headers    map[string]string
	logger     zerolog.Logger
	metrics    *Metrics
	newID      func() string
}

// New creates a client for cfg. BaseURL and Company are required.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("transport: base URL is required")
	}
	if cfg.Company == "" {
		return nil, fmt.Errorf("transport: company is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("transport: invalid base URL: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	newID := cfg.NewRequestID
	if newID == nil {
		newID = uuid.NewString
	}

	return &Client{
		httpClient: httpClient,
		endpoint:   Endpoint(cfg.BaseURL, cfg.Company),
		username:   cfg.Username,
		password:   cfg.Password,
		headers:    cfg.Headers,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		newID:      newID,
	}, nil
}

// Endpoint returns the company root "<base>/c/<company>/".
func Endpoint(baseURL, company string) string {
	return strings.TrimRight(baseURL, "/") + "/c/" + url.PathEscape(company) + "/"
}

// Do implements resource.Transport. Responses with status >= 400 are returned
// as *RemoteError.
func (c *Client) Do(ctx context.Context, req resource.PreparedRequest) (document.Document, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.endpoint+req.Path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := c.newID()
	httpReq.Header.Set("Accept", resource.ContentTypeJSON)
	httpReq.Header.Set(RequestIDHeader, requestID)
	if req.Body != nil && req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if c.username != "" || c.password != "" {
		httpReq.SetBasicAuth(c.username, c.password)
	}
	for k, v := range c.headers {
		httpReq.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.observe(req.Method, "error", elapsed)
		c.logger.Warn().
			Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Str("request_id", requestID).
			Dur("duration", elapsed).
			Msg("flexi request failed")
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	c.metrics.observe(req.Method, strconv.Itoa(resp.StatusCode), elapsed)
	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("duration", elapsed).
		Msg("flexi request")

	xmlBody := isXMLResponse(resp.Header.Get("Content-Type"), req.Path)

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(resp.Body)
		rerr := &RemoteError{
			StatusCode: resp.StatusCode,
			Message:    remoteMessage(data, xmlBody),
			RequestID:  requestID,
		}
		c.logger.Warn().
			Str("method", req.Method).
			Str("path", req.Path).
			Int("status", resp.StatusCode).
			Str("request_id", requestID).
			Msg(rerr.Message)
		return nil, rerr
	}

	return decodeBody(resp.Body, xmlBody)
}

func decodeBody(r io.Reader, xmlBody bool) (document.Document, error) {
	if xmlBody {
		return document.DecodeXML(r)
	}
	return document.Decode(r)
}

// isXMLResponse picks the decoder. The provider answers in the format of the
// path suffix, so the suffix decides when the Content-Type names neither
// JSON nor XML.
func isXMLResponse(contentType, path string) bool {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		switch {
		case strings.Contains(mediaType, "xml"):
			return true
		case strings.Contains(mediaType, "json"):
			return false
		}
	}
	p, _, _ := strings.Cut(path, "?")
	return strings.HasSuffix(p, ".xml")
}
