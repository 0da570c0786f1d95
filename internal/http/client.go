// Package http implements the HTTP layer shared by every resource client.
// Requests are dispatched through the execution pipeline in
// internal/pipeline, so concurrency limiting, timeouts, retries, and the
// circuit breaker apply uniformly no matter which resource made the call.
package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/stratus-io/stratus-go/internal/auth"
	"github.com/stratus-io/stratus-go/internal/pipeline"
	"github.com/stratus-io/stratus-go/pkg/stratus"
)

const defaultUserAgent = "stratus-go/1.0"

// Logger is the structured logger the client reports through. It mirrors
// the public stratus.Logger, so any logger accepted there can be passed
// here directly.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request describes one API call before it is bound to the wire.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    interface{}
}

// Response is a fully-buffered API response.
type Response struct {
	StatusCode int
	Headers    nethttp.Header
	Body       []byte
}

// Client executes API requests against one endpoint. All calls made through
// the same Client share its pipeline, so its breaker state and concurrency
// permits span every resource client built on top of it.
type Client struct {
	baseURL      string
	tokenManager auth.TokenManager
	userAgent    string
	logger       Logger
	debug        bool

	pipelineConfig pipeline.Config
	pipeline       *pipeline.Pipeline
	interceptors   *stratus.InterceptorChain
	tlsConfig      *tls.Config
}

// NewClient creates a client for the given base URL. The token manager may
// be nil for unauthenticated endpoints.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	client := &Client{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		tokenManager:   tokenManager,
		userAgent:      defaultUserAgent,
		pipelineConfig: pipeline.DefaultConfig(),
	}

	if parsed, err := url.Parse(baseURL); err == nil && parsed.Host != "" {
		client.pipelineConfig.Name = parsed.Host
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.logger != nil {
		client.pipelineConfig.Logger = client.logger
	}

	client.pipeline = pipeline.New(client.pipelineConfig, newTransport(client.tlsConfig))

	return client
}

// Do executes a request and returns the buffered response. For status codes
// of 400 and above both the response and a *stratus.ResponseError are
// returned, so callers can inspect the raw body alongside the parsed error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.buildURL(req.Path, req.Query)

	bodyBytes, err := marshalBody(req.Body)
	if err != nil {
		return nil, err
	}

	stratusReq := &stratus.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: c.baseHeaders(req, bodyBytes),
		Body:    bodyBytes,
	}

	if c.interceptors != nil {
		err = c.interceptors.ExecuteRequestInterceptors(ctx, stratusReq)
		if err != nil {
			return nil, err
		}

		// A cache hit skips authentication and the network entirely.
		if cached, ok := stratusReq.Metadata[stratus.MetadataCachedResponse].(*stratus.Response); ok {
			return &Response{StatusCode: cached.StatusCode, Headers: cached.Headers, Body: cached.Body}, nil
		}
	}

	// The bearer token is attached after the request interceptors ran so it
	// never leaks into logging or caching interceptors.
	err = c.authorize(ctx, stratusReq.Headers)
	if err != nil {
		return nil, err
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	pipeResp, err := c.pipeline.Execute(ctx, &pipeline.Request{
		Method: req.Method,
		URL:    fullURL,
		Header: stratusReq.Headers,
		Body:   bodyBytes,
	})
	if err != nil {
		return nil, err
	}

	stratusResp := &stratus.Response{
		StatusCode: pipeResp.StatusCode,
		Headers:    pipeResp.Header,
		Body:       pipeResp.Body,
	}

	if c.interceptors != nil {
		err = c.interceptors.ExecuteResponseInterceptors(ctx, stratusReq, stratusResp)
		if err != nil {
			return nil, err
		}
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
			"status": stratusResp.StatusCode,
		})
	}

	resp := &Response{
		StatusCode: stratusResp.StatusCode,
		Headers:    stratusResp.Headers,
		Body:       stratusResp.Body,
	}

	if resp.StatusCode >= nethttp.StatusBadRequest {
		return resp, c.responseError(resp)
	}

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodDelete, Path: path})
}

// buildURL joins the base URL, path, and encoded query.
func (c *Client) buildURL(path string, query url.Values) string {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	return fullURL
}

// baseHeaders assembles the standard headers plus any per-request overrides.
func (c *Client) baseHeaders(req *Request, body []byte) nethttp.Header {
	headers := nethttp.Header{}
	headers.Set("Accept", "application/json")
	headers.Set("User-Agent", c.userAgent)

	if len(body) > 0 {
		headers.Set("Content-Type", "application/json")
	}

	for key, value := range req.Headers {
		headers.Set(key, value)
	}

	return headers
}

// authorize attaches the bearer token, fetching or refreshing it as needed.
func (c *Client) authorize(ctx context.Context, headers nethttp.Header) error {
	if c.tokenManager == nil {
		return nil
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("getting auth token: %w", err)
	}

	if token != "" {
		headers.Set("Authorization", "Bearer "+token)
	}

	return nil
}

// responseError converts a failing status into a *stratus.ResponseError,
// preserving whatever error envelope the body carried.
func (c *Client) responseError(resp *Response) error {
	errResp, err := stratus.ParseResponseError(resp.Body)
	if err != nil {
		errResp = &stratus.ResponseError{}
	}

	errResp.StatusCode = resp.StatusCode
	errResp.RequestID = resp.Headers.Get("X-Request-Id")

	return errResp
}

// marshalBody serializes the request body once so retried attempts resend
// identical bytes.
func marshalBody(body interface{}) ([]byte, error) {
	if body == nil {
		return nil, nil
	}

	if raw, ok := body.([]byte); ok {
		return raw, nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request body: %w", err)
	}

	return data, nil
}

// transport is the innermost pipeline handler. It performs one network
// attempt and buffers the whole response so outer stages never deal with a
// partially-consumed body.
type transport struct {
	client *nethttp.Client
}

func newTransport(tlsConfig *tls.Config) *transport {
	base, ok := nethttp.DefaultTransport.(*nethttp.Transport)
	if !ok {
		base = &nethttp.Transport{}
	} else {
		base = base.Clone()
	}

	if tlsConfig != nil {
		base.TLSClientConfig = tlsConfig
	}

	// Attempt deadlines come from the pipeline's context, so the inner
	// client carries no timeout of its own.
	return &transport{client: &nethttp.Client{Transport: base}}
}

// Handle implements pipeline.Handler.
func (t *transport) Handle(ctx context.Context, req *pipeline.Request) (*pipeline.Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	if req.Header != nil {
		httpReq.Header = req.Header.Clone()
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return &pipeline.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}
