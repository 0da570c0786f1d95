package stratus

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Request represents an HTTP request that can be intercepted.
type Request struct {
	Method   string
	Path     string
	Headers  http.Header
	Body     []byte
	Metadata map[string]interface{}
}

// Response represents an HTTP response that can be intercepted.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// MetadataCachedResponse is the request metadata key under which a cache
// hit is stored. The transport short-circuits the exchange when it is set.
const MetadataCachedResponse = "cached_response"

// RequestInterceptor is called before a request is sent.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor is called after a response is received.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain manages a chain of interceptors.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{
		requestInterceptors:  make([]RequestInterceptor, 0),
		responseInterceptors: make([]ResponseInterceptor, 0),
	}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)
}

// ExecuteRequestInterceptors runs all request interceptors.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	for _, interceptor := range c.requestInterceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	for _, interceptor := range c.responseInterceptors {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// Common Interceptors

// LoggingInterceptor logs requests before they are sent.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(_ context.Context, req *Request) error {
		logger.Debug("API Request", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(_ context.Context, req *Request, resp *Response) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
		}

		if resp.Error != nil {
			logger.Error("API Response Error", fields)
		} else {
			logger.Debug("API Response", fields)
		}

		return nil
	}
}

// RequestIDInterceptor stamps each request with a unique X-Request-ID so
// client and server logs can be correlated. An ID already set by the
// caller is kept.
func RequestIDInterceptor() RequestInterceptor {
	return func(_ context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}
		if req.Headers.Get("X-Request-ID") == "" {
			req.Headers.Set("X-Request-ID", uuid.New().String())
		}

		return nil
	}
}

// RateLimitInterceptor implements client-side request pacing with a token
// bucket refilled at requestsPerSecond.
func RateLimitInterceptor(requestsPerSecond int) RequestInterceptor {
	bucket := make(chan struct{}, requestsPerSecond)
	for range requestsPerSecond {
		bucket <- struct{}{}
	}

	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(requestsPerSecond))
		defer ticker.Stop()

		for range ticker.C {
			select {
			case bucket <- struct{}{}:
			default:
				// Bucket is full
			}
		}
	}()

	return func(ctx context.Context, req *Request) error {
		select {
		case <-bucket:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// AuthenticationInterceptor adds authentication headers.
func AuthenticationInterceptor(tokenProvider func(context.Context) (string, error)) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		token, err := tokenProvider(ctx)
		if err != nil {
			return fmt.Errorf("failed to get authentication token: %w", err)
		}

		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		req.Headers.Set("Authorization", "Bearer "+token)

		return nil
	}
}

// HeaderInterceptor adds custom headers to requests.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(_ context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		for key, value := range headers {
			req.Headers.Set(key, value)
		}

		return nil
	}
}

// Metrics aggregates call statistics for one endpoint.
type Metrics struct {
	TotalRequests   int64
	TotalErrors     int64
	TotalLatency    time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time
}

// MetricsCollector collects per-endpoint API metrics.
type MetricsCollector struct {
	mu       sync.Mutex
	metrics  map[string]*Metrics
	onChange func(endpoint string, metrics *Metrics)
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*Metrics),
	}
}

// SetOnChange sets a callback invoked after each recorded response.
func (m *MetricsCollector) SetOnChange(fn func(endpoint string, metrics *Metrics)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// GetMetrics returns a snapshot of the metrics for an endpoint, or nil if
// the endpoint has not been called.
func (m *MetricsCollector) GetMetrics(endpoint string) *Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	metrics, ok := m.metrics[endpoint]
	if !ok {
		return nil
	}
	snapshot := *metrics

	return &snapshot
}

// MetricsRequestInterceptor records the request start time.
func MetricsRequestInterceptor(_ *MetricsCollector) RequestInterceptor {
	return func(_ context.Context, req *Request) error {
		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}

		req.Metadata["start_time"] = time.Now()

		return nil
	}
}

// MetricsResponseInterceptor folds the response into the endpoint metrics.
func MetricsResponseInterceptor(collector *MetricsCollector) ResponseInterceptor {
	return func(_ context.Context, req *Request, resp *Response) error {
		endpoint := fmt.Sprintf("%s %s", req.Method, req.Path)

		collector.mu.Lock()
		metrics, ok := collector.metrics[endpoint]
		if !ok {
			metrics = &Metrics{}
			collector.metrics[endpoint] = metrics
		}

		metrics.TotalRequests++
		metrics.LastRequestTime = time.Now()

		if req.Metadata != nil {
			if startTime, ok := req.Metadata["start_time"].(time.Time); ok {
				latency := time.Since(startTime)
				metrics.TotalLatency += latency
				metrics.AverageLatency = metrics.TotalLatency / time.Duration(metrics.TotalRequests)
			}
		}

		if resp.Error != nil || resp.StatusCode >= 400 {
			metrics.TotalErrors++
		}

		onChange := collector.onChange
		snapshot := *metrics
		collector.mu.Unlock()

		if onChange != nil {
			onChange(endpoint, &snapshot)
		}

		return nil
	}
}

// Cache Interceptors

// CacheInterceptor returns the request/response interceptor pair that
// serves eligible requests from cache and stores eligible responses. A hit
// is left under MetadataCachedResponse for the transport to use instead of
// the network.
func CacheInterceptor(manager *CacheManager, policy *CachingPolicy) (RequestInterceptor, ResponseInterceptor) {
	if policy == nil {
		policy = DefaultCachingPolicy()
	}

	requestInterceptor := func(ctx context.Context, req *Request) error {
		if !policy.ShouldCache(req.Method, req.Path, http.StatusOK) {
			return nil
		}

		key := manager.GetCacheKey(req.Method, req.Path, nil)
		entry, err := manager.GetEntry(ctx, key)
		if err != nil {
			// Miss; the request proceeds to the network.
			return nil
		}

		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}
		req.Metadata[MetadataCachedResponse] = &Response{
			StatusCode: http.StatusOK,
			Headers:    http.Header{"X-Stratus-Cache": []string{"HIT"}},
			Body:       entry.Data,
		}

		return nil
	}

	responseInterceptor := func(ctx context.Context, req *Request, resp *Response) error {
		if resp.Error != nil || !policy.ShouldCache(req.Method, req.Path, resp.StatusCode) {
			return nil
		}
		if _, hit := req.Metadata[MetadataCachedResponse]; hit {
			return nil
		}

		key := manager.GetCacheKey(req.Method, req.Path, nil)
		etag := ""
		if resp.Headers != nil {
			etag = resp.Headers.Get("ETag")
		}

		// Cache write failures are not the request's problem.
		_ = manager.SetWithETag(ctx, key, resp.Body, etag, policy.TTLFor(req.Path))

		return nil
	}

	return requestInterceptor, responseInterceptor
}

// ConditionalRequestInterceptor adds If-None-Match headers from cached
// ETags so the server can answer 304 instead of resending the body.
func ConditionalRequestInterceptor(manager *CacheManager) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Method != http.MethodGet {
			return nil
		}

		key := manager.GetCacheKey(req.Method, req.Path, nil)
		entry, err := manager.GetEntry(ctx, key)
		if err != nil || entry.ETag == "" {
			return nil
		}

		if req.Headers == nil {
			req.Headers = make(http.Header)
		}
		req.Headers.Set("If-None-Match", entry.ETag)

		return nil
	}
}

// NotModifiedInterceptor substitutes the cached body when the server
// answers 304 Not Modified to a conditional request.
func NotModifiedInterceptor(manager *CacheManager) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		if resp.StatusCode != http.StatusNotModified {
			return nil
		}

		key := manager.GetCacheKey(req.Method, req.Path, nil)
		entry, err := manager.GetEntry(ctx, key)
		if err != nil {
			return nil
		}

		resp.StatusCode = http.StatusOK
		resp.Body = entry.Data

		return nil
	}
}

// CacheInvalidationInterceptor drops stale cache entries after successful
// mutations: the mutated resource and its parent collection.
func CacheInvalidationInterceptor(manager *CacheManager) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		switch req.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		default:
			return nil
		}
		if resp.Error != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil
		}

		manager.InvalidatePath(ctx, req.Path)

		return nil
	}
}

// ConfigureCaching wires the standard caching interceptors into a chain:
// cache lookup and store, conditional requests, 304 handling, and
// post-mutation invalidation.
func ConfigureCaching(chain *InterceptorChain, manager *CacheManager, policy *CachingPolicy) {
	requestInterceptor, responseInterceptor := CacheInterceptor(manager, policy)
	chain.AddRequestInterceptor(requestInterceptor)
	chain.AddRequestInterceptor(ConditionalRequestInterceptor(manager))
	chain.AddResponseInterceptor(NotModifiedInterceptor(manager))
	chain.AddResponseInterceptor(responseInterceptor)
	chain.AddResponseInterceptor(CacheInvalidationInterceptor(manager))
}
