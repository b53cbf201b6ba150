package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"spacetraveling/cmd/internal/logger"
	"spacetraveling/cmd/internal/trace"
)

// Config 는 아웃바운드 HTTP 클라이언트 공통 설정이다.
type Config struct {
	Timeout time.Duration
}

// loggingRoundTripper 는 모든 아웃바운드 호출을 로깅하고 trace 헤더를 붙인다.
type loggingRoundTripper struct {
	inner http.RoundTripper
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID, spanID := trace.NextSpanID(req.Context())
	// RoundTrippers must not mutate the caller's request
	req = req.Clone(req.Context())
	req.Header.Set(trace.HeaderRequestID, requestID)
	req.Header.Set(trace.HeaderSpanID, spanID)

	resp, err := l.inner.RoundTrip(req)
	fields := logger.Fields{
		"method":     req.Method,
		"host":       req.URL.Host,
		"path":       req.URL.Path,
		"query":      req.URL.RawQuery,
		"duration":   time.Since(start).String(),
		"request_id": requestID,
		"span_id":    spanID,
	}
	if err != nil {
		fields["error"] = err.Error()
		logger.ErrorWithFields("httpclient request failed", fields)
		return nil, err
	}

	fields["status"] = resp.StatusCode
	logger.DebugWithFields("httpclient request success", fields)
	return resp, nil
}

// BaseClient 는 http.Client 와 baseURL 을 묶어 요청 생성을 돕는다.
type BaseClient struct {
	HTTPClient *http.Client
	BaseURL    string
}

func NewBaseClient(baseURL string, cfg Config) *BaseClient {
	return NewBaseClientWithClient(New(cfg), baseURL)
}

// NewBaseClientWithClient wraps an existing client; nil means the default one.
func NewBaseClientWithClient(httpClient *http.Client, baseURL string) *BaseClient {
	if httpClient == nil {
		httpClient = New(Config{})
	}
	return &BaseClient{
		HTTPClient: httpClient,
		BaseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// NewRequest joins relPath onto BaseURL. Query parameters go in query, never in relPath.
func (c *BaseClient) NewRequest(ctx context.Context, method, relPath string, query url.Values, body io.Reader) (*http.Request, error) {
	if strings.Contains(relPath, "?") {
		return nil, fmt.Errorf("httpclient: relPath must not contain a query string: %s", relPath)
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	if relPath != "" {
		base.Path = path.Join(base.Path, relPath)
	}
	if query != nil {
		base.RawQuery = query.Encode()
	}
	return http.NewRequestWithContext(ctx, method, base.String(), body)
}

// SameOrigin reports whether u shares scheme and host with BaseURL.
func (c *BaseClient) SameOrigin(u *url.URL) bool {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(base.Scheme, u.Scheme) && strings.EqualFold(base.Host, u.Host)
}

func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	return c.HTTPClient.Do(req)
}

// New builds an http.Client with request logging. A zero Timeout means 10s.
func New(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{inner: http.DefaultTransport},
	}
}
