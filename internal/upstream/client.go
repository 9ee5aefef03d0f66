// Package upstream talks to the travel backend that owns bookings, pricing and payments.
package upstream

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"travelweb/internal/domain"
	"travelweb/internal/utils"

	"github.com/andybalholm/brotli"
	"github.com/gabriel-vasile/mimetype"
)

// maxBodyBytes caps relayed response bodies.
const maxBodyBytes = 20 << 20

// errBodyTooLarge is returned instead of relaying a truncated body.
var errBodyTooLarge = errors.New("response body melebihi batas")

// forwardedHeaders are copied from the browser request when set.
var forwardedHeaders = []string{"Accept", "Accept-Language", "Content-Type", "User-Agent", "Idempotency-Key"}

type Client struct {
	BaseURL string
	HTTP    *http.Client
	// MaxBody caps response bodies after decoding; 0 means maxBodyBytes.
	MaxBody int64
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: timeout,
			// backend redirects are relayed, not followed
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Request describes one forwarded call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// RawQuery is sent byte for byte and takes precedence over Query.
	RawQuery string
	Body     []byte
	// Authorization is sent verbatim when not empty (e.g. "Bearer abc").
	Authorization string
	// Header holds browser headers; only forwardedHeaders and Extra are copied.
	Header    http.Header
	Extra     []string
	RequestID string
	ClientIP  string
}

// Response is a fully read backend response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// ContentType returns the backend content type.
func (r *Response) ContentType() string {
	return r.Header.Get("Content-Type")
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

func (c *Client) endpoint(path, rawQuery string, query url.Values) string {
	u := c.BaseURL + "/" + strings.TrimLeft(path, "/")
	switch {
	case rawQuery != "":
		u += "?" + rawQuery
	case len(query) > 0:
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) bodyLimit() int64 {
	if c.MaxBody > 0 {
		return c.MaxBody
	}
	return maxBodyBytes
}

// readLimited reads at most limit bytes and fails instead of truncating.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > limit {
		return nil, errBodyTooLarge
	}
	return raw, nil
}

// Do forwards req and reads the whole response. Transport and read failures
// are returned as domain.UpstreamError; non-2xx responses are not errors.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.endpoint(req.Path, req.RawQuery, req.Query), body)
	if err != nil {
		return nil, domain.UpstreamError{Op: "build request", Err: err}
	}

	for _, h := range forwardedHeaders {
		if v := req.Header.Get(h); v != "" {
			httpReq.Header.Set(h, v)
		}
	}
	for _, h := range req.Extra {
		if v := req.Header.Get(h); v != "" {
			httpReq.Header.Set(h, v)
		}
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	if len(req.Body) > 0 && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Authorization != "" {
		httpReq.Header.Set("Authorization", req.Authorization)
	}
	if req.RequestID != "" {
		httpReq.Header.Set("X-Request-ID", req.RequestID)
	}
	if req.ClientIP != "" {
		httpReq.Header.Set("X-Forwarded-For", req.ClientIP)
	}
	// ask for compression we can decode ourselves
	httpReq.Header.Set("Accept-Encoding", "gzip, br")

	start := time.Now()
	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		utils.LogEvent(req.RequestID, "upstream", "do", fmt.Sprintf("%s %s failed: %v", method, req.Path, err))
		return nil, domain.UpstreamError{Op: method + " " + req.Path, Err: err}
	}
	defer res.Body.Close()

	limit := c.bodyLimit()
	raw, err := readLimited(res.Body, limit)
	if err != nil {
		utils.LogEvent(req.RequestID, "upstream", "read", fmt.Sprintf("%s %s status=%d: %v", method, req.Path, res.StatusCode, err))
		return nil, domain.UpstreamError{Op: "read body", Status: res.StatusCode, Err: err}
	}

	header := res.Header.Clone()
	decoded, err := decodeBody(header.Get("Content-Encoding"), raw, limit)
	if err != nil {
		return nil, domain.UpstreamError{Op: "decode body", Status: res.StatusCode, Err: err}
	}
	if decoded != nil {
		raw = decoded
		header.Del("Content-Encoding")
		header.Del("Content-Length")
	}

	if header.Get("Content-Type") == "" && len(raw) > 0 {
		header.Set("Content-Type", mimetype.Detect(raw).String())
	}

	utils.LogEvent(req.RequestID, "upstream", "do", fmt.Sprintf("%s %s status=%d bytes=%d latency_ms=%d",
		method, req.Path, res.StatusCode, len(raw), time.Since(start).Milliseconds()))

	return &Response{Status: res.StatusCode, Header: header, Body: raw}, nil
}

// decodeBody returns nil when the encoding is identity or unknown.
func decodeBody(encoding string, raw []byte, limit int64) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "gzip":
		if len(raw) == 0 {
			return raw, nil
		}
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		defer zr.Close()
		out, err := readLimited(zr, limit)
		if err != nil {
			return nil, fmt.Errorf("reading gzip content: %w", err)
		}
		return out, nil
	case "br":
		out, err := readLimited(brotli.NewReader(bytes.NewReader(raw)), limit)
		if err != nil {
			return nil, fmt.Errorf("reading brotli content: %w", err)
		}
		return out, nil
	default:
		return nil, nil
	}
}

// Ping checks the backend health endpoint.
func (c *Client) Ping(ctx context.Context, requestID string) (*Response, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: "/health", RequestID: requestID})
}

// PathEscape joins escaped segments into a backend path.
func PathEscape(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, url.PathEscape(s))
	}
	return "/" + strings.Join(parts, "/")
}
