package commerce

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

	"storefront/internal/metrics"
	repo "storefront/internal/repository"
)

const (
	apiPrefix          = "/api/content"
	tokenHeader        = "x-app-token"
	errorBodyReadLimit = 4096
)

var errBaseURLRequired = errors.New("commerce api url is required")

// Client talks to the headless-commerce REST API (catalog, users, forms, orders, payments).
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	langCode   string
	metrics    *metrics.Metrics
}

// Option configures optional client behavior.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLangCode(lang string) Option {
	return func(c *Client) {
		if strings.TrimSpace(lang) != "" {
			c.langCode = strings.TrimSpace(lang)
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds a client for the project at baseURL, authenticated with the project token.
func NewClient(baseURL string, token string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("invalid commerce api url: %w", err)
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    trimmed,
		token:      token,
		langCode:   "en_US",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

type request struct {
	op          string
	method      string
	path        string
	query       url.Values
	accessToken string
	body        any
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	u := c.baseURL + apiPrefix + req.path
	q := req.query
	if q == nil {
		q = url.Values{}
	}
	if q.Get("langCode") == "" {
		q.Set("langCode", c.langCode)
	}
	u += "?" + q.Encode()

	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", req.op, err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", req.op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set(tokenHeader, c.token)
	}
	if req.accessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.accessToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.ObserveCommerce(req.op, 0, time.Since(start))
		return fmt.Errorf("%s: %w", req.op, err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveCommerce(req.op, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeUpstreamError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", req.op, err)
	}
	return nil
}

func decodeUpstreamError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))

	var payload struct {
		Message    json.RawMessage `json:"message"`
		StatusCode int             `json:"statusCode"`
	}
	msg := http.StatusText(resp.StatusCode)
	if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Message) > 0 {
		msg = flattenMessage(payload.Message)
	}
	return &repo.UpstreamError{StatusCode: resp.StatusCode, Message: msg}
}

// message は文字列か文字列配列
func flattenMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return string(raw)
}
