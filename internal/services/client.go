package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/mympctl/internal/shared"
	"golang.org/x/time/rate"
)

// Response is the outcome of one JSON-RPC call: a raw result or an error.
type Response struct {
	Result json.RawMessage
	Err    error
}

// Decode unmarshals the result into v, or returns the call error.
func (r Response) Decode(v any) error {
	if r.Err != nil {
		return r.Err
	}
	if v == nil || len(r.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Result, v); err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}
	return nil
}

// Requester issues a backend call without blocking. fn is invoked exactly once.
type Requester interface {
	Request(method string, params any, fn func(Response))
}

// Caller issues a backend call and waits for it.
type Caller interface {
	Call(ctx context.Context, method string, params, result any) error
}

// BackendError is an error object returned by myMPD.
type BackendError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

func (e *BackendError) Error() string {
	if len(e.Data) == 0 {
		return fmt.Sprintf("backend error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("backend error %d: %s %v", e.Code, e.Message, e.Data)
}

// Unwrap lets callers match any backend error with [shared.ErrBackend].
func (e *BackendError) Unwrap() error {
	return shared.ErrBackend
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *BackendError   `json:"error"`
}

// Client speaks myMPD's JSON-RPC 2.0 API over HTTP. Every call is posted to
// {base}/api/{partition} and throttled by a shared rate limiter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
	timeout    time.Duration
	nextID     atomic.Int64

	mu        sync.RWMutex
	partition string

	// Deliver runs completions of [Client.Request]. It defaults to calling them on the
	// request goroutine; an event loop replaces it to get completions back on its own thread.
	Deliver func(func())
}

// NewClient builds a client from the server section of the config.
// A nil httpClient uses [http.DefaultClient]; a nil logger discards output.
func NewClient(cfg shared.ServerConfig, httpClient *http.Client, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	partition := cfg.Partition
	if partition == "" {
		partition = "default"
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Client{
		baseURL:    cfg.URL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
		timeout:    cfg.Timeout(),
		partition:  partition,
		Deliver:    func(f func()) { f() },
	}
}

// Partition returns the partition requests are addressed to.
func (c *Client) Partition() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.partition
}

// SetPartition addresses later requests to name.
func (c *Client) SetPartition(name string) {
	c.mu.Lock()
	c.partition = name
	c.mu.Unlock()
}

func (c *Client) endpoint() string {
	return c.baseURL + "/api/" + url.PathEscape(c.Partition())
}

// Call posts method with params and decodes the result into result, which may be nil.
func (c *Client) Call(ctx context.Context, method string, params, result any) error {
	raw, err := c.call(ctx, method, params)
	return Response{Result: raw, Err: err}.Decode(result)
}

// Request runs the call on its own goroutine and hands the response to fn through Deliver.
// There is no cancellation; fn must tolerate arriving after the caller lost interest.
func (c *Client) Request(method string, params any, fn func(Response)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		raw, err := c.call(ctx, method, params)
		resp := Response{Result: raw, Err: err}
		c.Deliver(func() { fn(resp) })
	}()
}

func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	if params == nil {
		params = struct{}{}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrTimeout, method, err)
	}

	id := c.nextID.Add(1)
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", shared.ErrTimeout, method)
		}
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrAPIRequest, method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}

	c.logger.Debug("rpc", "method", method, "id", id, "status", resp.StatusCode, "elapsed", time.Since(start))

	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return nil, fmt.Errorf("%w: %s", shared.ErrServiceUnavailable, method)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: %s: status %d", shared.ErrAPIRequest, method, resp.StatusCode)
	}

	var rpc rpcResponse
	if err := json.Unmarshal(data, &rpc); err != nil {
		return nil, fmt.Errorf("%w: %s: malformed response: %v", shared.ErrAPIRequest, method, err)
	}
	if rpc.Error != nil {
		return nil, rpc.Error
	}
	return rpc.Result, nil
}
