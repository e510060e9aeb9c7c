package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/hireportal/internal/client/models"
	"github.com/dmitrijs2005/hireportal/internal/common"
	"github.com/dmitrijs2005/hireportal/internal/logging"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10
)

// HTTPClient is the net/http implementation of Client.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger

	// retries bounds extra attempts for idempotent reads that fail with ErrUnavailable.
	retries    uint64
	retryDelay time.Duration
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithLogger attaches a logger.
func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// WithRetries enables retrying idempotent reads with exponential backoff.
func WithRetries(n uint64, base time.Duration) Option {
	return func(c *HTTPClient) {
		c.retries = n
		c.retryDelay = base
	}
}

// NewHTTPClient creates a client for the Identity Service rooted at baseURL,
// e.g. "http://localhost:8000/api/v1".
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *HTTPClient) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Tokens.Valid() {
		return nil, fmt.Errorf("%w: login response without token pair", ErrMalformedResponse)
	}
	return &resp, nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Tokens.Valid() {
		return nil, fmt.Errorf("%w: register response without token pair", ErrMalformedResponse)
	}
	return &resp, nil
}

// Me resolves the user owning accessToken. Transient failures are retried
// when WithRetries was given.
func (c *HTTPClient) Me(ctx context.Context, accessToken string) (*models.User, error) {
	var user models.User
	call := func(ctx context.Context) error {
		err := c.do(ctx, http.MethodGet, "/auth/me", accessToken, nil, &user)
		if errors.Is(err, ErrUnavailable) && ctx.Err() == nil {
			return retry.RetryableError(err)
		}
		return err
	}

	var err error
	if c.retries == 0 {
		err = call(ctx)
	} else {
		b := retry.WithMaxRetries(c.retries, retry.NewExponential(c.retryDelay))
		err = retry.Do(ctx, b, call)
	}
	if err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, fmt.Errorf("%w: user without id", ErrMalformedResponse)
	}
	return &user, nil
}

func (c *HTTPClient) UpdateMe(ctx context.Context, accessToken string, upd models.UserUpdate) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPut, "/auth/me", accessToken, upd, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	var pair models.TokenPair
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", "", models.RefreshRequest{RefreshToken: refreshToken}, &pair); err != nil {
		return nil, err
	}
	if !pair.Valid() {
		return nil, fmt.Errorf("%w: refresh response without token pair", ErrMalformedResponse)
	}
	return &pair, nil
}

func (c *HTTPClient) Logout(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", accessToken, nil, nil)
}

// do performs one round trip. A nil out skips decoding of the response body.
func (c *HTTPClient) do(ctx context.Context, method, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set(common.AuthorizationHeader, "Bearer "+bearer)
	}

	log := c.log.With("method", method, "path", path, "request_id", requestID)
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "identity request failed", "error", err)
		return c.mapError(err)
	}
	defer resp.Body.Close()

	log.Debug(ctx, "identity request done", "status", resp.StatusCode, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{StatusCode: resp.StatusCode, Detail: parseDetail(raw)}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrMalformedResponse, method, path, err)
	}
	return nil
}

// mapError classifies transport failures. Caller cancellation is passed through.
func (c *HTTPClient) mapError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// parseDetail reads the "detail" member of an error body. It is either a
// plain string or a list of validation items with a "msg" member each.
func parseDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
