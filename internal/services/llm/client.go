package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	defaultEndpoint       = "https://openrouter.ai/api/v1/chat/completions"
	defaultHTTPTimeout    = 15 * time.Second
	defaultRetryAttempts  = 5
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryMaxDelay  = 10 * time.Second
)

// Config captures the runtime settings required to talk to the classifier
// model.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string

	Referer        string
	Title          string
	TimeoutSeconds int
}

// Client speaks the OpenRouter chat completion protocol.
type Client struct {
	cfg        Config
	httpClient *http.Client
	sleeper    func(time.Duration)

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
}

// Option customizes a Client beyond what Config carries.
type Option func(*Client)

// WithHTTPClient substitutes the transport used for API calls. A nil client
// keeps the default.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRetryMaxAttempts caps how many times a request is tried (default 5).
func WithRetryMaxAttempts(n int) Option {
	return func(c *Client) { c.retryMaxAttempts = n }
}

// WithRetryBackoff sets the local backoff base and ceiling.
func WithRetryBackoff(base, ceiling time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = base
		c.retryMaxDelay = ceiling
	}
}

// WithSleeper replaces how retry waits happen. Tests use this to avoid real
// sleeps.
func WithSleeper(fn func(time.Duration)) Option {
	return func(c *Client) { c.sleeper = fn }
}

// NewClient constructs a client from the supplied configuration. Fields are
// trimmed; an empty base URL falls back to the OpenRouter endpoint.
func NewClient(cfg Config, opts ...Option) *Client {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Referer = strings.TrimSpace(cfg.Referer)
	cfg.Title = strings.TrimSpace(cfg.Title)
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultEndpoint
	}

	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	client := &Client{
		cfg:              cfg,
		httpClient:       &http.Client{Timeout: timeout},
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}
	return client
}

// Configured reports whether the client has enough settings to issue
// requests. Callers fall back to the rule engine when it does not.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.APIKey != "" && c.cfg.Model != ""
}

// CompleteJSON sends the system and user prompts and returns the raw JSON
// payload the model produced.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	systemPrompt = strings.TrimSpace(systemPrompt)
	userPrompt = strings.TrimSpace(userPrompt)
	switch {
	case systemPrompt == "":
		return "", errors.New("llm complete: system prompt required")
	case userPrompt == "":
		return "", errors.New("llm complete: user prompt required")
	case c.cfg.APIKey == "":
		return "", errors.New("llm complete: api key required")
	}
	return c.complete(ctx, c.request(systemPrompt, userPrompt), "llm complete")
}

// HealthCheck issues a minimal round trip to verify the API key and model
// are usable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.cfg.APIKey == "" {
		return errors.New("llm health: api key required")
	}
	req := c.request("You must respond with JSON only.", `Respond with {"ok":true}`)
	content, err := c.complete(ctx, req, "llm health")
	if err != nil {
		return err
	}
	var probe struct {
		OK bool `json:"ok"`
	}
	switch err := DecodeLLMJSON(content, &probe); {
	case err != nil:
		return fmt.Errorf("llm health: parse payload: %w", err)
	case !probe.OK:
		return errors.New("llm health: unexpected response")
	}
	return nil
}

func (c *Client) request(systemPrompt, userPrompt string) chatRequest {
	return chatRequest{
		Model: c.cfg.Model,
		Messages: []chatTurn{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    0,
		ResponseFormat: map[string]string{"type": "json_object"},
	}
}

// complete drives the attempt loop. Server Retry-After hints take precedence
// over the local backoff; both are clamped to the configured ceiling.
func (c *Client) complete(ctx context.Context, req chatRequest, op string) (string, error) {
	attempts := c.retryMaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		content, err := c.exchange(ctx, req, op)
		if err == nil {
			return content, nil
		}
		if attempt >= attempts {
			return "", err
		}
		wait, retry := retryable(err)
		if !retry || ctx == nil || ctx.Err() != nil {
			return "", err
		}
		if wait < 0 {
			wait = c.backoff(attempt)
		}
		if err := c.sleep(ctx, c.clamp(wait)); err != nil {
			return "", err
		}
	}
}

// exchange performs one request and classifies an empty answer, which some
// providers return with a 200 status, as a retryable failure.
func (c *Client) exchange(ctx context.Context, req chatRequest, op string) (string, error) {
	decoded, raw, err := c.post(ctx, req)
	if err != nil {
		return "", err
	}
	content, finish := decoded.content()
	if content != "" {
		return content, nil
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("%s: empty choices", op)
	}
	return "", &emptyContentError{
		Op:           op,
		FinishReason: finish,
		Refusal:      decoded.refusal(),
		Snippet:      snippet(string(raw)),
	}
}

// retryable reports whether err deserves another attempt, along with any
// server-mandated wait. A negative wait means no mandate; the caller applies
// its own backoff.
func retryable(err error) (time.Duration, bool) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	var empty *emptyContentError
	if errors.As(err, &empty) {
		return -1, true
	}

	var status *statusError
	if errors.As(err, &status) {
		switch {
		case status.code == http.StatusRequestTimeout,
			status.code == http.StatusTooManyRequests,
			status.code >= http.StatusInternalServerError:
			if status.retryAfter > 0 {
				return status.retryAfter, true
			}
			return -1, true
		}
		return 0, false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return -1, true
	}
	return 0, false
}

// backoff doubles the base delay per attempt up to the ceiling.
func (c *Client) backoff(attempt int) time.Duration {
	delay := c.retryBaseDelay
	if delay <= 0 {
		return 0
	}
	limit := c.ceiling()
	for i := 1; i < attempt && delay < limit; i++ {
		delay *= 2
	}
	return delay
}

func (c *Client) ceiling() time.Duration {
	if c != nil && c.retryMaxDelay > 0 {
		return c.retryMaxDelay
	}
	return defaultRetryMaxDelay
}

func (c *Client) clamp(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	if limit := c.ceiling(); delay > limit {
		return limit
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) timeout() time.Duration {
	if c == nil || c.httpClient == nil || c.httpClient.Timeout <= 0 {
		return defaultHTTPTimeout
	}
	return c.httpClient.Timeout
}
