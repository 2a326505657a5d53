// Package generator wraps the external generation service behind a credential-gated client.
//
// The client owns the API key and the backend built from it. Every backend failure leaves
// the package normalized to ErrInvalidCredential or ErrServiceUnavailable.
package generator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Request is one generation call. A nil ThinkingBudget is left out of the backend request.
type Request struct {
	Prompt         string
	Temperature    float32
	ThinkingBudget *int32
}

// Backend performs a single generation call against a concrete service.
type Backend interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// BackendFactory builds a Backend bound to a credential.
type BackendFactory func(ctx context.Context, credential string) (Backend, error)

// Budget returns a pointer to a thinking budget value.
func Budget(n int32) *int32 {
	return &n
}

type Client struct {
	factory BackendFactory
	limiter *rate.Limiter
	logger  *zap.Logger

	mu         sync.RWMutex
	credential string
	backend    Backend
}

type Option func(*Client)

// WithRateLimit caps outgoing calls at perMinute; zero or less disables the cap.
func WithRateLimit(perMinute float64) Option {
	return func(c *Client) {
		if perMinute <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perMinute/60), 1)
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewClient(factory BackendFactory, opts ...Option) *Client {
	c := &Client{
		factory: factory,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize replaces any existing backend with one built for credential.
// On failure the client is left uninitialized.
func (c *Client) Initialize(ctx context.Context, credential string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.credential = ""
	c.backend = nil

	if strings.TrimSpace(credential) == "" {
		c.logger.Warn("initialize called without an API key")
		return ErrMissingCredential
	}

	backend, err := c.build(ctx, credential)
	if err != nil {
		c.logger.Error("failed to initialize generation backend", zap.Error(err))
		return fmt.Errorf("failed to initialize generation client: %w", err)
	}

	c.credential = credential
	c.backend = backend
	return nil
}

func (c *Client) build(ctx context.Context, credential string) (b Backend, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("backend construction panicked: %v", r)
		}
	}()
	if c.factory == nil {
		return nil, fmt.Errorf("no backend factory configured")
	}
	b, err = c.factory(ctx, credential)
	if err == nil && b == nil {
		err = fmt.Errorf("backend factory returned no backend")
	}
	return b, err
}

// Initialized reports whether a backend is ready.
func (c *Client) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.backend != nil
}

// Credential returns the key the current backend was built with.
func (c *Client) Credential() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.credential
}

// Reset drops the credential and the backend.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.credential = ""
	c.backend = nil
}

// Generate sends prompt to the backend and returns the trimmed text.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float32, thinkingBudget *int32) (string, error) {
	c.mu.RLock()
	backend := c.backend
	c.mu.RUnlock()

	if backend == nil {
		return "", ErrNotInitialized
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", Classify(fmt.Errorf("rate limit wait: %w", err))
		}
	}

	text, err := backend.Generate(ctx, Request{
		Prompt:         prompt,
		Temperature:    temperature,
		ThinkingBudget: thinkingBudget,
	})
	if err != nil {
		classified := Classify(err)
		c.logger.Warn("generation call failed",
			zap.String("backend", backend.Name()),
			zap.Error(err),
			zap.Bool("invalid_credential", IsInvalidCredential(classified)))
		return "", classified
	}

	return strings.TrimSpace(text), nil
}

// Verify issues the cheapest possible call to confirm the service accepts the key.
func (c *Client) Verify(ctx context.Context) error {
	_, err := c.Generate(ctx, "hi", 0, Budget(0))
	return err
}
