// Package bridge turns chained query calls into parameterized SQL and runs
// them over HTTP against a shared main database or a tenant's dedicated one.
package bridge

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultChunkSize is the number of INSERT statements sent per restore batch.
const DefaultChunkSize = 50

// DefaultTimeout bounds one round-trip to the remote endpoint.
const DefaultTimeout = 15 * time.Second

// Options configures a Client.
type Options struct {
	// Main is the shared database holding the tenant registry.
	Main Endpoint

	// Executor overrides the HTTP executor, mainly for tests.
	Executor Executor

	// Timeout applies to the default HTTP executor.
	Timeout time.Duration

	// ChunkSize is the restore batch size.
	ChunkSize int

	Logger *zap.Logger
}

// state is shared by a Client and every client derived from it.
type state struct {
	main      Endpoint
	exec      Executor
	chunkSize int
	logger    *zap.Logger

	mu     sync.RWMutex
	active *Endpoint

	ready    sync.Map
	inflight singleflight.Group
}

// Client is the entry point for building and running queries.
//
// A Client returned by New routes through the process-wide active
// connection set by ConnectToStore. Clients returned by WithStore and
// WithMain are bound to one connection and ignore that setting, which is
// what request handlers serving several tenants at once should use.
type Client struct {
	state   *state
	binding *Endpoint
}

// New creates a Client for the given main database.
func New(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	exec := opts.Executor
	if exec == nil {
		exec = NewHTTPExecutor(timeout, logger)
	}
	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	return &Client{
		state: &state{
			main:      opts.Main,
			exec:      exec,
			chunkSize: chunk,
			logger:    logger,
		},
	}
}

// Main returns the main endpoint.
func (c *Client) Main() Endpoint {
	return c.state.main
}

// ConnectToStore makes endpoint the active dedicated database for every
// table except store_profiles and bootstraps it in the background.
// Bootstrap failures are logged only.
func (c *Client) ConnectToStore(url, token string) {
	endpoint := Endpoint{URL: url, Token: token}
	c.state.mu.Lock()
	c.state.active = &endpoint
	c.state.mu.Unlock()

	go func() {
		if err := c.state.ensureSchema(context.Background(), endpoint, false); err != nil {
			c.state.logger.Error("dedicated database bootstrap failed",
				zap.String("endpoint", endpoint.URL),
				zap.Error(err))
		}
	}()
}

// DisconnectStore routes everything back to the main database.
func (c *Client) DisconnectStore() {
	c.state.mu.Lock()
	c.state.active = nil
	c.state.mu.Unlock()
}

// WithStore returns a client bound to a dedicated database. A zero endpoint
// binds to the main database.
func (c *Client) WithStore(endpoint Endpoint) *Client {
	if endpoint.IsZero() {
		return c.WithMain()
	}
	return &Client{state: c.state, binding: &endpoint}
}

// WithMain returns a client bound to the main database.
func (c *Client) WithMain() *Client {
	main := c.state.main
	return &Client{state: c.state, binding: &main}
}

// Target resolves the endpoint a statement against table is sent to.
func (c *Client) Target(table string) Endpoint {
	if table == TableStoreProfiles {
		return c.state.main
	}
	if c.binding != nil {
		return *c.binding
	}
	c.state.mu.RLock()
	defer c.state.mu.RUnlock()
	if c.state.active != nil {
		return *c.state.active
	}
	return c.state.main
}

// EnsureSchema bootstraps endpoint once for the life of the process.
func (c *Client) EnsureSchema(ctx context.Context, endpoint Endpoint) error {
	return c.state.ensureSchema(ctx, endpoint, c.state.isMain(endpoint))
}

// Batch runs statements as one request against the endpoint table routes to.
func (c *Client) Batch(ctx context.Context, table string, statements ...Statement) ([]ResultSet, error) {
	return c.execute(ctx, table, statements)
}

func (c *Client) execute(ctx context.Context, table string, statements []Statement) ([]ResultSet, error) {
	endpoint := c.Target(table)
	if c.state.isMain(endpoint) {
		if err := c.state.ensureSchema(ctx, endpoint, true); err != nil {
			return nil, err
		}
	} else if err := c.state.ensureSchema(ctx, endpoint, false); err != nil {
		c.state.logger.Warn("dedicated database bootstrap failed, continuing",
			zap.String("endpoint", endpoint.URL),
			zap.String("table", table),
			zap.Error(err))
	}
	return c.state.exec.Execute(ctx, endpoint, statements)
}

func (c *Client) executeOne(ctx context.Context, table string, st Statement) (ResultSet, error) {
	results, err := c.execute(ctx, table, []Statement{st})
	if err != nil {
		return ResultSet{}, err
	}
	return results[0], nil
}

func (s *state) isMain(endpoint Endpoint) bool {
	a, errA := NormalizeURL(endpoint.URL)
	b, errB := NormalizeURL(s.main.URL)
	return errA == nil && errB == nil && a == b
}
