package checkout

import (
	"context"
	"log/slog"
)

// Option configures a Checkout coordinator.
type Option func(*Checkout) error

// Storer is the minimal store interface held by the Checkout
// coordinator. It covers lifecycle operations only. The full composite
// interface (store.Store) is used in subsystem layers that don't create
// import cycles. Implementations satisfy store.Store which embeds all
// subsystem stores.
type Storer interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// serviceRunner is an internal interface for background service
// lifecycle (the announcement feed).
type serviceRunner interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// hookEmitter is an internal interface for lifecycle events emitted at
// shutdown.
type hookEmitter interface {
	EmitShutdown(ctx context.Context)
}

// Checkout is the central coordinator for checkout sessions, the
// storefront proxy surface, and the announcement feed.
//
// Create one with New() and functional options. The Checkout holds
// references to subsystem components via internal interfaces to avoid
// import cycles.
type Checkout struct {
	config   Config
	logger   *slog.Logger
	store    Storer
	hooks    hookEmitter
	announce serviceRunner

	// started tracks whether Start has been called.
	started bool
}

// New creates a new Checkout with the given options.
func New(opts ...Option) (*Checkout, error) {
	c := &Checkout{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Logger returns the coordinator's logger.
func (c *Checkout) Logger() *slog.Logger { return c.logger }

// Store returns the coordinator's store.
func (c *Checkout) Store() Storer { return c.store }

// Config returns a copy of the coordinator's configuration.
func (c *Checkout) Config() Config { return c.config }

// SetAnnounce sets the announcement service (called by the wiring layer).
func (c *Checkout) SetAnnounce(s serviceRunner) { c.announce = s }

// SetHooks sets the hook emitter (called by the wiring layer).
func (c *Checkout) SetHooks(h hookEmitter) { c.hooks = h }

// Start begins background services.
func (c *Checkout) Start(ctx context.Context) error {
	if c.store == nil {
		return ErrNoStore
	}
	if c.announce != nil {
		if err := c.announce.Start(ctx); err != nil {
			return err
		}
	}
	c.started = true
	return nil
}

// Stop gracefully shuts down the coordinator.
func (c *Checkout) Stop(ctx context.Context) error {
	if c.announce != nil && c.started {
		if err := c.announce.Stop(ctx); err != nil {
			c.logger.Error("announce stop error", "error", err)
		}
	}
	if c.hooks != nil {
		c.hooks.EmitShutdown(ctx)
	}
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Checkout) error {
		c.config = cfg
		return nil
	}
}

// WithBackendURL sets the base URL of the upstream commerce API.
func WithBackendURL(u string) Option {
	return func(c *Checkout) error {
		c.config.BackendURL = u
		return nil
	}
}

// WithAutoSave toggles persistence of session state after every
// transition.
func WithAutoSave(on bool) Option {
	return func(c *Checkout) error {
		c.config.AutoSave = on
		return nil
	}
}

// WithLogger sets the structured logger for the coordinator.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checkout) error {
		c.logger = l
		return nil
	}
}

// WithStore sets the persistence backend for the coordinator.
// The store must implement Storer at minimum; typically it will be a
// store.Store which embeds all subsystem store interfaces.
func WithStore(s Storer) Option {
	return func(c *Checkout) error {
		c.store = s
		return nil
	}
}
