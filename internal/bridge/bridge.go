package bridge

import (
	"fmt"
	"log/slog"

	"github.com/roach88/necroqol/internal/capability"
	"github.com/roach88/necroqol/internal/extension"
)

// DarkEnergyTokens identify the dark energy resource in keyed results.
var DarkEnergyTokens = []string{"dark", "energy"}

// DarkEnergyLabel is the subject label of dark energy amounts.
const DarkEnergyLabel = "dark-energy"

// Bridge runs capability queries against the extension module.
type Bridge struct {
	locator    *extension.Locator
	resolver   *capability.Resolver
	catalog    *capability.Catalog
	moduleName string
	logger     *slog.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = l
	}
}

// WithModuleName overrides the extension module's short name.
func WithModuleName(name string) Option {
	return func(b *Bridge) {
		b.moduleName = name
	}
}

// WithResolver shares a resolver and its cache.
func WithResolver(r *capability.Resolver) Option {
	return func(b *Bridge) {
		b.resolver = r
	}
}

// WithCatalog replaces the embedded capability catalog.
func WithCatalog(c *capability.Catalog) Option {
	return func(b *Bridge) {
		b.catalog = c
	}
}

// New creates a bridge over locator.
func New(locator *extension.Locator, opts ...Option) (*Bridge, error) {
	b := &Bridge{
		locator:    locator,
		moduleName: extension.DefaultModuleName,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.resolver == nil {
		b.resolver = capability.NewResolver(capability.WithResolverLogger(b.logger))
	}
	if b.catalog == nil {
		c, err := capability.DefaultCatalog()
		if err != nil {
			return nil, fmt.Errorf("load capability catalog: %w", err)
		}
		b.catalog = c
	}
	return b, nil
}

// ModuleName returns the short name of the extension module.
func (b *Bridge) ModuleName() string {
	return b.moduleName
}

// Module returns the located module, or nil when it is not loaded.
func (b *Bridge) Module() (mod *extension.Module) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("module lookup panicked", "panic", r)
			mod = nil
		}
	}()
	if b.locator == nil {
		return nil
	}
	return b.locator.Locate(b.moduleName)
}

// Available reports whether the module is loaded.
func (b *Bridge) Available() bool {
	return b.Module() != nil
}

// invoke runs catalog query id with pool. accept may be nil.
func (b *Bridge) invoke(op, id string, pool capability.Pool, accept capability.Accept) (capability.Result, error) {
	mod := b.Module()
	if mod == nil {
		return capability.Result{}, NewFault(CodeAbsent, op, "extension module not loaded: "+b.moduleName, nil)
	}
	q, ok := b.catalog.Query(id)
	if !ok {
		return capability.Result{}, NewFault(CodeInvariant, op, "unknown capability query "+id, nil)
	}
	res, err := b.resolver.Invoke(mod, q, pool, accept)
	if err != nil {
		return capability.Result{}, classify(op, err)
	}
	b.logger.Debug("capability invoked", "op", op, "member", res.Resolved.Name())
	return res, nil
}

// guard turns a panic in a public method into an invariant fault.
func (b *Bridge) guard(op string, err *error) {
	if r := recover(); r != nil {
		b.logger.Warn("bridge operation panicked", "op", op, "panic", r)
		*err = NewFault(CodeInvariant, op, fmt.Sprintf("panic: %v", r), nil)
	}
}
