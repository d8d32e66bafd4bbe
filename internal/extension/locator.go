package extension

import (
	"log/slog"
	"sync"
)

// DefaultModuleName is the short name of the extension module the bridge
// integrates with.
const DefaultModuleName = "TOR_Core"

// Catalog lists the modules currently loaded by the host.
type Catalog interface {
	LoadedModules() []*Module
}

// StaticCatalog is a fixed module list.
type StaticCatalog []*Module

// LoadedModules implements Catalog.
func (c StaticCatalog) LoadedModules() []*Module {
	return c
}

// CatalogFunc adapts a function to Catalog.
type CatalogFunc func() []*Module

// LoadedModules implements Catalog.
func (f CatalogFunc) LoadedModules() []*Module {
	return f()
}

// Locator finds extension modules by short name.
//
// Results, including misses, are cached for the lifetime of the Locator and
// never invalidated.
type Locator struct {
	catalog Catalog
	logger  *slog.Logger

	mu    sync.Mutex
	cache map[string]*Module
}

// LocatorOption configures a Locator.
type LocatorOption func(*Locator)

// WithLocatorLogger sets the logger used for resolution messages.
func WithLocatorLogger(l *slog.Logger) LocatorOption {
	return func(loc *Locator) {
		loc.logger = l
	}
}

// NewLocator creates a Locator over catalog.
func NewLocator(catalog Catalog, opts ...LocatorOption) *Locator {
	l := &Locator{
		catalog: catalog,
		logger:  slog.Default(),
		cache:   make(map[string]*Module),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate returns the loaded module whose Name equals shortName exactly, or
// nil. The first answer for a name is final.
func (l *Locator) Locate(shortName string) *Module {
	l.mu.Lock()
	defer l.mu.Unlock()

	if m, ok := l.cache[shortName]; ok {
		return m
	}
	m := l.scan(shortName)
	l.cache[shortName] = m
	if m == nil {
		l.logger.Info("extension module not loaded", "module", shortName)
	} else {
		l.logger.Info("extension module located", "module", shortName, "version", m.Version)
	}
	return m
}

// Resolved reports whether shortName has been looked up already.
func (l *Locator) Resolved(shortName string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.cache[shortName]
	return ok
}

func (l *Locator) scan(shortName string) (found *Module) {
	if l.catalog == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			l.logger.Warn("module catalog failed", "module", shortName, "panic", r)
			found = nil
		}
	}()
	for _, m := range l.catalog.LoadedModules() {
		if m != nil && m.Name == shortName {
			return m
		}
	}
	return nil
}
