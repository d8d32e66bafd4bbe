package patch

import (
	"fmt"
	"log/slog"
	"sync"
)

// DefaultOwner identifies callbacks installed by this package.
const DefaultOwner = "necroqol.patch"

// State is the installer state. It only moves from Unresolved to Installed.
type State int

const (
	StateUnresolved State = iota
	StateInstalled
)

func (s State) String() string {
	if s == StateInstalled {
		return "installed"
	}
	return "unresolved"
}

// Interceptor adds behavior around an original callback.
//
// Observe runs before the original and may capture state; its result is
// handed to Intercept, which runs after the original returned without fault.
type Interceptor interface {
	Observe(args any) any
	Intercept(args any, observation any)
}

// Funcs adapts two functions to Interceptor. Either may be nil.
type Funcs struct {
	ObserveFn   func(args any) any
	InterceptFn func(args any, observation any)
}

// Observe implements Interceptor.
func (f Funcs) Observe(args any) any {
	if f.ObserveFn == nil {
		return nil
	}
	return f.ObserveFn(args)
}

// Intercept implements Interceptor.
func (f Funcs) Intercept(args any, observation any) {
	if f.InterceptFn != nil {
		f.InterceptFn(args, observation)
	}
}

// Record is the captured original of one action.
type Record struct {
	ActionID  string
	Original  Callback
	Installed bool
}

// Installer replaces one matching action callback with a wrapper.
type Installer struct {
	owner  string
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	records map[string]*Record
	active  string
	lastErr error
}

// InstallerOption configures an Installer.
type InstallerOption func(*Installer)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) InstallerOption {
	return func(i *Installer) {
		i.logger = l
	}
}

// WithOwner sets the owner stamped on wrappers; callbacks with this owner
// are never matched.
func WithOwner(owner string) InstallerOption {
	return func(i *Installer) {
		i.owner = owner
	}
}

// NewInstaller creates an unresolved installer.
func NewInstaller(opts ...InstallerOption) *Installer {
	i := &Installer{
		owner:   DefaultOwner,
		logger:  slog.Default(),
		records: make(map[string]*Record),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// State returns the current state.
func (i *Installer) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// Record returns a copy of the record for an action key ("group/action").
func (i *Installer) Record(key string) (Record, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	r, ok := i.records[key]
	if !ok {
		return Record{}, false
	}
	return *r, true
}

// LastError returns the fault of the most recent failed attempt, nil when
// the last attempt simply found nothing.
func (i *Installer) LastError() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.lastErr
}

// Installed returns the record of the installed action.
func (i *Installer) Installed() (Record, bool) {
	i.mu.Lock()
	key := i.active
	i.mu.Unlock()
	if key == "" {
		return Record{}, false
	}
	return i.Record(key)
}

// TryInstall scans reg for the first action whose callback matches and is
// not owned by the installer, and replaces it with a wrapper around the
// original. It returns true once installed, including on every later call,
// and false while nothing matches or when the scan faults.
func (i *Installer) TryInstall(reg Registry, m Matcher, ic Interceptor) (installed bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state == StateInstalled {
		return true
	}
	if reg == nil || m == nil || ic == nil {
		return false
	}
	i.lastErr = nil
	defer func() {
		if r := recover(); r != nil {
			i.logger.Warn("patch install faulted", "panic", r)
			i.lastErr = fmt.Errorf("scan: panic: %v", r)
			installed = false
		}
	}()

	for _, g := range reg.Groups() {
		if g == nil {
			continue
		}
		for _, a := range g.Actions() {
			if a == nil {
				continue
			}
			cb := a.Callback()
			if !cb.Valid() || cb.Owner == i.owner {
				continue
			}
			t := Target{Group: g.ID(), Action: a.ID(), Owner: cb.Owner, Name: cb.Name}
			if !m.Match(t) {
				continue
			}
			key := g.ID() + "/" + a.ID()
			rec, ok := i.records[key]
			if !ok {
				rec = &Record{ActionID: key, Original: cb}
				i.records[key] = rec
			}
			if rec.Installed {
				continue
			}
			if err := a.SetCallback(i.wrap(rec, ic)); err != nil {
				i.logger.Warn("patch install failed", "action", key, "error", err)
				i.lastErr = fmt.Errorf("replace %s: %w", key, err)
				return false
			}
			rec.Installed = true
			i.state = StateInstalled
			i.active = key
			i.logger.Info("patch installed", "action", key, "original", rec.Original.String())
			return true
		}
	}
	return false
}

func (i *Installer) wrap(rec *Record, ic Interceptor) Callback {
	original := rec.Original
	key := rec.ActionID
	logger := i.logger
	return Callback{
		Owner: i.owner,
		Name:  "wrap:" + original.Name,
		Fn: func(args any) error {
			var obs any
			observed := guard(func() error {
				obs = ic.Observe(args)
				return nil
			})
			if observed != nil {
				logger.Warn("interceptor observe faulted", "action", key, "error", observed)
			}
			if err := guard(func() error { return original.Fn(args) }); err != nil {
				logger.Warn("patched action faulted", "action", key, "error", err)
				return nil
			}
			if observed != nil {
				return nil
			}
			if err := guard(func() error {
				ic.Intercept(args, obs)
				return nil
			}); err != nil {
				logger.Warn("interceptor faulted", "action", key, "error", err)
			}
			return nil
		},
	}
}

// guard runs fn and turns a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
