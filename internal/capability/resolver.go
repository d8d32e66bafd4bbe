package capability

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/roach88/necroqol/internal/extension"
)

var (
	// ErrNotFound means no candidate member exists or none could be bound.
	ErrNotFound = errors.New("capability not found")

	// ErrUnusable means candidates ran but none returned an accepted value.
	ErrUnusable = errors.New("capability returned no usable value")
)

// InvocationError is a fault raised by an extension member: a panic or a
// non-nil trailing error result.
type InvocationError struct {
	Member string
	Panic  any
	Err    error
}

func (e *InvocationError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("invoke %s: panic: %v", e.Member, e.Panic)
	}
	return fmt.Sprintf("invoke %s: %v", e.Member, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Resolved is a capability bound to a concrete member.
type Resolved struct {
	Query  Query
	Member *extension.Member
	Static bool
	Params []extension.Param
}

// Name returns the qualified member name.
func (r *Resolved) Name() string {
	if r == nil || r.Member == nil {
		return ""
	}
	if r.Member.Owner != nil {
		return r.Member.Owner.FullName + "." + r.Member.Name
	}
	return r.Member.Name
}

// Result is the outcome of a successful invocation.
type Result struct {
	Resolved *Resolved
	// Value is the first result, nil for members without results.
	Value any
}

// Accept decides whether an invocation result is usable.
type Accept func(value any) bool

// AcceptAny accepts every result, including none.
func AcceptAny(any) bool { return true }

// Resolver resolves queries against a module and caches the outcome.
//
// Cache entries are never invalidated. A structural miss (type absent, no
// candidate binds) is cached as a miss. Invocation faults and unusable
// results are not cached, so a transiently unusable candidate is tried again
// on the next call.
type Resolver struct {
	logger *slog.Logger

	mu       sync.Mutex
	resolved map[string]*Resolved
	invoked  map[string]*Resolved
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverLogger sets the logger.
func WithResolverLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver creates an empty resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		logger:   slog.Default(),
		resolved: make(map[string]*Resolved),
		invoked:  make(map[string]*Resolved),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func cacheKey(mod *extension.Module, q Query) string {
	return mod.Name + "@" + mod.Version + "#" + q.Key()
}

// Resolve returns the first candidate whose arguments bind from pool, or nil.
func (r *Resolver) Resolve(mod *extension.Module, q Query, pool Pool) *Resolved {
	if mod == nil {
		return nil
	}
	key := cacheKey(mod, q)

	r.mu.Lock()
	defer r.mu.Unlock()

	if res, ok := r.resolved[key]; ok {
		return res
	}
	var found *Resolved
	for _, c := range r.candidates(mod, q) {
		if res, _, _, err := prepare(c, q, pool); err == nil {
			found = res
			break
		}
	}
	r.resolved[key] = found
	if found == nil {
		r.logMiss(mod, q)
	} else {
		r.logger.Debug("capability resolved", "query", q.ID, "member", found.Name())
	}
	return found
}

// Invoke resolves and calls the capability. It walks candidates until one
// binds, runs without fault and is accepted. The winner is cached and reused
// on later calls without walking again.
//
// The error is ErrNotFound when nothing could be bound, ErrUnusable when
// results were rejected, or the last *InvocationError when every bindable
// candidate faulted.
func (r *Resolver) Invoke(mod *extension.Module, q Query, pool Pool, accept Accept) (Result, error) {
	if mod == nil {
		return Result{}, ErrNotFound
	}
	if accept == nil {
		accept = AcceptAny
	}
	key := cacheKey(mod, q)

	r.mu.Lock()
	winner, cached := r.invoked[key]
	r.mu.Unlock()

	if cached {
		if winner == nil {
			return Result{}, ErrNotFound
		}
		return r.call(winner, q, pool, accept)
	}

	var lastErr error
	bound := false
	for _, c := range r.candidates(mod, q) {
		res, recv, args, err := prepare(c, q, pool)
		if err != nil {
			continue
		}
		bound = true
		value, err := invoke(c, recv, args)
		if err != nil {
			r.logger.Warn("capability faulted", "query", q.ID, "member", res.Name(), "error", err)
			lastErr = err
			continue
		}
		if !accept(value) {
			r.logger.Info("capability result unusable", "query", q.ID, "member", res.Name(), "type", fmt.Sprintf("%T", value))
			lastErr = ErrUnusable
			continue
		}
		r.mu.Lock()
		r.invoked[key] = res
		r.mu.Unlock()
		return Result{Resolved: res, Value: value}, nil
	}
	if !bound {
		r.mu.Lock()
		r.invoked[key] = nil
		r.mu.Unlock()
		r.logMiss(mod, q)
		return Result{}, ErrNotFound
	}
	return Result{}, lastErr
}

func (r *Resolver) call(res *Resolved, q Query, pool Pool, accept Accept) (Result, error) {
	_, recv, args, err := prepare(res.Member, q, pool)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", res.Name(), err)
	}
	value, err := invoke(res.Member, recv, args)
	if err != nil {
		r.logger.Warn("capability faulted", "query", q.ID, "member", res.Name(), "error", err)
		return Result{}, err
	}
	if !accept(value) {
		return Result{}, ErrUnusable
	}
	return Result{Resolved: res, Value: value}, nil
}

// candidates returns members in preference order: exact static, exact
// instance, then heuristic matches in descriptor order.
func (r *Resolver) candidates(mod *extension.Module, q Query) []*extension.Member {
	t, ok := mod.Lookup(q.TypeName)
	if !ok {
		return nil
	}
	var exactStatic, exactInstance, heuristic []*extension.Member
	for _, m := range t.Members(q.Category) {
		switch {
		case q.isExact(m.Name) && m.Static:
			exactStatic = append(exactStatic, m)
		case q.isExact(m.Name):
			exactInstance = append(exactInstance, m)
		case q.tokensMatch(m.Name) && q.arityMatches(len(m.Params())):
			heuristic = append(heuristic, m)
		}
	}
	out := make([]*extension.Member, 0, len(exactStatic)+len(exactInstance)+len(heuristic))
	out = append(out, exactStatic...)
	out = append(out, exactInstance...)
	return append(out, heuristic...)
}

func prepare(m *extension.Member, q Query, pool Pool) (*Resolved, reflect.Value, []reflect.Value, error) {
	params := m.Params()
	args, err := Bind(params, pool, q.hintsFor(params))
	if err != nil {
		return nil, reflect.Value{}, nil, err
	}
	var recv reflect.Value
	if !m.Static {
		inst, ok := m.Owner.NewInstance()
		if !ok {
			return nil, reflect.Value{}, nil, fmt.Errorf("%s: no instance factory: %w", m.Name, ErrUnbindable)
		}
		recv = inst
	}
	return &Resolved{Query: q, Member: m, Static: m.Static, Params: params}, recv, args, nil
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// invoke calls m, converting panics and trailing errors into *InvocationError.
func invoke(m *extension.Member, recv reflect.Value, args []reflect.Value) (value any, err error) {
	defer func() {
		if p := recover(); p != nil {
			value, err = nil, &InvocationError{Member: m.Name, Panic: p}
		}
	}()
	out := m.Invoke(recv, args)
	if n := len(out); n > 0 && out[n-1].Type() == errorType {
		if !out[n-1].IsNil() {
			return nil, &InvocationError{Member: m.Name, Err: out[n-1].Interface().(error)}
		}
		out = out[:n-1]
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}

// logMiss reports a structural miss and, when the type exists, the member
// whose name is closest to the expected exact name.
func (r *Resolver) logMiss(mod *extension.Module, q Query) {
	t, ok := mod.Lookup(q.TypeName)
	if !ok {
		r.logger.Info("capability type not found", "query", q.ID, "type", q.TypeName, "module", mod.Name)
		return
	}
	if len(q.ExactNames) == 0 {
		r.logger.Info("capability not found", "query", q.ID, "type", q.TypeName)
		return
	}
	want := q.ExactNames[0]
	nearest, best := "", -1
	for _, m := range t.AllMembers() {
		d := levenshtein.ComputeDistance(want, m.Name)
		if best < 0 || d < best {
			nearest, best = m.Name, d
		}
	}
	r.logger.Info("capability not found", "query", q.ID, "type", q.TypeName, "want", want, "nearest", nearest, "distance", best)
}
