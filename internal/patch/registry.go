package patch

import (
	"fmt"
	"sync"
)

// Callback is a handler bound to an action, with the identity of the code
// that declared it.
type Callback struct {
	Owner string
	Name  string
	Fn    func(args any) error
}

// Valid reports whether the callback can be called.
func (c Callback) Valid() bool {
	return c.Fn != nil
}

func (c Callback) String() string {
	return c.Owner + "." + c.Name
}

// Action is one registered UI action.
type Action interface {
	ID() string
	Callback() Callback
	SetCallback(Callback) error
}

// Group is a set of actions, e.g. one game menu.
type Group interface {
	ID() string
	Actions() []Action
}

// Registry enumerates the action groups the host currently knows.
type Registry interface {
	Groups() []Group
}

// MenuRegistry is an in-memory Registry of menus and their options.
type MenuRegistry struct {
	mu    sync.Mutex
	menus []*Menu
}

// NewMenuRegistry creates an empty registry.
func NewMenuRegistry() *MenuRegistry {
	return &MenuRegistry{}
}

// AddMenu registers a menu, or returns the existing one with the same id.
func (r *MenuRegistry) AddMenu(id string) *Menu {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.menus {
		if m.id == id {
			return m
		}
	}
	m := &Menu{id: id}
	r.menus = append(r.menus, m)
	return m
}

// Groups implements Registry.
func (r *MenuRegistry) Groups() []Group {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Group, len(r.menus))
	for i, m := range r.menus {
		out[i] = m
	}
	return out
}

// Dispatch runs the callback bound to menu/option, as the host does when the
// player picks it.
func (r *MenuRegistry) Dispatch(menuID, optionID string, args any) error {
	r.mu.Lock()
	var opt *Option
	for _, m := range r.menus {
		if m.id == menuID {
			opt = m.option(optionID)
			break
		}
	}
	r.mu.Unlock()
	if opt == nil {
		return fmt.Errorf("dispatch %s/%s: no such option", menuID, optionID)
	}
	cb := opt.Callback()
	if !cb.Valid() {
		return fmt.Errorf("dispatch %s/%s: no callback", menuID, optionID)
	}
	return cb.Fn(args)
}

// Menu is a Group of options.
type Menu struct {
	id string

	mu      sync.Mutex
	options []*Option
}

// ID implements Group.
func (m *Menu) ID() string { return m.id }

// AddOption appends an option bound to cb.
func (m *Menu) AddOption(id string, cb Callback) *Option {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := &Option{id: id, cb: cb}
	m.options = append(m.options, o)
	return o
}

// Actions implements Group.
func (m *Menu) Actions() []Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Action, len(m.options))
	for i, o := range m.options {
		out[i] = o
	}
	return out
}

func (m *Menu) option(id string) *Option {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.options {
		if o.id == id {
			return o
		}
	}
	return nil
}

// Option is a menu Action.
type Option struct {
	id string

	mu sync.Mutex
	cb Callback
}

// ID implements Action.
func (o *Option) ID() string { return o.id }

// Callback implements Action.
func (o *Option) Callback() Callback {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cb
}

// SetCallback implements Action.
func (o *Option) SetCallback(cb Callback) error {
	if !cb.Valid() {
		return fmt.Errorf("option %s: nil callback", o.id)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cb = cb
	return nil
}
