package behavior

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/roach88/necroqol/internal/bridge"
	"github.com/roach88/necroqol/internal/campaign"
	"github.com/roach88/necroqol/internal/coerce"
	"github.com/roach88/necroqol/internal/economy"
	"github.com/roach88/necroqol/internal/engine"
	"github.com/roach88/necroqol/internal/killtally"
	"github.com/roach88/necroqol/internal/patch"
	"github.com/roach88/necroqol/internal/store"
	"github.com/roach88/necroqol/internal/ui"
)

// PatchPoller is the scheduler name of the patch installation poller.
const PatchPoller = "patch-install"

// DefaultMatcherExpr selects the extension module's raise-dead menu callback.
const DefaultMatcherExpr = `OwnerHas("graveyard") && NameHas("raise")`

// Journal entry kinds.
const (
	KindModule       = "module"
	KindPatch        = "patch"
	KindFault        = "fault"
	KindBattleGain   = "battle-gain"
	KindGrant        = "grant"
	KindRaise        = "raise"
	KindCommit       = "commit"
	KindMissionEnded = "mission-ended"
)

// Host is what the host hands over at session start.
type Host struct {
	Player    *campaign.Hero
	MainParty *campaign.Party
	// Menus is the host's UI action registry; nil when there is no UI.
	Menus patch.Registry
}

// Behavior wires the bridge, the fallback economy, the kill tally and the
// keep/sacrifice flow to the host lifecycle.
type Behavior struct {
	bridge    *bridge.Bridge
	economy   *economy.Engine
	tally     *killtally.Tally
	installer *patch.Installer
	matcher   patch.Matcher
	presenter ui.Presenter
	scheduler *engine.Scheduler
	tokens    engine.TokenGenerator
	store     *store.Store
	mode      killtally.Mode
	logger    *slog.Logger

	mu          sync.Mutex
	host        Host
	session     string
	journal     *store.Journal
	banked      float64
	sacrifices  int
	patchFaults int
}

// Option configures a Behavior.
type Option func(*Behavior)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Behavior) {
		b.logger = l
	}
}

// WithEconomy replaces the fallback economy engine.
func WithEconomy(e *economy.Engine) Option {
	return func(b *Behavior) {
		b.economy = e
	}
}

// WithKillMode sets which removal states count as player kills.
func WithKillMode(m killtally.Mode) Option {
	return func(b *Behavior) {
		b.mode = m
	}
}

// WithMatcher sets the matcher selecting the action to intercept.
func WithMatcher(m patch.Matcher) Option {
	return func(b *Behavior) {
		b.matcher = m
	}
}

// WithPresenter sets the UI presenter.
func WithPresenter(p ui.Presenter) Option {
	return func(b *Behavior) {
		b.presenter = p
	}
}

// WithScheduler shares a scheduler.
func WithScheduler(s *engine.Scheduler) Option {
	return func(b *Behavior) {
		b.scheduler = s
	}
}

// WithTokenGenerator sets the session token generator.
func WithTokenGenerator(g engine.TokenGenerator) Option {
	return func(b *Behavior) {
		b.tokens = g
	}
}

// WithStore enables the diagnostic journal.
func WithStore(s *store.Store) Option {
	return func(b *Behavior) {
		b.store = s
	}
}

// New creates a behavior over br.
func New(br *bridge.Bridge, opts ...Option) (*Behavior, error) {
	if br == nil {
		return nil, errors.New("behavior: nil bridge")
	}
	b := &Behavior{
		bridge: br,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.economy == nil {
		b.economy = economy.NewEngine()
	}
	b.tally = killtally.New(nil, killtally.WithMode(b.mode), killtally.WithLogger(b.logger))
	if b.matcher == nil {
		m, err := patch.CompileExprMatcher(DefaultMatcherExpr)
		if err != nil {
			return nil, fmt.Errorf("default matcher: %w", err)
		}
		b.matcher = m
	}
	if b.presenter == nil {
		b.presenter = ui.NewRecorder(ui.KeepAll, b.logger)
	}
	if b.scheduler == nil {
		b.scheduler = engine.NewScheduler(engine.WithLogger(b.logger))
	}
	if b.tokens == nil {
		b.tokens = engine.UUIDv7Generator{}
	}
	b.installer = patch.NewInstaller(patch.WithLogger(b.logger))
	return b, nil
}

// Session returns the current session token, empty before OnSessionStart.
func (b *Behavior) Session() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.session
}

// Tally returns the player kill tally.
func (b *Behavior) Tally() *killtally.Tally {
	return b.tally
}

// Installer returns the patch installer.
func (b *Behavior) Installer() *patch.Installer {
	return b.installer
}

// Scheduler returns the tick scheduler.
func (b *Behavior) Scheduler() *engine.Scheduler {
	return b.scheduler
}

// Banked returns dark energy earned while no grant capability was usable.
func (b *Behavior) Banked() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.banked
}

// OnSessionStart binds the behavior to the host's player and party, opens
// the session journal and schedules patch installation.
func (b *Behavior) OnSessionStart(host Host) {
	defer b.guard("session-start")

	token := b.tokens.Generate()
	available := b.bridge.Available()

	b.mu.Lock()
	b.host = host
	b.session = token
	b.mu.Unlock()
	b.tally.SetPlayer(host.Player)

	j := store.NewJournal(context.Background(), b.store, store.Session{
		Token:       token,
		Module:      b.bridge.ModuleName(),
		Available:   available,
		StartedTick: b.scheduler.Clock().Current(),
	}, b.logger)
	b.mu.Lock()
	b.journal = j
	b.mu.Unlock()

	fields := map[string]any{"module": b.bridge.ModuleName(), "available": available}
	if mod := b.bridge.Module(); mod != nil {
		fields["version"] = mod.Version
	}
	if available {
		if res, err := b.bridge.DarkEnergyResource(); err == nil {
			fields["resource"] = coerce.TextualID(res)
		} else {
			b.logger.Info("dark energy resource not in catalog", "error", err)
		}
	}
	b.record(KindModule, fields)
	b.logger.Info("session started", "session", token, "module", b.bridge.ModuleName(), "available", available)

	if host.Menus == nil {
		return
	}
	err := b.scheduler.Register(PatchPoller, func(tick int64) bool {
		return b.tryInstall(tick)
	})
	if err != nil {
		b.logger.Debug("patch poller already scheduled", "error", err)
	}
}

// Tick advances the scheduler by dt seconds.
func (b *Behavior) Tick(dt float64) {
	defer b.guard("tick")
	b.scheduler.Tick(dt)
}

func (b *Behavior) tryInstall(tick int64) bool {
	b.mu.Lock()
	menus := b.host.Menus
	b.mu.Unlock()

	ok := b.installer.TryInstall(menus, b.matcher, b.interceptor())
	if ok {
		if rec, found := b.installer.Installed(); found {
			b.record(KindPatch, map[string]any{
				"action":   rec.ActionID,
				"original": rec.Original.String(),
				"tick":     tick,
			})
		}
		return true
	}
	if err := b.installer.LastError(); err != nil {
		b.mu.Lock()
		b.patchFaults++
		first := b.patchFaults == 1
		b.mu.Unlock()
		if first {
			b.fault(bridge.NewFault(bridge.CodePatchInstall, PatchPoller, "install attempt faulted", err))
		}
	}
	return false
}

// grant hands amount to the player through the bridge, banking it when the
// module cannot take it. A successful grant journals the balance read back
// from the module.
func (b *Behavior) grant(reason string, amount coerce.Amount) coerce.Amount {
	if amount.Value <= 0 {
		return amount
	}
	b.mu.Lock()
	player := b.host.Player
	b.mu.Unlock()

	fields := map[string]any{
		"reason":     reason,
		"value":      amount.Value,
		"provenance": string(amount.Provenance),
	}
	err := b.bridge.GrantResource(player, amount)
	if err != nil {
		b.mu.Lock()
		b.banked += amount.Value
		b.mu.Unlock()
		fields["banked"] = true
		b.logFault("grant", err)
	} else if bal, err := b.bridge.ResourceValue(player); err == nil {
		fields["balance"] = bal.Value
	} else {
		b.logger.Info("dark energy balance unreadable", "error", err)
	}
	b.record(KindGrant, fields)
	b.presenter.Toast(fmt.Sprintf("+%d dark energy (%s)", amount.Units(), reason))
	return amount
}

// logFault logs a bridge error: absence at Info, anything else at Warn.
func (b *Behavior) logFault(op string, err error) {
	if bridge.IsAbsent(err) {
		b.logger.Info("bridge unavailable, using fallback", "op", op, "error", err)
		return
	}
	b.fault(err)
}

func (b *Behavior) fault(err error) {
	b.logger.Warn("bridge fault", "error", err)
	var f *bridge.Fault
	if errors.As(err, &f) {
		b.record(KindFault, map[string]any{"code": string(f.Code), "op": f.Op, "message": f.Message})
		return
	}
	b.record(KindFault, map[string]any{"message": err.Error()})
}

func (b *Behavior) record(kind string, fields map[string]any) {
	b.mu.Lock()
	j := b.journal
	b.mu.Unlock()
	j.Record(context.Background(), kind, fields)
}

// guard recovers a panic escaping a public entry point.
func (b *Behavior) guard(op string) {
	if r := recover(); r != nil {
		b.logger.Warn("behavior panicked", "op", op, "panic", r)
	}
}
