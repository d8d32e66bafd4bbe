package harness

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/roach88/necroqol/internal/behavior"
	"github.com/roach88/necroqol/internal/bridge"
	"github.com/roach88/necroqol/internal/campaign"
	"github.com/roach88/necroqol/internal/config"
	"github.com/roach88/necroqol/internal/diag"
	"github.com/roach88/necroqol/internal/engine"
	"github.com/roach88/necroqol/internal/extension"
	"github.com/roach88/necroqol/internal/extension/sample"
	"github.com/roach88/necroqol/internal/patch"
	"github.com/roach88/necroqol/internal/roster"
	"github.com/roach88/necroqol/internal/store"
	"github.com/roach88/necroqol/internal/testutil"
	"github.com/roach88/necroqol/internal/ui"
)

// Harness holds the world of one scenario run.
type Harness struct {
	scenario    *Scenario
	logger      *slog.Logger
	clock       *testutil.StepClock
	base        config.Config
	journalPath string

	store    *store.Store
	runtime  *sample.Runtime
	menus    *patch.MenuRegistry
	behavior *behavior.Behavior
	recorder *ui.Recorder

	hero  *campaign.Hero
	party *campaign.Party
	enemy *campaign.Party

	playerAgent *campaign.Agent
}

// Option configures a run.
type Option func(*Harness)

// WithLogger routes run logs to l. Runs are silent by default.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// WithConfig sets the configuration scenario overrides are applied to.
// Runs start from config.Default() otherwise.
func WithConfig(cfg config.Config) Option {
	return func(h *Harness) {
		h.base = cfg
	}
}

// WithJournalPath keeps the run journal in the SQLite database at path
// instead of a fresh in-memory one.
func WithJournalPath(path string) Option {
	return func(h *Harness) {
		h.journalPath = path
	}
}

// Run executes a scenario and returns the result.
//
// Each run uses a fresh in-memory journal unless WithJournalPath is given. Assertion failures are reported
// in the result; an error means the run itself could not be set up.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	h := &Harness{
		scenario: scenario,
		logger:   diag.Discard(),
		clock:    testutil.NewStepClock(),
		base:     config.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}

	path := h.journalPath
	if path == "" {
		path = store.MemoryPath
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer st.Close()
	h.store = st

	if err := h.setup(); err != nil {
		return nil, err
	}

	result := NewResult()
	result.Session = h.behavior.Session()
	result.Module = "none"
	if scenario.Module != nil {
		mod := h.runtime.Module()
		result.Module = mod.Name + " " + mod.Version
	}

	for _, step := range scenario.Steps {
		h.execute(step, result)
	}

	h.collect(result)
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) setup() error {
	s := h.scenario

	h.hero = &campaign.Hero{StringID: "main_hero", Name: "Player", Clan: &campaign.Clan{StringID: "player_clan"}, Culture: "mousillon"}
	h.party = &campaign.Party{StringID: "main_party", Name: "Main Party", Leader: h.hero, Troops: s.Party.Troops.Stacks()}
	if s.Party.SizeLimit != nil {
		h.party.SizeLimit = &campaign.ExplainedNumber{ResultNumber: *s.Party.SizeLimit}
	}
	if s.Party.AtGraveyard {
		h.party.CurrentSettlement = &campaign.Settlement{StringID: "graveyard_1", Name: "Graveyard", IsGraveyard: true}
	}
	h.enemy = &campaign.Party{StringID: "enemy_party", Leader: &campaign.Hero{StringID: "enemy_lord"}}
	h.playerAgent = &campaign.Agent{Index: 0, Human: true, PlayerControlled: true, Hero: h.hero, Team: &campaign.Team{Side: "attacker"}}

	h.menus = patch.NewMenuRegistry()
	var catalog extension.StaticCatalog
	if m := s.Module; m != nil {
		shape, err := sample.ParseShape(m.Shape)
		if err != nil {
			return err
		}
		h.runtime = sample.New(sample.Options{
			Name:        m.Name,
			Version:     m.Version,
			Shape:       shape,
			PerCasualty: m.PerCasualty,
			IntGrant:    m.IntGrant,
			NoGrant:     m.NoGrant,
			NoRaise:     m.NoRaise,
			Raised:      m.Raised.Stacks(),
		})
		catalog = append(catalog, h.runtime.Module())
		h.runtime.RegisterMenus(h.menus)
	}

	cfg := h.base
	if c := s.Config; c.KillBonus != nil {
		cfg.KillBonus = *c.KillBonus
	}
	if c := s.Config; c.CasualtyRate != nil {
		cfg.CasualtyRate = *c.CasualtyRate
	}
	if s.Config.CountIncapacitated {
		cfg.CountIncapacitated = true
	}
	if s.Config.Matcher != "" {
		cfg.PatchMatcher = s.Config.Matcher
	}
	if s.Config.PollLimit > 0 {
		cfg.PollLimit = s.Config.PollLimit
	}

	loc := extension.NewLocator(catalog, extension.WithLocatorLogger(h.logger))
	br, err := bridge.New(loc, bridge.WithLogger(h.logger), bridge.WithModuleName(cfg.ExtensionModule))
	if err != nil {
		return fmt.Errorf("create bridge: %w", err)
	}

	h.recorder = ui.NewRecorder(policy(s.Dialog), h.logger)
	opts := []behavior.Option{
		behavior.WithLogger(h.logger),
		behavior.WithEconomy(cfg.Economy()),
		behavior.WithKillMode(cfg.KillMode()),
		behavior.WithPresenter(h.recorder),
		behavior.WithStore(h.store),
		behavior.WithTokenGenerator(testutil.NewFixedTokenGenerator(s.SessionToken)),
		behavior.WithScheduler(engine.NewScheduler(engine.WithLogger(h.logger), engine.WithPollLimit(cfg.PollLimit))),
	}
	if cfg.PatchMatcher != "" {
		m, err := patch.CompileExprMatcher(cfg.PatchMatcher)
		if err != nil {
			return err
		}
		opts = append(opts, behavior.WithMatcher(m))
	}
	h.behavior, err = behavior.New(br, opts...)
	if err != nil {
		return fmt.Errorf("create behavior: %w", err)
	}
	h.behavior.OnSessionStart(behavior.Host{Player: h.hero, MainParty: h.party, Menus: h.menus})
	return nil
}

func policy(d DialogSpec) ui.Policy {
	switch d.Policy {
	case PolicyRejectAll:
		return ui.RejectAll
	case PolicyKeep:
		return ui.Keep(d.Keep...)
	default:
		return ui.KeepAll
	}
}

func (h *Harness) execute(step Step, result *Result) {
	n := h.clock.Step()
	switch {
	case step.Tick != nil:
		h.behavior.Tick(*step.Tick)
		result.AddTrace(n, "tick", fmt.Sprintf("dt=%s pending=%d", formatFloat(*step.Tick), h.behavior.Scheduler().Pending()))

	case step.Kill != nil:
		victim, killer, state := h.kill(*step.Kill)
		counted := h.behavior.OnAgentRemoved(victim, killer, state)
		result.AddTrace(n, "kill", fmt.Sprintf("by=%s state=%s counted=%t", step.Kill.By, state, counted))

	case step.MissionEnded:
		kills := h.behavior.OnMissionEnded()
		result.AddTrace(n, "mission_ended", fmt.Sprintf("player_kills=%d", kills))

	case step.Encounter != nil:
		gain, granted := h.behavior.OnEncounterEnded(h.encounter(*step.Encounter))
		detail := fmt.Sprintf("id=%s granted=%t", step.Encounter.ID, granted)
		if granted {
			detail += " gain=" + gain.String()
		}
		result.AddTrace(n, "encounter", detail)

	case step.MenuRaise:
		detail := "dispatched"
		if err := h.menus.Dispatch(sample.GraveyardMenu, sample.RaiseOption, h.party); err != nil {
			detail = "error=" + err.Error()
		}
		result.AddTrace(n, "menu_raise", detail+" party="+roster.Snapshot(h.party).String())

	case step.Raise:
		opened := h.behavior.RaiseAtSettlement()
		result.AddTrace(n, "raise", fmt.Sprintf("opened=%t party=%s", opened, roster.Snapshot(h.party)))
	}
}

func (h *Harness) kill(k KillStep) (victim, killer *campaign.Agent, state campaign.AgentState) {
	state, _ = parseState(k.State)

	switch k.By {
	case "player":
		killer = h.playerAgent
	case "hero":
		killer = &campaign.Agent{Index: 2, Human: true, Hero: h.hero, Team: h.playerAgent.Team}
	default:
		killer = &campaign.Agent{Index: 3, Human: true, Team: h.playerAgent.Team}
	}
	if k.Mounted {
		killer = &campaign.Agent{Index: killer.Index + 100, Mount: true, Rider: killer, Team: killer.Team}
	}

	victim = &campaign.Agent{Index: 10, Human: true, Team: &campaign.Team{Side: "defender"}}
	switch k.Victim {
	case "ally":
		victim.Team = h.playerAgent.Team
	case "animal":
		victim.Human = false
	}
	return victim, killer, state
}

func parseState(s string) (campaign.AgentState, error) {
	switch s {
	case "", "killed":
		return campaign.AgentKilled, nil
	case "unconscious":
		return campaign.AgentUnconscious, nil
	case "routed":
		return campaign.AgentRouted, nil
	default:
		return campaign.AgentActive, fmt.Errorf("unknown agent state %q", s)
	}
}

func (h *Harness) encounter(e EncounterStep) *campaign.Encounter {
	attacker := &campaign.Side{Casualties: casualties(e.Attacker)}
	if !e.Bystander {
		attacker.Parties = []*campaign.Party{h.party}
	}
	return &campaign.Encounter{
		ID:       e.ID,
		Attacker: attacker,
		Defender: &campaign.Side{Parties: []*campaign.Party{h.enemy}, Casualties: casualties(e.Defender)},
	}
}

func casualties(r roster.Roster) []campaign.Casualty {
	out := make([]campaign.Casualty, 0, len(r))
	for _, e := range r {
		out = append(out, campaign.Casualty{Kind: e.Kind, Killed: e.Count})
	}
	return out
}

func (h *Harness) collect(result *Result) {
	result.Toasts = append(result.Toasts, h.recorder.Toasts()...)
	result.Party = roster.Snapshot(h.party)
	result.Banked = h.behavior.Banked()
	result.Installed = h.behavior.Installer().State() == patch.StateInstalled
	if h.runtime != nil {
		result.Balance = h.runtime.Balance(h.hero)
	}
	entries, err := h.store.ReadEntries(context.Background(), result.Session, "")
	if err != nil {
		result.AddError("read journal: " + err.Error())
		return
	}
	result.Journal = entries
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
