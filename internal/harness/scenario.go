package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/necroqol/internal/extension/sample"
	"github.com/roach88/necroqol/internal/roster"
)

// Scenario defines one end-to-end campaign run.
type Scenario struct {
	// Name uniquely identifies this scenario; it names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// SessionToken is the fixed session token. Empty means
	// "test-session-default".
	SessionToken string `yaml:"session_token,omitempty"`

	// Module configures the sample extension module. Nil means no module is
	// loaded.
	Module *ModuleSpec `yaml:"module,omitempty"`

	// Config overrides the economy and matcher defaults.
	Config ConfigSpec `yaml:"config,omitempty"`

	// Party configures the player's main party.
	Party PartySpec `yaml:"party,omitempty"`

	// Dialog decides how keep/sacrifice dialogs are answered.
	Dialog DialogSpec `yaml:"dialog,omitempty"`

	// Steps are the host lifecycle events, in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// ModuleSpec mirrors sample.Options.
type ModuleSpec struct {
	Name        string        `yaml:"name,omitempty"`
	Version     string        `yaml:"version,omitempty"`
	Shape       string        `yaml:"shape,omitempty"`
	PerCasualty float32       `yaml:"per_casualty,omitempty"`
	IntGrant    bool          `yaml:"int_grant,omitempty"`
	NoGrant     bool          `yaml:"no_grant,omitempty"`
	NoRaise     bool          `yaml:"no_raise,omitempty"`
	Raised      roster.Roster `yaml:"raised,omitempty"`
}

// ConfigSpec overrides behavior settings. Nil fields keep defaults.
type ConfigSpec struct {
	KillBonus          *float64 `yaml:"kill_bonus,omitempty"`
	CasualtyRate       *float64 `yaml:"casualty_rate,omitempty"`
	CountIncapacitated bool     `yaml:"count_incapacitated,omitempty"`
	Matcher            string   `yaml:"matcher,omitempty"`
	PollLimit          int      `yaml:"poll_limit,omitempty"`
}

// PartySpec configures the main party.
type PartySpec struct {
	// SizeLimit is the party size limit; nil means unknown (unbounded).
	SizeLimit   *float32      `yaml:"size_limit,omitempty"`
	AtGraveyard bool          `yaml:"at_graveyard,omitempty"`
	Troops      roster.Roster `yaml:"troops,omitempty"`
}

// Dialog policies.
const (
	PolicyKeepAll   = "keep_all"
	PolicyRejectAll = "reject_all"
	PolicyKeep      = "keep"
)

// DialogSpec answers keep/sacrifice dialogs.
type DialogSpec struct {
	// Policy is keep_all (default), reject_all or keep.
	Policy string `yaml:"policy,omitempty"`
	// Keep lists the entry ids kept by the keep policy.
	Keep []string `yaml:"keep,omitempty"`
}

// Step is one lifecycle event. Exactly one field is set.
type Step struct {
	Tick         *float64       `yaml:"tick,omitempty"`
	Kill         *KillStep      `yaml:"kill,omitempty"`
	MissionEnded bool           `yaml:"mission_ended,omitempty"`
	Encounter    *EncounterStep `yaml:"encounter,omitempty"`
	MenuRaise    bool           `yaml:"menu_raise,omitempty"`
	Raise        bool           `yaml:"raise,omitempty"`
}

// KillStep removes an agent from the running mission.
type KillStep struct {
	// By is player (the player-controlled agent), hero (an agent carrying the
	// player's hero identity) or troop.
	By string `yaml:"by"`
	// Mounted redirects the kill through the killer's mount.
	Mounted bool `yaml:"mounted,omitempty"`
	// Victim is enemy (default), ally or animal.
	Victim string `yaml:"victim,omitempty"`
	// State is killed (default), unconscious or routed.
	State string `yaml:"state,omitempty"`
}

// EncounterStep ends a map event between the main party and an enemy party.
type EncounterStep struct {
	ID string `yaml:"id"`
	// Bystander keeps the main party out of the encounter.
	Bystander bool          `yaml:"bystander,omitempty"`
	Attacker  roster.Roster `yaml:"attacker_casualties,omitempty"`
	Defender  roster.Roster `yaml:"defender_casualties,omitempty"`
}

// Assertion type constants.
const (
	AssertBalance       = "balance"
	AssertBanked        = "banked"
	AssertParty         = "party"
	AssertToastContains = "toast_contains"
	AssertJournalKinds  = "journal_kinds"
	AssertJournalCount  = "journal_count"
	AssertInstalled     = "installed"
)

// Assertion validates the final state.
type Assertion struct {
	Type string `yaml:"type"`

	// Value is the expected amount (balance, banked).
	Value *float64 `yaml:"value,omitempty"`

	// Troops is the expected roster (party).
	Troops roster.Roster `yaml:"troops,omitempty"`

	// Text is the expected toast substring (toast_contains).
	Text string `yaml:"text,omitempty"`

	// Kinds is the expected journal kind sequence (journal_kinds).
	Kinds []string `yaml:"kinds,omitempty"`

	// Kind and Count select journal entries (journal_count).
	Kind  string `yaml:"kind,omitempty"`
	Count int    `yaml:"count,omitempty"`

	// Installed is the expected patch state (installed).
	Installed *bool `yaml:"installed,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains unknown
// fields (typos), or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml file of dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	sort.Strings(paths)
	out := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		out = append(out, s)
	}
	return out, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if len(s.Steps) == 0 {
		return errors.New("at least one step is required")
	}
	if s.Module != nil {
		if _, err := sample.ParseShape(s.Module.Shape); err != nil {
			return fmt.Errorf("module: %w", err)
		}
	}
	switch s.Dialog.Policy {
	case "", PolicyKeepAll, PolicyRejectAll:
	case PolicyKeep:
		if len(s.Dialog.Keep) == 0 {
			return errors.New("dialog: keep list is required for keep policy")
		}
	default:
		return fmt.Errorf("dialog: unknown policy %q", s.Dialog.Policy)
	}
	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step Step) error {
	set := 0
	for _, ok := range []bool{step.Tick != nil, step.Kill != nil, step.MissionEnded, step.Encounter != nil, step.MenuRaise, step.Raise} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("steps[%d]: exactly one event is required, got %d", index, set)
	}
	if k := step.Kill; k != nil {
		switch k.By {
		case "player", "hero", "troop":
		default:
			return fmt.Errorf("steps[%d]: kill.by must be player, hero or troop, got %q", index, k.By)
		}
		switch k.Victim {
		case "", "enemy", "ally", "animal":
		default:
			return fmt.Errorf("steps[%d]: unknown kill.victim %q", index, k.Victim)
		}
		if _, err := parseState(k.State); err != nil {
			return fmt.Errorf("steps[%d]: %w", index, err)
		}
	}
	if e := step.Encounter; e != nil && e.ID == "" {
		return fmt.Errorf("steps[%d]: encounter.id is required", index)
	}
	return nil
}

func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case AssertBalance, AssertBanked:
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for %s", index, a.Type)
		}
	case AssertParty:
	case AssertToastContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for toast_contains", index)
		}
	case AssertJournalKinds:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for journal_kinds", index)
		}
	case AssertJournalCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for journal_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for journal_count", index)
		}
	case AssertInstalled:
		if a.Installed == nil {
			return fmt.Errorf("assertions[%d]: installed is required for installed", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
