// Package sample provides an in-process extension module shaped like the
// TOR_Core module, in several historical variants.
//
// It backs the CLI simulator, the scenario harness and tests. Each Shape
// reports battle gains in a different encoding, so every coercion path of the
// bridge can be exercised against a realistic module.
package sample

import (
	"fmt"
	"sort"

	"github.com/roach88/necroqol/internal/campaign"
	"github.com/roach88/necroqol/internal/extension"
)

// Fully qualified type names inside the module.
const (
	HeroExtensions  = "TOR_Core.Extensions.HeroExtensions"
	ResourceManager = "TOR_Core.CampaignMechanics.CustomResources.CustomResourceManager"
	RaiseDeadModel  = "TOR_Core.CampaignMechanics.RaiseDead.GraveyardRaiseDeadModel"
	RaiseDeadSource = "TOR_Core.CampaignMechanics.RaiseDead.RaiseDeadSource"
	ResourceType    = "TOR_Core.CampaignMechanics.CustomResources.CustomResourceType"

	// MenuOwner and MenuCallbackName identify the graveyard menu callback the
	// module registers with the host UI.
	MenuOwner        = "TOR_Core.CampaignMechanics.RaiseDead.GraveyardMenuBehavior"
	MenuCallbackName = "RaiseDeadOnConsequence"
)

// Shape selects how the module reports battle gains.
type Shape string

const (
	// ShapeDictionary returns map[*campaign.Hero]float32 from the exact method.
	ShapeDictionary Shape = "dictionary"
	// ShapeNumber returns a plain float64.
	ShapeNumber Shape = "number"
	// ShapeExplained returns campaign.ExplainedNumber.
	ShapeExplained Shape = "explained"
	// ShapePairs renames the method and returns resource-keyed pairs.
	ShapePairs Shape = "pairs"
	// ShapeLookup returns an object with TryGetValue.
	ShapeLookup Shape = "lookup"
	// ShapeOpaque returns an object the bridge cannot read.
	ShapeOpaque Shape = "opaque"
	// ShapeFaulting panics inside the calculation.
	ShapeFaulting Shape = "faulting"
)

// Shapes lists every shape.
var Shapes = []Shape{ShapeDictionary, ShapeNumber, ShapeExplained, ShapePairs, ShapeLookup, ShapeOpaque, ShapeFaulting}

// ParseShape parses a shape name; empty means ShapeDictionary.
func ParseShape(s string) (Shape, error) {
	if s == "" {
		return ShapeDictionary, nil
	}
	for _, sh := range Shapes {
		if string(sh) == s {
			return sh, nil
		}
	}
	return "", fmt.Errorf("unknown module shape %q", s)
}

// RaiseSource is the module's enum of raise-dead origins.
type RaiseSource int

const (
	SourceBattlefield RaiseSource = iota
	SourceGraveyard
	SourceRitual
)

// CustomResource is an entry of the module's resource catalog.
type CustomResource struct {
	StringID string
	Name     string
}

// The module's resource catalog.
var (
	Prestige     = &CustomResource{StringID: "Prestige", Name: "Prestige"}
	DarkEnergy   = &CustomResource{StringID: "DarkEnergy", Name: "Dark Energy"}
	WindsOfMagic = &CustomResource{StringID: "WindsOfMagic", Name: "Winds of Magic"}
)

// ResourceGain is one key/value pair of the pairs shape.
type ResourceGain struct {
	Key   *CustomResource
	Value int
}

// Options configure a Runtime.
type Options struct {
	Name    string
	Version string
	Shape   Shape
	// PerCasualty is the gain per casualty of the calculation; default 2.
	PerCasualty float32
	// IntGrant declares the grant amount parameter as int.
	IntGrant bool
	// NoGrant omits the grant capability.
	NoGrant bool
	// NoRaise omits the raise-dead model.
	NoRaise bool
	// Raised is what the raise-dead calculation and the graveyard menu
	// produce.
	Raised []campaign.TroopStack
}

// Runtime is the live state behind a sample module.
type Runtime struct {
	opts      Options
	balances  map[*campaign.Hero]float64
	cooldowns map[string]bool
	calls     []string
}

// New creates a runtime. Missing options take defaults.
func New(opts Options) *Runtime {
	if opts.Name == "" {
		opts.Name = extension.DefaultModuleName
	}
	if opts.Version == "" {
		opts.Version = "1.4.0"
	}
	if opts.Shape == "" {
		opts.Shape = ShapeDictionary
	}
	if opts.PerCasualty == 0 {
		opts.PerCasualty = 2
	}
	return &Runtime{
		opts:      opts,
		balances:  make(map[*campaign.Hero]float64),
		cooldowns: make(map[string]bool),
	}
}

// Balance returns the hero's dark energy.
func (r *Runtime) Balance(h *campaign.Hero) float64 {
	return r.balances[h]
}

// OnCooldown reports whether the graveyard is on cooldown.
func (r *Runtime) OnCooldown(s *campaign.Settlement) bool {
	return s != nil && r.cooldowns[s.StringID]
}

// Calls returns the capability calls made so far, in order.
func (r *Runtime) Calls() []string {
	return append([]string(nil), r.calls...)
}

func (r *Runtime) record(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

// Module builds the module descriptor for the configured shape.
func (r *Runtime) Module() *extension.Module {
	m := extension.NewModule(r.opts.Name, r.opts.Version)

	m.AddEnum(ResourceType,
		extension.EnumValue{Name: "Prestige", Value: resourceKind(0)},
		extension.EnumValue{Name: "DarkEnergy", Value: resourceKind(1)},
		extension.EnumValue{Name: "WindsOfMagic", Value: resourceKind(2)},
	)

	if !r.opts.NoGrant {
		if r.opts.IntGrant {
			m.Static(HeroExtensions, "AddCultureSpecificCustomResource", func(h *campaign.Hero, amount int) {
				r.record("grant %s %d", h.StringID, amount)
				r.balances[h] += float64(amount)
			})
		} else {
			m.Static(HeroExtensions, "AddCultureSpecificCustomResource", func(h *campaign.Hero, amount float32) {
				r.record("grant %s %g", h.StringID, amount)
				r.balances[h] += float64(amount)
			})
		}
	}
	m.Static(HeroExtensions, "AddCustomResourceOfKind", func(h *campaign.Hero, kind resourceKind, amount float32) {
		r.record("grant-kind %s %d %g", h.StringID, kind, amount)
		if kind == 1 {
			r.balances[h] += float64(amount)
		}
	})
	m.Static(HeroExtensions, "GetCultureSpecificCustomResourceValue", func(h *campaign.Hero) float32 {
		return float32(r.balances[h])
	})
	m.Static(HeroExtensions, "GetCultureSpecificCustomResource", func(h *campaign.Hero) *CustomResource {
		return DarkEnergy
	})

	m.Instance(ResourceManager, r.manager)
	m.Static(ResourceManager, "GetAllResources", func() []*CustomResource {
		return []*CustomResource{Prestige, DarkEnergy, WindsOfMagic}
	})

	if !r.opts.NoRaise {
		m.AddEnum(RaiseDeadSource,
			extension.EnumValue{Name: "Battlefield", Value: SourceBattlefield},
			extension.EnumValue{Name: "Graveyard", Value: SourceGraveyard},
			extension.EnumValue{Name: "Ritual", Value: SourceRitual},
		)
		m.Static(RaiseDeadModel, "CalculateGraveyardRaisedTroops",
			func(s *campaign.Settlement, h *campaign.Hero, src RaiseSource) []campaign.TroopStack {
				r.record("raise %s %d", s.StringID, src)
				if src != SourceGraveyard || r.cooldowns[s.StringID] {
					return nil
				}
				return append([]campaign.TroopStack(nil), r.opts.Raised...)
			})
		m.Static(RaiseDeadModel, "StartGraveyardCooldown", func(s *campaign.Settlement) {
			r.record("cooldown %s", s.StringID)
			r.cooldowns[s.StringID] = true
		})
	}
	return m
}

type resourceKind int

// Raise runs the graveyard raise as the module's own menu would: raised
// troops go straight into the party.
func (r *Runtime) Raise(p *campaign.Party) {
	s := p.CurrentSettlement
	if s == nil || r.cooldowns[s.StringID] {
		return
	}
	r.record("menu-raise %s", s.StringID)
	for _, t := range r.opts.Raised {
		p.Add(t.Kind, t.Count)
	}
}

func (r *Runtime) manager() any {
	switch r.opts.Shape {
	case ShapeNumber:
		return &numberManager{rt: r}
	case ShapeExplained:
		return &explainedManager{rt: r}
	case ShapePairs:
		return &pairsManager{rt: r}
	case ShapeLookup:
		return &lookupManager{rt: r}
	case ShapeOpaque:
		return &opaqueManager{rt: r}
	case ShapeFaulting:
		return &faultingManager{rt: r}
	default:
		return &dictionaryManager{rt: r}
	}
}

func (r *Runtime) battleGain(ev *campaign.Encounter) float32 {
	killed := 0
	for _, side := range ev.Sides() {
		for _, c := range side.Casualties {
			killed += c.Killed
		}
	}
	return float32(killed) * r.opts.PerCasualty
}

func leaders(ev *campaign.Encounter) []*campaign.Hero {
	var out []*campaign.Hero
	for _, side := range ev.Sides() {
		for _, p := range side.Parties {
			if p != nil && p.Leader != nil {
				out = append(out, p.Leader)
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StringID < out[j].StringID })
	return out
}

type dictionaryManager struct{ rt *Runtime }

func (m *dictionaryManager) CalculateCustomResourceGainFromBattles(ev *campaign.Encounter) map[*campaign.Hero]float32 {
	m.rt.record("calc dictionary %s", ev.ID)
	gains := make(map[*campaign.Hero]float32)
	for _, h := range leaders(ev) {
		gains[h] = m.rt.battleGain(ev)
	}
	return gains
}

type numberManager struct{ rt *Runtime }

func (m *numberManager) CalculateCustomResourceGainFromBattles(ev *campaign.Encounter) float64 {
	m.rt.record("calc number %s", ev.ID)
	return float64(m.rt.battleGain(ev))
}

type explainedManager struct{ rt *Runtime }

func (m *explainedManager) CalculateCustomResourceGainFromBattles(ev *campaign.Encounter) campaign.ExplainedNumber {
	m.rt.record("calc explained %s", ev.ID)
	return campaign.ExplainedNumber{ResultNumber: m.rt.battleGain(ev), Lines: []string{"base"}}
}

// pairsManager is the later module revision that renamed the calculation.
type pairsManager struct{ rt *Runtime }

func (m *pairsManager) ComputeBattleResourceGains(ev *campaign.Encounter) []ResourceGain {
	m.rt.record("calc pairs %s", ev.ID)
	return []ResourceGain{
		{Key: Prestige, Value: 1},
		{Key: DarkEnergy, Value: int(m.rt.battleGain(ev))},
	}
}

type gainTable struct {
	gains map[*campaign.Hero]float32
}

func (g *gainTable) TryGetValue(h *campaign.Hero) (float32, bool) {
	v, ok := g.gains[h]
	return v, ok
}

type lookupManager struct{ rt *Runtime }

func (m *lookupManager) CalculateCustomResourceGainFromBattles(ev *campaign.Encounter) *gainTable {
	m.rt.record("calc lookup %s", ev.ID)
	t := &gainTable{gains: make(map[*campaign.Hero]float32)}
	for _, h := range leaders(ev) {
		t.gains[h] = m.rt.battleGain(ev)
	}
	return t
}

type battleSummary struct {
	Description string
}

type opaqueManager struct{ rt *Runtime }

func (m *opaqueManager) CalculateCustomResourceGainFromBattles(ev *campaign.Encounter) battleSummary {
	m.rt.record("calc opaque %s", ev.ID)
	return battleSummary{Description: "the dead stir"}
}

type faultingManager struct{ rt *Runtime }

func (m *faultingManager) CalculateCustomResourceGainFromBattles(ev *campaign.Encounter) float32 {
	m.rt.record("calc faulting %s", ev.ID)
	panic("custom resource manager not initialized")
}
