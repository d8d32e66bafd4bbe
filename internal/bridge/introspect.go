package bridge

import (
	"reflect"
	"sort"

	"github.com/roach88/necroqol/internal/campaign"
	"github.com/roach88/necroqol/internal/coerce"
	"github.com/roach88/necroqol/internal/extension"
)

// Report summarizes what a module exposes around custom resources. It is a
// diagnostic aid for adding catalog entries when the module changes.
type Report struct {
	Module  string `json:"module"`
	Version string `json:"version"`
	// Enums lists "Type.Member" for enum members naming dark energy.
	Enums []string `json:"enums"`
	// GrantCandidates lists methods taking a hero or clan, a resource enum
	// and a number.
	GrantCandidates []string `json:"grantCandidates"`
	// NameHits lists members whose name mentions resources or energy.
	NameHits []string `json:"nameHits"`
}

var (
	heroType = reflect.TypeOf((*campaign.Hero)(nil))
	clanType = reflect.TypeOf((*campaign.Clan)(nil))
)

// Introspect scans mod. A nil module yields an empty report.
func Introspect(mod *extension.Module) Report {
	var r Report
	if mod == nil {
		return r
	}
	r.Module, r.Version = mod.Name, mod.Version

	for _, t := range mod.Types() {
		if t.Enum != nil {
			for _, m := range t.Enum.Members {
				if coerce.ContainsAll(m.Name, DarkEnergyTokens) {
					r.Enums = append(r.Enums, t.FullName+"."+m.Name)
				}
			}
		}
		for _, m := range t.AllMembers() {
			name := t.FullName + "." + m.Name
			if coerce.ContainsFold(m.Name, "resource") || coerce.ContainsFold(m.Name, "energy") {
				r.NameHits = append(r.NameHits, name)
			}
			if m.Kind == extension.KindMethod && grantShaped(m.Params()) {
				r.GrantCandidates = append(r.GrantCandidates, t.FullName+"."+m.Signature())
			}
		}
	}
	sort.Strings(r.Enums)
	sort.Strings(r.GrantCandidates)
	sort.Strings(r.NameHits)
	return r
}

func grantShaped(params []extension.Param) bool {
	var owner, enum, number bool
	for _, p := range params {
		switch {
		case p.Type == heroType || p.Type == clanType:
			owner = true
		case p.Enum != nil:
			enum = true
		case isNumber(p.Type):
			number = true
		}
	}
	return owner && enum && number
}

func isNumber(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
