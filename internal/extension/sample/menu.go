package sample

import (
	"errors"

	"github.com/roach88/necroqol/internal/campaign"
	"github.com/roach88/necroqol/internal/patch"
)

// Graveyard menu and option ids registered by RegisterMenus.
const (
	GraveyardMenu = "tor_graveyard_menu"
	RaiseOption   = "graveyard_raise_dead"
	LeaveOption   = "graveyard_leave"
)

// RegisterMenus adds the module's graveyard menu to reg. Picking the raise
// option runs Raise on the party passed as the dispatch argument.
func (r *Runtime) RegisterMenus(reg *patch.MenuRegistry) {
	menu := reg.AddMenu(GraveyardMenu)
	menu.AddOption(RaiseOption, patch.Callback{
		Owner: MenuOwner,
		Name:  MenuCallbackName,
		Fn: func(args any) error {
			p, ok := args.(*campaign.Party)
			if !ok || p == nil {
				return errors.New("raise dead: no party")
			}
			r.Raise(p)
			return nil
		},
	})
	menu.AddOption(LeaveOption, patch.Callback{
		Owner: MenuOwner,
		Name:  "LeaveOnConsequence",
		Fn:    func(any) error { return nil },
	})
}
