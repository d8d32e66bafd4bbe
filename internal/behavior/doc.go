// Package behavior adapts the host's campaign lifecycle to the bridge.
//
// A Behavior is driven by the host on its single update thread:
//
//	OnSessionStart(host)       once per campaign session
//	Tick(dt)                   every frame; polls the patch installer
//	OnAgentRemoved(...)        for every agent leaving a mission
//	OnMissionEnded()           when a mission closes
//	OnEncounterEnded(enc)      when a map event resolves
//
// Battle gains are computed bridge-first with the fallback economy as
// substitute and granted to the player hero. Raises intercepted from the
// extension module's graveyard menu, or requested directly with
// RaiseAtSettlement, go through the keep/sacrifice dialog: kept units join the
// main party, sacrificed units are converted into dark energy.
//
// Every public method recovers panics, logs them and returns the zero result.
package behavior
