// Package harness runs campaign scenarios against the behavior end to end.
//
// A scenario describes the extension module (or its absence), the player's
// party, how the keep/sacrifice dialog is answered, a list of host lifecycle
// steps and assertions on the outcome.
//
// # Scenario Format
//
//	name: trim_to_capacity
//	description: "Raised units beyond the party limit are sacrificed"
//	module:
//	  shape: dictionary
//	  raised: [{kind: Infantry, count: 6}, {kind: Archer, count: 4}]
//	party:
//	  size_limit: 7
//	  at_graveyard: true
//	dialog:
//	  policy: keep_all
//	steps:
//	  - tick: 0.016
//	  - menu_raise: true
//	assertions:
//	  - type: party
//	    troops: [{kind: Infantry, count: 6}, {kind: Archer, count: 1}]
//	  - type: balance
//	    value: 6
//
// Omitting module runs the scenario with no extension module loaded, which
// exercises the fallback economy.
//
// # Steps
//
//   - tick: advance the scheduler by dt seconds
//   - kill: remove an agent from the running mission
//   - mission_ended: close the mission and snapshot player kills
//   - encounter: end a map event, granting the battle gain
//   - menu_raise: pick the module's raise-dead menu option
//   - raise: raise the dead at the party's graveyard directly
//
// # Assertion Types
//
//   - balance: dark energy held by the player in the module
//   - banked: dark energy that could not be granted
//   - party: exact party roster
//   - toast_contains: some toast contains text
//   - journal_kinds: exact sequence of journal entry kinds
//   - journal_count: number of journal entries of one kind
//   - installed: whether the menu patch is installed
//
// # Deterministic Runs
//
// Every run uses a fresh in-memory journal, a fixed session token
// (testutil.FixedTokenGenerator) and a step clock (testutil.StepClock), so
// the rendered Snapshot is byte-identical across runs and can be compared
// against golden files.
package harness
