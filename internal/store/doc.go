// Package store keeps the SQLite diagnostic journal.
//
// The journal is append-only and best-effort: a Journal logs write failures
// and carries on, so a broken database never disturbs the campaign. A
// session row records which extension module the bridge looked for and
// whether it was loaded; entries record patch resolution, faults, battle
// gains, grants, raises and commits.
//
// Entries are ordered by their per-session seq, then by insertion id. seq
// counts Record calls and is never a timestamp, so replaying a scenario
// yields the same journal. Reads return empty slices, not nil.
package store
