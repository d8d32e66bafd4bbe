// Package roster implements grantable unit rosters and the keep/sacrifice
// commit that splits a raised roster under a party capacity.
//
// A Roster is an ordered list of (kind, count) entries. Entries with an empty
// kind or a non-positive count are treated as absent by every operation.
// Commit and RejectAll conserve units: for every kind, kept plus discarded
// equals the candidate's count.
package roster
