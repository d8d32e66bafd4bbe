// Package campaign holds the host simulation objects the bridge works with.
//
// These are the "well-known" domain objects of a campaign session: heroes,
// clans, mobile parties, settlements, encounters and battlefield agents. The
// host owns them; this repository only reads them, except for party rosters,
// which the keep/sacrifice flow edits.
package campaign
