// Package capability resolves and invokes members of the optional extension
// module by declarative query.
//
// A Query names the declaring type, the exact member names historically used
// for the capability, and name-token groups plus parameter shape used when the
// exact names are gone. The Resolver walks candidates in a fixed preference
// order (exact static, exact instance, heuristic in descriptor order), binds
// arguments from an ordered Pool of domain objects and, for invoking lookups,
// keeps the first candidate that binds, runs without fault and returns a
// usable value.
//
// Resolution results are cached per query for the lifetime of the Resolver,
// misses included. The default query set is declared in catalog.cue.
package capability
