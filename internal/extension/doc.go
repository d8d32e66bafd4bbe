// Package extension models the optional extension module boundary.
//
// The extension module is versioned independently of this repository and
// offers no compile-time contract. It is represented here by a descriptor
// registry: a Module holds named Types, each Type holds Members (methods and
// properties) whose parameter lists are described by reflect.Type values, and
// enumerated types are registered with their member names so that argument
// binding can pick enum values by name.
//
// Runtime introspection is confined to this boundary. Nothing else in the
// repository uses reflection on its own types.
//
// # Locating the module
//
// Locator finds a module among the loaded modules by exact short name and
// caches the answer for the process lifetime. A miss is permanent for the
// run: a module that shows up later is not picked up, which trades freshness
// for never re-resolving inside a session.
package extension
