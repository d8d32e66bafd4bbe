// Package coerce normalizes values returned by the extension module into
// canonical amounts.
//
// The extension module reports resource gains in several encodings across its
// versions: a raw number, an explained number carrying ResultNumber, a list of
// key/value pairs keyed by hero or resource, or a dictionary-like object with
// TryGetValue. CoerceAmount recognizes each of them and reports whether it
// could determine an amount at all. "Could not determine" is distinct from a
// determined zero; callers fall back only on the former.
package coerce
