// Package economy computes resource gains from locally observable battle
// facts. It is the substitute used whenever the extension module cannot
// produce an amount, and the source of the per-kill bonus in every case.
package economy
