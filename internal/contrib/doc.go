// Package contrib turns constrained excitations into perturbative
// contributions: integral lookups, fermionic phases, energy denominators
// and a buffer to accumulate the results.
package contrib
