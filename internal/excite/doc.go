// Package excite enumerates single and double excitations of a spin string
// that are owned by a triplet or quadruplet constraint.
//
// Every function works on one spin channel held in the low half of a
// core.Det. For a fixed string and the full set of strictly descending
// triplets, the constrained excitations partition the unconstrained ones:
// each excited string is produced under exactly one triplet. Quadruplets
// refine a single triplet the same way.
//
// Degenerate inputs (no overlap with the constraint, too many occupied
// orbitals outside the boundary) yield empty results, never errors.
package excite
