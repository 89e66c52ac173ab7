// Package asci distributes the constrained determinant search of an
// adaptive sampling CI step over a replicated process group and generates
// each rank's share of the perturbative contributions.
//
// A Workload is built from the current wavefunction's determinants. Every
// rank calls Workload.Distribute with the same inputs and receives the same
// plan; its Assignment lists the triplet and quadruplet constraints it owns.
// A Searcher then walks those constraints over the wavefunction and appends
// contributions to a caller-owned buffer. Across all ranks each excited
// determinant is generated exactly once per root.
package asci
