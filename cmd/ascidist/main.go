// Command ascidist distributes the constrained determinant search of an
// ASCI step over a simulated process group, reports the load balance and
// optionally runs the search on a synthetic Hamiltonian.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
