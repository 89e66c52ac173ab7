package dist

import (
	"fmt"

	"ascigo/internal/core"
)

// Comm is the process group the constraints are distributed over. Every
// rank computes the same plan; Comm only tells it which part is its own.
type Comm interface {
	Rank() int
	Size() int
}

// LocalComm is a fixed (rank, size) pair, used to simulate a group inside
// one process.
type LocalComm struct {
	R, N int
}

func (c LocalComm) Rank() int { return c.R }
func (c LocalComm) Size() int { return c.N }

// Group returns one LocalComm per rank of a group of the given size.
func Group(size int) []LocalComm {
	out := make([]LocalComm, size)
	for r := range out {
		out[r] = LocalComm{R: r, N: size}
	}
	return out
}

func checkComm(comm Comm) error {
	if comm == nil || comm.Size() < 1 {
		return fmt.Errorf("dist: %w", core.ErrEmptyGroup)
	}
	if r := comm.Rank(); r < 0 || r >= comm.Size() {
		return fmt.Errorf("dist: rank %d of %d: %w", r, comm.Size(), core.ErrRankOutOfRange)
	}
	return nil
}
