package dist

import (
	"encoding/binary"
	"fmt"
	"io"

	"ascigo/internal/core"
)

const planMagic = "ASCP"

const (
	planHeaderSize = 4 + 1 + 1 + 1 + 1 + 8 + 8 + 8 + 8 + 8 + 8 // magic, version, policy, reserved, size, total, threshold, counts
	unitRecordSize = 1 + 4 + 8 + 4                             // kind, indices, cost, owner
	constraintSize = 1 + 4
)

// MarshalBinary implements encoding.BinaryMarshaler. Timings are not stored.
func (p *Plan) MarshalBinary() ([]byte, error) {
	if len(p.Owners) != len(p.Units) || len(p.Loads) != p.Size {
		return nil, fmt.Errorf("dist: inconsistent plan (%d units, %d owners, %d loads for %d ranks)",
			len(p.Units), len(p.Owners), len(p.Loads), p.Size)
	}
	totalSize := planHeaderSize + len(p.Units)*unitRecordSize + p.Size*8 +
		(len(p.Split)+len(p.Unsplittable))*constraintSize
	buf := make([]byte, 0, totalSize)

	buf = append(buf, planMagic...)
	buf = append(buf, 1, byte(p.Policy), 0, 0) // version, policy, reserved
	buf = binary.LittleEndian.AppendUint64(buf, uint64(p.Size))
	buf = binary.LittleEndian.AppendUint64(buf, p.Total)
	buf = binary.LittleEndian.AppendUint64(buf, p.Threshold)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(p.Units)))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(p.Split)))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(p.Unsplittable)))

	for n, u := range p.Units {
		buf = appendConstraint(buf, u.Constraint)
		buf = binary.LittleEndian.AppendUint64(buf, u.Cost)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(p.Owners[n]))
	}
	for _, l := range p.Loads {
		buf = binary.LittleEndian.AppendUint64(buf, l)
	}
	for _, c := range p.Split {
		buf = appendConstraint(buf, c)
	}
	for _, c := range p.Unsplittable {
		buf = appendConstraint(buf, c)
	}
	return buf, nil
}

func appendConstraint(buf []byte, c core.Constraint) []byte {
	buf = append(buf, byte(c.Kind))
	return append(buf, c.Idx[:]...)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *Plan) UnmarshalBinary(data []byte) error {
	if len(data) < planHeaderSize {
		return io.ErrUnexpectedEOF
	}
	if string(data[0:4]) != planMagic {
		return fmt.Errorf("dist: invalid plan magic identifier")
	}
	if data[4] != 1 {
		return fmt.Errorf("dist: unsupported plan version: %d", data[4])
	}
	policy := core.Policy(data[5])
	offset := 8

	next := func() uint64 {
		v := binary.LittleEndian.Uint64(data[offset : offset+8])
		offset += 8
		return v
	}
	size, total, threshold := next(), next(), next()
	nunits, nsplit, nunsplit := next(), next(), next()

	if size < 1 || size > 1<<31 {
		return fmt.Errorf("dist: plan for %d ranks: %w", size, core.ErrEmptyGroup)
	}
	rest := uint64(len(data) - offset)
	if nunits > rest/unitRecordSize || nsplit+nunsplit > rest/constraintSize ||
		nunits*unitRecordSize+size*8+(nsplit+nunsplit)*constraintSize != rest {
		return io.ErrUnexpectedEOF
	}

	out := Plan{
		Policy:    policy,
		Size:      int(size),
		Total:     total,
		Threshold: threshold,
		Units:     make([]core.WorkUnit, nunits),
		Owners:    make([]int, nunits),
		Loads:     make([]uint64, size),
	}
	for n := range out.Units {
		c, err := readConstraint(data[offset:])
		if err != nil {
			return err
		}
		offset += constraintSize
		out.Units[n] = core.WorkUnit{Constraint: c, Cost: next()}
		owner := binary.LittleEndian.Uint32(data[offset : offset+4])
		offset += 4
		if uint64(owner) >= size {
			return fmt.Errorf("dist: unit %d owned by rank %d of %d: %w", n, owner, size, core.ErrRankOutOfRange)
		}
		out.Owners[n] = int(owner)
	}
	for r := range out.Loads {
		out.Loads[r] = next()
	}
	readList := func(count uint64) ([]core.Constraint, error) {
		if count == 0 {
			return nil, nil
		}
		list := make([]core.Constraint, count)
		for n := range list {
			c, err := readConstraint(data[offset:])
			if err != nil {
				return nil, err
			}
			offset += constraintSize
			list[n] = c
		}
		return list, nil
	}
	var err error
	if out.Split, err = readList(nsplit); err != nil {
		return err
	}
	if out.Unsplittable, err = readList(nunsplit); err != nil {
		return err
	}
	*p = out
	return nil
}

func readConstraint(b []byte) (core.Constraint, error) {
	kind := core.Kind(b[0])
	idx := b[1:5]
	switch kind {
	case core.KindTriplet:
		return core.NewTriplet(int(idx[0]), int(idx[1]), int(idx[2]))
	case core.KindQuad:
		return core.NewQuad(int(idx[0]), int(idx[1]), int(idx[2]), int(idx[3]))
	}
	return core.Constraint{}, fmt.Errorf("dist: unknown constraint kind %d", kind)
}
