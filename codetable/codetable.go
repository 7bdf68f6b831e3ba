/*
NAME
  codetable.go

DESCRIPTION
  codetable.go defines the immutable LDPC code table data model and the
  registry lookup contract of (standard, framesize, rate) -> Table.

  The ~50 standard DVB-S2/S2X/T2 tables are treated as constant data
  supplied by an external data module (see package doc); this file
  defines the contract a generated data module must satisfy, and
  builtin.go's NewBuiltin supplies a small MapSource carrying the
  handful of tables this repo needs to exercise and test the pipeline
  end-to-end.

AUTHOR
  dvbs2ldpc authors.

LICENSE
  Copyright (C) 2026 the dvbs2ldpc authors. All Rights Reserved.
*/

// Package codetable provides the LDPC code table registry: a pure
// lookup of (standard, framesize, rate) to the compressed parity-check
// matrix description used by package graph to expand the Tanner graph.
package codetable

import (
	"fmt"

	"github.com/pkg/errors"
)

// Standard identifies the DVB physical layer standard a code table
// belongs to.
type Standard int

// Supported standards.
const (
	S2 Standard = iota
	T2
)

func (s Standard) String() string {
	switch s {
	case S2:
		return "S2"
	case T2:
		return "T2"
	default:
		return fmt.Sprintf("Standard(%d)", int(s))
	}
}

// FrameSize identifies the LDPC codeword length family.
type FrameSize int

// Supported frame sizes, named for their codeword length in bits.
const (
	SHORT  FrameSize = 16200
	MEDIUM FrameSize = 32400
	NORMAL FrameSize = 64800
)

func (f FrameSize) String() string {
	switch f {
	case SHORT:
		return "SHORT"
	case MEDIUM:
		return "MEDIUM"
	case NORMAL:
		return "NORMAL"
	default:
		return fmt.Sprintf("FrameSize(%d)", int(f))
	}
}

// Rate identifies one of the standards-defined code-rate identifiers,
// e.g. "1/2", "3/5", "3/4", "A3", "B6". Rate identifiers are free-form
// strings because the DVB standards name rates both numerically
// (QPSK/8PSK family) and with letter codes (T2 code-table names).
type Rate string

// A representative subset of the ~45 standards-defined rate
// identifiers referenced by spec.md's concrete scenarios.
const (
	Rate1_2 Rate = "1/2"
	Rate3_5 Rate = "3/5"
	Rate2_3 Rate = "2/3"
	Rate3_4 Rate = "3/4"
	RateB6  Rate = "B6" // S2 rate 2/3 NORMAL table name.
	RateA3  Rate = "A3" // T2 rate 2/3 NORMAL table name.
)

// Table is the immutable compressed description of one LDPC parity
// check matrix, as defined in spec.md section 3.
//
// The information columns are viewed in groups of 360. Deg[b] gives
// the number of seeds per group for block class b, Len[b] gives the
// number of groups in that class, and Pos is a flat list of check-row
// seeds: each seed is the check row of a group's first column, shifted
// by Q for each following column of the group (see graph.Expand).
type Table struct {
	Standard  Standard
	FrameSize FrameSize
	Rate      Rate

	K int // Information bits.
	N int // Code length.

	Deg []int // Seeds per information-column group, per block class.
	Len []int // Number of groups in that class.
	Pos []int // Flat check-row seeds.
}

// Q returns the cyclic shift parameter (n-k)/360 derived directly from
// the table dimensions. Per spec.md's open question in section 9, Q is
// never read from a per-rate switch statement — some rates (e.g. short
// VLSNR variants) leave a hand-maintained q_val unset, so deriving it
// here is the only correct source of truth. For frame sizes where the
// interleaver never references Q (q is meaningless), Q still returns
// the dimensionally-derived value; callers that don't need it simply
// don't read it.
func (t Table) Q() int {
	if t.N <= t.K {
		return 0
	}
	return (t.N - t.K) / 360
}

// NumParityBlocks returns n-k, the number of check nodes / parity bits.
func (t Table) NumParityBlocks() int {
	return t.N - t.K
}

// Validate checks the table's internal consistency: equal-length
// parallel arrays, and that Len sums to the k/360 groups of
// information columns.
func (t Table) Validate() error {
	if len(t.Deg) != len(t.Len) {
		return errors.Errorf("codetable: Deg and Len length mismatch (%d vs %d)", len(t.Deg), len(t.Len))
	}
	if t.K <= 0 || t.N <= t.K {
		return errors.Errorf("codetable: invalid dimensions k=%d n=%d", t.K, t.N)
	}
	if (t.N-t.K)%360 != 0 {
		return errors.Errorf("codetable: n-k=%d is not a multiple of 360", t.N-t.K)
	}
	if t.K%360 != 0 {
		return errors.Errorf("codetable: k=%d is not a multiple of 360", t.K)
	}
	// Deg/Len partition the k/360 groups of 360 information-bit
	// columns, not the n-k check rows: each group of 360 consecutive
	// information bits shares one set of Deg[b] column seeds.
	wantBlocks := t.K / 360
	var gotBlocks int
	var cursor int
	for i, deg := range t.Deg {
		gotBlocks += t.Len[i]
		cursor += deg * t.Len[i]
		if deg <= 0 {
			return errors.Errorf("codetable: non-positive degree %d at block group %d", deg, i)
		}
	}
	if gotBlocks != wantBlocks {
		return errors.Errorf("codetable: Len sums to %d groups of 360 information columns, want %d", gotBlocks, wantBlocks)
	}
	if cursor != len(t.Pos) {
		return errors.Errorf("codetable: Pos has %d entries, expected %d from Deg/Len", len(t.Pos), cursor)
	}
	return nil
}

// ErrUnsupportedMode is returned by Source.Lookup when no table is
// registered for the requested (standard, framesize, rate) triple.
var ErrUnsupportedMode = errors.New("codetable: unsupported mode")

// Source is the registry lookup contract. A production deployment
// wires a generated Source carrying the full ~50-entry standards
// table set; the MapSource returned by NewBuiltin implements the same
// contract restricted to a handful of tables.
type Source interface {
	Lookup(std Standard, fs FrameSize, rate Rate) (Table, error)
}

// key identifies one table within a Source's internal map.
type key struct {
	std  Standard
	fs   FrameSize
	rate Rate
}

// MapSource is a Source backed by a static map, the shape a generated
// data module would produce.
type MapSource map[key]Table

// Lookup implements Source.
func (m MapSource) Lookup(std Standard, fs FrameSize, rate Rate) (Table, error) {
	t, ok := m[key{std, fs, rate}]
	if !ok {
		return Table{}, errors.Wrapf(ErrUnsupportedMode, "standard=%s framesize=%s rate=%s", std, fs, rate)
	}
	return t, nil
}

// Register adds or replaces a table in m.
func (m MapSource) Register(t Table) {
	m[key{t.Standard, t.FrameSize, t.Rate}] = t
}
