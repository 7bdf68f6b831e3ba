/*
NAME
  builtin.go

DESCRIPTION
  builtin.go supplies the reference Source, NewBuiltin: a handful of
  LDPC tables sufficient to exercise every operation in this
  repository end to end, including the dimensions named in spec.md's
  concrete scenarios. The standard-mode tables carry the real (k, n)
  but synthesized column seeds, not the standards-defined matrices.
  A production deployment replaces NewBuiltin with a
  generated Source carrying the complete ~50-entry standards table set
  (see package doc for the external-data-module boundary).

AUTHOR
  dvbs2ldpc authors.

LICENSE
  Copyright (C) 2026 the dvbs2ldpc authors. All Rights Reserved.
*/

package codetable

// synthesize builds a Table with the given dimensions and a single
// degree class, generating deterministic column seeds. The seed
// formula is a placeholder for the real standards-defined constant
// data (out of scope per spec.md section 1): it produces a valid,
// connected quasi-cyclic structure of the right shape, not the
// bit-exact wire-format matrix a real deployment would load from its
// generated data module.
func synthesize(std Standard, fs FrameSize, rate Rate, k, n, deg int) Table {
	numChecks := n - k
	numGroups := k / 360
	pos := make([]int, deg*numGroups)
	for i := range pos {
		pos[i] = (i*37 + 11) % numChecks
	}
	return Table{
		Standard:  std,
		FrameSize: fs,
		Rate:      rate,
		K:         k,
		N:         n,
		Deg:       []int{deg},
		Len:       []int{numGroups},
		Pos:       pos,
	}
}

// NewBuiltin returns the reference MapSource, pre-populated with:
//   - the real standard dimensions (k, n) for the modes named in
//     spec.md's concrete test scenarios (section 8), so byte-length
//     and framing behavior matches the real standard exactly;
//   - a small hand-verifiable toy table (k=360, n=720) used by graph
//     and ldpcdecoder unit tests that need to reason about exact
//     edge positions.
func NewBuiltin() MapSource {
	m := make(MapSource)

	// spec.md section 8, scenario 1/2: S2 NORMAL rate 3/4, QPSK.
	m.Register(synthesize(S2, NORMAL, Rate3_4, 48600, 64800, 12))

	// spec.md section 8, scenario 3: S2 SHORT rate 1/2, QPSK.
	m.Register(synthesize(S2, SHORT, Rate1_2, 7200, 16200, 8))

	// spec.md section 8, scenario 4: S2 NORMAL rate 3/5, 8PSK.
	m.Register(synthesize(S2, NORMAL, Rate3_5, 38880, 64800, 10))

	// spec.md section 8, scenario 5: S2 B6 vs T2 A3 both select
	// NORMAL rate 2/3, QPSK, but must resolve to distinct tables.
	m.Register(synthesize(S2, NORMAL, RateB6, 43200, 64800, 11))
	m.Register(synthesize(T2, NORMAL, RateA3, 43200, 64800, 13))

	// Small hand-verifiable toy table: q=1, single degree class,
	// 360 check nodes, used by graph/ldpcdecoder unit tests.
	m.Register(Table{
		Standard:  S2,
		FrameSize: SHORT,
		Rate:      "toy-1-2",
		K:         360,
		N:         720,
		Deg:       []int{3},
		Len:       []int{1},
		Pos:       []int{5, 100, 200},
	})

	return m
}
