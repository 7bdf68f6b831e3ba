/*
NAME
  tables.go

DESCRIPTION
  tables.go carries the fixed twist and multiplexer permutation tables
  of spec.md section 6 verbatim; bit-exact wire compatibility depends
  on these arrays matching the standard exactly.

LICENSE
  Copyright (C) 2026 the dvbs2ldpc authors. All Rights Reserved.
*/

package deinterleave

// Row-column twist tables, indexed by matrix column.
var (
	twist16n  = []int{0, 0, 2, 4, 4, 5, 7, 7}
	twist16s  = []int{0, 0, 0, 1, 7, 20, 20, 21}
	twist64n  = []int{0, 0, 2, 2, 3, 4, 4, 5, 5, 7, 8, 9}
	twist64s  = []int{0, 0, 0, 2, 2, 2, 3, 3, 3, 6, 7, 7}
	twist256n = []int{0, 2, 2, 2, 2, 3, 7, 15, 16, 20, 22, 22, 27, 27, 28, 32}
	twist256s = []int{0, 0, 0, 1, 7, 20, 20, 21}
)

// Multiplexer tables, indexed by output position within a group of
// 2*bitsPerSymbol bits (bitsPerSymbol for 256QAM short).
var (
	mux16    = []int{7, 1, 4, 2, 5, 3, 6, 0}
	mux16_35 = []int{0, 5, 1, 2, 4, 7, 3, 6}
	mux16_13 = []int{6, 0, 3, 4, 5, 2, 1, 7}
	mux16_25 = []int{7, 5, 4, 0, 3, 1, 2, 6}

	mux64    = []int{11, 7, 3, 10, 6, 2, 9, 5, 1, 8, 4, 0}
	mux64_35 = []int{2, 7, 6, 9, 0, 3, 1, 8, 4, 11, 5, 10}
	mux64_13 = []int{4, 2, 0, 5, 6, 1, 3, 7, 8, 9, 10, 11}
	mux64_25 = []int{4, 0, 1, 6, 2, 3, 5, 8, 7, 10, 9, 11}

	mux256    = []int{15, 1, 13, 3, 8, 11, 9, 5, 10, 6, 4, 7, 12, 2, 14, 0}
	mux256_35 = []int{2, 11, 3, 4, 0, 9, 1, 8, 10, 13, 7, 14, 6, 15, 5, 12}
	mux256_23 = []int{7, 2, 9, 0, 4, 6, 13, 3, 14, 10, 15, 5, 8, 12, 11, 1}

	mux256s     = []int{7, 3, 1, 5, 2, 6, 4, 0}
	mux256s_13  = []int{4, 0, 1, 2, 5, 3, 6, 7}
	mux256s_25  = []int{4, 0, 5, 1, 2, 3, 6, 7}
)

// rowaddr assignments for the 8PSK 3-way row rotation: each is a
// permutation of {0, 1, 2} describing which twisted row feeds which
// output row.
var (
	rowaddr012 = [3]int{0, 1, 2}
	rowaddr102 = [3]int{1, 0, 2}
	rowaddr210 = [3]int{2, 1, 0}
)
