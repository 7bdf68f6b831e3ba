/*
NAME
  deinterleave.go

DESCRIPTION
  deinterleave.go builds, once per mode, the length-N integer
  permutation implementing the twist+multiplexer (or 8PSK row
  rotation) steps of the standards-defined bit interleaver, and its
  inverse; plus the separate codeword-domain parity-bit interleave
  that depends on q rather than modulation (spec.md section 4.4).

AUTHOR
  dvbs2ldpc authors.

LICENSE
  Copyright (C) 2026 the dvbs2ldpc authors. All Rights Reserved.
*/

// Package deinterleave implements the inverse of the DVB-S2/S2X/T2
// standards-defined bit interleaver: row-column twist, multiplexer
// permutation, 8PSK row rotation, and the parity-bit interleave.
package deinterleave

import (
	"github.com/pkg/errors"

	"github.com/fsschiava/dvbs2ldpc/codetable"
	"github.com/fsschiava/dvbs2ldpc/demod"
)

// Plan is the precomputed length-N permutation pair for one mode.
// Forward[i] gives, for transmit-order position i, the codeword-order
// index it carries; Inverse is Forward's inverse permutation, i.e.
// Apply(Inverse, llrs) takes transmit-order LLRs back to the order
// before the twist/mux (or 8PSK rotation) step.
type Plan struct {
	Forward []int
	Inverse []int
}

// invert returns the inverse of permutation p: inv[p[i]] = i.
func invert(p []int) []int {
	inv := make([]int, len(p))
	for i, v := range p {
		inv[v] = i
	}
	return inv
}

// identity returns the length-n identity permutation.
func identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// Build constructs the twist+mux (or 8PSK rotation) permutation for
// mod/fs/rate over a codeword of length n. QPSK has no bit
// multiplexer or twist; Build returns the identity permutation for it
// (the separate parity interleave, ForwardParity/InverseParity, still
// applies where relevant).
func Build(mod demod.Modulation, fs codetable.FrameSize, rate codetable.Rate, n int) (*Plan, error) {
	switch mod {
	case demod.QPSK:
		p := identity(n)
		return &Plan{Forward: p, Inverse: p}, nil
	case demod.PSK8:
		return build8PSK(rate, n)
	case demod.QAM16, demod.QAM64, demod.QAM256:
		return buildTwistMux(mod, fs, rate, n)
	default:
		return nil, errors.Errorf("deinterleave: unsupported modulation %d", int(mod))
	}
}

// build8PSK implements spec.md section 4.4 step 4: a 3-way row
// rotation selected by a rate-dependent assignment, with no
// multiplexer.
func build8PSK(rate codetable.Rate, n int) (*Plan, error) {
	if n%3 != 0 {
		return nil, errors.Errorf("deinterleave: 8PSK codeword length %d not divisible by 3 rows", n)
	}
	rows := n / 3
	assignment := rowaddrFor(rate)

	forward := make([]int, n)
	for r := 0; r < rows; r++ {
		for c := 0; c < 3; c++ {
			// Transmit row assignment[c] carries codeword row c.
			src := c*rows + r
			dst := assignment[c]*rows + r
			forward[dst] = src
		}
	}
	return &Plan{Forward: forward, Inverse: invert(forward)}, nil
}

// rowaddrFor selects the rate-dependent 8PSK row assignment. Rate 3/5
// is the 210 branch spec.md's concrete scenario 4 verifies, rate 2/3
// selects 102, and every other rate uses the identity 012 assignment.
func rowaddrFor(rate codetable.Rate) [3]int {
	switch rate {
	case codetable.Rate3_5:
		return rowaddr210
	case codetable.Rate2_3:
		return rowaddr102
	default:
		return rowaddr012
	}
}

// buildTwistMux implements spec.md section 4.4 steps 1+2 for
// 16QAM/64QAM/256QAM: the codeword is laid out column-major into a
// rows x cols matrix (cols = 2*bitsPerSymbol, or bitsPerSymbol for
// 256QAM short frames), each column c cyclically shifted by twist[c]
// rows, then the resulting rows x cols matrix is read out row-major
// and each group of cols bits is permuted by the multiplexer table.
func buildTwistMux(mod demod.Modulation, fs codetable.FrameSize, rate codetable.Rate, n int) (*Plan, error) {
	twist, mux := tablesFor(mod, fs, rate)
	cols := len(mux)
	if n%cols != 0 {
		return nil, errors.Errorf("deinterleave: codeword length %d not divisible by %d columns", n, cols)
	}
	rows := n / cols

	// twisted[r*cols+c] = codeword column c, cyclically shifted by
	// twist[c] rows: transmit row r of column c carries codeword row
	// (r - twist[c]) mod rows of that column.
	forward := make([]int, n)
	for c := 0; c < cols; c++ {
		shift := twist[c]
		for r := 0; r < rows; r++ {
			srcRow := ((r-shift)%rows + rows) % rows
			src := c*rows + srcRow // Column-major codeword index.
			twistedIdx := r*cols + c
			forward[twistedIdx] = src
		}
	}

	// Multiplex each row-group of cols bits: output position
	// r*cols+e carries twisted[r*cols+mux[e]].
	muxed := make([]int, n)
	for r := 0; r < rows; r++ {
		for e := 0; e < cols; e++ {
			muxed[r*cols+e] = forward[r*cols+mux[e]]
		}
	}

	return &Plan{Forward: muxed, Inverse: invert(muxed)}, nil
}

// tablesFor resolves the twist and mux tables for mod/fs/rate.
func tablesFor(mod demod.Modulation, fs codetable.FrameSize, rate codetable.Rate) (twist, mux []int) {
	short := fs == codetable.SHORT
	switch mod {
	case demod.QAM16:
		twist = twistPick(short, twist16n, twist16s)
		switch rate {
		case codetable.Rate3_5:
			mux = mux16_35
		case "1/3":
			mux = mux16_13
		case "2/5":
			mux = mux16_25
		default:
			mux = mux16
		}
	case demod.QAM64:
		twist = twistPick(short, twist64n, twist64s)
		switch rate {
		case codetable.Rate3_5:
			mux = mux64_35
		case "1/3":
			mux = mux64_13
		case "2/5":
			mux = mux64_25
		default:
			mux = mux64
		}
	case demod.QAM256:
		twist = twistPick(short, twist256n, twist256s)
		if short {
			switch rate {
			case "1/3":
				mux = mux256s_13
			case "2/5":
				mux = mux256s_25
			default:
				mux = mux256s
			}
		} else {
			switch rate {
			case codetable.Rate3_5:
				mux = mux256_35
			case codetable.Rate2_3:
				mux = mux256_23
			default:
				mux = mux256
			}
		}
	}
	return twist, mux
}

func twistPick(short bool, normal, shortTbl []int) []int {
	if short {
		return shortTbl
	}
	return normal
}

// Apply permutes in according to p: out[i] = in[p[i]].
func Apply(p []int, in []int8) []int8 {
	out := make([]int8, len(in))
	for i, src := range p {
		out[i] = in[src]
	}
	return out
}

// ForwardParity applies the codeword-domain parity-bit interleave in
// the transmit direction: the inverse of InverseParity, used to
// re-interleave decoded bits for post-decode symbol reconstruction
// (spec.md section 4.5 step 4).
func ForwardParity(in []int8, k, q int) []int8 {
	out := make([]int8, len(in))
	copy(out, in)
	if q <= 0 {
		return out
	}
	for t := 0; t < q; t++ {
		for s := 0; s < 360; s++ {
			src := k + 360*t + s
			dst := k + q*s + t
			if dst >= len(in) || src >= len(in) {
				continue
			}
			out[dst] = in[src]
		}
	}
	return out
}

// InverseParity undoes the codeword-domain parity-bit interleave of
// spec.md section 4.4 step 3: bits k+360*t+s (0<=t<q, 0<=s<360) come
// from position k+q*s+t. Information bits (the first k) pass through
// unchanged. q == 0 is a no-op (VLSNR short-frame variants).
func InverseParity(in []int8, k, q int) []int8 {
	out := make([]int8, len(in))
	copy(out, in)
	if q <= 0 {
		return out
	}
	for t := 0; t < q; t++ {
		for s := 0; s < 360; s++ {
			dst := k + 360*t + s
			src := k + q*s + t
			if dst >= len(in) || src >= len(in) {
				continue
			}
			out[dst] = in[src]
		}
	}
	return out
}
