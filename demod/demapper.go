/*
NAME
  demapper.go

DESCRIPTION
  demapper.go implements soft demapping (complex symbol + precision ->
  per-bit LLRs), hard demapping (complex symbol -> nearest constellation
  point) and symbol mapping (bit pattern -> exact constellation point),
  the three operations spec.md section 4.4 requires.

AUTHOR
  dvbs2ldpc authors.

LICENSE
  Copyright (C) 2026 the dvbs2ldpc authors. All Rights Reserved.
*/

package demod

import (
	"math/cmplx"

	"github.com/fsschiava/dvbs2ldpc/internal/satmath"
)

// SoftDemap computes BitsPerSymbol int8 LLRs for symbol z at the given
// LLR scaling precision, clipped to the saturated int8 range. Bit 0 of
// the result is the MSB of the constellation's bit-pattern index.
//
// QPSK uses the closed-form ideal Gray LLRs precision*Im{z} and
// precision*Re{z} (spec.md section 4.4): in this package's QPSK
// labeling the MSB selects the sign of the imaginary part and the LSB
// the sign of the real part. Every other modulation uses the standard
// max-log approximation over the constellation's Gray labeling, which
// for Gray QPSK gives the same signs as the closed form.
func SoftDemap(c Constellation, z complex128, precision float64) []int8 {
	if c.Mod == QPSK {
		return []int8{
			satmath.FromFloat(precision * imag(z)),
			satmath.FromFloat(precision * real(z)),
		}
	}
	return maxLogDemap(c, z, precision)
}

func maxLogDemap(c Constellation, z complex128, precision float64) []int8 {
	bits := bitsPerSymbolFor(c)
	llrs := make([]int8, bits)
	for k := 0; k < bits; k++ {
		bitpos := bits - 1 - k // Bit k is the k-th MSB.
		var minZero, minOne = maxFloat, maxFloat
		for p, pt := range c.Points {
			d := sqDist(z, pt)
			if (p>>bitpos)&1 == 0 {
				if d < minZero {
					minZero = d
				}
			} else {
				if d < minOne {
					minOne = d
				}
			}
		}
		llrs[k] = satmath.FromFloat(precision * (minOne - minZero) / 2)
	}
	return llrs
}

const maxFloat = 1e300

func sqDist(a, b complex128) float64 {
	d := a - b
	return real(d)*real(d) + imag(d)*imag(d)
}

func bitsPerSymbolFor(c Constellation) int {
	n := len(c.Points)
	bits := 0
	for 1<<bits < n {
		bits++
	}
	return bits
}

// HardDemap returns the constellation point nearest z, the "hard"
// mapper of spec.md section 4.4, used to derive the initial SNR
// estimate and for post-decode symbol reconstruction.
func HardDemap(c Constellation, z complex128) complex128 {
	best := c.Points[0]
	bestDist := sqDist(z, best)
	for _, pt := range c.Points[1:] {
		d := sqDist(z, pt)
		if d < bestDist {
			bestDist = d
			best = pt
		}
	}
	return best
}

// Map takes a sign vector (one int8 per bit, negative meaning bit 1)
// and returns the exact constellation point with that bit pattern,
// spec.md's "map" mapper used for post-decode SNR refinement.
func Map(c Constellation, bits []int8) complex128 {
	bps := bitsPerSymbolFor(c)
	idx := 0
	for k := 0; k < bps; k++ {
		bit := 0
		if bits[k] < 0 {
			bit = 1
		}
		idx = (idx << 1) | bit
	}
	return c.Points[idx]
}

// Distance returns |a-b|.
func Distance(a, b complex128) float64 { return cmplx.Abs(a - b) }
