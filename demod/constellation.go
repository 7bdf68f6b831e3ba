/*
NAME
  constellation.go

DESCRIPTION
  constellation.go builds the five supported constellations (QPSK,
  8PSK, 16QAM, 64QAM, 256QAM) as unit-average-energy point sets with a
  Gray-coded bit-to-point mapping, the input the soft/hard demappers
  and the symbol mapper operate on.

AUTHOR
  dvbs2ldpc authors.

LICENSE
  Copyright (C) 2026 the dvbs2ldpc authors. All Rights Reserved.
*/

// Package demod implements soft and hard demapping of complex
// baseband symbols to LLRs for the constellations spec.md supports,
// plus the inverse symbol mapper used for post-decode SNR refinement.
package demod

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
)

// Modulation identifies one of the five supported constellations.
type Modulation int

// Supported constellations (spec.md section 1/6).
const (
	QPSK Modulation = iota
	PSK8
	QAM16
	QAM64
	QAM256
)

func (m Modulation) String() string {
	switch m {
	case QPSK:
		return "QPSK"
	case PSK8:
		return "8PSK"
	case QAM16:
		return "16QAM"
	case QAM64:
		return "64QAM"
	case QAM256:
		return "256QAM"
	default:
		return "unknown"
	}
}

// BitsPerSymbol returns the number of coded bits one symbol of m
// carries.
func (m Modulation) BitsPerSymbol() int {
	switch m {
	case QPSK:
		return 2
	case PSK8:
		return 3
	case QAM16:
		return 4
	case QAM64:
		return 6
	case QAM256:
		return 8
	default:
		return 0
	}
}

// Constellation is the unit-average-energy point set for one
// modulation, indexed by Gray-coded bit pattern: Points[p] is the
// symbol whose bits, MSB first, equal p.
type Constellation struct {
	Mod    Modulation
	Points []complex128
}

// grayCode returns the standard reflected binary Gray code of i.
func grayCode(i int) int { return i ^ (i >> 1) }

// New builds the Constellation for m.
func New(m Modulation) (Constellation, error) {
	switch m {
	case QPSK:
		return newPSK(m, 2), nil
	case PSK8:
		return newPSK(m, 3), nil
	case QAM16:
		return newSquareQAM(m, 4), nil
	case QAM64:
		return newSquareQAM(m, 6), nil
	case QAM256:
		return newSquareQAM(m, 8), nil
	default:
		return Constellation{}, errors.Errorf("demod: unsupported modulation %d", int(m))
	}
}

// newPSK builds a 2^bits-point phase-shift-keyed constellation with
// Gray-coded phase indices, unit magnitude (already unit average
// energy since all points lie on the unit circle).
func newPSK(mod Modulation, bits int) Constellation {
	m := 1 << bits
	points := make([]complex128, m)
	for p := 0; p < m; p++ {
		// Invert the Gray code so that index p (the bit pattern) maps
		// to phase index g such that grayCode(g) == p.
		g := inverseGray(p, bits)
		theta := 2 * math.Pi * (float64(g) + 0.5) / float64(m)
		points[p] = cmplx.Rect(1, theta)
	}
	return Constellation{Mod: mod, Points: points}
}

// inverseGray finds g in [0, 2^bits) such that grayCode(g) == target.
func inverseGray(target, bits int) int {
	for g := 0; g < (1 << bits); g++ {
		if grayCode(g) == target {
			return g
		}
	}
	return 0
}

// newSquareQAM builds a 2^bits-point square QAM constellation (bits
// must be even) with independent Gray coding on the I and Q axes,
// normalized to unit average energy.
func newSquareQAM(mod Modulation, bits int) Constellation {
	side := 1 << (bits / 2) // Points per axis.
	levels := make([]float64, side)
	for i := range levels {
		levels[i] = float64(2*i - (side - 1))
	}

	m := 1 << bits
	points := make([]complex128, m)
	half := bits / 2
	for p := 0; p < m; p++ {
		iBits := p >> half
		qBits := p & ((1 << half) - 1)
		iIdx := inverseGray(iBits, half)
		qIdx := inverseGray(qBits, half)
		points[p] = complex(levels[iIdx], levels[qIdx])
	}

	// Normalize to unit average energy.
	var energy float64
	for _, pt := range points {
		energy += real(pt)*real(pt) + imag(pt)*imag(pt)
	}
	avg := energy / float64(m)
	scale := 1 / math.Sqrt(avg)
	for i := range points {
		points[i] *= complex(scale, 0)
	}
	return Constellation{Mod: mod, Points: points}
}
