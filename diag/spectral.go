/*
NAME
  spectral.go

DESCRIPTION
  spectral.go provides an alternate, independent N0 estimate computed
  directly from a block of received symbols via their power spectrum,
  for cross-checking snr.Tracker's residual-based estimate (spec.md
  section 4.7: Diagnostics, a supplemented feature beyond spec.md's
  core scope).

AUTHOR
  dvbs2ldpc authors.

LICENSE
  Copyright (C) 2026 the dvbs2ldpc authors. All Rights Reserved.
*/

// Package diag holds cross-check estimators and recording tools that
// sit alongside the decode path without being in its critical path:
// nothing in codetable, graph, ldpcdecoder, demod, deinterleave or
// modedesc imports this package, and pipeline imports it only to feed
// an attached Recorder.
package diag

import (
	"math"
	"sort"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// SpectralN0 estimates the noise spectral density from the real part
// of a block of received symbols by windowing, taking the power
// spectrum, and using the median bin power as a noise-floor proxy
// (signal energy concentrates in a minority of bins; noise spreads
// across all of them). It is intentionally independent of any
// decoded bits, so it can disagree with snr.Tracker without either
// being wrong.
func SpectralN0(symbols []complex128) float64 {
	if len(symbols) == 0 {
		return 0
	}

	re := make([]float64, len(symbols))
	win := window.Hann(len(symbols))
	for i, z := range symbols {
		re[i] = real(z) * win[i]
	}

	spectrum := fft.FFTReal(re)
	power := make([]float64, len(spectrum))
	for i, c := range spectrum {
		power[i] = real(c)*real(c) + imag(c)*imag(c)
	}

	sorted := append([]float64(nil), power...)
	sort.Float64s(sorted)
	median := sorted[len(sorted)/2]

	// Scale the per-bin median back to a total noise energy estimate.
	return median * float64(len(power)) / float64(len(symbols))
}

// SpectralSNRdB reports 10*log10(signal/noise) using SpectralN0 as
// the noise term and the block's mean power as the signal+noise term,
// matching the convention snr.Tracker.SNRLinear uses for its own
// dB conversion in pipeline's verbose logging.
func SpectralSNRdB(symbols []complex128) float64 {
	n0 := SpectralN0(symbols)
	if n0 <= 0 {
		return 0
	}
	var total float64
	for _, z := range symbols {
		total += real(z)*real(z) + imag(z)*imag(z)
	}
	mean := total / float64(len(symbols))
	ratio := mean / n0
	if ratio <= 0 {
		return 0
	}
	return 10 * math.Log10(ratio)
}
