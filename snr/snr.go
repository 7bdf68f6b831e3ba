/*
NAME
  snr.go

DESCRIPTION
  snr.go implements the process-wide SNR state of spec.md section 3:
  snr_linear, derived N0 and the LLR scaling constant precision, updated
  every batch from post-decode symbol reconstruction residuals.

AUTHOR
  dvbs2ldpc authors.

LICENSE
  Copyright (C) 2026 the dvbs2ldpc authors. All Rights Reserved.
*/

// Package snr tracks the running SNR/N0 estimate used to scale LLRs
// for the next batch, refined every batch from hard/soft-decision
// symbol residuals (spec.md section 4.5).
package snr

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Factor is the constant FACTOR in precision = Factor/(N0/2).
const Factor = 2.0

// Tracker holds the mutable SNR state. The zero value is not ready for
// use; construct with New.
type Tracker struct {
	snrLinear float64
	n0        float64
	precision float64
	primed    bool // True once the first-batch hard-decision estimate has been taken.
}

// New returns a Tracker with a conservative initial estimate; the
// first batch overwrites it via Prime.
func New() *Tracker {
	t := &Tracker{snrLinear: 1}
	t.recompute()
	return t
}

// es is the assumed average symbol energy (unit, per spec.md section
// 6 "unit average symbol energy assumed").
const es = 1.0

func (t *Tracker) recompute() {
	t.n0 = es / t.snrLinear
	t.precision = Factor / (t.n0 / 2)
}

// Prime derives the initial SNR estimate from hard-decision residuals
// of the first batch only (spec.md section 4.5 step 1):
// snr = sum(|s|^2) / sum(|z-s|^2).
func (t *Tracker) Prime(symbolEnergy, errorEnergy []float64) {
	if t.primed {
		return
	}
	t.update(symbolEnergy, errorEnergy)
	t.primed = true
}

// Update folds the per-frame (symbolEnergy, errorEnergy) sample pairs
// of one batch's S lanes into the running SNR estimate and
// recalculates N0 and precision for the next batch. Each slice holds
// one sample per lane.
func (t *Tracker) Update(symbolEnergy, errorEnergy []float64) {
	t.update(symbolEnergy, errorEnergy)
}

func (t *Tracker) update(symbolEnergy, errorEnergy []float64) {
	if len(symbolEnergy) == 0 {
		return
	}
	perLane := make([]float64, len(symbolEnergy))
	for i := range perLane {
		if errorEnergy[i] <= 0 {
			perLane[i] = t.snrLinear
			continue
		}
		perLane[i] = symbolEnergy[i] / errorEnergy[i]
	}
	mean := stat.Mean(perLane, nil)
	if mean <= 0 || floats.HasNaN(perLane) {
		return
	}
	t.snrLinear = mean
	t.recompute()
}

// SNRLinear returns the current linear SNR estimate.
func (t *Tracker) SNRLinear() float64 { return t.snrLinear }

// N0 returns the current noise spectral density estimate.
func (t *Tracker) N0() float64 { return t.n0 }

// Precision returns the current LLR scaling constant.
func (t *Tracker) Precision() float64 { return t.precision }
