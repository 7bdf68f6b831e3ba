/*
NAME
  modedesc.go

DESCRIPTION
  modedesc.go implements the tagged-variant Mode Descriptor design note
  (spec.md section 9): construction-time resolution of the code table,
  expanded graph, interleaver plan and constellation. The descriptor
  holds this data, not bound function values: demod's functions and
  the descriptor's UsesParityInterleave* methods still branch on the
  modulation or rate at each call.

AUTHOR
  dvbs2ldpc authors.

LICENSE
  Copyright (C) 2026 the dvbs2ldpc authors. All Rights Reserved.
*/

// Package modedesc resolves a construction-time Mode Descriptor: the
// code table, Tanner graph, interleaver plan and constellation for one
// (standard, framesize, rate, constellation) selection.
package modedesc

import (
	"github.com/pkg/errors"

	"github.com/fsschiava/dvbs2ldpc/codetable"
	"github.com/fsschiava/dvbs2ldpc/deinterleave"
	"github.com/fsschiava/dvbs2ldpc/demod"
	"github.com/fsschiava/dvbs2ldpc/graph"
)

// OutputMode selects whether decoded output is the full codeword or
// just the information message.
type OutputMode int

// Supported output modes (spec.md section 6).
const (
	CODEWORD OutputMode = iota
	MESSAGE
)

// InfoMode selects diagnostic verbosity.
type InfoMode int

// Supported diagnostic verbosity levels.
const (
	QUIET InfoMode = iota
	VERBOSE
)

// Config is the closed set of construction parameters spec.md section
// 6 defines.
type Config struct {
	Standard      codetable.Standard
	FrameSize     codetable.FrameSize
	Rate          codetable.Rate
	Constellation demod.Modulation
	OutputMode    OutputMode
	InfoMode      InfoMode
	MaxTrials     int
	SIMDWidth     int
}

// Descriptor is the resolved, immutable mode configuration bound once
// at construction: the selected code table, its expanded Tanner
// graph, the interleaver plan, and the constellation used for
// soft/hard demapping and post-decode remapping.
type Descriptor struct {
	Config Config

	Table        codetable.Table
	Graph        *graph.Graph
	Interleaver  *deinterleave.Plan
	Constellation demod.Constellation

	BitsPerSymbol int
	Q             int
}

// Resolve builds a Descriptor from cfg and src, performing the single
// switch-ladder dispatch this repository allows: table lookup, graph
// expansion, interleaver plan construction and constellation
// selection. A construction failure here is spec.md section 7's
// "configuration error" or "malformed code table" kind.
func Resolve(cfg Config, src codetable.Source) (*Descriptor, error) {
	if cfg.SIMDWidth <= 0 {
		return nil, errors.New("modedesc: simd width must be positive")
	}

	table, err := src.Lookup(cfg.Standard, cfg.FrameSize, cfg.Rate)
	if err != nil {
		return nil, errors.Wrap(err, "modedesc: code table lookup failed")
	}
	if err := table.Validate(); err != nil {
		return nil, errors.Wrap(err, "modedesc: code table invalid")
	}

	g, err := graph.Expand(table)
	if err != nil {
		return nil, errors.Wrap(err, "modedesc: graph expansion failed")
	}

	c, err := demod.New(cfg.Constellation)
	if err != nil {
		return nil, errors.Wrap(err, "modedesc: constellation construction failed")
	}

	plan, err := deinterleave.Build(cfg.Constellation, cfg.FrameSize, cfg.Rate, table.N)
	if err != nil {
		return nil, errors.Wrap(err, "modedesc: interleaver plan construction failed")
	}

	return &Descriptor{
		Config:        cfg,
		Table:         table,
		Graph:         g,
		Interleaver:   plan,
		Constellation: c,
		BitsPerSymbol: cfg.Constellation.BitsPerSymbol(),
		Q:             table.Q(),
	}, nil
}

// OutputBytes returns the number of output bytes one decoded frame
// produces: k/8 in MESSAGE mode, n/8 in CODEWORD mode.
func (d *Descriptor) OutputBytes() int {
	if d.Config.OutputMode == MESSAGE {
		return d.Table.K / 8
	}
	return d.Table.N / 8
}

// SymbolsPerFrame returns N/bitsPerSymbol, the number of input symbols
// one frame consumes.
func (d *Descriptor) SymbolsPerFrame() int {
	return d.Table.N / d.BitsPerSymbol
}

// UsesParityInterleaveOnly reports whether this mode's QPSK T2
// exception (spec.md section 4.4 step 5) applies: rates 1/3 and 2/5 at
// QPSK in T2 apply only the parity-bit interleave, never the
// identity-permutation twist/mux path other QPSK modes take.
func (d *Descriptor) UsesParityInterleaveOnly() bool {
	if d.Config.Constellation != demod.QPSK || d.Config.Standard != codetable.T2 {
		return false
	}
	return d.Config.Rate == "1/3" || d.Config.Rate == "2/5"
}

// UsesParityInterleave reports whether the codeword-domain parity-bit
// interleave runs at all for this mode (spec.md section 4.4 step 5):
// always for 16/64/256QAM, and for QPSK only the T2 1/3, 2/5
// exception UsesParityInterleaveOnly names. Plain QPSK (any standard,
// any other rate) and 8PSK never apply it, regardless of the table's
// q value.
func (d *Descriptor) UsesParityInterleave() bool {
	switch d.Config.Constellation {
	case demod.QAM16, demod.QAM64, demod.QAM256:
		return true
	case demod.QPSK:
		return d.UsesParityInterleaveOnly()
	default:
		return false
	}
}
