/*
NAME
  pipeline.go

DESCRIPTION
  pipeline.go implements the Frame Pipeline and SNR Tracker of spec.md
  section 4.5: ingest batches of S frames of complex symbols, demap and
  deinterleave into the decoder's LLR buffer, decode, refine the SNR
  estimate from post-decode symbol reconstruction, and emit hard-
  decision packed bytes.

AUTHOR
  dvbs2ldpc authors.

LICENSE
  Copyright (C) 2026 the dvbs2ldpc authors. All Rights Reserved.
*/

// Package pipeline orchestrates the end-to-end per-batch decode flow
// and owns the running SNR tracker, mirroring the teacher's revid
// package's role as the top-level stream orchestrator.
package pipeline

import (
	"io"
	"math"

	"github.com/ausocean/utils/bitrate"
	"github.com/pkg/errors"

	"github.com/fsschiava/dvbs2ldpc/codetable"
	"github.com/fsschiava/dvbs2ldpc/deinterleave"
	"github.com/fsschiava/dvbs2ldpc/demod"
	"github.com/fsschiava/dvbs2ldpc/diag"
	"github.com/fsschiava/dvbs2ldpc/internal/logging"
	"github.com/fsschiava/dvbs2ldpc/ldpcdecoder"
	"github.com/fsschiava/dvbs2ldpc/modedesc"
	"github.com/fsschiava/dvbs2ldpc/snr"
)

// BatchResult describes one frame's diagnostics. Pipeline does not
// produce BatchResult values: per-frame diagnostics go to the logger
// when InfoMode is VERBOSE and to an attached diag.Recorder.
type BatchResult struct {
	FrameIndex  int
	SNRdB       float64
	TrialsUsed  int // -1 means max trials were exhausted without convergence.
	OutputBytes []byte
}

// Pipeline owns every piece of shared mutable state spec.md section 5
// confines to one decoder instance: the descriptor-bound message
// buffer, the interleaver plan, the SNR tracker, and the batch LLR
// scratch buffer. Hard-decision bytes are allocated per frame by
// packBits. No state is shared across Pipeline instances.
type Pipeline struct {
	desc *modedesc.Descriptor
	cfg  Config
	ws   *ldpcdecoder.Workspace

	tracker  *snr.Tracker
	logger   logging.Logger
	meter    bitrate.Calculator
	recorder *diag.Recorder

	frameIndex int

	llrBatch []int8 // scratch: S frames x N LLRs, frame-major.
}

// New constructs a Pipeline for cfg against src, validating cfg and
// resolving its Mode Descriptor (spec.md section 7(a): configuration
// errors and malformed code tables surface here as construction
// failures, never at decode time).
func New(cfg Config, src codetable.Source, logger logging.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "pipeline: invalid config")
	}
	if logger == nil {
		logger = logging.Discard{}
	}

	desc, err := modedesc.Resolve(modedesc.Config{
		Standard:      cfg.Standard,
		FrameSize:     cfg.FrameSize,
		Rate:          cfg.Rate,
		Constellation: cfg.Constellation,
		OutputMode:    cfg.OutputMode,
		InfoMode:      cfg.InfoMode,
		MaxTrials:     cfg.MaxTrials,
		SIMDWidth:     cfg.SIMDWidth,
	}, src)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: could not resolve mode descriptor")
	}

	ws, err := ldpcdecoder.Init(desc.Graph, cfg.SIMDWidth)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: could not init decoder workspace")
	}

	return &Pipeline{
		desc:     desc,
		cfg:      cfg,
		ws:       ws,
		tracker:  snr.New(),
		logger:   logger,
		llrBatch: make([]int8, desc.Table.N*cfg.SIMDWidth),
	}, nil
}

// SetRecorder attaches a diag.Recorder that receives one diag.Sample
// per decoded frame, independent of InfoMode (the recorder is for
// offline chart rendering, not live logging). A nil recorder detaches
// any previously attached one.
func (p *Pipeline) SetRecorder(r *diag.Recorder) { p.recorder = r }

// Descriptor returns the resolved Mode Descriptor, exposed for
// callers that need to size their own I/O buffers (e.g. cmd/
// binaries computing SymbolsPerFrame/OutputBytes up front).
func (p *Pipeline) Descriptor() *modedesc.Descriptor { return p.desc }

// ProcessBatch consumes exactly SIMDWidth*SymbolsPerFrame complex
// symbols from symbols and writes SIMDWidth frames of hard-decision
// bytes to w, implementing spec.md section 4.5 steps 1-6. It returns
// the number of symbols consumed.
func (p *Pipeline) ProcessBatch(symbols []complex128, w io.Writer) (int, error) {
	width := p.cfg.SIMDWidth
	spf := p.desc.SymbolsPerFrame()
	need := width * spf
	if len(symbols) < need {
		return 0, nil // Undersized input: zero batches produced, not an error.
	}

	if !p.tracker4Primed() {
		p.primeFromResiduals(symbols[:need])
	}

	n := p.desc.Table.N
	for frame := 0; frame < width; frame++ {
		frameSymbols := symbols[frame*spf : (frame+1)*spf]
		p.demapAndDeinterleave(frameSymbols, p.llrBatch[frame*n:(frame+1)*n])
	}

	trialsRemaining := ldpcdecoder.Decode(p.ws, p.llrBatch, p.cfg.MaxTrials)

	symbolErr := make([]float64, width)
	symbolEnergy := make([]float64, width)
	for frame := 0; frame < width; frame++ {
		frameSymbols := symbols[frame*spf : (frame+1)*spf]
		symbolEnergy[frame], symbolErr[frame] = p.reconstructAndMeasure(frameSymbols, p.llrBatch[frame*n:(frame+1)*n])
	}
	p.tracker.Update(symbolEnergy, symbolErr)

	outLen := p.desc.OutputBytes()
	for frame := 0; frame < width; frame++ {
		frameLLR := p.llrBatch[frame*n : (frame+1)*n]
		out := packBits(frameLLR, outLen)
		if _, err := w.Write(out); err != nil {
			return need, errors.Wrap(err, "pipeline: write failed")
		}
		p.meter.Report(len(out))
		p.logFrame(trialsRemaining)
		p.recordFrame(trialsRemaining)
		p.frameIndex++
	}
	return need, nil
}

func (p *Pipeline) tracker4Primed() bool {
	// Exposed via an accessor rather than a field check so future
	// multi-batch priming strategies have one place to change.
	return p.frameIndex > 0
}

// primeFromResiduals implements spec.md section 4.5 step 1: derive
// the initial SNR estimate from hard-decision residuals of the raw,
// still-interleaved first batch of symbols.
func (p *Pipeline) primeFromResiduals(symbols []complex128) {
	c := p.desc.Constellation
	var sigEnergy, errEnergy float64
	for _, z := range symbols {
		s := demod.HardDemap(c, z)
		sigEnergy += real(s)*real(s) + imag(s)*imag(s)
		d := z - s
		errEnergy += real(d)*real(d) + imag(d)*imag(d)
	}
	p.tracker.Prime([]float64{sigEnergy}, []float64{errEnergy})
}

// demapAndDeinterleave implements spec.md section 4.5 step 2 for one
// frame: demap each symbol to LLRs at the transmit-order position,
// then invert the twist/mux/row-rotation permutation and, where this
// mode's interleaver applies one (16/64/256QAM, and T2 QPSK rates 1/3
// and 2/5), the codeword-domain parity interleave, to produce
// codeword-order LLRs in dst. Plain QPSK and 8PSK never run the
// parity step, independent of the table's q value.
func (p *Pipeline) demapAndDeinterleave(symbols []complex128, dst []int8) {
	bps := p.desc.BitsPerSymbol
	wire := make([]int8, len(symbols)*bps)
	precision := p.tracker.Precision()
	for i, z := range symbols {
		bits := demod.SoftDemap(p.desc.Constellation, z, precision)
		copy(wire[i*bps:(i+1)*bps], bits)
	}

	var afterTwistMux []int8
	if p.desc.UsesParityInterleaveOnly() {
		afterTwistMux = wire
	} else {
		afterTwistMux = deinterleave.Apply(p.desc.Interleaver.Inverse, wire)
	}

	if !p.desc.UsesParityInterleave() {
		copy(dst, afterTwistMux)
		return
	}
	codewordOrder := deinterleave.InverseParity(afterTwistMux, p.desc.Table.K, p.desc.Q)
	copy(dst, codewordOrder)
}

// reconstructAndMeasure implements spec.md section 4.5 step 4: form
// the sign vector from decoded LLRs, re-interleave it into transmit
// order, remap through the constellation, and accumulate signal and
// error energy against the original received symbols.
func (p *Pipeline) reconstructAndMeasure(symbols []complex128, decodedLLR []int8) (signalEnergy, errorEnergy float64) {
	wirePreTwistMux := decodedLLR
	if p.desc.UsesParityInterleave() {
		wirePreTwistMux = deinterleave.ForwardParity(decodedLLR, p.desc.Table.K, p.desc.Q)
	}

	var wire []int8
	if p.desc.UsesParityInterleaveOnly() {
		wire = wirePreTwistMux
	} else {
		wire = deinterleave.Apply(p.desc.Interleaver.Forward, wirePreTwistMux)
	}

	bps := p.desc.BitsPerSymbol
	for i, z := range symbols {
		bits := wire[i*bps : (i+1)*bps]
		s := demod.Map(p.desc.Constellation, bits)
		signalEnergy += real(s)*real(s) + imag(s)*imag(s)
		d := z - s
		errorEnergy += real(d)*real(d) + imag(d)*imag(d)
	}
	return signalEnergy, errorEnergy
}

// packBits MSB-first packs the sign bits of llr[:bits] into
// ceil(bits/8) bytes (spec.md section 8: byte packing property). bits
// is the bit count (outLen*8); llr holds at least that many entries.
func packBits(llr []int8, outLen int) []byte {
	out := make([]byte, outLen)
	for i := 0; i < outLen*8; i++ {
		if llr[i] < 0 {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}

func (p *Pipeline) logFrame(trialsRemaining int) {
	if p.cfg.InfoMode != modedesc.VERBOSE {
		return
	}
	var trials interface{} = "max"
	if trialsRemaining >= 0 {
		trials = p.cfg.MaxTrials - trialsRemaining
	}
	p.logger.Info("frame decoded", "frame", p.frameIndex, "snr_db", p.snrDB(), "trials", trials)
}

func (p *Pipeline) recordFrame(trialsRemaining int) {
	if p.recorder == nil {
		return
	}
	trialsUsed := -1
	if trialsRemaining >= 0 {
		trialsUsed = p.cfg.MaxTrials - trialsRemaining
	}
	p.recorder.Record(diag.Sample{FrameIndex: p.frameIndex, SNRdB: p.snrDB(), TrialsUsed: trialsUsed})
}

func (p *Pipeline) snrDB() float64 {
	snrLinear := p.tracker.SNRLinear()
	if snrLinear <= 0 {
		return 0
	}
	return 10 * math.Log10(snrLinear)
}
