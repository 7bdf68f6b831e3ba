package pipeline

import (
	"bytes"
	"testing"

	"github.com/fsschiava/dvbs2ldpc/codetable"
	"github.com/fsschiava/dvbs2ldpc/deinterleave"
	"github.com/fsschiava/dvbs2ldpc/demod"
	"github.com/fsschiava/dvbs2ldpc/diag"
	"github.com/fsschiava/dvbs2ldpc/modedesc"
)

// toySource returns the builtin registry holding the hand-verifiable
// toy-1-2 scenario (k=360, n=720, q=1) that ldpcdecoder's own tests
// use, kept small enough for a pipeline-level test to synthesize
// symbols for by hand.
func toySource() codetable.Source { return codetable.NewBuiltin() }

// allZeroQPSKSymbols builds width frames worth of QPSK symbols for the
// all-zero codeword: every codeword bit is 0, so the forward
// parity-interleave and twist/mux permutations are irrelevant (they
// only reorder zeros), and the resulting symbols are all the same
// constellation point.
func allZeroQPSKSymbols(c demod.Constellation, n, width int) []complex128 {
	bits := make([]int8, n)
	symbols := make([]complex128, 0, width*n/2)
	for f := 0; f < width; f++ {
		for i := 0; i < n; i += 2 {
			symbols = append(symbols, demod.Map(c, bits[i:i+2]))
		}
	}
	return symbols
}

func TestProcessBatchAllZeroCodewordDecodesToZeroBytes(t *testing.T) {
	cfg := Config{
		Standard:      codetable.S2,
		FrameSize:     codetable.SHORT,
		Rate:          "toy-1-2",
		Constellation: demod.QPSK,
		OutputMode:    modedesc.CODEWORD,
		SIMDWidth:     16,
	}
	p, err := New(cfg, toySource(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	desc := p.Descriptor()

	symbols := allZeroQPSKSymbols(desc.Constellation, desc.Table.N, cfg.SIMDWidth)

	var out bytes.Buffer
	consumed, err := p.ProcessBatch(symbols, &out)
	if err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}
	if consumed != len(symbols) {
		t.Fatalf("ProcessBatch() consumed %d symbols, want %d", consumed, len(symbols))
	}

	wantLen := cfg.SIMDWidth * desc.OutputBytes()
	if out.Len() != wantLen {
		t.Fatalf("output length = %d, want %d", out.Len(), wantLen)
	}
	for i, b := range out.Bytes() {
		if b != 0x00 {
			t.Fatalf("output byte %d = %#x, want 0x00 for all-zero codeword", i, b)
		}
	}
}

func TestProcessBatchMessageModeByteLength(t *testing.T) {
	cfg := Config{
		Standard:      codetable.S2,
		FrameSize:     codetable.SHORT,
		Rate:          "toy-1-2",
		Constellation: demod.QPSK,
		OutputMode:    modedesc.MESSAGE,
		SIMDWidth:     16,
	}
	p, err := New(cfg, toySource(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	desc := p.Descriptor()
	symbols := allZeroQPSKSymbols(desc.Constellation, desc.Table.N, cfg.SIMDWidth)

	var out bytes.Buffer
	if _, err := p.ProcessBatch(symbols, &out); err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}

	wantLen := cfg.SIMDWidth * (desc.Table.K / 8)
	if out.Len() != wantLen {
		t.Fatalf("output length = %d, want %d (message mode, K=%d)", out.Len(), wantLen, desc.Table.K)
	}
}

func TestProcessBatchUndersizedInputConsumesNothing(t *testing.T) {
	cfg := Config{
		Standard:      codetable.S2,
		FrameSize:     codetable.SHORT,
		Rate:          "toy-1-2",
		Constellation: demod.QPSK,
		SIMDWidth:     16,
	}
	p, err := New(cfg, toySource(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	var out bytes.Buffer
	consumed, err := p.ProcessBatch([]complex128{1, 2, 3}, &out)
	if err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}
	if consumed != 0 {
		t.Errorf("ProcessBatch() consumed = %d, want 0 for undersized input", consumed)
	}
	if out.Len() != 0 {
		t.Errorf("ProcessBatch() wrote %d bytes, want 0 for undersized input", out.Len())
	}
}

func TestProcessBatchUpdatesSNRTracker(t *testing.T) {
	cfg := Config{
		Standard:      codetable.S2,
		FrameSize:     codetable.SHORT,
		Rate:          "toy-1-2",
		Constellation: demod.QPSK,
		SIMDWidth:     16,
	}
	p, err := New(cfg, toySource(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	desc := p.Descriptor()
	symbols := allZeroQPSKSymbols(desc.Constellation, desc.Table.N, cfg.SIMDWidth)

	var out bytes.Buffer
	if _, err := p.ProcessBatch(symbols, &out); err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}
	if got := p.tracker.SNRLinear(); got <= 0 {
		t.Errorf("SNRLinear() after a clean batch = %v, want positive", got)
	}
}

func TestSetRecorderCapturesOneSamplePerFrame(t *testing.T) {
	cfg := Config{
		Standard:      codetable.S2,
		FrameSize:     codetable.SHORT,
		Rate:          "toy-1-2",
		Constellation: demod.QPSK,
		SIMDWidth:     16,
	}
	p, err := New(cfg, toySource(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	var rec diag.Recorder
	p.SetRecorder(&rec)

	desc := p.Descriptor()
	symbols := allZeroQPSKSymbols(desc.Constellation, desc.Table.N, cfg.SIMDWidth)
	var out bytes.Buffer
	if _, err := p.ProcessBatch(symbols, &out); err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}

	if got, want := len(rec.Samples()), cfg.SIMDWidth; got != want {
		t.Errorf("len(Samples()) = %d, want %d (one per frame)", got, want)
	}
}

// TestInterleavePermutationsRoundTrip checks the permutation chain the
// pipeline uses for spec.md section 4.5 steps 2 and 4: a non-zero,
// shifted-bit codeword passed through ForwardParity and the plan's
// Forward permutation, then through the plan's Inverse permutation and
// InverseParity, must come back with the same bit signs. It calls the
// deinterleave functions directly; no symbols are demapped.
func TestInterleavePermutationsRoundTrip(t *testing.T) {
	src := toySource()
	table, err := src.Lookup(codetable.S2, codetable.SHORT, "toy-1-2")
	if err != nil {
		t.Fatal(err)
	}
	c, err := demod.New(demod.QPSK)
	if err != nil {
		t.Fatal(err)
	}
	plan, err := deinterleave.Build(demod.QPSK, codetable.SHORT, "toy-1-2", table.N)
	if err != nil {
		t.Fatal(err)
	}

	codeword := make([]int8, table.N)
	for i := range codeword {
		if i%5 == 0 {
			codeword[i] = -1
		}
	}

	q := table.Q()
	transmitOrder := deinterleave.Apply(plan.Forward, deinterleave.ForwardParity(codeword, table.K, q))
	recovered := deinterleave.InverseParity(deinterleave.Apply(plan.Inverse, transmitOrder), table.K, q)

	for i := range codeword {
		if (codeword[i] < 0) != (recovered[i] < 0) {
			t.Fatalf("bit %d: got sign of %d, want sign of %d", i, recovered[i], codeword[i])
		}
	}
}
