package deinterleave

import (
	"testing"

	"github.com/fsschiava/dvbs2ldpc/codetable"
	"github.com/fsschiava/dvbs2ldpc/demod"
)

func TestBuildInvolution(t *testing.T) {
	// spec.md section 8: interleaver involution — forward then
	// inverse is the identity on [0, n).
	tests := []struct {
		name string
		mod  demod.Modulation
		fs   codetable.FrameSize
		rate codetable.Rate
		n    int
	}{
		{"qpsk normal", demod.QPSK, codetable.NORMAL, codetable.Rate1_2, 64800},
		{"8psk 3/5", demod.PSK8, codetable.NORMAL, codetable.Rate3_5, 64800},
		{"16qam normal", demod.QAM16, codetable.NORMAL, codetable.Rate1_2, 64800},
		{"16qam short", demod.QAM16, codetable.SHORT, codetable.Rate1_2, 16200},
		{"64qam normal", demod.QAM64, codetable.NORMAL, codetable.Rate3_5, 64800},
		{"256qam normal", demod.QAM256, codetable.NORMAL, codetable.Rate3_5, 64800},
		{"256qam short", demod.QAM256, codetable.SHORT, codetable.Rate1_2, 16200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Build(tt.mod, tt.fs, tt.rate, tt.n)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			in := make([]int8, tt.n)
			for i := range in {
				in[i] = int8(i % 7)
			}
			transmitted := Apply(plan.Forward, in)
			recovered := Apply(plan.Inverse, transmitted)
			for i := range in {
				if recovered[i] != in[i] {
					t.Fatalf("involution failed at index %d: got %d, want %d", i, recovered[i], in[i])
				}
			}
		})
	}
}

func Test8PSKUsesRowaddr210ForRate3_5(t *testing.T) {
	plan, err := build8PSK(codetable.Rate3_5, 9)
	if err != nil {
		t.Fatal(err)
	}
	// With 3 rows, rowaddr210 maps output row 2 to codeword row 0.
	if plan.Forward[2*3+0] != 0*3+0 {
		t.Errorf("expected rowaddr210 rotation, forward[6] = %d", plan.Forward[6])
	}
}

func TestInverseParityIdentityWhenQZero(t *testing.T) {
	in := []int8{1, 2, 3, 4, 5}
	out := InverseParity(in, 2, 0)
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("InverseParity with q=0 changed bit %d", i)
		}
	}
}

func TestInverseParityMapping(t *testing.T) {
	k, q := 4, 2
	n := k + 360*q
	in := make([]int8, n)
	for i := range in {
		in[i] = int8(i % 127)
	}
	out := InverseParity(in, k, q)
	for t2 := 0; t2 < q; t2++ {
		for s := 0; s < 360; s++ {
			dst := k + 360*t2 + s
			src := k + q*s + t2
			if out[dst] != in[src] {
				t.Fatalf("InverseParity[%d] = %d, want in[%d] = %d", dst, out[dst], src, in[src])
			}
		}
	}
	for i := 0; i < k; i++ {
		if out[i] != in[i] {
			t.Errorf("information bit %d changed: got %d want %d", i, out[i], in[i])
		}
	}
}
