package codetable

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuiltinLookup(t *testing.T) {
	src := NewBuiltin()

	tests := []struct {
		name      string
		std       Standard
		fs        FrameSize
		rate      Rate
		wantK     int
		wantN     int
	}{
		{"s2 normal 3/4", S2, NORMAL, Rate3_4, 48600, 64800},
		{"s2 short 1/2", S2, SHORT, Rate1_2, 7200, 16200},
		{"s2 normal 3/5", S2, NORMAL, Rate3_5, 38880, 64800},
		{"s2 B6", S2, NORMAL, RateB6, 43200, 64800},
		{"t2 A3", T2, NORMAL, RateA3, 43200, 64800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := src.Lookup(tt.std, tt.fs, tt.rate)
			if err != nil {
				t.Fatalf("Lookup() error = %v", err)
			}
			if table.K != tt.wantK || table.N != tt.wantN {
				t.Errorf("Lookup() = (k=%d, n=%d), want (k=%d, n=%d)", table.K, table.N, tt.wantK, tt.wantN)
			}
			if err := table.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestS2AndT2TablesAreDistinct(t *testing.T) {
	src := NewBuiltin()
	s2, err := src.Lookup(S2, NORMAL, RateB6)
	if err != nil {
		t.Fatal(err)
	}
	t2, err := src.Lookup(T2, NORMAL, RateA3)
	if err != nil {
		t.Fatal(err)
	}
	if cmp.Equal(s2.Pos, t2.Pos) {
		t.Errorf("S2 B6 and T2 A3 tables should not be identical, got same Pos")
	}
}

func TestLookupUnsupportedMode(t *testing.T) {
	src := NewBuiltin()
	_, err := src.Lookup(S2, NORMAL, "9/10")
	if !errors.Is(err, ErrUnsupportedMode) {
		t.Errorf("Lookup() error = %v, want wrapping ErrUnsupportedMode", err)
	}
}

func TestQDerivedFromDimensions(t *testing.T) {
	// Regression for spec.md's open question: Q must always come from
	// (n-k)/360, never a per-rate switch that might leave q unset.
	table := Table{K: 48600, N: 64800}
	if got, want := table.Q(), 45; got != want {
		t.Errorf("Q() = %d, want %d", got, want)
	}
}

func TestValidateRejectsMismatchedPos(t *testing.T) {
	table := Table{
		K:    360,
		N:    720,
		Deg:  []int{3},
		Len:  []int{1},
		Pos:  []int{1, 2}, // Should be 3 entries.
	}
	if err := table.Validate(); err == nil {
		t.Error("Validate() = nil, want error for mismatched Pos length")
	}
}
