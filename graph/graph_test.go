package graph

import (
	"testing"

	"github.com/fsschiava/dvbs2ldpc/codetable"
)

func toyTable() codetable.Table {
	src := codetable.NewBuiltin()
	t, err := src.Lookup(codetable.S2, codetable.SHORT, "toy-1-2")
	if err != nil {
		panic(err)
	}
	return t
}

func TestExpandDimensions(t *testing.T) {
	table := toyTable()
	g, err := Expand(table)
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if len(g.VarChecks) != table.N {
		t.Errorf("len(VarChecks) = %d, want %d", len(g.VarChecks), table.N)
	}
	if len(g.CheckVars) != table.N-table.K {
		t.Errorf("len(CheckVars) = %d, want %d", len(g.CheckVars), table.N-table.K)
	}
}

func TestExpandEdgeSetRoundTrip(t *testing.T) {
	// spec.md section 8: code-table round trip property.
	g, err := Expand(toyTable())
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	if err := g.ValidateEdgeSet(); err != nil {
		t.Errorf("ValidateEdgeSet() error = %v", err)
	}
}

func TestExpandAllIndicesInRange(t *testing.T) {
	g, err := Expand(toyTable())
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	for c, vs := range g.CheckVars {
		for _, v := range vs {
			if v < 0 || v >= g.N {
				t.Errorf("check %d has out-of-range variable index %d (n=%d)", c, v, g.N)
			}
		}
	}
	for v, cs := range g.VarChecks {
		for _, c := range cs {
			if c < 0 || c >= g.N-g.K {
				t.Errorf("variable %d has out-of-range check index %d (n-k=%d)", v, c, g.N-g.K)
			}
		}
	}
}

func TestExpandEveryParityColumnHasEdges(t *testing.T) {
	g, err := Expand(toyTable())
	if err != nil {
		t.Fatalf("Expand() error = %v", err)
	}
	for v := g.K; v < g.N; v++ {
		if len(g.VarChecks[v]) == 0 {
			t.Errorf("parity column %d has no incident checks", v)
		}
	}
}

func TestExpandMalformedTable(t *testing.T) {
	bad := codetable.Table{
		K:   360,
		N:   720,
		Deg: []int{3},
		Len: []int{2}, // Claims 2 groups but k/360 == 1.
		Pos: []int{1, 2, 3, 4, 5, 6},
	}
	if _, err := Expand(bad); err == nil {
		t.Error("Expand() = nil error, want failure for malformed table")
	}
}
