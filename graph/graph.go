/*
NAME
  graph.go

DESCRIPTION
  graph.go expands a codetable.Table into the full quasi-cyclic Tanner
  graph: variable-node and check-node adjacency lists of code length n
  and information length k.

AUTHOR
  dvbs2ldpc authors.

LICENSE
  Copyright (C) 2026 the dvbs2ldpc authors. All Rights Reserved.
*/

// Package graph expands a compressed LDPC code table into a full
// bipartite Tanner graph ready for the min-sum decoder engine.
package graph

import (
	"github.com/pkg/errors"

	"github.com/fsschiava/dvbs2ldpc/codetable"
)

// blockRows is the fixed quasi-cyclic block period used by all DVB-S2/
// S2X/T2 code tables.
const blockRows = 360

// ErrMalformedTable is returned when expansion produces a variable or
// check node index out of range.
var ErrMalformedTable = errors.New("graph: malformed code table")

// Graph is the expanded Tanner graph for one code table. CheckVars[c]
// lists the variable-node indices incident to check node c; VarChecks[v]
// lists the check-node indices incident to variable node v. The two
// adjacency lists describe the same bipartite edge set.
type Graph struct {
	K int
	N int
	Q int

	CheckVars [][]int // len n-k
	VarChecks [][]int // len n
}

// NumEdges returns the total edge count, counted from the check side.
func (g *Graph) NumEdges() int {
	n := 0
	for _, vs := range g.CheckVars {
		n += len(vs)
	}
	return n
}

// Expand builds the Tanner graph described by t. It walks t.Pos with a
// cursor: for each block-degree group b, it repeats t.Len[b] times,
// each repetition consuming t.Deg[b] consecutive seeds from t.Pos and
// emitting blockRows consecutive information-bit columns. Row r (0 <=
// r < blockRows) of a repetition connects information column
// (groupColumn+r) to check rows (seed+r*q) mod (n-k) for every seed in
// the repetition, plus the standard DVB accumulate structure for the
// parity columns: check row i connects to parity column k+i and, for
// i>0, to the previous parity column k+i-1 (the bidiagonal matching
// the recursive parity accumulator the encoder builds; row 0 has no
// previous parity column).
func Expand(t codetable.Table) (*Graph, error) {
	if err := t.Validate(); err != nil {
		return nil, errors.Wrap(err, "graph: invalid table")
	}

	q := t.Q()
	numChecks := t.N - t.K
	g := &Graph{
		K:         t.K,
		N:         t.N,
		Q:         q,
		CheckVars: make([][]int, numChecks),
		VarChecks: make([][]int, t.N),
	}

	addEdge := func(check, v int) error {
		if check < 0 || check >= numChecks || v < 0 || v >= t.N {
			return errors.Wrapf(ErrMalformedTable, "edge (check=%d, var=%d) out of range (checks=%d, n=%d)", check, v, numChecks, t.N)
		}
		g.CheckVars[check] = append(g.CheckVars[check], v)
		g.VarChecks[v] = append(g.VarChecks[v], check)
		return nil
	}

	cursor := 0
	column := 0
	for b, deg := range t.Deg {
		for rep := 0; rep < t.Len[b]; rep++ {
			if cursor+deg > len(t.Pos) {
				return nil, errors.Wrapf(ErrMalformedTable, "ran out of Pos entries at block %d rep %d", b, rep)
			}
			seeds := t.Pos[cursor : cursor+deg]
			cursor += deg

			for r := 0; r < blockRows; r++ {
				col := column + r
				if col >= t.K {
					return nil, errors.Wrapf(ErrMalformedTable, "information column %d exceeds k=%d", col, t.K)
				}
				for _, seed := range seeds {
					check := seed
					if q > 0 {
						check = (seed + r*q) % numChecks
					} else {
						check = seed % numChecks
					}
					if err := addEdge(check, col); err != nil {
						return nil, err
					}
				}
			}
			column += blockRows
		}
	}
	if column != t.K {
		return nil, errors.Wrapf(ErrMalformedTable, "expansion covered %d information columns, want k=%d", column, t.K)
	}

	// Parity accumulate structure: row i connects to parity column
	// k+i and, for i>0, to the previous parity column k+i-1, forming
	// the bidiagonal the DVB-S2/T2 encoder's recursive accumulator
	// implies.
	for i := 0; i < numChecks; i++ {
		if err := addEdge(i, t.K+i); err != nil {
			return nil, err
		}
		if i > 0 {
			if err := addEdge(i, t.K+i-1); err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

// ValidateEdgeSet checks that the variable-adjacency and check-adjacency
// describe the same edge multiset, i.e. |E_v| = |E_c| counted both
// ways (spec.md section 8, code-table round trip property).
func (g *Graph) ValidateEdgeSet() error {
	var fromChecks int
	for _, vs := range g.CheckVars {
		fromChecks += len(vs)
	}
	var fromVars int
	for _, cs := range g.VarChecks {
		fromVars += len(cs)
	}
	if fromChecks != fromVars {
		return errors.Errorf("graph: edge count mismatch: %d from checks, %d from vars", fromChecks, fromVars)
	}
	return nil
}
