/*
NAME
  decoder.go

DESCRIPTION
  decoder.go implements the public LDPC decoder engine API: allocation
  of the per-edge message buffer (Init) and iterative min-sum decoding
  of a batch of S frames in lockstep (Decode).

AUTHOR
  dvbs2ldpc authors.

LICENSE
  Copyright (C) 2026 the dvbs2ldpc authors. All Rights Reserved.
*/

// Package ldpcdecoder implements the iterative min-sum belief
// propagation LDPC decoder engine operating on int8 LLRs, batched over
// S lanes (S in {16, 32}), with per-frame early termination.
package ldpcdecoder

import (
	"github.com/pkg/errors"

	"github.com/fsschiava/dvbs2ldpc/graph"
)

// DefaultMaxTrials is substituted whenever a caller requests
// max_trials == 0, per spec.md section 4.5.
const DefaultMaxTrials = 25

// edgeLayout holds the consistent edge numbering shared by the
// check-to-variable and variable-to-check traversal order, built once
// at Init and reused every Decode call.
type edgeLayout struct {
	numChecks int
	numVars   int

	// checkEdges[c] lists the edge ids incident to check c, in the
	// same order as the underlying graph.CheckVars[c] variable list.
	checkEdges [][]int32
	checkVars  [][]int32 // mirrors graph.CheckVars, same order as checkEdges.

	// varEdges[v] lists the edge ids incident to variable v.
	varEdges [][]int32

	numEdges int
}

func buildEdgeLayout(g *graph.Graph) *edgeLayout {
	el := &edgeLayout{
		numChecks: len(g.CheckVars),
		numVars:   len(g.VarChecks),
		checkEdges: make([][]int32, len(g.CheckVars)),
		checkVars:  make([][]int32, len(g.CheckVars)),
		varEdges:   make([][]int32, len(g.VarChecks)),
	}

	var next int32
	for c, vars := range g.CheckVars {
		el.checkEdges[c] = make([]int32, len(vars))
		el.checkVars[c] = make([]int32, len(vars))
		for j, v := range vars {
			e := next
			next++
			el.checkEdges[c][j] = e
			el.checkVars[c][j] = int32(v)
			el.varEdges[v] = append(el.varEdges[v], e)
		}
	}
	el.numEdges = int(next)
	return el
}

// Workspace is the opaque work-area handle spec.md's Init returns: the
// aligned message buffer plus the per-frame scratch space, sized for
// one SIMD width and reused across every Decode call for the lifetime
// of the decoder instance.
type Workspace struct {
	layout *edgeLayout
	width  int // S, the number of lanes processed in lockstep.

	// msg holds, for each edge, the last check-to-variable message,
	// laid out edge-major (index = edge*width+lane) so that all S
	// lanes of one edge are contiguous, mirroring a SIMD register's
	// natural layout.
	msg []int8

	// llr is the internal lane-major working copy of the batch LLRs
	// (index = variable*width+lane), rebuilt from the caller's
	// frame-major llrBatch at the start of every Decode call.
	llr []int8

	// initial holds the original per-frame LLRs (LLR(v) prior to any
	// iteration), needed every iteration's variable update step.
	initial []int8

	// done tracks, per lane, whether that frame's syndrome is
	// currently all-zero.
	done []bool

	kernel Kernel
}

// Init allocates a Workspace sized edges*width bytes (plus the LLR and
// scratch buffers) for the given graph and SIMD width. The kernel
// implementation is selected by width: 16 selects the lane16 kernel
// (baseline/NEON/SSE analogue), 32 selects lane32 (AVX2 analogue); any
// other width falls back to the generic scalar kernel.
func Init(g *graph.Graph, width int) (*Workspace, error) {
	if width <= 0 {
		return nil, errors.Errorf("ldpcdecoder: invalid simd width %d", width)
	}
	el := buildEdgeLayout(g)
	ws := &Workspace{
		layout:  el,
		width:   width,
		msg:     make([]int8, el.numEdges*width),
		llr:     make([]int8, el.numVars*width),
		initial: make([]int8, el.numVars*width),
		done:    make([]bool, width),
		kernel:  selectKernel(width),
	}
	return ws, nil
}

// selectKernel implements the design-note tagged-variant kernel
// dispatch: the concrete Kernel is bound once at construction and
// fixed for the instance lifetime (spec.md section 5).
func selectKernel(width int) Kernel {
	switch width {
	case 16:
		return lane16Kernel{}
	case 32:
		return lane32Kernel{}
	default:
		return genericKernel{}
	}
}

// Decode runs min-sum decoding on width frames in parallel, each frame
// using CODE_LEN=ws.layout.numVars consecutive LLRs in llrBatch
// (frame-major: llrBatch[frame*numVars : (frame+1)*numVars]).
//
// It returns a non-negative count of unused iterations if all lanes
// converged (syndrome all-zero) within maxTrials, or a negative
// sentinel if at least one lane failed to converge. maxTrials == 0 is
// treated as DefaultMaxTrials. Decode never returns an error: a null
// workspace or mis-sized llrBatch is a programming error, not a
// runtime error, per spec.md section 4.3.
func Decode(ws *Workspace, llrBatch []int8, maxTrials int) int {
	if maxTrials == 0 {
		maxTrials = DefaultMaxTrials
	}
	n := ws.layout.numVars
	w := ws.width
	if len(llrBatch) != n*w {
		panic("ldpcdecoder: llrBatch length does not match workspace width*codeword length")
	}

	// Transpose frame-major input into the lane-major working buffers.
	for frame := 0; frame < w; frame++ {
		for v := 0; v < n; v++ {
			val := llrBatch[frame*n+v]
			ws.llr[v*w+frame] = val
			ws.initial[v*w+frame] = val
		}
	}
	for i := range ws.msg {
		ws.msg[i] = 0
	}
	for i := range ws.done {
		ws.done[i] = false
	}

	trial := 0
	for ; trial < maxTrials; trial++ {
		ws.kernel.CheckUpdate(ws)
		ws.kernel.VariableUpdate(ws)
		allDone := ws.kernel.Syndrome(ws)
		if allDone {
			trial++
			break
		}
	}

	// Transpose decoded LLRs back into the caller's frame-major buffer.
	for frame := 0; frame < w; frame++ {
		for v := 0; v < n; v++ {
			llrBatch[frame*n+v] = ws.llr[v*w+frame]
		}
	}

	allConverged := true
	for _, d := range ws.done {
		if !d {
			allConverged = false
			break
		}
	}
	if !allConverged {
		return -1
	}
	return maxTrials - trial
}
