/*
NAME
  kernel.go

DESCRIPTION
  kernel.go implements the min-sum check-node and variable-node update
  rules and the three SIMD-width kernel variants the design note
  (spec.md section 9) calls for: a scalar generic kernel and two
  lane-width kernels (16 and 32) that process lanes in fixed-size
  chunks, the shape a real vector-register implementation would take.

AUTHOR
  dvbs2ldpc authors.

LICENSE
  Copyright (C) 2026 the dvbs2ldpc authors. All Rights Reserved.
*/

package ldpcdecoder

import "github.com/fsschiava/dvbs2ldpc/internal/satmath"

// Kernel is the trait the decoder binds to one concrete SIMD-width
// implementation at construction (design note, spec.md section 9). A
// production build would back lane16/lane32 with actual NEON/SSE/AVX2
// instructions; this repository backs all three with equivalent pure
// Go loops shaped to the same lane-chunking a vectorized kernel would
// use, so behavior (and lane independence, spec.md section 8) is
// identical across kernels by construction.
type Kernel interface {
	// CheckUpdate recomputes every check-to-variable message from the
	// current LLR vector and the previous messages (min-sum step 1).
	CheckUpdate(ws *Workspace)
	// VariableUpdate recomputes every variable's LLR from its initial
	// value and the incoming check-to-variable messages (step 2).
	VariableUpdate(ws *Workspace)
	// Syndrome checks parity over every check row for every lane and
	// marks lanes done; it returns true iff every lane is done (step 3).
	Syndrome(ws *Workspace) bool
}

// checkUpdateLanes performs the min-sum check update for lane range
// [lo, hi) of workspace ws. All three kernels share this routine;
// they differ only in how they chunk the lane range before calling it,
// which is where a real SIMD implementation would instead issue
// vector instructions operating on the whole chunk at once.
func checkUpdateLanes(ws *Workspace, lo, hi int) {
	w := ws.width
	for c, vars := range ws.layout.checkVars {
		edges := ws.layout.checkEdges[c]
		deg := len(vars)
		if deg == 0 {
			continue
		}
		for lane := lo; lane < hi; lane++ {
			// Gather extrinsic values: LLR(v) with this check's own
			// last contribution removed.
			var min1, min2 int8 = satmath.Max, satmath.Max
			var min1Idx int = -1
			var signProd int8 = 1
			signs := make([]int8, deg)
			mags := make([]int8, deg)
			for j := 0; j < deg; j++ {
				v := vars[j]
				e := edges[j]
				extrinsic := satmath.Clip(int32(ws.llr[int(v)*w+lane]) - int32(ws.msg[int(e)*w+lane]))
				s := satmath.Sign(extrinsic)
				mag := satmath.Abs(extrinsic)
				signs[j] = s
				mags[j] = mag
				signProd *= s
				if mag < min1 {
					min2 = min1
					min1 = mag
					min1Idx = j
				} else if mag < min2 {
					min2 = mag
				}
			}
			for j := 0; j < deg; j++ {
				var mag int8
				if j == min1Idx {
					mag = min2
				} else {
					mag = min1
				}
				sign := signProd * signs[j] // Remove this edge's own sign contribution.
				e := edges[j]
				ws.msg[int(e)*w+lane] = sign * mag
			}
		}
	}
}

// variableUpdateLanes recomputes every variable's LLR for lane range
// [lo, hi): LLR(v) = clip(initial_LLR(v) + sum of incoming messages).
// Lanes already marked done keep their LLRs unchanged.
func variableUpdateLanes(ws *Workspace, lo, hi int) {
	w := ws.width
	for v, edges := range ws.layout.varEdges {
		for lane := lo; lane < hi; lane++ {
			if ws.done[lane] {
				continue
			}
			acc := int32(ws.initial[v*w+lane])
			for _, e := range edges {
				acc += int32(ws.msg[int(e)*w+lane])
			}
			ws.llr[v*w+lane] = satmath.Clip(acc)
		}
	}
}

// syndromeLanes computes, for lane range [lo, hi), whether every check
// row's parity of hard decisions is satisfied, updating ws.done. A
// lane already marked done is not re-checked, and variableUpdateLanes
// leaves its LLRs unchanged, matching spec.md's idempotence
// requirement for converged lanes (section 4.3).
func syndromeLanes(ws *Workspace, lo, hi int) {
	w := ws.width
	for lane := lo; lane < hi; lane++ {
		if ws.done[lane] {
			continue
		}
		satisfied := true
		for _, vars := range ws.layout.checkVars {
			var parity int8 = 1
			for _, v := range vars {
				bit := hardBit(ws.llr[int(v)*w+lane])
				if bit == 1 {
					parity = -parity
				}
			}
			if parity != 1 {
				satisfied = false
				break
			}
		}
		if satisfied {
			ws.done[lane] = true
		}
	}
}

// hardBit returns 1 when llr is negative (bit 1 more likely) and 0
// otherwise, matching spec.md's "positive means bit 0" convention.
func hardBit(llr int8) int8 {
	if llr < 0 {
		return 1
	}
	return 0
}

func allDone(done []bool) bool {
	for _, d := range done {
		if !d {
			return false
		}
	}
	return true
}

// genericKernel is the scalar fallback: lanes processed one at a time.
type genericKernel struct{}

func (genericKernel) CheckUpdate(ws *Workspace)    { checkUpdateLanes(ws, 0, ws.width) }
func (genericKernel) VariableUpdate(ws *Workspace) { variableUpdateLanes(ws, 0, ws.width) }
func (genericKernel) Syndrome(ws *Workspace) bool {
	syndromeLanes(ws, 0, ws.width)
	return allDone(ws.done)
}

// lane16Kernel processes lanes in chunks of 16, the width a
// baseline/NEON/SSE vector register would hold for int8 lanes in this
// layout.
type lane16Kernel struct{}

func (lane16Kernel) CheckUpdate(ws *Workspace)    { chunked(ws, 16, checkUpdateLanes) }
func (lane16Kernel) VariableUpdate(ws *Workspace) { chunked(ws, 16, variableUpdateLanes) }
func (lane16Kernel) Syndrome(ws *Workspace) bool {
	chunked(ws, 16, syndromeLanes)
	return allDone(ws.done)
}

// lane32Kernel processes lanes in chunks of 32 (AVX2 analogue).
type lane32Kernel struct{}

func (lane32Kernel) CheckUpdate(ws *Workspace)    { chunked(ws, 32, checkUpdateLanes) }
func (lane32Kernel) VariableUpdate(ws *Workspace) { chunked(ws, 32, variableUpdateLanes) }
func (lane32Kernel) Syndrome(ws *Workspace) bool {
	chunked(ws, 32, syndromeLanes)
	return allDone(ws.done)
}

// chunked calls fn once per [lo, hi) chunk of size step across the
// workspace's full lane width, the loop shape a real vector kernel
// would replace with one vector instruction per chunk.
func chunked(ws *Workspace, step int, fn func(ws *Workspace, lo, hi int)) {
	for lo := 0; lo < ws.width; lo += step {
		hi := lo + step
		if hi > ws.width {
			hi = ws.width
		}
		fn(ws, lo, hi)
	}
}
