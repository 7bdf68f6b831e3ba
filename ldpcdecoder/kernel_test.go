package ldpcdecoder

import (
	"testing"

	"github.com/fsschiava/dvbs2ldpc/internal/satmath"
)

// TestCheckUpdateLanesClampsExtrinsicWithoutSignFlip exercises the
// extrinsic value computation directly with an llr/msg pair whose
// int32 difference overflows int8 (a case an int8-narrowing cast
// would wrap instead of saturate, flipping its sign).
func TestCheckUpdateLanesClampsExtrinsicWithoutSignFlip(t *testing.T) {
	// One check node of degree 2 over 2 variables, a single lane.
	ws := &Workspace{
		width: 1,
		layout: &edgeLayout{
			numChecks: 1,
			numVars:   2,
			checkEdges: [][]int32{{0, 1}},
			checkVars:  [][]int32{{0, 1}},
			varEdges:   [][]int32{{0}, {1}},
			numEdges:   2,
		},
		msg:     []int8{satmath.Min, 0}, // edge 0's previous message is -127.
		llr:     []int8{satmath.Max, 50},
		initial: []int8{satmath.Max, 50},
		done:    []bool{false},
	}

	checkUpdateLanes(ws, 0, 1)

	// Edge 0's extrinsic is llr[0]-msg[0] = 127-(-127) = 254, which
	// must clamp to +127, not wrap through int8 to -2. Edge 1's
	// output message carries edge 0's (clamped) magnitude and sign,
	// so a wrapped extrinsic surfaces there as -2 instead of +127.
	if ws.msg[1] != satmath.Max {
		t.Fatalf("edge 1 message = %d, want %d (edge 0's extrinsic must saturate, not wrap)", ws.msg[1], satmath.Max)
	}
}
