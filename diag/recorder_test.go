package diag

import "testing"

func TestRecorderMeanSNRdB(t *testing.T) {
	var r Recorder
	if got := r.MeanSNRdB(); got != 0 {
		t.Errorf("MeanSNRdB() on empty recorder = %v, want 0", got)
	}

	r.Record(Sample{FrameIndex: 0, SNRdB: 10, TrialsUsed: 2})
	r.Record(Sample{FrameIndex: 1, SNRdB: 20, TrialsUsed: 3})

	if got, want := r.MeanSNRdB(), 15.0; got != want {
		t.Errorf("MeanSNRdB() = %v, want %v", got, want)
	}
	if got, want := len(r.Samples()), 2; got != want {
		t.Errorf("len(Samples()) = %d, want %d", got, want)
	}

	if got, want := r.Summary(), "average snr = 15.00 dB over 2 frames"; got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}
