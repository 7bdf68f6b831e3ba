/*
NAME
  recorder.go

DESCRIPTION
  recorder.go accumulates per-frame diagnostics emitted by pipeline.Pipeline
  and can render them to a PNG line chart, the "engineer checking
  carrier-to-noise ratio on a running decode" surface spec.md section
  4.7 (Diagnostics) calls for.

AUTHOR
  dvbs2ldpc authors.

LICENSE
  Copyright (C) 2026 the dvbs2ldpc authors. All Rights Reserved.
*/

package diag

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Sample is one frame's recorded diagnostics.
type Sample struct {
	FrameIndex int
	SNRdB      float64
	TrialsUsed int // -1 for non-convergence.
}

// Recorder accumulates Samples in frame order. The zero value is
// ready to use.
type Recorder struct {
	samples []Sample
}

// Record appends s, in the order frames are decoded.
func (r *Recorder) Record(s Sample) {
	r.samples = append(r.samples, s)
}

// Samples returns every recorded sample, oldest first.
func (r *Recorder) Samples() []Sample {
	return r.samples
}

// MeanSNRdB returns the mean of every recorded SNRdB value, or 0 if
// nothing has been recorded.
func (r *Recorder) MeanSNRdB() float64 {
	if len(r.samples) == 0 {
		return 0
	}
	var total float64
	for _, s := range r.samples {
		total += s.SNRdB
	}
	return total / float64(len(r.samples))
}

// Summary formats the running SNR average as a well-formed log line,
// replacing the malformed "average snr =,.2f" format string the
// original decoder emitted.
func (r *Recorder) Summary() string {
	return fmt.Sprintf("average snr = %.2f dB over %d frames", r.MeanSNRdB(), len(r.samples))
}

// SaveChart renders the recorded SNR-per-frame trace to a PNG at
// path, width x height inches.
func (r *Recorder) SaveChart(path string, width, height vg.Length) error {
	p, err := plot.New()
	if err != nil {
		return errors.Wrap(err, "diag: could not create plot")
	}
	p.Title.Text = "decoded SNR per frame"
	p.X.Label.Text = "frame"
	p.Y.Label.Text = "SNR (dB)"

	pts := make(plotter.XYs, len(r.samples))
	for i, s := range r.samples {
		pts[i].X = float64(s.FrameIndex)
		pts[i].Y = s.SNRdB
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return errors.Wrap(err, "diag: could not build SNR line")
	}
	p.Add(line)

	if err := p.Save(width, height, path); err != nil {
		return errors.Wrap(err, "diag: could not save chart")
	}
	return nil
}
