/*
NAME
  main.go

DESCRIPTION
  dvbsplot runs a decode over a capture file exactly as dvbsdecode
  does, but in addition records per-frame SNR into a diag.Recorder and
  renders the trace to a PNG chart on exit, for the same kind of
  "check the sensor scores" diagnostic role cmd/rv/probe.go fills for
  turbidity.

AUTHOR
  dvbs2ldpc authors.

LICENSE
  Copyright (C) 2026 the dvbs2ldpc authors. All Rights Reserved.
*/

// Package main implements the dvbsplot command.
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/ausocean/utils/logging"
	"gonum.org/v1/plot/vg"

	"github.com/fsschiava/dvbs2ldpc/codetable"
	"github.com/fsschiava/dvbs2ldpc/demod"
	"github.com/fsschiava/dvbs2ldpc/diag"
	intlogging "github.com/fsschiava/dvbs2ldpc/internal/logging"
	"github.com/fsschiava/dvbs2ldpc/pipeline"
)

func main() {
	in := flag.String("in", "", "input file of complex128 IQ samples (little-endian re,im float64 pairs)")
	chartPath := flag.String("chart", "snr.png", "output path for the rendered SNR-per-frame chart")
	rate := flag.String("rate", "3/4", "code rate")
	modulation := flag.String("modulation", "QPSK", "constellation")
	simdWidth := flag.Int("simd-width", 16, "frames decoded per batch: 16 or 32")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "dvbsplot: -in is required")
		os.Exit(2)
	}

	mod, err := parseModulation(*modulation)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dvbsplot:", err)
		os.Exit(1)
	}

	cfg := pipeline.Config{
		Standard:      codetable.S2,
		FrameSize:     codetable.NORMAL,
		Rate:          codetable.Rate(*rate),
		Constellation: mod,
		SIMDWidth:     *simdWidth,
	}

	log := logging.New(logging.Warning, os.Stderr, false)
	p, err := pipeline.New(cfg, codetable.NewBuiltin(), adaptLogger{log})
	if err != nil {
		fmt.Fprintln(os.Stderr, "dvbsplot:", err)
		os.Exit(1)
	}

	var rec diag.Recorder
	p.SetRecorder(&rec)

	f, err := os.Open(*in)
	if err != nil {
		fmt.Fprintln(os.Stderr, "dvbsplot:", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := decode(p, bufio.NewReader(f), io.Discard); err != nil {
		fmt.Fprintln(os.Stderr, "dvbsplot:", err)
		os.Exit(1)
	}

	fmt.Println(rec.Summary())

	if err := rec.SaveChart(*chartPath, 8*vg.Inch, 4*vg.Inch); err != nil {
		fmt.Fprintln(os.Stderr, "dvbsplot: could not save chart:", err)
		os.Exit(1)
	}
}

func decode(p *pipeline.Pipeline, r *bufio.Reader, w io.Writer) error {
	need := p.Descriptor().SymbolsPerFrame() * p.Descriptor().Config.SIMDWidth
	batch := make([]complex128, need)
	for {
		n, err := readSymbols(r, batch)
		if n > 0 {
			if _, perr := p.ProcessBatch(batch[:n], w); perr != nil {
				return perr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func readSymbols(r *bufio.Reader, dst []complex128) (int, error) {
	var buf [16]byte
	for i := range dst {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return i, err
		}
		re := math.Float64frombits(binary.LittleEndian.Uint64(buf[0:8]))
		im := math.Float64frombits(binary.LittleEndian.Uint64(buf[8:16]))
		dst[i] = complex(re, im)
	}
	return len(dst), nil
}

func parseModulation(s string) (demod.Modulation, error) {
	switch s {
	case "QPSK":
		return demod.QPSK, nil
	case "8PSK":
		return demod.PSK8, nil
	case "16QAM":
		return demod.QAM16, nil
	case "64QAM":
		return demod.QAM64, nil
	case "256QAM":
		return demod.QAM256, nil
	default:
		return 0, fmt.Errorf("unknown modulation %q", s)
	}
}

// adaptLogger bridges github.com/ausocean/utils/logging.Logger to
// this repository's internal/logging.Logger.
type adaptLogger struct {
	l logging.Logger
}

func (a adaptLogger) SetLevel(lvl int8)                         { a.l.SetLevel(lvl) }
func (a adaptLogger) Debug(msg string, params ...interface{})   { a.l.Debug(msg, params...) }
func (a adaptLogger) Info(msg string, params ...interface{})    { a.l.Info(msg, params...) }
func (a adaptLogger) Warning(msg string, params ...interface{}) { a.l.Warning(msg, params...) }
func (a adaptLogger) Error(msg string, params ...interface{})   { a.l.Error(msg, params...) }
func (a adaptLogger) Fatal(msg string, params ...interface{})   { a.l.Fatal(msg, params...) }

var _ intlogging.Logger = adaptLogger{}
