/*
NAME
  main.go

DESCRIPTION
  dvbsdecode is a command-line LDPC decoder: it reads a stream of
  complex baseband symbols and writes decoded hard-decision bytes,
  batch by batch, logging per-frame diagnostics when run verbosely.

AUTHOR
  dvbs2ldpc authors.

LICENSE
  Copyright (C) 2026 the dvbs2ldpc authors. All Rights Reserved.
*/

// Package main implements the dvbsdecode command.
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
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fsschiava/dvbs2ldpc/codetable"
	"github.com/fsschiava/dvbs2ldpc/demod"
	intlogging "github.com/fsschiava/dvbs2ldpc/internal/logging"
	"github.com/fsschiava/dvbs2ldpc/modedesc"
	"github.com/fsschiava/dvbs2ldpc/pipeline"
)

// Logging configuration, following cmd/looper/main.go and
// cmd/rv/main.go's lumberjack wiring.
const (
	logPath      = "/var/log/dvbsdecode/dvbsdecode.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logSuppress  = true
)

func main() {
	standard := flag.String("standard", "S2", "physical layer standard: S2 or T2")
	frameSize := flag.Int("frame-size", int(codetable.NORMAL), "LDPC frame size in bits: 16200, 32400 or 64800")
	rate := flag.String("rate", "3/4", "code rate, as named by the selected standard/frame-size table")
	modulation := flag.String("modulation", "QPSK", "constellation: QPSK, 8PSK, 16QAM, 64QAM or 256QAM")
	outputMode := flag.String("output", "codeword", "output mode: codeword or message")
	verbose := flag.Bool("verbose", false, "log per-frame SNR and trial-count diagnostics")
	maxTrials := flag.Int("max-trials", 0, "maximum decoder iterations per batch; 0 selects the default")
	simdWidth := flag.Int("simd-width", 16, "frames decoded per batch: 16 or 32")
	input := flag.String("in", "", "input file of complex128 IQ samples (little-endian re,im float64 pairs); defaults to stdin")
	output := flag.String("out", "", "output file for decoded bytes; defaults to stdout")
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	level := logging.Info
	if *verbose {
		level = logging.Debug
	}
	log := logging.New(level, fileLog, logSuppress)

	std, err := parseStandard(*standard)
	if err != nil {
		log.Fatal("invalid standard", "error", err.Error())
	}
	mod, err := parseModulation(*modulation)
	if err != nil {
		log.Fatal("invalid modulation", "error", err.Error())
	}
	mode, err := parseOutputMode(*outputMode)
	if err != nil {
		log.Fatal("invalid output mode", "error", err.Error())
	}
	info := modedesc.QUIET
	if *verbose {
		info = modedesc.VERBOSE
	}

	cfg := pipeline.Config{
		Standard:      std,
		FrameSize:     codetable.FrameSize(*frameSize),
		Rate:          codetable.Rate(*rate),
		Constellation: mod,
		OutputMode:    mode,
		InfoMode:      info,
		MaxTrials:     *maxTrials,
		SIMDWidth:     *simdWidth,
	}

	p, err := pipeline.New(cfg, codetable.NewBuiltin(), adaptLogger{log})
	if err != nil {
		log.Fatal("could not build decode pipeline", "error", err.Error())
	}
	log.Info("pipeline ready", "symbols_per_frame", p.Descriptor().SymbolsPerFrame(), "output_bytes", p.Descriptor().OutputBytes())

	in, err := openInput(*input)
	if err != nil {
		log.Fatal("could not open input", "error", err.Error())
	}
	defer in.Close()

	var out io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal("could not create output", "error", err.Error())
		}
		defer f.Close()
		out = f
	}

	if err := run(p, bufio.NewReader(in), bufio.NewWriter(out), log); err != nil {
		log.Fatal("decode failed", "error", err.Error())
	}
}

// run reads complex128 symbols from r in batches sized to p's
// SIMDWidth*SymbolsPerFrame and writes decoded bytes to w until r is
// exhausted.
func run(p *pipeline.Pipeline, r *bufio.Reader, w *bufio.Writer, log logging.Logger) error {
	defer w.Flush()
	need := p.Descriptor().SymbolsPerFrame() * simdWidthOf(p)
	batch := make([]complex128, need)
	for {
		n, err := readSymbols(r, batch)
		if n > 0 {
			consumed, perr := p.ProcessBatch(batch[:n], w)
			if perr != nil {
				return perr
			}
			if consumed < n {
				log.Warning("batch undersized, discarding remainder", "read", n, "consumed", consumed)
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

func simdWidthOf(p *pipeline.Pipeline) int {
	return p.Descriptor().Config.SIMDWidth
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

func openInput(path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func parseStandard(s string) (codetable.Standard, error) {
	switch s {
	case "S2":
		return codetable.S2, nil
	case "T2":
		return codetable.T2, nil
	default:
		return 0, fmt.Errorf("unknown standard %q", s)
	}
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

func parseOutputMode(s string) (modedesc.OutputMode, error) {
	switch s {
	case "codeword":
		return modedesc.CODEWORD, nil
	case "message":
		return modedesc.MESSAGE, nil
	default:
		return 0, fmt.Errorf("unknown output mode %q", s)
	}
}

// adaptLogger bridges github.com/ausocean/utils/logging.Logger to
// this repository's internal/logging.Logger, which has the identical
// method set by construction; it exists only because the two are
// distinct named types.
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
