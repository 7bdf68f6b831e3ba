/*
NAME
  main.go

DESCRIPTION
  dvbswatch is a service that watches a directory for new IQ capture
  files, decoding each one as it appears. It runs under systemd,
  signalling readiness once its first watch is armed.

AUTHOR
  dvbs2ldpc authors.

LICENSE
  Copyright (C) 2026 the dvbs2ldpc authors. All Rights Reserved.
*/

// Package main implements the dvbswatch command.
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/ausocean/utils/logging"
	"github.com/coreos/go-systemd/daemon"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fsschiava/dvbs2ldpc/codetable"
	"github.com/fsschiava/dvbs2ldpc/demod"
	intlogging "github.com/fsschiava/dvbs2ldpc/internal/logging"
	"github.com/fsschiava/dvbs2ldpc/pipeline"
)

const (
	logPath      = "/var/log/dvbswatch/dvbswatch.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logSuppress  = true

	watchSettleDelay = 200 * time.Millisecond // Let a writer finish before we open its file.
)

func main() {
	dir := flag.String("dir", "", "directory to watch for *.iq capture files")
	outDir := flag.String("out-dir", "", "directory to write decoded output to; defaults to -dir")
	rate := flag.String("rate", "3/4", "code rate")
	modulation := flag.String("modulation", "QPSK", "constellation")
	simdWidth := flag.Int("simd-width", 16, "frames decoded per batch: 16 or 32")
	flag.Parse()

	if *dir == "" {
		os.Stderr.WriteString("dvbswatch: -dir is required\n")
		os.Exit(2)
	}
	if *outDir == "" {
		*outDir = *dir
	}

	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	log := logging.New(logging.Info, fileLog, logSuppress)

	mod, err := parseModulation(*modulation)
	if err != nil {
		log.Fatal("invalid modulation", "error", err.Error())
	}

	cfg := pipeline.Config{
		Standard:      codetable.S2,
		FrameSize:     codetable.NORMAL,
		Rate:          codetable.Rate(*rate),
		Constellation: mod,
		SIMDWidth:     *simdWidth,
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatal("could not create watcher", "error", err.Error())
	}
	defer watcher.Close()
	if err := watcher.Add(*dir); err != nil {
		log.Fatal("could not watch directory", "dir", *dir, "error", err.Error())
	}

	if ok, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		log.Warning("systemd readiness notify failed", "error", err.Error())
	} else if !ok {
		log.Debug("systemd notify socket not present; continuing unnotified")
	}
	log.Info("watching directory", "dir", *dir)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if filepath.Ext(ev.Name) != ".iq" {
				continue
			}
			time.Sleep(watchSettleDelay)
			if err := decodeOne(cfg, ev.Name, *outDir, adaptLogger{log}); err != nil {
				log.Error("decode failed", "file", ev.Name, "error", err.Error())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error("watcher error", "error", err.Error())
		}
	}
}

func decodeOne(cfg pipeline.Config, inPath, outDir string, log intlogging.Logger) error {
	p, err := pipeline.New(cfg, codetable.NewBuiltin(), log)
	if err != nil {
		return err
	}

	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	outPath := filepath.Join(outDir, filepath.Base(inPath)+".decoded")
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	defer w.Flush()

	need := p.Descriptor().SymbolsPerFrame() * p.Descriptor().Config.SIMDWidth
	r := bufio.NewReader(in)
	batch := make([]complex128, need)
	for {
		n, rerr := readSymbols(r, batch)
		if n > 0 {
			if _, err := p.ProcessBatch(batch[:n], w); err != nil {
				return err
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return rerr
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
		return demod.QPSK, nil
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
