/*
NAME
  config.go

DESCRIPTION
  config.go defines the Pipeline construction parameters, following
  revid/config.Config's flat-struct-of-exported-fields shape with
  iota-enum closed sets and a Validate method.

AUTHOR
  dvbs2ldpc authors.

LICENSE
  Copyright (C) 2026 the dvbs2ldpc authors. All Rights Reserved.
*/

package pipeline

import (
	"github.com/pkg/errors"

	"github.com/fsschiava/dvbs2ldpc/codetable"
	"github.com/fsschiava/dvbs2ldpc/demod"
	"github.com/fsschiava/dvbs2ldpc/ldpcdecoder"
	"github.com/fsschiava/dvbs2ldpc/modedesc"
)

// Config holds every construction parameter of spec.md section 6.
// MaxTrials == 0 is resolved to ldpcdecoder.DefaultMaxTrials by
// Validate, matching spec.md section 4.5's default-trials rule.
type Config struct {
	Standard      codetable.Standard
	FrameSize     codetable.FrameSize
	Rate          codetable.Rate
	Constellation demod.Modulation
	OutputMode    modedesc.OutputMode
	InfoMode      modedesc.InfoMode
	MaxTrials     int
	SIMDWidth     int
}

// Validate checks cfg for internal consistency and fills in defaults,
// mirroring revid/config.Config's validation-at-use pattern.
func (c *Config) Validate() error {
	if c.SIMDWidth == 0 {
		c.SIMDWidth = 16
	}
	if c.SIMDWidth != 16 && c.SIMDWidth != 32 {
		return errors.Errorf("pipeline: simd width must be 16 or 32, got %d", c.SIMDWidth)
	}
	if c.MaxTrials == 0 {
		c.MaxTrials = ldpcdecoder.DefaultMaxTrials
	}
	if c.MaxTrials < 0 {
		return errors.Errorf("pipeline: max trials must be non-negative, got %d", c.MaxTrials)
	}
	return nil
}
