// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package tracing

import (
	"github.com/canonical/gym-membership-service/internal/logging"
)

// Config selects the span exporter. With no endpoint set, spans go to stdout.
type Config struct {
	OtelHTTPEndpoint string
	OtelGRPCEndpoint string
	// SampleRatio is the fraction of root spans kept, clamped to [0, 1]. Zero keeps all.
	SampleRatio float64
	Logger      logging.LoggerInterface

	Enabled bool
}

func (c *Config) sampler() float64 {
	switch {
	case c.SampleRatio <= 0 || c.SampleRatio > 1:
		return 1
	default:
		return c.SampleRatio
	}
}

func NewConfig(enabled bool, otelGRPCEndpoint, otelHTTPEndpoint string, sampleRatio float64, logger logging.LoggerInterface) *Config {
	c := new(Config)

	c.OtelGRPCEndpoint = otelGRPCEndpoint
	c.OtelHTTPEndpoint = otelHTTPEndpoint
	c.SampleRatio = sampleRatio
	c.Logger = logger
	c.Enabled = enabled

	return c
}

func NewNoopConfig() *Config {
	c := new(Config)
	c.Enabled = false
	return c
}
