// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package server

import (
	"errors"

	"github.com/poiesic/neuroq/core"
	"github.com/poiesic/neuroq/dissoc"
)

// Config holds configuration for the HTTP service.
type Config struct {
	// Addr is the listen address.
	// Example: ":8080", "127.0.0.1:8080"
	Addr string

	// ImagePath is the file served by GET /img.
	// When empty the endpoint answers 404.
	ImagePath string

	// RadiusMM is the spatial match radius applied to location predicates.
	// Default: core.DefaultRadiusMM
	RadiusMM float64

	// MatchLimit bounds the studies returned per query.
	// Default: dissoc.DefaultMatchLimit
	MatchLimit int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAddr sets the listen address.
func WithAddr(addr string) ConfigOption {
	return func(c *Config) {
		c.Addr = addr
	}
}

// WithImagePath sets the file served by GET /img.
func WithImagePath(path string) ConfigOption {
	return func(c *Config) {
		c.ImagePath = path
	}
}

// WithRadiusMM sets the spatial match radius.
func WithRadiusMM(radiusMM float64) ConfigOption {
	return func(c *Config) {
		c.RadiusMM = radiusMM
	}
}

// WithMatchLimit sets the per-query result bound.
func WithMatchLimit(limit int) ConfigOption {
	return func(c *Config) {
		c.MatchLimit = limit
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Addr:       ":8080",
		RadiusMM:   core.DefaultRadiusMM,
		MatchLimit: dissoc.DefaultMatchLimit,
	}
}

// NewConfig creates a Config with the default values and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("server config: Addr is required")
	}
	if c.RadiusMM <= 0 {
		return errors.New("server config: RadiusMM must be positive")
	}
	if c.MatchLimit < 1 {
		return errors.New("server config: MatchLimit must be at least 1")
	}
	return nil
}
