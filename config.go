// Copyright 2025 Blink Labs Software
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

package certstore

import (
	"log/slog"
	"time"

	"github.com/blinklabs-io/certstore/access"
	"github.com/prometheus/client_golang/prometheus"
)

// Config holds the record store configuration. Use NewConfig with option
// funcs rather than constructing it directly.
type Config struct {
	logger         *slog.Logger
	promRegistry   prometheus.Registerer
	dataDir        string
	blobPlugin     string
	metadataPlugin string
	issuerOrg      string
	verifierOrg    string
	nowFunc        func() time.Time
}

// ConfigOptionFunc is a function used to modify the config
type ConfigOptionFunc func(*Config)

// NewConfig creates a new config instance with default values and applies any provided options
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		issuerOrg:   access.DefaultIssuerOrg,
		verifierOrg: access.DefaultVerifierOrg,
		nowFunc:     time.Now,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithLogger specifies the logger to use. This defaults to discarding log output
func WithLogger(logger *slog.Logger) ConfigOptionFunc {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithDataDir specifies the persistent data directory to use. This defaults
// to an empty string, which puts the store in memory-only mode
func WithDataDir(dataDir string) ConfigOptionFunc {
	return func(c *Config) {
		c.dataDir = dataDir
	}
}

// WithPromRegistry specifies a prometheus.Registerer instance to add metrics to
func WithPromRegistry(registry prometheus.Registerer) ConfigOptionFunc {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithBlobPlugin specifies the blob store plugin to use. This defaults to badger
func WithBlobPlugin(plugin string) ConfigOptionFunc {
	return func(c *Config) {
		c.blobPlugin = plugin
	}
}

// WithMetadataPlugin specifies the metadata store plugin to use. This defaults to sqlite
func WithMetadataPlugin(plugin string) ConfigOptionFunc {
	return func(c *Config) {
		c.metadataPlugin = plugin
	}
}

// WithIssuerOrg specifies the organizational membership id of the issuing
// certification body
func WithIssuerOrg(org string) ConfigOptionFunc {
	return func(c *Config) {
		c.issuerOrg = org
	}
}

// WithVerifierOrg specifies the organizational membership id of the
// read-mostly verifier organization
func WithVerifierOrg(org string) ConfigOptionFunc {
	return func(c *Config) {
		c.verifierOrg = org
	}
}

// WithNowFunc overrides the clock used for expiry sweeps. Mostly useful
// for testing date-driven behavior
func WithNowFunc(nowFunc func() time.Time) ConfigOptionFunc {
	return func(c *Config) {
		c.nowFunc = nowFunc
	}
}
