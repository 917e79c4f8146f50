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
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/blinklabs-io/certstore/access"
	"github.com/blinklabs-io/certstore/database"
	"github.com/blinklabs-io/certstore/identity"
)

// Store is the access-controlled record store. Every operation checks the
// caller's identity against the access policy before touching the
// database; read and existence checks are open by policy.
type Store struct {
	config  Config
	db      *database.Database
	policy  access.Policy
	metrics *storeMetrics
}

// New creates a Store using the provided configuration
func New(cfg Config) (*Store, error) {
	if cfg.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		cfg.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if cfg.nowFunc == nil {
		cfg.nowFunc = time.Now
	}
	db, err := database.New(
		&database.Config{
			Logger:         cfg.logger,
			PromRegistry:   cfg.promRegistry,
			DataDir:        cfg.dataDir,
			BlobPlugin:     cfg.blobPlugin,
			MetadataPlugin: cfg.metadataPlugin,
		},
	)
	if err != nil {
		if db != nil {
			db.Close() //nolint:errcheck
		}
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{
		config: cfg,
		db:     db,
		policy: access.Policy{
			IssuerOrg:   cfg.issuerOrg,
			VerifierOrg: cfg.verifierOrg,
		},
		metrics: registerStoreMetrics(cfg.promRegistry),
	}
	return s, nil
}

// Database returns the underlying database instance
func (s *Store) Database() *database.Database {
	return s.db
}

// Logger returns the logger instance
func (s *Store) Logger() *slog.Logger {
	return s.config.logger
}

// Policy returns the access policy in effect
func (s *Store) Policy() access.Policy {
	return s.policy
}

// Close shuts down the store and its database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) now() time.Time {
	return s.config.nowFunc()
}

// authorize consults the access policy and maps a deny to ErrNotAuthorized.
// Policy lookup failures for unknown operations pass through unchanged.
func (s *Store) authorize(
	op access.Operation,
	caller identity.Identity,
	scope string,
) error {
	allowed, err := s.policy.Authorized(op, caller, scope)
	if err != nil {
		return err
	}
	if !allowed {
		s.config.logger.Debug(
			"operation denied",
			"component", "certstore",
			"operation", op.String(),
			"msp_id", caller.MSPID,
		)
		return ErrNotAuthorized
	}
	return nil
}
