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

package database

import (
	"fmt"
	"sync"

	"github.com/blinklabs-io/certstore/database/types"
	"gorm.io/gorm"
)

// Txn is a wrapper that coordinates both metadata and blob transactions.
// Metadata and blob are first-class siblings, not nested.
type Txn struct {
	db          *Database
	blobTxn     types.Txn
	metadataTxn *gorm.DB
	lock        sync.Mutex
	finished    bool
	readWrite   bool
}

func NewTxn(db *Database, readWrite bool) *Txn {
	t := &Txn{db: db, readWrite: readWrite}
	if bs := db.Blob(); bs != nil {
		t.blobTxn = bs.NewTransaction(readWrite)
	}
	if ms := db.Metadata(); ms != nil {
		t.metadataTxn = ms.Transaction()
	}
	return t
}

func (t *Txn) DB() *Database {
	return t.db
}

// Metadata returns the underlying metadata transaction handle
func (t *Txn) Metadata() *gorm.DB {
	return t.metadataTxn
}

// Blob returns the blob transaction handle
func (t *Txn) Blob() types.Txn {
	return t.blobTxn
}

// Do executes the specified function in the context of the transaction. Any errors returned will result
// in the transaction being rolled back
func (t *Txn) Do(fn func(*Txn) error) error {
	if err := fn(t); err != nil {
		if err2 := t.Rollback(); err2 != nil {
			return fmt.Errorf(
				"rollback failed: %w: original error: %w",
				err2,
				err,
			)
		}
		return err
	}
	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

func (t *Txn) Commit() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.finished {
		return nil
	}
	// Fail fast if neither store is available for a read-write transaction
	if t.readWrite && t.blobTxn == nil && t.metadataTxn == nil {
		t.finished = true
		return types.ErrNoStoreAvailable
	}
	// No need to commit for read-only, but we do want to free up resources
	if !t.readWrite {
		return t.rollback()
	}
	// Commit metadata first; the blob store holds the canonical record
	// bytes, so a metadata commit without a blob commit is detectable via
	// the commit timestamp check on the next open
	if t.metadataTxn != nil {
		if result := t.metadataTxn.Commit(); result.Error != nil {
			// Roll back the blob side so we don't leave it dangling
			if t.blobTxn != nil {
				t.blobTxn.Rollback() //nolint:errcheck
			}
			t.finished = true
			return result.Error
		}
	}
	if t.blobTxn != nil {
		if err := t.blobTxn.Commit(); err != nil {
			t.finished = true
			return err
		}
	}
	t.finished = true
	return nil
}

func (t *Txn) Rollback() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.rollback()
}

// rollback performs the actual rollback. The caller must hold the lock
func (t *Txn) rollback() error {
	if t.finished {
		return nil
	}
	if t.metadataTxn != nil {
		if result := t.metadataTxn.Rollback(); result.Error != nil {
			// Still attempt the blob rollback
			if t.blobTxn != nil {
				t.blobTxn.Rollback() //nolint:errcheck
			}
			t.finished = true
			return result.Error
		}
	}
	if t.blobTxn != nil {
		if err := t.blobTxn.Rollback(); err != nil {
			t.finished = true
			return err
		}
	}
	t.finished = true
	return nil
}
