// Copyright 2026 Blink Labs Software
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
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blinklabs-io/laurel/database/types"
)

// Txn spans one blob transaction and one metadata transaction, either of
// which may be absent. Commit writes the same commit timestamp to both so
// a torn commit is detected on the next open
type Txn struct {
	db          *Database
	blobTxn     types.Txn
	metadataTxn types.Txn
	lock        sync.Mutex
	finished    bool
	readWrite   bool
}

func newTxn(db *Database, readWrite, withBlob, withMetadata bool) *Txn {
	t := &Txn{db: db, readWrite: readWrite}
	if bs := db.Blob(); withBlob && bs != nil {
		t.blobTxn = bs.NewTransaction(readWrite)
	}
	if ms := db.Metadata(); withMetadata && ms != nil {
		t.metadataTxn = ms.Transaction()
		if t.metadataTxn == nil {
			db.logger.Warn(
				"metadata transaction is nil; callers must nil-check txn.Metadata()",
				"component", "database",
			)
		}
	}
	return t
}

// NewTxn starts a transaction covering both stores
func NewTxn(db *Database, readWrite bool) *Txn {
	return newTxn(db, readWrite, true, true)
}

// NewBlobOnlyTxn starts a transaction covering only the blob store. Read
// views use it so they never wait on the metadata connection
func NewBlobOnlyTxn(db *Database, readWrite bool) *Txn {
	return newTxn(db, readWrite, true, false)
}

// NewMetadataOnlyTxn starts a transaction covering only the metadata store
func NewMetadataOnlyTxn(db *Database, readWrite bool) *Txn {
	return newTxn(db, readWrite, false, true)
}

func (t *Txn) DB() *Database {
	return t.db
}

// Metadata returns the underlying metadata transaction handle
func (t *Txn) Metadata() types.Txn {
	return t.metadataTxn
}

// Blob returns the blob transaction handle
func (t *Txn) Blob() types.Txn {
	return t.blobTxn
}

// Do runs fn inside the transaction. The transaction is committed when fn
// returns nil and rolled back otherwise
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
	if !t.readWrite {
		// Nothing to write, just release resources
		return t.rollback()
	}
	if t.blobTxn == nil && t.metadataTxn == nil {
		t.finished = true
		return types.ErrNoStoreAvailable
	}
	if t.blobTxn != nil && t.metadataTxn != nil {
		if err := t.db.updateCommitTimestamp(t, time.Now().UnixMilli()); err != nil {
			_ = t.rollback()
			return fmt.Errorf("failed to update commit timestamp: %w", err)
		}
	}
	defer func() {
		t.finished = true
	}()
	// The blob store is authoritative, so it commits first. If it fails the
	// metadata side is discarded
	if t.blobTxn != nil {
		if err := t.blobTxn.Commit(); err != nil {
			if t.metadataTxn != nil {
				_ = t.metadataTxn.Rollback()
			}
			return fmt.Errorf("blob commit failed: %w", err)
		}
	}
	if t.metadataTxn != nil {
		if err := t.metadataTxn.Commit(); err != nil {
			t.db.logger.Error(
				"partial commit: blob committed, metadata failed",
				"component", "database",
				"error", err,
			)
			_ = t.metadataTxn.Rollback()
			return fmt.Errorf(
				"partial commit: metadata commit failed after blob commit: %w",
				err,
			)
		}
	}
	return nil
}

func (t *Txn) Rollback() error {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.rollback()
}

func (t *Txn) rollback() error {
	if t.finished {
		return nil
	}
	t.finished = true
	var errs []error
	if t.blobTxn != nil {
		if err := t.blobTxn.Rollback(); err != nil {
			errs = append(errs, fmt.Errorf("blob rollback: %w", err))
		}
	}
	if t.metadataTxn != nil {
		if err := t.metadataTxn.Rollback(); err != nil {
			errs = append(errs, fmt.Errorf("metadata rollback: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Release rolls back the transaction and logs any failure. It is meant
// for defer statements
func (t *Txn) Release() {
	if err := t.Rollback(); err != nil {
		t.db.logger.Debug(
			"transaction release failed",
			"component", "database",
			"error", err,
			"read_write", t.readWrite,
		)
	}
}
