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

	"github.com/blinklabs-io/laurel/database/types"
)

// markerValue is stored for keys whose presence is all that matters
var markerValue = []byte{1}

// IsInitialized reports whether the contract has been initialized
func (d *Database) IsInitialized(txn *Txn) (bool, error) {
	if txn == nil {
		txn = d.BlobTxn(false)
		defer txn.Release()
	}
	return hasBlobKey(txn, []byte(types.ContractInitializedKey))
}

// SetInitialized records the contract owner and marks the contract as
// initialized
func (d *Database) SetInitialized(ownerId string, txn *Txn) error {
	bs, blobTxn, err := blobStore(txn)
	if err != nil {
		return err
	}
	if err := bs.Set(blobTxn, []byte(types.ContractOwnerKey), []byte(ownerId)); err != nil {
		return err
	}
	return bs.Set(blobTxn, []byte(types.ContractInitializedKey), markerValue)
}

// GetOwner returns the contract owner, or "" before initialization
func (d *Database) GetOwner(txn *Txn) (string, error) {
	if txn == nil {
		txn = d.BlobTxn(false)
		defer txn.Release()
	}
	bs, blobTxn, err := blobStore(txn)
	if err != nil {
		return "", err
	}
	val, err := bs.Get(blobTxn, []byte(types.ContractOwnerKey))
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return "", nil
		}
		return "", err
	}
	return string(val), nil
}

// GetTokenIdCounter returns the next token id to be issued
func (d *Database) GetTokenIdCounter(txn *Txn) (uint64, error) {
	if txn == nil {
		txn = d.BlobTxn(false)
		defer txn.Release()
	}
	bs, blobTxn, err := blobStore(txn)
	if err != nil {
		return 0, err
	}
	val, err := bs.Get(blobTxn, []byte(types.TokenIdCounterKey))
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return types.BytesToUint64(val)
}

func (d *Database) SetTokenIdCounter(counter uint64, txn *Txn) error {
	bs, blobTxn, err := blobStore(txn)
	if err != nil {
		return err
	}
	return bs.Set(
		blobTxn,
		[]byte(types.TokenIdCounterKey),
		types.Uint64ToBytes(counter),
	)
}
