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

	"github.com/blinklabs-io/laurel/database/plugin/blob"
	"github.com/blinklabs-io/laurel/database/types"
	"github.com/blinklabs-io/gouroboros/cbor"
)

// blobStore returns the blob store and transaction handle for txn
func blobStore(txn *Txn) (blob.BlobStore, types.Txn, error) {
	if txn == nil {
		return nil, nil, types.ErrNilTxn
	}
	blobTxn := txn.Blob()
	if blobTxn == nil {
		return nil, nil, types.ErrNilTxn
	}
	bs := txn.DB().Blob()
	if bs == nil {
		return nil, nil, types.ErrBlobStoreUnavailable
	}
	return bs, blobTxn, nil
}

// getBlobCbor decodes the value at key into dest. It reports false if
// the key does not exist
func getBlobCbor(txn *Txn, key []byte, dest any) (bool, error) {
	bs, blobTxn, err := blobStore(txn)
	if err != nil {
		return false, err
	}
	val, err := bs.Get(blobTxn, key)
	if err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	if _, err := cbor.Decode(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

func setBlobCbor(txn *Txn, key []byte, val any) error {
	bs, blobTxn, err := blobStore(txn)
	if err != nil {
		return err
	}
	valBytes, err := cbor.Encode(val)
	if err != nil {
		return err
	}
	return bs.Set(blobTxn, key, valBytes)
}

func hasBlobKey(txn *Txn, key []byte) (bool, error) {
	bs, blobTxn, err := blobStore(txn)
	if err != nil {
		return false, err
	}
	if _, err := bs.Get(blobTxn, key); err != nil {
		if errors.Is(err, types.ErrBlobKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// scanBlobPrefix calls fn with the key suffix and value of every entry
// under prefix, in key order
func scanBlobPrefix(
	txn *Txn,
	prefix string,
	fn func(suffix string, val []byte) error,
) error {
	bs, blobTxn, err := blobStore(txn)
	if err != nil {
		return err
	}
	prefixBytes := []byte(prefix)
	iter := bs.NewIterator(
		blobTxn,
		types.BlobIteratorOptions{Prefix: prefixBytes},
	)
	defer iter.Close()
	for iter.Seek(prefixBytes); iter.ValidForPrefix(prefixBytes); iter.Next() {
		item := iter.Item()
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := fn(types.KeySuffix(prefix, item.Key()), val); err != nil {
			return err
		}
	}
	return iter.Err()
}
