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
	"fmt"

	"github.com/blinklabs-io/laurel/database/models"
	"github.com/blinklabs-io/laurel/database/types"
	"github.com/blinklabs-io/gouroboros/cbor"
)

// GetEvent returns the named event, or nil if it does not exist
func (d *Database) GetEvent(name string, txn *Txn) (*models.Event, error) {
	if txn == nil {
		txn = d.BlobTxn(false)
		defer txn.Release()
	}
	var ret models.Event
	found, err := getBlobCbor(txn, types.EventKey(name), &ret)
	if err != nil {
		return nil, fmt.Errorf("decode event %q: %w", name, err)
	}
	if !found {
		return nil, nil
	}
	ret.Normalize()
	return &ret, nil
}

// SetEvent creates or replaces an event
func (d *Database) SetEvent(event *models.Event, txn *Txn) error {
	return setBlobCbor(txn, types.EventKey(event.Name), event)
}

// DeleteEvent removes an event record along with its membership sets
func (d *Database) DeleteEvent(name string, txn *Txn) error {
	bs, blobTxn, err := blobStore(txn)
	if err != nil {
		return err
	}
	return bs.Delete(blobTxn, types.EventKey(name))
}

// ListEvents returns all events ordered by name
func (d *Database) ListEvents(txn *Txn) ([]models.Event, error) {
	if txn == nil {
		txn = d.BlobTxn(false)
		defer txn.Release()
	}
	ret := []models.Event{}
	err := scanBlobPrefix(
		txn,
		types.EventKeyPrefix,
		func(name string, val []byte) error {
			var tmpEvent models.Event
			if _, err := cbor.Decode(val, &tmpEvent); err != nil {
				return fmt.Errorf("decode event %q: %w", name, err)
			}
			tmpEvent.Normalize()
			ret = append(ret, tmpEvent)
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return ret, nil
}
