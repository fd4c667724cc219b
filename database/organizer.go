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
	"github.com/blinklabs-io/laurel/database/types"
)

// AddOrganizer adds an account to the organizer set. Adding an existing
// organizer is a no-op
func (d *Database) AddOrganizer(accountId string, txn *Txn) error {
	bs, blobTxn, err := blobStore(txn)
	if err != nil {
		return err
	}
	return bs.Set(blobTxn, types.OrganizerKey(accountId), markerValue)
}

func (d *Database) IsOrganizer(accountId string, txn *Txn) (bool, error) {
	if txn == nil {
		txn = d.BlobTxn(false)
		defer txn.Release()
	}
	return hasBlobKey(txn, types.OrganizerKey(accountId))
}

// ListOrganizers returns all organizers in key order
func (d *Database) ListOrganizers(txn *Txn) ([]string, error) {
	if txn == nil {
		txn = d.BlobTxn(false)
		defer txn.Release()
	}
	ret := []string{}
	err := scanBlobPrefix(
		txn,
		types.OrganizerKeyPrefix,
		func(accountId string, _ []byte) error {
			ret = append(ret, accountId)
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return ret, nil
}
