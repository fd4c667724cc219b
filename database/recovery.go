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
	"strconv"

	"github.com/blinklabs-io/laurel/database/models"
	"github.com/blinklabs-io/laurel/database/types"
)

// RecoverCommitTimestampConflict repairs the stores after a commit that
// reached the blob store but not the metadata store. The blob store is
// authoritative: mint journal rows missing for issued tokens are rebuilt
// from the token metadata snapshot, display metadata is restored from its
// blob copy, and the commit of the repair brings both commit timestamps
// back in line
func (d *Database) RecoverCommitTimestampConflict() (int, error) {
	ms := d.Metadata()
	if ms == nil {
		return 0, types.ErrNoStoreAvailable
	}
	rebuilt := 0
	restoredMetadata := false
	txn := d.Transaction(true)
	err := txn.Do(func(txn *Txn) error {
		if txn.Metadata() == nil {
			return types.ErrNilTxn
		}
		counter, err := d.GetTokenIdCounter(txn)
		if err != nil {
			return err
		}
		for id := range counter {
			tokenId := strconv.FormatUint(id, 10)
			mint, err := ms.GetMint(tokenId, txn.Metadata())
			if err != nil {
				return err
			}
			if mint != nil {
				continue
			}
			token, metadata, err := d.GetToken(tokenId, txn)
			if err != nil {
				return err
			}
			if token == nil || metadata == nil {
				return fmt.Errorf("token %s below counter %d not found", tokenId, counter)
			}
			issuedAt, err := strconv.ParseUint(metadata.IssuedAt, 10, 64)
			if err != nil {
				return fmt.Errorf("token %s: invalid issued_at: %w", tokenId, err)
			}
			if err := ms.SetMint(
				&models.Mint{
					TokenId: tokenId,
					OwnerId: token.OwnerId,
					// Badge titles are the name of the event
					EventName: metadata.Title,
					IssuedAt:  types.Uint64(issuedAt),
				},
				txn.Metadata(),
			); err != nil {
				return err
			}
			rebuilt++
		}
		var blobMeta models.ContractMetadata
		found, err := getBlobCbor(
			txn,
			[]byte(types.ContractMetadataKey),
			&blobMeta,
		)
		if err != nil {
			return fmt.Errorf("decode display metadata: %w", err)
		}
		if !found {
			return nil
		}
		current, err := ms.GetContractMetadata(txn.Metadata())
		if err != nil {
			return err
		}
		if current == blobMeta {
			return nil
		}
		restoredMetadata = true
		return ms.SetContractMetadata(&blobMeta, txn.Metadata())
	})
	if err != nil {
		return 0, fmt.Errorf("commit timestamp recovery: %w", err)
	}
	d.logger.Info(
		"recovered from commit timestamp conflict",
		"component", "database",
		"rebuilt_mints", rebuilt,
		"restored_display_metadata", restoredMetadata,
	)
	return rebuilt, nil
}
