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
	"github.com/blinklabs-io/laurel/database/models"
	"github.com/blinklabs-io/laurel/database/types"
)

// GetContractMetadata returns the display metadata
func (d *Database) GetContractMetadata(txn *Txn) (models.ContractMetadata, error) {
	if txn == nil {
		return d.Metadata().GetContractMetadata(nil)
	}
	return d.Metadata().GetContractMetadata(txn.Metadata())
}

// SetContractMetadata replaces the display metadata. When txn covers the
// blob store a copy is kept there too, so that commit timestamp recovery
// can restore a row lost to a torn commit
func (d *Database) SetContractMetadata(meta *models.ContractMetadata, txn *Txn) error {
	if txn == nil {
		return d.Metadata().SetContractMetadata(meta, nil)
	}
	if err := d.Metadata().SetContractMetadata(meta, txn.Metadata()); err != nil {
		return err
	}
	if txn.Blob() == nil {
		return nil
	}
	return setBlobCbor(txn, []byte(types.ContractMetadataKey), meta)
}
