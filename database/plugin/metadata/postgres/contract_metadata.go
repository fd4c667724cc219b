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

package postgres

import (
	"errors"

	"github.com/blinklabs-io/laurel/database/models"
	"github.com/blinklabs-io/laurel/database/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetContractMetadata returns the stored display metadata, or the default
// when none has been set
func (d *MetadataStorePostgres) GetContractMetadata(
	txn types.Txn,
) (models.ContractMetadata, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return models.ContractMetadata{}, err
	}
	var ret models.ContractMetadata
	result := db.First(&ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return models.DefaultContractMetadata(), nil
		}
		return models.ContractMetadata{}, result.Error
	}
	return ret, nil
}

// SetContractMetadata replaces the display metadata
func (d *MetadataStorePostgres) SetContractMetadata(
	meta *models.ContractMetadata,
	txn types.Txn,
) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	meta.Normalize()
	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(
			[]string{"spec", "name", "symbol", "icon", "base_uri"},
		),
	}).Create(meta)
	return result.Error
}
