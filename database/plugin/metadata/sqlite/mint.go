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

package sqlite

import (
	"errors"

	"github.com/blinklabs-io/laurel/database/models"
	"github.com/blinklabs-io/laurel/database/types"
	"gorm.io/gorm"
)

// SetMint records a badge mint. A second row for the same token id fails
func (d *MetadataStoreSqlite) SetMint(mint *models.Mint, txn types.Txn) error {
	db, err := d.resolveDB(txn)
	if err != nil {
		return err
	}
	return db.Create(mint).Error
}

// GetMint returns the mint row for a token id, or nil if there is none
func (d *MetadataStoreSqlite) GetMint(
	tokenId string,
	txn types.Txn,
) (*models.Mint, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret models.Mint
	result := db.Where("token_id = ?", tokenId).First(&ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &ret, nil
}

// GetMintsByEvent returns the mints of an event in issue order
func (d *MetadataStoreSqlite) GetMintsByEvent(
	eventName string,
	txn types.Txn,
) ([]models.Mint, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return nil, err
	}
	var ret []models.Mint
	result := db.Where("event_name = ?", eventName).
		Order("CAST(token_id AS INTEGER)").
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// CountMints returns the number of recorded mints
func (d *MetadataStoreSqlite) CountMints(txn types.Txn) (int64, error) {
	db, err := d.resolveDB(txn)
	if err != nil {
		return 0, err
	}
	var count int64
	if result := db.Model(&models.Mint{}).Count(&count); result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}
