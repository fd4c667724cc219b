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
)

// HasToken reports whether a token id has been issued
func (d *Database) HasToken(tokenId string, txn *Txn) (bool, error) {
	if txn == nil {
		txn = d.BlobTxn(false)
		defer txn.Release()
	}
	return hasBlobKey(txn, types.TokenKey(tokenId))
}

// GetToken returns a token and its metadata, or nil if the token does not
// exist
func (d *Database) GetToken(
	tokenId string,
	txn *Txn,
) (*models.Token, *models.TokenMetadata, error) {
	if txn == nil {
		txn = d.BlobTxn(false)
		defer txn.Release()
	}
	var token models.Token
	found, err := getBlobCbor(txn, types.TokenKey(tokenId), &token)
	if err != nil {
		return nil, nil, fmt.Errorf("decode token %s: %w", tokenId, err)
	}
	if !found {
		return nil, nil, nil
	}
	var metadata models.TokenMetadata
	found, err = getBlobCbor(txn, types.TokenMetadataKey(tokenId), &metadata)
	if err != nil {
		return nil, nil, fmt.Errorf("decode token metadata %s: %w", tokenId, err)
	}
	if !found {
		return &token, nil, nil
	}
	return &token, &metadata, nil
}

// SetToken stores a token record and its metadata
func (d *Database) SetToken(
	token *models.Token,
	metadata *models.TokenMetadata,
	txn *Txn,
) error {
	if err := setBlobCbor(txn, types.TokenKey(token.TokenId), token); err != nil {
		return err
	}
	return setBlobCbor(txn, types.TokenMetadataKey(token.TokenId), metadata)
}

// GetOwnerTokens returns the ids of the tokens held by an account in
// issue order
func (d *Database) GetOwnerTokens(accountId string, txn *Txn) ([]string, error) {
	if txn == nil {
		txn = d.BlobTxn(false)
		defer txn.Release()
	}
	var ret []string
	if _, err := getBlobCbor(txn, types.OwnerTokensKey(accountId), &ret); err != nil {
		return nil, fmt.Errorf("decode tokens for %q: %w", accountId, err)
	}
	if ret == nil {
		ret = []string{}
	}
	return ret, nil
}

func (d *Database) SetOwnerTokens(
	accountId string,
	tokenIds []string,
	txn *Txn,
) error {
	return setBlobCbor(txn, types.OwnerTokensKey(accountId), tokenIds)
}

// RecordMint writes the mint journal row for a token
func (d *Database) RecordMint(mint *models.Mint, txn *Txn) error {
	if txn == nil {
		return types.ErrNilTxn
	}
	ms := d.Metadata()
	if ms == nil {
		return types.ErrNoStoreAvailable
	}
	if txn.Metadata() == nil {
		return types.ErrNilTxn
	}
	return ms.SetMint(mint, txn.Metadata())
}

// GetMint returns the mint journal row for a token, or nil if there is none
func (d *Database) GetMint(tokenId string) (*models.Mint, error) {
	return d.Metadata().GetMint(tokenId, nil)
}

// CountMints returns the number of rows in the mint journal
func (d *Database) CountMints() (int64, error) {
	return d.Metadata().CountMints(nil)
}
