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

package contract

import (
	"context"
	"fmt"
	"strconv"

	"github.com/blinklabs-io/laurel/database"
	"github.com/blinklabs-io/laurel/database/models"
	"github.com/blinklabs-io/laurel/database/types"
)

// Token is a badge together with its metadata snapshot
type Token struct {
	Metadata *models.TokenMetadata `json:"metadata"`
	TokenId  string                `json:"token_id"`
	OwnerId  string                `json:"owner_id"`
}

// mint issues the next token id to ownerId. It performs no authorization
// checks; callers are expected to have done so
func (c *Contract) mint(
	txn *database.Txn,
	ownerId string,
	eventName string,
	metadata *models.TokenMetadata,
	issuedAt uint64,
) (*Token, error) {
	counter, err := c.db.GetTokenIdCounter(txn)
	if err != nil {
		return nil, err
	}
	tokenId := strconv.FormatUint(counter, 10)
	exists, err := c.db.HasToken(tokenId, txn)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrTokenIdCollision, tokenId)
	}
	token := &models.Token{
		TokenId: tokenId,
		OwnerId: ownerId,
	}
	if err := c.db.SetToken(token, metadata, txn); err != nil {
		return nil, err
	}
	ownerTokens, err := c.db.GetOwnerTokens(ownerId, txn)
	if err != nil {
		return nil, err
	}
	ownerTokens = append(ownerTokens, tokenId)
	if err := c.db.SetOwnerTokens(ownerId, ownerTokens, txn); err != nil {
		return nil, err
	}
	if err := c.db.SetTokenIdCounter(counter+1, txn); err != nil {
		return nil, err
	}
	if err := c.db.RecordMint(
		&models.Mint{
			TokenId:   tokenId,
			OwnerId:   ownerId,
			EventName: eventName,
			IssuedAt:  types.Uint64(issuedAt),
		},
		txn,
	); err != nil {
		return nil, fmt.Errorf("record mint %s: %w", tokenId, err)
	}
	return &Token{
		TokenId:  tokenId,
		OwnerId:  ownerId,
		Metadata: metadata,
	}, nil
}

// GetToken returns a token, or nil if it does not exist
func (c *Contract) GetToken(ctx context.Context, tokenId string) (*Token, error) {
	var ret *Token
	err := c.view(ctx, "get_token", func(txn *database.Txn) error {
		var err error
		ret, err = c.loadToken(txn, tokenId)
		return err
	})
	return ret, err
}

func (c *Contract) loadToken(txn *database.Txn, tokenId string) (*Token, error) {
	token, metadata, err := c.db.GetToken(tokenId, txn)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, nil
	}
	return &Token{
		TokenId:  token.TokenId,
		OwnerId:  token.OwnerId,
		Metadata: metadata,
	}, nil
}

// TokensForOwner returns every token held by an account in issue order
func (c *Contract) TokensForOwner(ctx context.Context, accountId string) ([]Token, error) {
	return c.TokensForOwnerPage(ctx, accountId, 0, 0)
}

// TokensForOwnerPage returns up to limit tokens held by an account,
// starting at fromIndex in issue order. A zero limit returns the rest
func (c *Contract) TokensForOwnerPage(
	ctx context.Context,
	accountId string,
	fromIndex uint64,
	limit uint64,
) ([]Token, error) {
	ret := []Token{}
	err := c.view(ctx, "tokens_for_owner", func(txn *database.Txn) error {
		tokenIds, err := c.db.GetOwnerTokens(accountId, txn)
		if err != nil {
			return err
		}
		if fromIndex >= uint64(len(tokenIds)) {
			return nil
		}
		tokenIds = tokenIds[fromIndex:]
		if limit > 0 && limit < uint64(len(tokenIds)) {
			tokenIds = tokenIds[:limit]
		}
		for _, tokenId := range tokenIds {
			token, err := c.loadToken(txn, tokenId)
			if err != nil {
				return err
			}
			// The owner index only references issued tokens
			if token == nil {
				return fmt.Errorf("token %s in index of %s not found", tokenId, accountId)
			}
			ret = append(ret, *token)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// TotalSupply returns the number of badges ever issued
func (c *Contract) TotalSupply(ctx context.Context) (uint64, error) {
	var ret uint64
	err := c.view(ctx, "total_supply", func(txn *database.Txn) error {
		var err error
		ret, err = c.db.GetTokenIdCounter(txn)
		return err
	})
	return ret, err
}
