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

package api

import (
	"context"

	"github.com/blinklabs-io/laurel/contract"
	"github.com/blinklabs-io/laurel/database/models"
)

// BadgeContract is the set of contract operations the API server calls.
// *contract.Contract implements it; tests may substitute their own.
type BadgeContract interface {
	Initialize(ctx context.Context, call contract.Call) error
	Owner(ctx context.Context) (string, error)
	IsOwner(ctx context.Context, accountId string) (bool, error)
	AddOrganizer(ctx context.Context, call contract.Call, accountId string) error
	IsOrganizer(ctx context.Context, accountId string) (bool, error)
	ListOrganizers(ctx context.Context) ([]string, error)

	CreateEvent(
		ctx context.Context,
		call contract.Call,
		name string,
		description string,
	) (*models.Event, error)
	AddToWhitelist(
		ctx context.Context,
		call contract.Call,
		eventName string,
		accountIds []string,
	) error
	DeleteEvent(ctx context.Context, call contract.Call, eventName string) error
	GetEvent(ctx context.Context, name string) (*models.Event, error)
	GetWhitelist(ctx context.Context, eventName string) ([]string, error)
	ListEvents(ctx context.Context) ([]models.Event, error)

	ClaimBadge(
		ctx context.Context,
		call contract.Call,
		eventName string,
	) (*contract.Token, error)
	GetToken(ctx context.Context, tokenId string) (*contract.Token, error)
	TokensForOwnerPage(
		ctx context.Context,
		accountId string,
		fromIndex uint64,
		limit uint64,
	) ([]contract.Token, error)
	TotalSupply(ctx context.Context) (uint64, error)

	ContractDisplayMetadata(ctx context.Context) (models.ContractMetadata, error)
	SetDisplayMetadata(
		ctx context.Context,
		call contract.Call,
		meta models.ContractMetadata,
	) (models.ContractMetadata, error)
}

var _ BadgeContract = (*contract.Contract)(nil)
