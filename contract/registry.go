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

	"github.com/blinklabs-io/laurel/database"
	"github.com/blinklabs-io/laurel/event"
)

// Initialize makes the caller the contract owner. It succeeds only once
func (c *Contract) Initialize(ctx context.Context, call Call) error {
	return c.mutate(
		ctx,
		"initialize",
		call,
		func(txn *database.Txn) ([]event.Event, error) {
			initialized, err := c.db.IsInitialized(txn)
			if err != nil {
				return nil, err
			}
			if initialized {
				return nil, ErrAlreadyInitialized
			}
			if err := c.db.SetInitialized(call.Caller, txn); err != nil {
				return nil, err
			}
			c.logger.Info(
				"contract initialized",
				"owner", call.Caller,
			)
			return []event.Event{
				event.NewEvent(
					event.ContractInitializedEventType,
					event.ContractInitializedEvent{Owner: call.Caller},
				),
			}, nil
		},
	)
}

// AddOrganizer grants the organizer role. Only the owner may call it, and
// adding an existing organizer is a no-op
func (c *Contract) AddOrganizer(
	ctx context.Context,
	call Call,
	accountId string,
) error {
	return c.mutate(
		ctx,
		"add_organizer",
		call,
		func(txn *database.Txn) ([]event.Event, error) {
			if err := c.requireInitialized(txn); err != nil {
				return nil, err
			}
			if err := c.requireOwner(txn, call.Caller); err != nil {
				return nil, err
			}
			if accountId == "" {
				return nil, fmt.Errorf("%w: account not specified", ErrInvalidArgument)
			}
			if err := c.db.AddOrganizer(accountId, txn); err != nil {
				return nil, err
			}
			return []event.Event{
				event.NewEvent(
					event.OrganizerAddedEventType,
					event.OrganizerAddedEvent{
						AccountId: accountId,
						AddedBy:   call.Caller,
					},
				),
			}, nil
		},
	)
}

func (c *Contract) IsOrganizer(ctx context.Context, accountId string) (bool, error) {
	var ret bool
	err := c.view(ctx, "is_organizer", func(txn *database.Txn) error {
		var err error
		ret, err = c.db.IsOrganizer(accountId, txn)
		return err
	})
	return ret, err
}

func (c *Contract) IsOwner(ctx context.Context, accountId string) (bool, error) {
	owner, err := c.Owner(ctx)
	if err != nil {
		return false, err
	}
	return owner != "" && owner == accountId, nil
}

// Owner returns the owner account, or "" before initialization
func (c *Contract) Owner(ctx context.Context) (string, error) {
	var ret string
	err := c.view(ctx, "owner", func(txn *database.Txn) error {
		var err error
		ret, err = c.db.GetOwner(txn)
		return err
	})
	return ret, err
}

func (c *Contract) ListOrganizers(ctx context.Context) ([]string, error) {
	var ret []string
	err := c.view(ctx, "list_organizers", func(txn *database.Txn) error {
		var err error
		ret, err = c.db.ListOrganizers(txn)
		return err
	})
	return ret, err
}
