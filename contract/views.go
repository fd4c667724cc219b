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
	"github.com/blinklabs-io/laurel/database/models"
	"github.com/blinklabs-io/laurel/event"
)

// GetEvent returns an event, or nil if it does not exist
func (c *Contract) GetEvent(ctx context.Context, name string) (*models.Event, error) {
	var ret *models.Event
	err := c.view(ctx, "get_event", func(txn *database.Txn) error {
		if err := c.requireInitialized(txn); err != nil {
			return err
		}
		var err error
		ret, err = c.db.GetEvent(name, txn)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// GetWhitelist returns the whitelist of an event in insertion order, or
// nil if the event does not exist
func (c *Contract) GetWhitelist(ctx context.Context, eventName string) ([]string, error) {
	tmpEvent, err := c.GetEvent(ctx, eventName)
	if err != nil {
		return nil, err
	}
	if tmpEvent == nil {
		return nil, nil
	}
	return tmpEvent.Whitelist, nil
}

// ListEvents returns all events ordered by name
func (c *Contract) ListEvents(ctx context.Context) ([]models.Event, error) {
	var ret []models.Event
	err := c.view(ctx, "list_events", func(txn *database.Txn) error {
		var err error
		ret, err = c.db.ListEvents(txn)
		return err
	})
	return ret, err
}

// ContractDisplayMetadata returns the collection display metadata
func (c *Contract) ContractDisplayMetadata(ctx context.Context) (models.ContractMetadata, error) {
	_, span := c.tracer.Start(ctx, "contract.contract_display_metadata")
	defer span.End()
	return c.db.GetContractMetadata(nil)
}

// SetDisplayMetadata replaces the collection display metadata. Only the
// owner may call it. Empty required fields fall back to their defaults
func (c *Contract) SetDisplayMetadata(
	ctx context.Context,
	call Call,
	meta models.ContractMetadata,
) (models.ContractMetadata, error) {
	err := c.mutate(
		ctx,
		"set_display_metadata",
		call,
		func(txn *database.Txn) ([]event.Event, error) {
			if err := c.requireInitialized(txn); err != nil {
				return nil, err
			}
			if err := c.requireOwner(txn, call.Caller); err != nil {
				return nil, err
			}
			if err := c.db.SetContractMetadata(&meta, txn); err != nil {
				return nil, fmt.Errorf("set display metadata: %w", err)
			}
			return []event.Event{
				event.NewEvent(
					event.DisplayMetadataUpdatedEventType,
					event.DisplayMetadataUpdatedEvent{
						Name:      meta.Name,
						Symbol:    meta.Symbol,
						UpdatedBy: call.Caller,
					},
				),
			}, nil
		},
	)
	if err != nil {
		return models.ContractMetadata{}, err
	}
	return meta, nil
}
