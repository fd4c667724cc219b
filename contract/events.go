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

// CreateEvent registers a new event organized by the caller, who must be
// the owner or an organizer
func (c *Contract) CreateEvent(
	ctx context.Context,
	call Call,
	name string,
	description string,
) (*models.Event, error) {
	var ret *models.Event
	err := c.mutate(
		ctx,
		"create_event",
		call,
		func(txn *database.Txn) ([]event.Event, error) {
			if err := c.requireInitialized(txn); err != nil {
				return nil, err
			}
			if err := c.requireOwnerOrOrganizer(txn, call.Caller); err != nil {
				return nil, err
			}
			if name == "" {
				return nil, fmt.Errorf("%w: event name is empty", ErrInvalidArgument)
			}
			existing, err := c.db.GetEvent(name, txn)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateEvent, name)
			}
			tmpEvent := &models.Event{
				Name:        name,
				Organizer:   call.Caller,
				Description: description,
			}
			tmpEvent.Normalize()
			if err := c.db.SetEvent(tmpEvent, txn); err != nil {
				return nil, err
			}
			ret = tmpEvent
			return []event.Event{
				event.NewEvent(
					event.EventCreatedEventType,
					event.EventCreatedEvent{
						Name:        name,
						Organizer:   call.Caller,
						Description: description,
					},
				),
			}, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (c *Contract) requireOwnerOrOrganizer(txn *database.Txn, accountId string) error {
	owner, err := c.db.GetOwner(txn)
	if err != nil {
		return err
	}
	if owner == accountId {
		return nil
	}
	isOrganizer, err := c.db.IsOrganizer(accountId, txn)
	if err != nil {
		return err
	}
	if !isOrganizer {
		return fmt.Errorf(
			"%w: %s is neither owner nor organizer",
			ErrUnauthorized,
			accountId,
		)
	}
	return nil
}

// loadEvent returns the named event or ErrEventNotFound
func (c *Contract) loadEvent(txn *database.Txn, name string) (*models.Event, error) {
	tmpEvent, err := c.db.GetEvent(name, txn)
	if err != nil {
		return nil, err
	}
	if tmpEvent == nil {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, name)
	}
	return tmpEvent, nil
}

// AddToWhitelist allows accounts to claim the event badge. Only the event
// organizer may call it. Accounts already on the whitelist are skipped,
// and a failure leaves the whitelist untouched
func (c *Contract) AddToWhitelist(
	ctx context.Context,
	call Call,
	eventName string,
	accountIds []string,
) error {
	return c.mutate(
		ctx,
		"add_to_whitelist",
		call,
		func(txn *database.Txn) ([]event.Event, error) {
			if err := c.requireInitialized(txn); err != nil {
				return nil, err
			}
			tmpEvent, err := c.loadEvent(txn, eventName)
			if err != nil {
				return nil, err
			}
			if tmpEvent.Organizer != call.Caller {
				return nil, fmt.Errorf(
					"%w: %s does not organize %s",
					ErrUnauthorized,
					call.Caller,
					eventName,
				)
			}
			for _, accountId := range accountIds {
				if accountId == "" {
					return nil, fmt.Errorf("%w: empty account in whitelist", ErrInvalidArgument)
				}
			}
			before := len(tmpEvent.Whitelist)
			if tmpEvent.AddToWhitelist(accountIds...) == 0 {
				return nil, nil
			}
			if err := c.db.SetEvent(tmpEvent, txn); err != nil {
				return nil, err
			}
			added := append([]string(nil), tmpEvent.Whitelist[before:]...)
			return []event.Event{
				event.NewEvent(
					event.WhitelistUpdatedEventType,
					event.WhitelistUpdatedEvent{
						EventName: eventName,
						Organizer: call.Caller,
						Added:     added,
					},
				),
			}, nil
		},
	)
}

// DeleteEvent removes an event and its membership sets. Badges already
// issued for it stay valid
func (c *Contract) DeleteEvent(ctx context.Context, call Call, eventName string) error {
	return c.mutate(
		ctx,
		"delete_event",
		call,
		func(txn *database.Txn) ([]event.Event, error) {
			if err := c.requireInitialized(txn); err != nil {
				return nil, err
			}
			tmpEvent, err := c.loadEvent(txn, eventName)
			if err != nil {
				return nil, err
			}
			if tmpEvent.Organizer != call.Caller {
				if err := c.requireOwner(txn, call.Caller); err != nil {
					return nil, err
				}
			}
			if err := c.db.DeleteEvent(eventName, txn); err != nil {
				return nil, err
			}
			return []event.Event{
				event.NewEvent(
					event.EventDeletedEventType,
					event.EventDeletedEvent{
						Name:      eventName,
						DeletedBy: call.Caller,
					},
				),
			}, nil
		},
	)
}
