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
	"github.com/blinklabs-io/laurel/event"
)

// ClaimBadge mints the badge of an event to the caller. The caller must be
// on the event whitelist and may claim only once per event
func (c *Contract) ClaimBadge(
	ctx context.Context,
	call Call,
	eventName string,
) (*Token, error) {
	var ret *Token
	err := c.mutate(
		ctx,
		"claim_badge",
		call,
		func(txn *database.Txn) ([]event.Event, error) {
			if err := c.requireInitialized(txn); err != nil {
				return nil, err
			}
			tmpEvent, err := c.loadEvent(txn, eventName)
			if err != nil {
				return nil, err
			}
			if !tmpEvent.IsWhitelisted(call.Caller) {
				return nil, fmt.Errorf(
					"%w: %s for %s",
					ErrNotWhitelisted,
					call.Caller,
					eventName,
				)
			}
			if tmpEvent.HasClaimed(call.Caller) {
				return nil, fmt.Errorf(
					"%w: %s for %s",
					ErrAlreadyClaimed,
					call.Caller,
					eventName,
				)
			}
			issuedAt := strconv.FormatUint(call.Timestamp, 10)
			token, err := c.mint(
				txn,
				call.Caller,
				eventName,
				&models.TokenMetadata{
					Title:       tmpEvent.Name,
					Description: tmpEvent.Description,
					Media:       c.config.BadgeMediaUrl,
					IssuedAt:    issuedAt,
				},
				call.Timestamp,
			)
			if err != nil {
				return nil, err
			}
			tmpEvent.MarkClaimed(call.Caller)
			if err := c.db.SetEvent(tmpEvent, txn); err != nil {
				return nil, err
			}
			ret = token
			var deposit string
			if call.Deposit != nil && call.Deposit.Sign() > 0 {
				deposit = call.Deposit.String()
				c.logger.Debug(
					"claim carried attached deposit",
					"caller", call.Caller,
					"event", eventName,
					"deposit", deposit,
				)
			}
			return []event.Event{
				event.NewEvent(
					event.BadgeClaimedEventType,
					event.BadgeClaimedEvent{
						EventName: eventName,
						AccountId: call.Caller,
						TokenId:   token.TokenId,
						IssuedAt:  issuedAt,
						Deposit:   deposit,
					},
				),
			}, nil
		},
	)
	if err != nil {
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.tokensMinted.Inc()
	}
	c.logger.Info(
		"badge claimed",
		"event", eventName,
		"owner", call.Caller,
		"token_id", ret.TokenId,
	)
	return ret, nil
}
