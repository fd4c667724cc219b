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

package event

// Contract state transitions, published after the transaction that made
// them has committed
const (
	ContractInitializedEventType    = EventType("contract.initialized")
	OrganizerAddedEventType         = EventType("contract.organizer_added")
	EventCreatedEventType           = EventType("contract.event_created")
	WhitelistUpdatedEventType       = EventType("contract.whitelist_updated")
	BadgeClaimedEventType           = EventType("contract.badge_claimed")
	EventDeletedEventType           = EventType("contract.event_deleted")
	DisplayMetadataUpdatedEventType = EventType("contract.display_metadata_updated")
)

// ContractEventTypes lists every contract event type
var ContractEventTypes = []EventType{
	ContractInitializedEventType,
	OrganizerAddedEventType,
	EventCreatedEventType,
	WhitelistUpdatedEventType,
	BadgeClaimedEventType,
	EventDeletedEventType,
	DisplayMetadataUpdatedEventType,
}

type ContractInitializedEvent struct {
	Owner string `json:"owner"`
}

type OrganizerAddedEvent struct {
	AccountId string `json:"account_id"`
	AddedBy   string `json:"added_by"`
}

type EventCreatedEvent struct {
	Name        string `json:"name"`
	Organizer   string `json:"organizer"`
	Description string `json:"description"`
}

// WhitelistUpdatedEvent carries only the accounts that were newly added
type WhitelistUpdatedEvent struct {
	EventName string   `json:"event_name"`
	Organizer string   `json:"organizer"`
	Added     []string `json:"added"`
}

type BadgeClaimedEvent struct {
	EventName string `json:"event_name"`
	AccountId string `json:"account_id"`
	TokenId   string `json:"token_id"`
	IssuedAt  string `json:"issued_at"`
	// Decimal amount attached to the call, empty when none
	Deposit string `json:"deposit,omitempty"`
}

type EventDeletedEvent struct {
	Name      string `json:"name"`
	DeletedBy string `json:"deleted_by"`
}

type DisplayMetadataUpdatedEvent struct {
	Name      string `json:"name"`
	Symbol    string `json:"symbol"`
	UpdatedBy string `json:"updated_by"`
}
