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

package models

import (
	"slices"

	"github.com/blinklabs-io/gouroboros/cbor"
)

// Event is a named occasion for which badges can be claimed. It is
// stored CBOR-encoded in the blob store under its name
type Event struct {
	cbor.StructAsArray
	Name        string   `json:"name"`
	Organizer   string   `json:"organizer"`
	Description string   `json:"description"`
	Whitelist   []string `json:"whitelist"`
	Claimed     []string `json:"claimed"`
}

func (e *Event) IsWhitelisted(accountId string) bool {
	return slices.Contains(e.Whitelist, accountId)
}

func (e *Event) HasClaimed(accountId string) bool {
	return slices.Contains(e.Claimed, accountId)
}

// AddToWhitelist appends the accounts not already present, keeping
// insertion order. It returns the number of accounts added
func (e *Event) AddToWhitelist(accountIds ...string) int {
	added := 0
	for _, accountId := range accountIds {
		if e.IsWhitelisted(accountId) {
			continue
		}
		e.Whitelist = append(e.Whitelist, accountId)
		added++
	}
	return added
}

// MarkClaimed records a claim. It reports false if the account had
// already claimed
func (e *Event) MarkClaimed(accountId string) bool {
	if e.HasClaimed(accountId) {
		return false
	}
	e.Claimed = append(e.Claimed, accountId)
	return true
}

// Normalize replaces nil sets with empty ones so callers never see null
func (e *Event) Normalize() {
	if e.Whitelist == nil {
		e.Whitelist = []string{}
	}
	if e.Claimed == nil {
		e.Claimed = []string{}
	}
}
