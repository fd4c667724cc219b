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

import "github.com/blinklabs-io/gouroboros/cbor"

// Token is an issued badge. Its owner never changes
type Token struct {
	cbor.StructAsArray
	TokenId string `json:"token_id"`
	OwnerId string `json:"owner_id"`
}

// TokenMetadata is the snapshot of an event taken when its badge was
// claimed
type TokenMetadata struct {
	cbor.StructAsArray
	Title       string `json:"title"`
	Description string `json:"description"`
	Media       string `json:"media"`
	// Decimal string of the block timestamp in nanoseconds
	IssuedAt string `json:"issued_at"`
}
