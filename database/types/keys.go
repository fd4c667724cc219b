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

package types

import (
	"encoding/binary"
	"errors"
)

// Key prefixes for the contract collections. Each prefix doubles as the
// storage namespace of its collection for the lifetime of a deployment, so
// none of them may be changed or be a prefix of another.
const (
	EventKeyPrefix         = "events:"
	OrganizerKeyPrefix     = "organizers:"
	TokenKeyPrefix         = "t:"
	TokenMetadataKeyPrefix = "m:"
	OwnerTokensKeyPrefix   = "o:"

	ContractOwnerKey       = "STATE:owner"
	TokenIdCounterKey      = "STATE:token_id_counter"
	ContractInitializedKey = "STATE:initialized"
	ContractMetadataKey    = "STATE:contract_metadata"
)

// ErrInvalidCounter is returned when a stored counter value has the wrong length
var ErrInvalidCounter = errors.New("invalid counter value")

func prefixedKey(prefix string, id string) []byte {
	key := make([]byte, 0, len(prefix)+len(id))
	key = append(key, prefix...)
	key = append(key, id...)
	return key
}

func EventKey(name string) []byte {
	return prefixedKey(EventKeyPrefix, name)
}

func OrganizerKey(accountId string) []byte {
	return prefixedKey(OrganizerKeyPrefix, accountId)
}

func TokenKey(tokenId string) []byte {
	return prefixedKey(TokenKeyPrefix, tokenId)
}

func TokenMetadataKey(tokenId string) []byte {
	return prefixedKey(TokenMetadataKeyPrefix, tokenId)
}

func OwnerTokensKey(accountId string) []byte {
	return prefixedKey(OwnerTokensKeyPrefix, accountId)
}

// KeySuffix strips the collection prefix from a key returned by an iterator
func KeySuffix(prefix string, key []byte) string {
	if len(key) < len(prefix) {
		return ""
	}
	return string(key[len(prefix):])
}

func Uint64ToBytes(input uint64) []byte {
	ret := make([]byte, 8)
	binary.BigEndian.PutUint64(ret, input)
	return ret
}

func BytesToUint64(input []byte) (uint64, error) {
	if len(input) != 8 {
		return 0, ErrInvalidCounter
	}
	return binary.BigEndian.Uint64(input), nil
}
