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
	"time"

	"github.com/blinklabs-io/laurel/database/types"
)

// Mint is the relational index of an issued badge. The authoritative
// token record lives in the blob store; this row is written in the same
// transaction so mints can be listed and counted with SQL.
type Mint struct {
	CreatedAt time.Time
	TokenId   string       `gorm:"primaryKey;size:64"`
	OwnerId   string       `gorm:"index;not null;size:255"`
	EventName string       `gorm:"index;not null;size:255"`
	IssuedAt  types.Uint64 `gorm:"type:text;not null"`
}

// TableName returns the table name for Mint.
func (Mint) TableName() string {
	return "badge_mints"
}
