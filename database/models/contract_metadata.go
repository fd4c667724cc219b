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

const (
	DefaultMetadataSpec   = "nft-1.0.0"
	DefaultMetadataName   = "Event Badges"
	DefaultMetadataSymbol = "BADGE"

	contractMetadataRowId = 1
)

// ContractMetadata holds the collection-level display metadata. The
// table only ever has a single row.
type ContractMetadata struct {
	ID      uint   `gorm:"primarykey"`
	Spec    string `gorm:"not null"`
	Name    string `gorm:"not null"`
	Symbol  string `gorm:"not null"`
	Icon    string
	BaseUri string
}

func (ContractMetadata) TableName() string {
	return "contract_metadata"
}

// DefaultContractMetadata returns the metadata reported before the owner
// sets any
func DefaultContractMetadata() ContractMetadata {
	return ContractMetadata{
		ID:     contractMetadataRowId,
		Spec:   DefaultMetadataSpec,
		Name:   DefaultMetadataName,
		Symbol: DefaultMetadataSymbol,
	}
}

// Normalize pins the row id and fills required fields left empty
func (m *ContractMetadata) Normalize() {
	m.ID = contractMetadataRowId
	if m.Spec == "" {
		m.Spec = DefaultMetadataSpec
	}
	if m.Name == "" {
		m.Name = DefaultMetadataName
	}
	if m.Symbol == "" {
		m.Symbol = DefaultMetadataSymbol
	}
}
