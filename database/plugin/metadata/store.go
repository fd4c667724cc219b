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

package metadata

import (
	"fmt"

	"github.com/blinklabs-io/laurel/database/models"
	"github.com/blinklabs-io/laurel/database/plugin"
	"github.com/blinklabs-io/laurel/database/types"
	"gorm.io/gorm"
)

// MetadataStore holds the relational side of the contract state: the mint
// journal and the display metadata. A nil txn runs outside any transaction
type MetadataStore interface {
	plugin.Plugin

	// Database
	Close() error
	DB() *gorm.DB
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(int64, types.Txn) error
	Transaction() types.Txn

	// Mint journal
	SetMint(*models.Mint, types.Txn) error
	GetMint(string, types.Txn) (*models.Mint, error)
	GetMintsByEvent(string, types.Txn) ([]models.Mint, error)
	CountMints(types.Txn) (int64, error)

	// Display metadata
	GetContractMetadata(types.Txn) (models.ContractMetadata, error)
	SetContractMetadata(*models.ContractMetadata, types.Txn) error
}

// New returns the started metadata plugin selected by name
func New(pluginName string) (MetadataStore, error) {
	p, err := plugin.StartPlugin(plugin.PluginTypeMetadata, pluginName)
	if err != nil {
		return nil, err
	}
	metadataStore, ok := p.(MetadataStore)
	if !ok {
		return nil, fmt.Errorf(
			"plugin '%s' does not implement MetadataStore interface",
			pluginName,
		)
	}
	return metadataStore, nil
}
