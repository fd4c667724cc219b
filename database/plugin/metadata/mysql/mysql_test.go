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

package mysql

import (
	"os"
	"testing"

	"github.com/blinklabs-io/laurel/database/models"
	"github.com/blinklabs-io/laurel/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestMysqlStore returns a started store with empty tables. It skips
// the test unless MYSQL_DSN points at a server
func newTestMysqlStore(t *testing.T) *MetadataStoreMysql {
	t.Helper()
	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		t.Skip("Skipping mysql integration test: set MYSQL_DSN")
	}
	store, err := NewWithOptions(WithDSN(dsn))
	require.NoError(t, err)
	require.NoError(t, store.Start())
	t.Cleanup(func() {
		_ = store.Close()
	})
	for _, table := range []string{
		models.Mint{}.TableName(),
		models.ContractMetadata{}.TableName(),
		CommitTimestamp{}.TableName(),
	} {
		require.NoError(t, store.DB().Exec("TRUNCATE TABLE "+table).Error)
	}
	return store
}

func TestMysqlMintJournal(t *testing.T) {
	store := newTestMysqlStore(t)
	txn := store.Transaction()
	require.NotNil(t, txn)
	for i, tokenId := range []string{"0", "1", "10"} {
		require.NoError(t, store.SetMint(&models.Mint{
			TokenId:   tokenId,
			OwnerId:   "alice",
			EventName: "conf2024",
			IssuedAt:  types.Uint64(1_700_000_000_000_000_000 + i),
		}, txn))
	}
	require.NoError(t, txn.Commit())

	mints, err := store.GetMintsByEvent("conf2024", nil)
	require.NoError(t, err)
	require.Len(t, mints, 3)
	assert.Equal(t, "10", mints[2].TokenId)

	rollbackTxn := store.Transaction()
	require.NoError(t, store.SetMint(&models.Mint{TokenId: "11", OwnerId: "bob", EventName: "conf2024"}, rollbackTxn))
	require.NoError(t, rollbackTxn.Rollback())
	count, err := store.CountMints(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestMysqlContractMetadataAndCommitTimestamp(t *testing.T) {
	store := newTestMysqlStore(t)
	meta, err := store.GetContractMetadata(nil)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultContractMetadata(), meta)
	require.NoError(t, store.SetContractMetadata(&models.ContractMetadata{Name: "A"}, nil))
	require.NoError(t, store.SetContractMetadata(&models.ContractMetadata{Name: "B"}, nil))
	meta, err = store.GetContractMetadata(nil)
	require.NoError(t, err)
	assert.Equal(t, "B", meta.Name)

	require.NoError(t, store.SetCommitTimestamp(42, nil))
	require.NoError(t, store.SetCommitTimestamp(43, nil))
	ts, err := store.GetCommitTimestamp()
	require.NoError(t, err)
	assert.Equal(t, int64(43), ts)
}
