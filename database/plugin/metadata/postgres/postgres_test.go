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

package postgres

import (
	"os"
	"strconv"
	"testing"

	"github.com/blinklabs-io/laurel/database/models"
	"github.com/blinklabs-io/laurel/database/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isPostgresConfigured reports whether a Postgres server was provided for
// the integration tests below
func isPostgresConfigured() bool {
	return os.Getenv("POSTGRES_PASSWORD") != "" ||
		os.Getenv("POSTGRES_DSN") != ""
}

// getTestPostgresOptions builds store options from the environment
func getTestPostgresOptions() []PostgresOptionFunc {
	opts := []PostgresOptionFunc{
		WithPassword(os.Getenv("POSTGRES_PASSWORD")),
		WithDatabase("laurel_test"),
	}
	if envHost := os.Getenv("POSTGRES_HOST"); envHost != "" {
		opts = append(opts, WithHost(envHost))
	}
	if envPort := os.Getenv("POSTGRES_PORT"); envPort != "" {
		if p, err := strconv.ParseUint(envPort, 10, 16); err == nil {
			opts = append(opts, WithPort(uint(p)))
		}
	}
	if envUser := os.Getenv("POSTGRES_USER"); envUser != "" {
		opts = append(opts, WithUser(envUser))
	}
	if envDB := os.Getenv("POSTGRES_DATABASE"); envDB != "" {
		opts = append(opts, WithDatabase(envDB))
	}
	if envSSL := os.Getenv("POSTGRES_SSLMODE"); envSSL != "" {
		opts = append(opts, WithSSLMode(envSSL))
	}
	if envDSN := os.Getenv("POSTGRES_DSN"); envDSN != "" {
		opts = append(opts, WithDSN(envDSN))
	}
	return opts
}

// newTestPostgresStore returns a started store with empty tables. It
// skips the test if Postgres is not configured
func newTestPostgresStore(t *testing.T) *MetadataStorePostgres {
	t.Helper()
	if !isPostgresConfigured() {
		t.Skip(
			"Skipping postgres integration test: postgres not configured (set POSTGRES_PASSWORD or POSTGRES_DSN)",
		)
	}
	store, err := NewWithOptions(getTestPostgresOptions()...)
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

func TestPostgresMintJournal(t *testing.T) {
	store := newTestPostgresStore(t)
	txn := store.Transaction()
	require.NotNil(t, txn)
	for i, owner := range []string{"alice", "bob", "carol"} {
		require.NoError(t, store.SetMint(&models.Mint{
			TokenId:   []string{"0", "1", "10"}[i],
			OwnerId:   owner,
			EventName: "conf2024",
			IssuedAt:  types.Uint64(1_700_000_000_000_000_000 + i),
		}, txn))
	}
	require.NoError(t, txn.Commit())

	mint, err := store.GetMint("1", nil)
	require.NoError(t, err)
	require.NotNil(t, mint)
	assert.Equal(t, "bob", mint.OwnerId)
	assert.Equal(t, types.Uint64(1_700_000_000_000_000_001), mint.IssuedAt)

	missing, err := store.GetMint("99", nil)
	require.NoError(t, err)
	assert.Nil(t, missing)

	mints, err := store.GetMintsByEvent("conf2024", nil)
	require.NoError(t, err)
	require.Len(t, mints, 3)
	assert.Equal(t, "0", mints[0].TokenId)
	assert.Equal(t, "1", mints[1].TokenId)
	assert.Equal(t, "10", mints[2].TokenId)

	count, err := store.CountMints(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	// Token ids are unique
	err = store.SetMint(&models.Mint{TokenId: "0", OwnerId: "dave", EventName: "x"}, nil)
	assert.Error(t, err)
}

func TestPostgresMintRollback(t *testing.T) {
	store := newTestPostgresStore(t)
	txn := store.Transaction()
	require.NoError(t, store.SetMint(&models.Mint{
		TokenId:   "0",
		OwnerId:   "alice",
		EventName: "conf2024",
	}, txn))
	require.NoError(t, txn.Rollback())
	count, err := store.CountMints(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	assert.ErrorIs(t, store.SetMint(&models.Mint{TokenId: "1"}, txn), types.ErrTxnFinished)
}

func TestPostgresContractMetadata(t *testing.T) {
	store := newTestPostgresStore(t)
	meta, err := store.GetContractMetadata(nil)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultContractMetadata(), meta)

	txn := store.Transaction()
	require.NoError(t, store.SetContractMetadata(&models.ContractMetadata{
		Name:    "Conf Badges",
		Symbol:  "CONF",
		BaseUri: "https://example.org/badges",
	}, txn))
	require.NoError(t, txn.Commit())
	meta, err = store.GetContractMetadata(nil)
	require.NoError(t, err)
	assert.Equal(t, "nft-1.0.0", meta.Spec)
	assert.Equal(t, "Conf Badges", meta.Name)
	assert.Equal(t, "https://example.org/badges", meta.BaseUri)
}

func TestPostgresCommitTimestamp(t *testing.T) {
	store := newTestPostgresStore(t)
	ts, err := store.GetCommitTimestamp()
	require.NoError(t, err)
	assert.Equal(t, int64(0), ts)
	require.NoError(t, store.SetCommitTimestamp(42, nil))
	txn := store.Transaction()
	require.NoError(t, store.SetCommitTimestamp(43, txn))
	require.NoError(t, txn.Commit())
	ts, err = store.GetCommitTimestamp()
	require.NoError(t, err)
	assert.Equal(t, int64(43), ts)
}
