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

package contract_test

import (
	"context"
	"errors"
	"math/big"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/laurel/contract"
	"github.com/blinklabs-io/laurel/database"
	"github.com/blinklabs-io/laurel/database/models"
	"github.com/blinklabs-io/laurel/event"
)

const (
	testOwner     = "owner.near"
	testOrganizer = "org.near"
	testAlice     = "alice.near"
	testBob       = "bob.near"
)

type testContract struct {
	*contract.Contract
	db    *database.Database
	bus   *event.EventBus
	reg   *prometheus.Registry
	clock uint64
}

func newTestContract(t *testing.T) *testContract {
	t.Helper()
	db, err := database.New(&database.Config{})
	require.NoError(t, err)
	bus := event.NewEventBus(nil, nil)
	reg := prometheus.NewRegistry()
	c, err := contract.New(contract.ContractConfig{
		Database:     db,
		EventBus:     bus,
		PromRegistry: reg,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		bus.Stop()
		_ = db.Close()
	})
	return &testContract{
		Contract: c,
		db:       db,
		bus:      bus,
		reg:      reg,
		clock:    1_700_000_000_000_000_000,
	}
}

// call returns a Call for caller with a monotonically increasing timestamp
func (tc *testContract) call(caller string) contract.Call {
	tc.clock += 1_000_000_000
	return contract.Call{
		Caller:    caller,
		Timestamp: tc.clock,
	}
}

// newInitializedContract returns a contract owned by testOwner with
// testOrganizer registered as organizer
func newInitializedContract(t *testing.T) *testContract {
	t.Helper()
	tc := newTestContract(t)
	ctx := context.Background()
	require.NoError(t, tc.Initialize(ctx, tc.call(testOwner)))
	require.NoError(t, tc.AddOrganizer(ctx, tc.call(testOwner), testOrganizer))
	return tc
}

func (tc *testContract) supply(t *testing.T) uint64 {
	t.Helper()
	supply, err := tc.TotalSupply(context.Background())
	require.NoError(t, err)
	return supply
}

func counterValue(
	t *testing.T,
	reg *prometheus.Registry,
	name string,
	labels map[string]string,
) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			matched := 0
			for _, label := range metric.GetLabel() {
				if v, ok := labels[label.GetName()]; ok && v == label.GetValue() {
					matched++
				}
			}
			if matched == len(labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestNewRequiresDatabase(t *testing.T) {
	_, err := contract.New(contract.ContractConfig{})
	require.Error(t, err)
}

func TestInitialize(t *testing.T) {
	tc := newTestContract(t)
	ctx := context.Background()

	owner, err := tc.Owner(ctx)
	require.NoError(t, err)
	assert.Empty(t, owner)

	require.NoError(t, tc.Initialize(ctx, tc.call(testOwner)))
	owner, err = tc.Owner(ctx)
	require.NoError(t, err)
	assert.Equal(t, testOwner, owner)

	isOwner, err := tc.IsOwner(ctx, testOwner)
	require.NoError(t, err)
	assert.True(t, isOwner)
	isOwner, err = tc.IsOwner(ctx, testAlice)
	require.NoError(t, err)
	assert.False(t, isOwner)

	err = tc.Initialize(ctx, tc.call(testAlice))
	require.ErrorIs(t, err, contract.ErrAlreadyInitialized)
	owner, err = tc.Owner(ctx)
	require.NoError(t, err)
	assert.Equal(t, testOwner, owner)
}

func TestEmptyCallerRejected(t *testing.T) {
	tc := newTestContract(t)
	err := tc.Initialize(context.Background(), contract.Call{})
	require.ErrorIs(t, err, contract.ErrInvalidArgument)
}

func TestOperationsBeforeInitialize(t *testing.T) {
	tc := newTestContract(t)
	ctx := context.Background()

	require.ErrorIs(
		t,
		tc.AddOrganizer(ctx, tc.call(testOwner), testOrganizer),
		contract.ErrNotInitialized,
	)
	_, err := tc.CreateEvent(ctx, tc.call(testOwner), "conf2024", "")
	require.ErrorIs(t, err, contract.ErrNotInitialized)
	require.ErrorIs(
		t,
		tc.AddToWhitelist(ctx, tc.call(testOwner), "conf2024", []string{testAlice}),
		contract.ErrNotInitialized,
	)
	_, err = tc.ClaimBadge(ctx, tc.call(testAlice), "conf2024")
	require.ErrorIs(t, err, contract.ErrNotInitialized)
	require.ErrorIs(
		t,
		tc.DeleteEvent(ctx, tc.call(testOwner), "conf2024"),
		contract.ErrNotInitialized,
	)
	_, err = tc.GetEvent(ctx, "conf2024")
	require.ErrorIs(t, err, contract.ErrNotInitialized)
	_, err = tc.GetWhitelist(ctx, "conf2024")
	require.ErrorIs(t, err, contract.ErrNotInitialized)
	_, err = tc.SetDisplayMetadata(ctx, tc.call(testOwner), models.ContractMetadata{})
	require.ErrorIs(t, err, contract.ErrNotInitialized)
}

func TestAddOrganizer(t *testing.T) {
	tc := newInitializedContract(t)
	ctx := context.Background()

	isOrganizer, err := tc.IsOrganizer(ctx, testOrganizer)
	require.NoError(t, err)
	assert.True(t, isOrganizer)
	isOrganizer, err = tc.IsOrganizer(ctx, testAlice)
	require.NoError(t, err)
	assert.False(t, isOrganizer)

	err = tc.AddOrganizer(ctx, tc.call(testOrganizer), testAlice)
	require.ErrorIs(t, err, contract.ErrUnauthorized)
	isOrganizer, err = tc.IsOrganizer(ctx, testAlice)
	require.NoError(t, err)
	assert.False(t, isOrganizer)

	// Adding again is a no-op
	require.NoError(t, tc.AddOrganizer(ctx, tc.call(testOwner), testOrganizer))
	organizers, err := tc.ListOrganizers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{testOrganizer}, organizers)

	err = tc.AddOrganizer(ctx, tc.call(testOwner), "")
	require.ErrorIs(t, err, contract.ErrInvalidArgument)
}

func TestCreateEvent(t *testing.T) {
	tc := newInitializedContract(t)
	ctx := context.Background()

	evt, err := tc.CreateEvent(ctx, tc.call(testOrganizer), "conf2024", "Annual conference")
	require.NoError(t, err)
	assert.Equal(t, "conf2024", evt.Name)
	assert.Equal(t, testOrganizer, evt.Organizer)
	assert.Empty(t, evt.Whitelist)
	assert.Empty(t, evt.Claimed)

	// The owner may create events without being an organizer
	_, err = tc.CreateEvent(ctx, tc.call(testOwner), "meetup", "")
	require.NoError(t, err)

	_, err = tc.CreateEvent(ctx, tc.call(testOrganizer), "conf2024", "again")
	require.ErrorIs(t, err, contract.ErrDuplicateEvent)
	stored, err := tc.GetEvent(ctx, "conf2024")
	require.NoError(t, err)
	assert.Equal(t, "Annual conference", stored.Description)

	_, err = tc.CreateEvent(ctx, tc.call(testAlice), "alice-party", "")
	require.ErrorIs(t, err, contract.ErrUnauthorized)
	stored, err = tc.GetEvent(ctx, "alice-party")
	require.NoError(t, err)
	assert.Nil(t, stored)

	_, err = tc.CreateEvent(ctx, tc.call(testOrganizer), "", "")
	require.ErrorIs(t, err, contract.ErrInvalidArgument)

	events, err := tc.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "conf2024", events[0].Name)
	assert.Equal(t, "meetup", events[1].Name)
}

func TestAddToWhitelist(t *testing.T) {
	tc := newInitializedContract(t)
	ctx := context.Background()
	_, err := tc.CreateEvent(ctx, tc.call(testOrganizer), "conf2024", "")
	require.NoError(t, err)

	require.NoError(
		t,
		tc.AddToWhitelist(ctx, tc.call(testOrganizer), "conf2024", []string{testAlice, testBob}),
	)
	// Idempotent, with order preserved
	require.NoError(
		t,
		tc.AddToWhitelist(ctx, tc.call(testOrganizer), "conf2024", []string{testBob, testAlice}),
	)
	whitelist, err := tc.GetWhitelist(ctx, "conf2024")
	require.NoError(t, err)
	assert.Equal(t, []string{testAlice, testBob}, whitelist)

	// The owner does not organize this event
	err = tc.AddToWhitelist(ctx, tc.call(testOwner), "conf2024", []string{"carol.near"})
	require.ErrorIs(t, err, contract.ErrUnauthorized)

	err = tc.AddToWhitelist(ctx, tc.call(testOrganizer), "missing", []string{testAlice})
	require.ErrorIs(t, err, contract.ErrEventNotFound)

	// A batch with a bad entry adds nothing
	err = tc.AddToWhitelist(
		ctx,
		tc.call(testOrganizer),
		"conf2024",
		[]string{"carol.near", ""},
	)
	require.ErrorIs(t, err, contract.ErrInvalidArgument)
	whitelist, err = tc.GetWhitelist(ctx, "conf2024")
	require.NoError(t, err)
	assert.Equal(t, []string{testAlice, testBob}, whitelist)

	whitelist, err = tc.GetWhitelist(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, whitelist)
}

func TestClaimBeforeWhitelist(t *testing.T) {
	tc := newInitializedContract(t)
	ctx := context.Background()
	_, err := tc.CreateEvent(ctx, tc.call(testOrganizer), "conf2024", "")
	require.NoError(t, err)

	_, err = tc.ClaimBadge(ctx, tc.call(testAlice), "conf2024")
	require.ErrorIs(t, err, contract.ErrNotWhitelisted)
	assert.Equal(t, uint64(0), tc.supply(t))
	tokens, err := tc.TokensForOwner(ctx, testAlice)
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestClaimMissingEvent(t *testing.T) {
	tc := newInitializedContract(t)
	_, err := tc.ClaimBadge(context.Background(), tc.call(testAlice), "nope")
	require.ErrorIs(t, err, contract.ErrEventNotFound)
	assert.Equal(t, uint64(0), tc.supply(t))
}

func TestConferenceScenario(t *testing.T) {
	tc := newInitializedContract(t)
	ctx := context.Background()
	_, err := tc.CreateEvent(ctx, tc.call(testOrganizer), "conf2024", "Annual conference")
	require.NoError(t, err)
	require.NoError(
		t,
		tc.AddToWhitelist(ctx, tc.call(testOrganizer), "conf2024", []string{testAlice}),
	)

	claimCall := tc.call(testAlice)
	claimCall.Deposit = big.NewInt(10_000_000_000_000_000)
	token, err := tc.ClaimBadge(ctx, claimCall, "conf2024")
	require.NoError(t, err)
	assert.Equal(t, "0", token.TokenId)
	assert.Equal(t, testAlice, token.OwnerId)
	require.NotNil(t, token.Metadata)
	assert.Equal(t, "conf2024", token.Metadata.Title)
	assert.Equal(t, "Annual conference", token.Metadata.Description)
	assert.Equal(t, contract.DefaultBadgeMediaUrl, token.Metadata.Media)
	assert.Equal(t, strconv.FormatUint(claimCall.Timestamp, 10), token.Metadata.IssuedAt)
	assert.Equal(t, uint64(1), tc.supply(t))

	stored, err := tc.GetToken(ctx, "0")
	require.NoError(t, err)
	assert.Equal(t, token, stored)

	evt, err := tc.GetEvent(ctx, "conf2024")
	require.NoError(t, err)
	assert.Equal(t, []string{testAlice}, evt.Claimed)

	// Claiming does not consume the whitelist entry
	whitelist, err := tc.GetWhitelist(ctx, "conf2024")
	require.NoError(t, err)
	assert.Equal(t, []string{testAlice}, whitelist)

	// A second claim fails and leaves the counter alone
	_, err = tc.ClaimBadge(ctx, tc.call(testAlice), "conf2024")
	require.ErrorIs(t, err, contract.ErrAlreadyClaimed)
	assert.Equal(t, uint64(1), tc.supply(t))

	mint, err := tc.db.GetMint("0")
	require.NoError(t, err)
	require.NotNil(t, mint)
	assert.Equal(t, testAlice, mint.OwnerId)
	assert.Equal(t, "conf2024", mint.EventName)
	assert.Equal(t, claimCall.Timestamp, uint64(mint.IssuedAt))

	missing, err := tc.GetToken(ctx, "1")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUnauthorizedThenAuthorizedScenario(t *testing.T) {
	tc := newInitializedContract(t)
	ctx := context.Background()

	_, err := tc.CreateEvent(ctx, tc.call(testBob), "bobfest", "")
	require.ErrorIs(t, err, contract.ErrUnauthorized)

	require.NoError(t, tc.AddOrganizer(ctx, tc.call(testOwner), testBob))
	evt, err := tc.CreateEvent(ctx, tc.call(testBob), "bobfest", "")
	require.NoError(t, err)
	assert.Equal(t, testBob, evt.Organizer)

	// Only bob organizes bobfest
	err = tc.AddToWhitelist(ctx, tc.call(testOrganizer), "bobfest", []string{testAlice})
	require.ErrorIs(t, err, contract.ErrUnauthorized)
	require.NoError(
		t,
		tc.AddToWhitelist(ctx, tc.call(testBob), "bobfest", []string{testAlice}),
	)
}

func TestTokenIdsAcrossEvents(t *testing.T) {
	tc := newInitializedContract(t)
	ctx := context.Background()
	accounts := []string{testAlice, testBob, "carol.near"}
	for _, name := range []string{"a", "b"} {
		_, err := tc.CreateEvent(ctx, tc.call(testOrganizer), name, "")
		require.NoError(t, err)
		require.NoError(t, tc.AddToWhitelist(ctx, tc.call(testOrganizer), name, accounts))
	}

	var ids []string
	for _, name := range []string{"a", "b"} {
		for _, account := range accounts {
			token, err := tc.ClaimBadge(ctx, tc.call(account), name)
			require.NoError(t, err)
			ids = append(ids, token.TokenId)
		}
	}
	assert.Equal(t, []string{"0", "1", "2", "3", "4", "5"}, ids)
	assert.Equal(t, uint64(6), tc.supply(t))

	tokens, err := tc.TokensForOwner(ctx, testBob)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "1", tokens[0].TokenId)
	assert.Equal(t, "4", tokens[1].TokenId)
	for _, token := range tokens {
		stored, err := tc.GetToken(ctx, token.TokenId)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, testBob, stored.OwnerId)
	}
	mintCount, err := tc.db.CountMints()
	require.NoError(t, err)
	assert.Equal(t, int64(6), mintCount)
}

func TestTokensForOwnerPage(t *testing.T) {
	tc := newInitializedContract(t)
	ctx := context.Background()
	names := []string{"e0", "e1", "e2", "e3"}
	for _, name := range names {
		_, err := tc.CreateEvent(ctx, tc.call(testOrganizer), name, "")
		require.NoError(t, err)
		require.NoError(t, tc.AddToWhitelist(ctx, tc.call(testOrganizer), name, []string{testAlice}))
		_, err = tc.ClaimBadge(ctx, tc.call(testAlice), name)
		require.NoError(t, err)
	}
	testDefs := []struct {
		fromIndex uint64
		limit     uint64
		expected  []string
	}{
		{0, 0, []string{"0", "1", "2", "3"}},
		{1, 2, []string{"1", "2"}},
		{3, 10, []string{"3"}},
		{4, 1, []string{}},
		{100, 0, []string{}},
	}
	for _, testDef := range testDefs {
		tokens, err := tc.TokensForOwnerPage(ctx, testAlice, testDef.fromIndex, testDef.limit)
		require.NoError(t, err)
		ids := []string{}
		for _, token := range tokens {
			ids = append(ids, token.TokenId)
		}
		assert.Equal(
			t,
			testDef.expected,
			ids,
			"from_index=%d limit=%d",
			testDef.fromIndex,
			testDef.limit,
		)
	}
	tokens, err := tc.TokensForOwner(ctx, "nobody.near")
	require.NoError(t, err)
	assert.NotNil(t, tokens)
	assert.Empty(t, tokens)
}

func TestDeleteEvent(t *testing.T) {
	tc := newInitializedContract(t)
	ctx := context.Background()
	_, err := tc.CreateEvent(ctx, tc.call(testOrganizer), "conf2024", "")
	require.NoError(t, err)
	require.NoError(
		t,
		tc.AddToWhitelist(ctx, tc.call(testOrganizer), "conf2024", []string{testAlice}),
	)
	claimed, err := tc.ClaimBadge(ctx, tc.call(testAlice), "conf2024")
	require.NoError(t, err)
	ownedBefore, err := tc.TokensForOwner(ctx, testAlice)
	require.NoError(t, err)
	require.Len(t, ownedBefore, 1)

	err = tc.DeleteEvent(ctx, tc.call(testBob), "conf2024")
	require.ErrorIs(t, err, contract.ErrUnauthorized)

	require.NoError(t, tc.DeleteEvent(ctx, tc.call(testOrganizer), "conf2024"))
	events, err := tc.ListEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
	evt, err := tc.GetEvent(ctx, "conf2024")
	require.NoError(t, err)
	assert.Nil(t, evt)

	// Issued badges survive the event
	token, err := tc.GetToken(ctx, "0")
	require.NoError(t, err)
	require.NotNil(t, token)
	assert.Equal(t, testAlice, token.OwnerId)
	assert.Equal(t, claimed, token)
	require.NotNil(t, token.Metadata)
	assert.Equal(t, claimed.Metadata.Title, token.Metadata.Title)
	assert.Equal(t, claimed.Metadata.Description, token.Metadata.Description)
	assert.Equal(t, claimed.Metadata.Media, token.Metadata.Media)
	assert.Equal(t, claimed.Metadata.IssuedAt, token.Metadata.IssuedAt)
	ownedAfter, err := tc.TokensForOwner(ctx, testAlice)
	require.NoError(t, err)
	assert.Equal(t, ownedBefore, ownedAfter)

	err = tc.DeleteEvent(ctx, tc.call(testOrganizer), "conf2024")
	require.ErrorIs(t, err, contract.ErrEventNotFound)

	// A re-created event starts with empty sets
	evt, err = tc.CreateEvent(ctx, tc.call(testOrganizer), "conf2024", "")
	require.NoError(t, err)
	assert.Empty(t, evt.Whitelist)
	assert.Empty(t, evt.Claimed)

	// The owner may delete any event
	require.NoError(t, tc.DeleteEvent(ctx, tc.call(testOwner), "conf2024"))
}

func TestClaimRollbackLeavesNoPartialWrites(t *testing.T) {
	tc := newInitializedContract(t)
	ctx := context.Background()
	_, err := tc.CreateEvent(ctx, tc.call(testOrganizer), "conf2024", "")
	require.NoError(t, err)
	require.NoError(
		t,
		tc.AddToWhitelist(ctx, tc.call(testOrganizer), "conf2024", []string{testAlice}),
	)
	// A stray journal row for the next id makes the final write of the
	// claim fail after the blob writes were staged
	require.NoError(t, tc.db.Metadata().SetMint(
		&models.Mint{TokenId: "0", OwnerId: "stray.near", EventName: "other"},
		nil,
	))

	_, err = tc.ClaimBadge(ctx, tc.call(testAlice), "conf2024")
	require.Error(t, err)

	assert.Equal(t, uint64(0), tc.supply(t))
	token, err := tc.GetToken(ctx, "0")
	require.NoError(t, err)
	assert.Nil(t, token)
	tokens, err := tc.TokensForOwner(ctx, testAlice)
	require.NoError(t, err)
	assert.Empty(t, tokens)
	evt, err := tc.GetEvent(ctx, "conf2024")
	require.NoError(t, err)
	assert.Empty(t, evt.Claimed)
	mint, err := tc.db.GetMint("0")
	require.NoError(t, err)
	require.NotNil(t, mint)
	assert.Equal(t, "stray.near", mint.OwnerId)
	mintCount, err := tc.db.CountMints()
	require.NoError(t, err)
	assert.Equal(t, int64(1), mintCount)
}

func TestClaimTokenIdCollision(t *testing.T) {
	tc := newInitializedContract(t)
	ctx := context.Background()
	_, err := tc.CreateEvent(ctx, tc.call(testOrganizer), "conf2024", "")
	require.NoError(t, err)
	require.NoError(
		t,
		tc.AddToWhitelist(ctx, tc.call(testOrganizer), "conf2024", []string{testAlice}),
	)
	txn := tc.db.BlobTxn(true)
	require.NoError(t, txn.Do(func(txn *database.Txn) error {
		return tc.db.SetToken(
			&models.Token{TokenId: "0", OwnerId: "stray.near"},
			&models.TokenMetadata{},
			txn,
		)
	}))

	_, err = tc.ClaimBadge(ctx, tc.call(testAlice), "conf2024")
	require.ErrorIs(t, err, contract.ErrTokenIdCollision)
	assert.Equal(t, uint64(0), tc.supply(t))
	evt, err := tc.GetEvent(ctx, "conf2024")
	require.NoError(t, err)
	assert.Empty(t, evt.Claimed)
}

func TestDisplayMetadata(t *testing.T) {
	tc := newInitializedContract(t)
	ctx := context.Background()

	meta, err := tc.ContractDisplayMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultMetadataSpec, meta.Spec)
	assert.Equal(t, models.DefaultMetadataName, meta.Name)
	assert.Equal(t, models.DefaultMetadataSymbol, meta.Symbol)

	_, err = tc.SetDisplayMetadata(
		ctx,
		tc.call(testOrganizer),
		models.ContractMetadata{Name: "Nope"},
	)
	require.ErrorIs(t, err, contract.ErrUnauthorized)

	updated, err := tc.SetDisplayMetadata(
		ctx,
		tc.call(testOwner),
		models.ContractMetadata{Name: "Conference Badges", BaseUri: "ipfs://base"},
	)
	require.NoError(t, err)
	assert.Equal(t, "Conference Badges", updated.Name)
	assert.Equal(t, models.DefaultMetadataSymbol, updated.Symbol)

	meta, err = tc.ContractDisplayMetadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Conference Badges", meta.Name)
	assert.Equal(t, "ipfs://base", meta.BaseUri)
	assert.Equal(t, models.DefaultMetadataSpec, meta.Spec)
}

func TestCustomBadgeMediaUrl(t *testing.T) {
	db, err := database.New(&database.Config{})
	require.NoError(t, err)
	defer db.Close()
	c, err := contract.New(contract.ContractConfig{
		Database:      db,
		BadgeMediaUrl: "https://example.com/badge.png",
	})
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, c.Initialize(ctx, contract.Call{Caller: testOwner}))
	_, err = c.CreateEvent(ctx, contract.Call{Caller: testOwner}, "e", "")
	require.NoError(t, err)
	require.NoError(t, c.AddToWhitelist(ctx, contract.Call{Caller: testOwner}, "e", []string{testAlice}))
	token, err := c.ClaimBadge(ctx, contract.Call{Caller: testAlice, Timestamp: 42}, "e")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/badge.png", token.Metadata.Media)
	assert.Equal(t, "42", token.Metadata.IssuedAt)
}

func TestOperationMetrics(t *testing.T) {
	tc := newInitializedContract(t)
	ctx := context.Background()
	_, err := tc.CreateEvent(ctx, tc.call(testOrganizer), "conf2024", "")
	require.NoError(t, err)
	require.NoError(
		t,
		tc.AddToWhitelist(ctx, tc.call(testOrganizer), "conf2024", []string{testAlice}),
	)
	_, err = tc.ClaimBadge(ctx, tc.call(testAlice), "conf2024")
	require.NoError(t, err)
	_, err = tc.ClaimBadge(ctx, tc.call(testAlice), "conf2024")
	require.ErrorIs(t, err, contract.ErrAlreadyClaimed)
	_, err = tc.ClaimBadge(ctx, tc.call(testBob), "conf2024")
	require.ErrorIs(t, err, contract.ErrNotWhitelisted)

	assert.InDelta(t, 1, counterValue(t, tc.reg, "laurel_contract_tokens_minted_total", nil), 0)
	assert.InDelta(t, 1, counterValue(
		t,
		tc.reg,
		"laurel_contract_operations_total",
		map[string]string{"operation": "claim_badge", "result": "ok"},
	), 0)
	assert.InDelta(t, 1, counterValue(
		t,
		tc.reg,
		"laurel_contract_operations_total",
		map[string]string{"operation": "claim_badge", "result": "already_claimed"},
	), 0)
	assert.InDelta(t, 1, counterValue(
		t,
		tc.reg,
		"laurel_contract_operations_total",
		map[string]string{"operation": "claim_badge", "result": "not_whitelisted"},
	), 0)
	assert.InDelta(t, 1, counterValue(
		t,
		tc.reg,
		"laurel_contract_operations_total",
		map[string]string{"operation": "initialize", "result": "ok"},
	), 0)
}

func waitForEvent(t *testing.T, ch <-chan event.Event) event.Event {
	t.Helper()
	select {
	case evt, ok := <-ch:
		require.True(t, ok, "event channel closed unexpectedly")
		return evt
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for event")
	}
	return event.Event{}
}

func TestBusEvents(t *testing.T) {
	tc := newTestContract(t)
	ctx := context.Background()
	_, initCh := tc.bus.Subscribe(event.ContractInitializedEventType)
	_, claimCh := tc.bus.Subscribe(event.BadgeClaimedEventType)
	_, whitelistCh := tc.bus.Subscribe(event.WhitelistUpdatedEventType)

	require.NoError(t, tc.Initialize(ctx, tc.call(testOwner)))
	evt := waitForEvent(t, initCh)
	initData, ok := evt.Data.(event.ContractInitializedEvent)
	require.True(t, ok, "unexpected event data type %T", evt.Data)
	assert.Equal(t, testOwner, initData.Owner)

	_, err := tc.CreateEvent(ctx, tc.call(testOwner), "conf2024", "")
	require.NoError(t, err)
	require.NoError(
		t,
		tc.AddToWhitelist(ctx, tc.call(testOwner), "conf2024", []string{testAlice, testBob}),
	)
	evt = waitForEvent(t, whitelistCh)
	wlData, ok := evt.Data.(event.WhitelistUpdatedEvent)
	require.True(t, ok, "unexpected event data type %T", evt.Data)
	assert.Equal(t, []string{testAlice, testBob}, wlData.Added)

	// Nothing new to add publishes nothing
	require.NoError(
		t,
		tc.AddToWhitelist(ctx, tc.call(testOwner), "conf2024", []string{testAlice}),
	)
	// A failed claim publishes nothing
	_, err = tc.ClaimBadge(ctx, tc.call("carol.near"), "conf2024")
	require.ErrorIs(t, err, contract.ErrNotWhitelisted)

	claimCall := tc.call(testBob)
	claimCall.Deposit = big.NewInt(5)
	_, err = tc.ClaimBadge(ctx, claimCall, "conf2024")
	require.NoError(t, err)
	evt = waitForEvent(t, claimCh)
	claimData, ok := evt.Data.(event.BadgeClaimedEvent)
	require.True(t, ok, "unexpected event data type %T", evt.Data)
	assert.Equal(t, testBob, claimData.AccountId)
	assert.Equal(t, "0", claimData.TokenId)
	assert.Equal(t, "5", claimData.Deposit)

	select {
	case evt := <-whitelistCh:
		t.Fatalf("unexpected whitelist event: %#v", evt)
	case evt := <-claimCh:
		t.Fatalf("unexpected claim event: %#v", evt)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	sentinels := []error{
		contract.ErrNotInitialized,
		contract.ErrAlreadyInitialized,
		contract.ErrUnauthorized,
		contract.ErrEventNotFound,
		contract.ErrDuplicateEvent,
		contract.ErrNotWhitelisted,
		contract.ErrAlreadyClaimed,
		contract.ErrTokenIdCollision,
		contract.ErrInvalidArgument,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Fatalf("%v matches %v", a, b)
			}
		}
	}
}
