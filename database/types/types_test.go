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

package types_test

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/blinklabs-io/laurel/database/types"
)

func TestTypesScanValue(t *testing.T) {
	testDefs := []struct {
		origValue     any
		expectedValue any
	}{
		{
			origValue: func(v types.Uint64) *types.Uint64 { return &v }(
				types.Uint64(123),
			),
			expectedValue: "123",
		},
		{
			origValue: func(v types.Uint64) *types.Uint64 { return &v }(
				types.Uint64(math.MaxUint64),
			),
			expectedValue: "18446744073709551615",
		},
	}
	var ok bool
	var tmpScanner sql.Scanner
	var tmpValuer driver.Valuer
	for _, testDef := range testDefs {
		tmpValuer, ok = testDef.origValue.(driver.Valuer)
		if !ok {
			t.Fatalf("test original value does not implement driver.Valuer")
		}
		valueOut, err := tmpValuer.Value()
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if !reflect.DeepEqual(valueOut, testDef.expectedValue) {
			t.Fatalf(
				"did not get expected value from Value(): got %#v, expected %#v",
				valueOut,
				testDef.expectedValue,
			)
		}
		tmpScanner, ok = testDef.origValue.(sql.Scanner)
		if !ok {
			t.Fatalf(
				"test original value does not implement sql.Scanner (it must be a pointer)",
			)
		}
		if err := tmpScanner.Scan(valueOut); err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if !reflect.DeepEqual(tmpScanner, testDef.origValue) {
			t.Fatalf(
				"did not get expected value after Scan(): got %#v, expected %#v",
				tmpScanner,
				testDef.origValue,
			)
		}
	}
}

func TestUint64ScanWrongType(t *testing.T) {
	var u types.Uint64
	if err := u.Scan(int64(5)); err == nil {
		t.Fatalf("expected error scanning non-string value")
	}
}

func TestKeyPrefixesDoNotOverlap(t *testing.T) {
	prefixes := []string{
		types.EventKeyPrefix,
		types.OrganizerKeyPrefix,
		types.TokenKeyPrefix,
		types.TokenMetadataKeyPrefix,
		types.OwnerTokensKeyPrefix,
	}
	scalars := []string{
		types.ContractOwnerKey,
		types.TokenIdCounterKey,
		types.ContractInitializedKey,
		types.ContractMetadataKey,
	}
	for i, a := range prefixes {
		for j, b := range prefixes {
			if i != j && strings.HasPrefix(a, b) {
				t.Fatalf("prefix %q overlaps prefix %q", a, b)
			}
		}
		for _, s := range scalars {
			if strings.HasPrefix(s, a) {
				t.Fatalf("scalar key %q falls inside collection %q", s, a)
			}
		}
	}
}

func TestKeyBuilders(t *testing.T) {
	if got := types.EventKey("conf2024"); !bytes.Equal(got, []byte("events:conf2024")) {
		t.Fatalf("unexpected event key: %q", got)
	}
	if got := types.OwnerTokensKey("alice"); !bytes.Equal(got, []byte("o:alice")) {
		t.Fatalf("unexpected owner tokens key: %q", got)
	}
	key := types.OrganizerKey("bob:near")
	if s := types.KeySuffix(types.OrganizerKeyPrefix, key); s != "bob:near" {
		t.Fatalf("unexpected key suffix: %q", s)
	}
}

func TestCounterBytes(t *testing.T) {
	for _, v := range []uint64{0, 1, 255, 1 << 40, math.MaxUint64} {
		got, err := types.BytesToUint64(types.Uint64ToBytes(v))
		if err != nil {
			t.Fatalf("unexpected error: %s", err)
		}
		if got != v {
			t.Fatalf("got %d, expected %d", got, v)
		}
	}
	if _, err := types.BytesToUint64([]byte{1, 2}); err == nil {
		t.Fatalf("expected error for short counter value")
	}
}
