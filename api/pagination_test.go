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

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaginationDefaultValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/test", nil)
	params, err := ParsePagination(req)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), params.FromIndex)
	assert.Equal(t, uint64(MaxPageLimit), params.Limit)
}

func TestParsePaginationValid(t *testing.T) {
	req := httptest.NewRequest(
		http.MethodGet,
		"/api/v1/test?from_index=5&limit=25",
		nil,
	)
	params, err := ParsePagination(req)
	require.NoError(t, err)

	assert.Equal(t, uint64(5), params.FromIndex)
	assert.Equal(t, uint64(25), params.Limit)
}

func TestParsePaginationClampBounds(t *testing.T) {
	req := httptest.NewRequest(
		http.MethodGet,
		"/api/v1/test?limit=999",
		nil,
	)
	params, err := ParsePagination(req)
	require.NoError(t, err)
	assert.Equal(t, uint64(MaxPageLimit), params.Limit)
}

func TestParsePaginationInvalid(t *testing.T) {
	for _, query := range []string{"from_index=-1", "from_index=abc", "limit=1.5"} {
		req := httptest.NewRequest(
			http.MethodGet,
			"/api/v1/test?"+query,
			nil,
		)
		_, err := ParsePagination(req)
		require.Error(t, err, query)
		assert.True(t, errors.Is(err, ErrInvalidPaginationParameters))
	}
}

func TestSetPaginationHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	SetPaginationHeaders(w, PageParams{FromIndex: 10, Limit: 5}, 3)
	assert.Equal(t, "10", w.Header().Get("X-Pagination-From-Index"))
	assert.Equal(t, "3", w.Header().Get("X-Pagination-Count"))
}
