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
	"strconv"
)

const MaxPageLimit = 100

var ErrInvalidPaginationParameters = errors.New(
	"invalid pagination parameters",
)

// PageParams contains parsed token paging query values. A zero Limit
// requests every remaining token up to MaxPageLimit
type PageParams struct {
	FromIndex uint64
	Limit     uint64
}

// ParsePagination parses the from_index and limit query parameters and
// applies bounds clamping.
func ParsePagination(r *http.Request) (PageParams, error) {
	params := PageParams{}
	query := r.URL.Query()
	if fromParam := query.Get("from_index"); fromParam != "" {
		fromIndex, err := strconv.ParseUint(fromParam, 10, 64)
		if err != nil {
			return PageParams{}, ErrInvalidPaginationParameters
		}
		params.FromIndex = fromIndex
	}
	if limitParam := query.Get("limit"); limitParam != "" {
		limit, err := strconv.ParseUint(limitParam, 10, 64)
		if err != nil {
			return PageParams{}, ErrInvalidPaginationParameters
		}
		params.Limit = limit
	}

	// Bounds clamping
	if params.Limit == 0 || params.Limit > MaxPageLimit {
		params.Limit = MaxPageLimit
	}
	return params, nil
}

// SetPaginationHeaders reports the page position of a token listing
func SetPaginationHeaders(
	w http.ResponseWriter,
	params PageParams,
	returned int,
) {
	w.Header().Set(
		"X-Pagination-From-Index",
		strconv.FormatUint(params.FromIndex, 10),
	)
	w.Header().Set(
		"X-Pagination-Count",
		strconv.Itoa(returned),
	)
}
