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
	"github.com/blinklabs-io/laurel/database/models"
)

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	IsHealthy bool `json:"is_healthy"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	StatusCode int    `json:"status_code"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

type OwnerResponse struct {
	Owner string `json:"owner"`
}

type IsOwnerResponse struct {
	AccountId string `json:"account_id"`
	IsOwner   bool   `json:"is_owner"`
}

type OrganizerRequest struct {
	AccountId string `json:"account_id"`
}

type IsOrganizerResponse struct {
	AccountId   string `json:"account_id"`
	IsOrganizer bool   `json:"is_organizer"`
}

type CreateEventRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type WhitelistRequest struct {
	AccountIds []string `json:"account_ids"`
}

type WhitelistResponse struct {
	EventName string   `json:"event_name"`
	Whitelist []string `json:"whitelist"`
}

// TotalSupplyResponse carries the supply as a decimal string so large
// values survive JSON number handling in clients
type TotalSupplyResponse struct {
	TotalSupply string `json:"total_supply"`
}

// MetadataResponse is the collection display metadata. It is also the
// body of PUT /api/v1/metadata
type MetadataResponse struct {
	Spec    string  `json:"spec"`
	Name    string  `json:"name"`
	Symbol  string  `json:"symbol"`
	Icon    *string `json:"icon"`
	BaseUri *string `json:"base_uri"`
}

func metadataResponse(meta models.ContractMetadata) MetadataResponse {
	ret := MetadataResponse{
		Spec:   meta.Spec,
		Name:   meta.Name,
		Symbol: meta.Symbol,
	}
	if meta.Icon != "" {
		ret.Icon = &meta.Icon
	}
	if meta.BaseUri != "" {
		ret.BaseUri = &meta.BaseUri
	}
	return ret
}

func (m MetadataResponse) model() models.ContractMetadata {
	ret := models.ContractMetadata{
		Spec:   m.Spec,
		Name:   m.Name,
		Symbol: m.Symbol,
	}
	if m.Icon != nil {
		ret.Icon = *m.Icon
	}
	if m.BaseUri != nil {
		ret.BaseUri = *m.BaseUri
	}
	return ret
}
