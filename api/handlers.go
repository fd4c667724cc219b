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
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/blinklabs-io/laurel/contract"
	"github.com/blinklabs-io/laurel/database/models"
)

const (
	CallerHeader  = "X-Caller-Id"
	DepositHeader = "X-Attached-Deposit"

	maxRequestBodySize = 1 << 20
)

var (
	errMissingCaller  = errors.New("missing " + CallerHeader + " header")
	errInvalidDeposit = errors.New("invalid " + DepositHeader + " header")
)

// writeJSON writes a JSON response with the given status
// code.
func writeJSON(
	w http.ResponseWriter,
	status int,
	v any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(
	w http.ResponseWriter,
	status int,
	message string,
) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    message,
	})
}

// errorStatus maps a contract error to its HTTP status
func errorStatus(err error) int {
	switch {
	case errors.Is(err, errMissingCaller):
		return http.StatusUnauthorized
	case errors.Is(err, errInvalidDeposit),
		errors.Is(err, ErrInvalidPaginationParameters),
		errors.Is(err, contract.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, contract.ErrUnauthorized),
		errors.Is(err, contract.ErrNotWhitelisted):
		return http.StatusForbidden
	case errors.Is(err, contract.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, contract.ErrNotInitialized),
		errors.Is(err, contract.ErrAlreadyInitialized),
		errors.Is(err, contract.ErrDuplicateEvent),
		errors.Is(err, contract.ErrAlreadyClaimed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeContractError writes the response for a failed operation. Internal
// failures are logged and their detail withheld from the client
func (s *Server) writeContractError(
	w http.ResponseWriter,
	operation string,
	err error,
) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(
			"operation failed",
			"operation", operation,
			"error", err,
		)
		writeError(w, status, "failed to "+operation)
		return
	}
	writeError(w, status, err.Error())
}

// callFromRequest builds the call context of a mutating request from its
// headers and the server clock
func (s *Server) callFromRequest(r *http.Request) (contract.Call, error) {
	caller := r.Header.Get(CallerHeader)
	if caller == "" {
		return contract.Call{}, errMissingCaller
	}
	call := contract.Call{
		Caller:    caller,
		Timestamp: uint64(s.config.Clock().UnixNano()), //nolint:gosec // clock is after the epoch
	}
	if depositStr := r.Header.Get(DepositHeader); depositStr != "" {
		deposit, ok := new(big.Int).SetString(depositStr, 10)
		if !ok || deposit.Sign() < 0 {
			return contract.Call{}, fmt.Errorf(
				"%w: %q",
				errInvalidDeposit,
				depositStr,
			)
		}
		call.Deposit = deposit
	}
	return call, nil
}

// decodeBody decodes a JSON request body into dest
func decodeBody(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("%w: malformed request body: %w", contract.ErrInvalidArgument, err)
	}
	return nil
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, HealthResponse{
		IsHealthy: true,
	})
}

// handleInitialize handles POST /api/v1/initialize.
func (s *Server) handleInitialize(
	w http.ResponseWriter,
	r *http.Request,
) {
	call, err := s.callFromRequest(r)
	if err != nil {
		s.writeContractError(w, "initialize", err)
		return
	}
	if err := s.contract.Initialize(r.Context(), call); err != nil {
		s.writeContractError(w, "initialize", err)
		return
	}
	writeJSON(w, http.StatusOK, OwnerResponse{Owner: call.Caller})
}

func (s *Server) handleOwner(
	w http.ResponseWriter,
	r *http.Request,
) {
	owner, err := s.contract.Owner(r.Context())
	if err != nil {
		s.writeContractError(w, "get owner", err)
		return
	}
	writeJSON(w, http.StatusOK, OwnerResponse{Owner: owner})
}

func (s *Server) handleIsOwner(
	w http.ResponseWriter,
	r *http.Request,
) {
	account := r.PathValue("account")
	isOwner, err := s.contract.IsOwner(r.Context(), account)
	if err != nil {
		s.writeContractError(w, "check owner", err)
		return
	}
	writeJSON(w, http.StatusOK, IsOwnerResponse{
		AccountId: account,
		IsOwner:   isOwner,
	})
}

// handleAddOrganizer handles POST /api/v1/organizers.
func (s *Server) handleAddOrganizer(
	w http.ResponseWriter,
	r *http.Request,
) {
	call, err := s.callFromRequest(r)
	if err != nil {
		s.writeContractError(w, "add organizer", err)
		return
	}
	var req OrganizerRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeContractError(w, "add organizer", err)
		return
	}
	if err := s.contract.AddOrganizer(r.Context(), call, req.AccountId); err != nil {
		s.writeContractError(w, "add organizer", err)
		return
	}
	writeJSON(w, http.StatusOK, IsOrganizerResponse{
		AccountId:   req.AccountId,
		IsOrganizer: true,
	})
}

func (s *Server) handleListOrganizers(
	w http.ResponseWriter,
	r *http.Request,
) {
	organizers, err := s.contract.ListOrganizers(r.Context())
	if err != nil {
		s.writeContractError(w, "list organizers", err)
		return
	}
	if organizers == nil {
		organizers = []string{}
	}
	writeJSON(w, http.StatusOK, organizers)
}

func (s *Server) handleIsOrganizer(
	w http.ResponseWriter,
	r *http.Request,
) {
	account := r.PathValue("account")
	isOrganizer, err := s.contract.IsOrganizer(r.Context(), account)
	if err != nil {
		s.writeContractError(w, "check organizer", err)
		return
	}
	writeJSON(w, http.StatusOK, IsOrganizerResponse{
		AccountId:   account,
		IsOrganizer: isOrganizer,
	})
}

// handleCreateEvent handles POST /api/v1/events.
func (s *Server) handleCreateEvent(
	w http.ResponseWriter,
	r *http.Request,
) {
	call, err := s.callFromRequest(r)
	if err != nil {
		s.writeContractError(w, "create event", err)
		return
	}
	var req CreateEventRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeContractError(w, "create event", err)
		return
	}
	evt, err := s.contract.CreateEvent(r.Context(), call, req.Name, req.Description)
	if err != nil {
		s.writeContractError(w, "create event", err)
		return
	}
	writeJSON(w, http.StatusCreated, evt)
}

func (s *Server) handleListEvents(
	w http.ResponseWriter,
	r *http.Request,
) {
	events, err := s.contract.ListEvents(r.Context())
	if err != nil {
		s.writeContractError(w, "list events", err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// handleGetEvent handles GET /api/v1/events/{name}. A missing event is
// reported as 404.
func (s *Server) handleGetEvent(
	w http.ResponseWriter,
	r *http.Request,
) {
	name := r.PathValue("name")
	evt, err := s.contract.GetEvent(r.Context(), name)
	if err != nil {
		s.writeContractError(w, "get event", err)
		return
	}
	if evt == nil {
		writeError(w, http.StatusNotFound, "event not found: "+name)
		return
	}
	writeJSON(w, http.StatusOK, evt)
}

func (s *Server) handleDeleteEvent(
	w http.ResponseWriter,
	r *http.Request,
) {
	call, err := s.callFromRequest(r)
	if err != nil {
		s.writeContractError(w, "delete event", err)
		return
	}
	if err := s.contract.DeleteEvent(r.Context(), call, r.PathValue("name")); err != nil {
		s.writeContractError(w, "delete event", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetWhitelist(
	w http.ResponseWriter,
	r *http.Request,
) {
	name := r.PathValue("name")
	whitelist, err := s.contract.GetWhitelist(r.Context(), name)
	if err != nil {
		s.writeContractError(w, "get whitelist", err)
		return
	}
	if whitelist == nil {
		writeError(w, http.StatusNotFound, "event not found: "+name)
		return
	}
	writeJSON(w, http.StatusOK, WhitelistResponse{
		EventName: name,
		Whitelist: whitelist,
	})
}

// handleAddToWhitelist handles POST /api/v1/events/{name}/whitelist and
// returns the resulting whitelist.
func (s *Server) handleAddToWhitelist(
	w http.ResponseWriter,
	r *http.Request,
) {
	name := r.PathValue("name")
	call, err := s.callFromRequest(r)
	if err != nil {
		s.writeContractError(w, "add to whitelist", err)
		return
	}
	var req WhitelistRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeContractError(w, "add to whitelist", err)
		return
	}
	if err := s.contract.AddToWhitelist(r.Context(), call, name, req.AccountIds); err != nil {
		s.writeContractError(w, "add to whitelist", err)
		return
	}
	whitelist, err := s.contract.GetWhitelist(r.Context(), name)
	if err != nil {
		s.writeContractError(w, "get whitelist", err)
		return
	}
	if whitelist == nil {
		whitelist = []string{}
	}
	writeJSON(w, http.StatusOK, WhitelistResponse{
		EventName: name,
		Whitelist: whitelist,
	})
}

// handleClaimBadge handles POST /api/v1/events/{name}/claim.
func (s *Server) handleClaimBadge(
	w http.ResponseWriter,
	r *http.Request,
) {
	call, err := s.callFromRequest(r)
	if err != nil {
		s.writeContractError(w, "claim badge", err)
		return
	}
	token, err := s.contract.ClaimBadge(r.Context(), call, r.PathValue("name"))
	if err != nil {
		s.writeContractError(w, "claim badge", err)
		return
	}
	writeJSON(w, http.StatusCreated, token)
}

func (s *Server) handleTotalSupply(
	w http.ResponseWriter,
	r *http.Request,
) {
	supply, err := s.contract.TotalSupply(r.Context())
	if err != nil {
		s.writeContractError(w, "get total supply", err)
		return
	}
	writeJSON(w, http.StatusOK, TotalSupplyResponse{
		TotalSupply: strconv.FormatUint(supply, 10),
	})
}

func (s *Server) handleGetToken(
	w http.ResponseWriter,
	r *http.Request,
) {
	tokenId := r.PathValue("id")
	token, err := s.contract.GetToken(r.Context(), tokenId)
	if err != nil {
		s.writeContractError(w, "get token", err)
		return
	}
	if token == nil {
		writeError(w, http.StatusNotFound, "token not found: "+tokenId)
		return
	}
	writeJSON(w, http.StatusOK, token)
}

// handleTokensForOwner handles GET /api/v1/accounts/{account}/tokens with
// optional from_index and limit query parameters.
func (s *Server) handleTokensForOwner(
	w http.ResponseWriter,
	r *http.Request,
) {
	params, err := ParsePagination(r)
	if err != nil {
		s.writeContractError(w, "list tokens", err)
		return
	}
	tokens, err := s.contract.TokensForOwnerPage(
		r.Context(),
		r.PathValue("account"),
		params.FromIndex,
		params.Limit,
	)
	if err != nil {
		s.writeContractError(w, "list tokens", err)
		return
	}
	if tokens == nil {
		tokens = []contract.Token{}
	}
	SetPaginationHeaders(w, params, len(tokens))
	writeJSON(w, http.StatusOK, tokens)
}

func (s *Server) handleGetMetadata(
	w http.ResponseWriter,
	r *http.Request,
) {
	meta, err := s.contract.ContractDisplayMetadata(r.Context())
	if err != nil {
		s.writeContractError(w, "get metadata", err)
		return
	}
	writeJSON(w, http.StatusOK, metadataResponse(meta))
}

func (s *Server) handleSetMetadata(
	w http.ResponseWriter,
	r *http.Request,
) {
	call, err := s.callFromRequest(r)
	if err != nil {
		s.writeContractError(w, "set metadata", err)
		return
	}
	var req MetadataResponse
	if err := decodeBody(w, r, &req); err != nil {
		s.writeContractError(w, "set metadata", err)
		return
	}
	meta, err := s.contract.SetDisplayMetadata(r.Context(), call, req.model())
	if err != nil {
		s.writeContractError(w, "set metadata", err)
		return
	}
	writeJSON(w, http.StatusOK, metadataResponse(meta))
}
