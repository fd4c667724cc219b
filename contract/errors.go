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

package contract

import "errors"

var (
	ErrNotInitialized     = errors.New("contract is not initialized")
	ErrAlreadyInitialized = errors.New("contract is already initialized")
	ErrUnauthorized       = errors.New("caller is not authorized")
	ErrEventNotFound      = errors.New("event not found")
	ErrDuplicateEvent     = errors.New("event already exists")
	ErrNotWhitelisted     = errors.New("account is not whitelisted for event")
	ErrAlreadyClaimed     = errors.New("badge already claimed")
	ErrTokenIdCollision   = errors.New("token id already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
)

// errorKind returns a short label for an operation result, used in metrics
func errorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotInitialized):
		return "not_initialized"
	case errors.Is(err, ErrAlreadyInitialized):
		return "already_initialized"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrEventNotFound):
		return "event_not_found"
	case errors.Is(err, ErrDuplicateEvent):
		return "duplicate_event"
	case errors.Is(err, ErrNotWhitelisted):
		return "not_whitelisted"
	case errors.Is(err, ErrAlreadyClaimed):
		return "already_claimed"
	case errors.Is(err, ErrTokenIdCollision):
		return "token_id_collision"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	default:
		return "error"
	}
}
