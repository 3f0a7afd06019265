// Copyright 2025 Blink Labs Software
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

package token

import "github.com/blinklabs-io/resi/chain"

var (
	ErrInvalidAddress = chain.NewError(chain.ErrInvalidArgument, "invalid address")
	ErrInvalidAmount  = chain.NewError(chain.ErrInvalidArgument, "invalid amount")
	ErrInvalidRole    = chain.NewError(chain.ErrInvalidArgument, "invalid role")

	ErrIndexOutOfBounds = chain.NewError(chain.ErrInvalidArgument, "index out of bounds")

	ErrInvalidSerieOrProject = chain.NewError(
		chain.ErrInvalidState,
		"invalid or inactive serie or project",
	)
	ErrSerieStillActive   = chain.NewError(chain.ErrInvalidState, "serie still active")
	ErrNoFundsToExit      = chain.NewError(chain.ErrInvalidState, "no funds to exit")
	ErrBadgeNotRegistered = chain.NewError(chain.ErrInvalidState, "badge not registered")
	ErrBurnExceedsBalance = chain.NewError(chain.ErrInvalidState, "burn amount exceeds balance")

	ErrAccountHasNoValidRole = chain.NewError(chain.ErrUnauthorized, "account has not valid role")
	ErrRenounceForSelf       = chain.NewError(
		chain.ErrUnauthorized,
		"can only renounce roles for self",
	)

	ErrInvalidVault = chain.NewError(chain.ErrUpstreamInconsistency, "invalid vault")

	ErrTransferForbidden     = chain.NewError(chain.ErrForbidden, "transfer forbidden")
	ErrTransferFromForbidden = chain.NewError(chain.ErrForbidden, "transferFrom forbidden")
)
