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

package badge

import "github.com/blinklabs-io/resi/chain"

var (
	ErrInvalidToAddress  = chain.NewError(chain.ErrInvalidArgument, "invalid to address")
	ErrEmptyURI          = chain.NewError(chain.ErrInvalidArgument, "empty uri")
	ErrInvalidAddress    = chain.NewError(chain.ErrInvalidArgument, "invalid address")
	ErrInvalidSerie      = chain.NewError(chain.ErrInvalidArgument, "invalid serie")
	ErrInvalidNickname   = chain.NewError(chain.ErrInvalidArgument, "invalid nickname")
	ErrInvalidTokenID    = chain.NewError(chain.ErrInvalidArgument, "invalid token id")
	ErrInvalidAmount     = chain.NewError(chain.ErrInvalidArgument, "invalid amount")
	ErrInvalidReceiver   = chain.NewError(chain.ErrInvalidState, "invalid sbt receiver")
	ErrAlreadyMinted     = chain.NewError(chain.ErrInvalidState, "badge already minted")
	ErrNoBadge           = chain.NewError(chain.ErrInvalidState, "no badge for role")
	ErrInsufficientFunds = chain.NewError(chain.ErrInvalidState, "insufficient badge balance")
	ErrNotSBTOwner       = chain.NewError(chain.ErrUnauthorized, "not an sbt owner")
	ErrInvalidResiToken  = chain.NewError(
		chain.ErrUpstreamInconsistency,
		"invalid resi token address",
	)
	ErrTransferForbidden = chain.NewError(chain.ErrForbidden, "transfer forbidden")
)
