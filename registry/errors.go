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

package registry

import "github.com/blinklabs-io/resi/chain"

var (
	ErrCurrentSerieNotClosed = chain.NewError(
		chain.ErrInvalidState,
		"current serie is not closed yet",
	)
	ErrSerieInactive      = chain.NewError(chain.ErrInvalidState, "serie inactive")
	ErrSerieNotActive     = chain.NewError(chain.ErrInvalidState, "serie not active")
	ErrSerieNotCreated    = chain.NewError(chain.ErrInvalidState, "serie not created yet")
	ErrSerieAlreadyClosed = chain.NewError(chain.ErrInvalidState, "serie already closed")
	ErrInvalidSerie       = chain.NewError(chain.ErrInvalidState, "invalid serie")
	ErrSupplyUnderflow    = chain.NewError(chain.ErrInvalidState, "supply underflow")
	ErrProjectRegistered  = chain.NewError(
		chain.ErrInvalidState,
		"project already registered",
	)
	ErrTreasuryVaultSet = chain.NewError(
		chain.ErrInvalidState,
		"treasury vault already set",
	)

	ErrInvalidStartTime        = chain.NewError(chain.ErrInvalidArgument, "invalid start time")
	ErrInvalidEndTime          = chain.NewError(chain.ErrInvalidArgument, "invalid end time")
	ErrInvalidNumberOfProjects = chain.NewError(
		chain.ErrInvalidArgument,
		"invalid number of projects",
	)
	ErrInvalidMaxSupply   = chain.NewError(chain.ErrInvalidArgument, "invalid max supply")
	ErrInvalidVault       = chain.NewError(chain.ErrInvalidArgument, "invalid vault")
	ErrInvalidProjectName = chain.NewError(chain.ErrInvalidArgument, "invalid project name")
	ErrInvalidAddress     = chain.NewError(chain.ErrInvalidArgument, "invalid address")
	ErrInvalidAmount      = chain.NewError(chain.ErrInvalidArgument, "invalid amount")

	ErrMaxProjectsReached = chain.NewError(chain.ErrCapacityExceeded, "max projects reached")
	ErrMaxSupplyReached   = chain.NewError(chain.ErrCapacityExceeded, "max supply reached")

	ErrOnlyResiToken = chain.NewError(chain.ErrUpstreamInconsistency, "only resi token")
)
