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

package asset

import (
	"github.com/blinklabs-io/resi/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Native balances are kept in the asset ledger under the zero asset address

func NativeBalance(call *chain.Call, holder common.Address) (*uint256.Int, error) {
	return call.DB().GetAssetBalance(common.Address{}, holder, call.Txn())
}

// CreditNative adds native units to an account
func CreditNative(
	call *chain.Call,
	holder common.Address,
	amount *uint256.Int,
) error {
	balance, err := NativeBalance(call, holder)
	if err != nil {
		return err
	}
	balance, overflow := balance.AddOverflow(balance, amount)
	if overflow {
		return chain.NewError(chain.ErrCapacityExceeded, "balance overflow")
	}
	return call.DB().SetAssetBalance(common.Address{}, holder, balance, call.Txn())
}
