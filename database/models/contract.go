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

package models

// Contract is an entry in the component directory
type Contract struct {
	Address   []byte `gorm:"uniqueIndex;size:20"`
	Deployer  []byte `gorm:"index;size:20"`
	Kind      string `gorm:"index;size:32"`
	ID        uint   `gorm:"primarykey"`
	Nonce     uint64
	CreatedAt int64
}

func (Contract) TableName() string {
	return "contract"
}

// AccountNonce tracks how many components an address has deployed
type AccountNonce struct {
	Address []byte `gorm:"uniqueIndex;size:20"`
	ID      uint   `gorm:"primarykey"`
	Nonce   uint64
}

func (AccountNonce) TableName() string {
	return "account_nonce"
}
