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

package types_test

import (
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/resi/database/types"
)

func TestAmountScanValue(t *testing.T) {
	big, err := uint256.FromDecimal("182000000000000000000")
	require.NoError(t, err)
	testDefs := []struct {
		amount   types.Amount
		expected string
	}{
		{amount: types.NewAmount(uint256.NewInt(123)), expected: "123"},
		{amount: types.NewAmount(big), expected: "182000000000000000000"},
		{amount: types.NewAmount(nil), expected: "0"},
	}
	for _, testDef := range testDefs {
		var tmpValuer driver.Valuer = testDef.amount
		val, err := tmpValuer.Value()
		require.NoError(t, err)
		assert.Equal(t, testDef.expected, val)
		var scanned types.Amount
		var tmpScanner sql.Scanner = &scanned
		require.NoError(t, tmpScanner.Scan(val))
		assert.Equal(t, testDef.amount.Dec(), scanned.Dec())
	}
}

func TestAmountScanInvalid(t *testing.T) {
	var a types.Amount
	require.Error(t, a.Scan("not-a-number"))
	require.Error(t, a.Scan(1.5))
	require.NoError(t, a.Scan(int64(42)))
	assert.Equal(t, uint64(42), a.Uint64())
	require.NoError(t, a.Scan(nil))
	assert.True(t, a.IsZero())
}

func TestEventBlobKey(t *testing.T) {
	key := types.EventBlobKey(258)
	assert.Equal(t, []byte{'e', 'v', 0, 0, 0, 0, 0, 0, 1, 2}, key)
	seq, ok := types.EventSeqFromKey(key)
	require.True(t, ok)
	assert.Equal(t, uint64(258), seq)
	_, ok = types.EventSeqFromKey([]byte("bogus"))
	assert.False(t, ok)
	assert.Less(
		t,
		string(types.EventBlobKey(1)),
		string(types.EventBlobKey(256)),
	)
}
