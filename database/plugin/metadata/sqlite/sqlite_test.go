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

package sqlite_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blinklabs-io/resi/database/models"
	"github.com/blinklabs-io/resi/database/plugin"
	"github.com/blinklabs-io/resi/database/plugin/metadata/sqlite"
)

func newTestStore(t *testing.T, dataDir string) *sqlite.MetadataStoreSqlite {
	t.Helper()
	store, err := sqlite.New(dataDir, nil, nil)
	require.NoError(t, err)
	require.NoError(t, store.Start())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestInMemoryStoresAreIsolated(t *testing.T) {
	store1 := newTestStore(t, "")
	store2 := newTestStore(t, "")
	require.NoError(
		t,
		store1.DB().Create(&models.Contract{
			Address: []byte{1},
			Kind:    "registry",
		}).Error,
	)
	var count int64
	require.NoError(t, store2.DB().Model(&models.Contract{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.NoError(t, store1.DB().Model(&models.Contract{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCommitTimestamp(t *testing.T) {
	store := newTestStore(t, t.TempDir())
	ts, err := store.GetCommitTimestamp()
	require.NoError(t, err)
	assert.Equal(t, int64(0), ts)
	for _, val := range []int64{100, 200} {
		txn := store.Transaction()
		require.NoError(t, store.SetCommitTimestamp(txn, val))
		require.NoError(t, txn.Commit().Error)
		ts, err = store.GetCommitTimestamp()
		require.NoError(t, err)
		assert.Equal(t, val, ts)
	}
	// Rolled back writes are not visible
	txn := store.Transaction()
	require.NoError(t, store.SetCommitTimestamp(txn, 300))
	require.NoError(t, txn.Rollback().Error)
	ts, err = store.GetCommitTimestamp()
	require.NoError(t, err)
	assert.Equal(t, int64(200), ts)
}

func TestPluginRegistered(t *testing.T) {
	p, err := plugin.StartPlugin(
		plugin.PluginTypeMetadata,
		"sqlite",
		plugin.Config{},
	)
	require.NoError(t, err)
	store, ok := p.(*sqlite.MetadataStoreSqlite)
	require.True(t, ok)
	assert.Empty(t, store.DataDir())
	require.NoError(t, p.Stop())
}
