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

package node

import (
	"context"
	"testing"

	"github.com/blinklabs-io/resi/internal/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenPlatformReloads(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		DatabasePath:    t.TempDir(),
		BlobPlugin:      config.DefaultBlobPlugin,
		MetadataPlugin:  config.DefaultMetadataPlugin,
		ShutdownTimeout: "5s",
	}
	p, err := OpenPlatform(ctx, cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, p.Registry())
	_, err = p.Bootstrap(ctx, common.HexToAddress("0xa1"), common.HexToAddress("0xa2"))
	require.NoError(t, err)
	regAddr := p.Registry().Address()
	require.NoError(t, p.Shutdown())

	p, err = OpenPlatform(ctx, cfg, nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, p.Shutdown()) }()
	require.NotNil(t, p.Registry())
	assert.Equal(t, regAddr, p.Registry().Address())
}

func TestPlatformConfigInvalidTimeout(t *testing.T) {
	_, err := PlatformConfig(&config.Config{ShutdownTimeout: "later"}, nil)
	require.Error(t, err)
}
