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

package blob

import (
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/certstore/database/plugin"
	"github.com/blinklabs-io/certstore/database/plugin/blob/badger"
	"github.com/blinklabs-io/certstore/database/types"
	"github.com/prometheus/client_golang/prometheus"
)

// BlobStore is the durable key-value half of the record store. It holds
// the canonical encoded record bytes and provides transactional access
// plus prefix iteration for range scans.
type BlobStore interface {
	Close() error
	NewTransaction(bool) types.Txn
	Get(types.Txn, []byte) ([]byte, error)
	Set(types.Txn, []byte, []byte) error
	Delete(types.Txn, []byte) error
	NewIterator(types.Txn, types.BlobIteratorOptions) types.BlobIterator

	// Cross-store consistency
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(int64, types.Txn) error
}

// New returns the started blob plugin selected by name
func New(
	pluginName string,
	dataDir string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (BlobStore, error) {
	switch pluginName {
	case "badger":
		return badger.New(
			badger.WithDataDir(dataDir),
			badger.WithLogger(logger),
			badger.WithPromRegistry(promRegistry),
		)
	default:
		// Fall back to registry-instantiated plugins using their
		// registered option values
		p, err := plugin.StartPlugin(plugin.PluginTypeBlob, pluginName)
		if err != nil {
			return nil, err
		}
		blobStore, ok := p.(BlobStore)
		if !ok {
			return nil, fmt.Errorf(
				"plugin '%s' does not implement BlobStore interface",
				pluginName,
			)
		}
		return blobStore, nil
	}
}
