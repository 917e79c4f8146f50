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

package metadata

import (
	"fmt"
	"log/slog"

	"github.com/blinklabs-io/certstore/database/models"
	"github.com/blinklabs-io/certstore/database/plugin"
	"github.com/blinklabs-io/certstore/database/plugin/metadata/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// MetadataStore holds the queryable index rows for the record store. All
// methods accept an optional transaction handle; passing nil runs the
// operation against the store's own connection.
type MetadataStore interface {
	// Database
	Close() error
	DB() *gorm.DB
	Transaction() *gorm.DB
	GetCommitTimestamp() (int64, error)
	SetCommitTimestamp(int64, *gorm.DB) error

	// Certificate index
	SetCertificate(*models.Certificate, *gorm.DB) error
	GetCertificate(string, *gorm.DB) (*models.Certificate, error)
	DeleteCertificate(string, *gorm.DB) error
	GetCertificates(models.CertificateFilter, *gorm.DB) ([]models.Certificate, error)

	// Farmer index
	SetFarmer(*models.Farmer, *gorm.DB) error
	GetFarmer(string, *gorm.DB) (*models.Farmer, error)
	DeleteFarmer(string, *gorm.DB) error
	GetFarmers(models.FarmerFilter, *gorm.DB) ([]models.Farmer, error)
}

// New returns the started metadata plugin selected by name
func New(
	pluginName string,
	dataDir string,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (MetadataStore, error) {
	switch pluginName {
	case "sqlite":
		return sqlite.New(dataDir, logger, promRegistry)
	default:
		// Fall back to registry-instantiated plugins using their
		// registered option values
		p, err := plugin.StartPlugin(plugin.PluginTypeMetadata, pluginName)
		if err != nil {
			return nil, err
		}
		metadataStore, ok := p.(MetadataStore)
		if !ok {
			return nil, fmt.Errorf(
				"plugin '%s' does not implement MetadataStore interface",
				pluginName,
			)
		}
		return metadataStore, nil
	}
}
