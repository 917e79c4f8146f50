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

package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blinklabs-io/certstore/access"
	"github.com/blinklabs-io/certstore/database/plugin"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "certstore.config"

const DefaultShutdownTimeout = "30s"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

const (
	DefaultBlobPlugin     = "badger"
	DefaultMetadataPlugin = "sqlite"
)

// ErrPluginListRequested is returned when the user requests to list available plugins
// This is not an error condition but a successful operation that displays plugin information
var ErrPluginListRequested = errors.New("plugin list requested")

type tempConfig struct {
	Config   *Config                   `yaml:"config,omitempty"`
	Blob     map[string]map[string]any `yaml:"blob,omitempty"`
	Metadata map[string]map[string]any `yaml:"metadata,omitempty"`
}

type Config struct {
	MetadataPlugin  string `yaml:"metadataPlugin"  envconfig:"CERTSTORE_DATABASE_METADATA_PLUGIN"`
	BlobPlugin      string `yaml:"blobPlugin"      envconfig:"CERTSTORE_DATABASE_BLOB_PLUGIN"`
	DataDir         string `yaml:"dataDir"                                                        split_words:"true"`
	BindAddr        string `yaml:"bindAddr"                                                       split_words:"true"`
	IssuerOrg       string `yaml:"issuerOrg"                                                      split_words:"true"`
	VerifierOrg     string `yaml:"verifierOrg"                                                    split_words:"true"`
	ShutdownTimeout string `yaml:"shutdownTimeout"                                                split_words:"true"`
	ApiPort         uint   `yaml:"apiPort"         envconfig:"port"`
	MetricsPort     uint   `yaml:"metricsPort"                                                    split_words:"true"`
	SeedLedger      bool   `yaml:"seedLedger"                                                     split_words:"true"`
}

var globalConfig = &Config{
	BindAddr:        "0.0.0.0",
	DataDir:         ".certstore",
	IssuerOrg:       access.DefaultIssuerOrg,
	VerifierOrg:     access.DefaultVerifierOrg,
	ApiPort:         3000,
	MetricsPort:     12798,
	BlobPlugin:      DefaultBlobPlugin,
	MetadataPlugin:  DefaultMetadataPlugin,
	ShutdownTimeout: DefaultShutdownTimeout,
	SeedLedger:      false,
}

func LoadConfig(configFile string) (*Config, error) {
	// Load config file as YAML if provided
	if configFile == "" {
		// Check for config file in this path: ~/.certstore/certstore.yaml
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(
				homeDir,
				".certstore",
				"certstore.yaml",
			)
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}

		// Try to check for /etc/certstore/certstore.yaml if still not found
		if configFile == "" {
			systemPath := "/etc/certstore/certstore.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		// First unmarshal into temp config to handle plugin sections
		var tempCfg tempConfig
		err = yaml.Unmarshal(buf, &tempCfg)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}

		// If config section exists, use it for main config
		if tempCfg.Config != nil {
			// Overlay config values onto existing defaults
			configBytes, err := yaml.Marshal(tempCfg.Config)
			if err != nil {
				return nil, fmt.Errorf("error re-marshalling config: %w", err)
			}
			err = yaml.Unmarshal(configBytes, globalConfig)
			if err != nil {
				return nil, fmt.Errorf("error parsing config section: %w", err)
			}
		} else {
			// Otherwise unmarshal the whole file as main config
			err = yaml.Unmarshal(buf, globalConfig)
			if err != nil {
				return nil, fmt.Errorf("error parsing config file: %w", err)
			}
		}

		// Process plugin configurations
		pluginConfig := make(map[string]map[string]map[string]any)
		if tempCfg.Blob != nil {
			pluginConfig["blob"] = tempCfg.Blob
		}
		if tempCfg.Metadata != nil {
			pluginConfig["metadata"] = tempCfg.Metadata
		}
		if len(pluginConfig) > 0 {
			err = plugin.ProcessConfig(pluginConfig)
			if err != nil {
				return nil, fmt.Errorf(
					"error processing plugin config: %w",
					err,
				)
			}
		}
	}
	// Process environment variables
	err := envconfig.Process("certstore", globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %+w", err)
	}

	// Process plugin environment variables
	err = plugin.ProcessEnvVars()
	if err != nil {
		return nil, fmt.Errorf(
			"error processing plugin environment variables: %w",
			err,
		)
	}

	return globalConfig, nil
}

func GetConfig() *Config {
	return globalConfig
}
