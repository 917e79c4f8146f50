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

package plugin

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type PluginType int

const (
	PluginTypeBlob PluginType = iota
	PluginTypeMetadata
)

// PluginTypeName returns the human-readable name for a plugin type
func PluginTypeName(pluginType PluginType) string {
	switch pluginType {
	case PluginTypeBlob:
		return "blob"
	case PluginTypeMetadata:
		return "metadata"
	default:
		return "unknown"
	}
}

type PluginOptionType int

const (
	PluginOptionTypeString PluginOptionType = iota
	PluginOptionTypeBool
	PluginOptionTypeUint
)

type PluginOption struct {
	Dest         any
	DefaultValue any
	Name         string
	Description  string
	Type         PluginOptionType
}

type PluginEntry struct {
	NewFromOptionsFunc func() Plugin
	Name               string
	Description        string
	Options            []PluginOption
	Type               PluginType
}

var pluginEntries []PluginEntry

// Register adds a plugin entry to the registry. It's expected to be called
// from a plugin package's init()
func Register(entry PluginEntry) {
	pluginEntries = append(pluginEntries, entry)
}

// GetPlugins returns the registry entries for the given plugin type
func GetPlugins(pluginType PluginType) []PluginEntry {
	ret := []PluginEntry{}
	for _, entry := range pluginEntries {
		if entry.Type == pluginType {
			ret = append(ret, entry)
		}
	}
	return ret
}

// GetPlugin instantiates the named plugin using its current option values
func GetPlugin(pluginType PluginType, name string) Plugin {
	for _, entry := range pluginEntries {
		if entry.Type == pluginType && entry.Name == name {
			return entry.NewFromOptionsFunc()
		}
	}
	return nil
}

func pluginTypeByName(name string) (PluginType, bool) {
	switch name {
	case "blob":
		return PluginTypeBlob, true
	case "metadata":
		return PluginTypeMetadata, true
	default:
		return 0, false
	}
}

// ProcessConfig applies plugin option values from a parsed config file. The
// map is keyed by plugin type name, then plugin name, then option name.
// Values must already be the correct type for the option.
func ProcessConfig(
	pluginConfig map[string]map[string]map[string]any,
) error {
	for typeName, plugins := range pluginConfig {
		pluginType, ok := pluginTypeByName(typeName)
		if !ok {
			return fmt.Errorf("unknown plugin type: %s", typeName)
		}
		for pluginName, options := range plugins {
			for optName, optValue := range options {
				// Config files parse integers as int; options want uint64
				if v, ok := optValue.(int); ok {
					if v < 0 {
						return fmt.Errorf(
							"negative value for option %s: %d",
							optName,
							v,
						)
					}
					optValue = uint64(v)
				}
				if err := SetPluginOption(
					pluginType,
					pluginName,
					optName,
					optValue,
				); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ProcessEnvVars applies plugin option values from environment variables of
// the form CERTSTORE_<TYPE>_<PLUGIN>_<OPTION>
func ProcessEnvVars() error {
	for i := range pluginEntries {
		entry := &pluginEntries[i]
		for _, opt := range entry.Options {
			envName := strings.ToUpper(
				strings.ReplaceAll(
					fmt.Sprintf(
						"certstore_%s_%s_%s",
						PluginTypeName(entry.Type),
						entry.Name,
						opt.Name,
					),
					"-",
					"_",
				),
			)
			envValue, ok := os.LookupEnv(envName)
			if !ok {
				continue
			}
			var value any
			switch opt.Type {
			case PluginOptionTypeString:
				value = envValue
			case PluginOptionTypeBool:
				v, err := strconv.ParseBool(envValue)
				if err != nil {
					return fmt.Errorf(
						"invalid value for %s: %w",
						envName,
						err,
					)
				}
				value = v
			case PluginOptionTypeUint:
				v, err := strconv.ParseUint(envValue, 10, 64)
				if err != nil {
					return fmt.Errorf(
						"invalid value for %s: %w",
						envName,
						err,
					)
				}
				value = v
			default:
				return fmt.Errorf(
					"unknown option type for %s",
					envName,
				)
			}
			if err := SetPluginOption(
				entry.Type,
				entry.Name,
				opt.Name,
				value,
			); err != nil {
				return err
			}
		}
	}
	return nil
}
