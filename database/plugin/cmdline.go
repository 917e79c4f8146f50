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

	"github.com/spf13/pflag"
)

// PopulateCmdlineOptions registers a command-line flag for every option of
// every registered plugin. Flags are named <type>-<plugin>-<option>.
func PopulateCmdlineOptions(fs *pflag.FlagSet) error {
	for i := range pluginEntries {
		entry := &pluginEntries[i]
		for _, opt := range entry.Options {
			flagName := fmt.Sprintf(
				"%s-%s-%s",
				PluginTypeName(entry.Type),
				entry.Name,
				opt.Name,
			)
			switch opt.Type {
			case PluginOptionTypeString:
				dest, ok := opt.Dest.(*string)
				if !ok || dest == nil {
					return fmt.Errorf(
						"invalid destination for option %s: expected *string",
						flagName,
					)
				}
				defaultValue, _ := opt.DefaultValue.(string)
				fs.StringVar(dest, flagName, defaultValue, opt.Description)
			case PluginOptionTypeBool:
				dest, ok := opt.Dest.(*bool)
				if !ok || dest == nil {
					return fmt.Errorf(
						"invalid destination for option %s: expected *bool",
						flagName,
					)
				}
				defaultValue, _ := opt.DefaultValue.(bool)
				fs.BoolVar(dest, flagName, defaultValue, opt.Description)
			case PluginOptionTypeUint:
				dest, ok := opt.Dest.(*uint64)
				if !ok || dest == nil {
					return fmt.Errorf(
						"invalid destination for option %s: expected *uint64",
						flagName,
					)
				}
				defaultValue, _ := opt.DefaultValue.(uint64)
				fs.Uint64Var(dest, flagName, defaultValue, opt.Description)
			default:
				return fmt.Errorf(
					"unknown option type for %s",
					flagName,
				)
			}
		}
	}
	return nil
}
