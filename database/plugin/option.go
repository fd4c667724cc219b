// Copyright 2026 Blink Labs Software
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

	"github.com/spf13/pflag"
)

const envVarPrefix = "LAUREL"

// PopulateCmdlineOptions adds a flag for every registered plugin option,
// named "<plugin>-<option>" and bound directly to the option destination
func PopulateCmdlineOptions(fs *pflag.FlagSet) error {
	for _, entry := range pluginEntries {
		for _, opt := range entry.Options {
			flagName := entry.Name + "-" + opt.Name
			if fs.Lookup(flagName) != nil {
				continue
			}
			desc := fmt.Sprintf(
				"%s (%s plugin %s)",
				opt.Description,
				PluginTypeName(entry.Type),
				entry.Name,
			)
			switch opt.Type {
			case PluginOptionTypeString:
				dest, ok := opt.Dest.(*string)
				def, _ := opt.DefaultValue.(string)
				if !ok {
					return fmt.Errorf("invalid destination for option %s", flagName)
				}
				fs.StringVar(dest, flagName, def, desc)
			case PluginOptionTypeBool:
				dest, ok := opt.Dest.(*bool)
				def, _ := opt.DefaultValue.(bool)
				if !ok {
					return fmt.Errorf("invalid destination for option %s", flagName)
				}
				fs.BoolVar(dest, flagName, def, desc)
			case PluginOptionTypeInt:
				dest, ok := opt.Dest.(*int)
				def, _ := opt.DefaultValue.(int)
				if !ok {
					return fmt.Errorf("invalid destination for option %s", flagName)
				}
				fs.IntVar(dest, flagName, def, desc)
			case PluginOptionTypeUint:
				dest, ok := opt.Dest.(*uint64)
				def, _ := opt.DefaultValue.(uint64)
				if !ok {
					return fmt.Errorf("invalid destination for option %s", flagName)
				}
				fs.Uint64Var(dest, flagName, def, desc)
			default:
				return fmt.Errorf(
					"unknown plugin option type %d for option %s",
					opt.Type,
					flagName,
				)
			}
		}
	}
	return nil
}

// ProcessConfig applies plugin options from a config file. The map is keyed
// by plugin type name ("blob", "metadata"), then plugin name, then option name
func ProcessConfig(pluginConfig map[string]map[string]map[string]any) error {
	for typeName, plugins := range pluginConfig {
		var pluginType PluginType
		switch typeName {
		case "blob":
			pluginType = PluginTypeBlob
		case "metadata":
			pluginType = PluginTypeMetadata
		default:
			return fmt.Errorf("unknown plugin type: %s", typeName)
		}
		for pluginName, options := range plugins {
			for optionName, value := range options {
				if err := SetPluginOption(
					pluginType,
					pluginName,
					optionName,
					normalizeValue(value),
				); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// normalizeValue converts numeric types produced by YAML decoding into the
// int form accepted by SetPluginOption
func normalizeValue(value any) any {
	switch v := value.(type) {
	case int64:
		return int(v)
	case uint:
		return uint64(v)
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
	}
	return value
}

// EnvVarName returns the environment variable consulted for a plugin
// option, for example LAUREL_BLOB_BADGER_BLOCK_CACHE_SIZE
func EnvVarName(pluginType PluginType, pluginName, optionName string) string {
	name := strings.Join(
		[]string{
			envVarPrefix,
			PluginTypeName(pluginType),
			pluginName,
			optionName,
		},
		"_",
	)
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// ProcessEnvVars applies plugin options set in the environment
func ProcessEnvVars() error {
	for _, entry := range pluginEntries {
		for _, opt := range entry.Options {
			envName := EnvVarName(entry.Type, entry.Name, opt.Name)
			envVal, ok := os.LookupEnv(envName)
			if !ok {
				continue
			}
			var value any
			var err error
			switch opt.Type {
			case PluginOptionTypeString:
				value = envVal
			case PluginOptionTypeBool:
				value, err = strconv.ParseBool(envVal)
			case PluginOptionTypeInt:
				value, err = strconv.Atoi(envVal)
			case PluginOptionTypeUint:
				value, err = strconv.ParseUint(envVal, 10, 64)
			default:
				err = fmt.Errorf("unknown plugin option type %d", opt.Type)
			}
			if err != nil {
				return fmt.Errorf("invalid value for %s: %w", envName, err)
			}
			if err := opt.assign(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envName, err)
			}
		}
	}
	return nil
}
