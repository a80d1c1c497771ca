// Copyright © 2025 WowSQL, Inc.
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
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Load reads a Config from the environment and an optional YAML file. It is
// meant for tooling built on top of the SDK (the wowsql CLI uses it); library
// consumers normally construct a Config directly.
//
// Recognized keys: project, api_key, timeout, storage_timeout,
// disable_quota_check — each also bindable via WOWSQL_* environment
// variables (WOWSQL_PROJECT, WOWSQL_API_KEY, ...). When cfgPath is empty the
// default search path is ./configs/wowsql.{yaml,json,...}; a missing file is
// not an error since the environment alone may be enough.
func Load(cfgPath string) (Config, error) {
	// Private viper instance so we never collide with the importer's usage.
	v := viper.New()

	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("storage_timeout", DefaultStorageTimeout)

	v.SetEnvPrefix("wowsql")
	for _, key := range []string{"project", "api_key", "timeout", "storage_timeout", "disable_quota_check"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, errors.Wrap(err, "failed to bind environment")
		}
	}

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath("./configs")
		v.SetConfigName("wowsql")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "failed to load config")
		}
	}

	cfg := Config{
		Project:           v.GetString("project"),
		APIKey:            v.GetString("api_key"),
		Timeout:           v.GetDuration("timeout"),
		StorageTimeout:    v.GetDuration("storage_timeout"),
		DisableQuotaCheck: v.GetBool("disable_quota_check"),
	}
	return cfg, nil
}
