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

// Command wowsql is a small terminal companion to the SDK: list tables, run
// filtered queries, and manage project storage from the shell. It is a demo
// surface, not part of the SDK contract.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	wowsql "github.com/WoWSQL/wowsql-go"
	"github.com/WoWSQL/wowsql-go/config"
)

var (
	cfgFile string
	project string
	apiKey  string
	verbose bool

	client *wowsql.Client
)

var rootCmd = &cobra.Command{
	Use:   "wowsql",
	Short: "Terminal client for the WowSQL platform",
	Long:  `Query project tables and manage project storage from the shell.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if project != "" {
			cfg.Project = project
		}
		if apiKey != "" {
			cfg.APIKey = apiKey
		}

		log := logrus.New()
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
		cfg.Logger = log

		client, err = wowsql.New(cfg)
		return err
	},
}

// Execute runs the root command; called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// printJSON renders any API payload as indented JSON on stdout.
func printJSON(v any) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is configs/wowsql.yaml)")
	rootCmd.PersistentFlags().StringVar(&project, "project", "", "project slug or base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests")
}
