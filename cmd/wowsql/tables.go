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

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the project's tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		tables, err := client.DB().ListTables(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range tables {
			fmt.Println(name)
		}
		return nil
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema <table>",
	Short: "Show one table's schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := client.DB().TableSchema(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(schema)
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(schemaCmd)
}
