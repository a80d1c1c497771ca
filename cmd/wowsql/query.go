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
	"strings"

	"github.com/spf13/cobra"

	"github.com/WoWSQL/wowsql-go/db"
)

var (
	querySelect []string
	queryWhere  []string
	queryOrder  string
	queryDesc   bool
	queryLimit  int
	queryOffset int
)

var queryCmd = &cobra.Command{
	Use:   "query <table>",
	Short: "Run a filtered read against one table",
	Long: `Run a filtered read against one table.

Filters are column.operator.value triples, for example:
  wowsql query users --select id,name --where status.eq.active --where age.gt.18 --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := client.Table(args[0]).Select(querySelect...)
		for _, where := range queryWhere {
			column, op, value, err := parseWhere(where)
			if err != nil {
				return err
			}
			q.Filter(column, op, value, "")
		}
		if queryOrder != "" {
			q.OrderBy(queryOrder, queryDesc)
		}
		if queryLimit >= 0 {
			q.Limit(queryLimit)
		}
		if queryOffset >= 0 {
			q.Offset(queryOffset)
		}

		records, err := q.Get(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(records)
	},
}

// parseWhere splits a column.operator.value triple. The value keeps any
// further dots; "null" means a missing value for is/is_not.
func parseWhere(s string) (string, db.Operator, any, error) {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) < 2 {
		return "", "", nil, fmt.Errorf("invalid filter %q, want column.operator.value", s)
	}
	column := parts[0]
	op := db.Operator(parts[1])

	var value any
	if len(parts) == 3 && parts[2] != "null" {
		value = parts[2]
	}
	return column, op, value, nil
}

func init() {
	queryCmd.Flags().StringSliceVar(&querySelect, "select", nil, "columns to select (default *)")
	queryCmd.Flags().StringArrayVar(&queryWhere, "where", nil, "filter as column.operator.value (repeatable)")
	queryCmd.Flags().StringVar(&queryOrder, "order", "", "order by column")
	queryCmd.Flags().BoolVar(&queryDesc, "desc", false, "order descending")
	queryCmd.Flags().IntVar(&queryLimit, "limit", -1, "max records")
	queryCmd.Flags().IntVar(&queryOffset, "offset", -1, "records to skip")
	rootCmd.AddCommand(queryCmd)
}
