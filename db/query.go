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

package db

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

// HavingClause is one aggregate condition for grouped queries.
type HavingClause struct {
	Column   string   `json:"column"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value"`
}

// Query accumulates a filtered read against one table through chained calls.
// The accumulator is never reset: a terminal call reads the current state,
// so calling Get twice without further mutation issues two identical
// requests. One caller owns one Query; instances are not safe for
// concurrent use.
//
// Simple queries go out as GET {table} with a flattened filter string. As
// soon as grouping, having, or a set-membership/range operator is involved
// the query switches to POST {table}/query with a structured JSON body. The
// GET path exists for compatibility with the older protocol revision.
type Query struct {
	req   Requester
	table string

	selects   []string
	filters   []Filter
	orderBy   string
	orderDesc bool
	groupBy   []string
	having    []HavingClause
	limit     int
	offset    int
}

func newQuery(req Requester, table string, columns ...string) *Query {
	return &Query{
		req:     req,
		table:   table,
		selects: append([]string{}, columns...),
		limit:   -1,
		offset:  -1,
	}
}

// Select adds columns to the projection. With no Select calls at all the
// query selects every column.
func (q *Query) Select(columns ...string) *Query {
	q.selects = append(q.selects, columns...)
	return q
}

// Filter appends one condition. An empty logicalOp defaults to AND.
func (q *Query) Filter(column string, op Operator, value any, logicalOp string) *Query {
	if logicalOp == "" {
		logicalOp = LogicalAnd
	}
	q.filters = append(q.filters, Filter{
		Column:    column,
		Operator:  op,
		Value:     value,
		LogicalOp: logicalOp,
	})
	return q
}

// Or appends a condition combined with the preceding one using OR.
func (q *Query) Or(column string, op Operator, value any) *Query {
	return q.Filter(column, op, value, LogicalOr)
}

func (q *Query) Eq(column string, value any) *Query   { return q.Filter(column, OpEq, value, "") }
func (q *Query) Neq(column string, value any) *Query  { return q.Filter(column, OpNeq, value, "") }
func (q *Query) Gt(column string, value any) *Query   { return q.Filter(column, OpGt, value, "") }
func (q *Query) Gte(column string, value any) *Query  { return q.Filter(column, OpGte, value, "") }
func (q *Query) Lt(column string, value any) *Query   { return q.Filter(column, OpLt, value, "") }
func (q *Query) Lte(column string, value any) *Query  { return q.Filter(column, OpLte, value, "") }
func (q *Query) Like(column string, value any) *Query { return q.Filter(column, OpLike, value, "") }

func (q *Query) IsNull(column string) *Query    { return q.Filter(column, OpIs, nil, "") }
func (q *Query) IsNotNull(column string) *Query { return q.Filter(column, OpIsNot, nil, "") }

// In matches rows whose column is one of values.
func (q *Query) In(column string, values ...any) *Query {
	return q.Filter(column, OpIn, values, "")
}

// NotIn matches rows whose column is none of values.
func (q *Query) NotIn(column string, values ...any) *Query {
	return q.Filter(column, OpNotIn, values, "")
}

// Between matches rows whose column lies in [low, high].
func (q *Query) Between(column string, low, high any) *Query {
	return q.Filter(column, OpBetween, []any{low, high}, "")
}

// NotBetween matches rows whose column lies outside [low, high].
func (q *Query) NotBetween(column string, low, high any) *Query {
	return q.Filter(column, OpNotBetween, []any{low, high}, "")
}

func (q *Query) OrderBy(column string, descending bool) *Query {
	q.orderBy = column
	q.orderDesc = descending
	return q
}

func (q *Query) GroupBy(columns ...string) *Query {
	q.groupBy = append(q.groupBy, columns...)
	return q
}

func (q *Query) Having(column string, op Operator, value any) *Query {
	q.having = append(q.having, HavingClause{Column: column, Operator: op, Value: value})
	return q
}

func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

func (q *Query) Offset(n int) *Query {
	q.offset = n
	return q
}

// Get executes the accumulated query and returns the matching records.
func (q *Query) Get(ctx context.Context) ([]Record, error) {
	if q.advanced() {
		return q.post(ctx)
	}
	return q.get(ctx)
}

// Execute is an alias for Get.
func (q *Query) Execute(ctx context.Context) ([]Record, error) {
	return q.Get(ctx)
}

// First sets limit to 1 on the builder and returns the first matching
// record, or nil when nothing matched. The limit sticks, like every other
// accumulated setting.
func (q *Query) First(ctx context.Context) (Record, error) {
	q.limit = 1
	records, err := q.Get(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// advanced reports whether the structured POST shape is needed. Only the
// operator kind and group/having use are inspected, never the value shape:
// an eq filter carrying a slice still rides the GET path. That coupling is
// wire-protocol behavior and must stay.
func (q *Query) advanced() bool {
	if len(q.groupBy) > 0 || len(q.having) > 0 {
		return true
	}
	for _, f := range q.filters {
		if f.Operator.advanced() {
			return true
		}
	}
	return false
}

func (q *Query) get(ctx context.Context) ([]Record, error) {
	params := map[string]string{"select": q.selectParam()}

	if len(q.filters) > 0 {
		parts := make([]string, len(q.filters))
		for i, f := range q.filters {
			parts[i] = f.flatten()
		}
		params["filter"] = strings.Join(parts, ",")
	}
	if q.orderBy != "" {
		params["order"] = q.orderBy
		params["order_direction"] = q.direction()
	}
	if q.limit >= 0 {
		params["limit"] = strconv.Itoa(q.limit)
	}
	if q.offset >= 0 {
		params["offset"] = strconv.Itoa(q.offset)
	}

	var resp queryResponse
	if err := q.req.Do(ctx, http.MethodGet, "/"+q.table, params, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

type queryBody struct {
	Select         []string       `json:"select"`
	Filters        []Filter       `json:"filters"`
	GroupBy        []string       `json:"group_by,omitempty"`
	Having         []HavingClause `json:"having,omitempty"`
	OrderBy        string         `json:"order_by,omitempty"`
	OrderDirection string         `json:"order_direction,omitempty"`
	Limit          *int           `json:"limit,omitempty"`
	Offset         *int           `json:"offset,omitempty"`
}

func (q *Query) post(ctx context.Context) ([]Record, error) {
	body := queryBody{
		Select:  q.selectColumns(),
		Filters: q.filters,
		GroupBy: q.groupBy,
		Having:  q.having,
	}
	if body.Filters == nil {
		body.Filters = []Filter{}
	}
	if q.orderBy != "" {
		body.OrderBy = q.orderBy
		body.OrderDirection = q.direction()
	}
	if q.limit >= 0 {
		limit := q.limit
		body.Limit = &limit
	}
	if q.offset >= 0 {
		offset := q.offset
		body.Offset = &offset
	}

	var resp queryResponse
	if err := q.req.Do(ctx, http.MethodPost, "/"+q.table+"/query", nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// selectParam is the comma-joined projection for the GET path. A wildcard
// anywhere collapses the projection to a bare *; it is never comma-joined
// with named columns.
func (q *Query) selectParam() string {
	if len(q.selects) == 0 {
		return "*"
	}
	for _, col := range q.selects {
		if col == "*" {
			return "*"
		}
	}
	return strings.Join(q.selects, ",")
}

func (q *Query) selectColumns() []string {
	if len(q.selects) == 0 {
		return []string{"*"}
	}
	return q.selects
}

func (q *Query) direction() string {
	if q.orderDesc {
		return "desc"
	}
	return "asc"
}
