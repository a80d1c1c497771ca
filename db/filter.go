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
	"encoding/json"
	"fmt"
)

// Operator is a filter comparison operator as spelled on the wire.
type Operator string

const (
	OpEq         Operator = "eq"
	OpNeq        Operator = "neq"
	OpGt         Operator = "gt"
	OpGte        Operator = "gte"
	OpLt         Operator = "lt"
	OpLte        Operator = "lte"
	OpLike       Operator = "like"
	OpIn         Operator = "in"
	OpNotIn      Operator = "not_in"
	OpBetween    Operator = "between"
	OpNotBetween Operator = "not_between"
	OpIs         Operator = "is"
	OpIsNot      Operator = "is_not"
)

// Logical combinators joining a filter with the one before it.
const (
	LogicalAnd = "AND"
	LogicalOr  = "OR"
)

// advanced reports whether the operator requires the structured POST shape.
// The set is fixed by the wire protocol: set-membership and range operators
// cannot be expressed in the flattened GET filter string.
func (o Operator) advanced() bool {
	switch o {
	case OpIn, OpNotIn, OpBetween, OpNotBetween:
		return true
	}
	return false
}

// Filter is one column/operator/value/combinator tuple. Value must be a
// two-element pair for between/not_between, a sequence for in/not_in, and
// nil for is/is_not.
type Filter struct {
	Column    string   `json:"column"`
	Operator  Operator `json:"operator"`
	Value     any      `json:"value"`
	LogicalOp string   `json:"logical_op"`
}

// flatten renders the filter as the column.operator.value triple used by the
// GET wire format.
func (f Filter) flatten() string {
	return f.Column + "." + string(f.Operator) + "." + flattenValue(f.Value)
}

// flattenValue renders a filter value for the flattened filter string. A nil
// value becomes the literal null token, never an empty string; strings pass
// through unquoted; everything else (numbers, bools, composites) is JSON
// encoded in place.
func flattenValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	}
	encoded, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(encoded)
}
