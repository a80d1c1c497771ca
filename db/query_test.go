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
	"encoding/json"
	"net/http"
	"reflect"
	"testing"

	"github.com/matryer/is"

	"github.com/WoWSQL/wowsql-go/pkg/wowhttp"
)

// bodyAsMap round-trips a recorded request body through JSON so tests can
// assert on the exact wire shape.
func bodyAsMap(t *testing.T, body any) map[string]any {
	t.Helper()
	encoded, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(encoded, &m); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	return m
}

func TestQuery_SimpleChainUsesGet(t *testing.T) {
	is := is.New(t)
	m := wowhttp.NewMockRequester()
	m.Responses["/users"] = map[string]any{"data": []map[string]any{{"id": 1.0}}}

	q := newQuery(m, "users", "id", "name").
		Eq("status", "active").
		Gt("age", 18).
		Limit(10)

	records, err := q.Get(context.Background())
	is.NoErr(err)
	is.Equal(len(records), 1)

	is.Equal(len(m.Calls), 1)
	call := m.Calls[0]
	is.Equal(call.Method, http.MethodGet)
	is.Equal(call.Path, "/users")
	is.Equal(call.Query, map[string]string{
		"select": "id,name",
		"filter": "status.eq.active,age.gt.18",
		"limit":  "10",
	})
	is.Equal(call.Body, nil)
}

func TestQuery_FilterStringPreservesCallOrder(t *testing.T) {
	is := is.New(t)
	m := wowhttp.NewMockRequester()

	_, err := newQuery(m, "events").
		Gte("ts", 100).
		Neq("kind", "noise").
		Like("name", "%boot%").
		Get(context.Background())
	is.NoErr(err)

	is.Equal(m.Calls[0].Query["filter"], "ts.gte.100,kind.neq.noise,name.like.%boot%")
}

func TestQuery_AdvancedOperatorForcesPost(t *testing.T) {
	is := is.New(t)
	m := wowhttp.NewMockRequester()
	m.Responses["/users/query"] = map[string]any{"data": []map[string]any{}}

	_, err := newQuery(m, "users", "*").
		In("id", 1, 2, 3).
		Get(context.Background())
	is.NoErr(err)

	call := m.Calls[0]
	is.Equal(call.Method, http.MethodPost)
	is.Equal(call.Path, "/users/query")

	body := bodyAsMap(t, call.Body)
	is.Equal(body["select"], []any{"*"})
	filters := body["filters"].([]any)
	is.Equal(len(filters), 1)
	is.Equal(filters[0], map[string]any{
		"column":     "id",
		"operator":   "in",
		"value":      []any{1.0, 2.0, 3.0},
		"logical_op": "AND",
	})
}

func TestQuery_MixedOperatorsForcePost(t *testing.T) {
	// The shape decision looks only at operator kind: one between filter
	// drags the whole query onto the POST path even though the eq filter
	// alone would have ridden GET. Preserved wire behavior.
	is := is.New(t)
	m := wowhttp.NewMockRequester()

	_, err := newQuery(m, "users").
		Eq("status", "active").
		Between("age", 18, 65).
		Get(context.Background())
	is.NoErr(err)

	call := m.Calls[0]
	is.Equal(call.Method, http.MethodPost)
	is.Equal(call.Path, "/users/query")

	body := bodyAsMap(t, call.Body)
	filters := body["filters"].([]any)
	is.Equal(len(filters), 2)
	is.Equal(filters[0].(map[string]any)["operator"], "eq")
	is.Equal(filters[1].(map[string]any)["value"], []any{18.0, 65.0})
}

func TestQuery_GroupByAndHavingForcePost(t *testing.T) {
	is := is.New(t)
	m := wowhttp.NewMockRequester()

	_, err := newQuery(m, "orders", "customer_id").
		GroupBy("customer_id").
		Having("total", OpGt, 100).
		OrderBy("total", true).
		Limit(5).
		Offset(10).
		Get(context.Background())
	is.NoErr(err)

	call := m.Calls[0]
	is.Equal(call.Method, http.MethodPost)

	body := bodyAsMap(t, call.Body)
	is.Equal(body["group_by"], []any{"customer_id"})
	is.Equal(body["having"], []any{map[string]any{
		"column":   "total",
		"operator": "gt",
		"value":    100.0,
	}})
	is.Equal(body["order_by"], "total")
	is.Equal(body["order_direction"], "desc")
	is.Equal(body["limit"], 5.0)
	is.Equal(body["offset"], 10.0)
}

func TestQuery_WildcardNeverCommaJoined(t *testing.T) {
	is := is.New(t)
	m := wowhttp.NewMockRequester()

	_, err := newQuery(m, "users", "*").Get(context.Background())
	is.NoErr(err)
	is.Equal(m.Calls[0].Query["select"], "*")

	_, err = newQuery(m, "users", "id", "*").Get(context.Background())
	is.NoErr(err)
	is.Equal(m.Calls[1].Query["select"], "*")

	_, err = newQuery(m, "users", "a", "b").Get(context.Background())
	is.NoErr(err)
	is.Equal(m.Calls[2].Query["select"], "a,b")

	// No projection at all also means everything.
	_, err = newQuery(m, "users").Get(context.Background())
	is.NoErr(err)
	is.Equal(m.Calls[3].Query["select"], "*")
}

func TestQuery_IsNullSerializesNullToken(t *testing.T) {
	is := is.New(t)
	m := wowhttp.NewMockRequester()

	_, err := newQuery(m, "users").
		IsNull("deleted_at").
		IsNotNull("email").
		Get(context.Background())
	is.NoErr(err)

	is.Equal(m.Calls[0].Query["filter"], "deleted_at.is.null,email.is_not.null")
}

func TestQuery_OrCombinator(t *testing.T) {
	is := is.New(t)
	m := wowhttp.NewMockRequester()

	_, err := newQuery(m, "users").
		Eq("role", "admin").
		Or("role", OpEq, "owner").
		In("region", "eu", "us").
		Get(context.Background())
	is.NoErr(err)

	body := bodyAsMap(t, m.Calls[0].Body)
	filters := body["filters"].([]any)
	is.Equal(filters[0].(map[string]any)["logical_op"], "AND")
	is.Equal(filters[1].(map[string]any)["logical_op"], "OR")
	is.Equal(filters[2].(map[string]any)["logical_op"], "AND")
}

func TestQuery_GetTwiceIssuesIdenticalRequests(t *testing.T) {
	is := is.New(t)
	m := wowhttp.NewMockRequester()

	q := newQuery(m, "users").Eq("status", "active").Limit(3)
	_, err := q.Get(context.Background())
	is.NoErr(err)
	_, err = q.Get(context.Background())
	is.NoErr(err)

	is.Equal(len(m.Calls), 2)
	is.True(reflect.DeepEqual(m.Calls[0], m.Calls[1]))
}

func TestQuery_StateAccumulatesAcrossTerminals(t *testing.T) {
	is := is.New(t)
	m := wowhttp.NewMockRequester()

	q := newQuery(m, "users").Eq("a", 1)
	_, err := q.Get(context.Background())
	is.NoErr(err)

	// The builder is never reset: a later filter joins the earlier one.
	q.Eq("b", 2)
	_, err = q.Get(context.Background())
	is.NoErr(err)

	is.Equal(m.Calls[1].Query["filter"], "a.eq.1,b.eq.2")
}

func TestQuery_FirstSetsLimitAndSticks(t *testing.T) {
	is := is.New(t)
	m := wowhttp.NewMockRequester()
	m.Responses["/users"] = map[string]any{"data": []map[string]any{
		{"id": 1.0}, {"id": 2.0},
	}}

	q := newQuery(m, "users").Eq("status", "active")
	first, err := q.First(context.Background())
	is.NoErr(err)
	is.Equal(first["id"], 1.0)
	is.Equal(m.Calls[0].Query["limit"], "1")

	// The limit persists on the builder after First.
	_, err = q.Get(context.Background())
	is.NoErr(err)
	is.Equal(m.Calls[1].Query["limit"], "1")
}

func TestQuery_FirstReturnsNilOnEmpty(t *testing.T) {
	is := is.New(t)
	m := wowhttp.NewMockRequester()
	m.Responses["/users"] = map[string]any{"data": []map[string]any{}}

	first, err := newQuery(m, "users").First(context.Background())
	is.NoErr(err)
	is.Equal(first, Record(nil))
}

func TestQuery_ZeroLimitIsExplicit(t *testing.T) {
	is := is.New(t)
	m := wowhttp.NewMockRequester()

	_, err := newQuery(m, "users").Limit(0).Offset(0).Get(context.Background())
	is.NoErr(err)
	is.Equal(m.Calls[0].Query["limit"], "0")
	is.Equal(m.Calls[0].Query["offset"], "0")
}

func TestQuery_EqWithSliceValueStaysOnGetPath(t *testing.T) {
	// The advanced-shape detection checks the operator, not the value. An eq
	// carrying a composite flattens to JSON-in-string on GET.
	is := is.New(t)
	m := wowhttp.NewMockRequester()

	_, err := newQuery(m, "users").Eq("id", []any{1, 2}).Get(context.Background())
	is.NoErr(err)

	call := m.Calls[0]
	is.Equal(call.Method, http.MethodGet)
	is.Equal(call.Query["filter"], "id.eq.[1,2]")
}
