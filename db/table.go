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
	"fmt"
	"net/http"
)

// Table is the per-table entry point. Select starts a query builder; the
// remaining methods are direct single-request calls.
type Table struct {
	name string
	req  Requester
}

// Select starts a new query builder over this table with the given
// projection. Every call returns a fresh builder.
func (t *Table) Select(columns ...string) *Query {
	return newQuery(t.req, t.name, columns...)
}

// Get returns all records, equivalent to executing an empty builder.
func (t *Table) Get(ctx context.Context) ([]Record, error) {
	return t.Select().Get(ctx)
}

// GetByID fetches one record by primary key.
func (t *Table) GetByID(ctx context.Context, id any) (Record, error) {
	var resp recordResponse
	if err := t.req.Do(ctx, http.MethodGet, t.recordPath(id), nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Create inserts one record and returns the stored row.
func (t *Table) Create(ctx context.Context, data map[string]any) (Record, error) {
	var resp recordResponse
	if err := t.req.Do(ctx, http.MethodPost, "/"+t.name, nil, data, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Update patches one record by primary key and returns the updated row.
func (t *Table) Update(ctx context.Context, id any, data map[string]any) (Record, error) {
	var resp recordResponse
	if err := t.req.Do(ctx, http.MethodPatch, t.recordPath(id), nil, data, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Delete removes one record by primary key.
func (t *Table) Delete(ctx context.Context, id any) error {
	return t.req.Do(ctx, http.MethodDelete, t.recordPath(id), nil, nil, nil)
}

func (t *Table) recordPath(id any) string {
	return fmt.Sprintf("/%s/%v", t.name, id)
}
