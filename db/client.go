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

// Package db is the database half of the WowSQL SDK: a per-table façade for
// CRUD plus a fluent query builder for filtered reads.
package db

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/WoWSQL/wowsql-go/config"
	"github.com/WoWSQL/wowsql-go/pkg/wowhttp"
)

// Record is one table row as returned by the API.
type Record map[string]any

type queryResponse struct {
	Data []Record `json:"data"`
}

type recordResponse struct {
	Data Record `json:"data"`
}

// Requester issues one HTTP exchange against the database API. Satisfied by
// wowhttp.Executor; tests substitute wowhttp.MockRequester.
type Requester interface {
	Do(ctx context.Context, method, path string, query map[string]string, body, out any) error
}

// Client talks to the database endpoints of one project.
type Client struct {
	req Requester
	log logrus.FieldLogger
}

func NewClient(cfg config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log != nil {
		log = log.WithField("module", "db")
	}

	return &Client{
		req: wowhttp.New(cfg.DatabaseURL(), cfg.APIKey, wowhttp.Options{
			Timeout: cfg.DatabaseTimeout(),
			Logger:  log,
		}),
		log: log,
	}, nil
}

// Table binds a table name, giving access to CRUD calls and query builders.
func (c *Client) Table(name string) *Table {
	return &Table{name: name, req: c.req}
}

// ListTables returns the names of every table in the project.
func (c *Client) ListTables(ctx context.Context) ([]string, error) {
	var resp struct {
		Tables []string `json:"tables"`
	}
	if err := c.req.Do(ctx, http.MethodGet, "/tables", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tables, nil
}

// TableSchema returns the server-side schema description for one table.
func (c *Client) TableSchema(ctx context.Context, name string) (Record, error) {
	var schema Record
	if err := c.req.Do(ctx, http.MethodGet, "/tables/"+name+"/schema", nil, nil, &schema); err != nil {
		return nil, err
	}
	return schema, nil
}
