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

// Package wowsql is the Go client SDK for the WowSQL platform, a managed
// MySQL backend with S3-compatible object storage behind a REST API. Every
// operation is one synchronous HTTP exchange; failures surface as the typed
// errors in pkg/wowhttp. Client instances assume single-threaded use.
package wowsql

import (
	"github.com/WoWSQL/wowsql-go/auth"
	"github.com/WoWSQL/wowsql-go/config"
	"github.com/WoWSQL/wowsql-go/db"
	"github.com/WoWSQL/wowsql-go/storage"
)

// Client bundles the three service clients for one project.
type Client struct {
	db      *db.Client
	storage *storage.Client
	auth    *auth.Client
}

func New(cfg config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dbClient, err := db.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	storageClient, err := storage.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	authClient, err := auth.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{
		db:      dbClient,
		storage: storageClient,
		auth:    authClient,
	}, nil
}

func (c *Client) DB() *db.Client           { return c.db }
func (c *Client) Storage() *storage.Client { return c.storage }
func (c *Client) Auth() *auth.Client       { return c.auth }

// Table is shorthand for DB().Table(name).
func (c *Client) Table(name string) *db.Table {
	return c.db.Table(name)
}
