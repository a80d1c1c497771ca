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

// Package storage is the object-storage half of the WowSQL SDK. Every
// operation is one HTTP exchange against the platform's storage API; the
// only local state is a single-slot quota cache used for pre-flight upload
// checks.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/WoWSQL/wowsql-go/config"
	"github.com/WoWSQL/wowsql-go/pkg/wowhttp"
)

const (
	defaultMaxKeys   = 1000
	defaultExpiresIn = 3600
	defaultRegion    = "us-east-1"

	bytesPerGB = float64(1 << 30)
)

// Requester issues one HTTP exchange against the storage API. Satisfied by
// wowhttp.Executor; tests substitute wowhttp.MockRequester.
type Requester interface {
	Do(ctx context.Context, method, path string, query map[string]string, body, out any) error
	DoMultipart(ctx context.Context, path string, fields map[string]string, filename string, file []byte, out any) error
}

// Client manages the object storage of one project with a client-enforced
// quota. Instances assume single-threaded use; the quota slot is guarded
// only so that accidental concurrent calls degrade to last-write-wins.
type Client struct {
	req        Requester
	rootReq    Requester
	log        logrus.FieldLogger
	checkQuota bool

	mu    sync.Mutex
	quota *QuotaSnapshot
}

func NewClient(cfg config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log != nil {
		log = log.WithField("module", "storage")
	}

	opts := wowhttp.Options{
		Timeout:       cfg.EffectiveStorageTimeout(),
		Logger:        log,
		StorageErrors: true,
	}

	return &Client{
		req:        wowhttp.New(cfg.StorageURL(), cfg.APIKey, opts),
		rootReq:    wowhttp.New(cfg.StorageRootURL(), cfg.APIKey, opts),
		log:        log,
		checkQuota: !cfg.DisableQuotaCheck,
	}, nil
}

// GetQuota returns the project's quota snapshot. The cached value is reused
// unless it is absent or forceRefresh is set; the cache never expires by
// time, only through mutating operations.
func (c *Client) GetQuota(ctx context.Context, forceRefresh bool) (*QuotaSnapshot, error) {
	c.mu.Lock()
	cached := c.quota
	c.mu.Unlock()
	if cached != nil && !forceRefresh {
		return cached, nil
	}

	var snap QuotaSnapshot
	if err := c.req.Do(ctx, http.MethodGet, "/quota", nil, nil, &snap); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.quota = &snap
	c.mu.Unlock()
	return &snap, nil
}

func (c *Client) invalidateQuota() {
	c.mu.Lock()
	c.quota = nil
	c.mu.Unlock()
}

func quotaError(sizeGB, availableGB float64) *wowhttp.QuotaExceededError {
	return &wowhttp.QuotaExceededError{
		StorageError: wowhttp.StorageError{
			APIError: wowhttp.APIError{
				Message: fmt.Sprintf(
					"upload of %.4f GB exceeds available storage of %.4f GB",
					sizeGB, availableGB),
				StatusCode: http.StatusRequestEntityTooLarge,
			},
		},
	}
}

// UploadFile stores data under key. When the quota check is on (the client
// default unless disabled, overridable per call via opts.CheckQuota) the
// quota is force-refreshed first and the upload fails with a
// QuotaExceededError before any upload request goes out if the file does
// not fit. A successful upload invalidates the quota cache.
func (c *Client) UploadFile(ctx context.Context, data []byte, key string, opts *UploadOptions) (*UploadResult, error) {
	if opts == nil {
		opts = &UploadOptions{}
	}

	check := c.checkQuota
	if opts.CheckQuota != nil {
		check = *opts.CheckQuota
	}
	if check {
		quota, err := c.GetQuota(ctx, true)
		if err != nil {
			return nil, err
		}
		sizeGB := float64(len(data)) / bytesPerGB
		if sizeGB > quota.AvailableGB {
			return nil, quotaError(sizeGB, quota.AvailableGB)
		}
	}

	if opts.Folder != "" {
		key = path.Join(opts.Folder, key)
	}
	fields := map[string]string{"key": key}
	if opts.ContentType != "" {
		fields["content_type"] = opts.ContentType
	}

	var result UploadResult
	if err := c.req.DoMultipart(ctx, "/upload", fields, path.Base(key), data, &result); err != nil {
		return nil, err
	}
	c.invalidateQuota()
	return &result, nil
}

// UploadFromPath reads a local file and uploads it. An empty key defaults to
// the file's base name.
func (c *Client) UploadFromPath(ctx context.Context, localPath, key string, opts *UploadOptions) (*UploadResult, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &wowhttp.StorageError{
				APIError: wowhttp.APIError{
					Message: fmt.Sprintf("local file not found: %s", localPath),
				},
			}
		}
		return nil, errors.Wrap(err, "failed to read local file")
	}
	if key == "" {
		key = filepath.Base(localPath)
	}
	return c.UploadFile(ctx, data, key, opts)
}

// ListFiles lists objects under prefix, up to maxKeys (1000 when zero or
// negative). The result is never nil, even when the response omits the
// files field.
func (c *Client) ListFiles(ctx context.Context, prefix string, maxKeys int) ([]FileInfo, error) {
	if maxKeys <= 0 {
		maxKeys = defaultMaxKeys
	}
	params := map[string]string{"max_keys": strconv.Itoa(maxKeys)}
	if prefix != "" {
		params["prefix"] = prefix
	}

	var resp struct {
		Files []FileInfo `json:"files"`
	}
	if err := c.req.Do(ctx, http.MethodGet, "/files", params, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Files == nil {
		return []FileInfo{}, nil
	}
	return resp.Files, nil
}

// DeleteFile removes one object and invalidates the quota cache.
func (c *Client) DeleteFile(ctx context.Context, key string) error {
	if err := c.req.Do(ctx, http.MethodDelete, "/files/"+key, nil, nil, nil); err != nil {
		return err
	}
	c.invalidateQuota()
	return nil
}

// GetFileURL returns the full metadata payload for one object, including a
// download URL valid for expiresIn seconds (3600 when zero or negative).
func (c *Client) GetFileURL(ctx context.Context, key string, expiresIn int) (map[string]any, error) {
	if expiresIn <= 0 {
		expiresIn = defaultExpiresIn
	}
	params := map[string]string{"expires_in": strconv.Itoa(expiresIn)}

	var meta map[string]any
	if err := c.req.Do(ctx, http.MethodGet, "/files/"+key+"/url", params, nil, &meta); err != nil {
		return nil, err
	}
	return meta, nil
}

// GetPresignedURL returns a time-limited credential-embedded URL for direct
// object access. operation is the storage operation the URL authorizes
// (omitted from the request when empty, leaving the server default). The
// returned string is empty when the response carries no URL.
func (c *Client) GetPresignedURL(ctx context.Context, key string, expiresIn int, operation string) (string, error) {
	if expiresIn <= 0 {
		expiresIn = defaultExpiresIn
	}
	body := map[string]any{
		"key":        key,
		"expires_in": expiresIn,
	}
	if operation != "" {
		body["operation"] = operation
	}

	var resp struct {
		URL string `json:"url"`
	}
	if err := c.req.Do(ctx, http.MethodPost, "/presigned-url", nil, body, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// GetStorageInfo returns the provisioning state of the project's storage.
func (c *Client) GetStorageInfo(ctx context.Context) (map[string]any, error) {
	var info map[string]any
	if err := c.req.Do(ctx, http.MethodGet, "/info", nil, nil, &info); err != nil {
		return nil, err
	}
	return info, nil
}

// ProvisionStorage creates the project's storage bucket in region
// ("us-east-1" when empty). Needs a platform-scoped key; with a project key
// the server answers 403, surfaced as a PermissionError.
func (c *Client) ProvisionStorage(ctx context.Context, region string) (map[string]any, error) {
	if region == "" {
		region = defaultRegion
	}
	var resp map[string]any
	if err := c.req.Do(ctx, http.MethodPost, "/provision", nil, map[string]any{"region": region}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetAvailableRegions lists the regions storage can be provisioned in. The
// endpoint has returned three shapes over time: a bare array, an object
// with a regions field, and a single object. All three normalize to a flat
// sequence of objects; bare scalars are wrapped under a region key.
func (c *Client) GetAvailableRegions(ctx context.Context) ([]map[string]any, error) {
	var raw any
	if err := c.rootReq.Do(ctx, http.MethodGet, "/regions", nil, nil, &raw); err != nil {
		return nil, err
	}
	return normalizeRegions(raw), nil
}

func normalizeRegions(raw any) []map[string]any {
	switch v := raw.(type) {
	case []any:
		return regionSlice(v)
	case map[string]any:
		if nested, ok := v["regions"].([]any); ok {
			return regionSlice(nested)
		}
		return []map[string]any{v}
	}
	return []map[string]any{}
}

func regionSlice(items []any) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
			continue
		}
		out = append(out, map[string]any{"region": item})
	}
	return out
}
