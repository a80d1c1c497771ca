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

package storage

// QuotaSnapshot is the server-reported storage usage for a project. The
// client keeps at most one snapshot cached; mutating operations drop it so
// the next read fetches a fresh one.
type QuotaSnapshot struct {
	UsedGB      float64 `json:"used_gb"`
	AvailableGB float64 `json:"available_gb"`
	LimitGB     float64 `json:"limit_gb"`
	FileCount   int     `json:"file_count"`
}

// FileInfo describes one stored object as returned by the listing endpoint.
type FileInfo struct {
	Key          string `json:"key"`
	Size         int64  `json:"size"`
	LastModified string `json:"last_modified"`
	ETag         string `json:"etag,omitempty"`
	ContentType  string `json:"content_type,omitempty"`
}

// UploadResult is the upload endpoint's response.
type UploadResult struct {
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	URL         string `json:"url,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	ETag        string `json:"etag,omitempty"`
}

// UploadOptions carries the optional upload parameters. Folder, when set, is
// prefixed onto the object key. CheckQuota overrides the client-wide quota
// pre-check for this one upload.
type UploadOptions struct {
	Folder      string
	ContentType string
	CheckQuota  *bool
}
