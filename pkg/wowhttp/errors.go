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

package wowhttp

import "fmt"

// APIError is the generic failure returned for any request that did not
// complete with a 2xx response. StatusCode is zero when the transport itself
// failed before a response arrived. Body holds the decoded error payload, or
// an empty map when the body was absent or not valid JSON.
type APIError struct {
	Message    string
	StatusCode int
	Body       map[string]any
}

func (e *APIError) Error() string { return e.Message }

// StorageError marks failures from the storage endpoints. It unwraps to
// APIError so callers can branch on either level.
type StorageError struct {
	APIError
}

func (e *StorageError) Error() string { return e.Message }

func (e *StorageError) Unwrap() error { return &e.APIError }

// QuotaExceededError is raised when an upload would exceed the project's
// storage quota, either by the client-side pre-check or by a 413 response.
// It unwraps to StorageError.
type QuotaExceededError struct {
	StorageError
}

func (e *QuotaExceededError) Error() string { return e.Message }

func (e *QuotaExceededError) Unwrap() error { return &e.StorageError }

// PermissionError is raised for operations that need an elevated key
// (status 403). It unwraps to APIError.
type PermissionError struct {
	APIError
}

func (e *PermissionError) Error() string { return e.Message }

func (e *PermissionError) Unwrap() error { return &e.APIError }

// resolveMessage picks the human-readable message for an error payload. The
// server is inconsistent about the field name, so the body is probed in a
// fixed order before falling back to the transport error text and finally a
// generic status line.
func resolveMessage(body map[string]any, transportMsg string, status int) string {
	for _, key := range []string{"detail", "message", "error"} {
		if s, ok := body[key].(string); ok && s != "" {
			return s
		}
	}
	if transportMsg != "" {
		return transportMsg
	}
	return fmt.Sprintf("Request failed with status %d", status)
}
