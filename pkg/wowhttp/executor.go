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

// Package wowhttp carries the request executor shared by the database,
// storage and auth clients, and the typed errors every failure maps to.
package wowhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Options configures an Executor.
type Options struct {
	// Timeout for the whole HTTP exchange. Zero means 30 seconds.
	Timeout time.Duration
	// Logger receives debug-level request logging. Nil means silent.
	Logger logrus.FieldLogger
	// StorageErrors maps failures to the storage error types; in particular
	// a 413 response becomes a QuotaExceededError.
	StorageErrors bool
}

// Executor issues single synchronous HTTP exchanges against one service base
// URL. It attaches bearer auth, serializes query parameters and JSON bodies,
// and maps every non-2xx outcome to a typed error. There are no retries:
// exactly one network attempt per call.
type Executor struct {
	baseURL       string
	apiKey        string
	httpClient    *http.Client
	log           logrus.FieldLogger
	storageErrors bool
}

func New(baseURL, apiKey string, opts Options) *Executor {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	log := opts.Logger
	if log == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		log = silent
	}

	return &Executor{
		baseURL:       baseURL,
		apiKey:        apiKey,
		httpClient:    &http.Client{Timeout: timeout},
		log:           log,
		storageErrors: opts.StorageErrors,
	}
}

// Do performs one request. path is appended to the executor's base URL.
// query, when non-nil, is encoded into the URL. body, when non-nil, is JSON
// encoded; GET and DELETE never send a body. The response body is decoded
// into out unless out is nil or the body is empty.
func (e *Executor) Do(ctx context.Context, method, path string, query map[string]string, body, out any) error {
	var reqBody io.Reader
	if body != nil && method != http.MethodGet && method != http.MethodDelete {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request failed: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, e.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}

	if len(query) > 0 {
		q := req.URL.Query()
		for key, value := range query {
			q.Set(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	return e.send(req, out)
}

// DoMultipart uploads file bytes plus form fields as multipart/form-data to
// path. The file part is named "file" and carries filename.
func (e *Executor) DoMultipart(ctx context.Context, path string, fields map[string]string, filename string, file []byte, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("create form file failed: %w", err)
	}
	if _, err := part.Write(file); err != nil {
		return fmt.Errorf("write form file failed: %w", err)
	}
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return fmt.Errorf("write form field failed: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize multipart body failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.apiKey)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return e.send(req, out)
}

func (e *Executor) send(req *http.Request, out any) error {
	e.log.WithFields(logrus.Fields{
		"method": req.Method,
		"url":    req.URL.String(),
	}).Debug("sending request")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return e.typed(APIError{Message: err.Error()})
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return e.parseError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}
	return nil
}

// parseError turns a non-2xx response into the appropriate typed error.
// Decode failures on the error body are swallowed: an empty map stands in so
// the message fallback chain still applies.
func (e *Executor) parseError(status int, data []byte) error {
	body := map[string]any{}
	_ = json.Unmarshal(data, &body)

	apiErr := APIError{
		Message:    resolveMessage(body, "", status),
		StatusCode: status,
		Body:       body,
	}

	if status == http.StatusForbidden {
		return &PermissionError{APIError: apiErr}
	}
	if e.storageErrors && status == http.StatusRequestEntityTooLarge {
		return &QuotaExceededError{StorageError: StorageError{APIError: apiErr}}
	}
	return e.typed(apiErr)
}

func (e *Executor) typed(apiErr APIError) error {
	if e.storageErrors {
		return &StorageError{APIError: apiErr}
	}
	return &apiErr
}
