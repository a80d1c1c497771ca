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

import (
	"context"
	"encoding/json"
)

// MockCall records one request seen by a MockRequester.
type MockCall struct {
	Method    string
	Path      string
	Query     map[string]string
	Body      any
	Multipart bool
	Fields    map[string]string
	Filename  string
	File      []byte
}

// MockRequester is a canned stand-in for Executor used by the client unit
// tests. Responses and errors are keyed by request path; every call is
// recorded for assertions on the exact request shape.
type MockRequester struct {
	Calls     []MockCall
	Responses map[string]any
	Errs      map[string]error
}

func NewMockRequester() *MockRequester {
	return &MockRequester{
		Responses: map[string]any{},
		Errs:      map[string]error{},
	}
}

func (m *MockRequester) Do(_ context.Context, method, path string, query map[string]string, body, out any) error {
	m.Calls = append(m.Calls, MockCall{
		Method: method,
		Path:   path,
		Query:  query,
		Body:   body,
	})
	return m.reply(path, out)
}

func (m *MockRequester) DoMultipart(_ context.Context, path string, fields map[string]string, filename string, file []byte, out any) error {
	m.Calls = append(m.Calls, MockCall{
		Method:    "POST",
		Path:      path,
		Multipart: true,
		Fields:    fields,
		Filename:  filename,
		File:      file,
	})
	return m.reply(path, out)
}

func (m *MockRequester) reply(path string, out any) error {
	if err, ok := m.Errs[path]; ok {
		return err
	}
	resp, ok := m.Responses[path]
	if !ok || out == nil {
		return nil
	}
	// Round-trip through JSON so the canned value decodes into whatever
	// shape the caller expects, same as a real response body would.
	encoded, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(encoded, out)
}
