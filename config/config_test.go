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

package config

import (
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestValidate(t *testing.T) {
	is := is.New(t)

	is.NoErr(Config{Project: "my-project", APIKey: "k"}.Validate())
	is.True(errors.Is(Config{Project: "my-project"}.Validate(), ErrEmptyAPIKey))
	is.True(errors.Is(Config{APIKey: "k"}.Validate(), ErrEmptyProject))
	is.True(errors.Is(Config{Project: "  ", APIKey: "k"}.Validate(), ErrEmptyProject))
}

func TestBaseURLsFromSlug(t *testing.T) {
	is := is.New(t)
	cfg := Config{Project: "my-project", APIKey: "k"}

	is.Equal(cfg.DatabaseURL(), "https://my-project.wowsql.com/api/v2")
	is.Equal(cfg.AuthURL(), "https://my-project.wowsql.com/api/auth")
	is.Equal(cfg.StorageURL(), "https://my-project.wowsql.com/api/v1/storage/s3/projects/my-project")
	is.Equal(cfg.StorageRootURL(), "https://my-project.wowsql.com/api/v1/storage/s3")
	is.Equal(cfg.Slug(), "my-project")
}

func TestBaseURLsFromLiteralURL(t *testing.T) {
	is := is.New(t)

	// A trailing /api segment is stripped before service paths go back on.
	cfg := Config{Project: "https://my-project.wowsql.com/api", APIKey: "k"}
	is.Equal(cfg.AuthURL(), "https://my-project.wowsql.com/api/auth")
	is.Equal(cfg.DatabaseURL(), "https://my-project.wowsql.com/api/v2")
	is.Equal(cfg.Slug(), "my-project")

	// Trailing slashes are tolerated.
	cfg = Config{Project: "https://my-project.wowsql.com/api/", APIKey: "k"}
	is.Equal(cfg.AuthURL(), "https://my-project.wowsql.com/api/auth")

	// Self-hosted origin on a custom domain.
	cfg = Config{Project: "http://db.internal:8080", APIKey: "k"}
	is.Equal(cfg.DatabaseURL(), "http://db.internal:8080/api/v2")
	is.Equal(cfg.Slug(), "db")
}

func TestTimeoutDefaults(t *testing.T) {
	is := is.New(t)

	cfg := Config{Project: "p", APIKey: "k"}
	is.Equal(cfg.DatabaseTimeout(), 30*time.Second)
	is.Equal(cfg.EffectiveStorageTimeout(), 60*time.Second)

	cfg.Timeout = 5 * time.Second
	cfg.StorageTimeout = 90 * time.Second
	is.Equal(cfg.DatabaseTimeout(), 5*time.Second)
	is.Equal(cfg.EffectiveStorageTimeout(), 90*time.Second)
}
