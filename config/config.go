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
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrEmptyAPIKey  = fmt.Errorf("api key is required")
	ErrEmptyProject = fmt.Errorf("project slug or base URL is required")
)

const (
	// PlatformDomain is appended to bare project slugs when deriving base URLs.
	PlatformDomain = "wowsql.com"

	// DefaultTimeout applies to database and auth requests.
	DefaultTimeout = 30 * time.Second
	// DefaultStorageTimeout applies to storage requests. Uploads need more
	// headroom than regular calls.
	DefaultStorageTimeout = 60 * time.Second
)

// Config carries everything a WowSQL client needs at construction time.
// There is no other configuration surface: no config files are read and no
// local state is persisted by the SDK itself.
type Config struct {
	// Project is either a bare project slug ("my-project") or a full base URL
	// ("https://my-project.wowsql.com"). A trailing /api segment on a literal
	// URL is stripped before the per-service path is appended.
	Project string
	// APIKey is sent as a bearer token on every request.
	APIKey string

	// Timeout for database and auth requests. Zero means DefaultTimeout.
	Timeout time.Duration
	// StorageTimeout for storage requests. Zero means DefaultStorageTimeout.
	StorageTimeout time.Duration

	// DisableQuotaCheck turns off the client-side quota pre-check that runs
	// before each upload. Individual uploads can still override it.
	DisableQuotaCheck bool

	// Logger receives debug-level request logging. Nil means silent.
	Logger logrus.FieldLogger
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrEmptyAPIKey
	}
	if strings.TrimSpace(c.Project) == "" {
		return ErrEmptyProject
	}
	return nil
}

// Origin returns the scheme://host part shared by all service base URLs.
func (c Config) Origin() string {
	p := strings.TrimRight(strings.TrimSpace(c.Project), "/")
	p = strings.TrimSuffix(p, "/api")
	if strings.Contains(p, "://") {
		return p
	}
	return "https://" + p + "." + PlatformDomain
}

// Slug returns the bare project identifier, extracted from the hostname when
// Project was given as a literal URL.
func (c Config) Slug() string {
	p := strings.TrimRight(strings.TrimSpace(c.Project), "/")
	if !strings.Contains(p, "://") {
		return p
	}
	u, err := url.Parse(p)
	if err != nil || u.Hostname() == "" {
		return p
	}
	host := u.Hostname()
	if i := strings.Index(host, "."); i > 0 {
		return host[:i]
	}
	return host
}

// DatabaseURL is the base for table and query endpoints.
func (c Config) DatabaseURL() string {
	return c.Origin() + "/api/v2"
}

// AuthURL is the base for the auth endpoints.
func (c Config) AuthURL() string {
	return c.Origin() + "/api/auth"
}

// StorageURL is the base for the project-scoped storage endpoints.
func (c Config) StorageURL() string {
	return c.Origin() + "/api/v1/storage/s3/projects/" + c.Slug()
}

// StorageRootURL is the base for platform-scoped storage endpoints such as
// the regions listing, which is not bound to one project.
func (c Config) StorageRootURL() string {
	return c.Origin() + "/api/v1/storage/s3"
}

func (c Config) DatabaseTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

func (c Config) EffectiveStorageTimeout() time.Duration {
	if c.StorageTimeout > 0 {
		return c.StorageTimeout
	}
	return DefaultStorageTimeout
}
