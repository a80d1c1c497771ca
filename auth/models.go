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

package auth

// Session is the token pair returned by the auth endpoints. Tokens are
// opaque to the client: no validation, no decoding, no automatic refresh.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// User is the server's user object.
type User map[string]any

// Result is the outcome of an auth flow. Session is nil for flows that do
// not issue tokens (password reset, verification).
type Result struct {
	Session *Session
	User    User
}

// sessionEnvelope matches the response shape shared by every token-issuing
// endpoint.
type sessionEnvelope struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	User         User   `json:"user"`
}

// OTPPurpose selects what a one-time passcode is for.
type OTPPurpose string

const (
	OTPLogin         OTPPurpose = "login"
	OTPSignup        OTPPurpose = "signup"
	OTPPasswordReset OTPPurpose = "password_reset"
)

func (p OTPPurpose) valid() bool {
	switch p {
	case OTPLogin, OTPSignup, OTPPasswordReset:
		return true
	}
	return false
}

// MagicLinkPurpose selects what a magic link is for.
type MagicLinkPurpose string

const (
	MagicLinkLogin             MagicLinkPurpose = "login"
	MagicLinkSignup            MagicLinkPurpose = "signup"
	MagicLinkEmailVerification MagicLinkPurpose = "email_verification"
)

func (p MagicLinkPurpose) valid() bool {
	switch p {
	case MagicLinkLogin, MagicLinkSignup, MagicLinkEmailVerification:
		return true
	}
	return false
}
