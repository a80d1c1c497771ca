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

// Package auth is the authentication half of the WowSQL SDK: request and
// response shaping for the signup/login/OAuth/OTP/magic-link flows plus an
// in-memory session slot. Nothing is persisted and tokens are never
// validated locally.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/WoWSQL/wowsql-go/config"
	"github.com/WoWSQL/wowsql-go/pkg/wowhttp"
)

var (
	ErrEmptyProvider    = fmt.Errorf("oauth provider is required")
	ErrMissingPassword  = fmt.Errorf("new password is required when verifying a password reset otp")
	ErrInvalidOTP       = fmt.Errorf("invalid otp purpose")
	ErrInvalidMagicLink = fmt.Errorf("invalid magic link purpose")
)

// Requester issues one HTTP exchange against the auth API. Satisfied by
// wowhttp.Executor; tests substitute wowhttp.MockRequester.
type Requester interface {
	Do(ctx context.Context, method, path string, query map[string]string, body, out any) error
}

// Client talks to the auth endpoints of one project. The session slot is
// filled by any flow that returns tokens and can be set or cleared manually;
// there is no automatic refresh.
type Client struct {
	req Requester
	log logrus.FieldLogger

	mu      sync.Mutex
	session *Session
}

func NewClient(cfg config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log != nil {
		log = log.WithField("module", "auth")
	}

	return &Client{
		req: wowhttp.New(cfg.AuthURL(), cfg.APIKey, wowhttp.Options{
			Timeout: cfg.DatabaseTimeout(),
			Logger:  log,
		}),
		log: log,
	}, nil
}

// SignUp registers a new user. fullName and metadata are optional.
func (c *Client) SignUp(ctx context.Context, email, password, fullName string, metadata map[string]any) (*Result, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
	}
	if fullName != "" {
		body["full_name"] = fullName
	}
	if metadata != nil {
		body["metadata"] = metadata
	}

	var resp sessionEnvelope
	if err := c.req.Do(ctx, http.MethodPost, "/signup", nil, body, &resp); err != nil {
		return nil, err
	}
	return c.finishAuth(&resp, email), nil
}

// SignIn authenticates with email and password.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Result, error) {
	body := map[string]any{
		"email":    email,
		"password": password,
	}

	var resp sessionEnvelope
	if err := c.req.Do(ctx, http.MethodPost, "/login", nil, body, &resp); err != nil {
		return nil, err
	}
	return c.finishAuth(&resp, email), nil
}

// GetOAuthAuthorizationURL returns the provider's authorization URL to
// redirect the user to. 502 and 400 failures are re-wrapped with messages
// naming the provider, since the bare server text rarely does.
func (c *Client) GetOAuthAuthorizationURL(ctx context.Context, provider, redirectURI string) (string, error) {
	if provider == "" {
		return "", ErrEmptyProvider
	}

	var params map[string]string
	if redirectURI != "" {
		params = map[string]string{"redirect_uri": redirectURI}
	}

	var resp struct {
		URL              string `json:"url"`
		AuthorizationURL string `json:"authorization_url"`
	}
	if err := c.req.Do(ctx, http.MethodGet, "/oauth/"+provider, params, nil, &resp); err != nil {
		return "", c.clarifyOAuthError(err, provider)
	}
	if resp.URL != "" {
		return resp.URL, nil
	}
	return resp.AuthorizationURL, nil
}

// ExchangeOAuthCallback trades the provider's authorization code for a
// session.
func (c *Client) ExchangeOAuthCallback(ctx context.Context, provider, code, redirectURI string) (*Result, error) {
	if provider == "" {
		return nil, ErrEmptyProvider
	}

	body := map[string]any{"code": code}
	if redirectURI != "" {
		body["redirect_uri"] = redirectURI
	}

	var resp sessionEnvelope
	if err := c.req.Do(ctx, http.MethodPost, "/oauth/"+provider+"/callback", nil, body, &resp); err != nil {
		return nil, err
	}
	return c.finishAuth(&resp, ""), nil
}

// ForgotPassword asks the server to mail a reset token to email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (map[string]any, error) {
	return c.passthrough(ctx, "/forgot-password", map[string]any{"email": email})
}

// ResetPassword completes a password reset with the mailed token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (map[string]any, error) {
	return c.passthrough(ctx, "/reset-password", map[string]any{
		"token":        token,
		"new_password": newPassword,
	})
}

// SendOTP mails a one-time passcode for the given purpose.
func (c *Client) SendOTP(ctx context.Context, email string, purpose OTPPurpose) (map[string]any, error) {
	if !purpose.valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOTP, purpose)
	}
	return c.passthrough(ctx, "/otp/send", map[string]any{
		"email":   email,
		"purpose": string(purpose),
	})
}

// VerifyOTP checks a one-time passcode. For password_reset the new password
// is required and no session is issued; every other purpose persists the
// returned session.
func (c *Client) VerifyOTP(ctx context.Context, email, code string, purpose OTPPurpose, newPassword string) (*Result, error) {
	if !purpose.valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOTP, purpose)
	}
	if purpose == OTPPasswordReset && newPassword == "" {
		return nil, ErrMissingPassword
	}

	body := map[string]any{
		"email":   email,
		"code":    code,
		"purpose": string(purpose),
	}
	if newPassword != "" {
		body["new_password"] = newPassword
	}

	var resp sessionEnvelope
	if err := c.req.Do(ctx, http.MethodPost, "/otp/verify", nil, body, &resp); err != nil {
		return nil, err
	}
	return c.finishAuth(&resp, email), nil
}

// SendMagicLink mails a sign-in link for the given purpose.
func (c *Client) SendMagicLink(ctx context.Context, email, redirectURI string, purpose MagicLinkPurpose) (map[string]any, error) {
	if !purpose.valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMagicLink, purpose)
	}
	body := map[string]any{
		"email":   email,
		"purpose": string(purpose),
	}
	if redirectURI != "" {
		body["redirect_uri"] = redirectURI
	}
	return c.passthrough(ctx, "/magic-link/send", body)
}

// VerifyEmail confirms an email address with the mailed token.
func (c *Client) VerifyEmail(ctx context.Context, token string) (map[string]any, error) {
	return c.passthrough(ctx, "/verify-email", map[string]any{"token": token})
}

// ResendVerification re-sends the verification mail.
func (c *Client) ResendVerification(ctx context.Context, email string) (map[string]any, error) {
	return c.passthrough(ctx, "/resend-verification", map[string]any{"email": email})
}

// Session returns the current session, or nil when signed out.
func (c *Client) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// SetSession installs a caller-supplied session, replacing any current one.
func (c *Client) SetSession(s *Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

// ClearSession drops the current session.
func (c *Client) ClearSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
}

func (c *Client) passthrough(ctx context.Context, path string, body map[string]any) (map[string]any, error) {
	var resp map[string]any
	if err := c.req.Do(ctx, http.MethodPost, path, nil, body, &resp); err != nil {
		return nil, err
	}
	// Some of these endpoints answer with an empty body.
	if resp == nil {
		resp = map[string]any{}
	}
	return resp, nil
}

// finishAuth persists the session when the envelope carries tokens and
// normalizes the user object so callers always get a non-nil map with at
// least the email filled in.
func (c *Client) finishAuth(resp *sessionEnvelope, email string) *Result {
	result := &Result{User: resp.User}
	if result.User == nil {
		result.User = User{}
		if email != "" {
			result.User["email"] = email
		}
	}

	if resp.AccessToken != "" {
		session := &Session{
			AccessToken:  resp.AccessToken,
			RefreshToken: resp.RefreshToken,
			TokenType:    resp.TokenType,
			ExpiresIn:    resp.ExpiresIn,
		}
		result.Session = session
		c.SetSession(session)
	}
	return result
}

// clarifyOAuthError rewrites the two failure modes the OAuth URL endpoint is
// known for: the upstream provider being unreachable (502) and a provider
// the project has not configured (400).
func (c *Client) clarifyOAuthError(err error, provider string) error {
	var apiErr *wowhttp.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.StatusCode {
	case http.StatusBadGateway:
		return &wowhttp.APIError{
			Message:    fmt.Sprintf("oauth provider %q is unreachable: %s", provider, apiErr.Message),
			StatusCode: apiErr.StatusCode,
			Body:       apiErr.Body,
		}
	case http.StatusBadRequest:
		return &wowhttp.APIError{
			Message:    fmt.Sprintf("oauth provider %q rejected the request (is it configured for this project?): %s", provider, apiErr.Message),
			StatusCode: apiErr.StatusCode,
			Body:       apiErr.Body,
		}
	}
	return err
}
