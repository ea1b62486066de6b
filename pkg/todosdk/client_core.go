package todosdk

import (
	"context"
	"net/http"
)

func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodPost, "/v1/core/signup", nil, req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login opens a session; the cookie is kept in the client's jar.
func (c *Client) Login(ctx context.Context, username, password string) (*Profile, error) {
	var out Profile
	req := LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/v1/core/login", nil, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the current session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/v1/core/profile", nil, nil, nil, http.StatusNoContent)
}

func (c *Client) IssueToken(ctx context.Context, username, password string) (*TokenResponse, error) {
	var out TokenResponse
	req := TokenRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/v1/core/token", nil, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/v1/core/profile", nil, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile replaces the profile (PUT).
func (c *Client) UpdateProfile(ctx context.Context, req ProfileRequest) (*Profile, error) {
	return c.writeProfile(ctx, http.MethodPut, req)
}

// PatchProfile changes only the fields set in req.
func (c *Client) PatchProfile(ctx context.Context, req ProfileRequest) (*Profile, error) {
	return c.writeProfile(ctx, http.MethodPatch, req)
}

func (c *Client) writeProfile(ctx context.Context, method string, req ProfileRequest) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, method, "/v1/core/profile", nil, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePassword(ctx context.Context, oldPassword, newPassword string) error {
	req := UpdatePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}
	return c.do(ctx, http.MethodPut, "/v1/core/update_password", nil, req, nil, http.StatusOK)
}

// VerifyBot links the Telegram chat holding code to the current account.
func (c *Client) VerifyBot(ctx context.Context, code string) (*TelegramLink, error) {
	var out TelegramLink
	req := VerifyRequest{VerificationCode: code}
	if err := c.do(ctx, http.MethodPatch, "/v1/bot/verify", nil, req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
