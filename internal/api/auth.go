package api

import (
	"context"
	"fmt"

	"github.com/ndnguyen/agora/internal/model"
)

// LoginRequest is the credential payload for Login.
type LoginRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	CaptchaID     string `json:"captchaId"`
	CaptchaAnswer string `json:"captchaAnswer"`
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	Email         string `json:"email"`
	CaptchaID     string `json:"captchaId"`
	CaptchaAnswer string `json:"captchaAnswer"`
}

// FetchCaptcha requests a fresh captcha challenge for the login or
// registration form.
func (c *Client) FetchCaptcha(ctx context.Context) (*model.Captcha, error) {
	var captcha model.Captcha
	if err := c.get(ctx, "/auth/captcha", &captcha); err != nil {
		return nil, fmt.Errorf("fetching captcha: %w", err)
	}
	return &captcha, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*model.Session, error) {
	var session model.Session
	if err := c.post(ctx, "/auth/login", req, &session); err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	return &session, nil
}

// Register creates a new account and returns the resulting session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*model.Session, error) {
	var session model.Session
	if err := c.post(ctx, "/auth/register", req, &session); err != nil {
		return nil, fmt.Errorf("registering: %w", err)
	}
	return &session, nil
}

// Logout invalidates the session token on the server. A failure here is
// not fatal; local teardown proceeds regardless.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}
