package backend

import (
	"context"
	"net/http"

	authcontract "coldchain/contracts/auth"
	"coldchain/contracts/session"
)

func (c *Client) SignUp(ctx context.Context, in authcontract.SignUp) (*authcontract.TokenResponse, error) {
	var out authcontract.TokenResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/signup", body: in}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*authcontract.TokenResponse, error) {
	var out authcontract.TokenResponse
	body := authcontract.PasswordGrant{Email: email, Password: password}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/token", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh rotates a refresh token. The old token is unusable afterwards.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*authcontract.TokenResponse, error) {
	var out authcontract.TokenResponse
	body := authcontract.RefreshGrant{RefreshToken: refreshToken}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/refresh", body: body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignOut revokes the refresh session bound to the current access token.
func (c *Client) SignOut(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/auth/logout", auth: true}, nil)
}

func (c *Client) Me(ctx context.Context) (*session.User, error) {
	var out session.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/me", auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in authcontract.ProfileUpdate) (*session.User, error) {
	var out session.User
	if err := c.do(ctx, request{method: http.MethodPatch, path: "/me", body: in, auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
