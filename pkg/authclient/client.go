// Package authclient is the typed client for the remote auth
// authority. URL shapes are deployment configuration; every call is
// plain REST/JSON through the gateway.
package authclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fakestore/storefront/internal/gateway"
	"github.com/fakestore/storefront/internal/models"
)

// TokenHeader carries the session credential on requests that need it.
const TokenHeader = "user-token"

type Config struct {
	BaseURL        string
	SignupPath     string
	SigninPath     string
	VerifyPath     string
	SignoutPath    string
	DeleteUserPath string
}

type Client struct {
	cfg Config
	gw  *gateway.Client
}

func New(cfg Config, gw *gateway.Client) *Client {
	return &Client{cfg: cfg, gw: gw}
}

func (c *Client) url(path string, segments ...string) string {
	u := c.cfg.BaseURL + path
	for _, s := range segments {
		u += "/" + url.PathEscape(s)
	}
	return u
}

func tokenHeader(token string) http.Header {
	return http.Header{TokenHeader: []string{token}}
}

func (c *Client) Signup(ctx context.Context, fields map[string]string) (*models.AuthPayload, error) {
	var payload models.AuthPayload
	if err := c.gw.JSON(ctx, http.MethodPost, c.url(c.cfg.SignupPath), fields, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) Signin(ctx context.Context, username, password string) (*models.AuthPayload, error) {
	body := map[string]string{"username": username, "password": password}
	var payload models.AuthPayload
	if err := c.gw.JSON(ctx, http.MethodPost, c.url(c.cfg.SigninPath), body, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Verify asks the authority whether the token is still accepted. The
// endpoint answers with a bare JSON boolean.
func (c *Client) Verify(ctx context.Context, token string) (bool, error) {
	var valid bool
	if err := c.gw.JSON(ctx, http.MethodGet, c.url(c.cfg.VerifyPath, token), nil, nil, &valid); err != nil {
		return false, err
	}
	return valid, nil
}

// Signout notifies the authority that the token is being abandoned.
// Callers treat this as best effort.
func (c *Client) Signout(ctx context.Context, token string) error {
	_, err := c.gw.Send(ctx, http.MethodGet, c.url(c.cfg.SignoutPath), nil, tokenHeader(token))
	return err
}

func (c *Client) DeleteUser(ctx context.Context, objectID, token string) error {
	_, err := c.gw.Send(ctx, http.MethodDelete, c.url(c.cfg.DeleteUserPath, objectID), nil, tokenHeader(token))
	return err
}
