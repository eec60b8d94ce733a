package dummyjson

import (
	"context"
	"fmt"
	"net/http"

	"storefront-catalog/internal/domain"
)

func (c *Client) Login(ctx context.Context, username, password string, expiresInMins int) (*domain.AuthResult, error) {
	var out remoteLogin
	err := c.send(ctx, request{
		op:     "login",
		method: http.MethodPost,
		path:   "/auth/login",
		body:   loginRequest{Username: username, Password: password, ExpiresInMins: expiresInMins},
	}, &out)
	if err != nil {
		// dummyjson answers bad credentials with 400
		switch remoteStatus(err) {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
		}
		return nil, err
	}

	res := out.toDomain()
	if res.AccessToken == "" {
		return nil, &domain.RemoteError{Op: "login", StatusCode: http.StatusOK, Err: fmt.Errorf("response carried no access token")}
	}
	return res, nil
}

func (c *Client) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	var out remoteUser
	err := c.send(ctx, request{op: "current user", method: http.MethodGet, path: "/auth/me", token: accessToken}, &out)
	if err != nil {
		switch remoteStatus(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
		}
		return nil, err
	}
	u := out.toDomain()
	return &u, nil
}

func (c *Client) AddUser(ctx context.Context, in domain.RegisterInput) (*domain.User, error) {
	var out remoteUser
	err := c.send(ctx, request{op: "add user", method: http.MethodPost, path: "/users/add", body: in}, &out)
	if err != nil {
		if remoteStatus(err) == http.StatusBadRequest {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		return nil, err
	}
	u := out.toDomain()
	return &u, nil
}
