package dummyjson

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"storefront-catalog/internal/domain"
)

// --- Users ---

func (c *Client) ListUsers(ctx context.Context, limit, skip int) (*domain.UserList, error) {
	var out remoteUserList
	if err := c.get(ctx, "list users", "/users", pageQuery(limit, skip), &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

func (c *Client) SearchUsers(ctx context.Context, query string) (*domain.UserList, error) {
	q := url.Values{}
	q.Set("q", query)

	var out remoteUserList
	if err := c.get(ctx, "search users", "/users/search", q, &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

func (c *Client) GetUser(ctx context.Context, id int) (*domain.User, error) {
	var out remoteUser
	if err := c.get(ctx, "get user", "/users/"+strconv.Itoa(id), nil, &out); err != nil {
		return nil, notFound(err, domain.ErrUserNotFound, "user", id)
	}
	u := out.toDomain()
	return &u, nil
}

// --- Carts ---

func (c *Client) ListCarts(ctx context.Context, limit, skip int) (*domain.UserCartList, error) {
	var out remoteCartList
	if err := c.get(ctx, "list carts", "/carts", pageQuery(limit, skip), &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

func (c *Client) CartsByUser(ctx context.Context, userID int) (*domain.UserCartList, error) {
	var out remoteCartList
	if err := c.get(ctx, "carts by user", "/carts/user/"+strconv.Itoa(userID), nil, &out); err != nil {
		return nil, notFound(err, domain.ErrUserNotFound, "user", userID)
	}
	return out.toDomain(), nil
}

func (c *Client) GetCart(ctx context.Context, id int) (*domain.UserCart, error) {
	var out remoteCart
	if err := c.get(ctx, "get cart", "/carts/"+strconv.Itoa(id), nil, &out); err != nil {
		return nil, notFound(err, domain.ErrCartNotFound, "cart", id)
	}
	cart := out.toDomain()
	return &cart, nil
}

// DeleteCart is simulated by dummyjson: the response echoes the cart with
// isDeleted set and nothing changes upstream.
func (c *Client) DeleteCart(ctx context.Context, id int) error {
	err := c.send(ctx, request{op: "delete cart", method: http.MethodDelete, path: "/carts/" + strconv.Itoa(id)}, nil)
	if err != nil {
		return notFound(err, domain.ErrCartNotFound, "cart", id)
	}
	return nil
}

// --- Products ---

func (c *Client) AddProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	var out remoteProduct
	err := c.send(ctx, request{op: "add product", method: http.MethodPost, path: "/products/add", body: in}, &out)
	if err != nil {
		return nil, err
	}
	p := out.toDomain()
	return &p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id int, in domain.ProductInput) (*domain.Product, error) {
	var out remoteProduct
	err := c.send(ctx, request{op: "update product", method: http.MethodPut, path: "/products/" + strconv.Itoa(id), body: in}, &out)
	if err != nil {
		return nil, notFound(err, domain.ErrProductNotFound, "product", id)
	}
	p := out.toDomain()
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	err := c.send(ctx, request{op: "delete product", method: http.MethodDelete, path: "/products/" + strconv.Itoa(id)}, nil)
	if err != nil {
		return notFound(err, domain.ErrProductNotFound, "product", id)
	}
	return nil
}

func pageQuery(limit, skip int) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("skip", strconv.Itoa(skip))
	return q
}

// notFound maps a remote 404 onto sentinel; other errors pass through.
func notFound(err, sentinel error, kind string, id int) error {
	if remoteStatus(err) == http.StatusNotFound {
		return fmt.Errorf("%s %d: %w", kind, id, sentinel)
	}
	return err
}
