package domain

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
)

// User is an account on the remote store. Sessions carry one after login.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender,omitempty"`
	Image     string `json:"image,omitempty"`
	Role      string `json:"role,omitempty"`
}

// AuthResult is a successful remote login. The tokens stay server-side.
type AuthResult struct {
	User         User
	AccessToken  string
	RefreshToken string
}

type RegisterInput struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Validate trims every field and checks the ones the remote store requires.
func (in *RegisterInput) Validate() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	switch {
	case in.Username == "":
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	case len(in.Password) < 6:
		return fmt.Errorf("%w: password must be at least 6 characters", ErrInvalidInput)
	case in.Email == "":
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	return nil
}

type UserList struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
	Skip  int    `json:"skip"`
	Limit int    `json:"limit"`
}

// UserCartLine is one product line of a remote store cart.
type UserCartLine struct {
	ProductID       int     `json:"productId"`
	Title           string  `json:"title"`
	Price           float64 `json:"price"`
	Quantity        int     `json:"quantity"`
	Total           float64 `json:"total"`
	DiscountedTotal float64 `json:"discountedTotal"`
	Thumbnail       string  `json:"thumbnail,omitempty"`
}

// UserCart is a cart held by the remote store for one of its users. It is
// unrelated to the session cart.
type UserCart struct {
	ID              int            `json:"id"`
	UserID          int            `json:"userId"`
	Products        []UserCartLine `json:"products"`
	Total           float64        `json:"total"`
	DiscountedTotal float64        `json:"discountedTotal"`
	TotalProducts   int            `json:"totalProducts"`
	TotalQuantity   int            `json:"totalQuantity"`
}

type UserCartList struct {
	Carts []UserCart `json:"carts"`
	Total int        `json:"total"`
	Skip  int        `json:"skip"`
	Limit int        `json:"limit"`
}

// ProductInput is the editable subset of a product.
type ProductInput struct {
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Price              float64 `json:"price"`
	DiscountPercentage float64 `json:"discountPercentage"`
	Stock              int     `json:"stock"`
	Brand              string  `json:"brand"`
	Category           string  `json:"category"`
	Thumbnail          string  `json:"thumbnail,omitempty"`
}

func (in *ProductInput) Validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)

	switch {
	case in.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	case in.Price < 0:
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	case in.Stock < 0:
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidInput)
	case in.DiscountPercentage < 0 || in.DiscountPercentage > 100:
		return fmt.Errorf("%w: discountPercentage must be within 0..100", ErrInvalidInput)
	}
	return nil
}

// --- Interfaces ---

// AccountSource is the remote store's authentication API.
type AccountSource interface {
	Login(ctx context.Context, username, password string, expiresInMins int) (*AuthResult, error)
	// CurrentUser returns ErrUnauthorized when the access token is no longer accepted.
	CurrentUser(ctx context.Context, accessToken string) (*User, error)
	AddUser(ctx context.Context, in RegisterInput) (*User, error)
}

// AdminSource is the remote store's management API for products, carts and users.
type AdminSource interface {
	ListUsers(ctx context.Context, limit, skip int) (*UserList, error)
	SearchUsers(ctx context.Context, query string) (*UserList, error)
	GetUser(ctx context.Context, id int) (*User, error)

	ListCarts(ctx context.Context, limit, skip int) (*UserCartList, error)
	CartsByUser(ctx context.Context, userID int) (*UserCartList, error)
	GetCart(ctx context.Context, id int) (*UserCart, error)
	DeleteCart(ctx context.Context, id int) error

	AddProduct(ctx context.Context, in ProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, id int, in ProductInput) (*Product, error)
	DeleteProduct(ctx context.Context, id int) error
}
