package dummyjson

import (
	"storefront-catalog/internal/domain"
)

// remoteProduct is the product shape served by dummyjson.
type remoteProduct struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	Brand              string   `json:"brand"`
	Category           string   `json:"category"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images"`
}

type remoteProductList struct {
	Products []remoteProduct `json:"products"`
	Total    int             `json:"total"`
	Skip     int             `json:"skip"`
	Limit    int             `json:"limit"`
}

type remoteCategory struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (p remoteProduct) toDomain() domain.Product {
	out := domain.Product{
		ID:                 p.ID,
		Name:               p.Title,
		Description:        p.Description,
		Price:              p.Price,
		Category:           p.Category,
		Rating:             p.Rating,
		Stock:              p.Stock,
		Brand:              p.Brand,
		DiscountPercentage: p.DiscountPercentage,
		Images:             p.Images,
		Image:              p.Thumbnail,
	}
	if len(p.Images) > 0 {
		out.Image = p.Images[0]
	}
	out.Normalize()
	return out
}

func (l remoteProductList) toDomain() *domain.ProductList {
	out := &domain.ProductList{
		Products: make([]domain.Product, 0, len(l.Products)),
		Total:    l.Total,
		Skip:     l.Skip,
		Limit:    l.Limit,
	}
	for _, p := range l.Products {
		out.Products = append(out.Products, p.toDomain())
	}
	return out
}

type remoteUser struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Gender    string `json:"gender"`
	Image     string `json:"image"`
	Role      string `json:"role"`
}

// remoteLogin is the /auth/login response: the user fields plus tokens.
// Older deployments return a single "token" instead of accessToken.
type remoteLogin struct {
	remoteUser
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Token        string `json:"token"`
}

type remoteUserList struct {
	Users []remoteUser `json:"users"`
	Total int          `json:"total"`
	Skip  int          `json:"skip"`
	Limit int          `json:"limit"`
}

type remoteCartLine struct {
	ID              int     `json:"id"`
	Title           string  `json:"title"`
	Price           float64 `json:"price"`
	Quantity        int     `json:"quantity"`
	Total           float64 `json:"total"`
	DiscountedTotal float64 `json:"discountedTotal"`
	Thumbnail       string  `json:"thumbnail"`
}

type remoteCart struct {
	ID              int              `json:"id"`
	UserID          int              `json:"userId"`
	Products        []remoteCartLine `json:"products"`
	Total           float64          `json:"total"`
	DiscountedTotal float64          `json:"discountedTotal"`
	TotalProducts   int              `json:"totalProducts"`
	TotalQuantity   int              `json:"totalQuantity"`
}

type remoteCartList struct {
	Carts []remoteCart `json:"carts"`
	Total int          `json:"total"`
	Skip  int          `json:"skip"`
	Limit int          `json:"limit"`
}

type loginRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	ExpiresInMins int    `json:"expiresInMins,omitempty"`
}

func (u remoteUser) toDomain() domain.User {
	return domain.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Gender:    u.Gender,
		Image:     u.Image,
		Role:      u.Role,
	}
}

func (l remoteLogin) toDomain() *domain.AuthResult {
	access := l.AccessToken
	if access == "" {
		access = l.Token
	}
	return &domain.AuthResult{
		User:         l.remoteUser.toDomain(),
		AccessToken:  access,
		RefreshToken: l.RefreshToken,
	}
}

func (l remoteUserList) toDomain() *domain.UserList {
	out := &domain.UserList{
		Users: make([]domain.User, 0, len(l.Users)),
		Total: l.Total,
		Skip:  l.Skip,
		Limit: l.Limit,
	}
	for _, u := range l.Users {
		out.Users = append(out.Users, u.toDomain())
	}
	return out
}

// toDomain fills TotalProducts and TotalQuantity from the lines when the
// remote omitted them.
func (c remoteCart) toDomain() domain.UserCart {
	out := domain.UserCart{
		ID:              c.ID,
		UserID:          c.UserID,
		Products:        make([]domain.UserCartLine, 0, len(c.Products)),
		Total:           c.Total,
		DiscountedTotal: c.DiscountedTotal,
		TotalProducts:   c.TotalProducts,
		TotalQuantity:   c.TotalQuantity,
	}
	qty := 0
	for _, l := range c.Products {
		out.Products = append(out.Products, domain.UserCartLine{
			ProductID:       l.ID,
			Title:           l.Title,
			Price:           l.Price,
			Quantity:        l.Quantity,
			Total:           l.Total,
			DiscountedTotal: l.DiscountedTotal,
			Thumbnail:       l.Thumbnail,
		})
		qty += l.Quantity
	}
	if out.TotalProducts == 0 {
		out.TotalProducts = len(c.Products)
	}
	if out.TotalQuantity == 0 {
		out.TotalQuantity = qty
	}
	return out
}

func (l remoteCartList) toDomain() *domain.UserCartList {
	out := &domain.UserCartList{
		Carts: make([]domain.UserCart, 0, len(l.Carts)),
		Total: l.Total,
		Skip:  l.Skip,
		Limit: l.Limit,
	}
	for _, c := range l.Carts {
		out.Carts = append(out.Carts, c.toDomain())
	}
	return out
}
