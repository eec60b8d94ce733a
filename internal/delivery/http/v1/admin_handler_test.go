package v1

import (
	"net/http"
	"strconv"
	"strings"
	"testing"

	"storefront-catalog/internal/domain"
	"storefront-catalog/internal/usecase"
	"storefront-catalog/pkg/utils"

	"github.com/goccy/go-json"
)

type upstreamUser struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

type upstreamCart struct {
	ID       int                      `json:"id"`
	UserID   int                      `json:"userId"`
	Products []map[string]interface{} `json:"products"`
	Total    float64                  `json:"total"`
}

// registerAccountUpstream adds the auth, users and carts endpoints. Every
// user's password is its username plus "pass"; the token of "stale" is never
// accepted by /auth/me.
func registerAccountUpstream(mux *http.ServeMux) {
	users := []upstreamUser{
		{1, "emilys", "emily@x.dev", "Emily", "Johnson", "admin"},
		{2, "michaelw", "michael@x.dev", "Michael", "Williams", "user"},
		{3, "sophiab", "sophia@x.dev", "Sophia", "Brown", "user"},
		{4, "jamesd", "james@x.dev", "James", "Davis", "moderator"},
		{5, "stale", "stale@x.dev", "Stale", "Token", "admin"},
	}
	carts := []upstreamCart{
		{1, 1, []map[string]interface{}{{"id": 1, "title": "a", "price": 10, "quantity": 2, "total": 20}}, 20},
		{2, 2, []map[string]interface{}{{"id": 4, "title": "b", "price": 40, "quantity": 1, "total": 40}}, 40},
		{3, 1, []map[string]interface{}{}, 0},
	}
	byUsername := func(name string) (upstreamUser, bool) {
		for _, u := range users {
			if u.Username == name {
				return u, true
			}
		}
		return upstreamUser{}, false
	}
	notFound := func(w http.ResponseWriter) {
		http.Error(w, `{"message":"not found"}`, http.StatusNotFound)
	}
	pathID := func(r *http.Request) int {
		id, _ := strconv.Atoi(r.PathValue("id"))
		return id
	}

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username      string `json:"username"`
			Password      string `json:"password"`
			ExpiresInMins int    `json:"expiresInMins"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		u, ok := byUsername(req.Username)
		if !ok || req.Password != req.Username+"pass" || req.ExpiresInMins != 30 {
			http.Error(w, `{"message":"Invalid credentials"}`, http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": u.ID, "username": u.Username, "email": u.Email, "firstName": u.FirstName,
			"lastName": u.LastName, "accessToken": "token-" + u.Username, "refreshToken": "refresh",
		})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer token-")
		u, ok := byUsername(name)
		if !ok || name == "stale" {
			http.Error(w, `{"message":"Invalid/expired Token!"}`, http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(u)
	})

	mux.HandleFunc("POST /users/add", func(w http.ResponseWriter, r *http.Request) {
		var u upstreamUser
		json.NewDecoder(r.Body).Decode(&u)
		u.ID = len(users) + 1
		json.NewEncoder(w).Encode(u)
	})
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		limit := utils.ParseInt(r.URL.Query().Get("limit"), 30)
		skip := utils.ParseInt(r.URL.Query().Get("skip"), 0)
		page := []upstreamUser{}
		for i := skip; i < len(users) && i < skip+limit; i++ {
			page = append(page, users[i])
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"users": page, "total": len(users), "skip": skip, "limit": limit})
	})
	mux.HandleFunc("GET /users/search", func(w http.ResponseWriter, r *http.Request) {
		found := []upstreamUser{}
		for _, u := range users {
			if utils.ContainsFold(u.Username, r.URL.Query().Get("q")) {
				found = append(found, u)
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"users": found, "total": len(found), "skip": 0, "limit": len(found)})
	})
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		if id < 1 || id > len(users) {
			notFound(w)
			return
		}
		json.NewEncoder(w).Encode(users[id-1])
	})

	mux.HandleFunc("GET /carts", func(w http.ResponseWriter, r *http.Request) {
		limit := utils.ParseInt(r.URL.Query().Get("limit"), 30)
		skip := utils.ParseInt(r.URL.Query().Get("skip"), 0)
		page := []upstreamCart{}
		for i := skip; i < len(carts) && i < skip+limit; i++ {
			page = append(page, carts[i])
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"carts": page, "total": len(carts), "skip": skip, "limit": limit})
	})
	mux.HandleFunc("GET /carts/user/{id}", func(w http.ResponseWriter, r *http.Request) {
		found := []upstreamCart{}
		for _, c := range carts {
			if c.UserID == pathID(r) {
				found = append(found, c)
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"carts": found, "total": len(found), "skip": 0, "limit": len(found)})
	})
	mux.HandleFunc("GET /carts/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		if id < 1 || id > len(carts) {
			notFound(w)
			return
		}
		json.NewEncoder(w).Encode(carts[id-1])
	})
	mux.HandleFunc("DELETE /carts/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := pathID(r)
		if id < 1 || id > len(carts) {
			notFound(w)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"id": id, "isDeleted": true})
	})
}

func login(t *testing.T, h http.Handler, username string) string {
	t.Helper()
	token, _ := createSession(t, h)
	body := `{"username": "` + username + `", "password": "` + username + `pass"}`
	rec, _ := do(t, h, http.MethodPost, "/api/v1/session/auth/login", token, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s status = %d body=%s", username, rec.Code, rec.Body.String())
	}
	return token
}

func TestAuthRoutes(t *testing.T) {
	h, _ := newTestRouter(t)

	t.Run("register", func(t *testing.T) {
		rec, _ := do(t, h, http.MethodPost, "/api/v1/auth/register", "", `{"username": "newbie", "password": "secret1"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("missing email status = %d", rec.Code)
		}

		rec, env := do(t, h, http.MethodPost, "/api/v1/auth/register", "",
			`{"username": " newbie ", "password": "secret1", "email": "new@x.dev", "firstName": "New"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
		}
		var u domain.User
		decode(t, env.Data, &u)
		if u.ID != 6 || u.Username != "newbie" {
			t.Fatalf("user = %+v", u)
		}
	})

	token, _ := createSession(t, h)

	cases := []struct {
		name   string
		method string
		target string
		token  string
		body   string
		status int
	}{
		{"login needs a session", http.MethodPost, "/api/v1/session/auth/login", "", `{"username": "emilys", "password": "emilyspass"}`, http.StatusUnauthorized},
		{"bad password", http.MethodPost, "/api/v1/session/auth/login", token, `{"username": "emilys", "password": "nope"}`, http.StatusUnauthorized},
		{"empty credentials", http.MethodPost, "/api/v1/session/auth/login", token, `{"username": " "}`, http.StatusBadRequest},
		{"me before login", http.MethodGet, "/api/v1/session/auth/me", token, "", http.StatusUnauthorized},
		{"login", http.MethodPost, "/api/v1/session/auth/login", token, `{"username": "emilys", "password": "emilyspass"}`, http.StatusOK},
		{"me", http.MethodGet, "/api/v1/session/auth/me", token, "", http.StatusOK},
		{"logout", http.MethodPost, "/api/v1/session/auth/logout", token, "", http.StatusNoContent},
		{"me after logout", http.MethodGet, "/api/v1/session/auth/me", token, "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := do(t, h, tc.method, tc.target, tc.token, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}

	t.Run("rejected remote token signs out", func(t *testing.T) {
		stale := login(t, h, "stale")
		// without a profile the session has no role yet
		if rec, _ := do(t, h, http.MethodGet, "/api/v1/admin/stats", stale, ""); rec.Code != http.StatusForbidden {
			t.Fatalf("stats before refresh status = %d", rec.Code)
		}
		if rec, _ := do(t, h, http.MethodGet, "/api/v1/session/auth/me", stale, ""); rec.Code != http.StatusUnauthorized {
			t.Fatalf("me status = %d", rec.Code)
		}
		if rec, _ := do(t, h, http.MethodGet, "/api/v1/admin/stats", stale, ""); rec.Code != http.StatusUnauthorized {
			t.Fatalf("stats after sign-out status = %d", rec.Code)
		}
	})
}

func TestAdminAccess(t *testing.T) {
	h, _ := newTestRouter(t)
	anonymous, _ := createSession(t, h)
	customer := login(t, h, "michaelw")
	admin := login(t, h, "emilys")

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"no session", "", http.StatusUnauthorized},
		{"not signed in", anonymous, http.StatusUnauthorized},
		{"wrong role", customer, http.StatusForbidden},
		{"admin", admin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := do(t, h, http.MethodGet, "/api/v1/admin/users", tt.token, "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

type pageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

func TestAdminRoutes(t *testing.T) {
	h, _ := newTestRouter(t)
	token := login(t, h, "emilys")

	t.Run("stats", func(t *testing.T) {
		rec, env := do(t, h, http.MethodGet, "/api/v1/admin/stats", token, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
		}
		var stats usecase.DashboardStats
		decode(t, env.Data, &stats)
		if stats.Products != 30 || stats.Carts != 3 || stats.Users != 5 {
			t.Fatalf("stats = %+v", stats)
		}
	})

	t.Run("products page sorted", func(t *testing.T) {
		rec, env := do(t, h, http.MethodGet, "/api/v1/admin/products?page=2&sort=price&order=desc", token, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
		}
		var items []domain.Product
		var meta pageMeta
		decode(t, env.Data, &items)
		decode(t, env.Meta, &meta)
		if len(items) != 2 || items[0].ID != 4 || items[1].ID != 3 {
			t.Fatalf("items = %+v", items)
		}
		if meta.Total != 30 || meta.Page != 2 || meta.TotalPages != 15 {
			t.Fatalf("meta = %+v", meta)
		}
	})

	t.Run("carts by user", func(t *testing.T) {
		rec, env := do(t, h, http.MethodGet, "/api/v1/admin/carts?userId=1", token, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var carts []domain.UserCart
		decode(t, env.Data, &carts)
		if len(carts) != 2 || carts[0].TotalQuantity != 2 || carts[0].TotalProducts != 1 {
			t.Fatalf("carts = %+v", carts)
		}
	})

	t.Run("users search", func(t *testing.T) {
		rec, env := do(t, h, http.MethodGet, "/api/v1/admin/users?q=EMI", token, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var users []domain.User
		decode(t, env.Data, &users)
		if len(users) != 1 || users[0].Username != "emilys" {
			t.Fatalf("users = %+v", users)
		}
	})

	t.Run("update product", func(t *testing.T) {
		rec, env := do(t, h, http.MethodPut, "/api/v1/admin/products/3", token, `{"title": "Renamed", "price": 5}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
		}
		var p domain.Product
		decode(t, env.Data, &p)
		if p.ID != 3 || p.Name != "Renamed" || p.Price != 5 {
			t.Fatalf("product = %+v", p)
		}
	})

	cases := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"bad sort", http.MethodGet, "/api/v1/admin/products?sort=color", "", http.StatusBadRequest},
		{"get product", http.MethodGet, "/api/v1/admin/products/3", "", http.StatusOK},
		{"missing product", http.MethodGet, "/api/v1/admin/products/999", "", http.StatusNotFound},
		{"create product", http.MethodPost, "/api/v1/admin/products", `{"title": "Lamp", "price": 12, "stock": 3, "category": "home"}`, http.StatusCreated},
		{"create without title", http.MethodPost, "/api/v1/admin/products", `{"title": " ", "price": 1}`, http.StatusBadRequest},
		{"update missing", http.MethodPut, "/api/v1/admin/products/999", `{"title": "x"}`, http.StatusNotFound},
		{"delete product", http.MethodDelete, "/api/v1/admin/products/3", "", http.StatusNoContent},
		{"delete missing product", http.MethodDelete, "/api/v1/admin/products/999", "", http.StatusNotFound},
		{"carts page", http.MethodGet, "/api/v1/admin/carts?page=2", "", http.StatusOK},
		{"bad user filter", http.MethodGet, "/api/v1/admin/carts?userId=x", "", http.StatusBadRequest},
		{"get cart", http.MethodGet, "/api/v1/admin/carts/2", "", http.StatusOK},
		{"missing cart", http.MethodGet, "/api/v1/admin/carts/9", "", http.StatusNotFound},
		{"delete cart", http.MethodDelete, "/api/v1/admin/carts/2", "", http.StatusNoContent},
		{"users page", http.MethodGet, "/api/v1/admin/users?page=3", "", http.StatusOK},
		{"get user", http.MethodGet, "/api/v1/admin/users/2", "", http.StatusOK},
		{"missing user", http.MethodGet, "/api/v1/admin/users/99", "", http.StatusNotFound},
		{"bad user id", http.MethodGet, "/api/v1/admin/users/abc", "", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := do(t, h, tc.method, tc.target, token, tc.body)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}
