package v1

import (
	"net/http"

	"storefront-catalog/config"
	"storefront-catalog/internal/delivery/http/middleware"
	"storefront-catalog/internal/usecase"
	"storefront-catalog/pkg/utils"
)

// NewRouter registers every API route on a fresh mux.
func NewRouter(cfg *config.Config, catalogUC *usecase.CatalogUsecase, sessionUC *usecase.SessionUsecase, cartUC *usecase.CartUsecase, authUC *usecase.AuthUsecase, adminUC *usecase.AdminUsecase) *http.ServeMux {
	mux := http.NewServeMux()

	catalogHandler := NewCatalogHandler(catalogUC, cfg.PageSize)
	sessionHandler := NewSessionHandler(sessionUC, cfg.LongPollTimeout, cfg.Env == "production")
	cartHandler := NewCartHandler(cartUC)
	authHandler := NewAuthHandler(authUC)
	adminCatalogHandler := NewAdminCatalogHandler(adminUC)
	adminCartHandler := NewAdminCartHandler(adminUC)
	adminUserHandler := NewAdminUserHandler(adminUC)
	adminStatsHandler := NewAdminStatsHandler(adminUC)

	withSession := middleware.NewSessionMiddleware(sessionUC)
	withAdmin := middleware.NewAdminMiddleware(cfg.AdminRoles)
	session := func(h http.HandlerFunc) http.Handler {
		return withSession(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return withSession(withAdmin(h))
	}

	// Catalog (Public)
	mux.HandleFunc("GET /api/v1/categories", catalogHandler.GetCategories)
	mux.HandleFunc("GET /api/v1/products", catalogHandler.ListProducts)
	mux.HandleFunc("GET /api/v1/product/{id}", catalogHandler.GetProductByID)

	// Sessions
	mux.HandleFunc("POST /api/v1/sessions", sessionHandler.CreateSession)
	mux.Handle("DELETE /api/v1/session", session(sessionHandler.EndSession))
	mux.Handle("GET /api/v1/session/catalog", session(sessionHandler.GetCatalog))
	mux.Handle("PUT /api/v1/session/catalog/search", session(sessionHandler.SetSearch))
	mux.Handle("PUT /api/v1/session/catalog/category", session(sessionHandler.SetCategory))
	mux.Handle("PUT /api/v1/session/catalog/sort", session(sessionHandler.SetSort))
	mux.Handle("PUT /api/v1/session/catalog/page", session(sessionHandler.SetPage))

	// Cart (Session)
	mux.Handle("GET /api/v1/session/cart", session(cartHandler.GetCart))
	mux.Handle("POST /api/v1/session/cart", session(cartHandler.AddToCart))
	mux.Handle("PUT /api/v1/session/cart", session(cartHandler.UpdateCart))
	mux.Handle("DELETE /api/v1/session/cart/{productId}", session(cartHandler.RemoveFromCart))
	mux.Handle("DELETE /api/v1/session/cart", session(cartHandler.ClearCart))

	// Auth (remote store accounts)
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.Handle("POST /api/v1/session/auth/login", session(authHandler.Login))
	mux.Handle("GET /api/v1/session/auth/me", session(authHandler.Me))
	mux.Handle("POST /api/v1/session/auth/logout", session(authHandler.Logout))

	// Admin Dashboard (Protected)
	mux.Handle("GET /api/v1/admin/stats", admin(adminStatsHandler.GetStats))

	mux.Handle("GET /api/v1/admin/products", admin(adminCatalogHandler.ListProducts))
	mux.Handle("GET /api/v1/admin/products/{id}", admin(adminCatalogHandler.GetProduct))
	mux.Handle("POST /api/v1/admin/products", admin(adminCatalogHandler.CreateProduct))
	mux.Handle("PUT /api/v1/admin/products/{id}", admin(adminCatalogHandler.UpdateProduct))
	mux.Handle("DELETE /api/v1/admin/products/{id}", admin(adminCatalogHandler.DeleteProduct))

	mux.Handle("GET /api/v1/admin/carts", admin(adminCartHandler.ListCarts))
	mux.Handle("GET /api/v1/admin/carts/{id}", admin(adminCartHandler.GetCart))
	mux.Handle("DELETE /api/v1/admin/carts/{id}", admin(adminCartHandler.DeleteCart))

	mux.Handle("GET /api/v1/admin/users", admin(adminUserHandler.ListUsers))
	mux.Handle("GET /api/v1/admin/users/{id}", admin(adminUserHandler.GetUser))

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"sessions": sessionUC.ActiveSessions(),
		})
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Support root health check for Load Balancers

	return mux
}
