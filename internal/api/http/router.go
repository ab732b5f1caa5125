package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/samueladole/crovio/internal/api/http/handlers"
	"github.com/samueladole/crovio/internal/auth"
	"github.com/samueladole/crovio/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Products       *handlers.ProductsHandler
	Posts          *handlers.PostsHandler
	Comments       *handlers.CommentsHandler
	Dealers        *handlers.DealersHandler
	AuthMiddleware *auth.AuthMiddleware
	Roles          auth.RoleStore
	RateLimiter    *RateLimiter
	Metrics        fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	api := app.Group("/api/v1")
	authenticated := cfg.AuthMiddleware.Handle

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.RateLimiter.Handle, cfg.Auth.Register)
	authGroup.Post("/login", cfg.RateLimiter.Handle, cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.RateLimiter.Handle, cfg.Auth.Refresh)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/me", authenticated, cfg.Auth.Me)

	sellers := auth.RequireRole(cfg.Roles, domain.RoleDealer, domain.RoleFarmer, domain.RoleAdmin)

	products := api.Group("/products")
	products.Get("/", cfg.Products.List)
	products.Get("/:id", cfg.Products.Get)
	products.Post("/", authenticated, sellers, cfg.Products.Create)
	products.Put("/:id", authenticated, cfg.Products.Update)
	products.Delete("/:id", authenticated, cfg.Products.Delete)

	posts := api.Group("/community/posts")
	posts.Get("/", cfg.Posts.List)
	posts.Get("/:id", cfg.Posts.Get)
	posts.Post("/", authenticated, cfg.Posts.Create)
	posts.Put("/:id", authenticated, cfg.Posts.Update)
	posts.Delete("/:id", authenticated, cfg.Posts.Delete)
	posts.Get("/:id/comments", cfg.Comments.List)
	posts.Post("/:id/comments", authenticated, cfg.Comments.Create)
	api.Delete("/community/comments/:id", authenticated, cfg.Comments.Delete)

	api.Get("/dealers", authenticated, auth.RequireRole(cfg.Roles, domain.RoleAdmin), cfg.Dealers.List)
}
