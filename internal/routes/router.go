// internal/routes/router.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/gabibigol/pos-venda/internal/handlers"
	"github.com/gabibigol/pos-venda/internal/middleware"
)

// Deps are the wired handlers and middleware the router needs.
type Deps struct {
	Auth      *middleware.Auth
	AuthAPI   *handlers.AuthHandler
	Financial *handlers.FinancialHandler
	Reports   *handlers.ReportHandler
}

// SetupRoutes registers every route of the application.
func SetupRoutes(r *gin.Engine, d Deps) {
	// Public routes first: login, registration, logout.
	RegisterAuthRoutes(r, d.AuthAPI)

	// Everything else requires a valid token.
	authRequired := r.Group("/")
	authRequired.Use(d.Auth.Middleware())
	{
		RegisterAPIRoutes(authRequired, d)
	}
}
