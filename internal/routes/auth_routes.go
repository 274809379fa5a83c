// internal/routes/auth_routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/gabibigol/pos-venda/internal/handlers"
)

// RegisterAuthRoutes registers the public authentication routes. These do
// not go through the token middleware.
func RegisterAuthRoutes(r *gin.Engine, h *handlers.AuthHandler) {
	r.POST("/login", h.LoginHandler)
	r.POST("/register", h.RegisterHandler)
	r.GET("/logout", h.LogoutHandler)
}
