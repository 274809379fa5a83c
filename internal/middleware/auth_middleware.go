// internal/middleware/auth_middleware.go
package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/gabibigol/pos-venda/internal/audit"
	"github.com/gabibigol/pos-venda/models"
)

const userCacheTTL = 10 * time.Minute

// CachedUserData is the user payload kept in the auth cache.
type CachedUserData struct {
	UserID uint            `json:"user_id"`
	Email  string          `json:"email"`
	Name   string          `json:"name"`
	Role   models.UserRole `json:"role"`
}

// Auth bundles the dependencies of the authentication middleware.
type Auth struct {
	DB     *gorm.DB
	RDB    *redis.Client // nil disables caching
	JWTKey []byte
	Audit  *audit.Logger
}

func NewAuth(db *gorm.DB, rdb *redis.Client, jwtKey []byte, auditLog *audit.Logger) *Auth {
	return &Auth{DB: db, RDB: rdb, JWTKey: jwtKey, Audit: auditLog}
}

// Middleware validates the JWT (cookie or Bearer header), resolves the user
// through the Redis cache with a database fallback and rejects inactive
// accounts. Every denial is audited.
func (a *Auth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("auth_token")
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				a.deny(c, http.StatusUnauthorized, "Token de autenticação não fornecido", 0)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				a.deny(c, http.StatusUnauthorized, "Formato do cabeçalho Authorization inválido", 0)
				return
			}
			tokenStr = parts[1]
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return a.JWTKey, nil
		})
		if err != nil || !token.Valid {
			c.SetCookie("auth_token", "", -1, "/", "", false, true)
			a.deny(c, http.StatusUnauthorized, "Token inválido ou expirado", 0)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			a.deny(c, http.StatusUnauthorized, "Claims do token inválidas", 0)
			return
		}
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			a.deny(c, http.StatusUnauthorized, "ID de usuário inválido no token", 0)
			return
		}
		userID := uint(userIDFloat)

		cacheKey := fmt.Sprintf("user:%d:data", userID)
		if a.RDB != nil {
			cached, err := a.RDB.Get(c.Request.Context(), cacheKey).Result()
			if err == nil {
				var userData CachedUserData
				if json.Unmarshal([]byte(cached), &userData) == nil {
					setContextAndProceed(c, &userData)
					return
				}
				slog.Warn("Falha ao decodificar usuário do cache", "user_id", userID)
			} else if err != redis.Nil {
				slog.Error("Falha no GET do Redis", "error", err, "user_id", userID)
			}
		}

		var dbUser models.User
		if err := a.DB.First(&dbUser, userID).Error; err != nil {
			c.SetCookie("auth_token", "", -1, "/", "", false, true)
			a.deny(c, http.StatusUnauthorized, "Usuário não encontrado", userID)
			return
		}
		if dbUser.Status != models.UserActive {
			a.deny(c, http.StatusForbidden, "Conta de usuário inativa", userID)
			return
		}

		userData := CachedUserData{
			UserID: dbUser.ID,
			Email:  dbUser.Email,
			Name:   dbUser.Name,
			Role:   dbUser.Role,
		}

		if a.RDB != nil {
			if jsonData, err := json.Marshal(userData); err == nil {
				if err := a.RDB.Set(c.Request.Context(), cacheKey, jsonData, userCacheTTL).Err(); err != nil {
					slog.Error("Falha ao gravar usuário no cache", "error", err, "user_id", userID)
				}
			}
		}

		setContextAndProceed(c, &userData)
	}
}

// RequireRole only lets the listed roles through. ADMIN always passes.
func (a *Auth) RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if exists {
			userRole, ok := role.(models.UserRole)
			if ok {
				if userRole == models.RoleAdmin {
					c.Next()
					return
				}
				for _, allowed := range roles {
					if userRole == allowed {
						c.Next()
						return
					}
				}
			}
		}

		a.deny(c, http.StatusForbidden, "Você não tem permissão para acessar este recurso", c.GetUint("user_id"))
	}
}

func (a *Auth) deny(c *gin.Context, status int, reason string, userID uint) {
	if a.Audit != nil {
		a.Audit.AccessDenied(c.FullPath(), c.Request.Method, reason, userID)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": reason})
}

func setContextAndProceed(c *gin.Context, userData *CachedUserData) {
	c.Set("user_id", userData.UserID)
	c.Set("email", userData.Email)
	c.Set("userName", userData.Name)
	c.Set("role", userData.Role)
	c.Next()
}
