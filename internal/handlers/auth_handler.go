// internal/handlers/auth_handler.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gabibigol/pos-venda/internal/audit"
	"github.com/gabibigol/pos-venda/models"
)

const tokenTTL = 24 * time.Hour

// AuthHandler serves login, registration and logout.
type AuthHandler struct {
	db     *gorm.DB
	jwtKey []byte
	audit  *audit.Logger
}

func NewAuthHandler(db *gorm.DB, jwtKey []byte, auditLog *audit.Logger) *AuthHandler {
	return &AuthHandler{db: db, jwtKey: jwtKey, audit: auditLog}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler checks the credentials and issues a 24h JWT, also set as an
// httpOnly cookie.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email e senha são obrigatórios"})
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.audit.AccessDenied(c.FullPath(), c.Request.Method, "Credenciais inválidas", 0)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciais inválidas"})
			return
		}
		respondError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.audit.AccessDenied(c.FullPath(), c.Request.Method, "Credenciais inválidas", user.ID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Credenciais inválidas"})
		return
	}

	if user.Status != models.UserActive {
		h.audit.AccessDenied(c.FullPath(), c.Request.Method, "Conta de usuário inativa", user.ID)
		c.JSON(http.StatusForbidden, gin.H{"error": "Conta de usuário inativa"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	})
	signed, err := token.SignedString(h.jwtKey)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie("auth_token", signed, int(tokenTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token": signed,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

// RegisterHandler creates a new user account. Role defaults to TECHNICIAN.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados de registro inválidos"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}

	role := models.UserRole(req.Role)
	if role == "" {
		role = models.RoleTechnician
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         role,
		Status:       models.UserActive,
	}
	if err := h.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Não foi possível criar o usuário"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
	})
}

// LogoutHandler clears the auth cookie.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Sessão encerrada"})
}
