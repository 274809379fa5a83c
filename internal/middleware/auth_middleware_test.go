// internal/middleware/auth_middleware_test.go
package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/gabibigol/pos-venda/internal/audit"
	"github.com/gabibigol/pos-venda/models"
)

func roleContext(t *testing.T, role models.UserRole) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/reports/technicians", nil)
	c.Set("role", role)
	c.Set("user_id", uint(1))
	return c, w
}

func TestRequireRoleAllowsListedRoles(t *testing.T) {
	auth := &Auth{Audit: audit.NewWithWriter(&bytes.Buffer{})}
	handler := auth.RequireRole(models.RoleManager, models.RoleTechnician)

	c, w := roleContext(t, models.RoleTechnician)
	handler(c)
	assert.False(t, c.IsAborted())
	assert.NotEqual(t, http.StatusForbidden, w.Code)

	c, w = roleContext(t, models.RoleManager)
	handler(c)
	assert.False(t, c.IsAborted())
	assert.NotEqual(t, http.StatusForbidden, w.Code)
}

func TestRequireRoleAdminAlwaysPasses(t *testing.T) {
	auth := &Auth{Audit: audit.NewWithWriter(&bytes.Buffer{})}
	handler := auth.RequireRole(models.RoleManager)

	c, _ := roleContext(t, models.RoleAdmin)
	handler(c)
	assert.False(t, c.IsAborted())
}

func TestRequireRoleRejectsUnlistedRole(t *testing.T) {
	var log bytes.Buffer
	auth := &Auth{Audit: audit.NewWithWriter(&log)}
	handler := auth.RequireRole(models.RoleManager)

	c, w := roleContext(t, models.RoleTechnician)
	handler(c)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, log.String(), "ACCESS_DENIED")
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	auth := &Auth{Audit: audit.NewWithWriter(&bytes.Buffer{})}
	handler := auth.RequireRole(models.RoleManager)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/reports/consolidated", nil)

	handler(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
