// internal/handlers/handler_utils.go
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gabibigol/pos-venda/internal/apperr"
)

const dateLayout = "2006-01-02"

// parseDateQuery reads an optional date query parameter. A malformed value
// aborts the request with a 400.
func parseDateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error": "Data inválida em '" + name + "', use o formato AAAA-MM-DD",
		})
		return time.Time{}, false
	}
	return t, true
}

// endOfDay pushes an end date to 23:59:59.999 so the window stays inclusive.
func endOfDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999_000_000, t.Location())
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return page, limit
}

// respondError maps a domain error to its HTTP response. Server-side
// failures keep the wrapped cause in the log but never in the response body.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("Falha ao atender requisição", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": apperr.PublicMessage(err)})
}
