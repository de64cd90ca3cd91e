package handler

import (
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-portal-api/internal/middleware"
	"github.com/noah-isme/admissions-portal-api/internal/models"
	"github.com/noah-isme/admissions-portal-api/internal/service"
	appErrors "github.com/noah-isme/admissions-portal-api/pkg/errors"
	"github.com/noah-isme/admissions-portal-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

// bindJSON decodes the body or writes a validation error and reports false.
func bindJSON(c *gin.Context, dest interface{}, message string) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// queryDate parses RFC3339 or YYYY-MM-DD query values.
func queryDate(c *gin.Context, key string) (*time.Time, error) {
	t, err := service.ParseDateParam(c.Query(key))
	if err != nil {
		return nil, appErrors.Validation("invalid "+key, []string{key})
	}
	return t, nil
}

func pathInt(c *gin.Context, key string) (int, bool) {
	v, err := strconv.Atoi(c.Param(key))
	if err != nil || v < 1 {
		response.Error(c, appErrors.Validation("invalid "+key, []string{key}))
		return 0, false
	}
	return v, true
}

func sendAttachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", attachmentDisposition(filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, data)
}

// attachmentDisposition quotes or RFC 2231-encodes the filename as needed.
func attachmentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}
