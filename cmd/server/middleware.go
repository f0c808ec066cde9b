package main

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"libmanager/pkg/apperr"
)

const dbDateFormat = "2006-01-02"

// authRequired validates the bearer token and stores the caller identity
// in the request context.
func authRequired(c *gin.Context) {
	tok := bearerToken(c)
	if tok == "" || !tokens.IsValid(tok) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "INVALID_TOKEN"})
		return
	}
	c.Set("username", tokens.ExtractUsername(tok))
	c.Set("admin", tokens.IsAdmin(tok))
	c.Next()
}

// adminRequired must be stacked after authRequired.
func adminRequired(c *gin.Context) {
	if !c.GetBool("admin") {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": "INSUFFICIENT_PERMISSIONS"})
		return
	}
	c.Next()
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// writeError maps business errors to their status and code; anything
// outside the taxonomy is an infrastructure failure and must not leak.
func writeError(c *gin.Context, err error) {
	code := apperr.Code(err)
	if code == "" {
		log.Printf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(statusFor(err), gin.H{"code": code, "error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrForbidden), errors.Is(err, apperr.ErrInsufficientPermissions):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrUnauthorized), errors.Is(err, apperr.ErrInvalidPassword):
		return http.StatusUnauthorized
	default:
		// Ceiling and eligibility rejections are state conflicts.
		return http.StatusConflict
	}
}

// queryString returns a pointer to the query value, or nil if absent.
func queryString(c *gin.Context, key string) *string {
	if value, ok := c.GetQuery(key); ok && value != "" {
		return &value
	}
	return nil
}

// queryDate parses an optional yyyy-mm-dd query value.
func queryDate(c *gin.Context, key string) (*time.Time, error) {
	value, ok := c.GetQuery(key)
	if !ok || value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dbDateFormat, value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
