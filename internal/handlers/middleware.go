package handlers

import (
	"net/http"
	"strings"
	"time"

	"warbler/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// requestID propagates the caller's X-Request-ID or assigns a new one.
func (h *Handler) requestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" || len(id) > 128 {
		id = uuid.NewString()
	}
	c.Set(requestIDKey, id)
	c.Header(requestIDHeader, id)
	c.Next()
}

func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()

	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"duration", time.Since(start),
		"request_id", c.GetString(requestIDKey),
	}
	if u := currentUser(c); u != nil {
		fields = append(fields, "user_id", u.ID)
	}
	if len(c.Errors) > 0 {
		fields = append(fields, "errors", c.Errors.String())
	}
	h.log.Infow("http_request", fields...)
}

// sessionPrincipal re-reads the logged-in user on every request. Ids that
// no longer resolve are dropped from the session.
func (h *Handler) sessionPrincipal(c *gin.Context) {
	sess := h.session(c)
	id, ok := sess.Values[currUserKey].(int)
	if !ok {
		c.Next()
		return
	}

	u, err := h.services.GetUser(c.Request.Context(), id)
	if err != nil {
		h.log.Errorw("principal_lookup_failed", "user_id", id, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errInternal})
		return
	}
	if u == nil {
		delete(sess.Values, currUserKey)
	} else {
		c.Set(principalKey, u)
	}
	c.Next()
}

// requireLogin flashes msg and redirects to location when nobody is logged in.
func (h *Handler) requireLogin(msg, location string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) != nil {
			c.Next()
			return
		}
		h.flash(c, flashDanger, msg)
		h.redirect(c, location)
		c.Abort()
	}
}

// bearerPrincipal authenticates /api/v1 calls with a JWT bearer token.
func (h *Handler) bearerPrincipal(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	userID, err := h.services.ParseToken(parts[1])
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	u, err := h.services.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.log.Errorw("principal_lookup_failed", "user_id", userID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errInternal})
		return
	}
	if u == nil {
		// token outlived its account
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set(principalKey, u)
	c.Next()
}

// mustPrincipal is for handlers behind requireLogin or bearerPrincipal.
func mustPrincipal(c *gin.Context) *models.User {
	u := currentUser(c)
	if u == nil {
		panic("handlers: principal missing behind auth middleware")
	}
	return u
}
