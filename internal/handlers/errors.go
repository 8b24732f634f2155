package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"warbler/internal/service"

	"github.com/gin-gonic/gin"
)

// User-facing texts.
const (
	msgAccessUnauthorized = "Access unauthorized."
	msgLoginToEditProfile = "You must be logged in to edit a profile"
	msgUsernameTaken      = "Username already taken"
	msgInvalidCredentials = "Invalid credentials."
	msgIncorrectPassword  = "Incorrect password"
	msgLoggedOut          = "You have now been logged out"
	msgCannotFollowSelf   = "You cannot follow yourself."
	msgAccountDeleted     = "Your account has been deleted."
	msgUserNotFound       = "User not found."
	msgMessageNotFound    = "Message not found."
)

// API error texts.
const (
	errInternal           = "internal server error"
	errInvalidID          = "invalid id"
	errInvalidBodyPrefix  = "invalid body: "
	errInvalidCredentials = "invalid credentials"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrCannotFollowSelf):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrIncorrectPassword),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUserExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides internal errors from clients.
func publicMessage(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return errInternal
	}
	return err.Error()
}

// Centralized error logging and response.
func (h *Handler) jsonError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(status, gin.H{"error": publicMessage(err)})
}

// idParam parses the :id path parameter; false means a 404 was written.
func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": errInvalidID})
		return 0, false
	}
	return id, true
}
