package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"warbler/internal/monitoring"
	"warbler/internal/service"

	"github.com/gin-gonic/gin"
)

// Credentials payload for sign-in.
type authCredentials struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPrefix + err.Error()})
		return false
	}
	return true
}

// ---- pages ----

func (h *Handler) signupForm(c *gin.Context) {
	h.render(c, http.StatusOK, "users/signup", nil)
}

func (h *Handler) signup(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		h.render(c, http.StatusBadRequest, "users/signup", gin.H{"error": err.Error()})
		return
	}

	u, err := h.services.Register(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			h.flash(c, flashDanger, msgUsernameTaken)
			h.render(c, http.StatusConflict, "users/signup", nil)
		case errors.Is(err, service.ErrValidation):
			h.render(c, http.StatusBadRequest, "users/signup", gin.H{"error": err.Error()})
		default:
			h.pageError(c, "signup_failed", err, "username", in.Username)
		}
		return
	}

	monitoring.RegisterSuccess.Inc()
	h.log.Infow("user_signed_up", "user_id", u.ID, "username", u.Username)
	h.doLogin(c, u)
	h.redirect(c, "/")
}

func (h *Handler) loginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "users/login", nil)
}

func (h *Handler) login(c *gin.Context) {
	var in authCredentials
	if err := c.ShouldBind(&in); err != nil {
		monitoring.LoginFailure.WithLabelValues(monitoring.ReasonValidation).Inc()
		h.render(c, http.StatusBadRequest, "users/login", gin.H{"error": err.Error()})
		return
	}

	u, err := h.services.Authenticate(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		monitoring.LoginFailure.WithLabelValues(monitoring.ReasonInternal).Inc()
		h.pageError(c, "login_failed", err, "username", in.Username)
		return
	}
	if u == nil {
		monitoring.LoginFailure.WithLabelValues(monitoring.ReasonInvalidCredentials).Inc()
		h.log.Infow("login_rejected", "username", in.Username)
		h.flash(c, flashDanger, msgInvalidCredentials)
		h.render(c, http.StatusUnauthorized, "users/login", nil)
		return
	}

	monitoring.LoginSuccess.Inc()
	h.doLogin(c, u)
	h.flash(c, flashSuccess, fmt.Sprintf("Hello, %s!", u.Username))
	h.redirect(c, "/")
}

func (h *Handler) logout(c *gin.Context) {
	h.doLogout(c)
	h.flash(c, flashSuccess, msgLoggedOut)
	h.redirect(c, "/login")
}

// pageError renders an error page; internal failures are logged.
func (h *Handler) pageError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	h.render(c, status, "error", gin.H{"error": publicMessage(err)})
}

// ---- API ----

// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      service.RegisterInput  true  "New account"
// @Success      200   {object}  map[string]int
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/auth/sign-up [post]
func (h *Handler) apiSignUp(c *gin.Context) {
	var in service.RegisterInput
	if ok := h.bindJSONOrBadRequest(c, &in); !ok {
		return
	}

	u, err := h.services.Register(c.Request.Context(), in)
	if err != nil {
		h.log.Infow("auth_sign_up_failed", "username", in.Username, "err", err)
		h.jsonError(c, "auth_sign_up_failed", err)
		return
	}

	monitoring.RegisterSuccess.Inc()
	c.JSON(http.StatusOK, gin.H{"id": u.ID})
}

// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      authCredentials  true  "Credentials"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/auth/sign-in [post]
func (h *Handler) apiSignIn(c *gin.Context) {
	var in authCredentials
	if ok := h.bindJSONOrBadRequest(c, &in); !ok {
		return
	}

	token, err := h.services.GenerateToken(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			monitoring.LoginFailure.WithLabelValues(monitoring.ReasonInvalidCredentials).Inc()
			h.log.Infow("auth_sign_in_failed", "username", in.Username)
			c.JSON(http.StatusUnauthorized, gin.H{"error": errInvalidCredentials})
			return
		}
		monitoring.LoginFailure.WithLabelValues(monitoring.ReasonInternal).Inc()
		h.jsonError(c, "auth_sign_in_failed", err, "username", in.Username)
		return
	}

	monitoring.LoginSuccess.Inc()
	c.JSON(http.StatusOK, gin.H{"token": token})
}
