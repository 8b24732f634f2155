package handlers

import (
	"net/http"

	"warbler/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
)

const (
	sessionName   = "warbler"
	currUserKey   = "curr_user"
	sessionMaxAge = 30 * 24 * 60 * 60
	principalKey  = "principal"

	flashSuccess = "success"
	flashDanger  = "danger"
	flashInfo    = "info"
)

var flashCategories = []string{flashSuccess, flashDanger, flashInfo}

func newCookieStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// session returns the request's session. A cookie that fails to decode
// yields a fresh session.
func (h *Handler) session(c *gin.Context) *sessions.Session {
	sess, err := h.sessions.Get(c.Request, sessionName)
	if err != nil {
		h.log.Debugw("session_decode_failed", "err", err)
	}
	return sess
}

// saveSession writes every session touched during the request.
func (h *Handler) saveSession(c *gin.Context) {
	if err := sessions.Save(c.Request, c.Writer); err != nil {
		h.log.Errorw("session_save_failed", "err", err)
	}
}

func (h *Handler) doLogin(c *gin.Context, u *models.User) {
	h.session(c).Values[currUserKey] = u.ID
	c.Set(principalKey, u)
}

func (h *Handler) doLogout(c *gin.Context) {
	delete(h.session(c).Values, currUserKey)
	c.Set(principalKey, (*models.User)(nil))
}

func (h *Handler) flash(c *gin.Context, category, msg string) {
	h.session(c).AddFlash(msg, category)
}

// takeFlashes drains pending flash messages by category.
func (h *Handler) takeFlashes(c *gin.Context) map[string][]string {
	sess := h.session(c)
	out := map[string][]string{}
	for _, cat := range flashCategories {
		for _, f := range sess.Flashes(cat) {
			if s, ok := f.(string); ok {
				out[cat] = append(out[cat], s)
			}
		}
	}
	return out
}

// currentUser returns the principal resolved for this request, if any.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// redirect persists the session and issues a 302.
func (h *Handler) redirect(c *gin.Context, location string) {
	h.saveSession(c)
	c.Redirect(http.StatusFound, location)
}

// render writes a page document: its name, the principal, drained flashes
// and the page data.
func (h *Handler) render(c *gin.Context, status int, page string, data gin.H) {
	doc := gin.H{
		"page":         page,
		"current_user": currentUser(c),
		"flashes":      h.takeFlashes(c),
	}
	for k, v := range data {
		doc[k] = v
	}
	h.saveSession(c)
	c.JSON(status, doc)
}
