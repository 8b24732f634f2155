package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"warbler/internal/models"
	"warbler/internal/monitoring"
	"warbler/internal/service"

	"github.com/gin-gonic/gin"
)

// homepage shows the timeline of the logged-in user, or the anonymous landing page.
func (h *Handler) homepage(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		h.render(c, http.StatusOK, "home-anon", nil)
		return
	}

	msgs, err := h.services.HomeTimeline(c.Request.Context(), u.ID, h.limit)
	if err != nil {
		h.pageError(c, "timeline_failed", err, "user_id", u.ID)
		return
	}
	h.render(c, http.StatusOK, "home", gin.H{"messages": msgs})
}

func (h *Handler) listUsers(c *gin.Context) {
	q := c.Query("q")
	users, err := h.services.SearchUsers(c.Request.Context(), q)
	if err != nil {
		h.pageError(c, "user_search_failed", err, "q", q)
		return
	}
	h.render(c, http.StatusOK, "users/index", gin.H{"users": users, "q": q})
}

func (h *Handler) showUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	profile, err := h.services.Profile(ctx, id, h.limit)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.render(c, http.StatusNotFound, "error", gin.H{"error": msgUserNotFound})
			return
		}
		h.pageError(c, "profile_failed", err, "user_id", id)
		return
	}

	data := gin.H{"profile": profile}
	if me := currentUser(c); me != nil && me.ID != id {
		following, err := h.services.IsFollowing(ctx, me.ID, id)
		if err != nil {
			h.pageError(c, "relationship_failed", err, "user_id", id)
			return
		}
		data["is_following"] = following
	}
	h.render(c, http.StatusOK, "users/show", data)
}

func (h *Handler) showFollowing(c *gin.Context) {
	h.showFollowList(c, "users/following", h.services.Following)
}

func (h *Handler) showFollowers(c *gin.Context) {
	h.showFollowList(c, "users/followers", h.services.Followers)
}

func (h *Handler) showFollowList(c *gin.Context, page string, list func(context.Context, int) ([]models.User, error)) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	u, err := h.services.GetUser(ctx, id)
	if err != nil {
		h.pageError(c, "user_lookup_failed", err, "user_id", id)
		return
	}
	if u == nil {
		h.render(c, http.StatusNotFound, "error", gin.H{"error": msgUserNotFound})
		return
	}

	users, err := list(ctx, id)
	if err != nil {
		h.pageError(c, "follow_list_failed", err, "user_id", id)
		return
	}
	h.render(c, http.StatusOK, page, gin.H{"user": u, "users": users})
}

func (h *Handler) follow(c *gin.Context) {
	me := mustPrincipal(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.services.Follow(c.Request.Context(), me.ID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrCannotFollowSelf):
			h.flash(c, flashDanger, msgCannotFollowSelf)
			h.redirect(c, fmt.Sprintf("/users/%d", me.ID))
		case errors.Is(err, service.ErrUserNotFound):
			h.render(c, http.StatusNotFound, "error", gin.H{"error": msgUserNotFound})
		default:
			h.pageError(c, "follow_failed", err, "follower_id", me.ID, "followed_id", id)
		}
		return
	}

	monitoring.FollowsCreated.Inc()
	h.redirect(c, fmt.Sprintf("/users/%d/following", me.ID))
}

func (h *Handler) stopFollowing(c *gin.Context) {
	me := mustPrincipal(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.services.Unfollow(c.Request.Context(), me.ID, id); err != nil {
		h.pageError(c, "unfollow_failed", err, "follower_id", me.ID, "followed_id", id)
		return
	}
	h.redirect(c, fmt.Sprintf("/users/%d/following", me.ID))
}

func (h *Handler) profileForm(c *gin.Context) {
	h.render(c, http.StatusOK, "users/edit", editDoc(mustPrincipal(c), nil))
}

// editDoc is the owner-only edit page; it is the one page carrying the email.
func editDoc(me *models.User, err error) gin.H {
	doc := gin.H{"user": me, "email": me.Email}
	if err != nil {
		doc["error"] = err.Error()
	}
	return doc
}

func (h *Handler) updateProfile(c *gin.Context) {
	me := mustPrincipal(c)

	var in service.ProfileInput
	if err := c.ShouldBind(&in); err != nil {
		h.render(c, http.StatusBadRequest, "users/edit", editDoc(me, err))
		return
	}

	u, err := h.services.UpdateProfile(c.Request.Context(), me.ID, in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIncorrectPassword):
			h.flash(c, flashDanger, msgIncorrectPassword)
			h.render(c, http.StatusOK, "users/edit", editDoc(me, nil))
		case errors.Is(err, service.ErrUserExists):
			h.flash(c, flashDanger, msgUsernameTaken)
			h.render(c, http.StatusConflict, "users/edit", editDoc(me, nil))
		case errors.Is(err, service.ErrValidation):
			h.render(c, http.StatusBadRequest, "users/edit", editDoc(me, err))
		default:
			h.pageError(c, "profile_update_failed", err, "user_id", me.ID)
		}
		return
	}

	h.redirect(c, fmt.Sprintf("/users/%d", u.ID))
}

func (h *Handler) deleteUser(c *gin.Context) {
	me := mustPrincipal(c)

	if err := h.services.DeleteAccount(c.Request.Context(), me.ID); err != nil {
		h.pageError(c, "account_delete_failed", err, "user_id", me.ID)
		return
	}

	h.log.Infow("user_deleted", "user_id", me.ID)
	h.doLogout(c)
	h.flash(c, flashInfo, msgAccountDeleted)
	h.redirect(c, "/signup")
}
