package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"warbler/internal/monitoring"
	"warbler/internal/service"

	"github.com/gin-gonic/gin"
)

type messageForm struct {
	Text string `json:"text" form:"text"`
}

func (h *Handler) newMessageForm(c *gin.Context) {
	h.render(c, http.StatusOK, "messages/new", nil)
}

func (h *Handler) createMessage(c *gin.Context) {
	me := mustPrincipal(c)

	var in messageForm
	if err := c.ShouldBind(&in); err != nil {
		h.render(c, http.StatusBadRequest, "messages/new", gin.H{"error": err.Error()})
		return
	}

	m, err := h.services.PostMessage(c.Request.Context(), me.ID, in.Text)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			h.render(c, http.StatusBadRequest, "messages/new", gin.H{"error": err.Error(), "text": in.Text})
			return
		}
		h.pageError(c, "message_post_failed", err, "user_id", me.ID)
		return
	}

	monitoring.MessagesPosted.Inc()
	h.log.Debugw("message_posted", "message_id", m.ID, "user_id", me.ID)
	h.redirect(c, fmt.Sprintf("/users/%d", me.ID))
}

func (h *Handler) showMessage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	m, err := h.services.GetMessage(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrMessageNotFound) {
			h.render(c, http.StatusNotFound, "error", gin.H{"error": msgMessageNotFound})
			return
		}
		h.pageError(c, "message_lookup_failed", err, "message_id", id)
		return
	}
	h.render(c, http.StatusOK, "messages/show", gin.H{"message": m})
}

func (h *Handler) deleteMessage(c *gin.Context) {
	me := mustPrincipal(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.services.DeleteMessage(c.Request.Context(), me.ID, id); err != nil {
		switch {
		case errors.Is(err, service.ErrForbidden):
			h.log.Infow("message_delete_forbidden", "message_id", id, "user_id", me.ID)
			h.flash(c, flashDanger, msgAccessUnauthorized)
			h.redirect(c, "/")
		case errors.Is(err, service.ErrMessageNotFound):
			h.render(c, http.StatusNotFound, "error", gin.H{"error": msgMessageNotFound})
		default:
			h.pageError(c, "message_delete_failed", err, "message_id", id)
		}
		return
	}
	h.redirect(c, fmt.Sprintf("/users/%d", me.ID))
}
