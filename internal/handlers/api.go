package handlers

import (
	"net/http"
	"strconv"

	"warbler/internal/monitoring"

	"github.com/gin-gonic/gin"
)

// Request DTO for posting a message.
type createMessageRequest struct {
	// Message text, at most 140 characters
	Text string `json:"text" binding:"required" example:"Hello, Warbler!"`
}

// relationship is the follow state between the caller and another user.
type relationship struct {
	Following  bool `json:"following"`
	FollowedBy bool `json:"followed_by"`
}

// limitQuery reads ?limit= within (0, h.limit]; anything else yields h.limit.
func (h *Handler) limitQuery(c *gin.Context) int {
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 && v <= h.limit {
			return v
		}
	}
	return h.limit
}

// @Summary      Home timeline
// @Tags         messages
// @Produce      json
// @Param        limit  query     int  false  "Max messages"
// @Success      200    {object}  map[string]interface{}
// @Failure      401    {object}  map[string]string
// @Router       /api/v1/timeline [get]
// @Security     BearerAuth
func (h *Handler) apiTimeline(c *gin.Context) {
	me := mustPrincipal(c)
	msgs, err := h.services.HomeTimeline(c.Request.Context(), me.ID, h.limitQuery(c))
	if err != nil {
		h.jsonError(c, "timeline_failed", err, "user_id", me.ID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// @Summary      Post message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        body  body      createMessageRequest  true  "Message"
// @Success      201   {object}  models.Message
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/v1/messages [post]
// @Security     BearerAuth
func (h *Handler) apiCreateMessage(c *gin.Context) {
	me := mustPrincipal(c)

	var req createMessageRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	m, err := h.services.PostMessage(c.Request.Context(), me.ID, req.Text)
	if err != nil {
		h.jsonError(c, "message_post_failed", err, "user_id", me.ID)
		return
	}

	monitoring.MessagesPosted.Inc()
	c.JSON(http.StatusCreated, m)
}

// @Summary      Delete message
// @Tags         messages
// @Param        id   path  int  true  "Message ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/messages/{id} [delete]
// @Security     BearerAuth
func (h *Handler) apiDeleteMessage(c *gin.Context) {
	me := mustPrincipal(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.services.DeleteMessage(c.Request.Context(), me.ID, id); err != nil {
		h.jsonError(c, "message_delete_failed", err, "message_id", id)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Follow user
// @Tags         follows
// @Param        id   path  int  true  "User ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/follows/{id} [post]
// @Security     BearerAuth
func (h *Handler) apiFollow(c *gin.Context) {
	me := mustPrincipal(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.services.Follow(c.Request.Context(), me.ID, id); err != nil {
		h.jsonError(c, "follow_failed", err, "follower_id", me.ID, "followed_id", id)
		return
	}
	monitoring.FollowsCreated.Inc()
	c.Status(http.StatusNoContent)
}

// @Summary      Unfollow user
// @Tags         follows
// @Param        id   path  int  true  "User ID"
// @Success      204
// @Router       /api/v1/follows/{id} [delete]
// @Security     BearerAuth
func (h *Handler) apiUnfollow(c *gin.Context) {
	me := mustPrincipal(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.services.Unfollow(c.Request.Context(), me.ID, id); err != nil {
		h.jsonError(c, "unfollow_failed", err, "follower_id", me.ID, "followed_id", id)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Relationship with a user
// @Tags         follows
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  relationship
// @Router       /api/v1/users/{id}/relationship [get]
// @Security     BearerAuth
func (h *Handler) apiRelationship(c *gin.Context) {
	me := mustPrincipal(c)
	id, ok := idParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	following, err := h.services.IsFollowing(ctx, me.ID, id)
	if err != nil {
		h.jsonError(c, "relationship_failed", err, "user_id", id)
		return
	}
	followedBy, err := h.services.IsFollowedBy(ctx, me.ID, id)
	if err != nil {
		h.jsonError(c, "relationship_failed", err, "user_id", id)
		return
	}
	c.JSON(http.StatusOK, relationship{Following: following, FollowedBy: followedBy})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
