package handlers

import (
	"warbler/internal/logger"
	"warbler/internal/monitoring"
	"warbler/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const defaultTimelineLimit = 100

// Options configures sessions and list sizes.
type Options struct {
	SessionSecret string
	SecureCookies bool
	TimelineLimit int
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	sessions *sessions.CookieStore
	log      *logger.Logger
	limit    int
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	limit := opts.TimelineLimit
	if limit <= 0 {
		limit = defaultTimelineLimit
	}
	return &Handler{
		services: services,
		sessions: newCookieStore(opts.SessionSecret, opts.SecureCookies),
		log:      log,
		limit:    limit,
	}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestID, h.requestLogger, monitoring.Instrument())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	router.GET("/metrics", monitoring.Handler())

	// Session-backed pages
	pages := router.Group("/", h.sessionPrincipal)
	{
		pages.GET("/", h.homepage)
		h.registerAuthPages(pages)
		h.registerUserPages(pages)
		h.registerMessagePages(pages)
		pages.GET("/ws/timeline", h.requireLogin(msgAccessUnauthorized, "/"), h.wsTimeline)
	}

	// Token-backed JSON API
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerAuthPages(r *gin.RouterGroup) {
	r.GET("/signup", h.signupForm)
	r.POST("/signup", h.signup)
	r.GET("/login", h.loginForm)
	r.POST("/login", h.login)
	r.GET("/logout", h.logout)
}

func (h *Handler) registerUserPages(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("", h.listUsers)
		users.GET("/:id", h.showUser)

		authed := users.Group("", h.requireLogin(msgAccessUnauthorized, "/"))
		authed.GET("/:id/following", h.showFollowing)
		authed.GET("/:id/followers", h.showFollowers)
		authed.POST("/follow/:id", h.follow)
		authed.POST("/stop-following/:id", h.stopFollowing)
		authed.POST("/delete", h.deleteUser)

		profile := users.Group("/profile", h.requireLogin(msgLoginToEditProfile, "/login"))
		profile.GET("", h.profileForm)
		profile.POST("", h.updateProfile)
	}
}

func (h *Handler) registerMessagePages(r *gin.RouterGroup) {
	messages := r.Group("/messages")
	{
		messages.GET("/:id", h.showMessage)

		authed := messages.Group("", h.requireLogin(msgAccessUnauthorized, "/"))
		authed.GET("/new", h.newMessageForm)
		authed.POST("/new", h.createMessage)
		authed.POST("/:id/delete", h.deleteMessage)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	auth := api.Group("/auth")
	{
		auth.POST("/sign-up", h.apiSignUp)
		auth.POST("/sign-in", h.apiSignIn)
	}

	protected := api.Group("", h.bearerPrincipal)
	{
		protected.GET("/timeline", h.apiTimeline)
		protected.POST("/messages", h.apiCreateMessage)
		protected.DELETE("/messages/:id", h.apiDeleteMessage)
		protected.POST("/follows/:id", h.apiFollow)
		protected.DELETE("/follows/:id", h.apiUnfollow)
		protected.GET("/users/:id/relationship", h.apiRelationship)
	}
}
