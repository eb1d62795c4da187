package handlers

import (
	"likes_service/internal/logger"
	"likes_service/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	h.registerAccountRoutes(router)
	h.registerUserRoutes(router)

	// Leaderboard push over WebSocket, same port
	router.GET("/ws/most-liked", h.wsMostLiked)

	return router
}

func (h *Handler) registerAccountRoutes(r *gin.Engine) {
	r.POST("/signup", h.signUp)
	r.POST("/signin", h.signIn)

	me := r.Group("/me", h.authMiddleware)
	{
		me.GET("", h.me)
		me.PUT("/update-password", h.updatePassword)
		me.GET("/activity", h.getActivity)
	}
}

func (h *Handler) registerUserRoutes(r *gin.Engine) {
	r.GET("/most-liked", h.mostLiked)

	user := r.Group("/user/:id")
	{
		user.GET("", h.fetchUser)
		user.PUT("/like", h.authMiddleware, h.likeUser)
		user.PUT("/unlike", h.authMiddleware, h.unlikeUser)
	}
}
