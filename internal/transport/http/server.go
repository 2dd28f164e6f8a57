package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/peerwave/peerwave-server/internal/auth"
	"github.com/peerwave/peerwave-server/internal/config"
	"github.com/peerwave/peerwave-server/internal/core"
	"github.com/peerwave/peerwave-server/internal/store"
)

// NewServer builds the HTTP server: auth and read-side REST routes plus
// the realtime WebSocket endpoint.
func NewServer(hub *core.Hub, authService *auth.Service, st store.Store, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(hub, authService, st, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

// NewRouter assembles the gin engine with all routes.
func NewRouter(hub *core.Hub, authService *auth.Service, st store.Store, logger *zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	api := NewAPIHandlers(authService, logger)
	router.POST("/api/register", api.Register)
	router.POST("/api/login", api.Login)

	authorized := router.Group("/api", AuthMiddleware(authService, logger))
	{
		messages := NewMessageHandlers(hub.Relay(), logger)
		authorized.GET("/messages/:peerId", messages.History)
		authorized.GET("/messages/:peerId/latest", messages.Latest)
		authorized.GET("/messages/:peerId/unseen", messages.UnseenCount)
		authorized.POST("/messages/:peerId/seen", messages.MarkSeen)

		notifications := NewNotificationHandlers(st, logger)
		authorized.GET("/notifications", notifications.List)
		authorized.POST("/notifications/:id/read", notifications.MarkRead)
	}

	ws := NewWSHandler(hub, authService, logger)
	router.GET("/ws", gin.WrapH(ws))

	return router
}
