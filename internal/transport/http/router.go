package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/puissance4/internal/transport/http/middleware"
	"github.com/iamasit07/puissance4/pkg/auth"
)

type RouterDeps struct {
	Games          *GameHandler
	Watch          *WatchHandler
	History        *HistoryHandler
	Engine         *EngineHandler
	WebSocket      gin.HandlerFunc
	Signer         *auth.SeatSigner
	AllowedOrigins []string
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(d.AllowedOrigins))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/games", d.Games.Create)
		api.GET("/games/:id", d.Games.Get)

		seat := middleware.SeatAuth(d.Signer)
		api.POST("/games/:id/moves", seat, d.Games.Move)
		api.POST("/games/:id/abandon", seat, d.Games.Abandon)

		api.GET("/watch", d.Watch.GetLiveGames)

		api.GET("/history", d.History.GetHistory)
		api.GET("/history/log", d.History.GetLog)

		api.POST("/engine/move", d.Engine.BestMove)
	}

	if d.WebSocket != nil {
		router.GET("/ws", d.WebSocket)
	}
	return router
}
