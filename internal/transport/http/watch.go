package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/iamasit07/puissance4/internal/service/game"
)

type WatchHandler struct {
	Manager *game.Manager
}

func NewWatchHandler(m *game.Manager) *WatchHandler {
	return &WatchHandler{Manager: m}
}

type liveGameResponse struct {
	GameID    string    `json:"gameId"`
	Mode      game.Mode `json:"mode"`
	Player1   string    `json:"player1"`
	Player2   string    `json:"player2"`
	MoveCount int       `json:"moveCount"`
	StartedAt time.Time `json:"startedAt"`
}

// GetLiveGames returns all active games available for spectating
func (h *WatchHandler) GetLiveGames(c *gin.Context) {
	response := lo.Map(h.Manager.ActiveGames(), func(g game.Snapshot, _ int) liveGameResponse {
		return liveGameResponse{
			GameID:    g.GameID,
			Mode:      g.Mode,
			Player1:   g.Player1,
			Player2:   g.Player2,
			MoveCount: g.MoveCount,
			StartedAt: g.CreatedAt,
		}
	})
	c.JSON(http.StatusOK, response)
}
