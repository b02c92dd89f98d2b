package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/puissance4/internal/domain"
	"github.com/iamasit07/puissance4/internal/service/bot"
)

// engine searches are exponential in depth
const maxEngineDepth = 8

type EngineHandler struct{}

func NewEngineHandler() *EngineHandler {
	return &EngineHandler{}
}

type engineMoveRequest struct {
	Board      [][]int `json:"board" binding:"required"`
	Player     int     `json:"player"`
	Difficulty string  `json:"difficulty"`
	Depth      int     `json:"depth"`
}

type engineMoveResponse struct {
	Column int `json:"column"`
	Score  int `json:"score"`
	Depth  int `json:"depth"`
	Nodes  int `json:"nodes"`
}

// BestMove is stateless: the caller sends a position and gets the column the
// computer would play for Player (2 when omitted).
func (h *EngineHandler) BestMove(c *gin.Context) {
	var req engineMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	board, err := domain.BoardFromInts(req.Board)
	if err != nil {
		writeError(c, err)
		return
	}

	player := domain.Player2
	switch domain.PlayerID(req.Player) {
	case domain.Empty:
	case domain.Player1, domain.Player2:
		player = domain.PlayerID(req.Player)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "player must be 1 or 2"})
		return
	}

	depth := req.Depth
	if depth == 0 {
		depth = bot.ParseDifficulty(req.Difficulty).Depth()
	}
	if depth > maxEngineDepth {
		c.JSON(http.StatusBadRequest, gin.H{"error": "depth too large"})
		return
	}

	engine := bot.NewEngine(player)
	result, err := engine.BestMove(board, depth)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, engineMoveResponse{
		Column: result.Column,
		Score:  result.Score,
		Depth:  depth,
		Nodes:  engine.Nodes(),
	})
}
