package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/puissance4/internal/domain"
	"github.com/iamasit07/puissance4/internal/service/bot"
	"github.com/iamasit07/puissance4/internal/service/game"
	"github.com/iamasit07/puissance4/internal/transport/http/middleware"
	"github.com/iamasit07/puissance4/pkg/auth"
)

type GameHandler struct {
	Manager           *game.Manager
	Signer            *auth.SeatSigner
	DefaultDifficulty bot.Difficulty
}

func NewGameHandler(m *game.Manager, signer *auth.SeatSigner, defaultDifficulty bot.Difficulty) *GameHandler {
	return &GameHandler{Manager: m, Signer: signer, DefaultDifficulty: defaultDifficulty}
}

type createGameRequest struct {
	Mode       string `json:"mode" binding:"required"`
	Player1    string `json:"player1"`
	Player2    string `json:"player2"`
	Difficulty string `json:"difficulty"`
}

// Tokens are keyed by seat number. Only human seats get one.
type createGameResponse struct {
	Game   game.Snapshot  `json:"game"`
	Tokens map[int]string `json:"tokens"`
}

type moveRequest struct {
	Column *int `json:"column" binding:"required"`
}

type moveResponse struct {
	Row  int           `json:"row"`
	Game game.Snapshot `json:"game"`
}

func (h *GameHandler) Create(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mode, err := game.ParseMode(req.Mode)
	if err != nil {
		writeError(c, err)
		return
	}

	difficulty := h.DefaultDifficulty
	if req.Difficulty != "" {
		d, ok := bot.LookupDifficulty(req.Difficulty)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown difficulty"})
			return
		}
		difficulty = d
	}

	session, err := h.Manager.CreateSession(mode, req.Player1, req.Player2, difficulty)
	if err != nil {
		writeError(c, err)
		return
	}

	seats := []domain.PlayerID{domain.Player1, domain.Player2}
	if session.VsComputer() {
		seats = seats[:1]
	}
	tokens := make(map[int]string, len(seats))
	for _, seat := range seats {
		token, err := h.Signer.Issue(session.ID, int(seat))
		if err != nil {
			writeError(c, err)
			return
		}
		tokens[int(seat)] = token
	}

	c.JSON(http.StatusCreated, createGameResponse{Game: session.Snapshot(), Tokens: tokens})
}

func (h *GameHandler) Get(c *gin.Context) {
	session, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}

func (h *GameHandler) Move(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	row, err := session.HandleMove(middleware.Seat(c), *req.Column)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, moveResponse{Row: row, Game: session.Snapshot()})
}

func (h *GameHandler) Abandon(c *gin.Context) {
	session, err := h.Manager.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := session.Abandon(middleware.Seat(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, session.Snapshot())
}
