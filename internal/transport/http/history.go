package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/puissance4/internal/service/history"
)

const defaultHistoryLimit = 50

type HistoryHandler struct {
	Service *history.Service
}

func NewHistoryHandler(svc *history.Service) *HistoryHandler {
	return &HistoryHandler{Service: svc}
}

// GetHistory lists finished games, newest first. ?limit=0 returns everything.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	entries, err := h.Service.List(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetLog serves the plain-text log, one line per game.
func (h *HistoryHandler) GetLog(c *gin.Context) {
	text, err := h.Service.Log(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.String(http.StatusOK, text)
}
