package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/iamasit07/puissance4/internal/domain"
	"github.com/iamasit07/puissance4/internal/service/bot"
	"github.com/iamasit07/puissance4/internal/service/game"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, game.ErrSeatNotFound), errors.Is(err, game.ErrComputerSeat):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotYourTurn), errors.Is(err, domain.ErrGameFinished),
		errors.Is(err, domain.ErrColumnFull):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidMove), errors.Is(err, domain.ErrInvalidBoard),
		errors.Is(err, game.ErrUnknownMode), errors.Is(err, bot.ErrInvalidDepth):
		return http.StatusBadRequest
	case errors.Is(err, bot.ErrGameOver), errors.Is(err, bot.ErrNoLegalMoves):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("component", "http").Str("path", c.FullPath()).Msg("request failed")
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
