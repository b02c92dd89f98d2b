package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/iamasit07/puissance4/internal/domain"
	"github.com/iamasit07/puissance4/internal/service/game"
	"github.com/iamasit07/puissance4/pkg/auth"
	"github.com/iamasit07/puissance4/pkg/httputil"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

type Handler struct {
	Hub      *Hub
	Manager  *game.Manager
	Signer   *auth.SeatSigner
	Upgrader websocket.Upgrader
}

// NewHandler accepts upgrades from the given origins. Requests without an
// Origin header are always accepted.
func NewHandler(hub *Hub, m *game.Manager, signer *auth.SeatSigner, allowedOrigins []string) *Handler {
	return &Handler{
		Hub:     hub,
		Manager: m,
		Signer:  signer,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || lo.Contains(allowedOrigins, origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket serves /ws?game=<id>[&token=<seat token>]. Without a token
// the socket only watches.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	session, err := h.Manager.Get(c.Query("game"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	seat := domain.Empty
	if token, err := httputil.GetTokenFromRequest(c.Request); err == nil {
		claims, err := h.Signer.Parse(token)
		if err != nil || claims.GameID != session.ID {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		seat = domain.PlayerID(claims.Seat)
	}

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Str("component", "ws").Msg("upgrade failed")
		return
	}

	h.serve(&client{conn: conn, seat: seat}, session)
}

// serve owns the connection until the peer goes away.
func (h *Handler) serve(cl *client, session *game.Session) {
	conn := cl.conn
	h.Hub.subscribe(session.ID, cl)

	done := make(chan struct{})
	defer func() {
		close(done)
		h.Hub.unsubscribe(session.ID, cl)
		conn.Close()
		log.Debug().Str("component", "ws").Str("gameId", session.ID).Int("seat", int(cl.seat)).Msg("connection closed")
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Keep-alive pinger
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := cl.ping(); err != nil {
					return
				}
			}
		}
	}()

	snap := session.Snapshot()
	cl.send(domain.ServerMessage{
		Type:        "game_state",
		GameID:      snap.GameID,
		Player1:     snap.Player1,
		Player2:     snap.Player2,
		YourPlayer:  int(cl.seat),
		CurrentTurn: int(snap.CurrentTurn),
		Board:       snap.Board,
		Reason:      snap.Reason,
		Winner:      snap.Winner,
	})

	log.Debug().Str("component", "ws").Str("gameId", session.ID).Int("seat", int(cl.seat)).Msg("connection opened")

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("component", "ws").Msg("disconnected unexpectedly")
			}
			return
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			cl.send(domain.ErrorMessage{Type: "error", Message: "invalid message format"})
			continue
		}

		if err := h.dispatch(cl, session, msg); err != nil {
			cl.send(domain.ErrorMessage{Type: "error", Message: err.Error()})
		}
	}
}

func (h *Handler) dispatch(cl *client, session *game.Session, msg domain.ClientMessage) error {
	if cl.seat == domain.Empty {
		return errSpectator
	}

	switch msg.Type {
	case "make_move":
		_, err := session.HandleMove(cl.seat, msg.Column)
		return err
	case "abandon_game":
		return session.Abandon(cl.seat)
	}
	return errUnknownMessage
}
