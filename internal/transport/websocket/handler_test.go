package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/puissance4/internal/domain"
	"github.com/iamasit07/puissance4/internal/service/game"
	"github.com/iamasit07/puissance4/pkg/auth"
)

type fixture struct {
	server  *httptest.Server
	hub     *Hub
	manager *game.Manager
	signer  *auth.SeatSigner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	manager := game.NewManager(hub, nil, game.WithScheduler(game.Immediately))
	signer := auth.NewSeatSigner("secret", time.Hour)
	handler := NewHandler(hub, manager, signer, nil)

	router := gin.New()
	router.GET("/ws", handler.HandleWebSocket)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &fixture{server: server, hub: hub, manager: manager, signer: signer}
}

func (f *fixture) dial(t *testing.T, gameID, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws?game=" + gameID
	if token != "" {
		url += "&token=" + token
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) domain.ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg domain.ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestPlayerAndSpectatorReceiveMoves(t *testing.T) {
	f := newFixture(t)
	session, err := f.manager.CreateSession(game.ModePvP, "Alice", "Bob", "")
	require.NoError(t, err)
	token, err := f.signer.Issue(session.ID, int(domain.Player1))
	require.NoError(t, err)

	player := f.dial(t, session.ID, token)
	state := read(t, player)
	assert.Equal(t, "game_state", state.Type)
	assert.Equal(t, int(domain.Player1), state.YourPlayer)
	assert.Equal(t, "Bob", state.Player2)

	watcher := f.dial(t, session.ID, "")
	assert.Equal(t, 0, read(t, watcher).YourPlayer)
	require.Eventually(t, func() bool { return f.hub.Subscribers(session.ID) == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, player.WriteJSON(domain.ClientMessage{Type: "make_move", Column: 3}))

	for _, conn := range []*websocket.Conn{player, watcher} {
		msg := read(t, conn)
		assert.Equal(t, "move_made", msg.Type)
		require.NotNil(t, msg.Column)
		assert.Equal(t, 3, *msg.Column)
		require.NotNil(t, msg.Row)
		assert.Equal(t, domain.Rows-1, *msg.Row)
		assert.Equal(t, int(domain.Player2), msg.NextTurn)
	}

	require.NoError(t, watcher.WriteJSON(domain.ClientMessage{Type: "make_move", Column: 0}))
	errMsg := read(t, watcher)
	assert.Equal(t, "error", errMsg.Type)
	assert.Equal(t, errSpectator.Error(), errMsg.Message)
}

func TestMoveErrorsGoBackToSender(t *testing.T) {
	f := newFixture(t)
	session, err := f.manager.CreateSession(game.ModePvP, "Alice", "Bob", "")
	require.NoError(t, err)
	token, err := f.signer.Issue(session.ID, int(domain.Player2))
	require.NoError(t, err)

	conn := f.dial(t, session.ID, token)
	read(t, conn)

	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: "make_move", Column: 0}))
	msg := read(t, conn)
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, domain.ErrNotYourTurn.Error(), msg.Message)

	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: "rematch"}))
	assert.Equal(t, errUnknownMessage.Error(), read(t, conn).Message)

	require.NoError(t, conn.WriteJSON(domain.ClientMessage{Type: "abandon_game"}))
	over := read(t, conn)
	assert.Equal(t, "game_over", over.Type)
	assert.Equal(t, "Alice", over.Winner)
	assert.Equal(t, game.ReasonSurrender, over.Reason)
}

func TestRejectedConnections(t *testing.T) {
	f := newFixture(t)
	base := f.server.URL + "/ws"

	resp, err := http.Get(base + "?game=missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	session, err := f.manager.CreateSession(game.ModePvP, "A", "B", "")
	require.NoError(t, err)
	other, err := f.signer.Issue("another-game", 1)
	require.NoError(t, err)

	resp, err = http.Get(base + "?game=" + session.ID + "&token=" + other)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHubUnsubscribesOnClose(t *testing.T) {
	f := newFixture(t)
	session, err := f.manager.CreateSession(game.ModePvP, "A", "B", "")
	require.NoError(t, err)

	conn := f.dial(t, session.ID, "")
	read(t, conn)
	require.Eventually(t, func() bool { return f.hub.Subscribers(session.ID) == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return f.hub.Subscribers(session.ID) == 0 }, 2*time.Second, 10*time.Millisecond)
}
