package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamasit07/puissance4/internal/domain"
	"github.com/iamasit07/puissance4/internal/repository/sqlite"
	"github.com/iamasit07/puissance4/internal/service/bot"
	"github.com/iamasit07/puissance4/internal/service/game"
	"github.com/iamasit07/puissance4/internal/service/history"
	"github.com/iamasit07/puissance4/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router  *gin.Engine
	manager *game.Manager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	historySvc := history.NewService(sqlite.NewHistoryRepo(db), nil)
	manager := game.NewManager(nil, historySvc, game.WithScheduler(game.Immediately))
	signer := auth.NewSeatSigner("test-secret", time.Hour)

	router := NewRouter(RouterDeps{
		Games:          NewGameHandler(manager, signer, bot.DifficultyEasy),
		Watch:          NewWatchHandler(manager),
		History:        NewHistoryHandler(historySvc),
		Engine:         NewEngineHandler(),
		Signer:         signer,
		AllowedOrigins: []string{"http://localhost:5173"},
	})
	return &testServer{router: router, manager: manager}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func (s *testServer) create(t *testing.T, body gin.H) createGameResponse {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/games", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[createGameResponse](t, w)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestPvPGameOverHTTP(t *testing.T) {
	s := newTestServer(t)
	created := s.create(t, gin.H{"mode": "pvp", "player1": "Alice", "player2": "Bob"})
	id := created.Game.GameID
	require.Len(t, created.Tokens, 2)
	p1, p2 := created.Tokens[1], created.Tokens[2]

	move := func(token string, column int) *httptest.ResponseRecorder {
		return s.do(t, http.MethodPost, fmt.Sprintf("/api/games/%s/moves", id), token, gin.H{"column": column})
	}

	assert.Equal(t, http.StatusConflict, move(p2, 0).Code)
	assert.Equal(t, http.StatusUnauthorized, move("", 0).Code)
	assert.Equal(t, http.StatusBadRequest, move(p1, 9).Code)

	for i := 0; i < 3; i++ {
		w := move(p1, 0)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, domain.Rows-1-i, decode[moveResponse](t, w).Row)
		require.Equal(t, http.StatusOK, move(p2, 1).Code)
	}

	w := s.do(t, http.MethodGet, "/api/watch", "", nil)
	live := decode[[]liveGameResponse](t, w)
	require.Len(t, live, 1)
	assert.Equal(t, 6, live[0].MoveCount)

	w = move(p1, 0)
	require.Equal(t, http.StatusOK, w.Code)
	final := decode[moveResponse](t, w).Game
	assert.Equal(t, domain.StatusWon, final.Status)
	assert.Equal(t, "Alice", final.Winner)

	assert.Equal(t, http.StatusConflict, move(p2, 1).Code)

	w = s.do(t, http.MethodGet, "/api/history/log", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Alice contre Bob\n", w.Body.String())

	w = s.do(t, http.MethodGet, "/api/history?limit=1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[[]history.Entry](t, w)
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].GameID)
}

func TestAIGameHTTP(t *testing.T) {
	s := newTestServer(t)
	created := s.create(t, gin.H{"mode": "ai", "player1": "Alice"})
	require.Len(t, created.Tokens, 1)
	assert.Equal(t, bot.DifficultyEasy, created.Game.Difficulty)
	id := created.Game.GameID

	w := s.do(t, http.MethodPost, "/api/games/"+id+"/moves", created.Tokens[1], gin.H{"column": 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[moveResponse](t, w).Game.MoveCount)

	w = s.do(t, http.MethodPost, "/api/games/"+id+"/abandon", created.Tokens[1], nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[game.Snapshot](t, w)
	assert.Equal(t, game.ComputerName, snap.Winner)
	assert.Equal(t, game.ReasonSurrender, snap.Reason)

	w = s.do(t, http.MethodGet, "/api/history/log", "", nil)
	assert.Equal(t, "L'IA a gagné contre Alice - Difficulté: Facile\n", w.Body.String())
}

func TestCreateGameValidation(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/games", "", gin.H{}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/games", "", gin.H{"mode": "solo"}).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/games", "", gin.H{"mode": "ai", "difficulty": "godlike"}).Code)

	created := s.create(t, gin.H{"mode": "ai", "difficulty": "Expert"})
	assert.Equal(t, bot.DifficultyExpert, created.Game.Difficulty)
}

func TestGetGame(t *testing.T) {
	s := newTestServer(t)
	created := s.create(t, gin.H{"mode": "pvp"})

	w := s.do(t, http.MethodGet, "/api/games/"+created.Game.GameID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decode[game.Snapshot](t, w)
	assert.Equal(t, domain.StatusActive, snap.Status)
	assert.Equal(t, domain.NewBoard().Ints(), snap.Board)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/games/nope", "", nil).Code)
}

func TestTokenForAnotherGame(t *testing.T) {
	s := newTestServer(t)
	a := s.create(t, gin.H{"mode": "pvp"})
	b := s.create(t, gin.H{"mode": "pvp"})

	w := s.do(t, http.MethodPost, "/api/games/"+b.Game.GameID+"/moves", a.Tokens[1], gin.H{"column": 0})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEngineMove(t *testing.T) {
	s := newTestServer(t)
	board, err := domain.ParseBoard(
		".......",
		".......",
		".......",
		"X......",
		"X......",
		"OOO.XX.",
	)
	require.NoError(t, err)

	w := s.do(t, http.MethodPost, "/api/engine/move", "", gin.H{"board": board.Ints(), "depth": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decode[engineMoveResponse](t, w)
	assert.Equal(t, 3, resp.Column)
	assert.Equal(t, bot.ScoreWin, resp.Score)

	w = s.do(t, http.MethodPost, "/api/engine/move", "", gin.H{"board": board.Ints(), "difficulty": "hard"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, decode[engineMoveResponse](t, w).Depth)

	floating := domain.NewBoard().Ints()
	floating[0][0] = 1
	w = s.do(t, http.MethodPost, "/api/engine/move", "", gin.H{"board": floating})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	won, err := domain.ParseBoard(
		".......",
		".......",
		".......",
		".......",
		"OOO....",
		"XXXX...",
	)
	require.NoError(t, err)
	w = s.do(t, http.MethodPost, "/api/engine/move", "", gin.H{"board": won.Ints()})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(t, http.MethodPost, "/api/engine/move", "", gin.H{"board": board.Ints(), "player": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
