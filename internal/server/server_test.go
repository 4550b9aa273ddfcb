package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ctchen222/tictactoe-history/internal/api/controller"
	"ctchen222/tictactoe-history/internal/api/models"
	"ctchen222/tictactoe-history/internal/api/service"
	"ctchen222/tictactoe-history/internal/game"
	"ctchen222/tictactoe-history/internal/hub"
	"ctchen222/tictactoe-history/pkg/proto"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Extras  json.RawMessage `json:"extras"`
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := hub.NewHub(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)

	sessions := controller.NewSessionController(service.NewSessionService(h))
	srv := httptest.NewServer(NewServer(h, sessions, t.TempDir()).Engine())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, body string) (int, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func createSession(t *testing.T, baseURL string) models.SessionResponse {
	t.Helper()
	code, env := doJSON(t, http.MethodPost, baseURL+"/api/sessions", "")
	require.Equal(t, http.StatusCreated, code)

	var created models.SessionResponse
	require.NoError(t, json.Unmarshal(env.Extras, &created))
	return created
}

func TestServer_Healthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_SessionLifecycle(t *testing.T) {
	srv := newTestServer(t)
	created := createSession(t, srv.URL)
	base := srv.URL + "/api/sessions/" + created.ID

	for _, cell := range []int{0, 4, 1, 3, 2} {
		body, _ := json.Marshal(map[string]int{"cell": cell})
		code, _ := doJSON(t, http.MethodPost, base+"/moves", string(body))
		require.Equal(t, http.StatusOK, code, "cell %d", cell)
	}

	code, env := doJSON(t, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, code)
	var got models.SessionResponse
	require.NoError(t, json.Unmarshal(env.Extras, &got))
	assert.Equal(t, "Winner: X", got.State.Status)
	assert.Equal(t, game.PlayerX, got.State.Winner)
	assert.Len(t, got.State.Moves, 6)

	code, env = doJSON(t, http.MethodPost, base+"/jump", `{"step":2}`)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Extras, &got))
	assert.Equal(t, 2, got.State.CurrentStep)
	assert.Equal(t, "Next player: X", got.State.Status)

	code, env = doJSON(t, http.MethodPost, base+"/restart", "")
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Extras, &got))
	assert.True(t, got.State.Board.IsEmpty())
	assert.Len(t, got.State.Moves, 1)
}

func TestServer_ErrorStatus(t *testing.T) {
	srv := newTestServer(t)
	created := createSession(t, srv.URL)
	base := srv.URL + "/api/sessions/" + created.ID

	code, _ := doJSON(t, http.MethodPost, base+"/moves", `{"cell":0}`)
	require.Equal(t, http.StatusOK, code)

	tests := []struct {
		name   string
		method string
		url    string
		body   string
		want   int
	}{
		{"Unknown session", http.MethodGet, srv.URL + "/api/sessions/missing", "", http.StatusNotFound},
		{"Move on unknown session", http.MethodPost, srv.URL + "/api/sessions/missing/moves", `{"cell":1}`, http.StatusNotFound},
		{"Occupied cell", http.MethodPost, base + "/moves", `{"cell":0}`, http.StatusConflict},
		{"Cell out of range", http.MethodPost, base + "/moves", `{"cell":9}`, http.StatusUnprocessableEntity},
		{"Missing cell", http.MethodPost, base + "/moves", `{}`, http.StatusBadRequest},
		{"Malformed body", http.MethodPost, base + "/moves", `{"cell":`, http.StatusBadRequest},
		{"Step out of range", http.MethodPost, base + "/jump", `{"step":5}`, http.StatusUnprocessableEntity},
		{"Missing step", http.MethodPost, base + "/jump", `{}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := doJSON(t, tt.method, tt.url, tt.body)

			assert.Equal(t, tt.want, code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.want, env.Code)
		})
	}
}

func readFrame(t *testing.T, conn *websocket.Conn, out any) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func TestServer_WebSocketViewer(t *testing.T) {
	srv := newTestServer(t)
	created := createSession(t, srv.URL)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?session=" + created.ID + "&playerId=viewer-1"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	var assignment proto.SessionAssignmentMessage
	readFrame(t, conn, &assignment)
	assert.Equal(t, proto.TypeSession, assignment.Type)
	assert.Equal(t, created.ID, assignment.SessionID)
	assert.Equal(t, "viewer-1", assignment.PlayerID)

	var update proto.ServerToClientMessage
	readFrame(t, conn, &update)
	require.Equal(t, proto.TypeUpdate, update.Type)
	assert.True(t, update.State.Board.IsEmpty())

	// A move made over REST reaches the websocket viewer.
	code, _ := doJSON(t, http.MethodPost, srv.URL+"/api/sessions/"+created.ID+"/moves", `{"cell":4}`)
	require.Equal(t, http.StatusOK, code)
	readFrame(t, conn, &update)
	assert.Equal(t, game.PlayerX, update.State.Board[4])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"jump","step":0}`)))
	readFrame(t, conn, &update)
	assert.Equal(t, proto.TypeUpdate, update.Type)
	assert.Equal(t, 0, update.State.CurrentStep)
	assert.Len(t, update.State.Moves, 2)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"move","cell":42}`)))
	var failure proto.ServerToClientMessage
	readFrame(t, conn, &failure)
	assert.Equal(t, proto.TypeError, failure.Type)
	assert.NotEmpty(t, failure.Reason)
}

func TestServer_StaticFiles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>tic-tac-toe</h1>"), 0o644))

	h := hub.NewHub(time.Minute)
	sessions := controller.NewSessionController(service.NewSessionService(h))
	engine := NewServer(h, sessions, dir).Engine()

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tic-tac-toe")
}
