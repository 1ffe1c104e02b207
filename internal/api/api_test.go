package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridmatch/gridmatch/internal/api"
	"github.com/gridmatch/gridmatch/internal/factory"
	"github.com/gridmatch/gridmatch/internal/testutil"
	"github.com/gridmatch/gridmatch/internal/ws"
)

// testServer runs the full router on a live listener so websocket dials work
type testServer struct {
	app    *factory.App
	server *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app, err := factory.New(factory.Config{
		Logger:      testutil.NopLogger(),
		GracePeriod: 50 * time.Millisecond,
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:   testutil.NopLogger(),
		Registry: app.Registry,
		Matches:  app.Matches,
		Manager:  app.Manager,
		Hub:      app.Hub,
	})

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		app.Broadcaster.Stop()
		server.Close()
	})

	return &testServer{app: app, server: server}
}

func (ts *testServer) post(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(ts.server.URL+path, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func (ts *testServer) createPlayer(t *testing.T, name string) string {
	t.Helper()
	resp := ts.post(t, "/api/v1/players", map[string]string{"name": name})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		PlayerID string `json:"player_id"`
		Name     string `json:"name"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.PlayerID)
	return body.PlayerID
}

func (ts *testServer) dial(t *testing.T, playerID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.server.URL, "http") + "/ws/" + playerID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readMessage decodes the next server message into a generic envelope
func readMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

// readUntil reads messages until one of the wanted type arrives
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) map[string]any {
	t.Helper()
	for i := 0; i < 20; i++ {
		msg := readMessage(t, conn)
		if msg["type"] == msgType {
			return msg
		}
	}
	t.Fatalf("no %s message received", msgType)
	return nil
}

func sendMove(t *testing.T, conn *websocket.Conn, sessionID string, row, col int) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]any{
		"type":      ws.TypeMove,
		"sessionId": sessionID,
		"row":       row,
		"col":       col,
	}))
}

func TestCreatePlayer(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.post(t, "/api/v1/players", map[string]string{"name": "alice"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		PlayerID string `json:"player_id"`
		Name     string `json:"name"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.PlayerID)
	assert.Equal(t, "alice", body.Name)
}

func TestCreatePlayerEmptyNameSucceeds(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.post(t, "/api/v1/players", map[string]string{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestJoinQueueUnknownPlayer(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.post(t, "/api/v1/queue/join", map[string]string{"player_id": "nope"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "PLAYER_NOT_FOUND", body.Error.Code)
}

func TestJoinQueueWaiting(t *testing.T) {
	ts := newTestServer(t)
	playerID := ts.createPlayer(t, "alice")

	resp := ts.post(t, "/api/v1/queue/join", map[string]string{"player_id": playerID})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "waiting", body.Status)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.server.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChannelUnknownPlayerClosed(t *testing.T) {
	ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.server.URL, "http") + "/ws/ghost"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, "Player not found", closeErr.Text)
}

func TestChannelConnectedMessage(t *testing.T) {
	ts := newTestServer(t)
	playerID := ts.createPlayer(t, "alice")

	conn := ts.dial(t, playerID)

	msg := readMessage(t, conn)
	assert.Equal(t, ws.TypeConnected, msg["type"])
	assert.Equal(t, playerID, msg["playerId"])
}

func TestConnectMidMatchReceivesState(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "alice")
	bob := ts.createPlayer(t, "bob")

	// both players pair up over HTTP before either channel exists
	ts.post(t, "/api/v1/queue/join", map[string]string{"player_id": alice}).Body.Close()
	ts.post(t, "/api/v1/queue/join", map[string]string{"player_id": bob}).Body.Close()

	// connecting afterwards delivers the live state right after the ack
	aliceConn := ts.dial(t, alice)
	first := readMessage(t, aliceConn)
	require.Equal(t, ws.TypeConnected, first["type"])
	state := readMessage(t, aliceConn)
	require.Equal(t, ws.TypeGameState, state["type"])
	assert.Equal(t, true, state["yourTurn"])

	data := state["data"].(map[string]any)
	assert.Equal(t, alice, data["participantA"])
	assert.Equal(t, bob, data["participantB"])
	sessionID := data["id"].(string)
	require.NotEmpty(t, sessionID)

	bobConn := ts.dial(t, bob)
	require.Equal(t, ws.TypeConnected, readMessage(t, bobConn)["type"])
	bobState := readMessage(t, bobConn)
	require.Equal(t, ws.TypeGameState, bobState["type"])
	assert.Equal(t, false, bobState["yourTurn"])

	// the late-joined channel is fully live: alice's move reaches bob
	sendMove(t, aliceConn, sessionID, 0, 0)
	update := readUntil(t, bobConn, ws.TypeGameState)
	board := update["data"].(map[string]any)["board"].([]any)
	assert.Equal(t, "X", board[0].([]any)[0])
}

func TestFullMatchOverWebsocket(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "alice")
	bob := ts.createPlayer(t, "bob")

	aliceConn := ts.dial(t, alice)
	bobConn := ts.dial(t, bob)
	readUntil(t, aliceConn, ws.TypeConnected)
	readUntil(t, bobConn, ws.TypeConnected)

	ts.post(t, "/api/v1/queue/join", map[string]string{"player_id": alice}).Body.Close()
	ts.post(t, "/api/v1/queue/join", map[string]string{"player_id": bob}).Body.Close()

	// Both sides receive the initial pairing broadcast
	aliceState := readUntil(t, aliceConn, ws.TypeGameState)
	bobState := readUntil(t, bobConn, ws.TypeGameState)

	aliceData := aliceState["data"].(map[string]any)
	sessionID := aliceData["id"].(string)
	require.NotEmpty(t, sessionID)
	assert.Equal(t, true, aliceState["yourTurn"])
	assert.Equal(t, false, bobState["yourTurn"])
	marks := aliceData["markAssignment"].(map[string]any)
	assert.Equal(t, "X", marks[alice])
	assert.Equal(t, "O", marks[bob])

	// Alice takes the top row
	plays := []struct {
		conn     *websocket.Conn
		row, col int
	}{
		{aliceConn, 0, 0}, {bobConn, 1, 0},
		{aliceConn, 0, 1}, {bobConn, 1, 1},
		{aliceConn, 0, 2},
	}
	for _, p := range plays {
		sendMove(t, p.conn, sessionID, p.row, p.col)
		// wait for the broadcast so moves stay ordered
		readUntil(t, aliceConn, ws.TypeGameState)
	}

	// drain bob's copies and inspect the final state
	var final map[string]any
	for i := 0; i < len(plays); i++ {
		final = readUntil(t, bobConn, ws.TypeGameState)
	}
	data := final["data"].(map[string]any)
	assert.Equal(t, alice, data["winner"])
	assert.Equal(t, false, data["isDraw"])

	board := data["board"].([]any)
	topRow := board[0].([]any)
	assert.Equal(t, []any{"X", "X", "X"}, topRow)
}

func TestOpponentDisconnectNotifiesRemaining(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createPlayer(t, "alice")
	bob := ts.createPlayer(t, "bob")

	aliceConn := ts.dial(t, alice)
	bobConn := ts.dial(t, bob)
	readUntil(t, aliceConn, ws.TypeConnected)
	readUntil(t, bobConn, ws.TypeConnected)

	ts.post(t, "/api/v1/queue/join", map[string]string{"player_id": alice}).Body.Close()
	ts.post(t, "/api/v1/queue/join", map[string]string{"player_id": bob}).Body.Close()
	readUntil(t, aliceConn, ws.TypeGameState)
	readUntil(t, bobConn, ws.TypeGameState)

	require.NoError(t, aliceConn.Close())

	ended := readUntil(t, bobConn, ws.TypeGameEnded)
	assert.Equal(t, "Opponent disconnected", ended["reason"])
}
