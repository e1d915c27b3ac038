package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hexfront/hexfront-backend/internal/cards"
	"github.com/hexfront/hexfront-backend/internal/hub"
	"github.com/hexfront/hexfront-backend/internal/store"
	"github.com/hexfront/hexfront-backend/internal/types"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	h := hub.NewHub(context.Background(), store.NewMemoryStore(), cards.DefaultSource(), zap.NewNop())
	srv := httptest.NewServer(SetupRoutes(h, zap.NewNop(), time.Second))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return res
}

func decode[T any](t *testing.T, res *http.Response) T {
	t.Helper()
	defer res.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(res.Body).Decode(&v))
	return v
}

func createRoom(t *testing.T, srv *httptest.Server, mode string) string {
	t.Helper()
	res := postJSON(t, srv.URL+"/rooms", types.CreateRoomRequest{
		PlayerID: "p0", FactionID: "emberfall", Mode: mode,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	out := decode[types.CreateRoomResponse](t, res)
	require.Len(t, out.RoomID, 6)
	return out.RoomID
}

func TestCreateJoinReadFlow(t *testing.T) {
	srv := newTestServer(t)
	code := createRoom(t, srv, "2p")

	res := postJSON(t, srv.URL+"/rooms/"+code+"/join", types.JoinRequest{
		PlayerID: "p1", FactionID: "tidebound",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	join := decode[types.JoinResponse](t, res)
	require.True(t, join.OK)
	require.Equal(t, 1, join.Seat)

	res, err := http.Get(srv.URL + "/rooms/" + code)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	view := decode[types.RoomView](t, res)
	require.Equal(t, store.StatusWaiting, view.Status)
	require.Len(t, view.Players, 2)
	require.Nil(t, view.GameState)
}

func TestCreateRoomRejectsBadMode(t *testing.T) {
	srv := newTestServer(t)

	res := postJSON(t, srv.URL+"/rooms", types.CreateRoomRequest{
		PlayerID: "p0", FactionID: "emberfall", Mode: "4p",
	})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	res.Body.Close()
}

func TestReadUnknownRoomIs404(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/rooms/NOPE99")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	res.Body.Close()
}

func TestJoinConflictsMapTo409(t *testing.T) {
	srv := newTestServer(t)
	code := createRoom(t, srv, "2p")

	res := postJSON(t, srv.URL+"/rooms/"+code+"/join", types.JoinRequest{
		PlayerID: "p1", FactionID: "emberfall",
	})
	require.Equal(t, http.StatusConflict, res.StatusCode)
	res.Body.Close()

	res = postJSON(t, srv.URL+"/rooms/"+code+"/join", types.JoinRequest{
		PlayerID: "p1", FactionID: "tidebound",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	res = postJSON(t, srv.URL+"/rooms/"+code+"/join", types.JoinRequest{
		PlayerID: "p2", FactionID: "verdant",
	})
	require.Equal(t, http.StatusConflict, res.StatusCode)
	res.Body.Close()
}

func TestStartAndActThroughHTTP(t *testing.T) {
	srv := newTestServer(t)
	code := createRoom(t, srv, "2p")

	res := postJSON(t, srv.URL+"/rooms/"+code+"/join", types.JoinRequest{
		PlayerID: "p1", FactionID: "tidebound",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	res = postJSON(t, srv.URL+"/rooms/"+code+"/ready", types.PlayerRequest{PlayerID: "p1"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	res.Body.Close()

	// Only the host may start.
	res = postJSON(t, srv.URL+"/rooms/"+code+"/start", types.PlayerRequest{PlayerID: "p1"})
	require.Equal(t, http.StatusForbidden, res.StatusCode)
	res.Body.Close()

	res = postJSON(t, srv.URL+"/rooms/"+code+"/start", types.PlayerRequest{PlayerID: "p0"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	started := decode[types.ActionResponse](t, res)
	require.NotNil(t, started.GameState)

	res = postJSON(t, srv.URL+"/rooms/"+code+"/actions", types.ActionRequest{
		PlayerID: "p0",
		Action:   types.Action{Type: "interstitialContinue"},
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	acted := decode[types.ActionResponse](t, res)
	require.NotNil(t, acted.GameState)
	require.NotEmpty(t, acted.GameState.DraftSelections)

	// Acting off seat is forbidden.
	res = postJSON(t, srv.URL+"/rooms/"+code+"/actions", types.ActionRequest{
		PlayerID: "p1",
		Action:   types.Action{Type: "endTurn"},
	})
	require.Equal(t, http.StatusForbidden, res.StatusCode)
	res.Body.Close()
}

func TestGenerateCodeShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		require.NotContains(t, code, "O")
		require.NotContains(t, code, "0")
		seen[code] = true
	}
	require.Greater(t, len(seen), 1)
}
