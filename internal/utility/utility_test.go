package utility

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIndexParam(t *testing.T) {
	n, err := ParseIndexParam("2")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, raw := range []string{"", "-1", "abc", "1.5"} {
		_, err := ParseIndexParam(raw)
		assert.Error(t, err, raw)
	}
}

func TestGenerateSecureToken(t *testing.T) {
	a, err := GenerateSecureToken(32)
	require.NoError(t, err)
	b, err := GenerateSecureToken(32)
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestGetRealIP(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", GetRealIP(e.NewContext(req, httptest.NewRecorder())))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", GetRealIP(e.NewContext(req, httptest.NewRecorder())))
}

func TestHub_BroadcastToDashboard(t *testing.T) {
	hub := NewHub()
	registered := make(chan struct{}, 2)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(r.URL.Query().Get("id"), conn)
		registered <- struct{}{}
	}))
	defer srv.Close()
	defer hub.CloseAll()

	dial := func(id string) *websocket.Conn {
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?id=" + id
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		<-registered
		return conn
	}

	mine := dial("d1")
	defer mine.Close()
	theirs := dial("d2")
	defer theirs.Close()

	assert.Equal(t, 1, hub.Count("d1"))
	assert.Equal(t, 1, hub.Broadcast("d1", []byte(`{"type":"GENERATION_COMPLETE"}`)))

	_ = mine.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := mine.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"GENERATION_COMPLETE"}`, string(msg))

	// d2 got nothing.
	_ = theirs.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = theirs.ReadMessage()
	assert.Error(t, err)

	assert.Equal(t, 0, hub.Broadcast("nobody", []byte("x")))
}
