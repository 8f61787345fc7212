package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/shadysedhom/mair-assignment/internal/constants"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestConsole(t *testing.T) {
	var out bytes.Buffer
	c := NewConsole(strings.NewReader("  cheap please \nbye\n"), &out)
	ctx := context.Background()

	require.NoError(t, c.Render(ctx, "Hello"))
	got, err := c.PromptAndRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, "cheap please", got)

	got, err = c.PromptAndRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bye", got)

	_, err = c.PromptAndRead(ctx)
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, "System: Hello\nYou: You: You: ", out.String())
}

func TestConsoleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewConsole(strings.NewReader("x\n"), io.Discard).PromptAndRead(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeUtterance(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json object", `{"text":" north "}`, "north"},
		{"raw text", "  cheap food ", "cheap food"},
		{"broken json falls back to raw", `{"text":`, `{"text":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeUtterance([]byte(tt.in), zap.NewNop()))
		})
	}
}

func startServer(t *testing.T, cfg ServerConfig, run SessionFunc) (*WebSocketServer, string) {
	t.Helper()
	srv := NewWebSocketServer(cfg, run, zap.NewNop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return srv, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func TestWebSocketSession(t *testing.T) {
	run := func(ctx context.Context, p *WebSocketProvider) error {
		p.EnterState("welcome")
		if err := p.Render(ctx, "What are you looking for?"); err != nil {
			return err
		}
		text, err := p.PromptAndRead(ctx)
		if err != nil {
			return err
		}
		p.EnterState("bye")
		return p.Render(ctx, "you said "+text)
	}
	_, url := startServer(t, ServerConfig{}, run)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var first Message
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, Message{Speaker: "System", Text: "What are you looking for?", State: "welcome"}, first)

	require.NoError(t, conn.WriteJSON(Message{Text: "cheap"}))

	var second Message
	require.NoError(t, conn.ReadJSON(&second))
	assert.Equal(t, "you said cheap", second.Text)
	assert.Equal(t, "bye", second.State)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}

func TestWebSocketClientCloseEndsSession(t *testing.T) {
	done := make(chan error, 1)
	run := func(ctx context.Context, p *WebSocketProvider) error {
		_, err := p.PromptAndRead(ctx)
		done <- err
		return err
	}
	_, url := startServer(t, ServerConfig{}, run)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, msg))

	assert.ErrorIs(t, <-done, io.EOF)
	conn.Close()
}

func TestWebSocketServerCloseCancelsSessions(t *testing.T) {
	started := make(chan struct{})
	run := func(ctx context.Context, p *WebSocketProvider) error {
		close(started)
		_, err := p.PromptAndRead(ctx)
		return err
	}
	srv, url := startServer(t, ServerConfig{}, run)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	<-started
	srv.Close()

	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestWebSocketSessionRateLimit(t *testing.T) {
	run := func(context.Context, *WebSocketProvider) error { return nil }
	_, url := startServer(t, ServerConfig{SessionsPerMinute: 1, Burst: 1}, run)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	conn.Close()

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.RemoteAddr = "10.0.0.7:5123"
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	direct := NewWebSocketServer(ServerConfig{}, nil, zap.NewNop())
	defer direct.Close()
	assert.Equal(t, "10.0.0.7", direct.clientIP(r))

	proxied := NewWebSocketServer(ServerConfig{TrustForwardedFor: true}, nil, zap.NewNop())
	defer proxied.Close()
	assert.Equal(t, "203.0.113.9", proxied.clientIP(r))

	r.Header.Del("X-Forwarded-For")
	assert.Equal(t, "10.0.0.7", proxied.clientIP(r))
}

func TestWebSocketSessionRateLimitIgnoresForwardedHeader(t *testing.T) {
	run := func(context.Context, *WebSocketProvider) error { return nil }
	_, url := startServer(t, ServerConfig{SessionsPerMinute: 1, Burst: 1}, run)

	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"X-Forwarded-For": {"198.51.100.1"}})
	require.NoError(t, err)
	conn.Close()

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"X-Forwarded-For": {"198.51.100.2"}})
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestLimitersAreEvictedWhenIdle(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	srv := NewWebSocketServer(ServerConfig{SessionsPerMinute: 1, Burst: 1}, nil, zap.NewNop())
	defer srv.Close()
	srv.now = func() time.Time { return now }
	srv.lastSweep = now

	require.True(t, srv.limiter("10.0.0.1").Allow())
	require.True(t, srv.limiter("10.0.0.2").Allow())
	assert.Equal(t, 2, srv.trackedClients())

	now = now.Add(constants.WebSocketConfig.LimiterIdleTTL / 2)
	srv.limiter("10.0.0.2")

	now = now.Add(constants.WebSocketConfig.LimiterIdleTTL/2 + time.Second)
	srv.limiter("10.0.0.3")
	assert.Equal(t, 2, srv.trackedClients(), "10.0.0.1 was idle past the TTL")

	srv.limitersMu.Lock()
	_, kept := srv.limiters["10.0.0.2"]
	_, evicted := srv.limiters["10.0.0.1"]
	srv.limitersMu.Unlock()
	assert.True(t, kept)
	assert.False(t, evicted)
}

func TestActiveSessions(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	run := func(ctx context.Context, p *WebSocketProvider) error {
		close(started)
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}
	srv, url := startServer(t, ServerConfig{}, run)
	assert.Zero(t, srv.ActiveSessions())

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	<-started
	assert.Equal(t, int64(1), srv.ActiveSessions())

	close(release)
	assert.Eventually(t, func() bool { return srv.ActiveSessions() == 0 }, 2*time.Second, 10*time.Millisecond)
}
