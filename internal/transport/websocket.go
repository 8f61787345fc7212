package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shadysedhom/mair-assignment/internal/constants"
	"github.com/shadysedhom/mair-assignment/internal/domain"
	"github.com/shadysedhom/mair-assignment/internal/util"
)

// Message is the JSON frame exchanged with websocket clients.
type Message struct {
	Speaker string `json:"speaker,omitempty"`
	Text    string `json:"text"`
	State   string `json:"state,omitempty"`
}

// SessionFunc runs one dialogue over an upgraded connection. It returns when
// the dialogue ends or the provider fails.
type SessionFunc func(ctx context.Context, provider *WebSocketProvider) error

type ServerConfig struct {
	Addr              string
	SessionsPerMinute int
	Burst             int
	// TrustForwardedFor keys the rate limit on X-Forwarded-For. Only enable
	// it behind a proxy that overwrites the header.
	TrustForwardedFor bool
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type WebSocketServer struct {
	cfg      ServerConfig
	upgrader websocket.Upgrader
	run      SessionFunc
	logger   *zap.Logger
	now      func() time.Time

	limitersMu sync.Mutex
	limiters   map[string]*clientLimiter
	lastSweep  time.Time

	active atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewWebSocketServer(cfg ServerConfig, run SessionFunc, logger *zap.Logger) *WebSocketServer {
	if cfg.Burst <= 0 {
		cfg.Burst = constants.WebSocketConfig.SessionBurst
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &WebSocketServer{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: constants.WebSocketConfig.HandshakeTimeout,
			CheckOrigin:      func(*http.Request) bool { return true },
		},
		run:       run,
		logger:    logger,
		now:       time.Now,
		limiters:  make(map[string]*clientLimiter),
		lastSweep: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// ActiveSessions returns the number of dialogues currently running.
func (s *WebSocketServer) ActiveSessions() int64 {
	return s.active.Load()
}

func (s *WebSocketServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleSession)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *WebSocketServer) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: constants.ServerConfig.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Dialogue server listening", zap.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerConfig.ShutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	return err
}

// Close ends every running session and waits for them.
func (s *WebSocketServer) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *WebSocketServer) limiter(ip string) *rate.Limiter {
	s.limitersMu.Lock()
	defer s.limitersMu.Unlock()

	now := s.now()
	s.sweepLimiters(now)

	entry, ok := s.limiters[ip]
	if !ok {
		limit := rate.Inf
		if s.cfg.SessionsPerMinute > 0 {
			limit = rate.Every(time.Minute / time.Duration(s.cfg.SessionsPerMinute))
		}
		entry = &clientLimiter{limiter: rate.NewLimiter(limit, s.cfg.Burst)}
		s.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// sweepLimiters drops limiters of clients idle for longer than LimiterIdleTTL,
// at most once per LimiterSweepInterval. Must be called with limitersMu held.
func (s *WebSocketServer) sweepLimiters(now time.Time) {
	if now.Sub(s.lastSweep) < constants.WebSocketConfig.LimiterSweepInterval {
		return
	}
	s.lastSweep = now
	for ip, entry := range s.limiters {
		if now.Sub(entry.lastSeen) > constants.WebSocketConfig.LimiterIdleTTL {
			delete(s.limiters, ip)
		}
	}
}

func (s *WebSocketServer) trackedClients() int {
	s.limitersMu.Lock()
	defer s.limitersMu.Unlock()
	return len(s.limiters)
}

func (s *WebSocketServer) clientIP(r *http.Request) string {
	if s.cfg.TrustForwardedFor {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			return strings.TrimSpace(strings.Split(fwd, ",")[0])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *WebSocketServer) handleSession(w http.ResponseWriter, r *http.Request) {
	ip := s.clientIP(r)
	if !s.limiter(ip).Allow() {
		s.logger.Warn("Session rate limit exceeded", zap.String("ip", ip))
		http.Error(w, "too many sessions", http.StatusTooManyRequests)
		return
	}
	if s.ctx.Err() != nil {
		http.Error(w, "server closing", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.String("ip", ip), zap.Error(err))
		return
	}

	s.wg.Add(1)
	defer s.wg.Done()
	s.active.Add(1)
	defer s.active.Add(-1)

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	provider := newWebSocketProvider(conn, s.logger)
	s.logger.Info("Session started", zap.String("ip", ip))

	if err := s.run(ctx, provider); err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
		s.logger.Warn("Session ended with error", zap.String("ip", ip), zap.Error(err))
	}

	provider.closeNormally()
	conn.Close()
	s.logger.Info("Session closed", zap.String("ip", ip))
}

// WebSocketProvider adapts one connection to the dialogue provider contract.
type WebSocketProvider struct {
	conn   *websocket.Conn
	logger *zap.Logger

	writeMu sync.Mutex
	stateMu sync.RWMutex
	state   string
}

func newWebSocketProvider(conn *websocket.Conn, logger *zap.Logger) *WebSocketProvider {
	conn.SetReadLimit(constants.WebSocketConfig.MaxMessageBytes)
	return &WebSocketProvider{conn: conn, logger: logger}
}

func (p *WebSocketProvider) EnterState(name string) {
	p.stateMu.Lock()
	p.state = name
	p.stateMu.Unlock()
}

func (p *WebSocketProvider) State() string {
	p.stateMu.RLock()
	defer p.stateMu.RUnlock()
	return p.state
}

// PromptAndRead accepts {"text": "..."} frames or raw text. A closed
// connection is reported as io.EOF.
func (p *WebSocketProvider) PromptAndRead(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := p.conn.SetReadDeadline(time.Now().Add(constants.WebSocketConfig.IdleTimeout)); err != nil {
		return "", err
	}

	_, data, err := p.conn.ReadMessage()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
			return "", io.EOF
		}
		return "", err
	}
	return decodeUtterance(data, p.logger), nil
}

func decodeUtterance(data []byte, logger *zap.Logger) string {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var msg Message
		if err := json.Unmarshal([]byte(trimmed), &msg); err == nil {
			return strings.TrimSpace(msg.Text)
		}
		logger.Debug("Frame is not a message object, using raw text",
			zap.String("data", util.TruncateString(trimmed, 200)),
		)
	}
	return trimmed
}

func (p *WebSocketProvider) Render(_ context.Context, text string) error {
	return p.write(Message{
		Speaker: domain.SpeakerSystem,
		Text:    text,
		State:   p.State(),
	})
}

func (p *WebSocketProvider) write(msg Message) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	if err := p.conn.SetWriteDeadline(time.Now().Add(constants.WebSocketConfig.WriteTimeout)); err != nil {
		return err
	}
	return p.conn.WriteJSON(msg)
}

func (p *WebSocketProvider) closeNormally() {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	deadline := time.Now().Add(constants.WebSocketConfig.WriteTimeout)
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
	if err := p.conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
		p.logger.Debug("Close frame not sent", zap.Error(err))
	}
}
