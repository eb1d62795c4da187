package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"likes_service/internal/logger"
	"likes_service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB

	defaultPushInterval = time.Second
	maxPushInterval     = 10 * time.Second
)

const (
	wsTypeMostLiked = "most_liked"
	wsTypeError     = "error"
)

// wsEnvelope is every frame the leaderboard stream writes.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// The leaderboard is public data, so any origin may subscribe.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary      Leaderboard stream
// @Description  Upgrades to a WebSocket and pushes {"type":"most_liked","data":[users]} immediately, then again whenever the ranking changes, polled every interval (?interval=2s or ?interval_ms=500, default 1s, max 10s).
// @Tags         users
// @Param        interval     query  string   false  "Poll interval as a Go duration"
// @Param        interval_ms  query  integer  false  "Poll interval in milliseconds"
// @Success      101
// @Router       /ws/most-liked [get]
func (h *Handler) wsMostLiked(c *gin.Context) {
	interval := h.parseInterval(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	s := &leaderboardStream{conn: conn, board: h.services.Relationship, log: h.log}
	s.run(c.Request.Context(), interval)
}

// parseInterval reads ?interval=2s or ?interval_ms=2000. Out-of-range or
// unparsable values fall back to the default.
func (h *Handler) parseInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxPushInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 && v <= int(maxPushInterval/time.Millisecond) {
			return time.Duration(v) * time.Millisecond
		}
	}
	return defaultPushInterval
}

// leaderboardStream feeds one subscriber. The ranking is polled every
// interval and written only when it differs from the last frame sent.
type leaderboardStream struct {
	conn  *websocket.Conn
	board service.Relationship
	log   *logger.Logger

	last []byte
}

func (s *leaderboardStream) run(ctx context.Context, interval time.Duration) {
	s.conn.SetReadLimit(maxMsgSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	closed := make(chan struct{})
	go s.drain(closed)

	poll := time.NewTicker(interval)
	defer poll.Stop()
	keepalive := time.NewTicker(pingPeriod)
	defer keepalive.Stop()

	if err := s.push(ctx); err != nil {
		s.info("ws_initial_push_failed", err)
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case <-keepalive.C:
			if err := s.write(websocket.PingMessage, nil); err != nil {
				s.info("ws_ping_failed", err)
				return
			}
		case <-poll.C:
			if err := s.push(ctx); err != nil {
				s.info("ws_push_failed", err)
				return
			}
		}
	}
}

// push writes the current ranking unless it matches the previous frame.
// A store failure is reported to the client before the error is returned.
func (s *leaderboardStream) push(ctx context.Context) error {
	users, err := s.board.MostLiked(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("ws_most_liked_failed", "err", err)
		}
		if frame, mErr := json.Marshal(wsEnvelope{Type: wsTypeError, Error: errInternal}); mErr == nil {
			_ = s.write(websocket.TextMessage, frame)
		}
		return err
	}

	frame, err := json.Marshal(wsEnvelope{Type: wsTypeMostLiked, Data: users})
	if err != nil {
		return err
	}
	if bytes.Equal(frame, s.last) {
		return nil
	}
	if err := s.write(websocket.TextMessage, frame); err != nil {
		return err
	}
	s.last = frame
	return nil
}

func (s *leaderboardStream) write(messageType int, data []byte) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(messageType, data)
}

// drain consumes client frames so pongs and the close handshake are
// processed; closed is signalled once the peer goes away.
func (s *leaderboardStream) drain(closed chan<- struct{}) {
	defer close(closed)
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			s.info("ws_read_closed", err)
			return
		}
	}
}

func (s *leaderboardStream) info(msg string, err error) {
	if s.log != nil {
		s.log.Infow(msg, "err", err)
	}
}
