package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	models "SentiPulse/internal/domain/models"
	xlogger "SentiPulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	streamWriteTimeout = 5 * time.Second
	streamSendBuffer   = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// StreamHub broadcasts recorded sentiment results to websocket clients.
// It implements ResultSink so it plugs into the same fan-out as the
// Kafka publisher. Slow clients are disconnected, never awaited.
type StreamHub struct {
	logger *xlogger.Logger

	mu      sync.RWMutex
	clients map[*streamClient]struct{}
	last    *models.SentimentResult
}

type streamClient struct {
	conn *websocket.Conn
	send chan *models.SentimentResult
}

func NewStreamHub(logger *xlogger.Logger) *StreamHub {
	return &StreamHub{
		logger:  logger,
		clients: make(map[*streamClient]struct{}),
	}
}

// ServeWS upgrades the connection and replays the last known result.
func (h *StreamHub) ServeWS(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	cl := &streamClient{
		conn: conn,
		send: make(chan *models.SentimentResult, streamSendBuffer),
	}
	h.logger.Debug("stream client connected", xlogger.String("remote", conn.RemoteAddr().String()))

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	last := h.last
	h.mu.Unlock()

	if last != nil {
		select {
		case cl.send <- last:
		default:
		}
	}

	go h.writeLoop(cl)
	go h.readLoop(cl)
	return nil
}

// Publish fans a recorded result out to all connected clients.
func (h *StreamHub) Publish(_ context.Context, res *models.SentimentResult) error {
	h.mu.Lock()
	h.last = res
	var stale []*streamClient
	for cl := range h.clients {
		select {
		case cl.send <- res:
		default:
			stale = append(stale, cl)
		}
	}
	for _, cl := range stale {
		delete(h.clients, cl)
		close(cl.send)
	}
	h.mu.Unlock()

	for _, cl := range stale {
		_ = cl.conn.Close()
	}
	return nil
}

// Close disconnects every client.
func (h *StreamHub) Close() error {
	h.mu.Lock()
	for cl := range h.clients {
		delete(h.clients, cl)
		close(cl.send)
		_ = cl.conn.Close()
	}
	h.mu.Unlock()
	return nil
}

func (h *StreamHub) writeLoop(cl *streamClient) {
	for res := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := cl.conn.WriteJSON(res); err != nil {
			h.drop(cl)
			return
		}
	}
	_ = cl.conn.Close()
}

// readLoop drains incoming frames so close frames and pings are processed.
func (h *StreamHub) readLoop(cl *streamClient) {
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			h.drop(cl)
			return
		}
	}
}

func (h *StreamHub) drop(cl *streamClient) {
	h.mu.Lock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
	h.mu.Unlock()
	_ = cl.conn.Close()
}
