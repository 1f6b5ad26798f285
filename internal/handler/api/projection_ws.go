package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	models "PremCast/internal/domain/models"
	xhttp "PremCast/pkg/http"
	xlogger "PremCast/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

const (
	wsWriteTimeout = 10 * time.Second
	wsPongTimeout  = 60 * time.Second
	wsPingInterval = 30 * time.Second
)

// wsError is the frame sent back when a request cannot be processed.
type wsError struct {
	Error interface{} `json:"error"`
}

// ProjectStream serves interactive recalculation over a websocket: each
// JSON frame is a projection request, each reply the full 5-year result.
func (h *ProjectionEchoHandler) ProjectStream(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return err
	}
	defer conn.Close()

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
	})
	_ = conn.SetReadDeadline(time.Now().Add(wsPongTimeout))

	done := make(chan struct{})
	defer close(done)
	go h.pingLoop(conn, done)

	remote := c.RealIP()
	ctx := c.Request().Context()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("websocket read error", xlogger.Error(err))
			}
			return nil
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsPongTimeout))

		if !h.allow(c, "ws") {
			h.writeFrame(conn, wsError{Error: "rate limited"})
			continue
		}

		var req models.ProjectionRequest
		if err := json.Unmarshal(data, &req); err != nil {
			h.writeFrame(conn, wsError{Error: "malformed request"})
			continue
		}
		if verrs := xhttp.ValidateStruct(&req); verrs != nil {
			h.writeFrame(conn, wsError{Error: verrs})
			continue
		}

		res, err := h.projector.Run(ctx, &req, "ws")
		if err != nil {
			h.logger.Error("websocket projection error", xlogger.Error(err), xlogger.String("remote", remote))
			h.writeFrame(conn, wsError{Error: "projection failed"})
			continue
		}
		h.writeFrame(conn, res)
	}
}

func (h *ProjectionEchoHandler) writeFrame(conn *websocket.Conn, v interface{}) {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(v); err != nil {
		h.logger.Warn("websocket write error", xlogger.Error(err))
	}
}

func (h *ProjectionEchoHandler) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
