package realtime

import (
	"context"
	"encoding/json"
	"time"

	"mindmaze-api/internal/logger"

	"github.com/gorilla/websocket"
)

// WebSocket configuration constants
const (
	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// pingPeriod sends pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize is the default maximum message size allowed from peer.
	maxMessageSize = 4096

	// sendChannelSize 默认发送队列长度，写满视为慢客户端
	sendChannelSize = 256
)

// Client 一个玩家的 WebSocket 连接
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	username string
	send     chan []byte
}

func newClient(h *Hub, conn *websocket.Conn, username string) *Client {
	return &Client{
		hub:      h,
		conn:     conn,
		username: username,
		send:     make(chan []byte, h.cfg.SendQueueSize),
	}
}

// readPump 读取客户端消息并交给 hub
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.ctx.Done():
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(c.hub.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug(context.Background(), "WebSocket unexpected close",
					logger.String("username", c.username), logger.Error(err))
			}
			return
		}

		ev := inboundEvent{client: c}
		if err := json.Unmarshal(data, &ev.msg); err != nil {
			ev.err = err
		}

		select {
		case c.hub.inbound <- ev:
		case <-c.hub.ctx.Done():
			return
		}
	}
}

// writePump 将 hub 的消息写到连接，每条消息单独成帧
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// hub 关闭了发送队列
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
