package websocket

import (
	"time"

	gwebsocket "github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
)

type Client struct {
	Context Context
	Room    *Room
	Conn    *gwebsocket.Conn
	Send    chan []byte
}

// ReadPump forwards incoming frames to the room until the connection
// drops.
func (c *Client) ReadPump() {
	defer func() {
		c.Room.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if gwebsocket.IsUnexpectedCloseError(err, gwebsocket.CloseGoingAway, gwebsocket.CloseAbnormalClosure) {
				c.Context.Log.Error().Err(err).Msg("unexpected websocket close")
			}
			break
		}
		c.Room.Inbound <- inbound{client: c, data: message}
	}
}

// WritePump drains the send channel to the connection and keeps it
// alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(gwebsocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(gwebsocket.BinaryMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(gwebsocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
