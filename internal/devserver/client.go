/*
Package devserver is a self-contained, in-memory implementation of the chat
server the client talks to.

This file defines the per-connection client and its read/write pumps. The wire
contract mirrors what the chat client expects: inbound user text arrives raw
and is wrapped into a chat frame, the structured keepalive refreshes the read
deadline and is never broadcast.
*/
package devserver

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"lobbychat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time the server waits for any sign of life from the client;
	// the client's keepalive frame arrives well within this.
	readWait = 60 * time.Second

	// frequency at which the server sends a protocol-level ping.
	pingPeriod = (readWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	maxMessageSize = 8192
)

// keepaliveFrame is the structured ping the chat client sends periodically.
const keepaliveFrame = `{"type":"ping"}`

// client represents one active WebSocket connection and its user.
type client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	username string
	logger   zerolog.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, username string) *client {
	return &client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 64),
		username: username,
		logger:   logx.With("ws_client").With().Str("username", username).Logger(),
	}
}

// readPump consumes frames from the connection until it drops. Keepalive
// frames refresh the read deadline; anything else is user text, wrapped into a
// chat frame and broadcast.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		default:
			c.logger.Warn().Msg("Hub unregister channel blocked.")
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(readWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Read ended (client close/going away)")
			}
			return
		}

		if string(message) == keepaliveFrame {
			if err := c.conn.SetReadDeadline(time.Now().Add(readWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to refresh read deadline")
				return
			}
			continue
		}

		frame, err := json.Marshal(wireFrame{
			Type:     "chat",
			Username: c.username,
			Content:  string(message),
		})
		if err != nil {
			c.logger.Error().Err(err).Msg("Failed to marshal chat frame")
			continue
		}

		select {
		case c.hub.broadcast <- frame:
		default:
			c.logger.Warn().Msg("Hub broadcast channel full, dropping chat frame.")
		}
	}
}

// writePump drains the send queue onto the connection and keeps the
// protocol-level heartbeat going.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Error().Err(err).Msg("Error writing message")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Error().Err(err).Msg("Error writing ping")
				return
			}
		}
	}
}
