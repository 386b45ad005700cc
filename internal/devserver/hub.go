/*
Package devserver is a self-contained, in-memory implementation of the chat
server the client talks to.

This file defines the Hub, the single room: it tracks connected clients,
rebroadcasts the full roster on every join and leave, and fans chat frames out
to every participant.
*/
package devserver

import (
	"encoding/json"
	"sort"

	"github.com/rs/zerolog"

	"lobbychat/internal/pkg/logx"
)

const broadcastChannelBuffer = 256

// wireFrame is the JSON shape of every frame the server pushes.
type wireFrame struct {
	Type     string   `json:"type"`
	Username string   `json:"username,omitempty"`
	Content  string   `json:"content,omitempty"`
	Users    []string `json:"users,omitempty"`
}

// Hub is the single chat room.
type Hub struct {
	clients    map[*client]bool
	broadcast  chan []byte
	register   chan *client
	unregister chan *client
	stop       chan struct{}
	logger     zerolog.Logger
}

// NewHub constructs a Hub. Call Run to start its event loop.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		broadcast:  make(chan []byte, broadcastChannelBuffer),
		register:   make(chan *client),
		unregister: make(chan *client),
		stop:       make(chan struct{}),
		logger:     logx.With("hub"),
	}
}

// Run is the Hub's event loop: registration, deregistration, and fan-out all
// happen here, so the clients map needs no locking.
func (h *Hub) Run() {
	h.logger.Info().Msg("Hub started.")

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Info().Str("username", client.username).Int("total", len(h.clients)).Msg("Client joined.")
			h.broadcastRoster()

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Info().Str("username", client.username).Int("total", len(h.clients)).Msg("Client left.")
				h.broadcastRoster()
			}

		case frame := <-h.broadcast:
			h.fanOut(frame)

		case <-h.stop:
			h.logger.Info().Msg("Hub stopping.")
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		}
	}
}

// Stop terminates the Run loop and disconnects every client.
func (h *Hub) Stop() {
	select {
	case <-h.stop:
	default:
		close(h.stop)
	}
}

// broadcastRoster pushes the full participant list to everyone. The roster is
// always a complete replacement, never a delta.
func (h *Hub) broadcastRoster() {
	users := make([]string, 0, len(h.clients))
	for client := range h.clients {
		users = append(users, client.username)
	}
	sort.Strings(users)

	frame, err := json.Marshal(wireFrame{Type: "users", Users: users})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal roster frame.")
		return
	}

	h.fanOut(frame)
}

// fanOut queues a frame to every connected client, dropping clients whose
// send queue is full.
func (h *Hub) fanOut(frame []byte) {
	for client := range h.clients {
		select {
		case client.send <- frame:
		default:
			h.logger.Warn().Str("username", client.username).Msg("Client send queue full, dropping client.")
			delete(h.clients, client)
			close(client.send)
		}
	}
}
