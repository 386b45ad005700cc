/*
Package dispatch interprets inbound frames from the streaming connection and
routes them to presentation. It touches only the view, never protocol state.

Frames are a tagged union keyed by "type". Malformed frames are logged and
dropped; they are never fatal to the session. Unknown kinds are likewise
ignored with a log line rather than guessed at.
*/
package dispatch

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"lobbychat/internal/pkg/logx"
)

// Inbound frame kinds understood by the dispatcher.
const (
	kindUsers = "users"
	kindChat  = "chat"
)

// systemAuthor labels chat frames that arrive without a username, e.g. server
// announcements.
const systemAuthor = "System"

// inboundFrame is the wire shape of every frame the server pushes. Username
// and Content are pointers so a genuinely absent field is distinguishable from
// a legitimate empty string.
type inboundFrame struct {
	Type     string   `json:"type"`
	Users    []string `json:"users,omitempty"`
	Username *string  `json:"username,omitempty"`
	Content  *string  `json:"content,omitempty"`
}

// RoomView is the slice of the presentation surface the dispatcher renders
// into: the roster and the message log.
type RoomView interface {
	// SetRoster fully replaces the displayed participant list; self is the
	// current user's name for "(you)" marking.
	SetRoster(users []string, self string)

	// AppendMessage appends one entry to the message log, tagged self- or
	// other-authored.
	AppendMessage(author, content string, self bool)
}

// IdentitySource resolves the current user's display name for self/other
// attribution.
type IdentitySource interface {
	CurrentUsername() string
}

// Dispatcher routes each inbound frame by kind.
type Dispatcher struct {
	view     RoomView
	identity IdentitySource
	logger   zerolog.Logger
}

// NewDispatcher constructs a Dispatcher rendering into view.
func NewDispatcher(view RoomView, identity IdentitySource) *Dispatcher {
	return &Dispatcher{
		view:     view,
		identity: identity,
		logger:   logx.With("dispatcher"),
	}
}

// HandleFrame parses and routes one inbound frame. Frames are handled in the
// order the transport delivers them.
func (d *Dispatcher) HandleFrame(frame []byte) {
	var msg inboundFrame
	if err := json.Unmarshal(frame, &msg); err != nil {
		d.logger.Warn().Err(err).Bytes("frame", frame).Msg("Dropping malformed inbound frame")
		return
	}

	switch msg.Type {
	case kindUsers:
		d.view.SetRoster(msg.Users, d.identity.CurrentUsername())

	case kindChat:
		author := systemAuthor
		if msg.Username != nil {
			author = *msg.Username
		}

		content := ""
		if msg.Content != nil {
			content = *msg.Content
		}

		self := msg.Username != nil && author == d.identity.CurrentUsername()
		d.view.AppendMessage(author, content, self)

	default:
		d.logger.Warn().Str("kind", msg.Type).Msg("Dropping inbound frame with unknown kind")
	}
}
