package dispatch

import (
	"reflect"
	"testing"
)

type loggedMessage struct {
	author  string
	content string
	self    bool
}

type fakeRoomView struct {
	roster     []string
	rosterSelf string
	messages   []loggedMessage
}

func (v *fakeRoomView) SetRoster(users []string, self string) {
	v.roster = users
	v.rosterSelf = self
}

func (v *fakeRoomView) AppendMessage(author, content string, self bool) {
	v.messages = append(v.messages, loggedMessage{author: author, content: content, self: self})
}

type fakeIdentity struct {
	username string
}

func (i fakeIdentity) CurrentUsername() string { return i.username }

func TestRosterReplacement(t *testing.T) {
	view := &fakeRoomView{}
	d := NewDispatcher(view, fakeIdentity{username: "ana"})

	d.HandleFrame([]byte(`{"type":"users","users":["ana","bo","cleo"]}`))

	if want := []string{"ana", "bo", "cleo"}; !reflect.DeepEqual(view.roster, want) {
		t.Errorf("roster = %v, want %v", view.roster, want)
	}
	if view.rosterSelf != "ana" {
		t.Errorf("roster self = %q, want %q", view.rosterSelf, "ana")
	}

	// Each roster frame fully replaces the previous one.
	d.HandleFrame([]byte(`{"type":"users","users":["bo"]}`))

	if want := []string{"bo"}; !reflect.DeepEqual(view.roster, want) {
		t.Errorf("roster after replacement = %v, want %v", view.roster, want)
	}
}

func TestChatAttribution(t *testing.T) {
	tests := []struct {
		name  string
		self  string
		frame string
		want  loggedMessage
	}{
		{
			name:  "own message",
			self:  "ana",
			frame: `{"type":"chat","username":"ana","content":"hi"}`,
			want:  loggedMessage{author: "ana", content: "hi", self: true},
		},
		{
			name:  "other user",
			self:  "ana",
			frame: `{"type":"chat","username":"bo","content":"hey"}`,
			want:  loggedMessage{author: "bo", content: "hey", self: false},
		},
		{
			name:  "no username becomes system",
			self:  "ana",
			frame: `{"type":"chat","content":"bo joined"}`,
			want:  loggedMessage{author: "System", content: "bo joined", self: false},
		},
		{
			name: "anonymous viewer never matches a system frame",
			self: "",
			// Username absent and current username empty must not read as self.
			frame: `{"type":"chat","content":"maintenance soon"}`,
			want:  loggedMessage{author: "System", content: "maintenance soon", self: false},
		},
		{
			name:  "empty content is still a message",
			self:  "ana",
			frame: `{"type":"chat","username":"bo","content":""}`,
			want:  loggedMessage{author: "bo", content: "", self: false},
		},
		{
			name:  "absent content renders empty",
			self:  "ana",
			frame: `{"type":"chat","username":"bo"}`,
			want:  loggedMessage{author: "bo", content: "", self: false},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			view := &fakeRoomView{}
			d := NewDispatcher(view, fakeIdentity{username: tc.self})

			d.HandleFrame([]byte(tc.frame))

			if len(view.messages) != 1 {
				t.Fatalf("appended %d messages, want 1", len(view.messages))
			}
			if got := view.messages[0]; got != tc.want {
				t.Errorf("message = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestMalformedFrameDropped(t *testing.T) {
	view := &fakeRoomView{}
	d := NewDispatcher(view, fakeIdentity{username: "ana"})

	d.HandleFrame([]byte(`{"type":"chat",`))

	if len(view.messages) != 0 {
		t.Fatalf("malformed frame produced %d messages", len(view.messages))
	}

	// The stream keeps working after a bad frame.
	d.HandleFrame([]byte(`{"type":"chat","username":"bo","content":"still here"}`))

	if len(view.messages) != 1 || view.messages[0].content != "still here" {
		t.Errorf("messages after recovery = %+v", view.messages)
	}
}

func TestUnknownKindIgnored(t *testing.T) {
	view := &fakeRoomView{}
	d := NewDispatcher(view, fakeIdentity{username: "ana"})

	d.HandleFrame([]byte(`{"type":"typing","username":"bo"}`))

	if len(view.messages) != 0 || view.roster != nil {
		t.Errorf("unknown kind touched the view: messages=%v roster=%v", view.messages, view.roster)
	}
}
