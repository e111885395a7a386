// Package chat owns the in-memory session state and the rules that map it
// onto durable conversation records.
//
// A session is either UN-ATTACHED (no conversation id) or ATTACHED to the id
// it persists into. Every completed turn triggers exactly one persist: an
// update when attached, otherwise a create that attaches the session to the
// returned id. Selecting a stored conversation replaces the in-memory history
// wholesale; deleting the attached conversation detaches the session so a
// later persist can never resurrect the deleted id.
package chat

import (
	"fmt"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/rayahq/raya/store"
)

// systemGreeting is the synthetic first message every fresh session starts
// with, mirroring what ends up as the stored system turn.
const systemGreeting = "Raya initialized successfully."

// Session is the per-interaction state tracking which conversation (if any)
// is currently attached. It is an explicit value threaded through the turn
// handlers, never ambient state.
type Session struct {
	// UID identifies the session to the browser. It is unrelated to any
	// stored conversation id.
	UID string
	// DisplayName is the session label used as the conversation name on
	// first persist.
	DisplayName string
	// ConversationID is the attachment point; zero means un-attached.
	ConversationID int64
	// Messages is the ordered in-memory transcript, always starting with
	// the synthetic system message.
	Messages []store.Message
}

// NewSession returns a fresh un-attached session holding only the synthetic
// system message.
func NewSession() *Session {
	return &Session{
		UID:         shortuuid.New(),
		DisplayName: fmt.Sprintf("Chat %s", time.Now().Format(store.TimestampLayout)),
		Messages:    []store.Message{{Role: store.RoleSystem, Content: systemGreeting}},
	}
}

// Attached reports whether the session persists into an existing record.
func (s *Session) Attached() bool {
	return s.ConversationID != 0
}

// reset returns the session to the un-attached state with a fresh transcript.
func (s *Session) reset() {
	s.ConversationID = 0
	s.Messages = []store.Message{{Role: store.RoleSystem, Content: systemGreeting}}
}
