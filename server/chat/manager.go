package chat

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkg/errors"

	"github.com/rayahq/raya/store"
)

// ConversationStore is the narrow persistence interface the chat layer
// needs. *store.Store satisfies it.
type ConversationStore interface {
	CreateConversation(ctx context.Context, sessionName string, messages []store.Message) (*store.Conversation, error)
	UpdateConversation(ctx context.Context, id int64, messages []store.Message) error
	GetConversationMessages(ctx context.Context, id int64) ([]store.Message, error)
	DeleteConversation(ctx context.Context, id int64) error
}

// Completer is the LLM collaborator interface.
type Completer interface {
	Complete(ctx context.Context, messages []store.Message) (string, error)
}

// ErrSessionNotFound is returned when a session uid is unknown, typically
// after a server restart.
var ErrSessionNotFound = errors.New("session not found")

// Manager keeps the live sessions and dispatches each user action (new,
// select, delete, submit) as one explicit state transition followed by at
// most one persistence side effect.
//
// All session operations run under a single mutex: operations within one
// session are strictly sequential, and the product scope (one interactive
// user) does not call for anything finer. Writes from other processes to the
// same database race last-writer-wins, as the store documents.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	store ConversationStore
	llm   Completer
}

// NewManager creates a session manager.
func NewManager(conversations ConversationStore, llm Completer) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		store:    conversations,
		llm:      llm,
	}
}

// StartSession creates and registers a fresh un-attached session.
func (m *Manager) StartSession() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := NewSession()
	m.sessions[session.UID] = session
	slog.Debug("session started", slog.String("session_uid", session.UID))
	return session
}

// GetSession returns the session for the given uid.
func (m *Manager) GetSession(uid string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[uid]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Select attaches the session to a stored conversation, replacing the
// in-memory history wholesale with the loaded one. Histories are never
// merged.
func (m *Manager) Select(ctx context.Context, uid string, conversationID int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[uid]
	if !ok {
		return nil, ErrSessionNotFound
	}

	messages, err := m.store.GetConversationMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	session.ConversationID = conversationID
	session.Messages = messages
	return session, nil
}

// Delete removes a stored conversation. When the session is attached to that
// same conversation it transitions back to un-attached with a fresh
// transcript, so a subsequent turn creates a brand-new record instead of
// updating the deleted one. A not-found result is reported to the caller but
// the detach still happens; the delete may have raced another session.
func (m *Manager) Delete(ctx context.Context, uid string, conversationID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[uid]
	if !ok {
		return ErrSessionNotFound
	}

	err := m.store.DeleteConversation(ctx, conversationID)
	if err != nil && !errors.Is(err, store.ErrConversationNotFound) {
		return err
	}
	if session.ConversationID == conversationID {
		session.reset()
	}
	return err
}
