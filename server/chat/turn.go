package chat

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/rayahq/raya/internal/observability"
	"github.com/rayahq/raya/store"
)

// TurnResult is the outcome of one completed user/assistant turn.
type TurnResult struct {
	Reply          string
	ConversationID int64
	// Created is true when this turn's persist inserted a new conversation
	// (the session was un-attached before).
	Created bool
}

// Turn runs one complete turn: append the user message, obtain the reply,
// append it, then persist exactly once. On LLM failure the user message stays
// appended, nothing is persisted, and the error is returned as a recoverable
// per-turn failure.
func (m *Manager) Turn(ctx context.Context, uid string, text string) (*TurnResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[uid]
	if !ok {
		return nil, ErrSessionNotFound
	}

	reqCtx := observability.NewRequestContext(slog.Default(), session.UID)
	ctx = observability.WithRequestContext(ctx, reqCtx)

	session.Messages = append(session.Messages, store.Message{Role: store.RoleUser, Content: text})

	reply, err := m.llm.Complete(ctx, session.Messages)
	if err != nil {
		reqCtx.Error("chat completion failed", err)
		return nil, errors.Wrap(err, "chat completion failed")
	}
	session.Messages = append(session.Messages, store.Message{Role: store.RoleAssistant, Content: reply})

	result := &TurnResult{Reply: reply}
	if session.Attached() {
		err := m.store.UpdateConversation(ctx, session.ConversationID, session.Messages)
		if errors.Is(err, store.ErrConversationNotFound) {
			// The attached record was deleted underneath us. Detach and fall
			// through to create, never resurrecting the old id.
			reqCtx.Warn("attached conversation is gone, creating a new one",
				slog.Int64(observability.LogFieldConversationID, session.ConversationID))
			session.ConversationID = 0
		} else if err != nil {
			return nil, err
		}
	}
	if !session.Attached() {
		conversation, err := m.store.CreateConversation(ctx, session.DisplayName, session.Messages)
		if err != nil {
			return nil, err
		}
		session.ConversationID = conversation.ID
		result.Created = true
	}
	result.ConversationID = session.ConversationID

	reqCtx.Info("turn completed",
		slog.Int64(observability.LogFieldConversationID, session.ConversationID),
		slog.Int("message_count", len(session.Messages)),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	return result, nil
}
