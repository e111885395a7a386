package chat

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/rayahq/raya/store"
)

// fakeStore is an in-memory ConversationStore.
type fakeStore struct {
	nextID        int64
	conversations map[int64]*store.Conversation
}

func newFakeStore() *fakeStore {
	return &fakeStore{conversations: make(map[int64]*store.Conversation)}
}

func (f *fakeStore) CreateConversation(_ context.Context, sessionName string, messages []store.Message) (*store.Conversation, error) {
	f.nextID++
	conversation := &store.Conversation{
		ID:          f.nextID,
		SessionName: sessionName,
		Timestamp:   store.NowTimestamp(),
		Messages:    append([]store.Message(nil), messages...),
	}
	f.conversations[conversation.ID] = conversation
	return conversation, nil
}

func (f *fakeStore) UpdateConversation(_ context.Context, id int64, messages []store.Message) error {
	conversation, ok := f.conversations[id]
	if !ok {
		return store.ErrConversationNotFound
	}
	conversation.Messages = append([]store.Message(nil), messages...)
	return nil
}

func (f *fakeStore) GetConversationMessages(_ context.Context, id int64) ([]store.Message, error) {
	conversation, ok := f.conversations[id]
	if !ok {
		return []store.Message{}, nil
	}
	return append([]store.Message(nil), conversation.Messages...), nil
}

func (f *fakeStore) DeleteConversation(_ context.Context, id int64) error {
	if _, ok := f.conversations[id]; !ok {
		return store.ErrConversationNotFound
	}
	delete(f.conversations, id)
	return nil
}

// fakeCompleter replies with a fixed string, or fails when err is set.
type fakeCompleter struct {
	reply string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(_ context.Context, _ []store.Message) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func TestFirstTurnAttachesSession(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	m := NewManager(fs, &fakeCompleter{reply: "hi!"})

	session := m.StartSession()
	require.False(t, session.Attached())
	require.Len(t, session.Messages, 1)
	require.Equal(t, store.RoleSystem, session.Messages[0].Role)

	result, err := m.Turn(ctx, session.UID, "hello")
	require.NoError(t, err)
	require.True(t, result.Created)
	require.True(t, session.Attached())
	require.Equal(t, session.ConversationID, result.ConversationID)

	// The stored history is the system greeting plus the completed turn.
	messages, err := fs.GetConversationMessages(ctx, result.ConversationID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	require.Equal(t, "hello", messages[1].Content)
	require.Equal(t, "hi!", messages[2].Content)
}

func TestSecondTurnUpdatesNotCreates(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	m := NewManager(fs, &fakeCompleter{reply: "sure"})

	session := m.StartSession()
	first, err := m.Turn(ctx, session.UID, "one")
	require.NoError(t, err)
	second, err := m.Turn(ctx, session.UID, "two")
	require.NoError(t, err)

	require.True(t, first.Created)
	require.False(t, second.Created)
	require.Equal(t, first.ConversationID, second.ConversationID)
	require.Len(t, fs.conversations, 1)

	messages, err := fs.GetConversationMessages(ctx, first.ConversationID)
	require.NoError(t, err)
	require.Len(t, messages, 5)
}

func TestTurnLLMFailureDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	completer := &fakeCompleter{err: errors.New("quota exceeded")}
	m := NewManager(fs, completer)

	session := m.StartSession()
	_, err := m.Turn(ctx, session.UID, "hello")
	require.Error(t, err)

	// The user message stays appended, but nothing was persisted and the
	// session stays un-attached.
	require.Len(t, session.Messages, 2)
	require.Equal(t, store.RoleUser, session.Messages[1].Role)
	require.False(t, session.Attached())
	require.Empty(t, fs.conversations)
}

func TestSelectReplacesHistoryWholesale(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	m := NewManager(fs, &fakeCompleter{reply: "ok"})

	stored, err := fs.CreateConversation(ctx, "Old Chat", []store.Message{
		{Role: store.RoleSystem, Content: "ready"},
		{Role: store.RoleUser, Content: "old question"},
		{Role: store.RoleAssistant, Content: "old answer"},
	})
	require.NoError(t, err)

	session := m.StartSession()
	_, err = m.Turn(ctx, session.UID, "unrelated")
	require.NoError(t, err)

	selected, err := m.Select(ctx, session.UID, stored.ID)
	require.NoError(t, err)
	require.Equal(t, stored.ID, selected.ConversationID)
	// Never merged: only the loaded history remains.
	require.Len(t, selected.Messages, 3)
	require.Equal(t, "old question", selected.Messages[1].Content)
}

func TestDeleteAttachedResetsSession(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	m := NewManager(fs, &fakeCompleter{reply: "ok"})

	session := m.StartSession()
	result, err := m.Turn(ctx, session.UID, "hello")
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, session.UID, result.ConversationID))
	require.False(t, session.Attached())
	require.Len(t, session.Messages, 1)

	// A subsequent turn creates a brand-new record rather than updating the
	// deleted one.
	next, err := m.Turn(ctx, session.UID, "again")
	require.NoError(t, err)
	require.True(t, next.Created)
	require.NotEqual(t, result.ConversationID, next.ConversationID)
}

func TestDeleteOtherConversationKeepsAttachment(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	m := NewManager(fs, &fakeCompleter{reply: "ok"})

	other, err := fs.CreateConversation(ctx, "Other", []store.Message{{Role: store.RoleSystem, Content: "ready"}})
	require.NoError(t, err)

	session := m.StartSession()
	result, err := m.Turn(ctx, session.UID, "hello")
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, session.UID, other.ID))
	require.Equal(t, result.ConversationID, session.ConversationID)
	require.Len(t, session.Messages, 3)
}

func TestDeleteMissingIsNonFatal(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	m := NewManager(fs, &fakeCompleter{reply: "ok"})

	session := m.StartSession()
	err := m.Delete(ctx, session.UID, 42)
	require.ErrorIs(t, err, store.ErrConversationNotFound)
}

func TestTurnRecreatesWhenAttachedRecordVanished(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	m := NewManager(fs, &fakeCompleter{reply: "ok"})

	session := m.StartSession()
	first, err := m.Turn(ctx, session.UID, "hello")
	require.NoError(t, err)

	// Simulate another process deleting the record out from under us.
	require.NoError(t, fs.DeleteConversation(ctx, first.ConversationID))

	second, err := m.Turn(ctx, session.UID, "still there?")
	require.NoError(t, err)
	require.True(t, second.Created)
	require.NotEqual(t, first.ConversationID, second.ConversationID)
}

func TestUnknownSession(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newFakeStore(), &fakeCompleter{reply: "ok"})

	_, err := m.Turn(ctx, "missing", "hello")
	require.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Select(ctx, "missing", 1)
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.ErrorIs(t, m.Delete(ctx, "missing", 1), ErrSessionNotFound)
	_, err = m.GetSession("missing")
	require.ErrorIs(t, err, ErrSessionNotFound)
}
