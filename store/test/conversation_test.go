package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rayahq/raya/store"
)

func TestConversationCreateThenLoad(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	messages := []store.Message{
		{Role: store.RoleSystem, Content: "Raya initialized successfully."},
		{Role: store.RoleUser, Content: "hello"},
		{Role: store.RoleAssistant, Content: "hi there"},
	}
	conversation, err := ts.CreateConversation(ctx, "Raya Session", messages)
	require.NoError(t, err)
	require.NotZero(t, conversation.ID)
	require.NotEmpty(t, conversation.UID)
	require.NotEmpty(t, conversation.Timestamp)

	loaded, err := ts.GetConversationMessages(ctx, conversation.ID)
	require.NoError(t, err)
	require.Equal(t, messages, loaded)
}

func TestConversationLoadMissing(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	loaded, err := ts.GetConversationMessages(ctx, 12345)
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestConversationUpdate(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	initial := []store.Message{{Role: store.RoleSystem, Content: "ready"}}
	conversation, err := ts.CreateConversation(ctx, "Chat", initial)
	require.NoError(t, err)

	updated := append(initial,
		store.Message{Role: store.RoleUser, Content: "what's the weather"},
		store.Message{Role: store.RoleAssistant, Content: "sunny"},
	)
	require.NoError(t, ts.UpdateConversation(ctx, conversation.ID, updated))

	loaded, err := ts.GetConversationMessages(ctx, conversation.ID)
	require.NoError(t, err)
	require.Equal(t, updated, loaded)

	// Session name is carried through unchanged by updates.
	list, err := ts.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Chat", list[0].SessionName)
}

func TestConversationUpdateNotFound(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	err := ts.UpdateConversation(ctx, 999, []store.Message{{Role: store.RoleUser, Content: "hi"}})
	require.ErrorIs(t, err, store.ErrConversationNotFound)

	// No row was created by the failed update.
	list, err := ts.ListConversations(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestConversationDeleteIdempotence(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	conversation, err := ts.CreateConversation(ctx, "Chat", []store.Message{{Role: store.RoleSystem, Content: "ready"}})
	require.NoError(t, err)

	require.NoError(t, ts.DeleteConversation(ctx, conversation.ID))
	require.ErrorIs(t, ts.DeleteConversation(ctx, conversation.ID), store.ErrConversationNotFound)

	// Reads by the deleted id report not found, not stale data.
	loaded, err := ts.GetConversationMessages(ctx, conversation.ID)
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestConversationIDNotReused(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	first, err := ts.CreateConversation(ctx, "A", []store.Message{{Role: store.RoleSystem, Content: "ready"}})
	require.NoError(t, err)
	require.NoError(t, ts.DeleteConversation(ctx, first.ID))

	second, err := ts.CreateConversation(ctx, "B", []store.Message{{Role: store.RoleSystem, Content: "ready"}})
	require.NoError(t, err)
	require.Greater(t, second.ID, first.ID)
}

func TestConversationListOrdering(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	messages := []store.Message{{Role: store.RoleSystem, Content: "ready"}}
	for _, name := range []string{"A", "B", "C"} {
		_, err := ts.CreateConversation(ctx, name, messages)
		require.NoError(t, err)
	}

	list, err := ts.ListConversations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	// Creation order descending, not last-modified order.
	require.Equal(t, "C", list[0].SessionName)
	require.Equal(t, "B", list[1].SessionName)
	require.Equal(t, "A", list[2].SessionName)

	// Summaries carry no history.
	require.Nil(t, list[0].Messages)

	// Updating A must not change the ordering.
	require.NoError(t, ts.UpdateConversation(ctx, list[2].ID, messages))
	list, err = ts.ListConversations(ctx)
	require.NoError(t, err)
	require.Equal(t, "C", list[0].SessionName)
}
