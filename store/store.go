package store

import (
	"context"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/rayahq/raya/internal/profile"
)

// Store provides database access to conversation records. It is the sole
// authority on id assignment and on whether a persist is an insert or an
// update. Every operation is a single statement against the driver; there is
// no caching layer, so lists and loads always reflect the latest writes.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

// CreateConversation inserts a new conversation with a server-assigned id and
// the current timestamp, and returns the stored record. The caller must keep
// the returned id as its attachment point for subsequent persists; dropping
// it causes silent duplicate-record creation.
func (s *Store) CreateConversation(ctx context.Context, sessionName string, messages []Message) (*Conversation, error) {
	create := &Conversation{
		UID:         shortuuid.New(),
		SessionName: sessionName,
		Timestamp:   NowTimestamp(),
		Messages:    messages,
	}
	conversation, err := s.driver.CreateConversation(ctx, create)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create conversation")
	}
	return conversation, nil
}

// UpdateConversation overwrites an existing conversation's history and
// timestamp in place. The session name and id are unchanged. Returns
// ErrConversationNotFound when the id does not exist.
func (s *Store) UpdateConversation(ctx context.Context, id int64, messages []Message) error {
	return s.driver.UpdateConversation(ctx, &UpdateConversation{
		ID:        id,
		Messages:  messages,
		Timestamp: NowTimestamp(),
	})
}

// ListConversations returns summaries of all conversations, most recently
// created first. Histories are not populated.
func (s *Store) ListConversations(ctx context.Context) ([]*Conversation, error) {
	return s.driver.ListConversations(ctx, &FindConversation{})
}

// GetConversationMessages returns the deserialized message sequence for a
// conversation, or an empty sequence when the id does not exist.
func (s *Store) GetConversationMessages(ctx context.Context, id int64) ([]Message, error) {
	list, err := s.driver.ListConversations(ctx, &FindConversation{ID: &id, WithHistory: true})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load conversation")
	}
	if len(list) == 0 {
		return []Message{}, nil
	}
	return list[0].Messages, nil
}

// DeleteConversation removes a conversation permanently. Returns
// ErrConversationNotFound when the id does not exist; callers must treat
// that as non-fatal since it can race with a concurrent delete.
func (s *Store) DeleteConversation(ctx context.Context, id int64) error {
	return s.driver.DeleteConversation(ctx, &DeleteConversation{ID: id})
}
