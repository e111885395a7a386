package sqlite

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/rayahq/raya/store"
)

func (d *DB) CreateConversation(ctx context.Context, create *store.Conversation) (*store.Conversation, error) {
	history, err := store.MarshalHistory(create.Messages)
	if err != nil {
		return nil, err
	}

	fields := []string{"uid", "session_name", "timestamp", "history"}
	args := []any{create.UID, create.SessionName, create.Timestamp, history}

	stmt := `INSERT INTO conversation (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID); err != nil {
		return nil, errors.Wrap(err, "failed to create conversation")
	}

	return create, nil
}

func (d *DB) ListConversations(ctx context.Context, find *store.FindConversation) ([]*store.Conversation, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "conversation.id = "+placeholder(len(args)+1)), append(args, *v)
	}

	columns := "id, uid, session_name, timestamp"
	if find.WithHistory {
		columns += ", history"
	}

	query := `SELECT ` + columns + ` FROM conversation WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id DESC`
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query conversations")
	}
	defer rows.Close()

	list := make([]*store.Conversation, 0)
	for rows.Next() {
		var conversation store.Conversation
		dests := []any{
			&conversation.ID,
			&conversation.UID,
			&conversation.SessionName,
			&conversation.Timestamp,
		}
		var history string
		if find.WithHistory {
			dests = append(dests, &history)
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, errors.Wrap(err, "failed to scan conversation")
		}
		if find.WithHistory {
			messages, err := store.UnmarshalHistory(history)
			if err != nil {
				// A corrupt blob degrades to an empty history instead of
				// failing the whole read.
				slog.Warn("failed to deserialize conversation history",
					slog.Int64("id", conversation.ID),
					slog.String("error", err.Error()))
			}
			conversation.Messages = messages
		}
		list = append(list, &conversation)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate conversations")
	}

	return list, nil
}

func (d *DB) UpdateConversation(ctx context.Context, update *store.UpdateConversation) error {
	history, err := store.MarshalHistory(update.Messages)
	if err != nil {
		return err
	}

	stmt := `UPDATE conversation SET history = ` + placeholder(1) + `, timestamp = ` + placeholder(2) + ` WHERE id = ` + placeholder(3)
	result, err := d.db.ExecContext(ctx, stmt, history, update.Timestamp, update.ID)
	if err != nil {
		return errors.Wrap(err, "failed to update conversation")
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return store.ErrConversationNotFound
	}

	return nil
}

func (d *DB) DeleteConversation(ctx context.Context, delete *store.DeleteConversation) error {
	stmt := `DELETE FROM conversation WHERE id = ` + placeholder(1)
	result, err := d.db.ExecContext(ctx, stmt, delete.ID)
	if err != nil {
		return errors.Wrap(err, "failed to delete conversation")
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return store.ErrConversationNotFound
	}

	return nil
}
