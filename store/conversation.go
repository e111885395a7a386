package store

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// History blob tags. These are the only tags ever written, and the only tags
// recognized on load; anything else in a stored blob is dropped during
// reconstruction.
const (
	historyTagSystem    = "SystemMessage"
	historyTagUser      = "HumanMessage"
	historyTagAssistant = "AIMessage"
)

// Message is a single turn in a conversation.
type Message struct {
	Role    Role
	Content string
}

// Conversation is a persisted, named, timestamped sequence of messages.
// Messages is only populated when the conversation was read with history.
type Conversation struct {
	ID          int64
	UID         string
	SessionName string
	Timestamp   string
	Messages    []Message
}

type FindConversation struct {
	ID          *int64
	WithHistory bool
}

type UpdateConversation struct {
	ID        int64
	Messages  []Message
	Timestamp string
}

type DeleteConversation struct {
	ID int64
}

// ErrConversationNotFound is returned when an operation addresses a
// conversation id that does not exist. Callers treat it as a non-fatal
// status since it can race with a concurrent delete.
var ErrConversationNotFound = errors.New("conversation not found")

// TimestampLayout is the stored last-write time format.
const TimestampLayout = "2006-01-02 15:04:05"

// NowTimestamp returns the current time in the stored column format.
func NowTimestamp() string {
	return time.Now().Format(TimestampLayout)
}

// MarshalHistory serializes messages as a JSON array of [tag, content]
// pairs. Roles outside the closed set are skipped so that the blob always
// deserializes back to the same sequence.
func MarshalHistory(messages []Message) (string, error) {
	pairs := make([][2]string, 0, len(messages))
	for _, m := range messages {
		tag, ok := historyTag(m.Role)
		if !ok {
			continue
		}
		pairs = append(pairs, [2]string{tag, m.Content})
	}
	data, err := json.Marshal(pairs)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal history")
	}
	return string(data), nil
}

// UnmarshalHistory reconstructs a message sequence from a history blob.
// Entries with unrecognized tags are dropped, preserving the order of the
// rest. An empty blob yields an empty sequence.
func UnmarshalHistory(blob string) ([]Message, error) {
	messages := []Message{}
	if blob == "" {
		return messages, nil
	}
	var pairs [][2]string
	if err := json.Unmarshal([]byte(blob), &pairs); err != nil {
		return messages, errors.Wrap(err, "failed to unmarshal history")
	}
	for _, pair := range pairs {
		role, ok := historyRole(pair[0])
		if !ok {
			continue
		}
		messages = append(messages, Message{Role: role, Content: pair[1]})
	}
	return messages, nil
}

func historyTag(role Role) (string, bool) {
	switch role {
	case RoleSystem:
		return historyTagSystem, true
	case RoleUser:
		return historyTagUser, true
	case RoleAssistant:
		return historyTagAssistant, true
	}
	return "", false
}

func historyRole(tag string) (Role, bool) {
	switch tag {
	case historyTagSystem:
		return RoleSystem, true
	case historyTagUser:
		return RoleUser, true
	case historyTagAssistant:
		return RoleAssistant, true
	}
	return "", false
}
