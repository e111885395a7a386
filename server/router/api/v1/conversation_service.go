package v1

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/rayahq/raya/server/chat"
	"github.com/rayahq/raya/store"
)

type conversationSummary struct {
	ID          int64  `json:"id"`
	UID         string `json:"uid"`
	SessionName string `json:"sessionName"`
	Timestamp   string `json:"timestamp"`
}

// ListConversations returns summaries of all stored conversations, most
// recently created first.
//
// GET /api/v1/conversations
func (s *APIV1Service) ListConversations(c echo.Context) error {
	conversations, err := s.Store.ListConversations(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list conversations")
	}

	summaries := make([]conversationSummary, 0, len(conversations))
	for _, conversation := range conversations {
		summaries = append(summaries, conversationSummary{
			ID:          conversation.ID,
			UID:         conversation.UID,
			SessionName: conversation.SessionName,
			Timestamp:   conversation.Timestamp,
		})
	}
	return c.JSON(http.StatusOK, summaries)
}

type deleteConversationResponse struct {
	Found bool `json:"found"`
}

// DeleteConversation removes a conversation permanently. A missing id is a
// non-fatal status (it can race a concurrent delete), reported in the body
// rather than as an error. When the optional session query parameter names a
// session attached to this conversation, that session is detached and reset.
//
// DELETE /api/v1/conversations/:id?session=<uid>
func (s *APIV1Service) DeleteConversation(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed conversation id")
	}

	ctx := c.Request().Context()
	if sessionUID := c.QueryParam("session"); sessionUID != "" {
		err = s.Chat.Delete(ctx, sessionUID, id)
		if errors.Is(err, chat.ErrSessionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
	} else {
		err = s.Store.DeleteConversation(ctx, id)
	}

	if errors.Is(err, store.ErrConversationNotFound) {
		return c.JSON(http.StatusOK, deleteConversationResponse{Found: false})
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete conversation")
	}
	return c.JSON(http.StatusOK, deleteConversationResponse{Found: true})
}
