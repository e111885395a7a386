package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/rayahq/raya/internal/markdown"
	"github.com/rayahq/raya/server/chat"
	"github.com/rayahq/raya/store"
)

type messagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	// HTML is the rendered markdown for assistant turns.
	HTML string `json:"html,omitempty"`
}

type sessionResponse struct {
	UID            string           `json:"uid"`
	DisplayName    string           `json:"displayName"`
	ConversationID int64            `json:"conversationId"`
	Messages       []messagePayload `json:"messages"`
}

func toSessionResponse(s *chat.Session) *sessionResponse {
	resp := &sessionResponse{
		UID:            s.UID,
		DisplayName:    s.DisplayName,
		ConversationID: s.ConversationID,
		Messages:       toMessagePayloads(s.Messages),
	}
	return resp
}

func toMessagePayloads(messages []store.Message) []messagePayload {
	payloads := make([]messagePayload, 0, len(messages))
	for _, m := range messages {
		payload := messagePayload{Role: string(m.Role), Content: m.Content}
		if m.Role == store.RoleAssistant {
			if html, err := markdown.ToHTML(m.Content); err == nil {
				payload.HTML = html
			}
		}
		payloads = append(payloads, payload)
	}
	return payloads
}

// CreateSession starts a fresh un-attached session.
//
// POST /api/v1/sessions
func (s *APIV1Service) CreateSession(c echo.Context) error {
	session := s.Chat.StartSession()
	return c.JSON(http.StatusOK, toSessionResponse(session))
}

// GetSession returns the current session state.
//
// GET /api/v1/sessions/:uid
func (s *APIV1Service) GetSession(c echo.Context) error {
	session, err := s.Chat.GetSession(c.Param("uid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.JSON(http.StatusOK, toSessionResponse(session))
}

type selectConversationRequest struct {
	ConversationID int64 `json:"conversationId"`
}

// SelectConversation re-attaches the session to a stored conversation,
// replacing its in-memory history with the loaded one.
//
// POST /api/v1/sessions/:uid/select
func (s *APIV1Service) SelectConversation(c echo.Context) error {
	var req selectConversationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}

	session, err := s.Chat.Select(c.Request().Context(), c.Param("uid"), req.ConversationID)
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load conversation")
	}
	return c.JSON(http.StatusOK, toSessionResponse(session))
}

type createMessageRequest struct {
	Text string `json:"text"`
}

type createMessageResponse struct {
	Reply          string `json:"reply"`
	ReplyHTML      string `json:"replyHtml"`
	ConversationID int64  `json:"conversationId"`
	Created        bool   `json:"created"`
}

// CreateMessage runs one chat turn. An LLM failure is a recoverable per-turn
// failure: the user message stays in the session, nothing is persisted, and
// the client gets an error to display.
//
// POST /api/v1/sessions/:uid/messages
func (s *APIV1Service) CreateMessage(c echo.Context) error {
	var req createMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message text is required")
	}

	result, err := s.Chat.Turn(c.Request().Context(), c.Param("uid"), text)
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "session not found")
		}
		return echo.NewHTTPError(http.StatusBadGateway, "assistant is unavailable, try again")
	}

	resp := &createMessageResponse{
		Reply:          result.Reply,
		ConversationID: result.ConversationID,
		Created:        result.Created,
	}
	if html, err := markdown.ToHTML(result.Reply); err == nil {
		resp.ReplyHTML = html
	}
	return c.JSON(http.StatusOK, resp)
}
