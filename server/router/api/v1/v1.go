// Package v1 exposes the REST surface consumed by the embedded chat page:
// session lifecycle, conversation CRUD, one chat-turn endpoint, and the
// speech collaborators.
package v1

import (
	"github.com/labstack/echo/v4"

	"github.com/rayahq/raya/internal/profile"
	"github.com/rayahq/raya/server/chat"
	"github.com/rayahq/raya/server/middleware"
	"github.com/rayahq/raya/server/speech"
	"github.com/rayahq/raya/store"
)

type APIV1Service struct {
	Profile     *profile.Profile
	Store       *store.Store
	Chat        *chat.Manager
	Recognizer  *speech.Recognizer
	Synthesizer *speech.Synthesizer

	rateLimiter *middleware.RateLimiter
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, chatManager *chat.Manager, recognizer *speech.Recognizer, synthesizer *speech.Synthesizer) *APIV1Service {
	return &APIV1Service{
		Profile:     profile,
		Store:       store,
		Chat:        chatManager,
		Recognizer:  recognizer,
		Synthesizer: synthesizer,
		rateLimiter: middleware.NewRateLimiter(),
	}
}

// RegisterRoutes registers the API routes on the given Echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1", s.rateLimiter.Middleware())

	g.POST("/sessions", s.CreateSession)
	g.GET("/sessions/:uid", s.GetSession)
	g.POST("/sessions/:uid/select", s.SelectConversation)
	g.POST("/sessions/:uid/messages", s.CreateMessage)

	g.GET("/conversations", s.ListConversations)
	g.DELETE("/conversations/:id", s.DeleteConversation)

	g.POST("/speech/recognize", s.RecognizeSpeech)
	g.POST("/speech/synthesize", s.SynthesizeSpeech)
}
