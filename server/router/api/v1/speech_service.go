package v1

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type recognizeResponse struct {
	Text    string `json:"text"`
	Matched bool   `json:"matched"`
	Notice  string `json:"notice,omitempty"`
}

// RecognizeSpeech transcribes an uploaded audio clip. A no-match or service
// error never fails the request; the client shows the notice and the session
// simply gets no input for that attempt.
//
// POST /api/v1/speech/recognize (multipart field "audio")
func (s *APIV1Service) RecognizeSpeech(c echo.Context) error {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "audio file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "failed to read audio file")
	}
	defer file.Close()

	text, err := s.Recognizer.Recognize(c.Request().Context(), file, fileHeader.Filename)
	if err != nil {
		slog.Warn("speech recognition failed", slog.String("error", err.Error()))
		return c.JSON(http.StatusOK, recognizeResponse{Notice: "Sorry, I couldn't hear properly."})
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return c.JSON(http.StatusOK, recognizeResponse{Notice: "Sorry, I couldn't hear properly."})
	}
	return c.JSON(http.StatusOK, recognizeResponse{Text: text, Matched: true})
}

type synthesizeRequest struct {
	Text string `json:"text"`
}

// SynthesizeSpeech renders reply text as MP3 audio. Failure is surfaced as a
// non-fatal notice for the client to toast; it never aborts the session.
//
// POST /api/v1/speech/synthesize
func (s *APIV1Service) SynthesizeSpeech(c echo.Context) error {
	var req synthesizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}

	audio, err := s.Synthesizer.Synthesize(c.Request().Context(), req.Text)
	if err != nil {
		slog.Warn("speech synthesis failed", slog.String("error", err.Error()))
		return echo.NewHTTPError(http.StatusBadGateway, "speech synthesis is unavailable")
	}
	return c.Blob(http.StatusOK, "audio/mpeg", audio)
}
