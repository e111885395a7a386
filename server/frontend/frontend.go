// Package frontend serves the embedded single-page chat UI.
package frontend

import (
	"embed"

	"github.com/labstack/echo/v4"

	"github.com/rayahq/raya/internal/profile"
)

//go:embed dist
var distFS embed.FS

type FrontendService struct {
	Profile *profile.Profile
}

func NewFrontendService(profile *profile.Profile) *FrontendService {
	return &FrontendService{Profile: profile}
}

// Serve registers the embedded page on the Echo instance.
func (f *FrontendService) Serve(e *echo.Echo) {
	dist := echo.MustSubFS(distFS, "dist")
	e.FileFS("/", "index.html", dist)
	e.StaticFS("/", dist)
}
