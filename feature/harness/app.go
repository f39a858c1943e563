package harness

import (
	"io/fs"
	"strings"

	"cmis-harness/core/loader"
	"cmis-harness/core/logger"
	"cmis-harness/core/middleware/auth"
	"cmis-harness/core/middleware/rayid"
	"cmis-harness/feature/repository"
	"cmis-harness/feature/webapp"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// newApp builds the fiber application for one server instance advertising
// version. Apps are not reused across restarts.
func (h *Harness) newApp(version string) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "cmis-harness",
	})

	// RayID first so every log line and error carries it.
	app.Use(rayid.New())
	app.Use(h.metrics.Middleware())
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(h.logger, c)
		err := c.Next()
		l.Debug("Request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
		)
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Get("/metrics", h.metrics.Handler())

	contextPath := strings.TrimSuffix(h.cfg.Server.NormalizedContextPath(), "/")
	router := app.Group(contextPath, auth.New(auth.Config{
		Username: h.cfg.Server.Username,
		Password: h.cfg.Server.Password,
	}))

	repos := h.cfg.Repository.List()
	var files fs.FS
	source := ""
	if h.archive != nil {
		files = h.archive.FS()
		source = h.archive.Source
	}

	mgr := loader.NewManager()
	mgr.Register(repository.NewFeature(h.store, repository.Options{
		IDs:            repos,
		CMISVersion:    version,
		ProductVersion: Version,
	}, h.logger))
	mgr.Register(webapp.NewFeature(webapp.Options{
		Files:        files,
		Source:       source,
		Repositories: repos,
		CMISVersion:  version,
	}, h.logger))

	if err := mgr.LoadAll(router); err != nil {
		return nil, err
	}
	h.logger.Debug("Features loaded", zap.Strings("features", mgr.Enabled()))
	return app, nil
}
