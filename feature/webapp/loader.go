package webapp

import (
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"go.uber.org/zap"
)

// Options configures the web application feature.
type Options struct {
	// Files is the archive content, nil when no archive is configured.
	Files fs.FS
	// Source names the archive in the landing document and logs.
	Source       string
	Repositories []string
	CMISVersion  string
}

// Feature implements the loader.Feature interface.
type Feature struct {
	opts    Options
	handler *Handler
	logger  *zap.Logger
}

// NewFeature creates the web application feature.
func NewFeature(opts Options, logger *zap.Logger) *Feature {
	landing := Landing{
		Status:       "running",
		Repositories: opts.Repositories,
		CMISVersion:  opts.CMISVersion,
		Archive:      opts.Source,
	}
	return &Feature{
		opts:    opts,
		handler: NewHandler(opts.Files, landing),
		logger:  logger,
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "webapp"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the context root and, with an archive, its static files.
// It must be loaded after features that own explicit routes.
func (f *Feature) Load(router fiber.Router) error {
	f.handler.RegisterRoutes(router)
	if f.opts.Files == nil {
		return nil
	}

	router.Use(filesystem.New(filesystem.Config{
		Root:   http.FS(f.opts.Files),
		Browse: false,
		Index:  "index.html",
	}))
	f.logger.Debug("Serving web archive", zap.String("source", f.opts.Source))
	return nil
}
