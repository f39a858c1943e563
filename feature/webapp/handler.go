package webapp

import (
	"io/fs"

	"github.com/gofiber/fiber/v2"
)

// Landing is the context root document served when the archive has no index page.
type Landing struct {
	Status       string   `json:"status"`
	Repositories []string `json:"repositories"`
	CMISVersion  string   `json:"cmisVersion"`
	Archive      string   `json:"archive,omitempty"`
}

// Handler answers the context root.
type Handler struct {
	files   fs.FS
	landing Landing
}

// NewHandler creates a new HTTP handler. files may be nil.
func NewHandler(files fs.FS, landing Landing) *Handler {
	return &Handler{files: files, landing: landing}
}

// RegisterRoutes registers the context root route.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleRoot)
}

// HandleRoot serves index.html from the archive, or the JSON landing document.
func (h *Handler) HandleRoot(c *fiber.Ctx) error {
	if h.files != nil {
		if page, err := fs.ReadFile(h.files, "index.html"); err == nil {
			c.Type("html")
			return c.Send(page)
		}
	}
	return c.JSON(h.landing)
}
