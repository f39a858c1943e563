package repository

import (
	"errors"
	"strings"

	"cmis-harness/core/logger"
	"cmis-harness/core/utils"
	"cmis-harness/feature/types"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Selectors and actions understood by the browser binding routes.
const (
	SelectorRepositoryInfo = "repositoryInfo"
	SelectorTypeDefinition = "typeDefinition"
	SelectorTypeChildren   = "typeChildren"
	ActionCreateType       = "createType"
)

// Handler serves the browser binding fixture endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the browser binding routes.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	group := router.Group("/browser")
	group.Get("/", h.HandleRepositories)
	group.Get("/:repo", h.HandleGet)
	group.Post("/:repo", h.HandlePost)
}

// HandleRepositories returns every repository info keyed by id.
func (h *Handler) HandleRepositories(c *fiber.Ctx) error {
	return c.JSON(h.service.RepositoryInfos(endpoint(c)))
}

// HandleGet dispatches on cmisselector.
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	repo := c.Params("repo")
	ctx := c.UserContext()

	switch selector := c.Query("cmisselector", SelectorRepositoryInfo); selector {
	case SelectorRepositoryInfo:
		info, err := h.service.RepositoryInfo(repo, endpoint(c))
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(map[string]RepositoryInfo{repo: info})

	case SelectorTypeDefinition:
		typeID := c.Query("typeId")
		if typeID == "" {
			return invalidArgument(c, "typeId is required")
		}
		def, err := h.service.TypeDefinition(ctx, repo, typeID)
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(def)

	case SelectorTypeChildren:
		children, err := h.service.TypeChildren(ctx, repo, c.Query("typeId"))
		if err != nil {
			return h.fail(c, err)
		}
		if !utils.ToBool(c.Query("includePropertyDefinitions")) {
			for i := range children {
				children[i].PropertyDefinitions = nil
			}
		}
		return c.JSON(TypeChildren{Types: children, NumItems: len(children)})

	default:
		return invalidArgument(c, "unsupported cmisselector "+selector)
	}
}

// HandlePost dispatches on cmisaction.
func (h *Handler) HandlePost(c *fiber.Ctx) error {
	repo := c.Params("repo")

	switch action := c.FormValue("cmisaction"); action {
	case ActionCreateType:
		raw := c.FormValue("type")
		if strings.TrimSpace(raw) == "" {
			return invalidArgument(c, "type is required")
		}
		var def types.TypeDefinition
		if err := json.Unmarshal([]byte(raw), &def); err != nil {
			return invalidArgument(c, "type is not valid JSON: "+err.Error())
		}

		created, err := h.service.CreateType(c.UserContext(), repo, def)
		if err != nil {
			return h.fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)

	default:
		return invalidArgument(c, "unsupported cmisaction "+action)
	}
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status, exception := fiber.StatusInternalServerError, "runtime"
	switch {
	case errors.Is(err, ErrRepositoryNotFound), errors.Is(err, ErrTypeNotFound):
		status, exception = fiber.StatusNotFound, "objectNotFound"
	case errors.Is(err, ErrTypeExists):
		status, exception = fiber.StatusConflict, "constraint"
	case errors.Is(err, ErrInvalidType):
		status, exception = fiber.StatusBadRequest, "invalidArgument"
	default:
		logger.WithRayID(h.service.logger, c).Error("Repository request failed",
			zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"exception": exception,
		"message":   err.Error(),
	})
}

func invalidArgument(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"exception": "invalidArgument",
		"message":   msg,
	})
}

// endpoint rebuilds the browser binding URL the request was addressed to.
func endpoint(c *fiber.Ctx) string {
	path := c.Path()
	if i := strings.Index(path, "/browser"); i >= 0 {
		path = path[:i+len("/browser")]
	}
	return c.BaseURL() + path
}
