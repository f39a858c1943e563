package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
)

// Config holds the credentials accepted by the hosted application.
type Config struct {
	Username string
	Password string
}

// New returns basic auth middleware. With no username configured every
// request passes, which is the default for local test runs.
func New(cfg Config) fiber.Handler {
	if cfg.Username == "" {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}
	return basicauth.New(basicauth.Config{
		Users: map[string]string{cfg.Username: cfg.Password},
		Realm: "CMIS",
		Unauthorized: func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderWWWAuthenticate, `basic realm="CMIS"`)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"exception": "permissionDenied",
				"message":   "Authentication required",
			})
		},
	})
}
