package rayid

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(New())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalsKey).(string))
	})
	return app
}

func TestNew_Generates(t *testing.T) {
	resp, err := newApp().Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	id := resp.Header.Get(Header)
	_, parseErr := uuid.Parse(id)
	assert.NoError(t, parseErr)
}

func TestNew_KeepsIncoming(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(Header, "suite-A-42")

	resp, err := newApp().Test(req)
	require.NoError(t, err)
	assert.Equal(t, "suite-A-42", resp.Header.Get(Header))
}
