package auth

import (
	"encoding/base64"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(cfg Config) *fiber.App {
	app := fiber.New()
	app.Use(New(cfg))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestNew_Disabled(t *testing.T) {
	resp, err := newApp(Config{}).Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestNew_BasicAuth(t *testing.T) {
	app := newApp(Config{Username: "test", Password: "test"})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"Missing", "", fiber.StatusUnauthorized},
		{"Wrong", "Basic " + base64.StdEncoding.EncodeToString([]byte("test:nope")), fiber.StatusUnauthorized},
		{"Valid", "Basic " + base64.StdEncoding.EncodeToString([]byte("test:test")), fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
