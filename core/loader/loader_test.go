package loader

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(router fiber.Router) error {
	if s.err != nil {
		return s.err
	}
	s.loaded = true
	router.Get("/"+s.name, func(c *fiber.Ctx) error { return c.SendString(s.name) })
	return nil
}

func TestManager_LoadAll(t *testing.T) {
	on := &stubFeature{name: "repository", enabled: true}
	off := &stubFeature{name: "webapp", enabled: false}

	mgr := NewManager()
	mgr.Register(on)
	mgr.Register(off)

	app := fiber.New()
	require.NoError(t, mgr.LoadAll(app.Group("/cmis")))

	assert.True(t, on.loaded)
	assert.False(t, off.loaded)
	assert.Equal(t, []string{"repository"}, mgr.Enabled())

	resp, err := app.Test(httptest.NewRequest("GET", "/cmis/repository", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestManager_LoadAllError(t *testing.T) {
	mgr := NewManager()
	mgr.Register(&stubFeature{name: "broken", enabled: true, err: assert.AnError})

	err := mgr.LoadAll(fiber.New())
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to load feature broken")
}

func TestManager_Duplicate(t *testing.T) {
	mgr := NewManager()
	mgr.Register(&stubFeature{name: "repository", enabled: true})
	mgr.Register(&stubFeature{name: "repository", enabled: true})

	assert.EqualError(t, mgr.LoadAll(fiber.New()), "feature repository registered twice")
}
