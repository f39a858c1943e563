package session_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"cmis-harness/core/middleware/auth"
	"cmis-harness/core/server"
	"cmis-harness/feature/repository"
	"cmis-harness/feature/session"
	"cmis-harness/feature/types"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// serve runs the repository feature on an ephemeral port and returns the
// browser binding endpoint.
func serve(t *testing.T, creds auth.Config) string {
	t.Helper()
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(auth.New(creds))
	feature := repository.NewFeature(repository.NewMemoryStore(),
		repository.Options{IDs: []string{"A1", "B2"}}, zap.NewNop())
	require.NoError(t, feature.Load(app.Group("/cmis")))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return fmt.Sprintf("http://127.0.0.1:%d/cmis/%s", ln.Addr().(*net.TCPAddr).Port, server.BrowserBindingPath)
}

func TestOpen_DefaultRepository(t *testing.T) {
	endpoint := serve(t, auth.Config{})

	s, err := session.Open(context.Background(), session.Config{Endpoint: endpoint})
	require.NoError(t, err)
	assert.Equal(t, "A1", s.RepositoryInfo().ID)
	assert.Equal(t, endpoint, s.Endpoint())

	s, err = session.Open(context.Background(), session.Config{Endpoint: endpoint + "/", RepositoryID: "B2"})
	require.NoError(t, err)
	assert.Equal(t, "B2", s.RepositoryInfo().ID)
}

func TestOpen_UnknownRepository(t *testing.T) {
	endpoint := serve(t, auth.Config{})

	_, err := session.Open(context.Background(), session.Config{Endpoint: endpoint, RepositoryID: "Z9"})
	assert.ErrorIs(t, err, session.ErrRepositoryNotFound)
}

func TestOpen_Unreachable(t *testing.T) {
	port, err := server.FreePort()
	require.NoError(t, err)

	_, err = session.Open(context.Background(), session.Config{
		Endpoint: fmt.Sprintf("http://127.0.0.1:%d/cmis/browser", port),
		Timeout:  500 * time.Millisecond,
	})
	assert.ErrorIs(t, err, session.ErrUnreachable)

	_, err = session.Open(context.Background(), session.Config{})
	assert.ErrorIs(t, err, session.ErrUnreachable)
}

func TestOpen_CancelledContext(t *testing.T) {
	endpoint := serve(t, auth.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := session.Open(ctx, session.Config{Endpoint: endpoint})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpen_BasicAuth(t *testing.T) {
	endpoint := serve(t, auth.Config{Username: "admin", Password: "admin"})

	_, err := session.Open(context.Background(), session.Config{Endpoint: endpoint})
	require.Error(t, err)
	var re *session.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 401, re.Status)
	assert.Equal(t, "permissionDenied", re.Exception)

	s, err := session.Open(context.Background(), session.Config{Endpoint: endpoint, Username: "admin", Password: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "A1", s.RepositoryInfo().ID)
}

func TestCreateAndReadType(t *testing.T) {
	ctx := context.Background()
	s, err := session.Open(ctx, session.Config{Endpoint: serve(t, auth.Config{})})
	require.NoError(t, err)

	def := types.TypeDefinition{
		ID:         "tst:doctype",
		BaseTypeID: types.BaseDocument,
		Creatable:  true,
		Fileable:   true,
		Queryable:  true,
		PropertyDefinitions: map[string]types.PropertyDefinition{
			"tst:flag": {ID: "tst:flag", PropertyType: types.PropertyBoolean},
		},
	}

	created, err := s.CreateType(ctx, def)
	require.NoError(t, err)
	assert.Equal(t, "cmis:document", created.ParentTypeID)

	got, err := s.GetTypeDefinition(ctx, "tst:doctype")
	require.NoError(t, err)
	assert.Equal(t, "tst", got.LocalNamespace)
	assert.Equal(t, types.PropertyBoolean, got.PropertyDefinitions["tst:flag"].PropertyType)
	assert.True(t, got.PropertyDefinitions["cmis:name"].Inherited)

	children, err := s.GetTypeChildren(ctx, "cmis:document")
	require.NoError(t, err)
	assert.Equal(t, []string{"tst:doctype"}, types.IDs(children))

	bases, err := s.GetTypeChildren(ctx, "")
	require.NoError(t, err)
	assert.Len(t, bases, 6)

	_, err = s.CreateType(ctx, def)
	assert.True(t, session.IsConflict(err))

	_, err = s.GetTypeDefinition(ctx, "tst:missing")
	assert.True(t, session.IsNotFound(err))
}
