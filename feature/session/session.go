package session

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"cmis-harness/feature/repository"
	"cmis-harness/feature/types"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

// DefaultRepositoryID is used when Config.RepositoryID is empty.
const DefaultRepositoryID = "A1"

const defaultTimeout = 10 * time.Second

// Config locates a repository behind a browser binding endpoint.
type Config struct {
	// Endpoint is the browser binding URL, e.g. http://127.0.0.1:8080/cmis/browser.
	Endpoint     string
	RepositoryID string
	Username     string
	Password     string
	// Timeout bounds every request; zero means 10s.
	Timeout time.Duration
}

// Session is a client bound to one repository. It holds no connection and is
// safe for concurrent use.
type Session struct {
	cfg  Config
	info repository.RepositoryInfo
}

// Open fetches the repository list and binds to cfg.RepositoryID.
func Open(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: no endpoint", ErrUnreachable)
	}
	cfg.Endpoint = strings.TrimSuffix(cfg.Endpoint, "/")
	if cfg.RepositoryID == "" {
		cfg.RepositoryID = DefaultRepositoryID
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	s := &Session{cfg: cfg}
	var infos map[string]repository.RepositoryInfo
	if err := s.get(ctx, cfg.Endpoint, &infos); err != nil {
		return nil, err
	}
	info, ok := infos[cfg.RepositoryID]
	if !ok {
		return nil, fmt.Errorf("%w: %s at %s", ErrRepositoryNotFound, cfg.RepositoryID, cfg.Endpoint)
	}
	s.info = info
	return s, nil
}

// RepositoryInfo returns the info read when the session was opened.
func (s *Session) RepositoryInfo() repository.RepositoryInfo {
	return s.info
}

// Endpoint returns the browser binding endpoint.
func (s *Session) Endpoint() string {
	return s.cfg.Endpoint
}

// GetTypeDefinition reads one type, including inherited properties.
func (s *Session) GetTypeDefinition(ctx context.Context, typeID string) (types.TypeDefinition, error) {
	q := url.Values{"cmisselector": {"typeDefinition"}, "typeId": {typeID}}
	var def types.TypeDefinition
	err := s.get(ctx, s.repositoryURL()+"?"+q.Encode(), &def)
	return def, err
}

// GetTypeChildren lists the direct children of typeID, or the base types when empty.
func (s *Session) GetTypeChildren(ctx context.Context, typeID string) ([]types.TypeDefinition, error) {
	q := url.Values{"cmisselector": {"typeChildren"}, "includePropertyDefinitions": {"true"}}
	if typeID != "" {
		q.Set("typeId", typeID)
	}
	var children repository.TypeChildren
	if err := s.get(ctx, s.repositoryURL()+"?"+q.Encode(), &children); err != nil {
		return nil, err
	}
	return children.Types, nil
}

// CreateType registers def and returns the stored definition.
func (s *Session) CreateType(ctx context.Context, def types.TypeDefinition) (types.TypeDefinition, error) {
	data, err := json.Marshal(def)
	if err != nil {
		return types.TypeDefinition{}, fmt.Errorf("failed to encode type %s: %w", def.ID, err)
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("cmisaction", "createType")
	args.Set("type", string(data))

	agent, err := s.agent(ctx, fiber.Post(s.repositoryURL()))
	if err != nil {
		return types.TypeDefinition{}, err
	}
	agent.Form(args)

	var created types.TypeDefinition
	if err := s.do(agent, s.repositoryURL(), &created); err != nil {
		return types.TypeDefinition{}, err
	}
	return created, nil
}

func (s *Session) repositoryURL() string {
	return s.cfg.Endpoint + "/" + url.PathEscape(s.cfg.RepositoryID)
}

func (s *Session) get(ctx context.Context, target string, out any) error {
	agent, err := s.agent(ctx, fiber.Get(target))
	if err != nil {
		return err
	}
	return s.do(agent, target, out)
}

// agent applies credentials and a timeout bounded by ctx.
func (s *Session) agent(ctx context.Context, a *fiber.Agent) (*fiber.Agent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := s.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	a.Timeout(timeout)
	if s.cfg.Username != "" {
		a.BasicAuth(s.cfg.Username, s.cfg.Password)
	}
	return a, nil
}

func (s *Session) do(a *fiber.Agent, target string, out any) error {
	status, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s: %v", ErrUnreachable, target, errs[0])
	}
	if status >= 300 {
		re := &RemoteError{Status: status, Exception: "runtime", Message: strings.TrimSpace(string(body))}
		var payload struct {
			Exception string `json:"exception"`
			Message   string `json:"message"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Exception != "" {
			re.Exception, re.Message = payload.Exception, payload.Message
		}
		return re
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", target, err)
	}
	return nil
}
