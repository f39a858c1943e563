package harness

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"cmis-harness/core/archive"
	"cmis-harness/core/config"
	"cmis-harness/core/database"
	"cmis-harness/core/logger"
	"cmis-harness/core/metrics"
	"cmis-harness/core/reconcile"
	"cmis-harness/core/server"
	"cmis-harness/core/storage"
	"cmis-harness/feature/repository"
	"cmis-harness/feature/session"
	"cmis-harness/feature/types"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Harness owns at most one embedded server and restarts it only when a suite
// needs a different port, another CMIS version or a type the running instance
// lacks.
type Harness struct {
	cfg     config.Config
	opts    Options
	logger  *zap.Logger
	metrics *metrics.Metrics
	store   repository.Store
	archive *archive.Archive

	group singleflight.Group
	state atomic.Int32
	start atomic.Int64

	mu         sync.Mutex
	server     *server.Embedded
	version    string
	registered []string
	known      map[string]types.TypeDefinition
}

// New validates the configuration and prepares the type store and web
// archive. No server is started until EnsureRunning.
func New(opts Options) (*Harness, error) {
	cfg := config.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if err := cfg.Validate(); err != nil {
		return nil, stepErr(StepConfigure, ErrConfiguration, err)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}

	h := &Harness{
		cfg:     cfg,
		opts:    opts,
		logger:  opts.Logger,
		metrics: opts.Metrics,
		store:   opts.Store,
		known:   make(map[string]types.TypeDefinition),
	}

	if h.store == nil {
		store, err := newStore(cfg.Database)
		if err != nil {
			return nil, stepErr(StepConfigure, ErrConfiguration, err)
		}
		h.store = store
	}

	if cfg.Archive.Enabled() {
		client := opts.Storage
		if client == nil && cfg.Archive.Object != "" {
			c, err := storage.NewClient(cfg.Storage)
			if err != nil {
				return nil, stepErr(StepConfigure, ErrConfiguration, err)
			}
			client = c
		}
		a, err := archive.Open(context.Background(), cfg.Archive, client, cfg.Storage.Bucket)
		if err != nil {
			return nil, stepErr(StepConfigure, ErrConfiguration, err)
		}
		h.archive = a
		h.logger.Info("Web archive opened", zap.String("source", a.Source))
	}

	h.setState(StateStopped)
	return h, nil
}

func newStore(cfg database.Config) (repository.Store, error) {
	if !cfg.UsesDatabase() {
		return repository.NewMemoryStore(), nil
	}
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	return repository.NewGormStore(db)
}

// EnsureRunning makes the embedded server satisfy desired, starting or
// restarting it as needed, then registers the missing types. Concurrent calls
// with the same suite token and the same desired state share one execution;
// all other calls run one after another.
func (h *Harness) EnsureRunning(ctx context.Context, suite string, desired Desired) error {
	_, err, _ := h.group.Do(flightKey(suite, desired), func() (any, error) {
		return nil, h.ensureRunning(ctx, suite, desired)
	})
	return err
}

// flightKey identifies one request. A suite token alone is not enough: two
// callers sharing it may still ask for different ports or types.
func flightKey(suite string, desired Desired) string {
	b, err := json.Marshal(desired)
	if err != nil {
		return fmt.Sprintf("%s\x00%+v", suite, desired)
	}
	return suite + "\x00" + string(b)
}

func (h *Harness) ensureRunning(ctx context.Context, suite string, desired Desired) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	l := logger.WithSuite(h.logger, suite)

	portValue := desired.Port
	if portValue == "" {
		portValue = h.cfg.Server.Port
	}
	req, err := server.ParsePortRequest(portValue)
	if err != nil {
		return stepErr(StepResolvePort, ErrConfiguration, err)
	}

	version := desired.CMISVersion
	if version == "" {
		version = h.cfg.Server.CMISVersion
	}
	if !(server.Config{CMISVersion: version}).IsValidCMISVersion() {
		return stepErr(StepConfigure, ErrConfiguration, fmt.Errorf("unsupported cmis version %q", version))
	}

	defs, err := h.loadTypes(ctx, desired)
	if err != nil {
		return stepErr(StepLoadTypes, ErrConfiguration, err)
	}
	for _, def := range defs {
		h.known[def.ID] = def
	}

	// A failed stop leaves a handle whose state is unknown. Drop it so the
	// request is planned as a fresh start.
	if h.State() == StateFailed {
		h.discardLocked(l)
	}

	current := h.current()
	want := reconcile.Desired{Port: req, TypeIDs: types.IDs(defs), CMISVersion: version}
	plan := reconcile.Decide(current, want, reconcile.Options{PruneStaleTypes: h.opts.PruneStaleTypes})

	l.Debug("Restart decision",
		zap.Bool("running", current.Running),
		zap.Bool("restart", plan.Restart),
		zap.Bool("start", plan.Start),
		zap.String("detail", plan.Describe(current, want)),
		zap.Int("missing_types", plan.Summary.MissingTypes),
		zap.Int("stale_types", plan.Summary.StaleTypes),
	)

	if !plan.Start {
		return nil
	}

	if plan.Restart {
		l.Info("Restarting embedded server", zap.String("reason", plan.Describe(current, want)))
		for _, reason := range plan.RestartReasons {
			h.metrics.Restarts.WithLabelValues(reason).Inc()
		}
		if err := h.stopLocked(ctx); err != nil {
			h.setState(StateFailed)
			return stepErr(StepStopServer, ErrServerStop, err)
		}
	}

	port, err := req.Resolve(current.Port)
	if err != nil {
		return stepErr(StepResolvePort, ErrPortUnavailable, err)
	}

	if !server.IsPortAvailable(h.cfg.Server.BindHost(), port, h.cfg.Server.ProbeTimeout()) {
		return stepErr(StepCheckPort, ErrPortUnavailable, fmt.Errorf("port %d is already in use", port))
	}

	if err := h.startLocked(ctx, port, version); err != nil {
		h.setState(StateFailed)
		h.metrics.StartFailures.Inc()
		return stepErr(StepStartServer, ErrServerStart, err)
	}
	l.Info("Embedded server started",
		zap.Int("port", h.server.Port()),
		zap.String("cmis_uri", server.CMISURI(h.cfg.Server, h.server.Port())),
		zap.String("cmis_version", version),
		zap.Int64("starts", h.start.Load()),
	)

	if err := h.registerLocked(ctx, l, plan.Register); err != nil {
		return stepErr(StepRegisterTypes, ErrServerStart, err)
	}
	return nil
}

// loadTypes merges the configured, harness-wide and per-suite definitions.
func (h *Harness) loadTypes(ctx context.Context, desired Desired) ([]types.TypeDefinition, error) {
	files := append(h.cfg.Types.Paths(), desired.TypeFiles...)
	fromFiles, err := types.LoadFiles(ctx, files...)
	if err != nil {
		return nil, err
	}

	inline := make([]types.TypeDefinition, 0, len(h.opts.Types)+len(desired.Types))
	for _, def := range append(append([]types.TypeDefinition(nil), h.opts.Types...), desired.Types...) {
		def = def.Clone()
		if err := types.Validate(&def, "options", def.ID); err != nil {
			return nil, err
		}
		inline = append(inline, def)
	}

	return types.Merge(fromFiles, inline)
}

func (h *Harness) current() reconcile.Current {
	if h.server == nil || !h.server.Running() {
		return reconcile.Current{}
	}
	return reconcile.Current{
		Running:     true,
		Port:        h.server.Port(),
		TypeIDs:     append([]string(nil), h.registered...),
		CMISVersion: h.version,
	}
}

// discardLocked forgets the server handle, closing it first if it still
// serves.
func (h *Harness) discardLocked(l *zap.Logger) {
	if h.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := h.server.Stop(ctx); err != nil {
			l.Warn("Discarding embedded server after failed stop", zap.Int("port", h.server.Port()), zap.Error(err))
		}
	}
	h.server = nil
	h.registered = nil
}

func (h *Harness) startLocked(ctx context.Context, port int, version string) error {
	h.setState(StateStarting)

	// A fresh instance starts with an empty repository.
	if err := h.store.Reset(ctx); err != nil {
		return err
	}
	h.registered = nil

	app, err := h.newApp(version)
	if err != nil {
		return err
	}

	srv := server.NewEmbedded(h.cfg.Server, port, app, h.logger)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	h.server = srv
	h.version = version
	h.start.Add(1)
	h.metrics.Starts.Inc()
	h.setState(StateRunning)
	return nil
}

func (h *Harness) stopLocked(ctx context.Context) error {
	if h.server == nil {
		return nil
	}
	h.setState(StateStopping)

	ctx, cancel := context.WithTimeout(ctx, h.cfg.Server.StartTimeout())
	defer cancel()
	if err := h.server.Stop(ctx); err != nil {
		return err
	}

	h.server = nil
	h.registered = nil
	h.metrics.Stops.Inc()
	h.setState(StateStopped)
	return nil
}

// registerLocked creates ids on the default repository, parents first.
func (h *Harness) registerLocked(ctx context.Context, l *zap.Logger, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	defs := make([]types.TypeDefinition, 0, len(ids))
	for _, id := range ids {
		def, ok := h.known[id]
		if !ok {
			return fmt.Errorf("no definition for type %s", id)
		}
		defs = append(defs, def)
	}
	defs, err := types.SortByParent(defs)
	if err != nil {
		return err
	}

	s, err := h.openSession(ctx, h.server, h.cfg.Repository.Default)
	if err != nil {
		return err
	}

	for _, def := range defs {
		if _, err := s.CreateType(ctx, def); err != nil && !session.IsConflict(err) {
			return fmt.Errorf("failed to create type %s: %w", def.ID, err)
		}
		h.registered = append(h.registered, def.ID)
		h.metrics.TypeRegistrations.Inc()
		l.Debug("Type registered", zap.String("type", def.ID))
	}
	return nil
}

func (h *Harness) openSession(ctx context.Context, srv *server.Embedded, repositoryID string) (*session.Session, error) {
	if srv == nil || !srv.Running() {
		return nil, errors.New("no server running")
	}
	return session.Open(ctx, session.Config{
		Endpoint:     server.CMISURI(h.cfg.Server, srv.Port()),
		RepositoryID: repositoryID,
		Username:     h.cfg.Server.Username,
		Password:     h.cfg.Server.Password,
		Timeout:      h.cfg.Server.StartTimeout(),
	})
}

// Session opens a session on repositoryID, or the default repository.
func (h *Harness) Session(ctx context.Context, repositoryID ...string) (*session.Session, error) {
	repo := h.cfg.Repository.Default
	if len(repositoryID) > 0 && repositoryID[0] != "" {
		repo = repositoryID[0]
	}

	h.mu.Lock()
	srv := h.server
	h.mu.Unlock()

	s, err := h.openSession(ctx, srv, repo)
	if err != nil {
		return nil, stepErr(StepOpenSession, ErrSession, err)
	}
	return s, nil
}

// Stop stops the running server. A failure leaves the harness in StateFailed.
func (h *Harness) Stop(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.stopLocked(ctx); err != nil {
		h.setState(StateFailed)
		return stepErr(StepStopServer, ErrServerStop, err)
	}
	return nil
}

// Close stops the server and releases the web archive.
func (h *Harness) Close(ctx context.Context) error {
	err := h.Stop(ctx)
	if h.archive != nil {
		if cerr := h.archive.Close(); cerr != nil && err == nil {
			err = cerr
		}
		h.archive = nil
	}
	return err
}

// State returns the lifecycle state.
func (h *Harness) State() State {
	return State(h.state.Load())
}

func (h *Harness) setState(s State) {
	h.state.Store(int32(s))
	h.metrics.State.Set(float64(s))
}

// Port returns the bound port, or 0 when no server runs.
func (h *Harness) Port() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.server == nil || !h.server.Running() {
		return 0
	}
	return h.server.Port()
}

// CMISVersion returns the version the running server advertises, or "".
func (h *Harness) CMISVersion() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.server == nil || !h.server.Running() {
		return ""
	}
	return h.version
}

// BaseURI returns http://host:port/<context>/, or "" when no server runs.
func (h *Harness) BaseURI() string {
	port := h.Port()
	if port == 0 {
		return ""
	}
	return server.BaseURI(h.cfg.Server, port)
}

// CMISURI returns the browser binding endpoint, or "" when no server runs.
func (h *Harness) CMISURI() string {
	port := h.Port()
	if port == 0 {
		return ""
	}
	return server.CMISURI(h.cfg.Server, port)
}

// RegisteredTypes returns the custom types registered on the running server.
func (h *Harness) RegisteredTypes() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.registered...)
}

// Starts counts successful server starts.
func (h *Harness) Starts() int {
	return int(h.start.Load())
}

// Metrics returns the harness collectors.
func (h *Harness) Metrics() *metrics.Metrics {
	return h.metrics
}
