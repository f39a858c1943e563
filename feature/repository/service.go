package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cmis-harness/feature/types"

	"go.uber.org/zap"
)

// Options configures the hosted repositories.
type Options struct {
	// IDs lists the repository identifiers; the first is the default.
	IDs []string
	// CMISVersion is reported in the repository info and selects the base types.
	CMISVersion string
	// ProductVersion is reported in the repository info.
	ProductVersion string
}

// Service answers repository and type queries.
type Service struct {
	store     Store
	opts      Options
	logger    *zap.Logger
	baseTypes map[string]types.TypeDefinition
	baseOrder []string
}

// NewService creates a repository service backed by store.
func NewService(store Store, opts Options, logger *zap.Logger) *Service {
	if len(opts.IDs) == 0 {
		opts.IDs = []string{"A1"}
	}
	if opts.CMISVersion == "" {
		opts.CMISVersion = "1.1"
	}

	s := &Service{
		store:     store,
		opts:      opts,
		logger:    logger,
		baseTypes: make(map[string]types.TypeDefinition),
	}
	for _, def := range baseTypesFor(opts.CMISVersion) {
		s.baseTypes[def.ID] = def
		s.baseOrder = append(s.baseOrder, def.ID)
	}
	return s
}

// Repositories returns the configured repository ids.
func (s *Service) Repositories() []string {
	return append([]string(nil), s.opts.IDs...)
}

// HasRepository reports whether id is hosted.
func (s *Service) HasRepository(id string) bool {
	for _, known := range s.opts.IDs {
		if known == id {
			return true
		}
	}
	return false
}

// RepositoryInfo describes one repository. endpoint is the browser binding
// URL the info is served from.
func (s *Service) RepositoryInfo(id, endpoint string) (RepositoryInfo, error) {
	if !s.HasRepository(id) {
		return RepositoryInfo{}, fmt.Errorf("%w: %s", ErrRepositoryNotFound, id)
	}
	url := strings.TrimSuffix(endpoint, "/") + "/" + id
	return RepositoryInfo{
		ID:                   id,
		Name:                 id,
		Description:          "Embedded test repository " + id,
		VendorName:           "cmis-harness",
		ProductName:          "cmis-harness",
		ProductVersion:       s.opts.ProductVersion,
		RootFolderID:         "100",
		CMISVersionSupported: s.opts.CMISVersion,
		RepositoryURL:        url,
		RootFolderURL:        url + "/root",
	}, nil
}

// RepositoryInfos describes every hosted repository, keyed by id.
func (s *Service) RepositoryInfos(endpoint string) map[string]RepositoryInfo {
	out := make(map[string]RepositoryInfo, len(s.opts.IDs))
	for _, id := range s.opts.IDs {
		info, _ := s.RepositoryInfo(id, endpoint)
		out[id] = info
	}
	return out
}

// TypeDefinition returns a type with the properties it inherits from its
// ancestors marked as inherited.
func (s *Service) TypeDefinition(ctx context.Context, repositoryID, typeID string) (types.TypeDefinition, error) {
	if !s.HasRepository(repositoryID) {
		return types.TypeDefinition{}, fmt.Errorf("%w: %s", ErrRepositoryNotFound, repositoryID)
	}
	def, err := s.lookup(ctx, repositoryID, typeID)
	if err != nil {
		return types.TypeDefinition{}, err
	}
	if def.IsBase() {
		return def, nil
	}

	out := def.Clone()
	parentID := def.ParentTypeID
	for depth := 0; parentID != "" && depth < 64; depth++ {
		parent, err := s.lookup(ctx, repositoryID, parentID)
		if err != nil {
			return types.TypeDefinition{}, err
		}
		for id, p := range parent.PropertyDefinitions {
			if _, own := out.PropertyDefinitions[id]; own {
				continue
			}
			p.Inherited = true
			out.PropertyDefinitions[id] = p
		}
		parentID = parent.ParentTypeID
	}
	return out, nil
}

// TypeChildren returns the direct children of typeID, or the base types when
// typeID is empty.
func (s *Service) TypeChildren(ctx context.Context, repositoryID, typeID string) ([]types.TypeDefinition, error) {
	if !s.HasRepository(repositoryID) {
		return nil, fmt.Errorf("%w: %s", ErrRepositoryNotFound, repositoryID)
	}
	if typeID == "" {
		out := make([]types.TypeDefinition, 0, len(s.baseOrder))
		for _, id := range s.baseOrder {
			out = append(out, s.baseTypes[id].Clone())
		}
		return out, nil
	}
	if _, err := s.lookup(ctx, repositoryID, typeID); err != nil {
		return nil, err
	}

	all, err := s.store.List(ctx, repositoryID)
	if err != nil {
		return nil, err
	}
	out := []types.TypeDefinition{}
	for _, def := range all {
		if def.ParentTypeID == typeID {
			out = append(out, def)
		}
	}
	return out, nil
}

// CreateType validates def against its parent and stores it.
func (s *Service) CreateType(ctx context.Context, repositoryID string, def types.TypeDefinition) (types.TypeDefinition, error) {
	if !s.HasRepository(repositoryID) {
		return types.TypeDefinition{}, fmt.Errorf("%w: %s", ErrRepositoryNotFound, repositoryID)
	}
	if err := types.Validate(&def, "createType", ""); err != nil {
		return types.TypeDefinition{}, fmt.Errorf("%w: %w", ErrInvalidType, err)
	}
	if _, ok := s.baseTypes[string(def.BaseTypeID)]; !ok {
		return types.TypeDefinition{}, fmt.Errorf("%w: base type %s is not supported by CMIS %s",
			ErrInvalidType, def.BaseTypeID, s.opts.CMISVersion)
	}

	parent, err := s.lookup(ctx, repositoryID, def.ParentTypeID)
	if errors.Is(err, ErrTypeNotFound) {
		return types.TypeDefinition{}, fmt.Errorf("%w: parent type %s does not exist", ErrInvalidType, def.ParentTypeID)
	}
	if err != nil {
		return types.TypeDefinition{}, err
	}
	if parent.BaseTypeID != def.BaseTypeID {
		return types.TypeDefinition{}, fmt.Errorf("%w: parent type %s has base type %s, not %s",
			ErrInvalidType, parent.ID, parent.BaseTypeID, def.BaseTypeID)
	}

	if err := s.store.Create(ctx, repositoryID, def); err != nil {
		if errors.Is(err, ErrTypeExists) {
			return types.TypeDefinition{}, fmt.Errorf("%w: %s", ErrTypeExists, def.ID)
		}
		return types.TypeDefinition{}, err
	}

	s.logger.Info("Type created",
		zap.String("repository", repositoryID),
		zap.String("type", def.ID),
		zap.String("parent", def.ParentTypeID),
		zap.Int("properties", len(def.PropertyDefinitions)),
	)
	return s.TypeDefinition(ctx, repositoryID, def.ID)
}

func (s *Service) lookup(ctx context.Context, repositoryID, typeID string) (types.TypeDefinition, error) {
	if def, ok := s.baseTypes[typeID]; ok {
		return def.Clone(), nil
	}
	def, err := s.store.Get(ctx, repositoryID, typeID)
	if errors.Is(err, ErrTypeNotFound) {
		return types.TypeDefinition{}, fmt.Errorf("%w: %s", ErrTypeNotFound, typeID)
	}
	return def, err
}
