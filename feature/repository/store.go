package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cmis-harness/feature/types"

	"github.com/goccy/go-json"
	"gorm.io/gorm"
)

// Store persists the custom types of every hosted repository.
// Base types are not stored.
type Store interface {
	// Get returns the type or ErrTypeNotFound.
	Get(ctx context.Context, repositoryID, typeID string) (types.TypeDefinition, error)
	// List returns the types in creation order.
	List(ctx context.Context, repositoryID string) ([]types.TypeDefinition, error)
	// Create stores def or returns ErrTypeExists.
	Create(ctx context.Context, repositoryID string, def types.TypeDefinition) error
	// Reset removes every stored type.
	Reset(ctx context.Context) error
}

// MemoryStore keeps types in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	types map[string][]types.TypeDefinition
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{types: make(map[string][]types.TypeDefinition)}
}

func (s *MemoryStore) Get(_ context.Context, repositoryID, typeID string) (types.TypeDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, def := range s.types[repositoryID] {
		if def.ID == typeID {
			return def.Clone(), nil
		}
	}
	return types.TypeDefinition{}, ErrTypeNotFound
}

func (s *MemoryStore) List(_ context.Context, repositoryID string) ([]types.TypeDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.TypeDefinition, 0, len(s.types[repositoryID]))
	for _, def := range s.types[repositoryID] {
		out = append(out, def.Clone())
	}
	return out, nil
}

func (s *MemoryStore) Create(_ context.Context, repositoryID string, def types.TypeDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.types[repositoryID] {
		if existing.ID == def.ID {
			return ErrTypeExists
		}
	}
	s.types[repositoryID] = append(s.types[repositoryID], def.Clone())
	return nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types = make(map[string][]types.TypeDefinition)
	return nil
}

// GormStore keeps types in a SQL table through GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the type table and returns a store on db.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&TypeRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate type table: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(ctx context.Context, repositoryID, typeID string) (types.TypeDefinition, error) {
	var rec TypeRecord
	err := s.db.WithContext(ctx).
		Where("repository_id = ? AND type_id = ?", repositoryID, typeID).
		Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.TypeDefinition{}, ErrTypeNotFound
	}
	if err != nil {
		return types.TypeDefinition{}, fmt.Errorf("failed to read type %s: %w", typeID, err)
	}
	return decodeRecord(rec)
}

func (s *GormStore) List(ctx context.Context, repositoryID string) ([]types.TypeDefinition, error) {
	var recs []TypeRecord
	if err := s.db.WithContext(ctx).
		Where("repository_id = ?", repositoryID).
		Order("id").
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list types: %w", err)
	}

	out := make([]types.TypeDefinition, 0, len(recs))
	for _, rec := range recs {
		def, err := decodeRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, def)
	}
	return out, nil
}

func (s *GormStore) Create(ctx context.Context, repositoryID string, def types.TypeDefinition) error {
	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to encode type %s: %w", def.ID, err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&TypeRecord{}).
			Where("repository_id = ? AND type_id = ?", repositoryID, def.ID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check type %s: %w", def.ID, err)
		}
		if count > 0 {
			return ErrTypeExists
		}

		rec := TypeRecord{
			RepositoryID: repositoryID,
			TypeID:       def.ID,
			ParentID:     def.ParentTypeID,
			Definition:   string(data),
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("failed to store type %s: %w", def.ID, err)
		}
		return nil
	})
}

func (s *GormStore) Reset(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&TypeRecord{}).Error; err != nil {
		return fmt.Errorf("failed to reset type table: %w", err)
	}
	return nil
}

func decodeRecord(rec TypeRecord) (types.TypeDefinition, error) {
	var def types.TypeDefinition
	if err := json.Unmarshal([]byte(rec.Definition), &def); err != nil {
		return types.TypeDefinition{}, fmt.Errorf("failed to decode type %s: %w", rec.TypeID, err)
	}
	return def, nil
}
