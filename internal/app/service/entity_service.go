package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/triorate/triorate-backend/internal/app/model"
	"github.com/triorate/triorate-backend/internal/app/repository"
	"github.com/triorate/triorate-backend/internal/cache"
	"github.com/triorate/triorate-backend/pkg/logger"
	"gorm.io/gorm"
)

// EntityService serves the catalog endpoints: listing, fetching and
// curating the reviewable entities. The cache is optional.
type EntityService struct {
	entityRepo *repository.EntityRepository
	cache      *cache.EntityCache
}

func NewEntityService(entityRepo *repository.EntityRepository, entityCache *cache.EntityCache) *EntityService {
	return &EntityService{entityRepo: entityRepo, cache: entityCache}
}

// List returns every entity of a kind as pre-marshaled JSON, served from
// cache when warm.
func (s *EntityService) List(ctx context.Context, kind model.Kind) (json.RawMessage, error) {
	if s.cache != nil {
		if data, ok := s.cache.GetList(ctx, kind); ok {
			return data, nil
		}
	}

	list, err := s.entityRepo.ListByKind(kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", kind, err)
	}

	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s list: %w", kind, err)
	}

	if s.cache != nil {
		if err := s.cache.SetList(ctx, kind, list); err != nil {
			logger.Warn("Entity cache write failed", map[string]interface{}{
				"kind":  string(kind),
				"error": err.Error(),
			})
		}
	}
	return data, nil
}

// Get loads one entity with its reviews.
func (s *EntityService) Get(kind model.Kind, id uint) (model.ReviewTarget, error) {
	target, err := s.entityRepo.FindByKind(kind, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to load %s %d: %w", kind, id, err)
	}
	return target, nil
}

// Create inserts a new entity and invalidates its kind's list cache.
func (s *EntityService) Create(ctx context.Context, target model.ReviewTarget) error {
	if err := s.entityRepo.Create(target); err != nil {
		return fmt.Errorf("failed to create %s: %w", target.TargetKind(), err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, target.TargetKind())
	}
	return nil
}

// Delete removes an entity and all of its reviews.
func (s *EntityService) Delete(ctx context.Context, kind model.Kind, id uint) error {
	target, err := s.entityRepo.FindByKind(kind, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntityNotFound
		}
		return fmt.Errorf("failed to load %s %d: %w", kind, id, err)
	}
	if err := s.entityRepo.DeleteCascade(target); err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", kind, id, err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, kind)
	}
	return nil
}

// WarmCaches refreshes every kind's list cache. Run at startup and on the
// scheduler tick.
func (s *EntityService) WarmCaches(ctx context.Context) {
	if s.cache == nil {
		return
	}
	for _, kind := range model.Kinds {
		list, err := s.entityRepo.ListByKind(kind)
		if err != nil {
			logger.Warn("Cache warm load failed", map[string]interface{}{
				"kind":  string(kind),
				"error": err.Error(),
			})
			continue
		}
		if err := s.cache.SetList(ctx, kind, list); err != nil {
			logger.Warn("Cache warm write failed", map[string]interface{}{
				"kind":  string(kind),
				"error": err.Error(),
			})
		}
	}
}
