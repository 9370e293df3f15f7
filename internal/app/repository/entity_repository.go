package repository

import (
	"github.com/triorate/triorate-backend/internal/app/model"
	"gorm.io/gorm"
)

// EntityRepository loads and persists the three reviewable entity types
// through the shared model.ReviewTarget capability set.
type EntityRepository struct {
	db *gorm.DB
}

func NewEntityRepository(db *gorm.DB) *EntityRepository {
	return &EntityRepository{db: db}
}

// FindByKind loads one entity with its reviews and review authors. Reviews
// are ordered by id so a replaced review (fresh id) always lands last.
func (r *EntityRepository) FindByKind(kind model.Kind, id uint) (model.ReviewTarget, error) {
	target, err := model.NewTarget(kind)
	if err != nil {
		return nil, err
	}
	err = r.db.
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("reviews.id ASC")
		}).
		Preload("Reviews.User").
		First(target, id).Error
	if err != nil {
		return nil, err
	}
	return target, nil
}

// ListByKind returns all entities of a kind with reviews preloaded. The
// result is the concrete slice ([]model.Movie etc) for JSON shaping.
func (r *EntityRepository) ListByKind(kind model.Kind) (interface{}, error) {
	preload := func(db *gorm.DB) *gorm.DB {
		return r.withReviews(db)
	}
	switch kind {
	case model.KindMovie:
		var movies []model.Movie
		if err := preload(r.db).Order("created_at DESC").Find(&movies).Error; err != nil {
			return nil, err
		}
		return movies, nil
	case model.KindRestaurant:
		var restaurants []model.Restaurant
		if err := preload(r.db).Order("created_at DESC").Find(&restaurants).Error; err != nil {
			return nil, err
		}
		return restaurants, nil
	case model.KindBook:
		var books []model.Book
		if err := preload(r.db).Order("created_at DESC").Find(&books).Error; err != nil {
			return nil, err
		}
		return books, nil
	}
	_, err := model.NewTarget(kind) // yields the unknown-kind error
	return nil, err
}

func (r *EntityRepository) withReviews(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("reviews.id ASC")
		}).
		Preload("Reviews.User")
}

// Create inserts a new entity.
func (r *EntityRepository) Create(target model.ReviewTarget) error {
	return r.db.Create(target).Error
}

// ApplyReviewMutation persists one committed review mutation in a single
// transaction: the removed review row (if any) is deleted, the added review
// (if any) is inserted with a store-assigned id, and the entity's aggregates
// are rewritten. Nothing is applied on failure.
func (r *EntityRepository) ApplyReviewMutation(target model.ReviewTarget, removed, added *model.Review) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if removed != nil {
			if err := tx.Delete(&model.Review{}, removed.ID).Error; err != nil {
				return err
			}
		}
		if added != nil {
			added.ID = 0 // never reuse the replaced review's id
			added.SubjectID = target.TargetID()
			added.SubjectType = target.TableName()
			if err := tx.Omit("User").Create(added).Error; err != nil {
				return err
			}
		}
		// Reviews must be omitted here: the target still carries the
		// appended review with a zero id, and the association callback
		// would insert it a second time.
		rating, numReviews := target.Aggregates()
		return tx.Model(target).Omit("Reviews").Updates(map[string]interface{}{
			"rating":      rating,
			"num_reviews": numReviews,
		}).Error
	})
}

// DeleteCascade removes an entity and all of its reviews.
func (r *EntityRepository) DeleteCascade(target model.ReviewTarget) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("subject_type = ? AND subject_id = ?", target.TableName(), target.TargetID()).
			Delete(&model.Review{}).Error
		if err != nil {
			return err
		}
		return tx.Delete(target).Error
	})
}
