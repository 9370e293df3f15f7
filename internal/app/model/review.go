package model

import (
	"fmt"
	"time"
)

// Kind selects one of the three reviewable entity types.
type Kind string

const (
	KindMovie      Kind = "movie"
	KindRestaurant Kind = "restaurant"
	KindBook       Kind = "book"
)

// Kinds lists every reviewable entity type.
var Kinds = []Kind{KindMovie, KindRestaurant, KindBook}

// Review is a user's rating and comment on a single entity. Reviews are
// owned by the entity they belong to (polymorphic subject); the user
// reference is a non-owning lookup relation.
type Review struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID  uint    `gorm:"not null;index" json:"userId"`
	User    User    `gorm:"foreignKey:UserID" json:"user"`
	Rating  float64 `gorm:"not null" json:"rating"` // 0-10
	Comment string  `gorm:"type:text" json:"comment,omitempty"`

	SubjectID   uint   `gorm:"not null;index:idx_reviews_subject" json:"-"`
	SubjectType string `gorm:"not null;index:idx_reviews_subject" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewTarget is the capability set shared by Movie, Restaurant and Book.
// The review mutator is written once against this interface instead of
// three times against the concrete types.
type ReviewTarget interface {
	TargetID() uint
	TargetKind() Kind
	// Label is the entity's display name used in mutation responses.
	Label() string
	ReviewList() []Review
	SetReviewList(reviews []Review)
	SetAggregate(rating float64, numReviews int)
	Aggregates() (rating float64, numReviews int)
	// TableName doubles as the polymorphic subject discriminator.
	TableName() string
}

// NewTarget returns an empty entity of the given kind, ready to be loaded
// or created.
func NewTarget(kind Kind) (ReviewTarget, error) {
	switch kind {
	case KindMovie:
		return &Movie{}, nil
	case KindRestaurant:
		return &Restaurant{}, nil
	case KindBook:
		return &Book{}, nil
	default:
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
}
