package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Restaurant is a curated catalog entry with its embedded reviews.
type Restaurant struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name       string         `gorm:"not null" json:"name"`
	YelpID     string         `json:"yelpId,omitempty"`
	URL        string         `json:"url,omitempty"`
	Price      string         `json:"price,omitempty"`
	Phone      string         `json:"phone,omitempty"`
	Address    string         `json:"address,omitempty"`
	City       string         `json:"city,omitempty"`
	Categories pq.StringArray `gorm:"type:text[]" json:"categories,omitempty"`
	ImageURL   string         `json:"imageUrl,omitempty"`

	Rating     float64  `gorm:"default:0" json:"rating"`
	NumReviews int      `gorm:"default:0" json:"numReviews"`
	Reviews    []Review `gorm:"polymorphic:Subject" json:"reviews"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}

func (r *Restaurant) TargetID() uint       { return r.ID }
func (r *Restaurant) TargetKind() Kind     { return KindRestaurant }
func (r *Restaurant) Label() string        { return r.Name }
func (r *Restaurant) ReviewList() []Review { return r.Reviews }

func (r *Restaurant) SetReviewList(reviews []Review) { r.Reviews = reviews }

func (r *Restaurant) SetAggregate(rating float64, numReviews int) {
	r.Rating = rating
	r.NumReviews = numReviews
}

func (r *Restaurant) Aggregates() (float64, int) { return r.Rating, r.NumReviews }
