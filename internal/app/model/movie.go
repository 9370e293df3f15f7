package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Movie is a curated catalog entry with its embedded reviews. Metadata
// arrives already resolved from the external catalog lookup.
type Movie struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	TagLine     string         `json:"tagLine,omitempty"`
	Genres      pq.StringArray `gorm:"type:text[]" json:"genres,omitempty"`
	ReleaseDate string         `json:"releaseDate,omitempty"`
	Runtime     int            `json:"runtime,omitempty"`
	TmdbID      string         `json:"tmdbId,omitempty"`
	ImdbID      string         `json:"imdbId,omitempty"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	BackdropURL string         `json:"backdropUrl,omitempty"`

	Rating     float64  `gorm:"default:0" json:"rating"`
	NumReviews int      `gorm:"default:0" json:"numReviews"`
	Reviews    []Review `gorm:"polymorphic:Subject" json:"reviews"`
}

func (Movie) TableName() string {
	return "movies"
}

func (m *Movie) TargetID() uint       { return m.ID }
func (m *Movie) TargetKind() Kind     { return KindMovie }
func (m *Movie) Label() string        { return m.Name }
func (m *Movie) ReviewList() []Review { return m.Reviews }

func (m *Movie) SetReviewList(reviews []Review) { m.Reviews = reviews }

func (m *Movie) SetAggregate(rating float64, numReviews int) {
	m.Rating = rating
	m.NumReviews = numReviews
}

func (m *Movie) Aggregates() (float64, int) { return m.Rating, m.NumReviews }
