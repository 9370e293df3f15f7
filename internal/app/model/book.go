package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Book is a curated catalog entry with its embedded reviews. Metadata is
// merged from the Google Books and Open Library lookups before it reaches
// this service.
type Book struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title         string         `gorm:"not null" json:"title"`
	ISBN          string         `json:"isbn,omitempty"`
	GoogleID      string         `json:"googleId,omitempty"`
	OpenLibraryID string         `json:"openlibraryId,omitempty"`
	Authors       pq.StringArray `gorm:"type:text[]" json:"authors,omitempty"`
	Subjects      pq.StringArray `gorm:"type:text[]" json:"subjects,omitempty"`
	Description   string         `gorm:"type:text" json:"description,omitempty"`
	PageCount     int            `json:"pageCount,omitempty"`
	PublishedDate string         `json:"publishedDate,omitempty"`
	ImageURL      string         `json:"imageUrl,omitempty"`

	Rating     float64  `gorm:"default:0" json:"rating"`
	NumReviews int      `gorm:"default:0" json:"numReviews"`
	Reviews    []Review `gorm:"polymorphic:Subject" json:"reviews"`
}

func (Book) TableName() string {
	return "books"
}

func (b *Book) TargetID() uint       { return b.ID }
func (b *Book) TargetKind() Kind     { return KindBook }
func (b *Book) Label() string        { return b.Title }
func (b *Book) ReviewList() []Review { return b.Reviews }

func (b *Book) SetReviewList(reviews []Review) { b.Reviews = reviews }

func (b *Book) SetAggregate(rating float64, numReviews int) {
	b.Rating = rating
	b.NumReviews = numReviews
}

func (b *Book) Aggregates() (float64, int) { return b.Rating, b.NumReviews }
