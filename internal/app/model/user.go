package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser     UserRole = "user"     // may browse, not review
	RoleReviewer UserRole = "reviewer" // may post and delete own reviews
	RoleAdmin    UserRole = "admin"    // curates entries, deletes any review
)

// CanReview reports whether the role holds reviewer privilege.
func (r UserRole) CanReview() bool {
	return r == RoleReviewer || r == RoleAdmin
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

type User struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Email         string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  string         `gorm:"not null" json:"-"`
	Username      string         `gorm:"not null" json:"username"`
	Image         string         `json:"image,omitempty"`
	DiscordID     string         `json:"discordId,omitempty"` // carried over from the Discord-based frontend
	Discriminator string         `json:"discriminator,omitempty"`
	Role          UserRole       `gorm:"type:varchar(20);default:'user'" json:"role"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
