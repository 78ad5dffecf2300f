package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Username     string         `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"size:150;uniqueIndex;not null" json:"email"`
	FirstName    string         `gorm:"size:150;not null" json:"first_name"`
	LastName     string         `gorm:"size:150" json:"last_name"`
	PasswordHash string         `gorm:"not null" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Follower is a subscription of one user to another. The composite primary
// key makes the pair unique; self-follows are rejected at the service level.
type Follower struct {
	UserID      uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	FollowingID uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}
