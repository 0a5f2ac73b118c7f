package storage

import (
	"time"

	"gorm.io/plugin/soft_delete"
)

type GormModel struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt soft_delete.DeletedAt
}

// UserRecord is the application-side profile row, denormalized from the
// hosted auth provider on every login. ProviderId is nullable so legacy rows
// created before the provider migration do not collide on the unique index.
type UserRecord struct {
	GormModel
	ProviderId *string   `gorm:"size:64;uniqueIndex"` // auth provider user id
	Email      string    `gorm:"size:255;not null;index"`
	FullName   string    `gorm:"size:128;not null"`
	LoginCount uint      `gorm:"not null;default:0"`
	LastLogin  time.Time `gorm:"not null"`
}

func (UserRecord) TableName() string {
	return "users"
}

// LoginRecord is append-only. UserID references users.id, the local primary
// key, never the provider-side user id.
type LoginRecord struct {
	GormModel
	UserID    uint       `gorm:"not null;index"`
	User      UserRecord `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	LoginTime time.Time  `gorm:"not null;index"`
	IPAddress string     `gorm:"size:64;not null"`
	UserAgent string     `gorm:"size:255;not null"`
}

func (LoginRecord) TableName() string {
	return "logins"
}
