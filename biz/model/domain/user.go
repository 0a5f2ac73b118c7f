package domain

import "time"

type User struct {
	ID         uint
	ProviderID string // empty on legacy rows until the next reconcile repairs it
	Email      string
	Name       string
	LoginCount uint
	LastLogin  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type LoginEvent struct {
	ID        uint
	UserID    uint // local users.id
	LoginTime time.Time
	IPAddress string
	UserAgent string
}

// Identity is what the auth provider hands back after verifying credentials.
// Tokens are provider-issued and passed through untouched.
type Identity struct {
	ProviderID   string
	Email        string
	Name         string
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
}

// Origin is best-effort client metadata attached to a login event.
type Origin struct {
	IPAddress string
	UserAgent string
}
