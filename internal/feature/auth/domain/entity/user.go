// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Role はユーザーの権限レベルを表します。
type Role string

const (
	// RoleUser は一般ユーザー（お気に入りと照会のみ）です。
	RoleUser Role = "user"
	// RoleAdmin は管理者（銘柄管理・一括取り込み・ログ閲覧が可能）です。
	RoleAdmin Role = "admin"
)

// User represents a registered user in the system.
// It contains authentication credentials and metadata for user management.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the hashed password for the user.
	// This should never store plaintext passwords.
	Password string `gorm:"size:255;not null"`

	// Role is the user's permission level ("user" or "admin").
	Role Role `gorm:"size:20;not null;default:user"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}

// IsAdmin は管理者権限を持つかどうかを返します。
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
