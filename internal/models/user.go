package models

import (
	"time"
)

type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"` // parent, child
	ParentID     *string   `json:"parent_id,omitempty" db:"parent_id"`
	TotalXP      int       `json:"total_xp" db:"total_xp"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

type UserRole string

const (
	RoleParent UserRole = "parent"
	RoleChild  UserRole = "child"
)

func (r UserRole) String() string {
	return string(r)
}

func IsValidRole(role string) bool {
	switch role {
	case "parent", "child":
		return true
	default:
		return false
	}
}

// XP needed to advance one level.
const XPPerLevel = 100

// Level derives the child's level from accumulated XP.
func (u *User) Level() int {
	return u.TotalXP/XPPerLevel + 1
}

type ChildWithXP struct {
	ID      string `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	TotalXP int    `json:"total_xp" db:"total_xp"`
	Level   int    `json:"level"`
}
