package domain

import "time"

type Role string

const (
	RoleCustomer  Role = "customer"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleModerator || r == RoleAdmin
}

type User struct {
	ID           uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Email        string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"type:varchar(255);not null"`
	FirstName    string    `json:"first_name" gorm:"type:varchar(100)"`
	LastName     string    `json:"last_name" gorm:"type:varchar(100)"`
	Phone        string    `json:"phone,omitempty" gorm:"type:varchar(32)"`
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;default:'customer'"`
	IsVerified   bool      `json:"is_verified"`
	IsBlocked    bool      `json:"is_blocked"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID uint64
	Role   Role
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
