package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles. Admins and leaders use the management endpoints; operators only
// redeem tickets on the shop floor with their code and PIN.
const (
	RoleAdmin    = "admin"
	RoleLeader   = "leader"
	RoleOperator = "operator"
)

// User represents a system account (admin or production leader) or an
// operational user. Operator PINs go through the same bcrypt hash as
// passwords.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         string         `gorm:"not null;default:'operator'" json:"role"`
	DefaultTask  string         `json:"default_task"` // pre-filled task for operators (costura, acabamento, ...)
	Active       bool           `gorm:"not null" json:"active"` // no default tag: GORM would drop an explicit false from the INSERT
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}
