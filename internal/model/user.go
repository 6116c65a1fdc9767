package model

import (
	"time"
)

type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"not null" json:"username"`
	Role      string    `gorm:"not null;default:'member';check:role IN ('member', 'admin')" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Роли пользователей
const (
	RoleMember = "member" // обычный участник
	RoleAdmin  = "admin"  // может управлять чужими задачами и ролями
)

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
