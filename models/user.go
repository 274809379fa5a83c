// models/user.go
package models

import "gorm.io/gorm"

type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleManager    UserRole = "MANAGER"
	RoleTechnician UserRole = "TECHNICIAN"
)

type UserStatus string

const (
	UserActive   UserStatus = "ACTIVE"
	UserInactive UserStatus = "INACTIVE"
)

// User representa um usuário do sistema. Técnicos são usuários com a role
// TECHNICIAN.
type User struct {
	gorm.Model
	Name         string     `json:"name" gorm:"not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"not null"`
	Role         UserRole   `json:"role" gorm:"type:varchar(15);not null;default:'TECHNICIAN'"`
	Status       UserStatus `json:"status" gorm:"type:varchar(10);not null;default:'ACTIVE'"`
}
