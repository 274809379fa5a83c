// models/client.go
package models

import "gorm.io/gorm"

// Client representa um cliente da assistência técnica.
type Client struct {
	gorm.Model
	Name  string `json:"name" gorm:"not null"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
