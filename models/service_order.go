// models/service_order.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ServiceOrderStatus string

const (
	ServiceOrderOpen       ServiceOrderStatus = "OPEN"
	ServiceOrderInProgress ServiceOrderStatus = "IN_PROGRESS"
	ServiceOrderCompleted  ServiceOrderStatus = "COMPLETED"
	ServiceOrderCanceled   ServiceOrderStatus = "CANCELED"
)

// ServiceOrder representa uma ordem de serviço executada por um técnico.
type ServiceOrder struct {
	gorm.Model
	ClientID     uint               `json:"clientId" gorm:"not null;index"`
	Client       Client             `json:"client" gorm:"foreignKey:ClientID"`
	TechnicianID uint               `json:"technicianId" gorm:"not null;index"`
	Technician   User               `json:"technician" gorm:"foreignKey:TechnicianID"`
	Status       ServiceOrderStatus `json:"status" gorm:"type:varchar(15);not null;default:'OPEN'"`
	TotalAmount  decimal.Decimal    `json:"totalAmount" gorm:"type:numeric(10,2);not null"`
	Description  string             `json:"description" gorm:"type:text"`
	CompletedAt  *time.Time         `json:"completedAt" gorm:"index"`
}

func (ServiceOrder) TableName() string { return "service_orders" }
