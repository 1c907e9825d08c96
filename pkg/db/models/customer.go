package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer aggregates order history keyed by normalized phone number.
// At most one record exists per normalized phone.
type Customer struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name            string          `gorm:"column:name;not null"`
	Phone           string          `gorm:"column:phone;not null"`
	NormalizedPhone string          `gorm:"column:normalized_phone;not null;uniqueIndex"`
	Address         string          `gorm:"column:address;not null;default:''"`
	City            string          `gorm:"column:city;not null;default:''"`
	IsDHA           bool            `gorm:"column:is_dha;not null;default:false"`
	OrdersCount     int             `gorm:"column:orders_count;not null;default:0"`
	TotalSpend      decimal.Decimal `gorm:"column:total_spend;type:numeric(12,2);not null"`
	LastOrderDate   *time.Time      `gorm:"column:last_order_date"`
	JoinedDate      time.Time       `gorm:"column:joined_date;not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
