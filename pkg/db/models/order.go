package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sairaahmed/poshaak-backend/pkg/enums"
)

// Order is a ledger entry created by checkout. Everything but Status
// is immutable once written.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	CustomerName  string              `gorm:"column:customer_name;not null"`
	Phone         string              `gorm:"column:phone;not null"`
	Address       string              `gorm:"column:address;not null"`
	City          string              `gorm:"column:city;not null"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	Status        enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null;default:'cod'"`
	PromoCode     *string             `gorm:"column:promo_code"`
	PlacedAt      time.Time           `gorm:"column:placed_at;not null"`
	Items         []OrderLineItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLineItem captures the frozen snapshot of each purchased line.
type OrderLineItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Name      string          `gorm:"column:name;not null"`
	Category  string          `gorm:"column:category;not null"`
	Size      string          `gorm:"column:size;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Image     string          `gorm:"column:image;not null;default:''"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
