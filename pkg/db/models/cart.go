package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartRecord holds the single active cart plus the drawer visibility
// flag the storefront toggles.
type CartRecord struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	IsOpen    bool       `gorm:"column:is_open;not null;default:false"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// CartItem is a product snapshot taken at add-time, not a live
// reference. Uniqueness key is (cart, product, size).
type CartItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CartID    uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_product_size"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_product_size"`
	Size      string          `gorm:"column:size;not null;uniqueIndex:idx_cart_product_size"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Name      string          `gorm:"column:name;not null"`
	Category  string          `gorm:"column:category;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Image     string          `gorm:"column:image;not null;default:''"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
