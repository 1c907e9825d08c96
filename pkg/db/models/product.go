package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalog listing. Price is the current sale
// price; CompareAtPrice holds the pre-discount base and is present
// only while the product is on sale.
type Product struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Name           string           `gorm:"column:name;not null"`
	Description    string           `gorm:"column:description;not null;default:''"`
	Category       string           `gorm:"column:category;not null"`
	Price          decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	CompareAtPrice *decimal.Decimal `gorm:"column:compare_at_price;type:numeric(12,2)"`
	Images         []string         `gorm:"column:images;serializer:json"`
	IsVisible      bool             `gorm:"column:is_visible;not null;default:true"`
	InStock        bool             `gorm:"column:in_stock;not null;default:false"`
	Variants       []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductVariant tracks stock for one size of a product. Sizes are
// unique within a product.
type ProductVariant struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_product_size"`
	Size      string    `gorm:"column:size;not null;uniqueIndex:idx_product_size"`
	Stock     int       `gorm:"column:stock;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// ComputeInStock derives the stock flag from the variant counts. The
// stored column must never be set any other way.
func (p *Product) ComputeInStock() bool {
	for _, v := range p.Variants {
		if v.Stock > 0 {
			return true
		}
	}
	return false
}
