package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is customer feedback attached to a product.
type Review struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Author    string    `gorm:"column:author;not null"`
	Rating    int       `gorm:"column:rating;not null"`
	Comment   string    `gorm:"column:comment;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
