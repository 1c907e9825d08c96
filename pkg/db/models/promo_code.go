package models

import (
	"time"

	"github.com/google/uuid"
)

// PromoCode is a redeemable discount coupon. UsageLimit of -1 means
// unlimited; otherwise UsedCount is compared against it.
type PromoCode struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Code               string    `gorm:"column:code;not null;uniqueIndex"`
	DiscountPercentage int       `gorm:"column:discount_percentage;not null"`
	UsageLimit         int       `gorm:"column:usage_limit;not null;default:-1"`
	UsedCount          int       `gorm:"column:used_count;not null;default:0"`
	IsActive           bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Redeemable reports whether the promo currently yields a discount.
func (p PromoCode) Redeemable() bool {
	if !p.IsActive {
		return false
	}
	return p.UsageLimit == -1 || p.UsedCount < p.UsageLimit
}
