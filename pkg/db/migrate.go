package db

import (
	"context"
	"fmt"

	"github.com/sairaahmed/poshaak-backend/pkg/db/models"
	"github.com/sairaahmed/poshaak-backend/pkg/logger"
)

// AutoMigrate creates or updates the schema for every collection the
// store owns. The sqlite-backed default runs this on every boot since
// the schema dies with the process.
func (c *Client) AutoMigrate(ctx context.Context, logg *logger.Logger) error {
	err := c.conn.WithContext(ctx).AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.CartRecord{},
		&models.CartItem{},
		&models.PromoCode{},
		&models.Order{},
		&models.OrderLineItem{},
		&models.Customer{},
		&models.Review{},
	)
	if err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	if logg != nil {
		logg.Info(ctx, "schema migrated")
	}
	return nil
}
