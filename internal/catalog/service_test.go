package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sairaahmed/poshaak-backend/pkg/db/models"
	pkgerrors "github.com/sairaahmed/poshaak-backend/pkg/errors"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
	))
	return conn
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newCatalogService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), gormTxRunner{db: conn})
	require.NoError(t, err)
	return svc
}

func TestCreateProductDerivesInStock(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newCatalogService(t, conn)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:      "Lawn Kurta",
		Category:  "kurtas",
		Price:     decimal.NewFromInt(4500),
		IsVisible: true,
		Variants: []VariantInput{
			{Size: "S", Stock: 0},
			{Size: "M", Stock: 3},
		},
	})
	require.NoError(t, err)
	assert.True(t, created.InStock)
	assert.Len(t, created.Variants, 2)

	empty, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:     "Silk Dupatta",
		Category: "dupattas",
		Price:    decimal.NewFromInt(1800),
		Variants: []VariantInput{{Size: "One Size", Stock: 0}},
	})
	require.NoError(t, err)
	assert.False(t, empty.InStock)
}

func TestCreateProductRejectsDuplicateSizes(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newCatalogService(t, conn)

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:     "Kurta",
		Price:    decimal.NewFromInt(100),
		Variants: []VariantInput{{Size: "M", Stock: 1}, {Size: "M", Stock: 2}},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSetInventoryRecomputesInStock(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newCatalogService(t, conn)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:     "Shalwar Suit",
		Price:    decimal.NewFromInt(8499),
		Variants: []VariantInput{{Size: "M", Stock: 5}},
	})
	require.NoError(t, err)
	require.True(t, created.InStock)

	updated, err := svc.SetInventory(ctx, created.ID, []VariantInput{
		{Size: "M", Stock: 0},
		{Size: "L", Stock: 0},
	})
	require.NoError(t, err)
	assert.False(t, updated.InStock)
	assert.Len(t, updated.Variants, 2)

	updated, err = svc.SetInventory(ctx, created.ID, []VariantInput{{Size: "XL", Stock: 2}})
	require.NoError(t, err)
	assert.True(t, updated.InStock)
}

func TestUpdateProductClearsSaleOnPriceEdit(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newCatalogService(t, conn)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:  "Khaddar Shawl",
		Price: decimal.NewFromInt(3000),
	})
	require.NoError(t, err)

	base := decimal.NewFromInt(3000)
	require.NoError(t, conn.Model(&models.Product{}).
		Where("id = ?", created.ID).
		Updates(map[string]any{"price": decimal.NewFromInt(2400), "compare_at_price": base}).Error)

	newPrice := decimal.NewFromInt(2000)
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{Price: &newPrice})
	require.NoError(t, err)
	assert.Nil(t, updated.CompareAtPrice)
	assert.True(t, updated.Price.Equal(newPrice))
}

func TestLookupMissReturnsNotFound(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newCatalogService(t, conn)

	_, err := svc.GetProduct(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	err = svc.DeleteProduct(context.Background(), uuid.New())
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCategoryUniqueness(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newCatalogService(t, conn)
	ctx := context.Background()

	_, err := svc.AddCategory(ctx, "kurtas")
	require.NoError(t, err)

	_, err = svc.AddCategory(ctx, "kurtas")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	require.NoError(t, svc.DeleteCategory(ctx, "kurtas"))
	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestListProductsVisibilityFilter(t *testing.T) {
	conn := setupCatalogTestDB(t)
	svc := newCatalogService(t, conn)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Visible", Price: decimal.NewFromInt(10), IsVisible: true})
	require.NoError(t, err)
	_, err = svc.CreateProduct(ctx, CreateProductInput{Name: "Hidden", Price: decimal.NewFromInt(10), IsVisible: false})
	require.NoError(t, err)

	visible, err := svc.ListProducts(ctx, false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Visible", visible[0].Name)

	all, err := svc.ListProducts(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
