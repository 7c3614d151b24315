package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/martlabs/stockmate/internal/domain"
	"github.com/martlabs/stockmate/pkg/common"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrator().AutoMigrate(domain.Tables...))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	db := newTestDB(t)
	return NewService(NewGormRepository(db), nil), db
}

func validInput() CreateProductInput {
	return CreateProductInput{
		Name:      "Coke",
		Barcode:   "COKE-001",
		CostPrice: 20,
		SellPrice: 25,
	}
}

func TestCreateProductDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	p, err := svc.CreateProduct(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, "Coke", p.Name)
	assert.Equal(t, "COKE-001", p.Barcode)
	assert.Equal(t, domain.ProductStatusActive, p.Status)
	assert.False(t, p.IsOrdered)
	assert.NotZero(t, p.ID)
}

func TestCreateProductValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		morph func(*CreateProductInput)
	}{
		{"empty name", func(in *CreateProductInput) { in.Name = " " }},
		{"empty barcode", func(in *CreateProductInput) { in.Barcode = "" }},
		{"zero cost price", func(in *CreateProductInput) { in.CostPrice = 0 }},
		{"negative sell price", func(in *CreateProductInput) { in.SellPrice = -1 }},
		{"bad status", func(in *CreateProductInput) { in.Status = "SOLD_OUT" }},
		{"unknown vendor", func(in *CreateProductInput) { in.Vendors = []int64{99999} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.morph(&in)
			_, err := svc.CreateProduct(ctx, in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCreateProductKnownVendors(t *testing.T) {
	svc, _ := newTestService(t)

	in := validInput()
	in.Vendors = []int64{1, 2}
	in.Tags = []string{"drinks", "cold", "drinks"}

	p, err := svc.CreateProduct(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, domain.Int64List{1, 2}, p.Vendors)
	// duplicates permitted, order preserved
	assert.Equal(t, domain.StringList{"drinks", "cold", "drinks"}, p.Tags)
}

func TestBarcodeUniqueness(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	original, err := svc.CreateProduct(ctx, validInput())
	require.NoError(t, err)

	dup := validInput()
	dup.Name = "Fake Coke"
	_, err = svc.CreateProduct(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// the original record is left unmodified
	got, err := svc.GetProduct(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "Coke", got.Name)
	assert.Equal(t, original.UpdatedAt.Unix(), got.UpdatedAt.Unix())
}

func TestBarcodeUniqueIndexMapsToConflict(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateProduct(ctx, validInput())
	require.NoError(t, err)

	// a racing create passes BarcodeInUse before the winner commits; its
	// insert then lands on the unique index and must classify as conflict
	repo := NewGormRepository(db)
	racer := &domain.Product{
		ID:        common.NextID(),
		Name:      "Racer",
		Barcode:   first.Barcode,
		CostPrice: 20,
		SellPrice: 25,
		Status:    domain.ProductStatusActive,
	}
	err = repo.Insert(ctx, racer)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// same classification when an update races onto a taken barcode
	in := validInput()
	in.Barcode = "PEPSI-001"
	other, err := svc.CreateProduct(ctx, in)
	require.NoError(t, err)

	err = repo.UpdateFields(ctx, other.ID, map[string]interface{}{"barcode": first.Barcode})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpdateProductSparse(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in := validInput()
	in.Note = "fridge shelf"
	in.Tags = []string{"drinks"}
	p, err := svc.CreateProduct(ctx, in)
	require.NoError(t, err)

	price := 30.0
	updated, err := svc.UpdateProduct(ctx, p.ID, UpdateProductInput{SellPrice: &price})
	require.NoError(t, err)

	assert.Equal(t, 30.0, updated.SellPrice)
	// everything else retains its pre-call value
	assert.Equal(t, p.Name, updated.Name)
	assert.Equal(t, p.Barcode, updated.Barcode)
	assert.Equal(t, p.CostPrice, updated.CostPrice)
	assert.Equal(t, p.Status, updated.Status)
	assert.Equal(t, p.Note, updated.Note)
	assert.Equal(t, domain.StringList{"drinks"}, updated.Tags)
}

func TestUpdateProductBarcodeConflict(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateProduct(ctx, validInput())
	require.NoError(t, err)

	second := validInput()
	second.Barcode = "PEPSI-001"
	other, err := svc.CreateProduct(ctx, second)
	require.NoError(t, err)

	taken := first.Barcode
	_, err = svc.UpdateProduct(ctx, other.ID, UpdateProductInput{Barcode: &taken})
	assert.ErrorIs(t, err, domain.ErrConflict)

	// re-submitting the unchanged barcode is not a conflict
	same := other.Barcode
	_, err = svc.UpdateProduct(ctx, other.ID, UpdateProductInput{Barcode: &same})
	assert.NoError(t, err)
}

func TestUpdateProductNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	name := "Ghost"
	_, err := svc.UpdateProduct(context.Background(), 12345, UpdateProductInput{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteProductBlockedByDependents(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, validInput())
	require.NoError(t, err)

	item := domain.OrderItem{ID: 1, OrderID: 1, ProductID: p.ID, Quantity: 50}
	require.NoError(t, db.Create(&item).Error)

	err = svc.DeleteProduct(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// the product remains in storage unchanged
	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Barcode, got.Barcode)

	// once the dependent item is gone the delete succeeds
	require.NoError(t, db.Delete(&item).Error)
	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	_, err = svc.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetStatusAndOrderedFlag(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, validInput())
	require.NoError(t, err)

	updated, err := svc.SetStatus(ctx, p.ID, domain.ProductStatusOutOfStock)
	require.NoError(t, err)
	assert.Equal(t, domain.ProductStatusOutOfStock, updated.Status)

	_, err = svc.SetStatus(ctx, p.ID, "NOPE")
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, svc.SetOrderedFlag(ctx, p.ID, true))
	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.IsOrdered)

	assert.ErrorIs(t, svc.SetOrderedFlag(ctx, 999, true), domain.ErrNotFound)
}

func TestGetProductByBarcode(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, validInput())
	require.NoError(t, err)

	got, err := svc.GetProductByBarcode(ctx, " COKE-001 ")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.GetProductByBarcode(ctx, "MISSING-001")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetProductByBarcode(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetProductIdempotentRead(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, validInput())
	require.NoError(t, err)

	first, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	second, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestListProductsFilter(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i, status := range []string{
		domain.ProductStatusActive,
		domain.ProductStatusActive,
		domain.ProductStatusDiscontinued,
	} {
		in := validInput()
		in.Name = fmt.Sprintf("Item %d", i)
		in.Barcode = fmt.Sprintf("BAR-%03d", i)
		in.Status = status
		in.Tags = []string{fmt.Sprintf("tag%d", i)}
		_, err := svc.CreateProduct(ctx, in)
		require.NoError(t, err)
	}

	rows, total, err := svc.ListProducts(ctx, ProductFilter{}, 1, 20, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, rows, 3)

	active := domain.ProductStatusActive
	rows, total, err = svc.ListProducts(ctx, ProductFilter{Status: &active}, 1, 20, "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	rows, total, err = svc.ListProducts(ctx, ProductFilter{Keyword: "BAR-002"}, 1, 20, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Item 2", rows[0].Name)

	_, total, err = svc.ListProducts(ctx, ProductFilter{Tags: []string{"tag1"}}, 1, 20, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
