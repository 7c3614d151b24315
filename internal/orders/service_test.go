package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/asaskevich/EventBus"
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

func seedProduct(t *testing.T, db *gorm.DB, name, barcode string) *domain.Product {
	t.Helper()
	p := &domain.Product{
		ID:        common.NextID(),
		Name:      name,
		Barcode:   barcode,
		CostPrice: 20,
		SellPrice: 25,
		Status:    domain.ProductStatusActive,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestCreateOrder(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	coke := seedProduct(t, db, "Coke", "COKE-001")
	chips := seedProduct(t, db, "Chips", "CHIPS-001")

	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		Note: "weekly restock",
		Items: []ItemInput{
			{ProductID: coke.ID, Quantity: 50},
			{ProductID: chips.ID, Quantity: 10},
		},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 2)

	// items come back in submission order
	assert.Equal(t, coke.ID, order.Items[0].ProductID)
	assert.Equal(t, 50, order.Items[0].Quantity)
	assert.Equal(t, chips.ID, order.Items[1].ProductID)
	assert.Equal(t, order.ID, order.Items[0].OrderID)

	// both products are now flagged as ordered
	var got domain.Product
	require.NoError(t, db.First(&got, coke.ID).Error)
	assert.True(t, got.IsOrdered)
	var got2 domain.Product
	require.NoError(t, db.First(&got2, chips.ID).Error)
	assert.True(t, got2.IsOrdered)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	coke := seedProduct(t, db, "Coke", "COKE-001")

	_, err := svc.CreateOrder(ctx, CreateOrderInput{
		Items: []ItemInput{
			{ProductID: coke.ID, Quantity: 1},
			{ProductID: 424242, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	// nothing was persisted, not even the valid line
	var orders, items int64
	require.NoError(t, db.Model(&domain.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&domain.OrderItem{}).Count(&items).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestCreateOrderValidation(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	coke := seedProduct(t, db, "Coke", "COKE-001")

	_, err := svc.CreateOrder(ctx, CreateOrderInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateOrder(ctx, CreateOrderInput{
		Items: []ItemInput{{ProductID: coke.ID, Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateOrder(ctx, CreateOrderInput{
		Items: []ItemInput{{Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateOrderDuplicateProductLines(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	coke := seedProduct(t, db, "Coke", "COKE-001")

	// the same product on two lines stays two separate line items
	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		Items: []ItemInput{
			{ProductID: coke.ID, Quantity: 5},
			{ProductID: coke.ID, Quantity: 7},
		},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 5, order.Items[0].Quantity)
	assert.Equal(t, 7, order.Items[1].Quantity)
	assert.NotEqual(t, order.Items[0].ID, order.Items[1].ID)
}

func TestUpdateOrderNoteOnly(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	coke := seedProduct(t, db, "Coke", "COKE-001")
	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		Note:  "old note",
		Items: []ItemInput{{ProductID: coke.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	note := "new note"
	updated, err := svc.UpdateOrder(ctx, order.ID, UpdateOrderInput{Note: &note})
	require.NoError(t, err)
	assert.Equal(t, "new note", updated.Note)

	// the item set is untouched by a note-only patch
	require.Len(t, updated.Items, 1)
	assert.Equal(t, order.Items[0].ID, updated.Items[0].ID)
}

func TestUpdateOrderEmptyPatch(t *testing.T) {
	db := newTestDB(t)
	bus := EventBus.New()
	var updates int
	require.NoError(t, bus.Subscribe(TopicOrderUpdated, func(id int64, detail string) {
		updates++
	}))
	svc := NewService(NewGormRepository(db), bus)
	ctx := context.Background()

	coke := seedProduct(t, db, "Coke", "COKE-001")
	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		Note:  "unchanged",
		Items: []ItemInput{{ProductID: coke.ID, Quantity: 4}},
	})
	require.NoError(t, err)

	// a patch with neither note nor items writes and publishes nothing
	got, err := svc.UpdateOrder(ctx, order.ID, UpdateOrderInput{})
	require.NoError(t, err)
	assert.Equal(t, "unchanged", got.Note)
	require.Len(t, got.Items, 1)
	assert.Zero(t, updates)

	note := "changed"
	_, err = svc.UpdateOrder(ctx, order.ID, UpdateOrderInput{Note: &note})
	require.NoError(t, err)
	assert.Equal(t, 1, updates)
}

func TestUpdateOrderReplaceItems(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	coke := seedProduct(t, db, "Coke", "COKE-001")
	chips := seedProduct(t, db, "Chips", "CHIPS-001")

	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		Items: []ItemInput{
			{ProductID: coke.ID, Quantity: 50},
			{ProductID: chips.ID, Quantity: 10},
		},
	})
	require.NoError(t, err)
	oldIDs := []int64{order.Items[0].ID, order.Items[1].ID}

	updated, err := svc.UpdateOrder(ctx, order.ID, UpdateOrderInput{
		Items: &[]ItemInput{{ProductID: chips.ID, Quantity: 99}},
	})
	require.NoError(t, err)

	// the final state is exactly the new set, old rows are gone
	require.Len(t, updated.Items, 1)
	assert.Equal(t, chips.ID, updated.Items[0].ProductID)
	assert.Equal(t, 99, updated.Items[0].Quantity)
	assert.NotContains(t, oldIDs, updated.Items[0].ID)

	var count int64
	require.NoError(t, db.Model(&domain.OrderItem{}).
		Where("order_id = ?", order.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateOrderUnknownProductKeepsPriorItems(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	coke := seedProduct(t, db, "Coke", "COKE-001")
	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		Items: []ItemInput{{ProductID: coke.ID, Quantity: 50}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateOrder(ctx, order.ID, UpdateOrderInput{
		Items: &[]ItemInput{{ProductID: 424242, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, coke.ID, got.Items[0].ProductID)
	assert.Equal(t, 50, got.Items[0].Quantity)
}

func TestReplaceOrderItemsRollsBack(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	coke := seedProduct(t, db, "Coke", "COKE-001")
	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		Note:  "keep me",
		Items: []ItemInput{{ProductID: coke.ID, Quantity: 50}},
	})
	require.NoError(t, err)

	// a duplicated primary key makes the second insert fail mid-transaction
	repo := NewGormRepository(db)
	dupID := common.NextID()
	note := "lost note"
	err = repo.ReplaceOrderItems(ctx, order.ID, &note, []domain.OrderItem{
		{ID: dupID, ProductID: coke.ID, Quantity: 1, Seq: 0},
		{ID: dupID, ProductID: coke.ID, Quantity: 2, Seq: 1},
	})
	require.Error(t, err)

	// the rollback restored the prior item set and note
	got, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Note)
	require.Len(t, got.Items, 1)
	assert.Equal(t, order.Items[0].ID, got.Items[0].ID)
	assert.Equal(t, 50, got.Items[0].Quantity)
}

func TestDeleteOrder(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	coke := seedProduct(t, db, "Coke", "COKE-001")
	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		Items: []ItemInput{{ProductID: coke.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(ctx, order.ID))

	_, err = svc.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var items int64
	require.NoError(t, db.Model(&domain.OrderItem{}).
		Where("order_id = ?", order.ID).Count(&items).Error)
	assert.Zero(t, items)

	assert.ErrorIs(t, svc.DeleteOrder(ctx, order.ID), domain.ErrNotFound)
}

func TestGetOrderIdempotentRead(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	coke := seedProduct(t, db, "Coke", "COKE-001")
	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		Items: []ItemInput{{ProductID: coke.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	first, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	second, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestListOrders(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	coke := seedProduct(t, db, "Coke", "COKE-001")
	for _, note := range []string{"monday restock", "friday restock", "promo batch"} {
		_, err := svc.CreateOrder(ctx, CreateOrderInput{
			Note:  note,
			Items: []ItemInput{{ProductID: coke.ID, Quantity: 1}},
		})
		require.NoError(t, err)
	}

	rows, total, err := svc.ListOrders(ctx, OrderFilter{}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, rows, 3)

	rows, total, err = svc.ListOrders(ctx, OrderFilter{Keyword: "restock"}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	future := time.Now().Add(time.Hour)
	_, total, err = svc.ListOrders(ctx, OrderFilter{CreatedFrom: &future}, 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)

	// pagination slices the result set
	rows, total, err = svc.ListOrders(ctx, OrderFilter{}, 1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, rows, 2)
}
