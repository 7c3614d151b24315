package orders

import (
	"context"
	"time"

	"github.com/martlabs/stockmate/internal/domain"
)

// OrderFilter is the explicit filter struct for order listing.
type OrderFilter struct {
	Keyword     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// Repository is the persistence gateway consumed by the order workflow.
// Every multi-statement operation executes inside one transaction so that
// concurrent readers observe either the fully-old or fully-new state.
type Repository interface {
	// FindByID retrieves an order with its items in submission order
	FindByID(ctx context.Context, id int64) (*domain.Order, error)

	// ExistingProductIDs returns the subset of ids that resolve to
	// products, in one batched lookup
	ExistingProductIDs(ctx context.Context, ids []int64) ([]int64, error)

	// InsertOrderWithItems persists the order and its full item set as
	// one atomic unit and flips is_ordered on newly referenced products
	InsertOrderWithItems(ctx context.Context, order *domain.Order) error

	// ReplaceOrderItems deletes every item owned by the order, inserts
	// the new set and optionally patches the note, all in one transaction
	ReplaceOrderItems(ctx context.Context, orderID int64, note *string, items []domain.OrderItem) error

	// UpdateOrderNote patches only the note field
	UpdateOrderNote(ctx context.Context, id int64, note string) error

	// DeleteOrderWithItems removes the order and its items as one unit
	DeleteOrderWithItems(ctx context.Context, id int64) error

	// List retrieves orders with their items, paginated
	List(ctx context.Context, filter OrderFilter, page, pageSize int) ([]domain.Order, int64, error)
}
