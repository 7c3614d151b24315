package catalog

import (
	"context"

	"github.com/martlabs/stockmate/internal/domain"
)

// ProductFilter is the explicit filter struct for product listing. Every
// set field is combined with AND semantics.
type ProductFilter struct {
	Status    *string
	IsOrdered *bool
	Keyword   string
	Tags      []string
	Vendors   []int64
}

// Repository is the persistence gateway consumed by the product invariant
// guard. All multi-statement operations commit as one transaction.
type Repository interface {
	// FindByID retrieves a product by id
	FindByID(ctx context.Context, id int64) (*domain.Product, error)

	// FindByBarcode retrieves a product by its barcode
	FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error)

	// BarcodeInUse reports whether another product (id != excludeID)
	// already carries the barcode
	BarcodeInUse(ctx context.Context, barcode string, excludeID int64) (bool, error)

	// Insert persists a new product
	Insert(ctx context.Context, product *domain.Product) error

	// UpdateFields applies a sparse patch; absent columns stay untouched
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error

	// Delete removes a product row
	Delete(ctx context.Context, id int64) error

	// CountOrderItemsReferencing counts order items that still reference
	// the product
	CountOrderItemsReferencing(ctx context.Context, productID int64) (int64, error)

	// List retrieves products with pagination; orderBy must be a
	// whitelisted "column direction" clause
	List(ctx context.Context, filter ProductFilter, page, pageSize int, orderBy string) ([]domain.Product, int64, error)

	// ListAll retrieves every product, used by the CSV export
	ListAll(ctx context.Context) ([]domain.Product, error)
}
