package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"github.com/martlabs/stockmate/internal/domain"
	"github.com/martlabs/stockmate/pkg/common"
	"github.com/martlabs/stockmate/pkg/metrics"
)

// Event bus topics published on successful product mutations.
const (
	TopicProductCreated = "catalog.product.created"
	TopicProductUpdated = "catalog.product.updated"
	TopicProductDeleted = "catalog.product.deleted"
)

// CreateProductInput carries the fields of a product create request.
type CreateProductInput struct {
	Name      string
	Barcode   string
	CostPrice float64
	SellPrice float64
	Status    string
	Tags      []string
	Vendors   []int64
	Note      string
	ImagePath string
}

// UpdateProductInput is a sparse patch: nil fields are left untouched.
type UpdateProductInput struct {
	Name      *string
	Barcode   *string
	CostPrice *float64
	SellPrice *float64
	Status    *string
	Tags      *[]string
	Vendors   *[]int64
	Note      *string
	ImagePath *string
}

// Service enforces product invariants (barcode uniqueness, vendor
// membership, dependent-order delete guard) before any write reaches the
// repository.
type Service struct {
	repo Repository
	bus  EventBus.BusPublisher
}

// NewService creates the product invariant guard. bus may be nil.
func NewService(repo Repository, bus EventBus.BusPublisher) *Service {
	return &Service{repo: repo, bus: bus}
}

// CreateProduct validates the input and persists a new product with
// IsOrdered = false.
func (s *Service) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Barcode = strings.TrimSpace(input.Barcode)

	if input.Name == "" {
		return nil, s.reject("create", domain.Validationf("name is required"))
	}
	if input.Barcode == "" {
		return nil, s.reject("create", domain.Validationf("barcode is required"))
	}
	if input.CostPrice <= 0 {
		return nil, s.reject("create", domain.Validationf("cost_price must be greater than zero"))
	}
	if input.SellPrice <= 0 {
		return nil, s.reject("create", domain.Validationf("sell_price must be greater than zero"))
	}
	status := input.Status
	if status == "" {
		status = domain.ProductStatusActive
	}
	if !domain.ValidProductStatus(status) {
		return nil, s.reject("create", domain.Validationf("status must be one of %s", strings.Join(domain.ProductStatuses, ", ")))
	}
	if err := validateVendors(input.Vendors); err != nil {
		return nil, s.reject("create", err)
	}

	inUse, err := s.repo.BarcodeInUse(ctx, input.Barcode, 0)
	if err != nil {
		return nil, s.reject("create", domain.Persistencef("check barcode", err))
	}
	if inUse {
		return nil, s.reject("create", domain.Conflictf("barcode %s already exists", input.Barcode))
	}

	now := time.Now()
	product := &domain.Product{
		ID:        common.NextID(),
		Name:      input.Name,
		Barcode:   input.Barcode,
		CostPrice: input.CostPrice,
		SellPrice: input.SellPrice,
		Status:    status,
		IsOrdered: false,
		Tags:      domain.StringList(input.Tags),
		Vendors:   domain.Int64List(input.Vendors),
		Note:      input.Note,
		ImagePath: input.ImagePath,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, product); err != nil {
		return nil, s.reject("create", persistenceUnlessKind(err, "insert product"))
	}

	metrics.ObserveMutation("product", "create")
	s.publish(TopicProductCreated, product.ID, "created product "+product.Name)
	return product, nil
}

// UpdateProduct applies a sparse patch. A changed barcode is re-checked
// for uniqueness excluding the record being updated; a supplied non-empty
// vendor list is re-validated against the registry.
func (s *Service) UpdateProduct(ctx context.Context, id int64, input UpdateProductInput) (*domain.Product, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.reject("update", err)
	}

	fields := map[string]interface{}{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, s.reject("update", domain.Validationf("name must not be empty"))
		}
		fields["name"] = name
	}
	if input.Barcode != nil {
		barcode := strings.TrimSpace(*input.Barcode)
		if barcode == "" {
			return nil, s.reject("update", domain.Validationf("barcode must not be empty"))
		}
		if barcode != current.Barcode {
			inUse, err := s.repo.BarcodeInUse(ctx, barcode, id)
			if err != nil {
				return nil, s.reject("update", domain.Persistencef("check barcode", err))
			}
			if inUse {
				return nil, s.reject("update", domain.Conflictf("barcode %s already exists", barcode))
			}
		}
		fields["barcode"] = barcode
	}
	if input.CostPrice != nil {
		if *input.CostPrice <= 0 {
			return nil, s.reject("update", domain.Validationf("cost_price must be greater than zero"))
		}
		fields["cost_price"] = *input.CostPrice
	}
	if input.SellPrice != nil {
		if *input.SellPrice <= 0 {
			return nil, s.reject("update", domain.Validationf("sell_price must be greater than zero"))
		}
		fields["sell_price"] = *input.SellPrice
	}
	if input.Status != nil {
		if !domain.ValidProductStatus(*input.Status) {
			return nil, s.reject("update", domain.Validationf("status must be one of %s", strings.Join(domain.ProductStatuses, ", ")))
		}
		fields["status"] = *input.Status
	}
	if input.Tags != nil {
		fields["tags"] = domain.StringList(*input.Tags)
	}
	if input.Vendors != nil {
		if err := validateVendors(*input.Vendors); err != nil {
			return nil, s.reject("update", err)
		}
		fields["vendors"] = domain.Int64List(*input.Vendors)
	}
	if input.Note != nil {
		fields["note"] = *input.Note
	}
	if input.ImagePath != nil {
		fields["image_path"] = *input.ImagePath
	}

	if len(fields) == 0 {
		return current, nil
	}
	fields["updated_at"] = time.Now()

	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return nil, s.reject("update", persistenceUnlessKind(err, "update product"))
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.reject("update", err)
	}

	metrics.ObserveMutation("product", "update")
	s.publish(TopicProductUpdated, id, "updated product "+updated.Name)
	return updated, nil
}

// DeleteProduct removes a product unless order items still reference it.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.reject("delete", err)
	}

	dependents, err := s.repo.CountOrderItemsReferencing(ctx, id)
	if err != nil {
		return s.reject("delete", domain.Persistencef("count dependents", err))
	}
	if dependents > 0 {
		return s.reject("delete", domain.Conflictf("product %d has dependent orders (%d items)", id, dependents))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.reject("delete", domain.Persistencef("delete product", err))
	}

	metrics.ObserveMutation("product", "delete")
	s.publish(TopicProductDeleted, id, "deleted product "+product.Name)
	return nil
}

// SetStatus is the narrow status-only update.
func (s *Service) SetStatus(ctx context.Context, id int64, status string) (*domain.Product, error) {
	if !domain.ValidProductStatus(status) {
		return nil, s.reject("set_status", domain.Validationf("status must be one of %s", strings.Join(domain.ProductStatuses, ", ")))
	}
	return s.UpdateProduct(ctx, id, UpdateProductInput{Status: &status})
}

// SetOrderedFlag is the narrow is_ordered-only update.
func (s *Service) SetOrderedFlag(ctx context.Context, id int64, flag bool) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return s.reject("set_ordered", err)
	}
	fields := map[string]interface{}{
		"is_ordered": flag,
		"updated_at": time.Now(),
	}
	if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
		return s.reject("set_ordered", persistenceUnlessKind(err, "update product"))
	}
	metrics.ObserveMutation("product", "set_ordered")
	return nil
}

// GetProduct retrieves a single product.
func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// GetProductByBarcode retrieves a single product by its barcode, as read
// from a scanner.
func (s *Service) GetProductByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, domain.Validationf("barcode is required")
	}
	return s.repo.FindByBarcode(ctx, barcode)
}

// ListProducts retrieves a filtered product page.
func (s *Service) ListProducts(ctx context.Context, filter ProductFilter, page, pageSize int, orderBy string) ([]domain.Product, int64, error) {
	return s.repo.List(ctx, filter, page, pageSize, orderBy)
}

// ExportProducts retrieves every product for the CSV export.
func (s *Service) ExportProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListAll(ctx)
}

func validateVendors(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if missing := domain.UnknownVendorIDs(ids); len(missing) > 0 {
		return domain.Validationf("unknown vendor ids %v", missing)
	}
	return nil
}

// persistenceUnlessKind keeps already-classified errors and wraps raw
// storage errors as persistence failures.
func persistenceUnlessKind(err error, op string) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrConflict) || errors.Is(err, domain.ErrValidation) {
		return err
	}
	return domain.Persistencef(op, err)
}

func (s *Service) reject(op string, err error) error {
	metrics.ObserveFailure("product", domain.ErrorKind(err))
	zap.L().Debug("product mutation rejected",
		zap.String("op", op),
		zap.Error(err))
	return err
}

func (s *Service) publish(topic string, id int64, detail string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(topic, id, detail)
}
