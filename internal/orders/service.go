package orders

import (
	"context"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"github.com/martlabs/stockmate/internal/domain"
	"github.com/martlabs/stockmate/pkg/common"
	"github.com/martlabs/stockmate/pkg/metrics"
)

// Event bus topics published on successful order mutations.
const (
	TopicOrderCreated = "orders.order.created"
	TopicOrderUpdated = "orders.order.updated"
	TopicOrderDeleted = "orders.order.deleted"
)

// ItemInput is a single line of an order create/replace request.
// Duplicate product ids across lines are kept as separate line items.
type ItemInput struct {
	ProductID int64
	Quantity  int
}

// CreateOrderInput carries the fields of an order create request.
type CreateOrderInput struct {
	Note  string
	Items []ItemInput
}

// UpdateOrderInput is a sparse patch. A nil Items field patches only the
// note; a non-nil Items field is a full replace of the item set.
type UpdateOrderInput struct {
	Note  *string
	Items *[]ItemInput
}

// Service runs the order transactional workflow: referential integrity is
// verified with one batched product lookup before any write, and the
// order plus its full item set commits as one atomic unit.
type Service struct {
	repo Repository
	bus  EventBus.BusPublisher
}

// NewService creates the order workflow service. bus may be nil.
func NewService(repo Repository, bus EventBus.BusPublisher) *Service {
	return &Service{repo: repo, bus: bus}
}

// CreateOrder validates the item set and persists the order atomically.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	items, err := s.buildItems(ctx, input.Items)
	if err != nil {
		return nil, s.reject("create", err)
	}

	order := &domain.Order{
		ID:    common.NextID(),
		Note:  input.Note,
		Items: items,
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	if err := s.repo.InsertOrderWithItems(ctx, order); err != nil {
		return nil, s.reject("create", domain.Persistencef("insert order", err))
	}

	metrics.ObserveMutation("order", "create")
	s.publish(TopicOrderCreated, order.ID, "created order")
	return s.repo.FindByID(ctx, order.ID)
}

// UpdateOrder patches the note, or atomically replaces the full item set
// when items are supplied. No intermediate state is visible to readers
// outside the transaction boundary.
func (s *Service) UpdateOrder(ctx context.Context, id int64, input UpdateOrderInput) (*domain.Order, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.reject("update", err)
	}

	// an empty patch writes nothing and publishes nothing
	if input.Note == nil && input.Items == nil {
		return current, nil
	}

	if input.Items == nil {
		if err := s.repo.UpdateOrderNote(ctx, id, *input.Note); err != nil {
			return nil, s.reject("update", persistenceUnlessKind(err, "update order note"))
		}
	} else {
		items, err := s.buildItems(ctx, *input.Items)
		if err != nil {
			return nil, s.reject("update", err)
		}
		if err := s.repo.ReplaceOrderItems(ctx, id, input.Note, items); err != nil {
			return nil, s.reject("update", domain.Persistencef("replace order items", err))
		}
	}

	metrics.ObserveMutation("order", "update")
	s.publish(TopicOrderUpdated, id, "updated order")
	return s.repo.FindByID(ctx, id)
}

// DeleteOrder removes the order and all owned items as one unit.
func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return s.reject("delete", err)
	}
	if err := s.repo.DeleteOrderWithItems(ctx, id); err != nil {
		return s.reject("delete", domain.Persistencef("delete order", err))
	}

	metrics.ObserveMutation("order", "delete")
	s.publish(TopicOrderDeleted, id, "deleted order")
	return nil
}

// GetOrder retrieves a single order with its items.
func (s *Service) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.repo.FindByID(ctx, id)
}

// ListOrders retrieves a filtered order page.
func (s *Service) ListOrders(ctx context.Context, filter OrderFilter, page, pageSize int) ([]domain.Order, int64, error) {
	return s.repo.List(ctx, filter, page, pageSize)
}

// buildItems validates item shapes, runs the batched existence check over
// the distinct product id set, and assigns ids and submission order.
func (s *Service) buildItems(ctx context.Context, inputs []ItemInput) ([]domain.OrderItem, error) {
	if len(inputs) == 0 {
		return nil, domain.Validationf("order must contain at least one item")
	}

	distinct := make([]int64, 0, len(inputs))
	seen := make(map[int64]struct{}, len(inputs))
	for _, in := range inputs {
		if in.ProductID == 0 {
			return nil, domain.Validationf("item product_id is required")
		}
		if in.Quantity <= 0 {
			return nil, domain.Validationf("item quantity must be greater than zero")
		}
		if _, ok := seen[in.ProductID]; !ok {
			seen[in.ProductID] = struct{}{}
			distinct = append(distinct, in.ProductID)
		}
	}

	found, err := s.repo.ExistingProductIDs(ctx, distinct)
	if err != nil {
		return nil, domain.Persistencef("check products", err)
	}
	if len(found) != len(distinct) {
		return nil, domain.Validationf("some products not found")
	}

	items := make([]domain.OrderItem, len(inputs))
	for i, in := range inputs {
		items[i] = domain.OrderItem{
			ID:        common.NextID(),
			ProductID: in.ProductID,
			Quantity:  in.Quantity,
			Seq:       i,
		}
	}
	return items, nil
}

func persistenceUnlessKind(err error, op string) error {
	if err == nil {
		return nil
	}
	switch domain.ErrorKind(err) {
	case "persistence":
		return domain.Persistencef(op, err)
	default:
		return err
	}
}

func (s *Service) reject(op string, err error) error {
	metrics.ObserveFailure("order", domain.ErrorKind(err))
	zap.L().Debug("order mutation rejected",
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
