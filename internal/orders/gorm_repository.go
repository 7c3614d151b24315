package orders

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/martlabs/stockmate/internal/domain"
)

type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates the GORM-backed order repository.
func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFoundf("order %d", id)
	} else if err != nil {
		return nil, errors.Wrap(err, "select order")
	}

	items, err := r.loadItems(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (r *gormRepository) loadItems(ctx context.Context, db *gorm.DB, orderID int64) ([]domain.OrderItem, error) {
	var items []domain.OrderItem
	err := db.WithContext(ctx).Where("order_id = ?", orderID).Order("seq ASC").Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(err, "select order items")
	}
	return items, nil
}

func (r *gormRepository) ExistingProductIDs(ctx context.Context, ids []int64) ([]int64, error) {
	var found []int64
	if len(ids) == 0 {
		return found, nil
	}
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id IN ?", ids).Pluck("id", &found).Error
	if err != nil {
		return nil, errors.Wrap(err, "select product ids")
	}
	return found, nil
}

func (r *gormRepository) InsertOrderWithItems(ctx context.Context, order *domain.Order) (err error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "begin tx")
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = tx.Create(order).Error; err != nil {
		return errors.Wrap(err, "insert order")
	}
	for i := range order.Items {
		if err = tx.Create(&order.Items[i]).Error; err != nil {
			return errors.Wrap(err, "insert order item")
		}
	}
	if err = markProductsOrdered(tx, order.Items); err != nil {
		return err
	}

	if err = tx.Commit().Error; err != nil {
		return errors.Wrap(err, "commit create order")
	}
	return nil
}

func (r *gormRepository) ReplaceOrderItems(ctx context.Context, orderID int64, note *string, items []domain.OrderItem) (err error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "begin tx")
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = tx.Where("order_id = ?", orderID).Delete(&domain.OrderItem{}).Error; err != nil {
		return errors.Wrap(err, "delete old order items")
	}
	for i := range items {
		items[i].OrderID = orderID
		if err = tx.Create(&items[i]).Error; err != nil {
			return errors.Wrap(err, "insert order item")
		}
	}
	if note != nil {
		if err = tx.Model(&domain.Order{}).Where("id = ?", orderID).
			Update("note", *note).Error; err != nil {
			return errors.Wrap(err, "update order note")
		}
	}
	if err = markProductsOrdered(tx, items); err != nil {
		return err
	}

	if err = tx.Commit().Error; err != nil {
		return errors.Wrap(err, "commit replace order items")
	}
	return nil
}

func (r *gormRepository) UpdateOrderNote(ctx context.Context, id int64, note string) error {
	result := r.db.WithContext(ctx).Model(&domain.Order{}).Where("id = ?", id).Update("note", note)
	if result.Error != nil {
		return errors.Wrap(result.Error, "update order note")
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundf("order %d", id)
	}
	return nil
}

func (r *gormRepository) DeleteOrderWithItems(ctx context.Context, id int64) (err error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "begin tx")
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = tx.Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
		return errors.Wrap(err, "delete order items")
	}
	if err = tx.Where("id = ?", id).Delete(&domain.Order{}).Error; err != nil {
		return errors.Wrap(err, "delete order")
	}

	if err = tx.Commit().Error; err != nil {
		return errors.Wrap(err, "commit delete order")
	}
	return nil
}

func (r *gormRepository) List(ctx context.Context, filter OrderFilter, page, pageSize int) ([]domain.Order, int64, error) {
	db := r.db.WithContext(ctx).Model(&domain.Order{})
	if q := strings.TrimSpace(filter.Keyword); q != "" {
		if strings.EqualFold(db.Dialector.Name(), "postgres") {
			db = db.Where("note ILIKE ?", "%"+q+"%")
		} else {
			db = db.Where("LOWER(note) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}
	if filter.CreatedFrom != nil {
		db = db.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		db = db.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count orders")
	}

	var rows []domain.Order
	if err := db.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return nil, 0, errors.Wrap(err, "select orders")
	}
	for i := range rows {
		items, err := r.loadItems(ctx, r.db, rows[i].ID)
		if err != nil {
			return nil, 0, err
		}
		rows[i].Items = items
	}
	return rows, total, nil
}

// markProductsOrdered flips is_ordered for products referenced the first
// time, inside the caller's transaction.
func markProductsOrdered(tx *gorm.DB, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	err := tx.Model(&domain.Product{}).
		Where("id IN ? AND is_ordered = ?", ids, false).
		Updates(map[string]interface{}{"is_ordered": true, "updated_at": time.Now()}).Error
	if err != nil {
		return errors.Wrap(err, "mark products ordered")
	}
	return nil
}
