package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/martlabs/stockmate/internal/domain"
)

type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates the GORM-backed product repository.
func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFoundf("product %d", id)
	} else if err != nil {
		return nil, errors.Wrap(err, "select product")
	}
	return &p, nil
}

func (r *gormRepository) FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Where("barcode = ?", barcode).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFoundf("product barcode %s", barcode)
	} else if err != nil {
		return nil, errors.Wrap(err, "select product by barcode")
	}
	return &p, nil
}

func (r *gormRepository) BarcodeInUse(ctx context.Context, barcode string, excludeID int64) (bool, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&domain.Product{}).Where("barcode = ?", barcode)
	if excludeID != 0 {
		db = db.Where("id != ?", excludeID)
	}
	if err := db.Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "count barcode")
	}
	return count > 0, nil
}

func (r *gormRepository) Insert(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		// Two racing creates can both pass BarcodeInUse; the loser lands
		// on the unique index and must still surface as a conflict.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Conflictf("barcode %s already exists", product.Barcode)
		}
		return errors.Wrap(err, "insert product")
	}
	return nil
}

func (r *gormRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.Conflictf("barcode %v already exists", fields["barcode"])
		}
		return errors.Wrap(result.Error, "update product")
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundf("product %d", id)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return errors.Wrap(err, "delete product")
	}
	return nil
}

func (r *gormRepository) CountOrderItemsReferencing(ctx context.Context, productID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.OrderItem{}).
		Where("product_id = ?", productID).Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "count order items")
	}
	return count, nil
}

func (r *gormRepository) List(ctx context.Context, filter ProductFilter, page, pageSize int, orderBy string) ([]domain.Product, int64, error) {
	db := r.applyFilter(r.db.WithContext(ctx).Model(&domain.Product{}), filter)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}

	if orderBy == "" {
		orderBy = "id DESC"
	}

	var rows []domain.Product
	if err := db.Order(orderBy).Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return nil, 0, errors.Wrap(err, "select products")
	}
	return rows, total, nil
}

func (r *gormRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	var rows []domain.Product
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "select all products")
	}
	return rows, nil
}

func (r *gormRepository) applyFilter(db *gorm.DB, filter ProductFilter) *gorm.DB {
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.IsOrdered != nil {
		db = db.Where("is_ordered = ?", *filter.IsOrdered)
	}
	if q := strings.TrimSpace(filter.Keyword); q != "" {
		if strings.EqualFold(db.Dialector.Name(), "postgres") {
			db = db.Where("name ILIKE ? OR barcode ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			like := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(name) LIKE ? OR LOWER(barcode) LIKE ?", like, like)
		}
	}
	// Tags and vendors live in JSON text columns; match against their
	// serialized forms.
	for _, tag := range filter.Tags {
		db = db.Where("tags LIKE ?", "%"+`"`+tag+`"`+"%")
	}
	for _, vendor := range filter.Vendors {
		v := fmt.Sprintf("%d", vendor)
		db = db.Where("vendors LIKE ? OR vendors LIKE ? OR vendors LIKE ? OR vendors = ?",
			"["+v+",%", "%,"+v+",%", "%,"+v+"]", "["+v+"]")
	}
	return db
}
