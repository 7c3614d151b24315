// Package oplog persists an audit trail of successful mutations. It
// subscribes to the application event bus so the services stay unaware of
// the audit storage.
package oplog

import (
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/martlabs/stockmate/internal/catalog"
	"github.com/martlabs/stockmate/internal/domain"
	"github.com/martlabs/stockmate/internal/orders"
	"github.com/martlabs/stockmate/pkg/common"
)

// Recorder writes SysOpLog rows for mutation events.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder creates a Recorder bound to db.
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// Subscribe attaches the recorder to every mutation topic. Subscriptions
// are synchronous; a row is written before the publisher returns.
func (r *Recorder) Subscribe(bus EventBus.BusSubscriber) error {
	topics := map[string]struct{ entity, action string }{
		catalog.TopicProductCreated: {"product", "create"},
		catalog.TopicProductUpdated: {"product", "update"},
		catalog.TopicProductDeleted: {"product", "delete"},
		orders.TopicOrderCreated:    {"order", "create"},
		orders.TopicOrderUpdated:    {"order", "update"},
		orders.TopicOrderDeleted:    {"order", "delete"},
	}
	for topic, meta := range topics {
		meta := meta
		err := bus.Subscribe(topic, func(entityID int64, detail string) {
			r.record(meta.entity, meta.action, entityID, detail)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) record(entity, action string, entityID int64, detail string) {
	row := domain.SysOpLog{
		ID:       common.NextID(),
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Detail:   detail,
		OptTime:  time.Now(),
	}
	if err := r.db.Create(&row).Error; err != nil {
		zap.L().Warn("failed to write oplog entry",
			zap.String("entity", entity),
			zap.String("action", action),
			zap.Int64("entity_id", entityID),
			zap.Error(err))
	}
}

// Recent returns the newest entries, paginated.
func (r *Recorder) Recent(page, pageSize int) ([]domain.SysOpLog, int64, error) {
	var total int64
	if err := r.db.Model(&domain.SysOpLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []domain.SysOpLog
	err := r.db.Order("opt_time DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
