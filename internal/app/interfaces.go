package app

import (
	"github.com/asaskevich/EventBus"
	"gorm.io/gorm"

	"github.com/martlabs/stockmate/config"
	"github.com/martlabs/stockmate/internal/catalog"
	"github.com/martlabs/stockmate/internal/oplog"
	"github.com/martlabs/stockmate/internal/orders"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// ServiceProvider provides access to the core services
type ServiceProvider interface {
	Catalog() *catalog.Service
	Orders() *orders.Service
	OpLog() *oplog.Recorder
	Bus() EventBus.Bus
}

// AppContext combines all provider interfaces for full application context.
// Handlers should depend on specific providers or this combined interface.
type AppContext interface {
	DBProvider
	ConfigProvider
	ServiceProvider

	// Application lifecycle methods
	MigrateDB(track bool) error
	InitDb()
	DropAll()
}
