package adminapi

import (
	"github.com/martlabs/stockmate/internal/app"
)

// Register wires every admin API route into the web server. Must be
// called after webserver.Init.
func Register(appCtx app.AppContext) {
	registerProductRoutes()
	registerOrderRoutes()
	registerVendorRoutes()
	registerDashboardRoutes()
	registerOplogRoutes()
	registerHealthRoutes()
	registerAuthRoutes(appCtx.Config().Web.JwtSecret)
}
