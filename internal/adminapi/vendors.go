package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/martlabs/stockmate/internal/domain"
	"github.com/martlabs/stockmate/internal/webserver"
)

// registerVendorRoutes exposes the static vendor registry read-only.
func registerVendorRoutes() {
	webserver.ApiGET("/inventory/vendors", listVendors)
	webserver.ApiGET("/inventory/vendors/:id", getVendor)
}

func listVendors(c echo.Context) error {
	return ok(c, domain.Vendors)
}

func getVendor(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid vendor ID", nil)
	}
	v, found := domain.VendorByID(id)
	if !found {
		return fail(c, http.StatusNotFound, "VENDOR_NOT_FOUND", "Vendor not found", nil)
	}
	return ok(c, v)
}
