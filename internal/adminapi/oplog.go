package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/martlabs/stockmate/internal/webserver"
)

func registerOplogRoutes() {
	webserver.ApiGET("/oplog", listOplog)
}

func listOplog(c echo.Context) error {
	page, pageSize := parsePagination(c)

	rows, total, err := GetAppContext(c).OpLog().Recent(page, pageSize)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query oplog", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}
