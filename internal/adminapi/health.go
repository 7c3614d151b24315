package adminapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"

	"github.com/martlabs/stockmate/internal/webserver"
)

// registerHealthRoutes registers the public liveness and storage checks.
func registerHealthRoutes() {
	webserver.PubGET("/health", healthCheck)
	webserver.PubGET("/health/storage", storageCheck)
}

func healthCheck(c echo.Context) error {
	info := map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}
	if uptime, err := host.Uptime(); err == nil {
		info["host_uptime_sec"] = uptime
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info["mem_used_percent"] = vm.UsedPercent
	}
	return c.JSON(http.StatusOK, info)
}

func storageCheck(c echo.Context) error {
	result := map[string]interface{}{
		"time": time.Now().Format(time.RFC3339),
	}

	sqlDB, err := GetDB(c).DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request().Context())
	}
	if err != nil {
		result["status"] = "unavailable"
		result["error"] = err.Error()
		return c.JSON(http.StatusServiceUnavailable, result)
	}

	result["status"] = "ok"
	return c.JSON(http.StatusOK, result)
}
