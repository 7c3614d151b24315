package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"

	"github.com/martlabs/stockmate/internal/domain"
	"github.com/martlabs/stockmate/internal/webserver"
)

// DashboardStats summarizes catalog and order volumes.
type DashboardStats struct {
	Products         int64            `json:"products"`
	ProductsByStatus map[string]int64 `json:"products_by_status"`
	ProductsOrdered  int64            `json:"products_ordered"`
	Orders           int64            `json:"orders"`
	OrderItems       int64            `json:"order_items"`
	OrderValueMean   float64          `json:"order_value_mean"`
	OrderValueMedian float64          `json:"order_value_median"`
}

func registerDashboardRoutes() {
	webserver.ApiGET("/dashboard/stats", dashboardStats)
}

func dashboardStats(c echo.Context) error {
	db := GetDB(c)
	result := DashboardStats{ProductsByStatus: map[string]int64{}}

	if err := db.Model(&domain.Product{}).Count(&result.Products).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query stats", err.Error())
	}
	for _, status := range domain.ProductStatuses {
		var count int64
		if err := db.Model(&domain.Product{}).Where("status = ?", status).Count(&count).Error; err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query stats", err.Error())
		}
		result.ProductsByStatus[status] = count
	}
	if err := db.Model(&domain.Product{}).Where("is_ordered = ?", true).Count(&result.ProductsOrdered).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query stats", err.Error())
	}
	if err := db.Model(&domain.Order{}).Count(&result.Orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query stats", err.Error())
	}
	if err := db.Model(&domain.OrderItem{}).Count(&result.OrderItems).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query stats", err.Error())
	}

	// Per-order value at current sell prices.
	var values []float64
	err := db.Raw(`
		SELECT SUM(oi.quantity * p.sell_price) AS order_value
		FROM inv_order_item oi
		JOIN inv_product p ON p.id = oi.product_id
		GROUP BY oi.order_id
	`).Scan(&values).Error
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query stats", err.Error())
	}
	if len(values) > 0 {
		result.OrderValueMean, _ = stats.Mean(values)
		result.OrderValueMedian, _ = stats.Median(values)
	}

	return ok(c, result)
}
