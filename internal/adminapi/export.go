package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
)

// productExportRow flattens a product for CSV export.
type productExportRow struct {
	ID        int64   `csv:"id"`
	Name      string  `csv:"name"`
	Barcode   string  `csv:"barcode"`
	CostPrice float64 `csv:"cost_price"`
	SellPrice float64 `csv:"sell_price"`
	Status    string  `csv:"status"`
	IsOrdered bool    `csv:"is_ordered"`
	Tags      string  `csv:"tags"`
	Note      string  `csv:"note"`
	CreatedAt string  `csv:"created_at"`
}

func exportProducts(c echo.Context) error {
	rows, err := GetAppContext(c).Catalog().ExportProducts(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to export products", err.Error())
	}

	out := make([]productExportRow, 0, len(rows))
	for _, p := range rows {
		out = append(out, productExportRow{
			ID:        p.ID,
			Name:      p.Name,
			Barcode:   p.Barcode,
			CostPrice: p.CostPrice,
			SellPrice: p.SellPrice,
			Status:    p.Status,
			IsOrdered: p.IsOrdered,
			Tags:      strings.Join(p.Tags, "|"),
			Note:      p.Note,
			CreatedAt: p.CreatedAt.Format(time.RFC3339),
		})
	}

	data, err := gocsv.MarshalString(&out)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to render CSV", err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(data))
}
