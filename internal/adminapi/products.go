package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/martlabs/stockmate/internal/catalog"
	"github.com/martlabs/stockmate/internal/webserver"
	"github.com/martlabs/stockmate/pkg/common"
)

type productPayload struct {
	Name      string   `json:"name" validate:"required,min=1,max=200"`
	Barcode   string   `json:"barcode" validate:"required,min=1,max=64"`
	CostPrice float64  `json:"cost_price" validate:"required,gt=0"`
	SellPrice float64  `json:"sell_price" validate:"required,gt=0"`
	Status    string   `json:"status" validate:"omitempty,oneof=ACTIVE OUT_OF_STOCK DISCONTINUED"`
	Tags      []string `json:"tags"`
	Vendors   []int64  `json:"vendors"`
	Note      string   `json:"note" validate:"omitempty,max=1024"`
	ImagePath string   `json:"image_path" validate:"omitempty,max=1024"`
}

// productUpdatePayload relaxes rules for sparse updates; nil fields are
// left untouched.
type productUpdatePayload struct {
	Name      *string   `json:"name" validate:"omitempty,min=1,max=200"`
	Barcode   *string   `json:"barcode" validate:"omitempty,min=1,max=64"`
	CostPrice *float64  `json:"cost_price" validate:"omitempty,gt=0"`
	SellPrice *float64  `json:"sell_price" validate:"omitempty,gt=0"`
	Status    *string   `json:"status" validate:"omitempty,oneof=ACTIVE OUT_OF_STOCK DISCONTINUED"`
	Tags      *[]string `json:"tags"`
	Vendors   *[]int64  `json:"vendors"`
	Note      *string   `json:"note" validate:"omitempty,max=1024"`
	ImagePath *string   `json:"image_path" validate:"omitempty,max=1024"`
}

type productStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE OUT_OF_STOCK DISCONTINUED"`
}

// registerProductRoutes registers product CRUD endpoints
func registerProductRoutes() {
	webserver.ApiGET("/inventory/products", listProducts)
	webserver.ApiGET("/inventory/products/export", exportProducts)
	webserver.ApiGET("/inventory/products/barcode/:barcode", getProductByBarcode)
	webserver.ApiGET("/inventory/products/:id", getProduct)
	webserver.ApiPOST("/inventory/products", createProduct)
	webserver.ApiPUT("/inventory/products/:id", updateProduct)
	webserver.ApiPUT("/inventory/products/:id/status", setProductStatus)
	webserver.ApiDELETE("/inventory/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	filter := catalog.ProductFilter{
		Keyword: strings.TrimSpace(c.QueryParam("q")),
	}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		filter.Status = &status
	}
	if v := strings.TrimSpace(c.QueryParam("is_ordered")); v != "" {
		flag := cast.ToBool(v)
		filter.IsOrdered = &flag
	}
	if tags := strings.TrimSpace(c.QueryParam("tags")); tags != "" {
		filter.Tags = common.TrimAll(strings.Split(tags, ","))
	}
	if vendors := strings.TrimSpace(c.QueryParam("vendors")); vendors != "" {
		for _, v := range common.TrimAll(strings.Split(vendors, ",")) {
			if id := cast.ToInt64(v); id > 0 {
				filter.Vendors = append(filter.Vendors, id)
			}
		}
	}

	// whitelist allowed sort columns to avoid SQL injection
	allowed := map[string]string{
		"id":         "id",
		"name":       "name",
		"barcode":    "barcode",
		"sell_price": "sell_price",
		"created_at": "created_at",
		"updated_at": "updated_at",
	}
	sortCol, ok := allowed[strings.TrimSpace(c.QueryParam("sort"))]
	if !ok {
		sortCol = "id"
	}
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	rows, total, err := GetAppContext(c).Catalog().ListProducts(
		c.Request().Context(), filter, page, pageSize, sortCol+" "+order)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	p, err := GetAppContext(c).Catalog().GetProduct(c.Request().Context(), id)
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, p)
}

// getProductByBarcode resolves a scanned barcode to its product.
func getProductByBarcode(c echo.Context) error {
	p, err := GetAppContext(c).Catalog().GetProductByBarcode(c.Request().Context(), c.Param("barcode"))
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	p, err := GetAppContext(c).Catalog().CreateProduct(c.Request().Context(), catalog.CreateProductInput{
		Name:      payload.Name,
		Barcode:   payload.Barcode,
		CostPrice: payload.CostPrice,
		SellPrice: payload.SellPrice,
		Status:    payload.Status,
		Tags:      payload.Tags,
		Vendors:   payload.Vendors,
		Note:      payload.Note,
		ImagePath: payload.ImagePath,
	})
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload productUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	p, err := GetAppContext(c).Catalog().UpdateProduct(c.Request().Context(), id, catalog.UpdateProductInput{
		Name:      payload.Name,
		Barcode:   payload.Barcode,
		CostPrice: payload.CostPrice,
		SellPrice: payload.SellPrice,
		Status:    payload.Status,
		Tags:      payload.Tags,
		Vendors:   payload.Vendors,
		Note:      payload.Note,
		ImagePath: payload.ImagePath,
	})
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, p)
}

func setProductStatus(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var payload productStatusPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse status", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	p, err := GetAppContext(c).Catalog().SetStatus(c.Request().Context(), id, payload.Status)
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := GetAppContext(c).Catalog().DeleteProduct(c.Request().Context(), id); err != nil {
		return failDomain(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}
