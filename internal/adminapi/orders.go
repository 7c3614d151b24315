package adminapi

import (
	"net/http"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"

	"github.com/martlabs/stockmate/internal/orders"
	"github.com/martlabs/stockmate/internal/webserver"
)

type orderItemPayload struct {
	ProductID int64 `json:"product_id,string" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

type orderPayload struct {
	Note  string             `json:"note" validate:"omitempty,max=1024"`
	Items []orderItemPayload `json:"items" validate:"required,min=1,dive"`
}

// orderUpdatePayload: nil note leaves the note untouched; nil items patch
// only the note, non-nil items replace the full item set.
type orderUpdatePayload struct {
	Note  *string             `json:"note" validate:"omitempty,max=1024"`
	Items *[]orderItemPayload `json:"items" validate:"omitempty,min=1,dive"`
}

// registerOrderRoutes registers order CRUD endpoints
func registerOrderRoutes() {
	webserver.ApiGET("/inventory/orders", listOrders)
	webserver.ApiGET("/inventory/orders/:id", getOrder)
	webserver.ApiPOST("/inventory/orders", createOrder)
	webserver.ApiPUT("/inventory/orders/:id", updateOrder)
	webserver.ApiDELETE("/inventory/orders/:id", deleteOrder)
}

func listOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)

	filter := orders.OrderFilter{
		Keyword: strings.TrimSpace(c.QueryParam("q")),
	}
	if v := strings.TrimSpace(c.QueryParam("created_from")); v != "" {
		t, err := dateparse.ParseAny(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse created_from", err.Error())
		}
		filter.CreatedFrom = &t
	}
	if v := strings.TrimSpace(c.QueryParam("created_to")); v != "" {
		t, err := dateparse.ParseAny(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse created_to", err.Error())
		}
		filter.CreatedTo = &t
	}

	rows, total, err := GetAppContext(c).Orders().ListOrders(c.Request().Context(), filter, page, pageSize)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	order, err := GetAppContext(c).Orders().GetOrder(c.Request().Context(), id)
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, order)
}

func createOrder(c echo.Context) error {
	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	order, err := GetAppContext(c).Orders().CreateOrder(c.Request().Context(), orders.CreateOrderInput{
		Note:  payload.Note,
		Items: toItemInputs(payload.Items),
	})
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, order)
}

func updateOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload orderUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	input := orders.UpdateOrderInput{Note: payload.Note}
	if payload.Items != nil {
		items := toItemInputs(*payload.Items)
		input.Items = &items
	}

	order, err := GetAppContext(c).Orders().UpdateOrder(c.Request().Context(), id, input)
	if err != nil {
		return failDomain(c, err)
	}
	return ok(c, order)
}

func deleteOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	if err := GetAppContext(c).Orders().DeleteOrder(c.Request().Context(), id); err != nil {
		return failDomain(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}

func toItemInputs(payloads []orderItemPayload) []orders.ItemInput {
	items := make([]orders.ItemInput, 0, len(payloads))
	for _, p := range payloads {
		items = append(items, orders.ItemInput{ProductID: p.ProductID, Quantity: p.Quantity})
	}
	return items
}
