package adminapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"gorm.io/gorm"

	"github.com/martlabs/stockmate/internal/app"
	"github.com/martlabs/stockmate/internal/domain"
	"github.com/martlabs/stockmate/internal/webserver"
)

// Pagination is the list metadata block of the response envelope.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// Response is the uniform envelope: {success, data|error, message}.
type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Message    string      `json:"message,omitempty"`
	Detail     interface{} `json:"detail,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// ListResponse documents the paged envelope shape.
type ListResponse struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, Response{
		Success: false,
		Error:   code,
		Message: message,
		Detail:  detail,
	})
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	totalPages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPages++
	}
	return c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// failDomain maps service error kinds onto HTTP status codes.
func failDomain(c echo.Context, err error) error {
	msg := err.Error()
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", msg, nil)
	case errors.Is(err, domain.ErrConflict):
		return fail(c, http.StatusConflict, "CONFLICT", msg, nil)
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", msg, nil)
	default:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Storage operation failed", msg)
	}
}

// GetAppContext returns the application context injected by the server.
func GetAppContext(c echo.Context) app.AppContext {
	return webserver.AppCtx(c)
}

// GetDB returns the shared gorm handle.
func GetDB(c echo.Context) *gorm.DB {
	return GetAppContext(c).DB()
}

// parsePagination reads page/perPage query params, capped at 500 rows.
func parsePagination(c echo.Context) (page, pageSize int) {
	page = cast.ToInt(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize = cast.ToInt(c.QueryParam("perPage"))
	if pageSize == 0 {
		pageSize = cast.ToInt(c.QueryParam("pageSize"))
	}
	if pageSize < 1 || pageSize > 500 {
		pageSize = 20
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// handleValidationError converts validator errors into a 400 response with
// per-field details.
func handleValidationError(c echo.Context, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, strings.ToLower(fe.Field())+" failed on "+fe.Tag())
		}
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Request validation failed", details)
	}
	return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Request validation failed", err.Error())
}
