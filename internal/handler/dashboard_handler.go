package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"biblio/internal/errors"
	"biblio/internal/model"
	"biblio/internal/service"
)

// DashboardHandler handles the role-keyed dashboard endpoints.
type DashboardHandler struct {
	catalogService     service.CatalogService
	circulationService service.CirculationService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(catalogService service.CatalogService, circulationService service.CirculationService) *DashboardHandler {
	return &DashboardHandler{
		catalogService:     catalogService,
		circulationService: circulationService,
	}
}

// Dashboard godoc
// @Summary Resolve the caller's dashboard by role
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Router /dashboard [get]
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	ident, ok := identityFrom(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrInvalidSession)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	redirect := "/user"
	if ident.Role == model.RoleAdmin {
		redirect = "/admin"
	}
	return c.JSON(http.StatusOK, map[string]string{"redirect": redirect})
}

// AdminDashboard godoc
// @Summary List all books and users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin [get]
func (h *DashboardHandler) AdminDashboard(c echo.Context) error {
	ctx := c.Request().Context()

	books, err := h.catalogService.ListBooks(ctx)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	users, err := h.catalogService.ListUsers(ctx)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"books": books,
		"users": users,
	})
}

// UserDashboard godoc
// @Summary List the caller's open borrows
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user [get]
func (h *DashboardHandler) UserDashboard(c echo.Context) error {
	ident, ok := identityFrom(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrInvalidSession)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	ctx := c.Request().Context()

	user, err := h.catalogService.GetUser(ctx, ident.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	borrows, err := h.circulationService.ListOpenBorrows(ctx, ident.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user":    user,
		"borrows": borrows,
	})
}
