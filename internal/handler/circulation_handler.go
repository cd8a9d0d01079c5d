package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"biblio/internal/errors"
	"biblio/internal/service"
)

// CirculationHandler handles borrow and return endpoints.
type CirculationHandler struct {
	circulationService service.CirculationService
	catalogService     service.CatalogService
}

// NewCirculationHandler creates a new circulation handler.
func NewCirculationHandler(circulationService service.CirculationService, catalogService service.CatalogService) *CirculationHandler {
	return &CirculationHandler{
		circulationService: circulationService,
		catalogService:     catalogService,
	}
}

// ShowBorrow godoc
// @Summary Preview a book before borrowing it
// @Tags circulation
// @Produce json
// @Security BearerAuth
// @Param bookID path int true "Book ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /borrow/{bookID} [get]
func (h *CirculationHandler) ShowBorrow(c echo.Context) error {
	bookID, ok := parseID(c, "bookID")
	if !ok {
		return invalidIDError(c, "book")
	}

	book, err := h.catalogService.GetBook(c.Request().Context(), bookID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"book": book})
}

// Borrow godoc
// @Summary Borrow a book
// @Tags circulation
// @Produce json
// @Security BearerAuth
// @Param bookID path int true "Book ID"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /borrow/{bookID} [post]
func (h *CirculationHandler) Borrow(c echo.Context) error {
	ident, ok := identityFrom(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrInvalidSession)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	bookID, ok := parseID(c, "bookID")
	if !ok {
		return invalidIDError(c, "book")
	}

	borrow, err := h.circulationService.Borrow(c.Request().Context(), ident, bookID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "book borrowed successfully",
		"borrow":  borrow,
	})
}

// ShowReturn godoc
// @Summary Preview a borrow before returning it
// @Tags circulation
// @Produce json
// @Security BearerAuth
// @Param borrowID path int true "Borrow ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /return/{borrowID} [get]
func (h *CirculationHandler) ShowReturn(c echo.Context) error {
	ident, ok := identityFrom(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrInvalidSession)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	borrowID, ok := parseID(c, "borrowID")
	if !ok {
		return invalidIDError(c, "borrow")
	}

	borrow, history, err := h.circulationService.GetBorrow(c.Request().Context(), ident, borrowID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"borrow":  borrow,
		"history": history,
	})
}

// Return godoc
// @Summary Return a borrowed book
// @Tags circulation
// @Produce json
// @Security BearerAuth
// @Param borrowID path int true "Borrow ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /return/{borrowID} [post]
func (h *CirculationHandler) Return(c echo.Context) error {
	ident, ok := identityFrom(c)
	if !ok {
		httpErr := errors.MapErrorToHTTP(errors.ErrInvalidSession)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	borrowID, ok := parseID(c, "borrowID")
	if !ok {
		return invalidIDError(c, "borrow")
	}

	borrow, err := h.circulationService.Return(c.Request().Context(), ident, borrowID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "book returned successfully",
		"borrow":  borrow,
	})
}

// parseID parses a positive integer path parameter.
func parseID(c echo.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func invalidIDError(c echo.Context, kind string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: "invalid " + kind + " ID",
		Code:  "INVALID_ID",
	})
}
