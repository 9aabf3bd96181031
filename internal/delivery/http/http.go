package http

import (
	"context"
	"errors"
	"net/http"

	"trading-alerts/internal/dto"
	"trading-alerts/internal/ledger"
	"trading-alerts/internal/model"
	"trading-alerts/internal/repository"
	"trading-alerts/internal/service"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
}

func NewHttpAPIHandler(ctx context.Context, echo *echo.Echo, validator *goValidator.Validate, service *service.Service) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      echo,
		validator: validator,
		service:   service,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	base := h.echo.Group("/api")
	h.SetupPools(base)
	h.SetupOperations(base)
}

// errorStatus maps domain errors onto HTTP status codes and a stable kind.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrStaleVersion):
		return http.StatusConflict, "StaleVersion"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "NotFound"
	}

	kind := ledger.Kind(err)
	switch {
	case errors.Is(err, ledger.ErrInsufficientLiquidity),
		errors.Is(err, ledger.ErrOverSell),
		errors.Is(err, ledger.ErrAlreadyClosed),
		errors.Is(err, ledger.ErrSymbolAllocated):
		return http.StatusConflict, kind
	case errors.Is(err, ledger.ErrUnknownSymbol):
		return http.StatusNotFound, kind
	case kind != "":
		return http.StatusBadRequest, kind
	}
	return http.StatusInternalServerError, ""
}

func (h *HttpAPIHandler) fail(c echo.Context, err error) error {
	code, kind := errorStatus(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = "internal server error"
	}
	return c.JSON(code, dto.NewErrorResponse(code, message, kind))
}

func (h *HttpAPIHandler) badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, message, "ValidationError"))
}

// bind decodes and validates the request body into req.
func (h *HttpAPIHandler) bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.New("invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return err
	}
	return nil
}

func systemParam(c echo.Context) (model.TradingSystem, error) {
	return model.ParseTradingSystem(c.Param("system"))
}
