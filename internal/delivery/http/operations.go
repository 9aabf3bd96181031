package http

import (
	"net/http"
	"strconv"

	"trading-alerts/internal/dto"
	"trading-alerts/internal/model"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupOperations(base *echo.Group) {
	v1 := base.Group("/v1")
	{
		v1.GET("/operations", h.ListOperations)
		v1.GET("/alerts/:id/status", h.GetAlertStatus)
	}
}

func (h *HttpAPIHandler) ListOperations(c echo.Context) error {
	var system *model.TradingSystem
	if raw := c.QueryParam("system"); raw != "" {
		parsed, err := model.ParseTradingSystem(raw)
		if err != nil {
			return h.badRequest(c, err.Error())
		}
		system = &parsed
	}

	operations, err := h.service.StatusService.ListOperations(c.Request().Context(), system)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Operations", operations))
}

func (h *HttpAPIHandler) GetAlertStatus(c echo.Context) error {
	alertID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || alertID == 0 {
		return h.badRequest(c, "invalid alert id")
	}

	var operationID *uint
	if raw := c.QueryParam("operation_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return h.badRequest(c, "invalid operation id")
		}
		opID := uint(id)
		operationID = &opID
	}

	result, err := h.service.StatusService.AlertStatus(c.Request().Context(), uint(alertID), operationID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Alert status", result))
}
