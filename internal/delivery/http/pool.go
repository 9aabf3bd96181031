package http

import (
	"net/http"
	"strconv"

	"trading-alerts/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupPools(base *echo.Group) {
	v1 := base.Group("/v1/pools/:system")
	{
		v1.GET("", h.GetPool)
		v1.PUT("/capital", h.SetCapital)
		v1.POST("/allocations", h.Allocate)
		v1.POST("/allocations/:symbol/price", h.MarkPrice)
		v1.POST("/allocations/:symbol/partial-sales", h.PartialSell)
		v1.POST("/alerts/:id/close", h.CloseAlert)
		v1.GET("/segments", h.GetSegments)
		v1.GET("/history", h.GetHistory)
		v1.GET("/events", h.GetEvents)
	}
}

func (h *HttpAPIHandler) GetPool(c echo.Context) error {
	system, err := systemParam(c)
	if err != nil {
		return h.badRequest(c, err.Error())
	}

	pool, err := h.service.LedgerService.GetPool(c.Request().Context(), system)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Liquidity pool", pool))
}

func (h *HttpAPIHandler) SetCapital(c echo.Context) error {
	system, err := systemParam(c)
	if err != nil {
		return h.badRequest(c, err.Error())
	}
	req := new(dto.SetCapitalRequest)
	if err := h.bind(c, req); err != nil {
		return h.badRequest(c, err.Error())
	}

	pool, err := h.service.LedgerService.SetCapital(c.Request().Context(), system, *req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Total liquidity updated", pool))
}

func (h *HttpAPIHandler) Allocate(c echo.Context) error {
	system, err := systemParam(c)
	if err != nil {
		return h.badRequest(c, err.Error())
	}
	req := new(dto.AllocateRequest)
	if err := h.bind(c, req); err != nil {
		return h.badRequest(c, err.Error())
	}

	distribution, err := h.service.LedgerService.Allocate(c.Request().Context(), system, *req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Liquidity allocated", distribution))
}

func (h *HttpAPIHandler) MarkPrice(c echo.Context) error {
	system, err := systemParam(c)
	if err != nil {
		return h.badRequest(c, err.Error())
	}
	req := new(dto.MarkPriceRequest)
	if err := h.bind(c, req); err != nil {
		return h.badRequest(c, err.Error())
	}

	distribution, err := h.service.LedgerService.MarkPrice(c.Request().Context(), system, c.Param("symbol"), *req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Price marked", distribution))
}

func (h *HttpAPIHandler) PartialSell(c echo.Context) error {
	system, err := systemParam(c)
	if err != nil {
		return h.badRequest(c, err.Error())
	}
	req := new(dto.PartialSaleRequest)
	if err := h.bind(c, req); err != nil {
		return h.badRequest(c, err.Error())
	}

	result, err := h.service.LedgerService.PartialSell(c.Request().Context(), system, c.Param("symbol"), *req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Partial sale applied", result))
}

func (h *HttpAPIHandler) CloseAlert(c echo.Context) error {
	system, err := systemParam(c)
	if err != nil {
		return h.badRequest(c, err.Error())
	}
	alertID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || alertID == 0 {
		return h.badRequest(c, "invalid alert id")
	}
	req := new(dto.CloseRequest)
	if err := h.bind(c, req); err != nil {
		return h.badRequest(c, err.Error())
	}

	summary, err := h.service.LedgerService.Close(c.Request().Context(), system, uint(alertID), *req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Alert closed", summary))
}

func (h *HttpAPIHandler) GetSegments(c echo.Context) error {
	system, err := systemParam(c)
	if err != nil {
		return h.badRequest(c, err.Error())
	}

	summary, err := h.service.AllocationService.Segments(c.Request().Context(), system)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Allocation segments", summary))
}

func (h *HttpAPIHandler) GetHistory(c echo.Context) error {
	system, err := systemParam(c)
	if err != nil {
		return h.badRequest(c, err.Error())
	}

	histories, err := h.service.LedgerService.History(c.Request().Context(), system)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Distribution history", histories))
}

func (h *HttpAPIHandler) GetEvents(c echo.Context) error {
	system, err := systemParam(c)
	if err != nil {
		return h.badRequest(c, err.Error())
	}
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 0 {
			return h.badRequest(c, "invalid limit")
		}
	}

	events, err := h.service.LedgerService.Events(c.Request().Context(), system, limit)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Ledger events", events))
}
