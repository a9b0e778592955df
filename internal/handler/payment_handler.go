package handler

import (
	stderrors "errors"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"lexpay/internal/errors"
	"lexpay/internal/service"
)

// PaymentHandler handles payment endpoints.
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreateOrderRequest represents a payment order creation request.
type CreateOrderRequest struct {
	ContractID string `json:"contract_id" validate:"required,uuid"`
}

// CaptureRequest represents a payment capture callback.
type CaptureRequest struct {
	GatewayOrderID   string `json:"gateway_order_id" validate:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" validate:"required"`
	Signature        string `json:"signature" validate:"required"`
	PaymentMethod    string `json:"payment_method"`
}

// CreateOrder godoc
// @Summary Open a payment order for a contract
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateOrderRequest true "Order data"
// @Success 201 {object} model.PaymentOrder
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /payments/orders [post]
func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	contractID, err := uuid.Parse(req.ContractID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid contract_id",
			Code:  "INVALID_UUID",
		})
	}

	order, err := h.paymentService.CreateOrder(
		c.Request().Context(),
		contractID,
		c.RealIP(),
		c.Request().UserAgent(),
	)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, order)
}

// ListOrders godoc
// @Summary List payment orders for a contract
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contract ID"
// @Success 200 {array} model.PaymentOrder
// @Failure 400 {object} errors.ErrorResponse
// @Router /contracts/{id}/orders [get]
func (h *PaymentHandler) ListOrders(c echo.Context) error {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid contract id",
			Code:  "INVALID_UUID",
		})
	}

	orders, err := h.paymentService.ListOrders(c.Request().Context(), contractID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, orders)
}

// Capture godoc
// @Summary Capture a payment after gateway checkout
// @Tags payments
// @Accept json
// @Produce json
// @Param request body CaptureRequest true "Capture data"
// @Success 200 {object} model.PaymentOrder
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /payments/capture [post]
func (h *PaymentHandler) Capture(c echo.Context) error {
	var req CaptureRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	order, err := h.paymentService.Capture(
		c.Request().Context(),
		req.GatewayOrderID,
		req.GatewayPaymentID,
		req.Signature,
		req.PaymentMethod,
	)
	if err != nil {
		// A stale aggregate is not a failed capture: the order is CAPTURED
		// and the contract totals catch up from the order records.
		if order != nil && stderrors.Is(err, errors.ErrContractAggregateStale) {
			log.Printf("capture: order %s captured with stale contract aggregate: %v", order.ID, err)
			return c.JSON(http.StatusOK, order)
		}
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, order)
}
