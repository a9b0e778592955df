package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"lexpay/internal/errors"
	"lexpay/internal/service"
)

// ContractHandler handles contract endpoints.
type ContractHandler struct {
	contractService service.ContractService
}

// NewContractHandler creates a new contract handler.
func NewContractHandler(contractService service.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

// CreateContractRequest represents a contract creation request.
type CreateContractRequest struct {
	MerchantID      string `json:"merchant_id" validate:"required,uuid"`
	PayerID         string `json:"payer_id" validate:"required,uuid"`
	PrincipalAmount string `json:"principal_amount" validate:"required"`
	InterestRate    string `json:"interest_rate"`
	StartDate       string `json:"start_date" validate:"required"`
	EndDate         string `json:"end_date" validate:"required"`
}

// SignContractRequest identifies the signing user.
type SignContractRequest struct {
	SignerID string `json:"signer_id" validate:"required,uuid"`
}

// CreateContract godoc
// @Summary Create a contract in DRAFT
// @Tags contracts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateContractRequest true "Contract data"
// @Success 201 {object} model.Contract
// @Failure 400 {object} errors.ErrorResponse
// @Router /contracts [post]
func (h *ContractHandler) CreateContract(c echo.Context) error {
	var req CreateContractRequest
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

	merchantID, err := uuid.Parse(req.MerchantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid merchant_id", Code: "INVALID_UUID"})
	}
	payerID, err := uuid.Parse(req.PayerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid payer_id", Code: "INVALID_UUID"})
	}
	principal, err := decimal.NewFromString(req.PrincipalAmount)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid principal_amount", Code: "INVALID_AMOUNT"})
	}
	interestRate := decimal.Zero
	if req.InterestRate != "" {
		if interestRate, err = decimal.NewFromString(req.InterestRate); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid interest_rate", Code: "INVALID_AMOUNT"})
		}
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid start_date", Code: "INVALID_DATE"})
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid end_date", Code: "INVALID_DATE"})
	}

	contract, err := h.contractService.CreateContract(c.Request().Context(), merchantID, payerID, principal, interestRate, startDate, endDate)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, contract)
}

// SignContract godoc
// @Summary Sign a DRAFT contract
// @Tags contracts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contract ID"
// @Param request body SignContractRequest true "Signer"
// @Success 200 {object} model.Contract
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /contracts/{id}/sign [post]
func (h *ContractHandler) SignContract(c echo.Context) error {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid contract id", Code: "INVALID_UUID"})
	}

	var req SignContractRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid request body", Code: "INVALID_REQUEST"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: err.Error(), Code: "VALIDATION_ERROR"})
	}
	signerID, err := uuid.Parse(req.SignerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid signer_id", Code: "INVALID_UUID"})
	}

	contract, err := h.contractService.SignContract(c.Request().Context(), contractID, signerID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, contract)
}

// ActivateContract godoc
// @Summary Activate a SIGNED contract
// @Tags contracts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contract ID"
// @Param request body SignContractRequest true "Activating user"
// @Success 200 {object} model.Contract
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /contracts/{id}/activate [post]
func (h *ContractHandler) ActivateContract(c echo.Context) error {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid contract id", Code: "INVALID_UUID"})
	}

	var req SignContractRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid request body", Code: "INVALID_REQUEST"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: err.Error(), Code: "VALIDATION_ERROR"})
	}
	userID, err := uuid.Parse(req.SignerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid signer_id", Code: "INVALID_UUID"})
	}

	contract, err := h.contractService.ActivateContract(c.Request().Context(), contractID, userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, contract)
}

// ListContracts godoc
// @Summary List a merchant's contracts
// @Tags contracts
// @Produce json
// @Security BearerAuth
// @Param merchant_id query string true "Merchant ID"
// @Success 200 {array} model.Contract
// @Failure 400 {object} errors.ErrorResponse
// @Router /contracts [get]
func (h *ContractHandler) ListContracts(c echo.Context) error {
	merchantID, err := uuid.Parse(c.QueryParam("merchant_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid merchant_id", Code: "INVALID_UUID"})
	}

	contracts, err := h.contractService.ListContracts(c.Request().Context(), merchantID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, contracts)
}

// GetContract godoc
// @Summary Fetch a contract
// @Tags contracts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contract ID"
// @Success 200 {object} model.Contract
// @Failure 404 {object} errors.ErrorResponse
// @Router /contracts/{id} [get]
func (h *ContractHandler) GetContract(c echo.Context) error {
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid contract id", Code: "INVALID_UUID"})
	}

	contract, err := h.contractService.GetContract(c.Request().Context(), contractID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, contract)
}
