package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"lexpay/internal/errors"
	"lexpay/internal/model"
	"lexpay/internal/service"
)

// AuditHandler exposes read-only audit trail projections.
type AuditHandler struct {
	auditService service.AuditService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// HasEventResponse answers whether an event has been logged for an entity.
type HasEventResponse struct {
	EntityID  string `json:"entity_id"`
	EventType string `json:"event_type"`
	Logged    bool   `json:"logged"`
}

// GetAuditTrail godoc
// @Summary Get the full audit trail for an entity
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Param entityId path string true "Entity ID"
// @Success 200 {array} model.AuditRecord
// @Failure 400 {object} errors.ErrorResponse
// @Router /audit/{entityId}/trail [get]
func (h *AuditHandler) GetAuditTrail(c echo.Context) error {
	entityID, err := uuid.Parse(c.Param("entityId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid entity id",
			Code:  "INVALID_UUID",
		})
	}

	records, err := h.auditService.AuditTrail(c.Request().Context(), entityID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, records)
}

// HasEvent godoc
// @Summary Check whether an event has been logged for an entity
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Param entityId path string true "Entity ID"
// @Param eventType path string true "Event type"
// @Success 200 {object} HasEventResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /audit/{entityId}/events/{eventType} [get]
func (h *AuditHandler) HasEvent(c echo.Context) error {
	entityID, err := uuid.Parse(c.Param("entityId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid entity id",
			Code:  "INVALID_UUID",
		})
	}
	eventType := model.AuditEventType(c.Param("eventType"))

	logged, err := h.auditService.HasEvent(c.Request().Context(), entityID, eventType)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, HasEventResponse{
		EntityID:  entityID.String(),
		EventType: string(eventType),
		Logged:    logged,
	})
}
