package get_inventory

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-PGBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-PGBookingService/internal/service/inventory"
)

const (
	msgPropertyNotFound = "объект не найден"
)

type Handler struct {
	service InventoryService
	logger  Logger
}

func NewHandler(service InventoryService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/properties/{propertyId}/inventory
// Публичный эндпоинт доступности
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	propertyID := mux.Vars(r)["propertyId"]

	result, err := h.service.GetInventory(r.Context(), propertyID)
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrPropertyNotFound):
			h.logger.Warn("GET /properties/{id}/inventory - Property not found: property_id=%s", propertyID)
			handlers.RespondNotFound(w, msgPropertyNotFound)

		default:
			h.logger.Error("GET /properties/{id}/inventory - Failed to get inventory: property_id=%s, error=%v",
				propertyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
