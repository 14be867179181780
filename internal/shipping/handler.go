package shipping

import (
	"errors"
	"net/http"

	"umkm-store-be/internal/logger"
	"umkm-store-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/provinces", h.Provinces)
	r.Get("/cities", h.Cities)
	r.Post("/cost", h.Cost)
}

func (h *Handler) Provinces(w http.ResponseWriter, r *http.Request) {
	provinces, err := h.svc.Provinces(r.Context())
	if err != nil {
		writeError(w, r, err, "Failed to fetch provinces.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.Response{Success: true, Data: provinces})
}

func (h *Handler) Cities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.svc.Cities(r.Context(), r.URL.Query().Get("province_id"))
	if err != nil {
		writeError(w, r, err, "Failed to fetch cities.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.Response{Success: true, Data: cities})
}

func (h *Handler) Cost(w http.ResponseWriter, r *http.Request) {
	var req CostRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	res, err := h.svc.Cost(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "Failed to calculate shipping cost.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.Response{Success: true, Data: res})
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, ErrMissingCostFields):
		utils.WriteJSONError(w, "Origin, destination, weight, and courier are required.", http.StatusBadRequest)
	case errors.Is(err, ErrNoShippingService):
		utils.WriteJSONError(w, "No shipping service available.", http.StatusNotFound)
	default:
		logger.FromCtx(r.Context()).Error(fallback, zap.Error(err))
		utils.WriteJSONError(w, fallback, http.StatusInternalServerError)
	}
}
