package order

import (
	"errors"
	"fmt"
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

// Routes registers the authenticated order endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/checkout", h.Checkout)
	r.Get("/orders", h.ListOrders)
	r.Get("/orders/{id}", h.GetOrder)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var input CheckoutInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.WriteJSONError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}
	input.UserID, _ = utils.GetUserIDFromContext(r.Context())

	res, err := h.svc.Checkout(r.Context(), input)
	if err != nil {
		writeError(w, r, err, "Failed to create transaction.")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Response{
		Success: true,
		Message: "Order created.",
		Data:    res,
	})
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	orderID, err := utils.ToUint(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteJSONError(w, "Order not found.", http.StatusNotFound)
		return
	}

	o, err := h.svc.GetOrder(r.Context(), userID, orderID)
	if err != nil {
		writeError(w, r, err, "Failed to fetch order.")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Response{Success: true, Data: o})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())
	q := r.URL.Query()
	page, limit := utils.ParsePage(q.Get("page"), q.Get("limit"), defaultListLimit)

	list, err := h.svc.ListOrders(r.Context(), userID, page, limit)
	if err != nil {
		writeError(w, r, err, "Failed to fetch orders.")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Response{
		Success:    true,
		Data:       list.Items,
		Pagination: utils.NewPagination(list.Page, list.Limit, list.Total),
	})
}

// writeError maps domain errors to the response envelope. Anything
// unrecognised, gateway failures included, is logged and answered with a
// generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var (
		notFound *ProductNotFoundError
		noStock  *InsufficientStockError
	)

	switch {
	case errors.As(err, &noStock):
		utils.WriteJSONError(w,
			fmt.Sprintf("Insufficient stock for %s. Available stock: %d", noStock.Name, noStock.Available),
			http.StatusBadRequest)
	case errors.As(err, &notFound):
		utils.WriteJSONError(w, fmt.Sprintf("Product with ID %d not found.", notFound.ProductID), http.StatusNotFound)
	case errors.Is(err, ErrEmptyItems),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrQuantityTooLarge),
		errors.Is(err, ErrIncompleteShipping):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrUnauthenticated):
		utils.WriteJSONError(w, "Unauthorized.", http.StatusUnauthorized)
	case errors.Is(err, ErrOrderNotFound):
		utils.WriteJSONError(w, "Order not found.", http.StatusNotFound)
	default:
		logger.FromCtx(r.Context()).Error(fallback, zap.Error(err))
		utils.WriteJSONError(w, fallback, http.StatusInternalServerError)
	}
}
