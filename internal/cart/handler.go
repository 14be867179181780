package cart

import (
	"errors"
	"fmt"
	"net/http"

	"umkm-store-be/internal/logger"
	"umkm-store-be/internal/product"
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

// Routes expects the caller to mount it behind RequireAuth.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.GetCart)
	r.Post("/", h.AddItem)
	r.Delete("/", h.Clear)
	r.Put("/{productID}", h.UpdateQuantity)
	r.Delete("/{productID}", h.RemoveItem)
}

type addItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	cart, err := h.svc.GetCart(r.Context(), userID)
	if err != nil {
		writeError(w, r, err, "Failed to fetch cart.")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Response{Success: true, Data: cart})
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var req addItemRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	err := h.svc.AddItem(r.Context(), AddItemParams{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeError(w, r, err, "Failed to add product to cart.")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Response{Success: true, Message: "Product added to cart."})
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	productID, err := utils.ToUint(chi.URLParam(r, "productID"))
	if err != nil || productID == 0 {
		utils.WriteJSONError(w, "Invalid product id.", http.StatusBadRequest)
		return
	}

	var req updateQuantityRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "Invalid request body.", http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateQuantity(r.Context(), userID, productID, req.Quantity); err != nil {
		writeError(w, r, err, "Failed to update cart.")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Response{Success: true, Message: "Cart updated."})
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	productID, err := utils.ToUint(chi.URLParam(r, "productID"))
	if err != nil || productID == 0 {
		utils.WriteJSONError(w, "Invalid product id.", http.StatusBadRequest)
		return
	}

	if err := h.svc.RemoveItem(r.Context(), userID, productID); err != nil {
		writeError(w, r, err, "Failed to remove cart item.")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Response{Success: true, Message: "Item removed from cart."})
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	if err := h.svc.Clear(r.Context(), userID); err != nil {
		writeError(w, r, err, "Failed to clear cart.")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Response{Success: true, Message: "Cart cleared."})
}

func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var stockErr *InsufficientStockError

	switch {
	case errors.As(err, &stockErr):
		utils.WriteJSONError(w, fmt.Sprintf("Insufficient stock. Available stock: %d", stockErr.Available), http.StatusBadRequest)
	case errors.Is(err, ErrUserNotAuthenticated):
		utils.WriteJSONError(w, "Unauthorized.", http.StatusUnauthorized)
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrProductRequired):
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, product.ErrProductNotFound):
		utils.WriteJSONError(w, "Product not found.", http.StatusNotFound)
	case errors.Is(err, ErrCartItemNotFound):
		utils.WriteJSONError(w, "Item not found in cart.", http.StatusNotFound)
	default:
		logger.FromCtx(r.Context()).Error(fallback, zap.Error(err))
		utils.WriteJSONError(w, fallback, http.StatusInternalServerError)
	}
}
