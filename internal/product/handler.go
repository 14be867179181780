package product

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
	r.Get("/", h.List)
	r.Get("/categories", h.Categories)
	r.Get("/{slug}", h.GetBySlug)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, limit := utils.ParsePage(q.Get("page"), q.Get("limit"), defaultListLimit)

	res, err := h.svc.List(r.Context(), ListOptions{
		CategorySlug: q.Get("category"),
		Search:       q.Get("search"),
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		utils.WriteJSONError(w, "Failed to fetch products.", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Response{
		Success:    true,
		Data:       res.Items,
		Pagination: utils.NewPagination(page, limit, res.Total),
	})
}

func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, ErrProductNotFound) {
		utils.WriteJSONError(w, "Product not found.", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.FromCtx(r.Context()).Error("failed to get product", zap.Error(err))
		utils.WriteJSONError(w, "Failed to fetch product.", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Response{Success: true, Data: p})
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		logger.FromCtx(r.Context()).Error("failed to get categories", zap.Error(err))
		utils.WriteJSONError(w, "Failed to fetch categories.", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Response{Success: true, Data: categories})
}
