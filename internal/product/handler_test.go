package product

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"umkm-store-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ListResult), args.Error(1)
}

func (m *MockService) GetBySlug(ctx context.Context, slug string) (*Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockService) Categories(ctx context.Context) ([]Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Category), args.Error(1)
}

func newProductRouter(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/products", NewHandler(svc).Routes)
	return r
}

func TestHandler_List(t *testing.T) {
	svc := new(MockService)
	svc.On("List", mock.Anything, ListOptions{CategorySlug: "atasan", Search: "kaos", Page: 2, Limit: 5}).
		Return(&ListResult{Items: []Product{{ID: 1, Name: "Kaos", Price: decimal.NewFromInt(50000)}}, Total: 11}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products?category=atasan&search=kaos&page=2&limit=5", nil)
	w := httptest.NewRecorder()
	newProductRouter(svc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.Equal(t, 11, resp.Pagination.Total)
	svc.AssertExpectations(t)
}

func TestHandler_List_Error(t *testing.T) {
	svc := new(MockService)
	svc.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	w := httptest.NewRecorder()
	newProductRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandler_GetBySlug(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "found", wantCode: http.StatusOK},
		{name: "not found", err: ErrProductNotFound, wantCode: http.StatusNotFound},
		{name: "repository failure", err: errors.New("boom"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			if tt.err != nil {
				svc.On("GetBySlug", mock.Anything, "kaos-polos").Return(nil, tt.err)
			} else {
				svc.On("GetBySlug", mock.Anything, "kaos-polos").Return(&Product{ID: 1, Slug: "kaos-polos"}, nil)
			}

			w := httptest.NewRecorder()
			newProductRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/kaos-polos", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_Categories(t *testing.T) {
	svc := new(MockService)
	svc.On("Categories", mock.Anything).Return([]Category{{ID: 1, Name: "Atasan", Slug: "atasan"}}, nil)

	w := httptest.NewRecorder()
	newProductRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/categories", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"atasan"`)
}
