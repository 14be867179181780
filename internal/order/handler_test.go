package order

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"umkm-store-be/internal/payment"
	"umkm-store-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CheckoutResult), args.Error(1)
}

func (m *MockService) ApplyNotification(ctx context.Context, n payment.Notification) (*ReconcileResult, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ReconcileResult), args.Error(1)
}

func (m *MockService) GetOrder(ctx context.Context, userID, orderID uint) (*Order, error) {
	args := m.Called(ctx, userID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockService) ListOrders(ctx context.Context, userID uint, page, limit int) (*OrderList, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OrderList), args.Error(1)
}

func newTestRouter(svc Service, userID uint) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if userID != 0 {
				ctx = utils.SetUserContext(ctx, userID, "budi@gmail.com", utils.RoleUser)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	r.Route("/api/payment", NewHandler(svc).Routes)
	return r
}

const checkoutBody = `{
	"items": [{"product_id": 42, "quantity": 2}],
	"shipping_address": {
		"recipient_name": "Budi", "phone": "08123456789", "address_detail": "Jl. Merdeka 1",
		"city": "Bandung", "province": "Jawa Barat", "postal_code": "40111"
	},
	"shipping_cost": 15000,
	"shipping_service": "JNE REG"
}`

func TestHandler_Checkout(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svcErr     error
		wantStatus int
		wantBody   string
	}{
		{"Created", checkoutBody, nil, http.StatusOK, "Order created."},
		{"MalformedBody", `{"items":`, nil, http.StatusBadRequest, "Invalid request body."},
		{"EmptyItems", checkoutBody, ErrEmptyItems, http.StatusBadRequest, "cart is empty"},
		{"QuantityTooLarge", checkoutBody, ErrQuantityTooLarge, http.StatusBadRequest, "quantity per product cannot exceed 1000"},
		{
			"InsufficientStock", checkoutBody,
			&InsufficientStockError{ProductID: 42, Name: "Kaos Polos", Available: 1},
			http.StatusBadRequest, "Insufficient stock for Kaos Polos. Available stock: 1",
		},
		{"UnknownProduct", checkoutBody, &ProductNotFoundError{ProductID: 42}, http.StatusNotFound, "Product with ID 42 not found."},
		{"GatewayDown", checkoutBody, ErrPaymentGateway, http.StatusInternalServerError, "Failed to create transaction."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			matchInput := mock.MatchedBy(func(in CheckoutInput) bool {
				return in.UserID == 7 && len(in.Items) == 1 && in.ShippingCost.IntPart() == 15000
			})
			if tt.svcErr != nil {
				svc.On("Checkout", mock.Anything, matchInput).Return(nil, tt.svcErr)
			} else {
				svc.On("Checkout", mock.Anything, matchInput).Return(&CheckoutResult{
					OrderID: 99, OrderNumber: "ORDER-1", SessionToken: "snap-1", RedirectURL: "https://pay/snap-1",
				}, nil)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/payment/checkout", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			newTestRouter(svc, 7).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestHandler_Checkout_ReturnsSession(t *testing.T) {
	svc := new(MockService)
	svc.On("Checkout", mock.Anything, mock.Anything).Return(&CheckoutResult{
		OrderID: 99, OrderNumber: "ORDER-1", SessionToken: "snap-1", RedirectURL: "https://pay/snap-1",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/payment/checkout", strings.NewReader(checkoutBody))
	w := httptest.NewRecorder()
	newTestRouter(svc, 7).ServeHTTP(w, req)

	var resp struct {
		Success bool           `json:"success"`
		Data    CheckoutResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "snap-1", resp.Data.SessionToken)
	assert.Equal(t, "ORDER-1", resp.Data.OrderNumber)
}

func TestHandler_ListOrders(t *testing.T) {
	svc := new(MockService)
	svc.On("ListOrders", mock.Anything, uint(7), 2, 5).
		Return(&OrderList{Items: []Order{{ID: 1, OrderNumber: "ORDER-1"}}, Total: 6, Page: 2, Limit: 5}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/payment/orders?page=2&limit=5", nil)
	w := httptest.NewRecorder()
	newTestRouter(svc, 7).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp utils.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Pagination)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
}

func TestHandler_GetOrder(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		userID     uint
		setup      func(*MockService)
		wantStatus int
	}{
		{
			"Found", "/api/payment/orders/99", 7,
			func(m *MockService) {
				m.On("GetOrder", mock.Anything, uint(7), uint(99)).Return(&Order{ID: 99}, nil)
			},
			http.StatusOK,
		},
		{
			"NotOwned", "/api/payment/orders/99", 8,
			func(m *MockService) {
				m.On("GetOrder", mock.Anything, uint(8), uint(99)).Return(nil, ErrOrderNotFound)
			},
			http.StatusNotFound,
		},
		{"BadID", "/api/payment/orders/abc", 7, func(*MockService) {}, http.StatusNotFound},
		{
			"NoUser", "/api/payment/orders/99", 0,
			func(m *MockService) {
				m.On("GetOrder", mock.Anything, uint(0), uint(99)).Return(nil, ErrUnauthenticated)
			},
			http.StatusUnauthorized,
		},
		{
			"DBDown", "/api/payment/orders/99", 7,
			func(m *MockService) {
				m.On("GetOrder", mock.Anything, uint(7), uint(99)).Return(nil, errors.New("db down"))
			},
			http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setup(svc)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			newTestRouter(svc, tt.userID).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
