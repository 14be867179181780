package order

import (
	"context"
	"time"

	"umkm-store-be/internal/cart"
	"umkm-store-be/internal/payment"
	"umkm-store-be/internal/product"
	"umkm-store-be/internal/user"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateOrderTx(ctx context.Context, o *Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockRepository) CancelOrderTx(ctx context.Context, orderID uint) error {
	return m.Called(ctx, orderID).Error(0)
}

func (m *MockRepository) AttachPaymentSession(ctx context.Context, orderID uint, snapToken, gatewayOrderID string) error {
	return m.Called(ctx, orderID, snapToken, gatewayOrderID).Error(0)
}

func (m *MockRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) CompareAndSetStatus(
	ctx context.Context,
	orderID uint,
	from, to PaymentStatus,
	orderStatus OrderStatus,
	transactionID string,
) error {
	return m.Called(ctx, orderID, from, to, orderStatus, transactionID).Error(0)
}

func (m *MockRepository) GetByIDForUser(ctx context.Context, orderID, userID uint) (*Order, error) {
	args := m.Called(ctx, orderID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]Order, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Order), args.Error(1)
}

func (m *MockRepository) CountByUser(ctx context.Context, userID uint) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uint) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) GetBySlug(ctx context.Context, slug string) (*product.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, opts product.ListOptions) ([]product.Product, int, error) {
	args := m.Called(ctx, opts)
	return args.Get(0).([]product.Product), args.Int(1), args.Error(2)
}

func (m *MockProductRepository) Categories(ctx context.Context) ([]product.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]product.Category), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User, verificationTokenHash string) error {
	return m.Called(ctx, u, verificationTokenHash).Error(0)
}

func (m *MockUserRepository) FindByVerificationToken(ctx context.Context, tokenHash string) (*user.User, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) MarkVerified(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, id uint, tokenHash string, expiresAt time.Time) error {
	return m.Called(ctx, id, tokenHash, expiresAt).Error(0)
}

func (m *MockUserRepository) FindByResetToken(ctx context.Context, tokenHash string) (*user.User, time.Time, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, time.Time{}, args.Error(2)
	}
	return args.Get(0).(*user.User), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockUserRepository) ResetPassword(ctx context.Context, id uint, tokenHash, passwordHash string) error {
	return m.Called(ctx, id, tokenHash, passwordHash).Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) ListByUser(ctx context.Context, userID uint) ([]cart.CartItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]cart.CartItem), args.Error(1)
}

func (m *MockCartRepository) GetQuantity(ctx context.Context, userID, productID uint) (int, error) {
	args := m.Called(ctx, userID, productID)
	return args.Int(0), args.Error(1)
}

func (m *MockCartRepository) Upsert(ctx context.Context, userID, productID uint, quantity int) error {
	return m.Called(ctx, userID, productID, quantity).Error(0)
}

func (m *MockCartRepository) SetQuantity(ctx context.Context, userID, productID uint, quantity int) error {
	return m.Called(ctx, userID, productID, quantity).Error(0)
}

func (m *MockCartRepository) Remove(ctx context.Context, userID, productID uint) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *MockCartRepository) Clear(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockCartRepository) RemoveProducts(ctx context.Context, userID uint, productIDs []uint) error {
	return m.Called(ctx, userID, productIDs).Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateTransaction(ctx context.Context, req payment.SnapRequest) (*payment.SnapResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.SnapResponse), args.Error(1)
}

func (m *MockGateway) VerifySignature(n payment.Notification) error {
	return m.Called(n).Error(0)
}
