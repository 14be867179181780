package order

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"umkm-store-be/internal/cart"
	"umkm-store-be/internal/config"
	"umkm-store-be/internal/logger"
	"umkm-store-be/internal/metrics"
	"umkm-store-be/internal/payment"
	"umkm-store-be/internal/product"
	"umkm-store-be/internal/user"
	"umkm-store-be/internal/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	maxOrderNumberAttempts = 3
	maxStatusAttempts      = 3
	defaultListLimit       = 10
	shippingItemID         = "SHIPPING"
	countryCodeIndonesia   = "IDN"
	maxItemQuantity        = 1000
)

type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error)
	ApplyNotification(ctx context.Context, n payment.Notification) (*ReconcileResult, error)
	GetOrder(ctx context.Context, userID, orderID uint) (*Order, error)
	ListOrders(ctx context.Context, userID uint, page, limit int) (*OrderList, error)
}

type Options struct {
	CartClearMode  string
	PaymentTimeout time.Duration
}

type service struct {
	repo        Repository
	productRepo product.Repository
	userRepo    user.Repository
	cartRepo    cart.Repository
	gateway     payment.Gateway
	metrics     *metrics.Registry
	opts        Options

	newOrderNumber func() string
}

func NewService(
	repo Repository,
	productRepo product.Repository,
	userRepo user.Repository,
	cartRepo cart.Repository,
	gateway payment.Gateway,
	reg *metrics.Registry,
	opts Options,
) Service {
	if opts.CartClearMode == "" {
		opts.CartClearMode = config.CartClearPurchased
	}
	if opts.PaymentTimeout <= 0 {
		opts.PaymentTimeout = 15 * time.Second
	}

	return &service{
		repo:           repo,
		productRepo:    productRepo,
		userRepo:       userRepo,
		cartRepo:       cartRepo,
		gateway:        gateway,
		metrics:        reg,
		opts:           opts,
		newOrderNumber: utils.GenerateOrderNumber,
	}
}

// ----------------- Checkout -----------------

func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
	)
	timer := metrics.StartTimer()

	res, err := s.checkout(ctx, log, input)
	if err != nil {
		s.metrics.Inc(metrics.CheckoutFailed)
		log.Warn("checkout failed", zap.Error(err), zap.Duration("duration", timer.Duration()))
		return nil, err
	}

	s.metrics.Inc(metrics.CheckoutSucceeded)
	log.Info("checkout completed",
		zap.Uint("order_id", res.OrderID),
		zap.String("order_number", res.OrderNumber),
		zap.Duration("duration", timer.Duration()),
	)
	return res, nil
}

func (s *service) checkout(ctx context.Context, log *zap.Logger, input CheckoutInput) (*CheckoutResult, error) {
	items, err := validateCheckout(input)
	if err != nil {
		return nil, err
	}

	o := &Order{
		UserID:          input.UserID,
		ShippingCost:    input.ShippingCost.Round(0),
		PaymentStatus:   PaymentPending,
		OrderStatus:     StatusPending,
		ShippingAddress: input.ShippingAddress,
		ShippingService: strings.TrimSpace(input.ShippingService),
	}

	// 1. Price every line at the current product price, in whole rupiah
	total := decimal.Zero
	for _, it := range items {
		p, err := s.productRepo.GetByID(ctx, it.ProductID)
		if errors.Is(err, product.ErrProductNotFound) {
			return nil, &ProductNotFoundError{ProductID: it.ProductID}
		}
		if err != nil {
			return nil, fmt.Errorf("load product %d: %w", it.ProductID, err)
		}
		if p.Status != product.StatusActive {
			return nil, &ProductNotFoundError{ProductID: it.ProductID}
		}
		if p.Stock < it.Quantity {
			return nil, &InsufficientStockError{ProductID: p.ID, Name: p.Name, Available: p.Stock}
		}

		price := p.Price.Round(0)
		subtotal := price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(subtotal)

		o.Items = append(o.Items, OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    it.Quantity,
			Price:       price,
			Subtotal:    subtotal,
		})
	}
	o.TotalPrice = total
	o.GrandTotal = total.Add(o.ShippingCost)

	buyer, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("load buyer: %w", err)
	}

	// 2. Persist order, items and stock decrement atomically
	for attempt := 1; ; attempt++ {
		o.OrderNumber = s.newOrderNumber()
		err = s.repo.CreateOrderTx(ctx, o)
		if !errors.Is(err, ErrDuplicateOrderNumber) || attempt == maxOrderNumberAttempts {
			break
		}
		s.metrics.Inc(metrics.OrderNumberRetried)
		log.Warn("order number collision, regenerating", zap.String("order_number", o.OrderNumber))
	}
	if err != nil {
		return nil, err
	}

	log = log.With(zap.Uint("order_id", o.ID), zap.String("order_number", o.OrderNumber))

	// 3. Open a payment session
	gwCtx, cancel := context.WithTimeout(ctx, s.opts.PaymentTimeout)
	session, err := s.gateway.CreateTransaction(gwCtx, buildSnapRequest(o, buyer))
	cancel()
	if err != nil {
		log.Error("payment gateway failed", zap.Error(err))
		s.compensate(ctx, log, o.ID)
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	if err := s.repo.AttachPaymentSession(ctx, o.ID, session.Token, o.OrderNumber); err != nil {
		log.Error("failed to attach payment session", zap.Error(err))
		s.compensate(ctx, log, o.ID)
		return nil, err
	}

	// 4. Clear the cart; the order stands even if this fails
	s.clearCart(ctx, log, input.UserID, o.Items)

	return &CheckoutResult{
		OrderID:      o.ID,
		OrderNumber:  o.OrderNumber,
		SessionToken: session.Token,
		RedirectURL:  session.RedirectURL,
	}, nil
}

// validateCheckout checks the request shape and merges repeated products.
func validateCheckout(input CheckoutInput) ([]CheckoutItem, error) {
	if input.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	if len(input.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if !input.ShippingAddress.Complete() ||
		strings.TrimSpace(input.ShippingService) == "" ||
		!input.ShippingCost.Round(0).IsPositive() {
		return nil, ErrIncompleteShipping
	}

	merged := make([]CheckoutItem, 0, len(input.Items))
	index := make(map[uint]int, len(input.Items))
	for _, it := range input.Items {
		if it.ProductID == 0 || it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		if it.Quantity > maxItemQuantity {
			return nil, ErrQuantityTooLarge
		}
		if i, ok := index[it.ProductID]; ok {
			merged[i].Quantity += it.Quantity
			if merged[i].Quantity > maxItemQuantity {
				return nil, ErrQuantityTooLarge
			}
			continue
		}
		index[it.ProductID] = len(merged)
		merged = append(merged, it)
	}

	return merged, nil
}

// buildSnapRequest takes the gross amount from the item lines so the gateway
// always sees a gross equal to the sum of price times quantity.
func buildSnapRequest(o *Order, buyer *user.User) payment.SnapRequest {
	items := make([]payment.ItemDetail, 0, len(o.Items)+1)
	var gross int64
	for _, it := range o.Items {
		price := it.Price.Round(0).IntPart()
		gross += price * int64(it.Quantity)
		items = append(items, payment.ItemDetail{
			ID:       strconv.FormatUint(uint64(it.ProductID), 10),
			Price:    price,
			Quantity: it.Quantity,
			Name:     it.ProductName,
		})
	}
	shipping := o.ShippingCost.Round(0).IntPart()
	gross += shipping
	items = append(items, payment.ItemDetail{
		ID:       shippingItemID,
		Price:    shipping,
		Quantity: 1,
		Name:     "Ongkir - " + o.ShippingService,
	})

	return payment.SnapRequest{
		TransactionDetails: payment.TransactionDetails{
			OrderID:     o.OrderNumber,
			GrossAmount: gross,
		},
		ItemDetails: items,
		CustomerDetails: payment.CustomerDetails{
			FirstName: buyer.Name,
			Email:     buyer.Email,
			Phone:     utils.PtrString(buyer.Phone),
			ShippingAddress: payment.CustomerAddress{
				FirstName:   o.ShippingAddress.RecipientName,
				Phone:       o.ShippingAddress.Phone,
				Address:     o.ShippingAddress.AddressDetail,
				City:        o.ShippingAddress.City,
				PostalCode:  o.ShippingAddress.PostalCode,
				CountryCode: countryCodeIndonesia,
			},
		},
	}
}

func (s *service) compensate(ctx context.Context, log *zap.Logger, orderID uint) {
	// the request context may already be cancelled
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := s.repo.CancelOrderTx(ctx, orderID); err != nil {
		log.Error("failed to cancel order and restore stock", zap.Error(err))
		return
	}
	s.metrics.Inc(metrics.CheckoutCompensated)
	log.Info("order cancelled and stock restored")
}

func (s *service) clearCart(ctx context.Context, log *zap.Logger, userID uint, items []OrderItem) {
	var err error
	switch s.opts.CartClearMode {
	case config.CartClearAll:
		err = s.cartRepo.Clear(ctx, userID)
	default:
		ids := make([]uint, 0, len(items))
		for _, it := range items {
			ids = append(ids, it.ProductID)
		}
		err = s.cartRepo.RemoveProducts(ctx, userID, ids)
	}
	if err != nil {
		log.Warn("failed to clear cart after checkout", zap.Error(err))
	}
}

// ----------------- Notifications -----------------

// ApplyNotification reconciles one gateway notification with the order it
// names. Unknown orders and disallowed transitions are reported in the
// result, not as errors, so the gateway stops retrying them.
func (s *service) ApplyNotification(ctx context.Context, n payment.Notification) (*ReconcileResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ApplyNotification"),
		zap.String("order_number", n.OrderID),
		zap.String("transaction_status", n.TransactionStatus),
		zap.String("fraud_status", n.FraudStatus),
	)

	target := payment.ResolveStatus(n.TransactionStatus, n.FraudStatus)
	result := &ReconcileResult{OrderNumber: n.OrderID, To: target}

	for attempt := 1; attempt <= maxStatusAttempts; attempt++ {
		o, err := s.repo.GetByOrderNumber(ctx, n.OrderID)
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn("notification for unknown order")
			s.metrics.Inc(metrics.NotificationUnknown)
			result.Outcome = payment.OutcomeUnknownOrder
			return result, nil
		}
		if err != nil {
			return nil, err
		}

		result.From = o.PaymentStatus
		result.OrderStatus = o.OrderStatus

		if !amountMatches(n.GrossAmount, o.GrandTotal) {
			log.Warn("notification amount does not match order",
				zap.String("gross_amount", n.GrossAmount),
				zap.String("grand_total", o.GrandTotal.String()),
			)
			s.metrics.Inc(metrics.NotificationRejected)
			result.Outcome = payment.OutcomeRejected
			return result, nil
		}

		switch CheckTransition(o.PaymentStatus, target) {
		case TransitionNoop:
			s.metrics.Inc(metrics.NotificationNoop)
			result.Outcome = payment.OutcomeNoop
			return result, nil
		case TransitionRejected:
			log.Warn("payment status transition rejected",
				zap.String("from", string(o.PaymentStatus)),
				zap.String("to", string(target)),
			)
			s.metrics.Inc(metrics.NotificationRejected)
			result.Outcome = payment.OutcomeRejected
			return result, nil
		}

		orderStatus := OrderStatusFor(target, o.OrderStatus)
		err = s.repo.CompareAndSetStatus(ctx, o.ID, o.PaymentStatus, target, orderStatus, n.TransactionID)
		if errors.Is(err, ErrStaleStatus) {
			log.Info("payment status changed underneath, re-reading", zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}

		log.Info("payment status updated",
			zap.String("from", string(o.PaymentStatus)),
			zap.String("to", string(target)),
			zap.String("order_status", string(orderStatus)),
		)
		s.metrics.Inc(metrics.NotificationApplied)
		result.OrderStatus = orderStatus
		result.Outcome = payment.OutcomeApplied
		return result, nil
	}

	return nil, ErrStaleStatus
}

// amountMatches compares the gateway's gross_amount with the order total.
// An absent amount is not checked.
func amountMatches(grossAmount string, grandTotal decimal.Decimal) bool {
	if strings.TrimSpace(grossAmount) == "" {
		return true
	}
	amount, err := decimal.NewFromString(grossAmount)
	if err != nil {
		return false
	}
	return amount.Equal(grandTotal.Round(0))
}

// ----------------- Queries -----------------

func (s *service) GetOrder(ctx context.Context, userID, orderID uint) (*Order, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	if orderID == 0 {
		return nil, ErrOrderNotFound
	}
	return s.repo.GetByIDForUser(ctx, orderID, userID)
}

func (s *service) ListOrders(ctx context.Context, userID uint, page, limit int) (*OrderList, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultListLimit
	} else if limit > utils.MaxLimit {
		limit = utils.MaxLimit
	}

	orders, err := s.repo.ListByUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &OrderList{Items: orders, Total: total, Page: page, Limit: limit}, nil
}
