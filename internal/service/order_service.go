package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"marketplace-service/config"
	"marketplace-service/internal/broker"
	"marketplace-service/internal/models"
	"marketplace-service/internal/redisclient"
	"marketplace-service/internal/store"
	"marketplace-service/internal/util"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// OrderService handles order placement and lifecycle
type OrderService struct {
	store          *store.Store
	redis          *redisclient.Client
	eventPublisher *broker.EventPublisher
	cfg            config.BusinessConfig
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	st *store.Store,
	redis *redisclient.Client,
	eventPublisher *broker.EventPublisher,
	cfg config.BusinessConfig,
) *OrderService {
	return &OrderService{
		store:          st,
		redis:          redis,
		eventPublisher: eventPublisher,
		cfg:            cfg,
		logger:         util.GetLogger(),
	}
}

// PlaceOrderRequest carries an order placement
type PlaceOrderRequest struct {
	Items           []OrderItemRequest `json:"items" binding:"required,min=1"`
	ShippingAddress models.Address     `json:"shipping_address" binding:"required"`
	BillingAddress  *models.Address    `json:"billing_address,omitempty"`
	PaymentMethod   string             `json:"payment_method" binding:"required"`
	IdempotencyKey  string             `json:"idempotency_key,omitempty"`
}

// OrderItemRequest is one requested line
type OrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// PlaceOrder validates items, snapshots prices, decrements inventory
// item-by-item and fans the order out into per-vendor sub-orders. There is
// no multi-document transaction: a failed decrement stops the loop and the
// already-decremented lines are restored, compensation-style.
func (s *OrderService) PlaceOrder(ctx context.Context, userID primitive.ObjectID, req *PlaceOrderRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PlaceOrder")
	defer span.End()

	if req.IdempotencyKey != "" {
		if existing := s.replayedOrder(ctx, req.IdempotencyKey); existing != nil {
			return existing, nil
		}
		existing, err := s.store.GetOrderByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("failed to check idempotency: %w", err)
		}
		if existing != nil {
			s.logger.Info("Duplicate order request detected",
				zap.String("idempotency_key", req.IdempotencyKey),
				zap.String("order_id", existing.ID.Hex()))
			return existing, nil
		}
	}

	products, err := s.validateItems(ctx, req.Items)
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_items").Inc()
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		product := products[line.ProductID]
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
			OwnerID:   product.OwnerID,
			OwnerType: product.OwnerType,
			ImageURL:  mainImageURL(product),
		})
	}

	if err := s.decrementInventory(ctx, items, products); err != nil {
		util.OrdersFailedTotal.WithLabelValues("insufficient_stock").Inc()
		return nil, err
	}

	pricing := s.computePricing(items)

	billing := req.ShippingAddress
	if req.BillingAddress != nil {
		billing = *req.BillingAddress
	}

	order := &models.Order{
		UserID:          userID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
		Payment: models.Payment{
			Status: models.PaymentStatusPending,
			Method: req.PaymentMethod,
			Amount: pricing.Total,
		},
		Pricing:        pricing,
		Status:         models.OrderStatusPending,
		VendorOrders:   groupVendorOrders(items),
		IdempotencyKey: req.IdempotencyKey,
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		// The decrements already happened; put the stock back.
		s.restoreInventory(ctx, items)
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if req.IdempotencyKey != "" && s.redis != nil {
		if err := s.redis.SetIdempotencyKey(ctx, req.IdempotencyKey, order.ID.Hex()); err != nil {
			s.logger.Warn("Failed to cache idempotency key", zap.Error(err))
		}
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.Hex()),
		zap.String("user_id", userID.Hex()),
		zap.Int64("total", pricing.Total))

	if err := s.store.DeleteCart(ctx, userID); err != nil {
		s.logger.Warn("Failed to clear cart after order", zap.Error(err))
	}
	s.invalidateStockCache(ctx, items)

	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now(),
		},
		OrderID: order.ID.Hex(),
		UserID:  userID.Hex(),
		Total:   pricing.Total,
		Items:   eventItems(items),
	}
	if err := s.eventPublisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}

	return order, nil
}

// GetOrder retrieves an order, enforcing ownership unless the caller is an admin
func (s *OrderService) GetOrder(ctx context.Context, orderID, callerID primitive.ObjectID, isAdmin bool) (*models.Order, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != callerID {
		return nil, ErrForbidden
	}
	return order, nil
}

// ListUserOrders retrieves a user's orders
func (s *OrderService) ListUserOrders(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]models.Order, int64, error) {
	return s.store.ListOrdersByUser(ctx, userID, page, limit)
}

// ListAllOrders retrieves every order, optionally by status (admin)
func (s *OrderService) ListAllOrders(ctx context.Context, status string, page, limit int) ([]models.Order, int64, error) {
	return s.store.ListOrders(ctx, status, page, limit)
}

// ListVendorOrders retrieves orders containing the owner's sub-order
func (s *OrderService) ListVendorOrders(ctx context.Context, ownerID primitive.ObjectID, page, limit int) ([]models.Order, int64, error) {
	return s.store.ListOrdersByVendor(ctx, ownerID, page, limit)
}

// Cancel cancels a pending or confirmed order and restores each item's
// inventory by exactly the cancelled quantity.
func (s *OrderService) Cancel(ctx context.Context, orderID, callerID primitive.ObjectID, isAdmin bool, reason string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Cancel")
	defer span.End()

	order, err := s.GetOrder(ctx, orderID, callerID, isAdmin)
	if err != nil {
		return nil, err
	}

	if !orderCancellable(order.Status) {
		return nil, fmt.Errorf("%w: cannot cancel order in status %q", ErrInvalidTransition, order.Status)
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, models.OrderStatusCancelled); err != nil {
		return nil, err
	}
	s.restoreInventory(ctx, order.Items)
	s.invalidateStockCache(ctx, order.Items)

	util.OrdersCancelledTotal.Inc()
	s.logger.Info("Order cancelled",
		zap.String("order_id", orderID.Hex()),
		zap.String("reason", reason))

	event := &models.OrderCancelledEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCancelled,
			Timestamp: time.Now(),
		},
		OrderID: orderID.Hex(),
		Reason:  reason,
		Items:   eventItems(order.Items),
	}
	if err := s.eventPublisher.PublishOrderCancelled(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCancelled event", zap.Error(err))
	}

	order.Status = models.OrderStatusCancelled
	return order, nil
}

// UpdateStatus advances the order through its state machine
func (s *OrderService) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, newStatus string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !CanTransitionOrder(order.Status, newStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, newStatus); err != nil {
		return err
	}

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID: orderID.Hex(),
		From:    order.Status,
		To:      newStatus,
	}
	if err := s.eventPublisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}
	return nil
}

// UpdateVendorStatus advances one vendor's sub-order independently
func (s *OrderService) UpdateVendorStatus(ctx context.Context, orderID, ownerID primitive.ObjectID, newStatus, trackingID, carrier string) error {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	var current string
	found := false
	for _, vo := range order.VendorOrders {
		if vo.OwnerID == ownerID {
			current = vo.Status
			found = true
			break
		}
	}
	if !found {
		return store.ErrNotFound
	}

	if !CanTransitionOrder(current, newStatus) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, newStatus)
	}

	return s.store.UpdateVendorOrder(ctx, orderID, ownerID, newStatus, trackingID, carrier)
}

// RequestReturn files a return request inside the configured window
func (s *OrderService) RequestReturn(ctx context.Context, orderID, callerID, productID primitive.ObjectID, quantity int, reason string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.RequestReturn")
	defer span.End()

	order, err := s.GetOrder(ctx, orderID, callerID, false)
	if err != nil {
		return err
	}

	if order.Status != models.OrderStatusDelivered || order.DeliveredAt == nil {
		return fmt.Errorf("%w: order is not delivered", ErrInvalidTransition)
	}
	if !WithinReturnWindow(*order.DeliveredAt, time.Now(), s.cfg.ReturnWindowDays) {
		return ErrReturnWindowClosed
	}

	var item *models.OrderItem
	for i := range order.Items {
		if order.Items[i].ProductID == productID {
			item = &order.Items[i]
			break
		}
	}
	if item == nil {
		return store.ErrNotFound
	}
	if quantity < 1 || quantity > item.Quantity {
		return fmt.Errorf("%w: invalid return quantity", ErrInvalidTransition)
	}

	return s.store.AddReturnRequest(ctx, orderID, models.ReturnRequest{
		ProductID:   productID,
		Quantity:    quantity,
		Reason:      reason,
		Status:      models.ReturnStatusRequested,
		RequestedAt: time.Now(),
	})
}

// WithinReturnWindow reports whether now falls inside the return window
// computed from the delivery timestamp.
func WithinReturnWindow(deliveredAt, now time.Time, windowDays int) bool {
	return !now.After(deliveredAt.Add(time.Duration(windowDays) * 24 * time.Hour))
}

// replayedOrder resolves a duplicate request through the Redis fast path.
// Misses and Redis errors fall through to the Mongo index, which stays
// authoritative.
func (s *OrderService) replayedOrder(ctx context.Context, key string) *models.Order {
	if s.redis == nil {
		return nil
	}
	orderHex, ok, err := s.redis.GetIdempotencyKey(ctx, key)
	if err != nil {
		s.logger.Warn("Idempotency cache lookup failed", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	orderID, err := primitive.ObjectIDFromHex(orderHex)
	if err != nil {
		return nil
	}
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil
	}
	s.logger.Info("Duplicate order request served from cache",
		zap.String("idempotency_key", key),
		zap.String("order_id", order.ID.Hex()))
	return order
}

func (s *OrderService) validateItems(ctx context.Context, items []OrderItemRequest) (map[string]*models.Product, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		id, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q", item.ProductID)
		}
		if seen[item.ProductID] {
			return nil, fmt.Errorf("duplicate product %q in order", item.ProductID)
		}
		seen[item.ProductID] = true
		ids = append(ids, id)
	}

	products, err := s.store.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(products) != len(items) {
		return nil, errors.New("some products not found")
	}

	productMap := make(map[string]*models.Product, len(products))
	for i := range products {
		if products[i].Status != models.ProductStatusActive {
			return nil, fmt.Errorf("product %q is not available", products[i].Name)
		}
		productMap[products[i].ID.Hex()] = &products[i]
	}
	return productMap, nil
}

// decrementInventory walks the items in order; a failure restores what was
// already taken and aborts.
func (s *OrderService) decrementInventory(ctx context.Context, items []models.OrderItem, products map[string]*models.Product) error {
	taken := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		product := products[item.ProductID.Hex()]
		if !product.Inventory.TrackQuantity {
			continue
		}

		if err := s.store.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.restoreInventory(ctx, taken)
			if errors.Is(err, store.ErrInsufficientStock) {
				return fmt.Errorf("%w: %s", ErrOutOfStock, product.Name)
			}
			return err
		}
		taken = append(taken, item)
	}
	return nil
}

func (s *OrderService) restoreInventory(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		if err := s.store.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Error("Failed to restore stock",
				zap.String("product_id", item.ProductID.Hex()),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
		}
	}
}

func (s *OrderService) invalidateStockCache(ctx context.Context, items []models.OrderItem) {
	if s.redis == nil {
		return
	}
	for _, item := range items {
		if err := s.redis.InvalidateStock(ctx, item.ProductID.Hex()); err != nil {
			s.logger.Warn("Failed to invalidate stock cache",
				zap.String("product_id", item.ProductID.Hex()),
				zap.Error(err))
		}
	}
}

// computePricing builds the order price breakdown
func (s *OrderService) computePricing(items []models.OrderItem) models.Pricing {
	var subtotal int64
	for _, item := range items {
		subtotal += item.UnitPrice * int64(item.Quantity)
	}

	tax := int64(math.Round(float64(subtotal) * s.cfg.TaxRatePercent / 100))

	var shipping int64
	if subtotal < s.cfg.FreeShippingMin {
		shipping = s.cfg.ShippingFlat
	}

	return models.Pricing{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal + tax + shipping,
	}
}

// groupVendorOrders fans order items out into per-owner sub-orders
func groupVendorOrders(items []models.OrderItem) []models.VendorOrder {
	byOwner := make(map[primitive.ObjectID]*models.VendorOrder)
	order := make([]primitive.ObjectID, 0)

	for _, item := range items {
		vo, ok := byOwner[item.OwnerID]
		if !ok {
			vo = &models.VendorOrder{
				OwnerID:   item.OwnerID,
				OwnerType: item.OwnerType,
				Status:    models.OrderStatusPending,
				UpdatedAt: time.Now(),
			}
			byOwner[item.OwnerID] = vo
			order = append(order, item.OwnerID)
		}
		vo.Items = append(vo.Items, item)
		vo.Subtotal += item.UnitPrice * int64(item.Quantity)
	}

	result := make([]models.VendorOrder, 0, len(order))
	for _, ownerID := range order {
		result = append(result, *byOwner[ownerID])
	}
	return result
}

func eventItems(items []models.OrderItem) []models.OrderItemData {
	data := make([]models.OrderItemData, 0, len(items))
	for _, item := range items {
		data = append(data, models.OrderItemData{
			ProductID: item.ProductID.Hex(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return data
}

func mainImageURL(p *models.Product) string {
	for _, img := range p.Images {
		if img.IsMain {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return ""
}
