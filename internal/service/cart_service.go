package service

import (
	"context"
	"fmt"
	"time"

	"marketplace-service/internal/models"
	"marketplace-service/internal/redisclient"
	"marketplace-service/internal/store"
	"marketplace-service/internal/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CartService reconciles cart quantities against live inventory
type CartService struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(st *store.Store, redis *redisclient.Client) *CartService {
	return &CartService{
		store:  st,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// CartResult is a cart plus any stock-adjustment messages for the client
type CartResult struct {
	Cart     *models.Cart `json:"cart"`
	Messages []string     `json:"messages,omitempty"`
}

// ReplaceItem is one line of a client-local cart being synced to the server
type ReplaceItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// clampQuantity re-derives the allowed quantity for a tracked product.
// Untracked products pass through unclamped.
func clampQuantity(requested, stock int, track bool) (allowed int, adjusted bool) {
	if !track {
		return requested, false
	}
	if requested > stock {
		return stock, true
	}
	return requested, false
}

// Get returns the user's cart
func (cs *CartService) Get(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	return cs.store.GetCartByUserID(ctx, userID)
}

// AddItem adds quantity of a product to the cart, clamping to live stock.
// Adding an out-of-stock product is rejected outright rather than clamped
// to zero. Zero or negative quantity removes the line.
func (cs *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*CartResult, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddItem")
	defer span.End()

	cart, err := cs.store.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		return cs.removeLine(ctx, userID, cart, productID)
	}

	product, err := cs.store.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.InStock() {
		util.CartRejectionsTotal.WithLabelValues("out_of_stock").Inc()
		return nil, ErrOutOfStock
	}

	stock := cs.availableStock(ctx, product)

	requested := quantity
	if idx := cart.FindItem(productID); idx >= 0 {
		requested += cart.Items[idx].Quantity
	}

	allowed, adjusted := clampQuantity(requested, stock, product.Inventory.TrackQuantity)
	if allowed == 0 {
		// The cached stock can lag the document; treat zero like out of stock
		// rather than keeping an empty line.
		util.CartRejectionsTotal.WithLabelValues("out_of_stock").Inc()
		return nil, ErrOutOfStock
	}

	var messages []string
	if adjusted {
		util.CartAdjustmentsTotal.Inc()
		messages = append(messages, adjustmentMessage(product.Name, allowed))
	}

	if idx := cart.FindItem(productID); idx >= 0 {
		cart.Items[idx].Quantity = allowed
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: productID,
			Quantity:  allowed,
			AddedAt:   time.Now(),
		})
	}

	saved, err := cs.store.SaveCart(ctx, userID, cart.Items)
	if err != nil {
		return nil, err
	}
	return &CartResult{Cart: saved, Messages: messages}, nil
}

// UpdateItem sets the quantity of an existing line, clamping to live stock
func (cs *CartService) UpdateItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*CartResult, error) {
	ctx, span := util.StartSpan(ctx, "CartService.UpdateItem")
	defer span.End()

	cart, err := cs.store.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		return cs.removeLine(ctx, userID, cart, productID)
	}

	idx := cart.FindItem(productID)
	if idx < 0 {
		return nil, store.ErrNotFound
	}

	product, err := cs.store.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	stock := cs.availableStock(ctx, product)
	allowed, adjusted := clampQuantity(quantity, stock, product.Inventory.TrackQuantity)

	var messages []string
	if allowed == 0 {
		// Stock ran out since the line was added; drop it.
		return cs.removeLine(ctx, userID, cart, productID)
	}
	if adjusted {
		util.CartAdjustmentsTotal.Inc()
		messages = append(messages, adjustmentMessage(product.Name, allowed))
	}

	cart.Items[idx].Quantity = allowed

	saved, err := cs.store.SaveCart(ctx, userID, cart.Items)
	if err != nil {
		return nil, err
	}
	return &CartResult{Cart: saved, Messages: messages}, nil
}

// ReplaceCart overwrites the server cart with a client-local one, clamping
// every line. Used when an anonymous cart is merged at login. Unknown
// products and zero quantities are dropped silently.
func (cs *CartService) ReplaceCart(ctx context.Context, userID primitive.ObjectID, items []ReplaceItem) (*CartResult, error) {
	ctx, span := util.StartSpan(ctx, "CartService.ReplaceCart")
	defer span.End()

	var (
		lines    []models.CartItem
		messages []string
	)

	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			continue
		}

		product, err := cs.store.GetProductByID(ctx, productID)
		if err != nil {
			continue
		}
		if !product.InStock() {
			messages = append(messages, fmt.Sprintf("%s is out of stock and was removed from your cart", product.Name))
			continue
		}

		stock := cs.availableStock(ctx, product)
		allowed, adjusted := clampQuantity(item.Quantity, stock, product.Inventory.TrackQuantity)
		if adjusted {
			util.CartAdjustmentsTotal.Inc()
			messages = append(messages, adjustmentMessage(product.Name, allowed))
		}

		lines = append(lines, models.CartItem{
			ProductID: productID,
			Quantity:  allowed,
			AddedAt:   time.Now(),
		})
	}

	saved, err := cs.store.SaveCart(ctx, userID, lines)
	if err != nil {
		return nil, err
	}
	return &CartResult{Cart: saved, Messages: messages}, nil
}

// Clear empties the cart
func (cs *CartService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	return cs.store.DeleteCart(ctx, userID)
}

func (cs *CartService) removeLine(ctx context.Context, userID primitive.ObjectID, cart *models.Cart, productID primitive.ObjectID) (*CartResult, error) {
	idx := cart.FindItem(productID)
	if idx < 0 {
		return &CartResult{Cart: cart}, nil
	}

	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	saved, err := cs.store.SaveCart(ctx, userID, cart.Items)
	if err != nil {
		return nil, err
	}
	return &CartResult{Cart: saved}, nil
}

// availableStock prefers the Redis cache and falls back to the document.
// Cache failures degrade to the Mongo value rather than erroring.
func (cs *CartService) availableStock(ctx context.Context, product *models.Product) int {
	if !product.Inventory.TrackQuantity {
		return product.Inventory.Quantity
	}

	if cs.redis != nil {
		if cached, ok, err := cs.redis.GetCachedStock(ctx, product.ID.Hex()); err == nil && ok {
			return cached
		} else if err != nil {
			cs.logger.Warn("Stock cache read failed, using document value",
				zap.String("product_id", product.ID.Hex()),
				zap.Error(err))
		}

		if err := cs.redis.CacheStock(ctx, product.ID.Hex(), product.Inventory.Quantity); err != nil {
			cs.logger.Warn("Stock cache write failed",
				zap.String("product_id", product.ID.Hex()),
				zap.Error(err))
		}
	}

	return product.Inventory.Quantity
}

func adjustmentMessage(name string, allowed int) string {
	return fmt.Sprintf("Only %d of %s available; quantity was adjusted", allowed, name)
}
