package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// Payment statuses
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusCompleted  = "completed"
	PaymentStatusFailed     = "failed"
	PaymentStatusRefunded   = "refunded"
)

// Return request statuses
const (
	ReturnStatusRequested = "requested"
	ReturnStatusApproved  = "approved"
	ReturnStatusRejected  = "rejected"
)

// Order is a snapshot of purchased items with per-vendor sub-orders
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	Items           []OrderItem        `bson:"items" json:"items"`
	ShippingAddress Address            `bson:"shipping_address" json:"shipping_address"`
	BillingAddress  Address            `bson:"billing_address" json:"billing_address"`
	Payment         Payment            `bson:"payment" json:"payment"`
	Pricing         Pricing            `bson:"pricing" json:"pricing"`
	Status          string             `bson:"status" json:"status"`
	VendorOrders    []VendorOrder      `bson:"vendor_orders" json:"vendor_orders"`
	ReturnRequests  []ReturnRequest    `bson:"return_requests,omitempty" json:"return_requests,omitempty"`
	IdempotencyKey  string             `bson:"idempotency_key,omitempty" json:"-"`
	DeliveredAt     *time.Time         `bson:"delivered_at,omitempty" json:"delivered_at,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// OrderItem freezes price and quantity at purchase time
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name      string             `bson:"name" json:"name"`
	UnitPrice int64              `bson:"unit_price" json:"unit_price"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	OwnerID   primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	OwnerType string             `bson:"owner_type" json:"owner_type"`
	ImageURL  string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

// Payment is the payment sub-document of an order
type Payment struct {
	Status         string     `bson:"status" json:"status"`
	Method         string     `bson:"method,omitempty" json:"method,omitempty"`
	StripeIntentID string     `bson:"stripe_intent_id,omitempty" json:"stripe_intent_id,omitempty"`
	TransactionID  string     `bson:"transaction_id,omitempty" json:"transaction_id,omitempty"`
	Amount         int64      `bson:"amount" json:"amount"`
	PaidAt         *time.Time `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
	RefundedAt     *time.Time `bson:"refunded_at,omitempty" json:"refunded_at,omitempty"`
	FailureReason  string     `bson:"failure_reason,omitempty" json:"failure_reason,omitempty"`
}

// Pricing is the order price breakdown
type Pricing struct {
	Subtotal int64 `bson:"subtotal" json:"subtotal"`
	Tax      int64 `bson:"tax" json:"tax"`
	Shipping int64 `bson:"shipping" json:"shipping"`
	Discount int64 `bson:"discount" json:"discount"`
	Total    int64 `bson:"total" json:"total"`
}

// VendorOrder is the per-vendor slice of an order with its own status
type VendorOrder struct {
	OwnerID    primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	OwnerType  string             `bson:"owner_type" json:"owner_type"`
	Items      []OrderItem        `bson:"items" json:"items"`
	Subtotal   int64              `bson:"subtotal" json:"subtotal"`
	Status     string             `bson:"status" json:"status"`
	TrackingID string             `bson:"tracking_id,omitempty" json:"tracking_id,omitempty"`
	Carrier    string             `bson:"carrier,omitempty" json:"carrier,omitempty"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// ReturnRequest is filed against delivered items within the return window
type ReturnRequest struct {
	ProductID   primitive.ObjectID `bson:"product_id" json:"product_id"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Reason      string             `bson:"reason" json:"reason"`
	Status      string             `bson:"status" json:"status"`
	RequestedAt time.Time          `bson:"requested_at" json:"requested_at"`
}
