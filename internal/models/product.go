package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Owner types for products
const (
	OwnerTypeVendor = "vendor"
	OwnerTypeSeller = "seller"
)

// Product statuses
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
	ProductStatusArchived = "archived"
)

// Product is a catalog item owned by a vendor or a seller
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category" json:"category"`
	Price       int64              `bson:"price" json:"price"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	OwnerType   string             `bson:"owner_type" json:"owner_type"`
	Inventory   Inventory          `bson:"inventory" json:"inventory"`
	Images      []Image            `bson:"images,omitempty" json:"images,omitempty"`
	Delivery    DeliveryOptions    `bson:"delivery" json:"delivery"`
	Location    *GeoPoint          `bson:"location,omitempty" json:"location,omitempty"`
	Status      string             `bson:"status" json:"status"`
	Ratings     RatingSummary      `bson:"ratings" json:"ratings"`
	TotalSales  int64              `bson:"total_sales" json:"total_sales"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`

	// DistanceMeters is populated by geospatial queries, never stored.
	DistanceMeters float64 `bson:"distance_meters,omitempty" json:"distance_meters,omitempty"`
}

// Inventory tracks product stock
type Inventory struct {
	Quantity          int  `bson:"quantity" json:"quantity"`
	TrackQuantity     bool `bson:"track_quantity" json:"track_quantity"`
	LowStockThreshold int  `bson:"low_stock_threshold" json:"low_stock_threshold"`
}

// InStock reports whether the product can be added to a cart at all
func (p *Product) InStock() bool {
	if !p.Inventory.TrackQuantity {
		return true
	}
	return p.Inventory.Quantity > 0
}

// LowStock reports whether stock has fallen to the configured threshold
func (p *Product) LowStock() bool {
	return p.Inventory.TrackQuantity && p.Inventory.Quantity <= p.Inventory.LowStockThreshold
}

// Image is a stored Cloudinary asset
type Image struct {
	URL      string `bson:"url" json:"url"`
	PublicID string `bson:"public_id" json:"public_id"`
	IsMain   bool   `bson:"is_main" json:"is_main"`
}

// DeliveryOptions flags which delivery modes a product supports
type DeliveryOptions struct {
	Instant  bool `bson:"instant" json:"instant"`
	NextDay  bool `bson:"next_day" json:"next_day"`
	Standard bool `bson:"standard" json:"standard"`
}

// RatingSummary is denormalized from approved reviews
type RatingSummary struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}
