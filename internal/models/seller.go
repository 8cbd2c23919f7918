package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Seller is a location-aware marketplace principal, separate from User
type Seller struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name            string             `bson:"name" json:"name"`
	Email           string             `bson:"email" json:"email"`
	Password        string             `bson:"password" json:"-"`
	Phone           string             `bson:"phone,omitempty" json:"phone,omitempty"`
	StoreName       string             `bson:"store_name" json:"store_name"`
	Location        GeoPoint           `bson:"location" json:"location"`
	ServiceRadiusKm float64            `bson:"service_radius_km" json:"service_radius_km"`
	Pincode         string             `bson:"pincode" json:"pincode"`
	BusinessHours   []BusinessHours    `bson:"business_hours,omitempty" json:"business_hours,omitempty"`
	PaymentSettings PaymentSettings    `bson:"payment_settings" json:"payment_settings"`
	RefreshTokens   []RefreshToken     `bson:"refresh_tokens,omitempty" json:"-"`
	IsApproved      bool               `bson:"is_approved" json:"is_approved"`
	IsSuspended     bool               `bson:"is_suspended" json:"is_suspended"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// GeoPoint is a GeoJSON point, coordinates ordered [lng, lat]
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a GeoJSON point from latitude and longitude
func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lng, lat}}
}

// BusinessHours describes opening hours for one weekday
type BusinessHours struct {
	Day    string `bson:"day" json:"day"`
	Opens  string `bson:"opens" json:"opens"`
	Closes string `bson:"closes" json:"closes"`
	Closed bool   `bson:"closed" json:"closed"`
}

// PaymentSettings holds seller payout configuration
type PaymentSettings struct {
	PayoutMethod  string `bson:"payout_method,omitempty" json:"payout_method,omitempty"`
	AccountNumber string `bson:"account_number,omitempty" json:"-"`
	UPIHandle     string `bson:"upi_handle,omitempty" json:"upi_handle,omitempty"`
}
