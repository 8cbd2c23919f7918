package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

// RefreshTokenLimit caps how many refresh tokens are kept per account.
const RefreshTokenLimit = 5

// User represents an account in the marketplace
type User struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string               `bson:"name" json:"name"`
	Email         string               `bson:"email" json:"email"`
	Password      string               `bson:"password" json:"-"`
	Role          string               `bson:"role" json:"role"`
	Phone         string               `bson:"phone,omitempty" json:"phone,omitempty"`
	VendorProfile *VendorProfile       `bson:"vendor_profile,omitempty" json:"vendor_profile,omitempty"`
	Addresses     []Address            `bson:"addresses,omitempty" json:"addresses,omitempty"`
	Preferences   Preferences          `bson:"preferences" json:"preferences"`
	Wishlist      []primitive.ObjectID `bson:"wishlist,omitempty" json:"wishlist,omitempty"`
	RefreshTokens []RefreshToken       `bson:"refresh_tokens,omitempty" json:"-"`
	IsSuspended   bool                 `bson:"is_suspended" json:"is_suspended"`
	CreatedAt     time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at" json:"updated_at"`
}

// VendorProfile holds the storefront details of a vendor user
type VendorProfile struct {
	StoreName   string `bson:"store_name" json:"store_name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
	LogoURL     string `bson:"logo_url,omitempty" json:"logo_url,omitempty"`
}

// Address is a shipping or billing address
type Address struct {
	Label     string `bson:"label,omitempty" json:"label,omitempty"`
	Line1     string `bson:"line1" json:"line1"`
	Line2     string `bson:"line2,omitempty" json:"line2,omitempty"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state,omitempty" json:"state,omitempty"`
	Pincode   string `bson:"pincode" json:"pincode"`
	Country   string `bson:"country" json:"country"`
	IsDefault bool   `bson:"is_default" json:"is_default"`
}

// Preferences holds per-user settings
type Preferences struct {
	Newsletter bool   `bson:"newsletter" json:"newsletter"`
	Currency   string `bson:"currency,omitempty" json:"currency,omitempty"`
	Language   string `bson:"language,omitempty" json:"language,omitempty"`
}

// RefreshToken is an opaque refresh token with its expiry
type RefreshToken struct {
	Token     string    `bson:"token" json:"-"`
	ExpiresAt time.Time `bson:"expires_at" json:"-"`
	IssuedAt  time.Time `bson:"issued_at" json:"-"`
}
