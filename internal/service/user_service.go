package service

import (
	"context"

	"marketplace-service/internal/models"
	"marketplace-service/internal/store"
	"marketplace-service/internal/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserService handles profile, address, preference and wishlist operations
type UserService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(st *store.Store) *UserService {
	return &UserService{
		store:  st,
		logger: util.GetLogger(),
	}
}

// ProfileUpdate carries profile changes
type ProfileUpdate struct {
	Name          string                `json:"name,omitempty"`
	Phone         string                `json:"phone,omitempty"`
	VendorProfile *models.VendorProfile `json:"vendor_profile,omitempty"`
}

// UpdateProfile applies profile changes
func (us *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, update *ProfileUpdate) (*models.User, error) {
	fields := bson.M{}
	if update.Name != "" {
		fields["name"] = update.Name
	}
	if update.Phone != "" {
		fields["phone"] = update.Phone
	}
	if update.VendorProfile != nil {
		fields["vendor_profile"] = update.VendorProfile
	}

	if len(fields) > 0 {
		if err := us.store.UpdateUserFields(ctx, userID, fields); err != nil {
			return nil, err
		}
	}
	return us.store.GetUserByID(ctx, userID)
}

// SetAddresses replaces the address book, keeping at most one default
func (us *UserService) SetAddresses(ctx context.Context, userID primitive.ObjectID, addresses []models.Address) (*models.User, error) {
	defaultSeen := false
	for i := range addresses {
		if addresses[i].IsDefault {
			if defaultSeen {
				addresses[i].IsDefault = false
			}
			defaultSeen = true
		}
	}

	if err := us.store.UpdateUserFields(ctx, userID, bson.M{"addresses": addresses}); err != nil {
		return nil, err
	}
	return us.store.GetUserByID(ctx, userID)
}

// SetPreferences replaces the user's preferences
func (us *UserService) SetPreferences(ctx context.Context, userID primitive.ObjectID, prefs models.Preferences) (*models.User, error) {
	if err := us.store.UpdateUserFields(ctx, userID, bson.M{"preferences": prefs}); err != nil {
		return nil, err
	}
	return us.store.GetUserByID(ctx, userID)
}

// AddToWishlist adds a product reference after checking it exists
func (us *UserService) AddToWishlist(ctx context.Context, userID, productID primitive.ObjectID) error {
	if _, err := us.store.GetProductByID(ctx, productID); err != nil {
		return err
	}
	return us.store.AddToWishlist(ctx, userID, productID)
}

// RemoveFromWishlist removes a product reference
func (us *UserService) RemoveFromWishlist(ctx context.Context, userID, productID primitive.ObjectID) error {
	return us.store.RemoveFromWishlist(ctx, userID, productID)
}

// Wishlist resolves the user's wishlist into products
func (us *UserService) Wishlist(ctx context.Context, userID primitive.ObjectID) ([]models.Product, error) {
	user, err := us.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return us.store.GetProductsByIDs(ctx, user.Wishlist)
}

// Suspend soft-disables or re-enables a user account (admin)
func (us *UserService) Suspend(ctx context.Context, userID primitive.ObjectID, suspended bool) error {
	us.logger.Info("User suspension changed",
		zap.String("user_id", userID.Hex()),
		zap.Bool("suspended", suspended))
	return us.store.SetUserSuspended(ctx, userID, suspended)
}

// ListUsers retrieves users with pagination (admin)
func (us *UserService) ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	return us.store.ListUsers(ctx, page, limit)
}

// SellerProfileUpdate carries seller profile changes
type SellerProfileUpdate struct {
	Name            string                  `json:"name,omitempty"`
	Phone           string                  `json:"phone,omitempty"`
	StoreName       string                  `json:"store_name,omitempty"`
	Lat             *float64                `json:"lat,omitempty"`
	Lng             *float64                `json:"lng,omitempty"`
	ServiceRadiusKm *float64                `json:"service_radius_km,omitempty"`
	Pincode         string                  `json:"pincode,omitempty"`
	BusinessHours   []models.BusinessHours  `json:"business_hours,omitempty"`
	PaymentSettings *models.PaymentSettings `json:"payment_settings,omitempty"`
}

// UpdateSellerProfile applies profile changes to the caller's seller document
func (us *UserService) UpdateSellerProfile(ctx context.Context, sellerID primitive.ObjectID, update *SellerProfileUpdate) (*models.Seller, error) {
	fields := bson.M{}
	if update.Name != "" {
		fields["name"] = update.Name
	}
	if update.Phone != "" {
		fields["phone"] = update.Phone
	}
	if update.StoreName != "" {
		fields["store_name"] = update.StoreName
	}
	if update.Lat != nil && update.Lng != nil {
		fields["location"] = models.NewGeoPoint(*update.Lat, *update.Lng)
	}
	if update.ServiceRadiusKm != nil && *update.ServiceRadiusKm > 0 {
		fields["service_radius_km"] = *update.ServiceRadiusKm
	}
	if update.Pincode != "" {
		fields["pincode"] = update.Pincode
	}
	if update.BusinessHours != nil {
		fields["business_hours"] = update.BusinessHours
	}
	if update.PaymentSettings != nil {
		fields["payment_settings"] = update.PaymentSettings
	}

	if len(fields) > 0 {
		if err := us.store.UpdateSellerFields(ctx, sellerID, fields); err != nil {
			return nil, err
		}
	}
	return us.store.GetSellerByID(ctx, sellerID)
}

// ListSellers retrieves sellers, optionally only those awaiting approval (admin)
func (us *UserService) ListSellers(ctx context.Context, pendingOnly bool, page, limit int) ([]models.Seller, int64, error) {
	return us.store.ListSellers(ctx, pendingOnly, page, limit)
}

// ApproveSeller marks a seller as approved so their products become orderable (admin)
func (us *UserService) ApproveSeller(ctx context.Context, sellerID primitive.ObjectID) error {
	us.logger.Info("Seller approved", zap.String("seller_id", sellerID.Hex()))
	return us.store.UpdateSellerFields(ctx, sellerID, bson.M{"is_approved": true})
}

// SuspendSeller soft-disables or re-enables a seller account (admin)
func (us *UserService) SuspendSeller(ctx context.Context, sellerID primitive.ObjectID, suspended bool) error {
	us.logger.Info("Seller suspension changed",
		zap.String("seller_id", sellerID.Hex()),
		zap.Bool("suspended", suspended))
	return us.store.UpdateSellerFields(ctx, sellerID, bson.M{"is_suspended": suspended})
}
