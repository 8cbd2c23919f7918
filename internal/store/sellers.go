package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateSeller inserts a new seller
func (s *Store) CreateSeller(ctx context.Context, seller *models.Seller) error {
	seller.CreatedAt = time.Now()
	seller.UpdatedAt = seller.CreatedAt

	result, err := s.sellers.InsertOne(ctx, seller)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert seller: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		seller.ID = oid
	}
	return nil
}

// GetSellerByID retrieves a seller by ID
func (s *Store) GetSellerByID(ctx context.Context, id primitive.ObjectID) (*models.Seller, error) {
	var seller models.Seller
	err := s.sellers.FindOne(ctx, bson.M{"_id": id}).Decode(&seller)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find seller: %w", err)
	}
	return &seller, nil
}

// GetSellerByEmail retrieves a seller by email
func (s *Store) GetSellerByEmail(ctx context.Context, email string) (*models.Seller, error) {
	var seller models.Seller
	err := s.sellers.FindOne(ctx, bson.M{"email": email}).Decode(&seller)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find seller: %w", err)
	}
	return &seller, nil
}

// UpdateSellerFields applies a partial update to a seller document
func (s *Store) UpdateSellerFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now()
	result, err := s.sellers.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update seller: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindSellerIDsByPincode returns the IDs of sellers serving a pincode
func (s *Store) FindSellerIDsByPincode(ctx context.Context, pincode string) ([]primitive.ObjectID, error) {
	cursor, err := s.sellers.Find(ctx, bson.M{
		"pincode":      pincode,
		"is_approved":  true,
		"is_suspended": false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find sellers by pincode: %w", err)
	}
	defer cursor.Close(ctx)

	var sellers []models.Seller
	if err := cursor.All(ctx, &sellers); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(sellers))
	for _, seller := range sellers {
		ids = append(ids, seller.ID)
	}
	return ids, nil
}

// PushSellerRefreshToken appends a refresh token, keeping only the newest entries
func (s *Store) PushSellerRefreshToken(ctx context.Context, id primitive.ObjectID, token models.RefreshToken) error {
	_, err := s.sellers.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{
			"refresh_tokens": bson.M{
				"$each":  []models.RefreshToken{token},
				"$slice": -models.RefreshTokenLimit,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to push refresh token: %w", err)
	}
	return nil
}

// GetSellerByRefreshToken resolves the seller holding an unexpired refresh token
func (s *Store) GetSellerByRefreshToken(ctx context.Context, token string) (*models.Seller, error) {
	var seller models.Seller
	filter := bson.M{"refresh_tokens": bson.M{"$elemMatch": bson.M{
		"token":      token,
		"expires_at": bson.M{"$gt": time.Now()},
	}}}
	err := s.sellers.FindOne(ctx, filter).Decode(&seller)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find seller by refresh token: %w", err)
	}
	return &seller, nil
}

// ListSellers retrieves sellers with pagination, optionally only those pending approval
func (s *Store) ListSellers(ctx context.Context, pendingOnly bool, page, limit int) ([]models.Seller, int64, error) {
	filter := bson.M{}
	if pendingOnly {
		filter["is_approved"] = false
	}

	total, err := s.sellers.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := s.sellers.Find(ctx, filter, pageOptions(page, limit, bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var sellers []models.Seller
	if err := cursor.All(ctx, &sellers); err != nil {
		return nil, 0, err
	}
	return sellers, total, nil
}
