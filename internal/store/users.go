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

// CreateUser inserts a new user
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	result, err := s.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// UpdateUserFields applies a partial update to a user document
func (s *Store) UpdateUserFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now()
	result, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetUserSuspended toggles the soft-disable flag
func (s *Store) SetUserSuspended(ctx context.Context, id primitive.ObjectID, suspended bool) error {
	return s.UpdateUserFields(ctx, id, bson.M{"is_suspended": suspended})
}

// AddToWishlist adds a product reference, ignoring duplicates
func (s *Store) AddToWishlist(ctx context.Context, userID, productID primitive.ObjectID) error {
	result, err := s.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$addToSet": bson.M{"wishlist": productID},
		"$set":      bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to add to wishlist: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveFromWishlist removes a product reference
func (s *Store) RemoveFromWishlist(ctx context.Context, userID, productID primitive.ObjectID) error {
	result, err := s.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$pull": bson.M{"wishlist": productID},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PushUserRefreshToken appends a refresh token, keeping only the newest entries
func (s *Store) PushUserRefreshToken(ctx context.Context, id primitive.ObjectID, token models.RefreshToken) error {
	_, err := s.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
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

// GetUserByRefreshToken resolves the user holding an unexpired refresh token
func (s *Store) GetUserByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	var user models.User
	filter := bson.M{"refresh_tokens": bson.M{"$elemMatch": bson.M{
		"token":      token,
		"expires_at": bson.M{"$gt": time.Now()},
	}}}
	err := s.users.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by refresh token: %w", err)
	}
	return &user, nil
}

// ListUsers retrieves users with pagination, newest first
func (s *Store) ListUsers(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	total, err := s.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	cursor, err := s.users.Find(ctx, bson.M{}, pageOptions(page, limit, bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
