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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateBanner inserts a banner
func (s *Store) CreateBanner(ctx context.Context, banner *models.Banner) error {
	banner.CreatedAt = time.Now()
	banner.UpdatedAt = banner.CreatedAt

	result, err := s.banners.InsertOne(ctx, banner)
	if err != nil {
		return fmt.Errorf("failed to insert banner: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		banner.ID = oid
	}
	return nil
}

// GetBannerByID retrieves a banner by ID
func (s *Store) GetBannerByID(ctx context.Context, id primitive.ObjectID) (*models.Banner, error) {
	var banner models.Banner
	err := s.banners.FindOne(ctx, bson.M{"_id": id}).Decode(&banner)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find banner: %w", err)
	}
	return &banner, nil
}

// UpdateBannerFields applies a partial update to a banner
func (s *Store) UpdateBannerFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now()
	result, err := s.banners.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update banner: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBanner removes a banner
func (s *Store) DeleteBanner(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.banners.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete banner: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBanners retrieves banners ordered by position. When activeOnly is set,
// only banners inside their visibility window are returned.
func (s *Store) ListBanners(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	filter := bson.M{}
	if activeOnly {
		filter = visibleNowFilter()
	}

	cursor, err := s.banners.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	defer cursor.Close(ctx)

	var banners []models.Banner
	if err := cursor.All(ctx, &banners); err != nil {
		return nil, err
	}
	return banners, nil
}

// CreateHomepageSection inserts a homepage section
func (s *Store) CreateHomepageSection(ctx context.Context, section *models.HomepageSection) error {
	section.CreatedAt = time.Now()
	section.UpdatedAt = section.CreatedAt

	result, err := s.sections.InsertOne(ctx, section)
	if err != nil {
		return fmt.Errorf("failed to insert homepage section: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		section.ID = oid
	}
	return nil
}

// UpdateHomepageSectionFields applies a partial update to a section
func (s *Store) UpdateHomepageSectionFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now()
	result, err := s.sections.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update homepage section: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteHomepageSection removes a section
func (s *Store) DeleteHomepageSection(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.sections.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete homepage section: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListHomepageSections retrieves sections ordered by position
func (s *Store) ListHomepageSections(ctx context.Context, activeOnly bool) ([]models.HomepageSection, error) {
	filter := bson.M{}
	if activeOnly {
		filter = visibleNowFilter()
	}

	cursor, err := s.sections.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list homepage sections: %w", err)
	}
	defer cursor.Close(ctx)

	var sections []models.HomepageSection
	if err := cursor.All(ctx, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

func visibleNowFilter() bson.M {
	now := time.Now()
	return bson.M{
		"is_active": true,
		"$and": []bson.M{
			{"$or": []bson.M{
				{"starts_at": bson.M{"$exists": false}},
				{"starts_at": nil},
				{"starts_at": bson.M{"$lte": now}},
			}},
			{"$or": []bson.M{
				{"ends_at": bson.M{"$exists": false}},
				{"ends_at": nil},
				{"ends_at": bson.M{"$gte": now}},
			}},
		},
	}
}
