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

// CreateProduct inserts a new product
func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	result, err := s.products.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("failed to insert product: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}
	return nil
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

// GetProductsByIDs retrieves multiple products by IDs
func (s *Store) GetProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}

	cursor, err := s.products.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// UpdateProductFields applies a partial update to a product document
func (s *Store) UpdateProductFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now()
	result, err := s.products.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProduct archives a product rather than removing the document
func (s *Store) DeleteProduct(ctx context.Context, id primitive.ObjectID) error {
	return s.UpdateProductFields(ctx, id, bson.M{"status": models.ProductStatusArchived})
}

// SearchProducts runs the catalog query. Distance sort switches the whole
// query from a find to a $geoNear aggregation pipeline.
func (s *Store) SearchProducts(ctx context.Context, q ProductQuery) ([]models.Product, int64, error) {
	q.normalize()

	if q.Sort == SortDistance && q.HasCoords {
		return s.searchProductsGeo(ctx, q)
	}

	filter := buildProductFilter(q, q.HasCoords)

	// CountDocuments cannot run a $near filter; the count filter carries the
	// radius as $geoWithin instead.
	total, err := s.products.CountDocuments(ctx, buildCountFilter(q))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	cursor, err := s.products.Find(ctx, filter, pageOptions(q.Page, q.Limit, sortForMode(q.Sort)))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *Store) searchProductsGeo(ctx context.Context, q ProductQuery) ([]models.Product, int64, error) {
	cursor, err := s.products.Aggregate(ctx, buildGeoPipeline(q))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to run geo pipeline: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}

	total, err := s.products.CountDocuments(ctx, buildCountFilter(q))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}
	return products, total, nil
}

// DecrementStock atomically decrements tracked stock, refusing to go negative
func (s *Store) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	result, err := s.products.UpdateOne(ctx, bson.M{
		"_id":                      id,
		"inventory.track_quantity": true,
		"inventory.quantity":       bson.M{"$gte": quantity},
	}, bson.M{
		"$inc": bson.M{"inventory.quantity": -quantity},
		"$set": bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// RestoreStock adds cancelled quantities back to tracked stock
func (s *Store) RestoreStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	_, err := s.products.UpdateOne(ctx, bson.M{
		"_id":                      id,
		"inventory.track_quantity": true,
	}, bson.M{
		"$inc": bson.M{"inventory.quantity": quantity},
		"$set": bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}
	return nil
}

// IncrementSales folds sold quantities into the denormalized sales counter
func (s *Store) IncrementSales(ctx context.Context, id primitive.ObjectID, quantity int) error {
	_, err := s.products.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"total_sales": int64(quantity)},
	})
	if err != nil {
		return fmt.Errorf("failed to increment sales: %w", err)
	}
	return nil
}

// UpdateProductRating overwrites the denormalized rating summary
func (s *Store) UpdateProductRating(ctx context.Context, id primitive.ObjectID, average float64, count int) error {
	return s.UpdateProductFields(ctx, id, bson.M{
		"ratings.average": average,
		"ratings.count":   count,
	})
}

// ListProductsByOwner retrieves an owner's products with pagination
func (s *Store) ListProductsByOwner(ctx context.Context, ownerID primitive.ObjectID, page, limit int) ([]models.Product, int64, error) {
	filter := bson.M{"owner_id": ownerID, "status": bson.M{"$ne": models.ProductStatusArchived}}

	total, err := s.products.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := s.products.Find(ctx, filter, pageOptions(page, limit, bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
