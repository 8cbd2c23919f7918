package service

import (
	"context"

	"marketplace-service/internal/media"
	"marketplace-service/internal/models"
	"marketplace-service/internal/redisclient"
	"marketplace-service/internal/store"
	"marketplace-service/internal/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CatalogService handles product CRUD and catalog search
type CatalogService struct {
	store    *store.Store
	redis    *redisclient.Client
	uploader *media.Uploader
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(st *store.Store, redis *redisclient.Client, uploader *media.Uploader) *CatalogService {
	return &CatalogService{
		store:    st,
		redis:    redis,
		uploader: uploader,
		logger:   util.GetLogger(),
	}
}

// SearchParams is the public catalog query surface
type SearchParams struct {
	Lat       float64
	Lng       float64
	HasCoords bool
	RadiusKm  float64
	Pincode   string
	Category  string
	Search    string
	MinPrice  int64
	MaxPrice  int64
	Delivery  string
	Sort      string
	Page      int
	Limit     int
}

// Search runs the catalog query. Coordinates drive a geospatial query;
// a pincode instead resolves sellers in that pincode and filters by owner.
func (cs *CatalogService) Search(ctx context.Context, params SearchParams) ([]models.Product, int64, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Search")
	defer span.End()

	query := store.ProductQuery{
		Lat:       params.Lat,
		Lng:       params.Lng,
		HasCoords: params.HasCoords,
		RadiusKm:  params.RadiusKm,
		Category:  params.Category,
		Search:    params.Search,
		MinPrice:  params.MinPrice,
		MaxPrice:  params.MaxPrice,
		Delivery:  params.Delivery,
		Sort:      params.Sort,
		Page:      params.Page,
		Limit:     params.Limit,
	}

	switch {
	case params.HasCoords:
		util.GeoQueriesTotal.WithLabelValues("coords").Inc()
	case params.Pincode != "":
		util.GeoQueriesTotal.WithLabelValues("pincode").Inc()

		sellerIDs, err := cs.store.FindSellerIDsByPincode(ctx, params.Pincode)
		if err != nil {
			return nil, 0, err
		}
		if len(sellerIDs) == 0 {
			return []models.Product{}, 0, nil
		}
		query.OwnerIDs = sellerIDs
	default:
		util.GeoQueriesTotal.WithLabelValues("none").Inc()
	}

	return cs.store.SearchProducts(ctx, query)
}

// GetProduct retrieves one product
func (cs *CatalogService) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return cs.store.GetProductByID(ctx, id)
}

// ProductInput carries product creation or update data
type ProductInput struct {
	Name        string                 `json:"name" binding:"required"`
	Description string                 `json:"description,omitempty"`
	Category    string                 `json:"category" binding:"required"`
	Price       int64                  `json:"price" binding:"required,gt=0"`
	Inventory   models.Inventory       `json:"inventory"`
	Delivery    models.DeliveryOptions `json:"delivery"`
	Lat         *float64               `json:"lat,omitempty"`
	Lng         *float64               `json:"lng,omitempty"`
	ImageBase64 string                 `json:"image_base64,omitempty"`
}

// CreateProduct creates a product owned by a vendor or seller, uploading
// the image when one is supplied.
func (cs *CatalogService) CreateProduct(ctx context.Context, ownerID primitive.ObjectID, ownerType string, input *ProductInput) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateProduct")
	defer span.End()

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		OwnerID:     ownerID,
		OwnerType:   ownerType,
		Inventory:   input.Inventory,
		Delivery:    input.Delivery,
		Status:      models.ProductStatusActive,
	}

	if input.Lat != nil && input.Lng != nil {
		point := models.NewGeoPoint(*input.Lat, *input.Lng)
		product.Location = &point
	}

	if input.ImageBase64 != "" {
		image, err := cs.uploader.Upload(ctx, input.ImageBase64, "products")
		if err != nil {
			return nil, err
		}
		if image != nil {
			image.IsMain = true
			product.Images = []models.Image{*image}
		}
	}

	if err := cs.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	cs.logger.Info("Product created",
		zap.String("product_id", product.ID.Hex()),
		zap.String("owner_id", ownerID.Hex()))
	return product, nil
}

// UpdateProduct applies changes to a product the caller owns
func (cs *CatalogService) UpdateProduct(ctx context.Context, productID, callerID primitive.ObjectID, isAdmin bool, input *ProductInput) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.UpdateProduct")
	defer span.End()

	product, err := cs.store.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && product.OwnerID != callerID {
		return nil, ErrForbidden
	}

	fields := bson.M{
		"name":        input.Name,
		"description": input.Description,
		"category":    input.Category,
		"price":       input.Price,
		"inventory":   input.Inventory,
		"delivery":    input.Delivery,
	}

	if input.Lat != nil && input.Lng != nil {
		fields["location"] = models.NewGeoPoint(*input.Lat, *input.Lng)
	}

	if input.ImageBase64 != "" {
		image, err := cs.uploader.Upload(ctx, input.ImageBase64, "products")
		if err != nil {
			return nil, err
		}
		if image != nil {
			image.IsMain = true
			fields["images"] = []models.Image{*image}

			for _, old := range product.Images {
				if err := cs.uploader.Destroy(ctx, old.PublicID); err != nil {
					cs.logger.Warn("Failed to remove old image", zap.Error(err))
				}
			}
		}
	}

	if err := cs.store.UpdateProductFields(ctx, productID, fields); err != nil {
		return nil, err
	}

	if cs.redis != nil {
		if err := cs.redis.InvalidateStock(ctx, productID.Hex()); err != nil {
			cs.logger.Warn("Failed to invalidate stock cache", zap.Error(err))
		}
	}

	return cs.store.GetProductByID(ctx, productID)
}

// DeleteProduct archives a product the caller owns
func (cs *CatalogService) DeleteProduct(ctx context.Context, productID, callerID primitive.ObjectID, isAdmin bool) error {
	product, err := cs.store.GetProductByID(ctx, productID)
	if err != nil {
		return err
	}
	if !isAdmin && product.OwnerID != callerID {
		return ErrForbidden
	}
	return cs.store.DeleteProduct(ctx, productID)
}

// ListOwnProducts retrieves the caller's products
func (cs *CatalogService) ListOwnProducts(ctx context.Context, ownerID primitive.ObjectID, page, limit int) ([]models.Product, int64, error) {
	return cs.store.ListProductsByOwner(ctx, ownerID, page, limit)
}
