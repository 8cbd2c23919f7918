package service

import (
	"context"
	"fmt"

	"marketplace-service/internal/models"
	"marketplace-service/internal/store"
	"marketplace-service/internal/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ReviewService gates reviews on delivered orders and feeds approved
// ratings back into product aggregates.
type ReviewService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(st *store.Store) *ReviewService {
	return &ReviewService{
		store:  st,
		logger: util.GetLogger(),
	}
}

// CreateReviewRequest carries a review submission
type CreateReviewRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Title     string `json:"title,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

// Create submits a review. The user must have a delivered order containing
// the product, and only one review per (user, product) is allowed.
func (rs *ReviewService) Create(ctx context.Context, userID primitive.ObjectID, req *CreateReviewRequest) (*models.Review, error) {
	ctx, span := util.StartSpan(ctx, "ReviewService.Create")
	defer span.End()

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product id %q", req.ProductID)
	}

	if _, err := rs.store.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}

	orderID, eligible, err := rs.store.HasDeliveredOrderWithProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		util.ReviewsRejectedTotal.WithLabelValues("not_eligible").Inc()
		return nil, ErrNotEligible
	}

	review := &models.Review{
		UserID:    userID,
		ProductID: productID,
		OrderID:   orderID,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
		Status:    models.ReviewStatusPending,
	}

	if err := rs.store.CreateReview(ctx, review); err != nil {
		if err == store.ErrDuplicate {
			util.ReviewsRejectedTotal.WithLabelValues("duplicate").Inc()
		}
		return nil, err
	}

	util.ReviewsSubmittedTotal.Inc()
	rs.logger.Info("Review submitted",
		zap.String("review_id", review.ID.Hex()),
		zap.String("product_id", productID.Hex()))
	return review, nil
}

// Moderate approves or rejects a review. Either way the product's rating
// aggregates are recomputed from approved reviews only.
func (rs *ReviewService) Moderate(ctx context.Context, reviewID primitive.ObjectID, approve bool) error {
	ctx, span := util.StartSpan(ctx, "ReviewService.Moderate")
	defer span.End()

	review, err := rs.store.GetReviewByID(ctx, reviewID)
	if err != nil {
		return err
	}

	status := models.ReviewStatusRejected
	if approve {
		status = models.ReviewStatusApproved
	}

	if err := rs.store.SetReviewStatus(ctx, reviewID, status); err != nil {
		return err
	}

	average, count, err := rs.store.AggregateProductRating(ctx, review.ProductID)
	if err != nil {
		return err
	}
	return rs.store.UpdateProductRating(ctx, review.ProductID, average, count)
}

// ListByProduct retrieves approved reviews for a product
func (rs *ReviewService) ListByProduct(ctx context.Context, productID primitive.ObjectID, page, limit int) ([]models.Review, int64, error) {
	return rs.store.ListReviewsByProduct(ctx, productID, page, limit)
}

// ListPending retrieves reviews awaiting moderation
func (rs *ReviewService) ListPending(ctx context.Context, page, limit int) ([]models.Review, int64, error) {
	return rs.store.ListReviewsByStatus(ctx, models.ReviewStatusPending, page, limit)
}
