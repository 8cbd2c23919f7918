package store

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace-service/internal/models"
)

// Catalog sort modes
const (
	SortDistance  = "distance"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
	SortRating    = "rating"
)

// ProductQuery is the assembled catalog query
type ProductQuery struct {
	Lat       float64
	Lng       float64
	HasCoords bool
	RadiusKm  float64
	OwnerIDs  []primitive.ObjectID
	Category  string
	Search    string
	MinPrice  int64
	MaxPrice  int64
	Delivery  string
	Sort      string
	Page      int
	Limit     int
}

func (q *ProductQuery) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 20
	}
}

// buildProductFilter assembles the match filter shared by find and aggregation paths.
// The $near clause is only usable on the find path; the pipeline uses $geoNear instead.
func buildProductFilter(q ProductQuery, includeNear bool) bson.M {
	filter := bson.M{"status": models.ProductStatusActive}

	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Search != "" {
		filter["name"] = bson.M{"$regex": q.Search, "$options": "i"}
	}
	if len(q.OwnerIDs) > 0 {
		filter["owner_id"] = bson.M{"$in": q.OwnerIDs}
	}
	if q.MinPrice > 0 || q.MaxPrice > 0 {
		price := bson.M{}
		if q.MinPrice > 0 {
			price["$gte"] = q.MinPrice
		}
		if q.MaxPrice > 0 {
			price["$lte"] = q.MaxPrice
		}
		filter["price"] = price
	}
	switch q.Delivery {
	case "instant":
		filter["delivery.instant"] = true
	case "next_day":
		filter["delivery.next_day"] = true
	case "standard":
		filter["delivery.standard"] = true
	}

	if includeNear && q.HasCoords {
		near := bson.M{
			"$geometry": bson.M{
				"type":        "Point",
				"coordinates": []float64{q.Lng, q.Lat},
			},
		}
		if q.RadiusKm > 0 {
			near["$maxDistance"] = q.RadiusKm * 1000
		}
		filter["location"] = bson.M{"$near": near}
	}

	return filter
}

const earthRadiusKm = 6378.1

// buildCountFilter mirrors buildProductFilter with the radius expressed as
// $geoWithin, which CountDocuments accepts where $near is rejected.
// $centerSphere takes its radius in radians.
func buildCountFilter(q ProductQuery) bson.M {
	filter := buildProductFilter(q, false)
	if q.HasCoords && q.RadiusKm > 0 {
		filter["location"] = bson.M{"$geoWithin": bson.M{
			"$centerSphere": []interface{}{
				[]float64{q.Lng, q.Lat},
				q.RadiusKm / earthRadiusKm,
			},
		}}
	}
	return filter
}

// buildGeoPipeline assembles the $geoNear aggregation used when sorting by distance.
// $geoNear must be the first stage, so the match filter rides in its query field.
func buildGeoPipeline(q ProductQuery) mongo.Pipeline {
	geoNear := bson.M{
		"near": bson.M{
			"type":        "Point",
			"coordinates": []float64{q.Lng, q.Lat},
		},
		"distanceField": "distance_meters",
		"spherical":     true,
		"query":         buildProductFilter(q, false),
	}
	if q.RadiusKm > 0 {
		geoNear["maxDistance"] = q.RadiusKm * 1000
	}

	return mongo.Pipeline{
		bson.D{{Key: "$geoNear", Value: geoNear}},
		bson.D{{Key: "$skip", Value: int64((q.Page - 1) * q.Limit)}},
		bson.D{{Key: "$limit", Value: int64(q.Limit)}},
	}
}

func sortForMode(mode string) bson.D {
	switch mode {
	case SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}}
	case SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}}
	case SortRating:
		return bson.D{{Key: "ratings.average", Value: -1}, {Key: "ratings.count", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

func pageOptions(page, limit int, sort bson.D) *options.FindOptions {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(sort)
}
