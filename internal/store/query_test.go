package store

import (
	"testing"

	"marketplace-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildProductFilterDefaults(t *testing.T) {
	filter := buildProductFilter(ProductQuery{}, false)

	// Only active products ever match
	assert.Equal(t, models.ProductStatusActive, filter["status"])
	assert.NotContains(t, filter, "category")
	assert.NotContains(t, filter, "price")
	assert.NotContains(t, filter, "location")
}

func TestBuildProductFilterFields(t *testing.T) {
	owner := primitive.NewObjectID()
	q := ProductQuery{
		Category: "groceries",
		Search:   "mango",
		OwnerIDs: []primitive.ObjectID{owner},
		MinPrice: 100,
		MaxPrice: 5000,
		Delivery: "instant",
	}

	filter := buildProductFilter(q, false)

	assert.Equal(t, "groceries", filter["category"])
	assert.Equal(t, bson.M{"$regex": "mango", "$options": "i"}, filter["name"])
	assert.Equal(t, bson.M{"$in": []primitive.ObjectID{owner}}, filter["owner_id"])
	assert.Equal(t, bson.M{"$gte": int64(100), "$lte": int64(5000)}, filter["price"])
	assert.Equal(t, true, filter["delivery.instant"])
}

func TestBuildProductFilterNear(t *testing.T) {
	q := ProductQuery{Lat: 12.9716, Lng: 77.5946, HasCoords: true, RadiusKm: 5}

	filter := buildProductFilter(q, true)

	location, ok := filter["location"].(bson.M)
	require.True(t, ok)
	near, ok := location["$near"].(bson.M)
	require.True(t, ok)

	geometry := near["$geometry"].(bson.M)
	// GeoJSON stores longitude first
	assert.Equal(t, []float64{77.5946, 12.9716}, geometry["coordinates"])
	assert.Equal(t, float64(5000), near["$maxDistance"])

	// The aggregation path must not carry $near, $geoNear supplies it
	filter = buildProductFilter(q, false)
	assert.NotContains(t, filter, "location")
}

func TestBuildCountFilter(t *testing.T) {
	q := ProductQuery{Lat: 12.9716, Lng: 77.5946, HasCoords: true, RadiusKm: 10, Category: "groceries"}

	filter := buildCountFilter(q)

	// The radius stays in the count so total matches the bounded result set
	location, ok := filter["location"].(bson.M)
	require.True(t, ok)
	within, ok := location["$geoWithin"].(bson.M)
	require.True(t, ok)

	centerSphere := within["$centerSphere"].([]interface{})
	require.Len(t, centerSphere, 2)
	assert.Equal(t, []float64{77.5946, 12.9716}, centerSphere[0])
	assert.InDelta(t, 10/6378.1, centerSphere[1].(float64), 1e-9)

	assert.Equal(t, "groceries", filter["category"])

	// Without coordinates the count filter is the plain match filter
	filter = buildCountFilter(ProductQuery{Category: "groceries"})
	assert.NotContains(t, filter, "location")
}

func TestBuildGeoPipeline(t *testing.T) {
	q := ProductQuery{Lat: 12.9716, Lng: 77.5946, HasCoords: true, RadiusKm: 10, Page: 2, Limit: 20}
	q.normalize()

	pipeline := buildGeoPipeline(q)
	require.Len(t, pipeline, 3)

	geoNearStage := pipeline[0]
	assert.Equal(t, "$geoNear", geoNearStage[0].Key)

	geoNear := geoNearStage[0].Value.(bson.M)
	assert.Equal(t, "distance_meters", geoNear["distanceField"])
	assert.Equal(t, true, geoNear["spherical"])
	assert.Equal(t, float64(10000), geoNear["maxDistance"])

	// Match conditions ride inside $geoNear since it must be the first stage
	query := geoNear["query"].(bson.M)
	assert.Equal(t, models.ProductStatusActive, query["status"])
	assert.NotContains(t, query, "location")

	assert.Equal(t, "$skip", pipeline[1][0].Key)
	assert.Equal(t, int64(20), pipeline[1][0].Value)
	assert.Equal(t, "$limit", pipeline[2][0].Key)
	assert.Equal(t, int64(20), pipeline[2][0].Value)
}

func TestSortForMode(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "price", Value: 1}}, sortForMode(SortPriceAsc))
	assert.Equal(t, bson.D{{Key: "price", Value: -1}}, sortForMode(SortPriceDesc))
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}}, sortForMode(SortNewest))
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}}, sortForMode(""))

	rating := sortForMode(SortRating)
	assert.Equal(t, "ratings.average", rating[0].Key)
}

func TestQueryNormalize(t *testing.T) {
	q := ProductQuery{Page: 0, Limit: 0}
	q.normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 20, q.Limit)

	q = ProductQuery{Page: 3, Limit: 500}
	q.normalize()
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 20, q.Limit)
}
