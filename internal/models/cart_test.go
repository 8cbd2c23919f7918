package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCartFindItem(t *testing.T) {
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	cart := &Cart{Items: []CartItem{
		{ProductID: first, Quantity: 1},
		{ProductID: second, Quantity: 2},
	}}

	assert.Equal(t, 0, cart.FindItem(first))
	assert.Equal(t, 1, cart.FindItem(second))
	assert.Equal(t, -1, cart.FindItem(primitive.NewObjectID()))

	empty := &Cart{}
	assert.Equal(t, -1, empty.FindItem(first))
}
