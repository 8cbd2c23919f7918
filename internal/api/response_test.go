package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := newPagination(1, 20, 45)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, int64(45), p.Total)
	assert.Equal(t, 3, p.TotalPages)

	p = newPagination(2, 20, 40)
	assert.Equal(t, 2, p.TotalPages)

	p = newPagination(1, 20, 0)
	assert.Equal(t, 0, p.TotalPages)

	// Bad inputs fall back to defaults
	p = newPagination(0, 0, 10)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
}
