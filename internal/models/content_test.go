package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBannerVisibleAt(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	earlier := now.Add(-48 * time.Hour)
	later := now.Add(48 * time.Hour)

	// No window means always visible while active
	b := &Banner{IsActive: true}
	assert.True(t, b.VisibleAt(now))

	b = &Banner{IsActive: false}
	assert.False(t, b.VisibleAt(now))

	b = &Banner{IsActive: true, StartsAt: &earlier, EndsAt: &later}
	assert.True(t, b.VisibleAt(now))

	b = &Banner{IsActive: true, StartsAt: &later}
	assert.False(t, b.VisibleAt(now))

	b = &Banner{IsActive: true, EndsAt: &earlier}
	assert.False(t, b.VisibleAt(now))

	// Boundary instants are inclusive
	b = &Banner{IsActive: true, StartsAt: &now, EndsAt: &now}
	assert.True(t, b.VisibleAt(now))
}

func TestHomepageSectionVisibleAt(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	s := &HomepageSection{IsActive: true, StartsAt: &past}
	assert.True(t, s.VisibleAt(now))

	s = &HomepageSection{IsActive: true, EndsAt: &past}
	assert.False(t, s.VisibleAt(now))

	s = &HomepageSection{IsActive: false, StartsAt: &past}
	assert.False(t, s.VisibleAt(now))
}
