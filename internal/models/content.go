package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Banner is admin-curated marketing content with a visibility window
type Banner struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Subtitle  string             `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	Image     Image              `bson:"image" json:"image"`
	LinkURL   string             `bson:"link_url,omitempty" json:"link_url,omitempty"`
	Position  int                `bson:"position" json:"position"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	StartsAt  *time.Time         `bson:"starts_at,omitempty" json:"starts_at,omitempty"`
	EndsAt    *time.Time         `bson:"ends_at,omitempty" json:"ends_at,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// VisibleAt reports whether the banner should be shown at t
func (b *Banner) VisibleAt(t time.Time) bool {
	if !b.IsActive {
		return false
	}
	if b.StartsAt != nil && t.Before(*b.StartsAt) {
		return false
	}
	if b.EndsAt != nil && t.After(*b.EndsAt) {
		return false
	}
	return true
}

// HomepageSection is an ordered block of curated products on the homepage
type HomepageSection struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Title      string               `bson:"title" json:"title"`
	Kind       string               `bson:"kind" json:"kind"`
	ProductIDs []primitive.ObjectID `bson:"product_ids,omitempty" json:"product_ids,omitempty"`
	Position   int                  `bson:"position" json:"position"`
	IsActive   bool                 `bson:"is_active" json:"is_active"`
	StartsAt   *time.Time           `bson:"starts_at,omitempty" json:"starts_at,omitempty"`
	EndsAt     *time.Time           `bson:"ends_at,omitempty" json:"ends_at,omitempty"`
	CreatedAt  time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time            `bson:"updated_at" json:"updated_at"`
}

// VisibleAt reports whether the section should be shown at t
func (s *HomepageSection) VisibleAt(t time.Time) bool {
	if !s.IsActive {
		return false
	}
	if s.StartsAt != nil && t.Before(*s.StartsAt) {
		return false
	}
	if s.EndsAt != nil && t.After(*s.EndsAt) {
		return false
	}
	return true
}
