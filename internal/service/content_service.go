package service

import (
	"context"
	"time"

	"marketplace-service/internal/media"
	"marketplace-service/internal/models"
	"marketplace-service/internal/store"
	"marketplace-service/internal/util"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ContentService manages admin-curated banners and homepage sections
type ContentService struct {
	store    *store.Store
	uploader *media.Uploader
	logger   *zap.Logger
}

// NewContentService creates a new content service
func NewContentService(st *store.Store, uploader *media.Uploader) *ContentService {
	return &ContentService{
		store:    st,
		uploader: uploader,
		logger:   util.GetLogger(),
	}
}

// BannerInput carries banner create/update fields
type BannerInput struct {
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle,omitempty"`
	LinkURL     string     `json:"link_url,omitempty"`
	Position    int        `json:"position"`
	IsActive    *bool      `json:"is_active,omitempty"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	ImageBase64 string     `json:"image,omitempty"`
}

// CreateBanner stores a banner, uploading its image when one is provided
func (cs *ContentService) CreateBanner(ctx context.Context, input *BannerInput) (*models.Banner, error) {
	ctx, span := util.StartSpan(ctx, "ContentService.CreateBanner")
	defer span.End()

	banner := &models.Banner{
		Title:    input.Title,
		Subtitle: input.Subtitle,
		LinkURL:  input.LinkURL,
		Position: input.Position,
		IsActive: true,
		StartsAt: input.StartsAt,
		EndsAt:   input.EndsAt,
	}
	if input.IsActive != nil {
		banner.IsActive = *input.IsActive
	}

	if input.ImageBase64 != "" {
		img, err := cs.uploader.Upload(ctx, input.ImageBase64, "banners")
		if err != nil {
			return nil, err
		}
		if img != nil {
			banner.Image = *img
		}
	}

	if err := cs.store.CreateBanner(ctx, banner); err != nil {
		return nil, err
	}

	cs.logger.Info("Banner created", zap.String("banner_id", banner.ID.Hex()))
	return banner, nil
}

// UpdateBanner applies a partial update, replacing the image when a new one is sent
func (cs *ContentService) UpdateBanner(ctx context.Context, id primitive.ObjectID, input *BannerInput) (*models.Banner, error) {
	existing, err := cs.store.GetBannerByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := bson.M{}
	if input.Title != "" {
		fields["title"] = input.Title
	}
	if input.Subtitle != "" {
		fields["subtitle"] = input.Subtitle
	}
	if input.LinkURL != "" {
		fields["link_url"] = input.LinkURL
	}
	if input.Position != 0 {
		fields["position"] = input.Position
	}
	if input.IsActive != nil {
		fields["is_active"] = *input.IsActive
	}
	if input.StartsAt != nil {
		fields["starts_at"] = input.StartsAt
	}
	if input.EndsAt != nil {
		fields["ends_at"] = input.EndsAt
	}

	if input.ImageBase64 != "" {
		img, err := cs.uploader.Upload(ctx, input.ImageBase64, "banners")
		if err != nil {
			return nil, err
		}
		if img != nil {
			fields["image"] = img
			if err := cs.uploader.Destroy(ctx, existing.Image.PublicID); err != nil {
				cs.logger.Warn("Failed to destroy replaced banner image",
					zap.String("public_id", existing.Image.PublicID), zap.Error(err))
			}
		}
	}

	if len(fields) > 0 {
		if err := cs.store.UpdateBannerFields(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return cs.store.GetBannerByID(ctx, id)
}

// DeleteBanner removes a banner and its stored image
func (cs *ContentService) DeleteBanner(ctx context.Context, id primitive.ObjectID) error {
	banner, err := cs.store.GetBannerByID(ctx, id)
	if err != nil {
		return err
	}
	if err := cs.store.DeleteBanner(ctx, id); err != nil {
		return err
	}
	if err := cs.uploader.Destroy(ctx, banner.Image.PublicID); err != nil {
		cs.logger.Warn("Failed to destroy banner image",
			zap.String("public_id", banner.Image.PublicID), zap.Error(err))
	}
	return nil
}

// ListBanners returns banners ordered by position. Public callers see only
// banners inside their visibility window.
func (cs *ContentService) ListBanners(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	return cs.store.ListBanners(ctx, activeOnly)
}

// SectionInput carries homepage section create/update fields
type SectionInput struct {
	Title      string     `json:"title"`
	Kind       string     `json:"kind"`
	ProductIDs []string   `json:"product_ids,omitempty"`
	Position   int        `json:"position"`
	IsActive   *bool      `json:"is_active,omitempty"`
	StartsAt   *time.Time `json:"starts_at,omitempty"`
	EndsAt     *time.Time `json:"ends_at,omitempty"`
}

// CreateSection stores a homepage section
func (cs *ContentService) CreateSection(ctx context.Context, input *SectionInput) (*models.HomepageSection, error) {
	productIDs, err := parseObjectIDs(input.ProductIDs)
	if err != nil {
		return nil, err
	}

	section := &models.HomepageSection{
		Title:      input.Title,
		Kind:       input.Kind,
		ProductIDs: productIDs,
		Position:   input.Position,
		IsActive:   true,
		StartsAt:   input.StartsAt,
		EndsAt:     input.EndsAt,
	}
	if input.IsActive != nil {
		section.IsActive = *input.IsActive
	}

	if err := cs.store.CreateHomepageSection(ctx, section); err != nil {
		return nil, err
	}

	cs.logger.Info("Homepage section created",
		zap.String("section_id", section.ID.Hex()),
		zap.String("kind", section.Kind))
	return section, nil
}

// UpdateSection applies a partial update to a section
func (cs *ContentService) UpdateSection(ctx context.Context, id primitive.ObjectID, input *SectionInput) error {
	fields := bson.M{}
	if input.Title != "" {
		fields["title"] = input.Title
	}
	if input.Kind != "" {
		fields["kind"] = input.Kind
	}
	if input.ProductIDs != nil {
		productIDs, err := parseObjectIDs(input.ProductIDs)
		if err != nil {
			return err
		}
		fields["product_ids"] = productIDs
	}
	if input.Position != 0 {
		fields["position"] = input.Position
	}
	if input.IsActive != nil {
		fields["is_active"] = *input.IsActive
	}
	if input.StartsAt != nil {
		fields["starts_at"] = input.StartsAt
	}
	if input.EndsAt != nil {
		fields["ends_at"] = input.EndsAt
	}

	if len(fields) == 0 {
		return nil
	}
	return cs.store.UpdateHomepageSectionFields(ctx, id, fields)
}

// DeleteSection removes a section
func (cs *ContentService) DeleteSection(ctx context.Context, id primitive.ObjectID) error {
	return cs.store.DeleteHomepageSection(ctx, id)
}

// ListSections returns sections ordered by position
func (cs *ContentService) ListSections(ctx context.Context, activeOnly bool) ([]models.HomepageSection, error) {
	return cs.store.ListHomepageSections(ctx, activeOnly)
}

// ResolveSections loads visible sections with their curated products attached
func (cs *ContentService) ResolveSections(ctx context.Context) ([]ResolvedSection, error) {
	sections, err := cs.store.ListHomepageSections(ctx, true)
	if err != nil {
		return nil, err
	}

	resolved := make([]ResolvedSection, 0, len(sections))
	for _, section := range sections {
		products, err := cs.store.GetProductsByIDs(ctx, section.ProductIDs)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, ResolvedSection{Section: section, Products: products})
	}
	return resolved, nil
}

// ResolvedSection pairs a section with its loaded products
type ResolvedSection struct {
	Section  models.HomepageSection `json:"section"`
	Products []models.Product       `json:"products"`
}

func parseObjectIDs(hexIDs []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexIDs))
	for _, h := range hexIDs {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
