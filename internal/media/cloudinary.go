package media

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"marketplace-service/internal/models"
	"marketplace-service/internal/util"
)

// Uploader stores images in Cloudinary. A nil Uploader (no CLOUDINARY_URL)
// leaves image fields untouched so the service still runs locally.
type Uploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewUploader creates an Uploader from a cloudinary:// URL
func NewUploader(cloudinaryURL, folder string) (*Uploader, error) {
	if cloudinaryURL == "" {
		return nil, nil
	}

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	return &Uploader{cld: cld, folder: folder}, nil
}

// Upload stores a base64 or remote image and returns the stored asset.
// Cloudinary accepts data URIs and http(s) URLs in the same parameter.
func (u *Uploader) Upload(ctx context.Context, file, subfolder string) (*models.Image, error) {
	if u == nil {
		return nil, nil
	}

	result, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: fmt.Sprintf("%s/%s", u.folder, subfolder),
	})
	if err != nil {
		util.MediaUploadsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("cloudinary upload failed: %w", err)
	}

	util.MediaUploadsTotal.WithLabelValues("ok").Inc()
	return &models.Image{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
	}, nil
}

// Destroy removes a stored asset
func (u *Uploader) Destroy(ctx context.Context, publicID string) error {
	if u == nil || publicID == "" {
		return nil
	}

	_, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy failed: %w", err)
	}
	return nil
}
