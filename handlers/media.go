package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"campusfeed/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gabriel-vasile/mimetype"
)

// MediaUploader stores an uploaded file and returns its public URL.
type MediaUploader interface {
	Upload(ctx context.Context, r io.Reader, publicID string) (string, error)
}

type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(url string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, r io.Reader, publicID string) (string, error) {
	res, err := u.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       "campusfeed/posts",
		PublicID:     publicID,
		ResourceType: "auto",
	})
	if err != nil {
		return "", err
	}
	return res.SecureURL, nil
}

// detectMediaKind sniffs the upload's real content and maps it to the
// image/video kinds the feed accepts. The reader is rewound so the file
// can still be uploaded afterwards.
func detectMediaKind(f multipart.File) (models.MediaType, error) {
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	switch {
	case strings.HasPrefix(mt.String(), "image/"):
		return models.MediaImage, nil
	case strings.HasPrefix(mt.String(), "video/"):
		return models.MediaVideo, nil
	}
	return "", fmt.Errorf("unsupported media type %s", mt)
}
