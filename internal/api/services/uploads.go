package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/models"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/repositories"
)

// ObjectStorage is the external object-storage collaborator.
type ObjectStorage interface {
	Upload(ctx context.Context, ownerID string, file models.ObjectInput) (models.StoredObject, error)
	PresignUpload(ctx context.Context, ownerID, filename string) (models.PresignedUpload, error)
}

type UploadService struct {
	Storage ObjectStorage
}

func NewUploadService(storage ObjectStorage) *UploadService {
	return &UploadService{Storage: storage}
}

// UploadResult holds the stored preview image and asset file of one submission.
type UploadResult struct {
	Image *models.StoredObject `json:"image,omitempty"`
	File  *models.StoredObject `json:"file,omitempty"`
}

// UploadPair uploads the preview image and the asset file concurrently. Either may be nil.
// The first failure cancels the other upload.
func (s *UploadService) UploadPair(ctx context.Context, callerID uuid.UUID, image, file *models.ObjectInput) (UploadResult, error) {
	if s.Storage == nil {
		return UploadResult{}, &Error{Kind: KindInternal, Message: "Object storage is not configured"}
	}
	if image == nil && file == nil {
		return UploadResult{}, validationError("No files provided")
	}
	for _, f := range []*models.ObjectInput{image, file} {
		if f == nil {
			continue
		}
		if _, err := repositories.FileExtension(f.Filename); err != nil {
			return UploadResult{}, validationError("File type not allowed")
		}
	}

	var result UploadResult
	g, gctx := errgroup.WithContext(ctx)
	upload := func(in *models.ObjectInput, dst **models.StoredObject) {
		if in == nil {
			return
		}
		g.Go(func() error {
			obj, err := s.Storage.Upload(gctx, callerID.String(), *in)
			if err != nil {
				return err
			}
			*dst = &obj
			return nil
		})
	}
	upload(image, &result.Image)
	upload(file, &result.File)

	if err := g.Wait(); err != nil {
		return UploadResult{}, uploadError(err)
	}
	return result, nil
}

func (s *UploadService) Presign(ctx context.Context, callerID uuid.UUID, filename string) (models.PresignedUpload, error) {
	if s.Storage == nil {
		return models.PresignedUpload{}, &Error{Kind: KindInternal, Message: "Object storage is not configured"}
	}
	if filename == "" {
		return models.PresignedUpload{}, validationError("filename is required")
	}
	p, err := s.Storage.PresignUpload(ctx, callerID.String(), filename)
	if err != nil {
		return models.PresignedUpload{}, uploadError(err)
	}
	return p, nil
}

func uploadError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrFileTypeNotAllowed):
		return validationError("File type not allowed")
	case errors.Is(err, repositories.ErrObjectExists):
		return conflictError("A file with this key already exists", err)
	default:
		return internalError("Upload failed", err)
	}
}
