package services

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/models"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/repositories"
)

type fakeStorage struct {
	uploadFn  func(ctx context.Context, ownerID string, file models.ObjectInput) (models.StoredObject, error)
	presignFn func(ctx context.Context, ownerID, filename string) (models.PresignedUpload, error)
}

func (f fakeStorage) Upload(ctx context.Context, ownerID string, file models.ObjectInput) (models.StoredObject, error) {
	return f.uploadFn(ctx, ownerID, file)
}

func (f fakeStorage) PresignUpload(ctx context.Context, ownerID, filename string) (models.PresignedUpload, error) {
	return f.presignFn(ctx, ownerID, filename)
}

func input(name string) *models.ObjectInput {
	return &models.ObjectInput{Filename: name, Body: strings.NewReader("data")}
}

func TestUploadPair(t *testing.T) {
	var calls int32
	owner := uuid.New()
	svc := NewUploadService(fakeStorage{
		uploadFn: func(ctx context.Context, ownerID string, file models.ObjectInput) (models.StoredObject, error) {
			atomic.AddInt32(&calls, 1)
			if ownerID != owner.String() {
				t.Errorf("expected owner %s, got %s", owner, ownerID)
			}
			return models.StoredObject{FileKey: file.Filename, PublicURL: "https://cdn/" + file.Filename}, nil
		},
	})

	res, err := svc.UploadPair(context.Background(), owner, input("preview.png"), input("chair.glb"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 uploads, got %d", calls)
	}
	if res.Image.FileKey != "preview.png" || res.File.FileKey != "chair.glb" {
		t.Fatalf("results swapped or missing: %+v", res)
	}

	res, err = svc.UploadPair(context.Background(), owner, nil, input("chair.glb"))
	if err != nil || res.Image != nil || res.File == nil {
		t.Fatalf("expected only the file result, got %+v, %v", res, err)
	}
}

func TestUploadPairErrors(t *testing.T) {
	failing := func(err error) ObjectStorage {
		return fakeStorage{uploadFn: func(ctx context.Context, ownerID string, file models.ObjectInput) (models.StoredObject, error) {
			return models.StoredObject{}, err
		}}
	}

	tests := []struct {
		name    string
		storage ObjectStorage
		image   *models.ObjectInput
		file    *models.ObjectInput
		kind    Kind
	}{
		{"no files", failing(nil), nil, nil, KindValidation},
		{"disallowed type", failing(nil), nil, input("run.exe"), KindValidation},
		{"existing key", failing(repositories.ErrObjectExists), nil, input("a.zip"), KindConflict},
		{"storage down", failing(errors.New("timeout")), input("a.png"), input("a.zip"), KindInternal},
		{"not configured", nil, nil, input("a.zip"), KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUploadService(tt.storage).UploadPair(context.Background(), uuid.New(), tt.image, tt.file)
			if KindOf(err) != tt.kind {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestPresign(t *testing.T) {
	svc := NewUploadService(fakeStorage{
		presignFn: func(ctx context.Context, ownerID, filename string) (models.PresignedUpload, error) {
			if _, err := repositories.FileExtension(filename); err != nil {
				return models.PresignedUpload{}, err
			}
			return models.PresignedUpload{FileKey: ownerID + "_1.glb", UploadURL: "https://signed"}, nil
		},
	})

	if _, err := svc.Presign(context.Background(), uuid.New(), "model.glb"); err != nil {
		t.Fatalf("presign: %v", err)
	}
	if _, err := svc.Presign(context.Background(), uuid.New(), "notes.txt"); KindOf(err) != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.Presign(context.Background(), uuid.New(), ""); KindOf(err) != KindValidation {
		t.Fatalf("expected validation error for empty name, got %v", err)
	}
}
