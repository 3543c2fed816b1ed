package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/config"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/models"
)

var AllowedExtensions = []string{"glb", "gltf", "fbx", "obj", "png", "jpg", "jpeg", "webp", "hdr", "exr", "zip"}

var (
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrObjectExists       = errors.New("object already exists")
)

const presignExpiry = 15 * time.Minute

// FileExtension returns the lower-cased extension of name if it is on the allow-list.
func FileExtension(name string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if ext == "" {
		return "", ErrFileTypeNotAllowed
	}
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return ext, nil
		}
	}
	return "", ErrFileTypeNotAllowed
}

// ObjectKey builds the storage key {ownerId}_{unixMillis}.{ext}.
func ObjectKey(ownerID, ext string, at time.Time) string {
	return fmt.Sprintf("%s_%d.%s", ownerID, at.UnixMilli(), ext)
}

type R2Storage struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucket     string
	publicBase string
	now        func() time.Time

	mu         sync.Mutex
	lastMillis int64
}

// NewR2Storage builds an S3 client against the R2 (or custom) endpoint using static credentials.
func NewR2Storage(cfg config.R2Config) (*R2Storage, error) {
	if !cfg.Enabled() {
		return nil, errors.New("object storage is not configured")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}

	awsCfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Region:      cfg.Region,
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	publicBase := cfg.PublicBaseURL
	if publicBase == "" {
		publicBase = endpoint + "/" + cfg.BucketName
	}

	log.Println("Successfully initialized R2 client")
	return &R2Storage{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucket:     cfg.BucketName,
		publicBase: strings.TrimRight(publicBase, "/"),
		now:        time.Now,
	}, nil
}

// stamp returns a key timestamp strictly later than any it returned before.
func (s *R2Storage) stamp() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := s.now().UnixMilli()
	if ms <= s.lastMillis {
		ms = s.lastMillis + 1
	}
	s.lastMillis = ms
	return time.UnixMilli(ms)
}

func (s *R2Storage) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

// Upload stores the file under a fresh key. Existing keys are never overwritten.
func (s *R2Storage) Upload(ctx context.Context, ownerID string, file models.ObjectInput) (models.StoredObject, error) {
	ext, err := FileExtension(file.Filename)
	if err != nil {
		return models.StoredObject{}, err
	}
	key := ObjectKey(ownerID, ext, s.stamp())

	exists, err := s.objectExists(ctx, key)
	if err != nil {
		return models.StoredObject{}, fmt.Errorf("check object %s: %w", key, err)
	}
	if exists {
		return models.StoredObject{}, ErrObjectExists
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file.Body,
		IfNoneMatch: aws.String("*"),
	}
	if file.ContentType != "" {
		input.ContentType = aws.String(file.ContentType)
	}
	if file.Size > 0 {
		input.ContentLength = aws.Int64(file.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return models.StoredObject{}, ErrObjectExists
		}
		return models.StoredObject{}, fmt.Errorf("put object %s: %w", key, err)
	}

	return models.StoredObject{FileKey: key, PublicURL: s.PublicURL(key)}, nil
}

// PresignUpload returns a presigned PUT URL so a client can upload directly to the bucket.
func (s *R2Storage) PresignUpload(ctx context.Context, ownerID, filename string) (models.PresignedUpload, error) {
	ext, err := FileExtension(filename)
	if err != nil {
		return models.PresignedUpload{}, err
	}
	now := s.now()
	key := ObjectKey(ownerID, ext, s.stamp())

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		IfNoneMatch: aws.String("*"),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return models.PresignedUpload{}, fmt.Errorf("presign %s: %w", key, err)
	}

	return models.PresignedUpload{
		FileKey:   key,
		UploadURL: req.URL,
		PublicURL: s.PublicURL(key),
		ExpiresAt: now.Add(presignExpiry),
	}, nil
}

// objectExists reports whether key is already present in the bucket.
func (s *R2Storage) objectExists(ctx context.Context, key string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *s3types.NotFound
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
