package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/models"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/repositories"
)

// AssetFields is a decoded JSON request body. Keys that are absent are left untouched
// on update; ownerId and id are never read from it.
type AssetFields map[string]any

type AssetService struct {
	Assets repositories.AssetRepository
}

func NewAssetService(assets repositories.AssetRepository) *AssetService {
	return &AssetService{Assets: assets}
}

func (s *AssetService) List(ctx context.Context) ([]models.Asset, error) {
	assets, err := s.Assets.ListAssets(ctx)
	if err != nil {
		return nil, internalError("Failed to list assets", err)
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	return assets, nil
}

func (s *AssetService) GetByID(ctx context.Context, rawID string) (models.Asset, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return models.Asset{}, notFoundError("Asset not found")
	}
	asset, err := s.Assets.GetAsset(ctx, id)
	if err != nil {
		return models.Asset{}, storeError(err, "Asset not found", "Failed to load asset")
	}
	return asset, nil
}

// Create persists a new asset owned by callerID.
func (s *AssetService) Create(ctx context.Context, callerID uuid.UUID, fields AssetFields) (models.Asset, error) {
	name, _, err := fields.text("name")
	if err != nil {
		return models.Asset{}, err
	}
	url, _, err := fields.text("url")
	if err != nil {
		return models.Asset{}, err
	}
	if strings.TrimSpace(name) == "" || strings.TrimSpace(url) == "" {
		return models.Asset{}, validationError("Missing required fields")
	}

	asset := models.Asset{OwnerID: callerID, Tags: pq.StringArray{}}
	if err := fields.apply(&asset); err != nil {
		return models.Asset{}, err
	}

	if err := s.Assets.CreateAsset(ctx, &asset); err != nil {
		return models.Asset{}, internalError("Failed to create asset", err)
	}
	return asset, nil
}

// Update overwrites the supplied fields of an asset the caller owns.
func (s *AssetService) Update(ctx context.Context, callerID uuid.UUID, rawID string, fields AssetFields) (models.Asset, error) {
	asset, err := s.owned(ctx, callerID, rawID)
	if err != nil {
		return models.Asset{}, err
	}

	for _, required := range []string{"name", "url"} {
		value, present, err := fields.text(required)
		if err != nil {
			return models.Asset{}, err
		}
		if present && strings.TrimSpace(value) == "" {
			return models.Asset{}, validationError(fmt.Sprintf("%s cannot be empty", required))
		}
	}
	if err := fields.apply(&asset); err != nil {
		return models.Asset{}, err
	}

	if err := s.Assets.SaveAsset(ctx, &asset); err != nil {
		return models.Asset{}, storeError(err, "Asset not found", "Failed to update asset")
	}
	return asset, nil
}

// Delete permanently removes an asset the caller owns.
func (s *AssetService) Delete(ctx context.Context, callerID uuid.UUID, rawID string) error {
	asset, err := s.owned(ctx, callerID, rawID)
	if err != nil {
		return err
	}
	if err := s.Assets.DeleteAsset(ctx, asset.ID); err != nil {
		return storeError(err, "Asset not found", "Failed to delete asset")
	}
	return nil
}

func (s *AssetService) owned(ctx context.Context, callerID uuid.UUID, rawID string) (models.Asset, error) {
	asset, err := s.GetByID(ctx, rawID)
	if err != nil {
		return models.Asset{}, err
	}
	if asset.OwnerID != callerID {
		return models.Asset{}, forbiddenError("You do not own this asset")
	}
	return asset, nil
}

// apply copies every present field onto asset after coercion.
func (f AssetFields) apply(asset *models.Asset) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"name", &asset.Name},
		{"description", &asset.Description},
		{"image", &asset.Image},
		{"url", &asset.URL},
		{"format", &asset.Format},
	}
	for _, field := range strs {
		value, present, err := f.text(field.key)
		if err != nil {
			return err
		}
		if present {
			*field.dst = value
		}
	}

	category, present, err := f.text("category")
	if err != nil {
		return err
	}
	if present {
		c := models.Category(strings.ToLower(strings.TrimSpace(category)))
		if c != "" && !c.Valid() {
			return validationError("Unknown category " + strconv.Quote(category))
		}
		asset.Category = c
	}

	if raw, ok := f["size"]; ok {
		size, err := CoerceSize(raw)
		if err != nil {
			return err
		}
		asset.Size = size
	}

	if raw, ok := f["tags"]; ok {
		tags, err := NormalizeTags(raw)
		if err != nil {
			return err
		}
		asset.Tags = tags
	}
	return nil
}

// text reads a string field. JSON null reads as an empty string.
func (f AssetFields) text(key string) (string, bool, error) {
	raw, ok := f[key]
	if !ok {
		return "", false, nil
	}
	switch v := raw.(type) {
	case nil:
		return "", true, nil
	case string:
		return v, true, nil
	default:
		return "", true, validationError(key + " must be a string")
	}
}

// NormalizeTags accepts a JSON list of strings or a comma-separated string.
// Entries are trimmed and empty entries dropped.
func NormalizeTags(raw any) (pq.StringArray, error) {
	tags := pq.StringArray{}
	add := func(t string) {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	switch v := raw.(type) {
	case nil:
	case string:
		for _, part := range strings.Split(v, ",") {
			add(part)
		}
	case []string:
		for _, t := range v {
			add(t)
		}
	case []any:
		for _, item := range v {
			t, ok := item.(string)
			if !ok {
				return nil, validationError("tags must be strings")
			}
			add(t)
		}
	default:
		return nil, validationError("tags must be a list or a comma-separated string")
	}
	return tags, nil
}

// CoerceSize turns a JSON number or numeric string into a byte count.
// Null, empty and zero all mean "unknown" and yield nil.
func CoerceSize(raw any) (*int64, error) {
	var n float64
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case float64:
		n = v
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return sizePtr(i)
		}
		f, err := v.Float64()
		if err != nil {
			return nil, validationError("size must be a number")
		}
		n = f
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, validationError("size must be a number")
		}
		n = f
	default:
		return nil, validationError("size must be a number")
	}

	if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
		return nil, validationError("size must be a whole number of bytes")
	}
	if n < 0 {
		return nil, validationError("size cannot be negative")
	}
	if n >= math.MaxInt64 {
		return nil, validationError("size is too large")
	}
	return sizePtr(int64(n))
}

func sizePtr(n int64) (*int64, error) {
	if n == 0 {
		return nil, nil
	}
	if n < 0 {
		return nil, validationError("size cannot be negative")
	}
	return &n, nil
}
