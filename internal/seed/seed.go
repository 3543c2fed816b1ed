// Package seed loads demo users and assets into a store.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gopkg.in/yaml.v3"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/api/services"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/models"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/repositories"
)

//go:embed seed.yaml
var defaultSeed []byte

type User struct {
	Key      string `yaml:"key"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type Asset struct {
	Owner       string   `yaml:"owner"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Image       string   `yaml:"image"`
	URL         string   `yaml:"url"`
	Category    string   `yaml:"category"`
	Format      string   `yaml:"format"`
	Size        *int64   `yaml:"size"`
	Tags        []string `yaml:"tags"`
}

type File struct {
	Users  []User  `yaml:"users"`
	Assets []Asset `yaml:"assets"`
}

type Result struct {
	UsersCreated  int
	UsersExisting int
	AssetsRemoved int
	AssetsCreated int
	AssetsSkipped int
}

// Default returns the built-in demo data set.
func Default() (File, error) {
	return Load(bytes.NewReader(defaultSeed))
}

// Load parses and validates a seed file.
func Load(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return File{}, fmt.Errorf("parse seed file: %w", err)
	}
	return f, f.validate()
}

func (f File) validate() error {
	keys := make(map[string]bool, len(f.Users))
	for i, u := range f.Users {
		if u.Key == "" || u.Email == "" || u.Name == "" {
			return fmt.Errorf("user %d: key, name and email are required", i)
		}
		if keys[u.Key] {
			return fmt.Errorf("user %d: duplicate key %q", i, u.Key)
		}
		keys[u.Key] = true
		if u.Password != "" {
			if err := services.CheckPassword(u.Password); err != nil {
				return fmt.Errorf("user %q: %w", u.Key, err)
			}
		}
	}
	for i, a := range f.Assets {
		if a.Name == "" || a.URL == "" {
			return fmt.Errorf("asset %d: name and url are required", i)
		}
		if !keys[a.Owner] {
			return fmt.Errorf("asset %q: unknown owner %q", a.Name, a.Owner)
		}
		if a.Category != "" && !models.Category(strings.ToLower(a.Category)).Valid() {
			return fmt.Errorf("asset %q: unknown category %q", a.Name, a.Category)
		}
		if a.Size != nil && *a.Size < 0 {
			return fmt.Errorf("asset %q: size cannot be negative", a.Name)
		}
	}
	return nil
}

// Apply creates missing users, optionally removes every existing asset, then inserts
// the seed assets owned by the resolved users. Assets already present with the same
// owner, name and url are skipped, so repeated runs do not duplicate them.
func Apply(ctx context.Context, store repositories.Store, f File, reset bool) (Result, error) {
	var res Result
	owners := make(map[string]uuid.UUID, len(f.Users))

	for _, u := range f.Users {
		existing, err := store.GetUserByEmail(ctx, u.Email)
		if err == nil {
			owners[u.Key] = existing.ID
			res.UsersExisting++
			continue
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return res, fmt.Errorf("look up %s: %w", u.Email, err)
		}

		user := models.User{Name: u.Name, Email: u.Email}
		if u.Password != "" {
			hashed, err := services.HashPassword(u.Password)
			if err != nil {
				return res, fmt.Errorf("user %s: %w", u.Email, err)
			}
			user.Password = hashed
		}
		if err := store.CreateUser(ctx, &user); err != nil {
			return res, fmt.Errorf("create user %s: %w", u.Email, err)
		}
		owners[u.Key] = user.ID
		res.UsersCreated++
	}

	existing, err := store.ListAssets(ctx)
	if err != nil {
		return res, fmt.Errorf("list assets: %w", err)
	}
	present := make(map[assetKey]bool, len(existing))
	for _, a := range existing {
		if !reset {
			present[assetKey{a.OwnerID, a.Name, a.URL}] = true
			continue
		}
		if err := store.DeleteAsset(ctx, a.ID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return res, fmt.Errorf("delete asset %s: %w", a.ID, err)
		}
		res.AssetsRemoved++
	}

	for _, a := range f.Assets {
		key := assetKey{owners[a.Owner], a.Name, a.URL}
		if present[key] {
			res.AssetsSkipped++
			continue
		}
		present[key] = true

		asset := models.Asset{
			OwnerID:     owners[a.Owner],
			Name:        a.Name,
			Description: a.Description,
			Image:       a.Image,
			URL:         a.URL,
			Category:    models.Category(strings.ToLower(a.Category)),
			Format:      a.Format,
			Size:        a.Size,
			Tags:        pq.StringArray(append([]string{}, a.Tags...)),
		}
		if err := store.CreateAsset(ctx, &asset); err != nil {
			return res, fmt.Errorf("create asset %q: %w", a.Name, err)
		}
		res.AssetsCreated++
	}
	return res, nil
}

type assetKey struct {
	owner     uuid.UUID
	name, url string
}
