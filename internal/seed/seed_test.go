package seed

import (
	"context"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/models"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/repositories"
)

func TestDefaultSeedIsValid(t *testing.T) {
	f, err := Default()
	if err != nil {
		t.Fatalf("default seed: %v", err)
	}
	if len(f.Users) != 3 {
		t.Errorf("expected 3 users, got %d", len(f.Users))
	}
	if len(f.Assets) != 5 {
		t.Errorf("expected 5 assets, got %d", len(f.Assets))
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown owner",
			yaml: "users: [{key: a, name: A, email: a@example.com}]\nassets: [{owner: b, name: X, url: http://x}]",
			want: "unknown owner",
		},
		{
			name: "bad category",
			yaml: "users: [{key: a, name: A, email: a@example.com}]\nassets: [{owner: a, name: X, url: http://x, category: sculpture}]",
			want: "unknown category",
		},
		{
			name: "duplicate user key",
			yaml: "users: [{key: a, name: A, email: a@example.com}, {key: a, name: B, email: b@example.com}]",
			want: "duplicate key",
		},
		{
			name: "password over 72 bytes",
			yaml: "users: [{key: a, name: A, email: a@example.com, password: " + strings.Repeat("p", 80) + "}]",
			want: "at most 72 bytes",
		},
		{
			name: "short password",
			yaml: "users: [{key: a, name: A, email: a@example.com, password: abc}]",
			want: "at least 6 characters",
		},
		{
			name: "unknown field",
			yaml: "users: [{key: a, name: A, email: a@example.com, role: admin}]",
			want: "parse seed file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestApplySeedsStore(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	f, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	res, err := Apply(ctx, store, f, false)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if res.UsersCreated != 3 || res.AssetsCreated != 5 {
		t.Fatalf("unexpected result %+v", res)
	}

	user1, err := store.GetUserByEmail(ctx, "user1@example.com")
	if err != nil {
		t.Fatalf("user1 missing: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user1.Password), []byte("password123")) != nil {
		t.Errorf("seed password was not hashed correctly")
	}

	assets, _ := store.ListAssets(ctx)
	var owned int
	for _, a := range assets {
		if a.OwnerID == user1.ID {
			owned++
		}
		if a.Name == "Icon Set" && (a.Category != models.CategoryIcon || len(a.Tags) != 3) {
			t.Errorf("Icon Set stored incorrectly: %+v", a)
		}
	}
	if owned != 2 {
		t.Errorf("expected user1 to own 2 assets, got %d", owned)
	}
}

func TestApplyTwiceWithReset(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	f, _ := Default()

	if _, err := Apply(ctx, store, f, false); err != nil {
		t.Fatal(err)
	}
	res, err := Apply(ctx, store, f, true)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if res.UsersExisting != 3 || res.UsersCreated != 0 {
		t.Errorf("expected users to be reused, got %+v", res)
	}
	if res.AssetsRemoved != 5 {
		t.Errorf("expected 5 assets removed, got %d", res.AssetsRemoved)
	}
	if n, _ := store.CountAssets(ctx); n != 5 {
		t.Errorf("expected 5 assets after reset, got %d", n)
	}
}

func TestApplyTwiceWithoutResetKeepsAssets(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStore()
	f, _ := Default()

	if _, err := Apply(ctx, store, f, false); err != nil {
		t.Fatal(err)
	}
	res, err := Apply(ctx, store, f, false)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if res.AssetsCreated != 0 || res.AssetsSkipped != 5 {
		t.Errorf("expected every asset to be skipped, got %+v", res)
	}
	if n, _ := store.CountAssets(ctx); n != 5 {
		t.Errorf("expected 5 assets after two runs, got %d", n)
	}
}
