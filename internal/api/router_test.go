package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/api/handlers"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/api/services"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/config"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/models"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/repositories"
)

type fakeStorage struct {
	uploadFn func(ctx context.Context, ownerID string, file models.ObjectInput) (models.StoredObject, error)
}

func (f fakeStorage) Upload(ctx context.Context, ownerID string, file models.ObjectInput) (models.StoredObject, error) {
	if f.uploadFn == nil {
		return models.StoredObject{FileKey: ownerID + "_" + file.Filename, PublicURL: "https://cdn/" + file.Filename}, nil
	}
	return f.uploadFn(ctx, ownerID, file)
}

func (f fakeStorage) PresignUpload(ctx context.Context, ownerID, filename string) (models.PresignedUpload, error) {
	if _, err := repositories.FileExtension(filename); err != nil {
		return models.PresignedUpload{}, err
	}
	return models.PresignedUpload{FileKey: ownerID + "_1." + filename, UploadURL: "https://signed"}, nil
}

type testEnv struct {
	handler http.Handler
	store   *repositories.MemoryStore
}

func newEnv(t *testing.T, mutate func(*Dependencies)) testEnv {
	t.Helper()
	store := repositories.NewMemoryStore()
	cfg := config.Config{
		JWTSecret:   "router-secret",
		TokenTTL:    time.Hour,
		FrontendURL: "http://frontend.test",
		CorsConfig:  config.CorsConfig([]string{"http://frontend.test"}),
	}
	deps := Dependencies{
		Store:   store,
		Tokens:  services.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		Storage: fakeStorage{},
		Config:  cfg,
	}
	if mutate != nil {
		mutate(&deps)
	}
	return testEnv{handler: SetupRouter(deps), store: store}
}

func (e testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		buf, _ := json.Marshal(b)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	e.handler.ServeHTTP(resp, req)
	return resp
}

func (e testEnv) register(t *testing.T, name, email string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{"name": name, "email": email, "password": "secret1"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var out struct{ Token string }
	_ = json.Unmarshal(resp.Body.Bytes(), &out)
	return out.Token
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(resp.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", resp.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	env := newEnv(t, nil)
	resp := env.do(t, http.MethodGet, "/health", "", nil)
	if resp.Code != http.StatusOK || resp.Body.String() != "OK" {
		t.Fatalf("expected 200 OK, got %d %q", resp.Code, resp.Body.String())
	}
}

func TestRegisterAndLoginStatuses(t *testing.T) {
	env := newEnv(t, nil)

	tests := []struct {
		name   string
		path   string
		body   any
		status int
		msg    string
	}{
		{"short password", "/api/auth/register", map[string]string{"name": "A", "email": "a@example.com", "password": "123"}, http.StatusBadRequest, "Password must be at least 6 characters long"},
		{"password over 72 bytes", "/api/auth/register", map[string]string{"name": "A", "email": "a@example.com", "password": strings.Repeat("p", 80)}, http.StatusBadRequest, "Password must be at most 72 bytes"},
		{"malformed body", "/api/auth/register", "{", http.StatusBadRequest, "Invalid input"},
		{"unknown field", "/api/auth/register", map[string]string{"name": "A", "email": "a@example.com", "password": "secret1", "role": "admin"}, http.StatusBadRequest, "Invalid input"},
		{"register", "/api/auth/register", map[string]string{"name": "A", "email": "a@example.com", "password": "secret1"}, http.StatusCreated, ""},
		{"duplicate", "/api/auth/register", map[string]string{"name": "B", "email": "a@example.com", "password": "secret1"}, http.StatusConflict, "User already exists with this email"},
		{"wrong password", "/api/auth/login", map[string]string{"email": "a@example.com", "password": "nope123"}, http.StatusUnauthorized, "Invalid credentials"},
		{"login", "/api/auth/login", map[string]string{"email": "a@example.com", "password": "secret1"}, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, tt.path, "", tt.body)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d: %s", tt.status, resp.Code, resp.Body.String())
			}
			if tt.msg != "" {
				if got := decode[map[string]string](t, resp)["message"]; got != tt.msg {
					t.Fatalf("expected message %q, got %q", tt.msg, got)
				}
			}
		})
	}

	users, _ := env.store.ListUsers(context.Background())
	if len(users) != 1 {
		t.Fatalf("expected one stored user, got %d", len(users))
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newEnv(t, nil)
	for _, path := range []string{"/api/users/me", "/api/users", "/api/assets"} {
		resp := env.do(t, http.MethodGet, path, "", nil)
		if resp.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected status 401, got %d", path, resp.Code)
		}
		resp = env.do(t, http.MethodGet, path, "garbage", nil)
		if resp.Code != http.StatusUnauthorized {
			t.Errorf("%s with bad token: expected status 401, got %d", path, resp.Code)
		}
	}
}

func TestUserRoutes(t *testing.T) {
	env := newEnv(t, nil)
	ada := env.register(t, "Ada", "ada@example.com")
	grace := env.register(t, "Grace", "grace@example.com")

	me := decode[map[string]models.UserView](t, env.do(t, http.MethodGet, "/api/users/me", ada, nil))["user"]
	if me.Email != "ada@example.com" {
		t.Fatalf("unexpected me %+v", me)
	}

	resp := env.do(t, http.MethodGet, "/api/users", ada, nil)
	if list := decode[[]map[string]any](t, resp); len(list) != 2 {
		t.Fatalf("expected 2 users, got %d", len(list))
	} else if _, leaked := list[0]["password"]; leaked {
		t.Fatal("password hash leaked in user list")
	}

	if resp := env.do(t, http.MethodGet, "/api/users/"+uuid.NewString(), ada, nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
	if resp := env.do(t, http.MethodPut, "/api/users/"+me.ID.String(), grace, map[string]string{"name": "Hacked"}); resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
	if resp := env.do(t, http.MethodPut, "/api/users/"+me.ID.String(), ada, map[string]string{"email": "grace@example.com"}); resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
	resp = env.do(t, http.MethodPut, "/api/users/"+me.ID.String(), ada, map[string]string{"name": "Ada L."})
	if resp.Code != http.StatusOK || decode[models.UserView](t, resp).Name != "Ada L." {
		t.Fatalf("expected updated profile, got %d %s", resp.Code, resp.Body.String())
	}
	if resp := env.do(t, http.MethodDelete, "/api/users/"+me.ID.String(), grace, nil); resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
	if resp := env.do(t, http.MethodDelete, "/api/users/"+me.ID.String(), ada, nil); resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
}

func TestAssetRoutes(t *testing.T) {
	env := newEnv(t, nil)
	ada := env.register(t, "Ada", "ada@example.com")
	grace := env.register(t, "Grace", "grace@example.com")
	ctx := context.Background()

	resp := env.do(t, http.MethodPost, "/api/assets", ada, map[string]any{"name": "No URL"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	otherOwner := uuid.NewString()
	resp = env.do(t, http.MethodPost, "/api/assets", ada, map[string]any{
		"name": "Sunset Photo", "url": "https://x/sunset.jpg", "tags": "sunset, nature",
		"size": 245760, "category": "photo", "ownerId": otherOwner,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	created := decode[models.Asset](t, resp)
	me := decode[map[string]models.UserView](t, env.do(t, http.MethodGet, "/api/users/me", ada, nil))["user"]
	if created.OwnerID != me.ID {
		t.Fatalf("expected owner %s, got %s", me.ID, created.OwnerID)
	}
	if created.Size == nil || *created.Size != 245760 || len(created.Tags) != 2 {
		t.Fatalf("unexpected asset %+v", created)
	}

	path := "/api/assets/" + created.ID.String()
	if resp := env.do(t, http.MethodGet, path, grace, nil); resp.Code != http.StatusOK {
		t.Fatalf("any user may read, got %d", resp.Code)
	}
	if resp := env.do(t, http.MethodPut, path, grace, map[string]any{"name": "Mine now"}); resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
	resp = env.do(t, http.MethodPut, path, ada, map[string]any{"description": "Golden hour", "size": ""})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if updated := decode[models.Asset](t, resp); updated.Description != "Golden hour" || updated.Size != nil || updated.Name != "Sunset Photo" {
		t.Fatalf("unexpected update %+v", updated)
	}

	if resp := env.do(t, http.MethodDelete, "/api/assets/"+uuid.NewString(), ada, nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
	if n, _ := env.store.CountAssets(ctx); n != 1 {
		t.Fatalf("expected count unchanged at 1, got %d", n)
	}
	if resp := env.do(t, http.MethodDelete, path, grace, nil); resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
	if resp := env.do(t, http.MethodDelete, path, ada, nil); resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
	if resp := env.do(t, http.MethodGet, path, ada, nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 after delete, got %d", resp.Code)
	}
}

func TestListAssetsReturnsEmptyArray(t *testing.T) {
	env := newEnv(t, nil)
	token := env.register(t, "Ada", "ada@example.com")
	resp := env.do(t, http.MethodGet, "/api/assets", token, nil)
	if strings.TrimSpace(resp.Body.String()) != "[]" {
		t.Fatalf("expected [], got %q", resp.Body.String())
	}
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for field, name := range files {
		part, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatal(err)
		}
		io.WriteString(part, "content of "+name)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func TestUploadRoute(t *testing.T) {
	env := newEnv(t, nil)
	token := env.register(t, "Ada", "ada@example.com")

	send := func(files map[string]string) *httptest.ResponseRecorder {
		body, contentType := multipartBody(t, files)
		req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		env.handler.ServeHTTP(resp, req)
		return resp
	}

	resp := send(map[string]string{"image": "preview.png", "file": "chair.glb"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
	result := decode[services.UploadResult](t, resp)
	if result.Image == nil || result.File == nil || result.File.PublicURL != "https://cdn/chair.glb" {
		t.Fatalf("unexpected result %+v", result)
	}

	if resp := send(map[string]string{"file": "virus.exe"}); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if resp := send(map[string]string{}); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 without files, got %d", resp.Code)
	}
}

func TestUploadConflict(t *testing.T) {
	env := newEnv(t, func(d *Dependencies) {
		d.Storage = fakeStorage{uploadFn: func(ctx context.Context, ownerID string, file models.ObjectInput) (models.StoredObject, error) {
			return models.StoredObject{}, repositories.ErrObjectExists
		}}
	})
	token := env.register(t, "Ada", "ada@example.com")

	body, contentType := multipartBody(t, map[string]string{"file": "chair.glb"})
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	env.handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestPresignRoute(t *testing.T) {
	env := newEnv(t, nil)
	token := env.register(t, "Ada", "ada@example.com")

	if resp := env.do(t, http.MethodPost, "/api/uploads/presign", token, map[string]string{"filename": "model.glb"}); resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if resp := env.do(t, http.MethodPost, "/api/uploads/presign", token, map[string]string{"filename": "model.txt"}); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newEnv(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/assets", nil)
	req.Header.Set("Origin", "http://frontend.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
	resp := httptest.NewRecorder()
	env.handler.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://frontend.test" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}

func TestGoogleSignIn(t *testing.T) {
	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			io.WriteString(w, `{"access_token":"google-access","token_type":"Bearer","expires_in":3600}`)
		case "/userinfo":
			if r.Header.Get("Authorization") != "Bearer google-access" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			io.WriteString(w, `{"id":"g-1","email":"grace@example.com","name":"Grace"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer google.Close()

	env := newEnv(t, func(d *Dependencies) {
		d.Google = &services.GoogleAuth{
			OAuth: &oauth2.Config{
				ClientID:     "client",
				ClientSecret: "secret",
				RedirectURL:  "http://api.test/api/auth/google/callback",
				Endpoint:     oauth2.Endpoint{AuthURL: google.URL + "/auth", TokenURL: google.URL + "/token"},
			},
			UserInfoURL: google.URL + "/userinfo",
		}
	})

	resp := env.do(t, http.MethodGet, "/api/auth/google/login?redirect=/dashboard", "", nil)
	if resp.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected status 307, got %d", resp.Code)
	}
	loc, _ := url.Parse(resp.Header().Get("Location"))
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatal("expected a state parameter")
	}

	resp = env.do(t, http.MethodGet, "/api/auth/google/callback?code=abc&state="+url.QueryEscape(state), "", nil)
	if resp.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected status 307, got %d: %s", resp.Code, resp.Body.String())
	}
	target := resp.Header().Get("Location")
	if !strings.HasPrefix(target, "http://frontend.test/dashboard#token=") {
		t.Fatalf("unexpected redirect %q", target)
	}
	if _, err := env.store.GetUserByEmail(context.Background(), "grace@example.com"); err != nil {
		t.Fatalf("expected the Google user to be created: %v", err)
	}

	resp = env.do(t, http.MethodGet, "/api/auth/google/callback?code=abc&state=forged", "", nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for a forged state, got %d", resp.Code)
	}
}

func TestGoogleDisabled(t *testing.T) {
	env := newEnv(t, nil)
	if resp := env.do(t, http.MethodGet, "/api/auth/google/login", "", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[services.Kind]int{
		services.KindValidation: http.StatusBadRequest,
		services.KindAuth:       http.StatusUnauthorized,
		services.KindForbidden:  http.StatusForbidden,
		services.KindNotFound:   http.StatusNotFound,
		services.KindConflict:   http.StatusConflict,
		services.KindInternal:   http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := handlers.StatusFor(kind); got != want {
			t.Errorf("StatusFor(%s) = %d, want %d", kind, got, want)
		}
	}
}
