package api

import (
	"expvar"
	"fmt"
	"log"
	"net/http"

	_ "github.com/Nakul-Jaglan/thob3d-assignment/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/api/handlers"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/api/middleware"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/api/services"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/config"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/repositories"
	"github.com/rs/cors"
)

type Dependencies struct {
	Store   repositories.Store
	Tokens  *services.TokenManager
	Storage services.ObjectStorage // nil disables uploads
	Google  *services.GoogleAuth   // nil disables Google sign-in
	Config  config.Config
}

func SetupRouter(deps Dependencies) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(deps.Config.CorsConfig)

	authHandler := &handlers.AuthHandler{
		Auth:        services.NewAuthService(deps.Store, deps.Tokens),
		Google:      deps.Google,
		StateSecret: []byte(deps.Config.JWTSecret),
		FrontendURL: deps.Config.FrontendURL,
	}
	userHandler := &handlers.UserHandler{Users: services.NewUserService(deps.Store)}
	assetHandler := &handlers.AssetHandler{Assets: services.NewAssetService(deps.Store)}
	uploadHandler := &handlers.UploadHandler{Uploads: services.NewUploadService(deps.Storage)}

	// ---------- PUBLIC ROUTES ----------
	mainMux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
	mainMux.Handle("GET /docs/", httpSwagger.WrapHandler)
	mainMux.Handle("GET /debug/vars", expvar.Handler())

	mainMux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mainMux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mainMux.HandleFunc("GET /api/auth/google/login", authHandler.GoogleLogin)
	mainMux.HandleFunc("GET /api/auth/google/callback", authHandler.GoogleCallback)

	// ---------- PROTECTED ROUTES ----------
	protect := middleware.Auth(deps.Tokens)
	protected := func(pattern string, h http.HandlerFunc) {
		mainMux.Handle(pattern, protect(h))
	}

	protected("GET /api/users/me", userHandler.Me)
	protected("GET /api/users", userHandler.List)
	protected("GET /api/users/{id}", userHandler.Get)
	protected("PUT /api/users/{id}", userHandler.Update)
	protected("DELETE /api/users/{id}", userHandler.Delete)

	protected("GET /api/assets", assetHandler.List)
	protected("POST /api/assets", assetHandler.Create)
	protected("POST /api/assets/{$}", assetHandler.Create)
	protected("GET /api/assets/{id}", assetHandler.Get)
	protected("PUT /api/assets/{id}", assetHandler.Update)
	protected("DELETE /api/assets/{id}", assetHandler.Delete)

	protected("POST /api/uploads", uploadHandler.Upload)
	protected("POST /api/uploads/presign", uploadHandler.Presign)

	log.Println("Router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Recover(handler)
	handler = middleware.Logger(handler)
	return handler
}
