package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/api/services"
	"github.com/Nakul-Jaglan/thob3d-assignment/internal/utils"
)

type AuthHandler struct {
	Auth        *services.AuthService
	Google      *services.GoogleAuth // nil when Google sign-in is not configured
	StateSecret []byte
	FrontendURL string
}

type tokenResponse struct {
	Token string `json:"token"`
}

// POST /api/auth/register
// RegisterUser godoc
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body handlers.registerRequest true "New account"
// @Success 201 {object} handlers.tokenResponse
// @Failure 400 {object} utils.Message
// @Failure 409 {object} utils.Message
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input registerRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}

	token, err := h.Auth.Register(r.Context(), input.Name, input.Email, input.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusCreated, tokenResponse{Token: token})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
// LoginUser godoc
// @Summary Log in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body handlers.loginRequest true "Credentials"
// @Success 200 {object} handlers.tokenResponse
// @Failure 400 {object} utils.Message
// @Failure 401 {object} utils.Message
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid input")
		return
	}

	token, err := h.Auth.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, tokenResponse{Token: token})
}

// GET /api/auth/google/login
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.Google == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Google sign-in is not enabled")
		return
	}

	state, err := GenerateState(h.StateSecret, map[string]string{"redirect": r.URL.Query().Get("redirect")})
	if err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate OAuth state")
		return
	}
	http.Redirect(w, r, h.Google.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GET /api/auth/google/callback
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.Google == nil {
		utils.ErrorResponse(w, http.StatusNotFound, "Google sign-in is not enabled")
		return
	}

	stateData, err := DecodeState(h.StateSecret, r.FormValue("state"))
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}

	profile, err := h.Google.Profile(r.Context(), r.FormValue("code"))
	if err != nil {
		log.Println("Google sign-in failed:", err)
		h.redirectToFrontend(w, r, "/login", url.Values{"error": {"google_failed"}})
		return
	}

	token, err := h.Auth.SignInExternal(r.Context(), profile.Name, profile.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	target := "/login"
	if p := stateData["redirect"]; strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") {
		target = p
	}
	http.Redirect(w, r, strings.TrimRight(h.FrontendURL, "/")+target+"#token="+url.QueryEscape(token), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) redirectToFrontend(w http.ResponseWriter, r *http.Request, path string, query url.Values) {
	http.Redirect(w, r, strings.TrimRight(h.FrontendURL, "/")+path+"?"+query.Encode(), http.StatusTemporaryRedirect)
}
