package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/config"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type GoogleProfile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleAuth wraps the OAuth2 code flow against Google.
type GoogleAuth struct {
	OAuth       *oauth2.Config
	UserInfoURL string
}

// NewGoogleAuth returns nil when no client id is configured.
func NewGoogleAuth(cfg config.GoogleConfig) *GoogleAuth {
	if cfg.ClientID == "" {
		return nil
	}
	return &GoogleAuth{
		OAuth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		UserInfoURL: googleUserInfoURL,
	}
}

func (g *GoogleAuth) AuthCodeURL(state string) string {
	return g.OAuth.AuthCodeURL(state)
}

// Profile exchanges the authorization code and fetches the user's profile.
func (g *GoogleAuth) Profile(ctx context.Context, code string) (GoogleProfile, error) {
	token, err := g.OAuth.Exchange(ctx, code)
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("code exchange: %w", err)
	}

	resp, err := g.OAuth.Client(ctx, token).Get(g.UserInfoURL)
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GoogleProfile{}, fmt.Errorf("get user info: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return GoogleProfile{}, fmt.Errorf("read user info: %w", err)
	}
	var profile GoogleProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return GoogleProfile{}, fmt.Errorf("parse user info: %w", err)
	}
	return profile, nil
}
