package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/utils"
)

const stateTTL = 10 * time.Minute

type stateClaims struct {
	Data map[string]string `json:"data,omitempty"`
	jwt.RegisteredClaims
}

// GenerateState creates a signed, short-lived OAuth state carrying optional metadata.
func GenerateState(secret []byte, data map[string]string) (string, error) {
	nonce, err := utils.GenerateSecureToken(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	now := time.Now()
	claims := stateClaims{
		Data: data,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        nonce,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// DecodeState verifies the state signature and expiry and returns its metadata.
func DecodeState(secret []byte, state string) (map[string]string, error) {
	if state == "" {
		return nil, errors.New("missing state")
	}
	claims := &stateClaims{}
	_, err := jwt.ParseWithClaims(state, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid state: %w", err)
	}
	if claims.Data == nil {
		claims.Data = map[string]string{}
	}
	return claims.Data, nil
}
