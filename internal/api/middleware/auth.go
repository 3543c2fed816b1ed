package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Nakul-Jaglan/thob3d-assignment/internal/utils"
)

type contextKey string

const UserIDKey contextKey = "userID"

// TokenVerifier validates a session token and returns the user id it carries.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// Auth rejects requests without a valid bearer token and stores the caller's id in
// the request context. It never touches the store.
func Auth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			tokenStr := BearerToken(r.Header.Get("Authorization"))
			if tokenStr == "" {
				utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			userID, err := tokens.Verify(tokenStr)
			if err != nil {
				utils.ErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
