package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/stories-api/internal/model"
	"github.com/vasapolrittideah/stories-api/internal/repository"
	"github.com/vasapolrittideah/stories-api/internal/response"
	"github.com/vasapolrittideah/stories-api/shared/auth"
)

type contextKey struct{}

var UserClaimsKey = contextKey{}

const unauthorizedMessage = "unauthorized access"

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// UserLookup resolves an account by id.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// Authorize rejects requests without a valid bearer token for an existing account
// with 401. Accepted requests carry the token claims in their context.
//
// The role is taken from the token, so a role change only applies once the
// token is reissued.
func Authorize(tokens TokenValidator, users UserLookup, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := extractAndValidateJWT(r, tokens)
			if err != nil {
				logger.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected bearer token")
				response.Error(w, http.StatusUnauthorized, unauthorizedMessage)
				return
			}

			if _, err := users.GetUser(r.Context(), claims.UserID); err != nil {
				if !errors.Is(err, mongo.ErrNoDocuments) && !errors.Is(err, repository.ErrInvalidID) {
					logger.Error().Err(err).Str("user_id", claims.UserID).Msg("failed to load token subject")
				}
				response.Error(w, http.StatusUnauthorized, unauthorizedMessage)
				return
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims attached by Authorize.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(*auth.Claims)
	return claims, ok
}

func extractAndValidateJWT(r *http.Request, tokens TokenValidator) (*auth.Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("missing authorization header")
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, errors.New("invalid authorization header format")
	}

	return tokens.ValidateToken(parts[1])
}
