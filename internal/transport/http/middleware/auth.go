package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"spotlapse/internal/httputil"
	"spotlapse/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// callerKey is the context key for the authenticated model.Caller
	callerKey contextKey = "caller"

	// AccessTokenCookie is read when no Authorization header is present (web clients).
	AccessTokenCookie = "access_token"
)

// Token error codes
const (
	CodeTokenMissing = "TOKEN_MISSING"
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeTokenInvalid = "TOKEN_INVALID"
)

var (
	errTokenMissing = errors.New("missing authentication token")
	errTokenClaims  = errors.New("invalid token claims")
)

// AuthMiddleware rejects requests without a valid access token.
// Checks Authorization header first (for mobile), then falls back to cookie (for web)
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := authenticate(r, jwtSecret)
			if err != nil {
				switch {
				case errors.Is(err, errTokenMissing):
					httputil.WriteUnauthorizedWithCode(w, CodeTokenMissing, "Missing authentication token")
				case errors.Is(err, jwt.ErrTokenExpired):
					httputil.WriteUnauthorizedWithCode(w, CodeTokenExpired, "Access token has expired")
				default:
					httputil.WriteUnauthorizedWithCode(w, CodeTokenInvalid, "Invalid authentication token")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// OptionalAuthMiddleware attaches the caller when a valid token is present
// and continues anonymously otherwise.
func OptionalAuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if caller, err := authenticate(r, jwtSecret); err == nil {
				r = r.WithContext(WithCaller(r.Context(), caller))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authenticate(r *http.Request, jwtSecret string) (model.Caller, error) {
	tokenString := extractToken(r)
	if tokenString == "" {
		return model.Anonymous, errTokenMissing
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return model.Anonymous, err
	}
	if !token.Valid {
		return model.Anonymous, errTokenClaims
	}

	// The subject is the profile id, stored in the form PostgreSQL returns.
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Anonymous, errTokenClaims
	}
	return model.Caller{UserID: id.String()}, nil
}

func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// WithCaller stores caller in ctx.
func WithCaller(ctx context.Context, caller model.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFromContext returns the authenticated caller, or model.Anonymous.
func CallerFromContext(ctx context.Context) model.Caller {
	if caller, ok := ctx.Value(callerKey).(model.Caller); ok {
		return caller
	}
	return model.Anonymous
}
