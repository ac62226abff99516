package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/localpulse/localpulse/pkg/logger"
)

type contextKey string

// userIDKey carries the authenticated subject through the request context.
const userIDKey contextKey = "user_id"

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// AuthMiddleware validates HS256 bearer tokens on every request it wraps.
type AuthMiddleware struct {
	secretKey []byte
	logger    logger.Logger
}

// NewAuthMiddleware creates the middleware with the signing secret.
func NewAuthMiddleware(secretKey string, log logger.Logger) *AuthMiddleware {
	return &AuthMiddleware{secretKey: []byte(secretKey), logger: log}
}

// RequireAuth wraps a handler, rejecting requests without a valid token.
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeJSONError(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			writeJSONError(w, "invalid token", http.StatusUnauthorized)
			return
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			writeJSONError(w, "invalid token subject", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, subject)
		next(w, r.WithContext(ctx))
	}
}

// GenerateToken issues an HS256 token for the given subject.
func GenerateToken(secretKey, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return token.SignedString([]byte(secretKey))
}
