package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/fluxocx/fluxo/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const memberContextKey contextKey = "member"

// MemberFromContext returns the authenticated tenant member, or nil.
func MemberFromContext(ctx context.Context) *domain.TenantMember {
	m, _ := ctx.Value(memberContextKey).(*domain.TenantMember)
	return m
}

// TenantIDFromContext is a convenience for the common case: handlers almost
// always only need the tenant id for scoping.
func TenantIDFromContext(ctx context.Context) int64 {
	if m := MemberFromContext(ctx); m != nil {
		return m.TenantID
	}
	return 0
}

// ParseToken verifies an HS256 access token and returns its subject (the
// member email). Any other signing method is rejected.
func ParseToken(tokenStr, secret string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return sub, nil
}

// JWTAuth authenticates Bearer tokens and resolves the subject email to a
// tenant member. An unknown or revoked email is a 403, not a 401: the token
// was valid, the principal just has no seat.
func JWTAuth(secret string, members domain.TenantStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header format")
				return
			}

			email, err := ParseToken(parts[1], secret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
				return
			}

			member, err := members.GetMemberByEmail(r.Context(), email)
			if err != nil {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "no tenant membership for this identity")
				return
			}

			ctx := context.WithValue(r.Context(), memberContextKey, member)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error_code": code, "message": msg})
}
