package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/fluxocx/fluxo/internal/api/middleware"
	"github.com/fluxocx/fluxo/internal/config"
	"github.com/fluxocx/fluxo/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	members domain.TenantStore
}

func NewAuthHandler(members domain.TenantStore) *AuthHandler {
	return &AuthHandler{members: members}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Login verifies the bootstrap credential pair from config against the
// submitted email/password and issues a short-lived HS256 access token with
// the email as subject. Wrong email and wrong password answer identically.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body", nil)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "email and password are required", nil)
		return
	}

	if email != strings.ToLower(config.AuthEmail()) {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid credentials", nil)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(config.AuthPasswordHash()), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid credentials", nil)
		return
	}

	ttl := config.JWTTTL()
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	signed, err := token.SignedString([]byte(config.JWTSecret()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, codeInternal, "failed to issue token", nil)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int64(ttl.Seconds()),
	})
}

// Me echoes the authenticated membership resolved by the auth middleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	member := middleware.MemberFromContext(r.Context())
	if member == nil {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized", nil)
		return
	}
	writeJSON(w, http.StatusOK, member)
}
