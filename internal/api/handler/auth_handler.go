package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/paddyrails/mortgage-customer-service/internal/api/handler/dto"
	"github.com/paddyrails/mortgage-customer-service/internal/config"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	cfg    config.Config
	logger *slog.Logger
}

func NewAuthHandler(cfg config.Config, l *slog.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:    cfg,
		logger: l.With("component", "AuthHandler"),
	}
}

// GenerateBearerToken handles POST /api/auth/token and signs an HS256 token
// for the given username.
func (h *AuthHandler) GenerateBearerToken(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	h.logger.InfoContext(r.Context(), "Generating bearer token")
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "failed to decode request body", "error", err)
		respondError(w, err, "")
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "token request failed validation", "error", err)
		respondError(w, err, "")
		return
	}

	claims := jwt.MapClaims{
		"username": req.Username,
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(h.cfg.Server.Auth.JWTSecret))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to sign token", "error", err)
		respondError(w, fmt.Errorf("failed to sign token: %w", err), "")
		return
	}

	h.logger.InfoContext(r.Context(), "Issued bearer token", "username", req.Username)
	respondSuccess(w, http.StatusOK, dto.TokenResponse{Token: "Bearer " + tokenString}, "")
}
