package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pitchside/quote-api/internal/auth"
	"github.com/pitchside/quote-api/internal/domain"
)

// UserRepository is the subset of repository.UserRepository the handler needs.
type UserRepository interface {
	Upsert(ctx context.Context, user *domain.User) error
}

type AuthHandler struct {
	userRepo UserRepository
	logger   *zap.Logger
}

func NewAuthHandler(userRepo UserRepository, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Me returns the authenticated user's profile and keeps the local user
// record in sync with the token claims.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:          userCtx.UserID,
		Email:       userCtx.Email,
		DisplayName: userCtx.DisplayName,
		Roles:       userCtx.RolesAsStrings(),
		TeamID:      userCtx.TeamID,
		IsActive:    true,
		LastLoginAt: &now,
	}
	if err := h.userRepo.Upsert(r.Context(), user); err != nil {
		h.logger.Warn("failed to upsert user on login",
			zap.String("user_id", userCtx.UserID),
			zap.Error(err))
	}

	dto := domain.AuthUserDTO{
		ID:       userCtx.UserID,
		Name:     userCtx.DisplayName,
		Email:    userCtx.Email,
		Roles:    userCtx.RolesAsStrings(),
		TeamID:   string(userCtx.TeamID),
		Initials: userCtx.GetDisplayNameInitials(),
		IsAdmin:  userCtx.IsAdmin(),
	}
	respondJSON(w, http.StatusOK, dto)
}
