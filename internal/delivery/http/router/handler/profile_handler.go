package handler

import (
	"log/slog"
	"net/http"
	"time"

	"cinevault/internal/delivery/http/middleware"
	"cinevault/internal/delivery/http/response"
	"cinevault/internal/domain/entity"
	"cinevault/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProfileHandler holds dependencies for profile handlers.
type ProfileHandler struct {
	uc     usecase.ProfileUsecase
	logger *slog.Logger
}

// NewProfileHandler is the constructor for ProfileHandler, injected by Fx.
func NewProfileHandler(uc usecase.ProfileUsecase, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		uc:     uc,
		logger: logger,
	}
}

type profileResponse struct {
	UserID         uuid.UUID `json:"user_id"`
	AvatarURL      string    `json:"avatar_url"`
	Bio            string    `json:"bio"`
	FavoriteMovies []int64   `json:"favorite_movies"`
	FavoriteTV     []int64   `json:"favorite_tv"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toProfileResponse(p *entity.UserProfile) profileResponse {
	return profileResponse{
		UserID:         p.UserID,
		AvatarURL:      p.AvatarURL,
		Bio:            p.Bio,
		FavoriteMovies: p.FavoriteMovies,
		FavoriteTV:     p.FavoriteTV,
		UpdatedAt:      p.UpdatedAt,
	}
}

// GetProfile returns the authenticated user's profile, creating the row on
// first access so accounts that predate profiles still get one.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	profile, err := h.uc.EnsureProfile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProfileResponse(profile))
}

// UpdateProfile applies partial updates to the authenticated user's profile.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var input *usecase.UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}

	profile, err := h.uc.UpdateProfile(c.Request().Context(), userID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toProfileResponse(profile))
}
