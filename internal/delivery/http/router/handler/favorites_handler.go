package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"cinevault/internal/delivery/http/middleware"
	"cinevault/internal/delivery/http/response"
	"cinevault/internal/domain/entity"
	"cinevault/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// FavoritesHandler holds dependencies for favorites handlers.
type FavoritesHandler struct {
	uc     usecase.FavoritesUsecase
	logger *slog.Logger
}

// NewFavoritesHandler is the constructor for FavoritesHandler, injected by Fx.
func NewFavoritesHandler(uc usecase.FavoritesUsecase, logger *slog.Logger) *FavoritesHandler {
	return &FavoritesHandler{
		uc:     uc,
		logger: logger,
	}
}

type favoritesResponse struct {
	Kind string  `json:"kind"`
	IDs  []int64 `json:"ids"`
}

type favoriteMutationRequest struct {
	MediaID int64 `json:"media_id" validate:"required"`
}

func toFavoritesResponse(out *usecase.FavoritesOutput) favoritesResponse {
	return favoritesResponse{
		Kind: out.Kind.String(),
		IDs:  out.IDs,
	}
}

// Fetch returns the favorites partition for one kind.
func (h *FavoritesHandler) Fetch(c echo.Context) error {
	userID, kind, err := h.parseTarget(c)
	if err != nil {
		return err
	}

	out, err := h.uc.Fetch(c.Request().Context(), userID, kind)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toFavoritesResponse(out))
}

// Toggle flips a media ID's membership in the partition.
func (h *FavoritesHandler) Toggle(c echo.Context) error {
	return h.mutate(c, h.uc.Toggle)
}

// Add inserts a media ID into the partition.
func (h *FavoritesHandler) Add(c echo.Context) error {
	return h.mutate(c, h.uc.Add)
}

// Remove deletes a media ID from the partition. The ID arrives as a path
// parameter so removal works without a request body.
func (h *FavoritesHandler) Remove(c echo.Context) error {
	userID, kind, err := h.parseTarget(c)
	if err != nil {
		return err
	}

	mediaID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid media ID")
	}

	out, err := h.uc.Remove(c.Request().Context(), userID, kind, mediaID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toFavoritesResponse(out))
}

type favoritesMutation func(ctx context.Context, userID uuid.UUID, kind entity.MediaKind, mediaID int64) (*usecase.FavoritesOutput, error)

func (h *FavoritesHandler) mutate(c echo.Context, op favoritesMutation) error {
	userID, kind, err := h.parseTarget(c)
	if err != nil {
		return err
	}

	var req favoriteMutationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid favorites input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "media_id is required")
	}

	out, err := op(c.Request().Context(), userID, kind, req.MediaID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toFavoritesResponse(out))
}

func (h *FavoritesHandler) parseTarget(c echo.Context) (uuid.UUID, entity.MediaKind, error) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return uuid.Nil, "", response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	kind := entity.MediaKind(c.Param("kind"))
	if !kind.IsValid() {
		return uuid.Nil, "", response.BadRequest(c, "INVALID_MEDIA_KIND", "Media kind must be 'movie' or 'tv'")
	}

	return userID, kind, nil
}
