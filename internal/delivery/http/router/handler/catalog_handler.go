package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"cinevault/internal/delivery/http/response"
	"cinevault/internal/domain/entity"
	"cinevault/internal/domain/service"
	"cinevault/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CatalogHandler holds dependencies for media metadata handlers.
type CatalogHandler struct {
	uc     usecase.CatalogUsecase
	logger *slog.Logger
}

// NewCatalogHandler is the constructor for CatalogHandler, injected by Fx.
func NewCatalogHandler(uc usecase.CatalogUsecase, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		logger: logger,
	}
}

// Search queries movies, TV shows and people in one call.
func (h *CatalogHandler) Search(c echo.Context) error {
	query := c.QueryParam("query")

	result, err := h.uc.Search(c.Request().Context(), query, queryPage(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result)
}

// Discover lists movies matching the query parameters.
func (h *CatalogHandler) Discover(c echo.Context) error {
	filter := service.DiscoverFilter{
		Page:        queryPage(c),
		SortBy:      c.QueryParam("sort_by"),
		WithGenres:  c.QueryParam("with_genres"),
		ReleaseGTE:  c.QueryParam("release_date_gte"),
		ReleaseLTE:  c.QueryParam("release_date_lte"),
		WithKeyword: c.QueryParam("with_keywords"),
	}
	if year, err := strconv.Atoi(c.QueryParam("year")); err == nil {
		filter.Year = year
	}
	if minVote, err := strconv.ParseFloat(c.QueryParam("vote_average_gte"), 64); err == nil {
		filter.MinVoteAvg = minVote
	}
	if minVotes, err := strconv.Atoi(c.QueryParam("vote_count_gte")); err == nil {
		filter.MinVotes = minVotes
	}

	result, err := h.uc.Discover(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result)
}

// Trending lists titles trending over a day or week window.
func (h *CatalogHandler) Trending(c echo.Context) error {
	kind, err := paramKind(c)
	if err != nil {
		return err
	}

	result, err := h.uc.Trending(c.Request().Context(), kind, c.QueryParam("window"), queryPage(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result)
}

// GetDetail returns the full record for one title.
func (h *CatalogHandler) GetDetail(c echo.Context) error {
	kind, id, err := paramTarget(c)
	if err != nil {
		return err
	}

	result, err := h.uc.GetDetail(c.Request().Context(), kind, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result)
}

// GetCredits returns the cast and crew of one title.
func (h *CatalogHandler) GetCredits(c echo.Context) error {
	kind, id, err := paramTarget(c)
	if err != nil {
		return err
	}

	result, err := h.uc.GetCredits(c.Request().Context(), kind, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result)
}

// GetImages returns poster and backdrop assets of one title.
func (h *CatalogHandler) GetImages(c echo.Context) error {
	kind, id, err := paramTarget(c)
	if err != nil {
		return err
	}

	result, err := h.uc.GetImages(c.Request().Context(), kind, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result)
}

// GetVideos returns trailers and clips of one title.
func (h *CatalogHandler) GetVideos(c echo.Context) error {
	kind, id, err := paramTarget(c)
	if err != nil {
		return err
	}

	result, err := h.uc.GetVideos(c.Request().Context(), kind, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result)
}

// GetReviews returns one page of user reviews of one title.
func (h *CatalogHandler) GetReviews(c echo.Context) error {
	kind, id, err := paramTarget(c)
	if err != nil {
		return err
	}

	result, err := h.uc.GetReviews(c.Request().Context(), kind, id, queryPage(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result)
}

// GetSimilar lists titles similar to the given one.
func (h *CatalogHandler) GetSimilar(c echo.Context) error {
	kind, id, err := paramTarget(c)
	if err != nil {
		return err
	}

	result, err := h.uc.GetSimilar(c.Request().Context(), kind, id, queryPage(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result)
}

// GetRecommendations lists titles recommended from the given one.
func (h *CatalogHandler) GetRecommendations(c echo.Context) error {
	kind, id, err := paramTarget(c)
	if err != nil {
		return err
	}

	result, err := h.uc.GetRecommendations(c.Request().Context(), kind, id, queryPage(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result)
}

func queryPage(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}

	return page
}

func paramKind(c echo.Context) (entity.MediaKind, error) {
	kind := entity.MediaKind(c.Param("kind"))
	if !kind.IsValid() {
		return "", response.BadRequest(c, "INVALID_MEDIA_KIND", "Media kind must be 'movie' or 'tv'")
	}

	return kind, nil
}

func paramTarget(c echo.Context) (entity.MediaKind, int64, error) {
	kind, err := paramKind(c)
	if err != nil {
		return "", 0, err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return "", 0, response.BadRequest(c, "INVALID_INPUT", "Invalid media ID")
	}

	return kind, id, nil
}
