package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "cinevault/internal/delivery/context"
	"cinevault/internal/domain/entity"
	domainerrors "cinevault/internal/domain/errors"
	"cinevault/internal/domain/service"
	"cinevault/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// catalogService implements the CatalogUsecase interface. It validates kinds
// and pagination before handing queries to the metadata provider.
type catalogService struct {
	catalog service.MediaCatalog
	logger  *slog.Logger
}

// CatalogServiceParams holds dependencies for CatalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	Catalog service.MediaCatalog
	Logger  *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		catalog: params.Catalog,
		logger:  params.Logger,
	}
}

func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Search queries movies, TV shows and people in one call.
func (srv *catalogService) Search(ctx context.Context, query string, page int) (*service.MediaPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("search query must not be empty")
	}

	result, err := srv.catalog.SearchMulti(ctx, query, normalizePage(page))
	if err != nil {
		srv.log(ctx).Warn("Search failed", slog.String("query", query), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to search catalog")
	}

	return result, nil
}

// GetDetail fetches the full record for one title.
func (srv *catalogService) GetDetail(ctx context.Context, kind entity.MediaKind, id int64) (*service.MediaDetail, error) {
	if !kind.IsValid() {
		return nil, domainerrors.ErrInvalidMediaKind
	}

	return srv.catalog.GetDetail(ctx, kind, id)
}

// Discover lists movies matching the filter.
func (srv *catalogService) Discover(ctx context.Context, filter service.DiscoverFilter) (*service.MediaPage, error) {
	filter.Page = normalizePage(filter.Page)

	return srv.catalog.DiscoverMovies(ctx, filter)
}

// Trending lists titles trending over the given window.
func (srv *catalogService) Trending(ctx context.Context, kind entity.MediaKind, window string, page int) (*service.MediaPage, error) {
	if !kind.IsValid() {
		return nil, domainerrors.ErrInvalidMediaKind
	}

	return srv.catalog.Trending(ctx, kind, window, normalizePage(page))
}

// GetCredits fetches cast and crew for one title.
func (srv *catalogService) GetCredits(ctx context.Context, kind entity.MediaKind, id int64) (*service.Credits, error) {
	if !kind.IsValid() {
		return nil, domainerrors.ErrInvalidMediaKind
	}

	return srv.catalog.GetCredits(ctx, kind, id)
}

// GetImages fetches poster and backdrop assets for one title.
func (srv *catalogService) GetImages(ctx context.Context, kind entity.MediaKind, id int64) (*service.ImageCollection, error) {
	if !kind.IsValid() {
		return nil, domainerrors.ErrInvalidMediaKind
	}

	return srv.catalog.GetImages(ctx, kind, id)
}

// GetVideos fetches trailers and clips for one title.
func (srv *catalogService) GetVideos(ctx context.Context, kind entity.MediaKind, id int64) (*service.VideoCollection, error) {
	if !kind.IsValid() {
		return nil, domainerrors.ErrInvalidMediaKind
	}

	return srv.catalog.GetVideos(ctx, kind, id)
}

// GetReviews fetches one page of user reviews for one title.
func (srv *catalogService) GetReviews(ctx context.Context, kind entity.MediaKind, id int64, page int) (*service.ReviewPage, error) {
	if !kind.IsValid() {
		return nil, domainerrors.ErrInvalidMediaKind
	}

	return srv.catalog.GetReviews(ctx, kind, id, normalizePage(page))
}

// GetSimilar lists titles similar to the given one.
func (srv *catalogService) GetSimilar(ctx context.Context, kind entity.MediaKind, id int64, page int) (*service.MediaPage, error) {
	if !kind.IsValid() {
		return nil, domainerrors.ErrInvalidMediaKind
	}

	return srv.catalog.GetSimilar(ctx, kind, id, normalizePage(page))
}

// GetRecommendations lists titles recommended from the given one.
func (srv *catalogService) GetRecommendations(ctx context.Context, kind entity.MediaKind, id int64, page int) (*service.MediaPage, error) {
	if !kind.IsValid() {
		return nil, domainerrors.ErrInvalidMediaKind
	}

	return srv.catalog.GetRecommendations(ctx, kind, id, normalizePage(page))
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}

	return page
}
