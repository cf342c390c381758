package usecase

import (
	"context"

	"cinevault/internal/domain/entity"
	"cinevault/internal/domain/service"
)

// CatalogUsecase defines the interface for read-only media metadata operations.
// It fronts the external provider, validating kinds and passing results through.
type CatalogUsecase interface {
	Search(ctx context.Context, query string, page int) (*service.MediaPage, error)
	GetDetail(ctx context.Context, kind entity.MediaKind, id int64) (*service.MediaDetail, error)
	Discover(ctx context.Context, filter service.DiscoverFilter) (*service.MediaPage, error)
	Trending(ctx context.Context, kind entity.MediaKind, window string, page int) (*service.MediaPage, error)
	GetCredits(ctx context.Context, kind entity.MediaKind, id int64) (*service.Credits, error)
	GetImages(ctx context.Context, kind entity.MediaKind, id int64) (*service.ImageCollection, error)
	GetVideos(ctx context.Context, kind entity.MediaKind, id int64) (*service.VideoCollection, error)
	GetReviews(ctx context.Context, kind entity.MediaKind, id int64, page int) (*service.ReviewPage, error)
	GetSimilar(ctx context.Context, kind entity.MediaKind, id int64, page int) (*service.MediaPage, error)
	GetRecommendations(ctx context.Context, kind entity.MediaKind, id int64, page int) (*service.MediaPage, error)
}
