package impl

import (
	"context"
	"testing"

	"cinevault/internal/domain/entity"
	domainerrors "cinevault/internal/domain/errors"
	"cinevault/internal/domain/service"
	"cinevault/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog records the last call so tests can assert on the arguments the
// service forwards to the provider.
type fakeCatalog struct {
	lastQuery  string
	lastPage   int
	lastKind   entity.MediaKind
	lastWindow string
	lastFilter service.DiscoverFilter

	page *service.MediaPage
	err  error
}

func (c *fakeCatalog) SearchMulti(ctx context.Context, query string, page int) (*service.MediaPage, error) {
	c.lastQuery, c.lastPage = query, page

	return c.page, c.err
}

func (c *fakeCatalog) GetDetail(ctx context.Context, kind entity.MediaKind, id int64) (*service.MediaDetail, error) {
	c.lastKind = kind

	return &service.MediaDetail{ID: id}, c.err
}

func (c *fakeCatalog) DiscoverMovies(ctx context.Context, filter service.DiscoverFilter) (*service.MediaPage, error) {
	c.lastFilter = filter

	return c.page, c.err
}

func (c *fakeCatalog) Trending(ctx context.Context, kind entity.MediaKind, window string, page int) (*service.MediaPage, error) {
	c.lastKind, c.lastWindow, c.lastPage = kind, window, page

	return c.page, c.err
}

func (c *fakeCatalog) GetCredits(ctx context.Context, kind entity.MediaKind, id int64) (*service.Credits, error) {
	c.lastKind = kind

	return &service.Credits{ID: id}, c.err
}

func (c *fakeCatalog) GetImages(ctx context.Context, kind entity.MediaKind, id int64) (*service.ImageCollection, error) {
	c.lastKind = kind

	return &service.ImageCollection{ID: id}, c.err
}

func (c *fakeCatalog) GetVideos(ctx context.Context, kind entity.MediaKind, id int64) (*service.VideoCollection, error) {
	c.lastKind = kind

	return &service.VideoCollection{ID: id}, c.err
}

func (c *fakeCatalog) GetReviews(ctx context.Context, kind entity.MediaKind, id int64, page int) (*service.ReviewPage, error) {
	c.lastKind, c.lastPage = kind, page

	return &service.ReviewPage{ID: id, Page: page}, c.err
}

func (c *fakeCatalog) GetSimilar(ctx context.Context, kind entity.MediaKind, id int64, page int) (*service.MediaPage, error) {
	c.lastKind, c.lastPage = kind, page

	return c.page, c.err
}

func (c *fakeCatalog) GetRecommendations(ctx context.Context, kind entity.MediaKind, id int64, page int) (*service.MediaPage, error) {
	c.lastKind, c.lastPage = kind, page

	return c.page, c.err
}

func createTestCatalogService(t *testing.T) (usecase.CatalogUsecase, *fakeCatalog) {
	t.Helper()

	catalog := &fakeCatalog{page: &service.MediaPage{Page: 1, Results: []service.MediaSummary{}}}
	svc := NewCatalogService(CatalogServiceParams{
		Catalog: catalog,
		Logger:  newDiscardLogger(),
	})

	return svc, catalog
}

func TestCatalogService_Search(t *testing.T) {
	svc, catalog := createTestCatalogService(t)

	_, err := svc.Search(context.Background(), "  inception  ", 2)

	require.NoError(t, err)
	assert.Equal(t, "inception", catalog.lastQuery, "query must be trimmed")
	assert.Equal(t, 2, catalog.lastPage)
}

func TestCatalogService_Search_EmptyQuery(t *testing.T) {
	svc, _ := createTestCatalogService(t)

	_, err := svc.Search(context.Background(), "   ", 1)

	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestCatalogService_Search_NormalizesPage(t *testing.T) {
	svc, catalog := createTestCatalogService(t)

	_, err := svc.Search(context.Background(), "inception", -3)

	require.NoError(t, err)
	assert.Equal(t, 1, catalog.lastPage)
}

func TestCatalogService_KindValidation(t *testing.T) {
	svc, _ := createTestCatalogService(t)
	ctx := context.Background()
	badKind := entity.MediaKind("music")

	_, err := svc.GetDetail(ctx, badKind, 1)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidMediaKind))

	_, err = svc.Trending(ctx, badKind, "week", 1)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidMediaKind))

	_, err = svc.GetCredits(ctx, badKind, 1)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidMediaKind))

	_, err = svc.GetReviews(ctx, badKind, 1, 1)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidMediaKind))
}

func TestCatalogService_Discover_NormalizesPage(t *testing.T) {
	svc, catalog := createTestCatalogService(t)

	_, err := svc.Discover(context.Background(), service.DiscoverFilter{
		SortBy: "popularity.desc",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, catalog.lastFilter.Page)
	assert.Equal(t, "popularity.desc", catalog.lastFilter.SortBy)
}

func TestCatalogService_Trending_ForwardsWindow(t *testing.T) {
	svc, catalog := createTestCatalogService(t)

	_, err := svc.Trending(context.Background(), entity.MediaKindTV, "day", 1)

	require.NoError(t, err)
	assert.Equal(t, entity.MediaKindTV, catalog.lastKind)
	assert.Equal(t, "day", catalog.lastWindow)
}

func TestCatalogService_ProviderErrorsPassThrough(t *testing.T) {
	svc, catalog := createTestCatalogService(t)
	catalog.err = domainerrors.ErrMediaNotFound

	_, err := svc.GetDetail(context.Background(), entity.MediaKindMovie, 99999999)

	assert.True(t, errors.Is(err, domainerrors.ErrMediaNotFound))
}
