package impl

import (
	"context"
	"sync"
	"testing"

	"cinevault/internal/domain/entity"
	domainerrors "cinevault/internal/domain/errors"
	"cinevault/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type favoritesFixtures struct {
	service usecase.FavoritesUsecase
	store   *fakeStore
	userID  uuid.UUID
}

func createTestFavoritesService(t *testing.T) favoritesFixtures {
	t.Helper()

	store := newFakeStore()
	userID := uuid.New()
	store.profiles[userID] = &entity.UserProfile{
		UserID:         userID,
		FavoriteMovies: []int64{},
		FavoriteTV:     []int64{},
	}

	service := NewFavoritesService(FavoritesServiceParams{
		TxManager:   &fakeTxManager{store: store},
		ProfileRepo: &fakeProfileRepo{store: store},
		Logger:      newDiscardLogger(),
	})

	return favoritesFixtures{service: service, store: store, userID: userID}
}

func TestFavoritesService_Fetch_EmptyPartition(t *testing.T) {
	fx := createTestFavoritesService(t)

	out, err := fx.service.Fetch(context.Background(), fx.userID, entity.MediaKindMovie)

	require.NoError(t, err)
	assert.Equal(t, entity.MediaKindMovie, out.Kind)
	assert.Empty(t, out.IDs)
	assert.NotNil(t, out.IDs, "empty partition must serialize as [], not null")
}

func TestFavoritesService_Fetch_InvalidKind(t *testing.T) {
	fx := createTestFavoritesService(t)

	_, err := fx.service.Fetch(context.Background(), fx.userID, entity.MediaKind("music"))

	assert.True(t, errors.Is(err, domainerrors.ErrInvalidMediaKind))
}

func TestFavoritesService_Add_IsIdempotent(t *testing.T) {
	fx := createTestFavoritesService(t)
	ctx := context.Background()

	first, err := fx.service.Add(ctx, fx.userID, entity.MediaKindMovie, 603)
	require.NoError(t, err)
	assert.Equal(t, []int64{603}, first.IDs)

	second, err := fx.service.Add(ctx, fx.userID, entity.MediaKindMovie, 603)
	require.NoError(t, err)
	assert.Equal(t, []int64{603}, second.IDs)
}

func TestFavoritesService_Toggle_IsItsOwnInverse(t *testing.T) {
	fx := createTestFavoritesService(t)
	ctx := context.Background()

	added, err := fx.service.Toggle(ctx, fx.userID, entity.MediaKindTV, 1399)
	require.NoError(t, err)
	assert.Equal(t, []int64{1399}, added.IDs)

	removed, err := fx.service.Toggle(ctx, fx.userID, entity.MediaKindTV, 1399)
	require.NoError(t, err)
	assert.Empty(t, removed.IDs)
}

func TestFavoritesService_Remove_AbsentIDIsNoOp(t *testing.T) {
	fx := createTestFavoritesService(t)
	ctx := context.Background()

	_, err := fx.service.Add(ctx, fx.userID, entity.MediaKindMovie, 238)
	require.NoError(t, err)

	out, err := fx.service.Remove(ctx, fx.userID, entity.MediaKindMovie, 999)
	require.NoError(t, err)
	assert.Equal(t, []int64{238}, out.IDs)
}

func TestFavoritesService_PartitionsAreIndependent(t *testing.T) {
	fx := createTestFavoritesService(t)
	ctx := context.Background()

	// The same numeric ID in both partitions refers to different titles.
	_, err := fx.service.Add(ctx, fx.userID, entity.MediaKindMovie, 100)
	require.NoError(t, err)
	_, err = fx.service.Add(ctx, fx.userID, entity.MediaKindTV, 100)
	require.NoError(t, err)

	_, err = fx.service.Remove(ctx, fx.userID, entity.MediaKindMovie, 100)
	require.NoError(t, err)

	tvOut, err := fx.service.Fetch(ctx, fx.userID, entity.MediaKindTV)
	require.NoError(t, err)
	assert.Equal(t, []int64{100}, tvOut.IDs, "removing from the movie partition must not touch TV")
}

func TestFavoritesService_NormalizesStoredDuplicates(t *testing.T) {
	fx := createTestFavoritesService(t)
	ctx := context.Background()

	// Simulate a legacy row that accumulated duplicates.
	fx.store.profiles[fx.userID].FavoriteMovies = []int64{7, 7, 3, 7, 3}

	out, err := fx.service.Add(ctx, fx.userID, entity.MediaKindMovie, 9)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 3, 9}, out.IDs)
}

func TestFavoritesService_ConcurrentTogglesConverge(t *testing.T) {
	fx := createTestFavoritesService(t)
	ctx := context.Background()

	// An even number of toggles of the same ID must always land on "absent".
	const rounds = 8
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.service.Toggle(ctx, fx.userID, entity.MediaKindMovie, 550)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	out, err := fx.service.Fetch(ctx, fx.userID, entity.MediaKindMovie)
	require.NoError(t, err)
	assert.Empty(t, out.IDs)
}

func TestFavoritesService_Fetch_MissingProfileIsEmpty(t *testing.T) {
	fx := createTestFavoritesService(t)

	// Reads never fail for accounts that have no profile row yet.
	out, err := fx.service.Fetch(context.Background(), uuid.New(), entity.MediaKindMovie)

	require.NoError(t, err)
	assert.NotNil(t, out.IDs)
	assert.Empty(t, out.IDs)
}

func TestFavoritesService_MissingProfileIsCreatedOnWrite(t *testing.T) {
	fx := createTestFavoritesService(t)
	orphanID := uuid.New()

	// A write for an account without a profile row creates the row first.
	out, err := fx.service.Add(context.Background(), orphanID, entity.MediaKindMovie, 1)

	require.NoError(t, err)
	assert.Equal(t, []int64{1}, out.IDs)

	profile, ok := fx.store.profiles[orphanID]
	require.True(t, ok)
	assert.Equal(t, []int64{1}, profile.FavoriteMovies)
	assert.NotNil(t, profile.FavoriteTV)
	assert.Empty(t, profile.FavoriteTV)
}
