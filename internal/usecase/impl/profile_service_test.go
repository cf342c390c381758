package impl

import (
	"context"
	"testing"

	"cinevault/internal/domain/entity"
	"cinevault/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profileFixtures struct {
	service usecase.ProfileUsecase
	store   *fakeStore
}

func createTestProfileService(t *testing.T) profileFixtures {
	t.Helper()

	store := newFakeStore()
	svc := NewProfileService(ProfileServiceParams{
		TxManager:   &fakeTxManager{store: store},
		ProfileRepo: &fakeProfileRepo{store: store},
		Logger:      newDiscardLogger(),
	})

	return profileFixtures{service: svc, store: store}
}

func TestProfileService_EnsureProfile_CreatesMissingRow(t *testing.T) {
	fx := createTestProfileService(t)
	userID := uuid.New()

	profile, err := fx.service.EnsureProfile(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, userID, profile.UserID)
	assert.NotNil(t, profile.FavoriteMovies)
	assert.NotNil(t, profile.FavoriteTV)
	assert.Empty(t, profile.FavoriteMovies)
}

func TestProfileService_EnsureProfile_IsIdempotent(t *testing.T) {
	fx := createTestProfileService(t)
	userID := uuid.New()
	ctx := context.Background()

	first, err := fx.service.EnsureProfile(ctx, userID)
	require.NoError(t, err)

	// Mutate the stored row so a second call provably returns it
	// instead of recreating.
	fx.store.profiles[userID].Bio = "already here"

	second, err := fx.service.EnsureProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID)
	assert.Equal(t, "already here", second.Bio)
	assert.Len(t, fx.store.profiles, 1)
}

func TestProfileService_GetProfile(t *testing.T) {
	fx := createTestProfileService(t)
	userID := uuid.New()
	fx.store.profiles[userID] = &entity.UserProfile{
		UserID:         userID,
		Bio:            "movie buff",
		FavoriteMovies: []int64{603},
		FavoriteTV:     []int64{},
	}

	profile, err := fx.service.GetProfile(context.Background(), userID)

	require.NoError(t, err)
	assert.Equal(t, "movie buff", profile.Bio)
	assert.Equal(t, []int64{603}, profile.FavoriteMovies)
}

func TestProfileService_GetProfile_NotFound(t *testing.T) {
	fx := createTestProfileService(t)

	_, err := fx.service.GetProfile(context.Background(), uuid.New())

	assert.Error(t, err)
}

func TestProfileService_UpdateProfile(t *testing.T) {
	fx := createTestProfileService(t)
	userID := uuid.New()
	fx.store.profiles[userID] = &entity.UserProfile{
		UserID:         userID,
		AvatarURL:      "https://old.example.com/a.png",
		Bio:            "old bio",
		FavoriteMovies: []int64{603},
		FavoriteTV:     []int64{},
	}

	newBio := "new bio"
	updated, err := fx.service.UpdateProfile(context.Background(), userID, &usecase.UpdateProfileInput{
		Bio: &newBio,
	})

	require.NoError(t, err)
	assert.Equal(t, "new bio", updated.Bio)

	// Fields left nil in the input are untouched.
	assert.Equal(t, "https://old.example.com/a.png", updated.AvatarURL)

	// Favorites are never writable through the profile update path.
	assert.Equal(t, []int64{603}, fx.store.profiles[userID].FavoriteMovies)
}

func TestProfileService_UpdateProfile_NotFound(t *testing.T) {
	fx := createTestProfileService(t)

	bio := "anything"
	_, err := fx.service.UpdateProfile(context.Background(), uuid.New(), &usecase.UpdateProfileInput{Bio: &bio})

	assert.Error(t, err)
}
