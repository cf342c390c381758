package impl

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	deliverycontext "cinevault/internal/delivery/context"
	"cinevault/internal/domain/entity"
	domainerrors "cinevault/internal/domain/errors"
	"cinevault/internal/domain/repository"
	"cinevault/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// favoritesService implements the FavoritesUsecase interface.
//
// Every mutation is a read-modify-write of one jsonb column. Two concurrent
// writers reading the same snapshot would silently drop each other's change,
// so writes to a user's favorites are serialized: a per-user mutex in this
// process, plus the transaction around the read and the write.
type favoritesService struct {
	txManager   repository.TransactionManager
	profileRepo repository.ProfileRepository
	logger      *slog.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// FavoritesServiceParams holds dependencies for FavoritesService, injected by Fx.
type FavoritesServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ProfileRepo repository.ProfileRepository
	Logger      *slog.Logger
}

// NewFavoritesService is the constructor for favoritesService.
func NewFavoritesService(params FavoritesServiceParams) usecase.FavoritesUsecase {
	return &favoritesService{
		txManager:   params.TxManager,
		profileRepo: params.ProfileRepo,
		logger:      params.Logger,
		locks:       make(map[uuid.UUID]*sync.Mutex),
	}
}

func (srv *favoritesService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// userLock returns the mutex serializing favorites writes for one user.
func (srv *favoritesService) userLock(userID uuid.UUID) *sync.Mutex {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	lock, ok := srv.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		srv.locks[userID] = lock
	}

	return lock
}

// Fetch returns the current partition for the given kind.
func (srv *favoritesService) Fetch(ctx context.Context, userID uuid.UUID, kind entity.MediaKind) (*usecase.FavoritesOutput, error) {
	if !kind.IsValid() {
		return nil, domainerrors.ErrInvalidMediaKind
	}

	profile, err := srv.profileRepo.FindProfileByUserID(ctx, userID)
	if err != nil {
		// An account without a profile row simply has no favorites yet.
		if errors.Is(err, repository.ErrProfileNotFound) {
			return &usecase.FavoritesOutput{Kind: kind, IDs: []int64{}}, nil
		}

		srv.log(ctx).Warn("Failed to fetch favorites", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to fetch favorites")
	}

	return &usecase.FavoritesOutput{
		Kind: kind,
		IDs:  normalizeIDs(profile.Favorites(kind)),
	}, nil
}

// Toggle removes the ID if present, adds it otherwise.
func (srv *favoritesService) Toggle(ctx context.Context, userID uuid.UUID, kind entity.MediaKind, mediaID int64) (*usecase.FavoritesOutput, error) {
	return srv.mutate(ctx, userID, kind, func(ids []int64) []int64 {
		if slices.Contains(ids, mediaID) {
			return removeID(ids, mediaID)
		}

		return append(ids, mediaID)
	})
}

// Add inserts the ID if absent; adding a present ID is a no-op.
func (srv *favoritesService) Add(ctx context.Context, userID uuid.UUID, kind entity.MediaKind, mediaID int64) (*usecase.FavoritesOutput, error) {
	return srv.mutate(ctx, userID, kind, func(ids []int64) []int64 {
		if slices.Contains(ids, mediaID) {
			return ids
		}

		return append(ids, mediaID)
	})
}

// Remove deletes the ID if present; removing an absent ID is a no-op.
func (srv *favoritesService) Remove(ctx context.Context, userID uuid.UUID, kind entity.MediaKind, mediaID int64) (*usecase.FavoritesOutput, error) {
	return srv.mutate(ctx, userID, kind, func(ids []int64) []int64 {
		return removeID(ids, mediaID)
	})
}

// mutate runs one serialized read-modify-write cycle against a single partition.
func (srv *favoritesService) mutate(ctx context.Context, userID uuid.UUID, kind entity.MediaKind, apply func([]int64) []int64) (*usecase.FavoritesOutput, error) {
	if !kind.IsValid() {
		return nil, domainerrors.ErrInvalidMediaKind
	}

	lock := srv.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	var updated []int64

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		profileRepo := repoFactory.ProfileRepo()

		profile, err := profileRepo.FindProfileByUserID(ctx, userID)
		if errors.Is(err, repository.ErrProfileNotFound) {
			// An account that never got a profile row gets one on first write.
			profile = &entity.UserProfile{
				UserID:         userID,
				FavoriteMovies: []int64{},
				FavoriteTV:     []int64{},
			}
			if err := profileRepo.CreateProfile(ctx, profile); err != nil {
				return errors.Wrap(err, "failed to create profile for favorites update")
			}
		} else if err != nil {
			return errors.Wrap(err, "failed to load profile for favorites update")
		}

		next := apply(normalizeIDs(profile.Favorites(kind)))
		next = normalizeIDs(next)

		if err := profileRepo.UpdateFavorites(ctx, userID, kind, next); err != nil {
			return errors.Wrap(err, "failed to write favorites")
		}

		updated = next

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Favorites update failed",
			slog.Any("userID", userID),
			slog.String("kind", kind.String()),
			slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute favorites transaction")
	}

	return &usecase.FavoritesOutput{Kind: kind, IDs: updated}, nil
}

// normalizeIDs deduplicates while preserving first-seen order and never
// returns nil, so callers always see a well-formed set.
func normalizeIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}

func removeID(ids []int64, mediaID int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id != mediaID {
			out = append(out, id)
		}
	}

	return out
}
