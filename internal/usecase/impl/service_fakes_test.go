package impl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"cinevault/config"
	"cinevault/internal/domain/entity"
	"cinevault/internal/domain/repository"
	"cinevault/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(maxActiveSessions int) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:        12,
			MaxActiveSessions: maxActiveSessions,
			MFA: &config.MFAConfig{
				Issuer:       "CineVault Test",
				ChallengeTTL: 5 * time.Minute,
				MaxAttempts:  5,
			},
		},
	}
}

// --- In-memory repository fakes ---
//
// The fakes back every repository with maps behind one mutex, so tests can
// exercise the services end to end without a database.

type fakeStore struct {
	mu sync.Mutex

	users     map[uuid.UUID]*entity.User
	profiles  map[uuid.UUID]*entity.UserProfile
	auths     map[uuid.UUID]*entity.Authentication
	tokens    map[uuid.UUID]*entity.RefreshToken
	factors   map[uuid.UUID]*entity.Factor
	challenge map[uuid.UUID]*entity.Challenge
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[uuid.UUID]*entity.User),
		profiles:  make(map[uuid.UUID]*entity.UserProfile),
		auths:     make(map[uuid.UUID]*entity.Authentication),
		tokens:    make(map[uuid.UUID]*entity.RefreshToken),
		factors:   make(map[uuid.UUID]*entity.Factor),
		challenge: make(map[uuid.UUID]*entity.Challenge),
	}
}

// fakeTxManager runs the transactional function directly against the store.
type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(&fakeRepoFactory{store: m.store})
}

type fakeRepoFactory struct {
	store *fakeStore
}

func (f *fakeRepoFactory) UserRepo() repository.UserRepository {
	return &fakeUserRepo{store: f.store}
}

func (f *fakeRepoFactory) ProfileRepo() repository.ProfileRepository {
	return &fakeProfileRepo{store: f.store}
}

func (f *fakeRepoFactory) AuthRepo() repository.AuthRepository {
	return &fakeAuthRepo{store: f.store}
}

func (f *fakeRepoFactory) FactorRepo() repository.FactorRepository {
	return &fakeFactorRepo{store: f.store}
}

func (f *fakeRepoFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	return &fakeRefreshTokenRepo{store: f.store}
}

type fakeUserRepo struct {
	store *fakeStore
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user

	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, user := range r.store.users {
		if user.Email == email {
			copied := *user

			return &copied, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	copied := *user
	r.store.users[user.ID] = &copied

	if user.UserProfile != nil {
		profile := *user.UserProfile
		profile.UserID = user.ID
		r.store.profiles[user.ID] = &profile
	}

	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	copied := *user
	r.store.users[user.ID] = &copied

	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.store.users, id)

	return nil
}

func (r *fakeUserRepo) AcquireSessionMutex(ctx context.Context, id uuid.UUID) error {
	return nil
}

type fakeProfileRepo struct {
	store *fakeStore
}

func (r *fakeProfileRepo) CreateProfile(ctx context.Context, profile *entity.UserProfile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.profiles[profile.UserID]; ok {
		// Mirrors the real repository: duplicate creates are tolerated.
		return nil
	}
	copied := *profile
	r.store.profiles[profile.UserID] = &copied

	return nil
}

func (r *fakeProfileRepo) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*entity.UserProfile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	profile, ok := r.store.profiles[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	copied := *profile
	copied.FavoriteMovies = slices.Clone(profile.FavoriteMovies)
	copied.FavoriteTV = slices.Clone(profile.FavoriteTV)

	return &copied, nil
}

func (r *fakeProfileRepo) UpdateProfile(ctx context.Context, profile *entity.UserProfile) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.profiles[profile.UserID]
	if !ok {
		return repository.ErrProfileNotFound
	}
	existing.AvatarURL = profile.AvatarURL
	existing.Bio = profile.Bio
	existing.UpdatedAt = time.Now()

	return nil
}

func (r *fakeProfileRepo) UpdateFavorites(ctx context.Context, userID uuid.UUID, kind entity.MediaKind, ids []int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	profile, ok := r.store.profiles[userID]
	if !ok {
		return repository.ErrProfileNotFound
	}
	profile.SetFavorites(kind, slices.Clone(ids))
	profile.UpdatedAt = time.Now()

	return nil
}

type fakeAuthRepo struct {
	store *fakeStore
}

func (r *fakeAuthRepo) CreateAuthentication(ctx context.Context, auth *entity.Authentication) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if auth.ID == uuid.Nil {
		auth.ID = uuid.New()
	}
	auth.CreatedAt = time.Now()
	copied := *auth
	r.store.auths[auth.ID] = &copied

	return nil
}

func (r *fakeAuthRepo) FindAuthentication(ctx context.Context, provider string, providerUserID string) (*entity.Authentication, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, auth := range r.store.auths {
		if auth.Provider == provider && auth.ProviderUserID == providerUserID {
			copied := *auth

			return &copied, nil
		}
	}

	return nil, repository.ErrAuthNotFound
}

func (r *fakeAuthRepo) FindAuthenticationsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Authentication, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*entity.Authentication
	for _, auth := range r.store.auths {
		if auth.UserID == userID {
			copied := *auth
			out = append(out, &copied)
		}
	}

	return out, nil
}

func (r *fakeAuthRepo) UpdatePasswordHash(ctx context.Context, authID uuid.UUID, passwordHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	auth, ok := r.store.auths[authID]
	if !ok {
		return repository.ErrAuthNotFound
	}
	auth.PasswordHash = passwordHash

	return nil
}

func (r *fakeAuthRepo) DeleteAuthenticationsByUserID(ctx context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, auth := range r.store.auths {
		if auth.UserID == userID {
			delete(r.store.auths, id)
		}
	}

	return nil
}

type fakeRefreshTokenRepo struct {
	store *fakeStore
}

func (r *fakeRefreshTokenRepo) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.CreatedAt = time.Now()
	copied := *token
	r.store.tokens[token.ID] = &copied

	return nil
}

func (r *fakeRefreshTokenRepo) FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, token := range r.store.tokens {
		if token.TokenHash == tokenHash {
			if token.ExpiresAt.Before(time.Now()) {
				return nil, repository.ErrRefreshTokenExpired
			}
			copied := *token

			return &copied, nil
		}
	}

	return nil, repository.ErrRefreshTokenNotFound
}

func (r *fakeRefreshTokenRepo) FindRefreshTokenByID(ctx context.Context, id uuid.UUID) (*entity.RefreshToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	token, ok := r.store.tokens[id]
	if !ok {
		return nil, repository.ErrRefreshTokenNotFound
	}
	copied := *token

	return &copied, nil
}

func (r *fakeRefreshTokenRepo) FindRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*entity.RefreshToken
	for _, token := range r.store.tokens {
		if token.UserID == userID && token.ExpiresAt.After(time.Now()) {
			copied := *token
			out = append(out, &copied)
		}
	}

	return out, nil
}

func (r *fakeRefreshTokenRepo) DeleteRefreshToken(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.tokens[id]; !ok {
		return repository.ErrRefreshTokenNotFound
	}
	delete(r.store.tokens, id)

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, token := range r.store.tokens {
		if token.TokenHash == tokenHash {
			delete(r.store.tokens, id)

			return nil
		}
	}

	return repository.ErrRefreshTokenNotFound
}

func (r *fakeRefreshTokenRepo) DeleteRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, token := range r.store.tokens {
		if token.UserID == userID {
			delete(r.store.tokens, id)
		}
	}

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpiredRefreshTokens(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, token := range r.store.tokens {
		if token.ExpiresAt.Before(time.Now()) {
			delete(r.store.tokens, id)
		}
	}

	return nil
}

func (r *fakeRefreshTokenRepo) CountActiveSessionsByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	count := 0
	for _, token := range r.store.tokens {
		if token.UserID == userID && token.ExpiresAt.After(time.Now()) {
			count++
		}
	}

	return count, nil
}

type fakeFactorRepo struct {
	store *fakeStore
}

func (r *fakeFactorRepo) CreateFactor(ctx context.Context, factor *entity.Factor) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if factor.ID == uuid.Nil {
		factor.ID = uuid.New()
	}
	factor.CreatedAt = time.Now()
	copied := *factor
	r.store.factors[factor.ID] = &copied

	return nil
}

func (r *fakeFactorRepo) FindFactorByID(ctx context.Context, id uuid.UUID) (*entity.Factor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	factor, ok := r.store.factors[id]
	if !ok {
		return nil, repository.ErrFactorNotFound
	}
	copied := *factor

	return &copied, nil
}

func (r *fakeFactorRepo) FindFactorsByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Factor, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []*entity.Factor
	for _, factor := range r.store.factors {
		if factor.UserID == userID {
			copied := *factor
			out = append(out, &copied)
		}
	}

	return out, nil
}

func (r *fakeFactorRepo) UpdateFactor(ctx context.Context, factor *entity.Factor) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.factors[factor.ID]; !ok {
		return repository.ErrFactorNotFound
	}
	copied := *factor
	copied.UpdatedAt = time.Now()
	r.store.factors[factor.ID] = &copied

	return nil
}

func (r *fakeFactorRepo) DeleteFactor(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.factors[id]; !ok {
		return repository.ErrFactorNotFound
	}
	delete(r.store.factors, id)

	return nil
}

func (r *fakeFactorRepo) DeleteUnverifiedFactorsByUserID(ctx context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, factor := range r.store.factors {
		if factor.UserID == userID && factor.Status == entity.FactorStatusUnverified {
			delete(r.store.factors, id)
		}
	}

	return nil
}

func (r *fakeFactorRepo) DeleteFactorsByUserID(ctx context.Context, userID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, factor := range r.store.factors {
		if factor.UserID == userID {
			delete(r.store.factors, id)
		}
	}

	return nil
}

func (r *fakeFactorRepo) CreateChallenge(ctx context.Context, challenge *entity.Challenge) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if challenge.ID == uuid.Nil {
		challenge.ID = uuid.New()
	}
	challenge.CreatedAt = time.Now()
	copied := *challenge
	r.store.challenge[challenge.ID] = &copied

	return nil
}

func (r *fakeFactorRepo) FindChallengeByID(ctx context.Context, id uuid.UUID) (*entity.Challenge, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	challenge, ok := r.store.challenge[id]
	if !ok {
		return nil, repository.ErrChallengeNotFound
	}
	copied := *challenge

	return &copied, nil
}

func (r *fakeFactorRepo) UpdateChallenge(ctx context.Context, challenge *entity.Challenge) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.challenge[challenge.ID]; !ok {
		return repository.ErrChallengeNotFound
	}
	copied := *challenge
	r.store.challenge[challenge.ID] = &copied

	return nil
}

func (r *fakeFactorRepo) DeleteChallenge(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.challenge[id]; !ok {
		return repository.ErrChallengeNotFound
	}
	delete(r.store.challenge, id)

	return nil
}

func (r *fakeFactorRepo) DeleteExpiredChallenges(ctx context.Context, cutoff time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var purged int64
	for id, challenge := range r.store.challenge {
		if challenge.ExpiresAt.Before(cutoff) {
			delete(r.store.challenge, id)
			purged++
		}
	}

	return purged, nil
}

// --- Service fakes ---

// fakeHasher marks hashes with a prefix instead of running bcrypt.
type fakeHasher struct {
	strengthErr error
}

func (h *fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (h *fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

func (h *fakeHasher) ValidatePasswordStrength(password string) error {
	return h.strengthErr
}

// fakeTokenService mints predictable tokens of the form
// "access|<userID>|<level>" so tests can assert on the carried level.
type fakeTokenService struct{}

func (s *fakeTokenService) GenerateTokens(userID uuid.UUID, level entity.AssuranceLevel) (string, string, error) {
	return "access|" + userID.String() + "|" + level.String(),
		"refresh|" + userID.String() + "|" + level.String() + "|" + uuid.NewString(),
		nil
}

func (s *fakeTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	parts := splitToken(tokenString)
	if parts == nil {
		return nil, errors.New("malformed token")
	}

	return parts, nil
}

func (s *fakeTokenService) HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))

	return hex.EncodeToString(sum[:])
}

func (s *fakeTokenService) GetRefreshTokenDuration() time.Duration {
	return 7 * 24 * time.Hour
}

func splitToken(token string) *service.Claims {
	parts := strings.Split(token, "|")
	if len(parts) < 3 || (parts[0] != "access" && parts[0] != "refresh") {
		return nil
	}

	userID, err := uuid.Parse(parts[1])
	if err != nil {
		return nil
	}
	level := entity.AssuranceLevel(parts[2])
	if !level.IsValid() {
		level = entity.AAL1
	}

	return &service.Claims{UserID: userID, Level: level, Type: parts[0]}
}

// fakeOAuthService returns a canned Google user.
type fakeOAuthService struct {
	user *service.OAuthUser
	err  error
}

func (s *fakeOAuthService) VerifyIDToken(ctx context.Context, idToken string) (*service.OAuthUser, error) {
	if s.err != nil {
		return nil, s.err
	}

	return s.user, nil
}

func (s *fakeOAuthService) GetProvider() entity.ProviderType {
	return entity.ProviderTypeGoogle
}

// fakeTOTPService accepts exactly one code per secret.
type fakeTOTPService struct{}

func (s *fakeTOTPService) GenerateKey(accountName string) (*service.TOTPKey, error) {
	secret := "SECRET" + accountName
	uri := "otpauth://totp/CineVault%20Test:" + accountName + "?secret=" + secret

	return &service.TOTPKey{Secret: secret, URI: uri}, nil
}

func (s *fakeTOTPService) Validate(code, secret string) bool {
	return code == "code-for-"+secret
}

func (s *fakeTOTPService) NormalizeURI(uri string) (string, error) {
	return uri, nil
}

// fakeQRCodeService returns a fixed byte slice instead of rendering a PNG.
type fakeQRCodeService struct {
	err error
}

func (s *fakeQRCodeService) GenerateProvisioningQR(uri string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}

	return []byte("png:" + uri), nil
}
