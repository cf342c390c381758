// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"cinevault/config"
	deliverycontext "cinevault/internal/delivery/context"
	"cinevault/internal/domain/entity"
	domainerrors "cinevault/internal/domain/errors"
	"cinevault/internal/domain/repository"
	"cinevault/internal/domain/service"
	"cinevault/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager         repository.TransactionManager
	userRepo          repository.UserRepository
	authRepo          repository.AuthRepository
	refreshTokenRepo  repository.RefreshTokenRepository
	hasher            service.PasswordHasher
	tokenService      service.TokenService
	googleAuthService service.OAuthAuthService
	maxActiveSessions int
	logger            *slog.Logger
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager         repository.TransactionManager
	UserRepo          repository.UserRepository
	AuthRepo          repository.AuthRepository
	RefreshTokenRepo  repository.RefreshTokenRepository
	Hasher            service.PasswordHasher
	TokenService      service.TokenService
	GoogleAuthService service.OAuthAuthService
	Config            *config.Config
	Logger            *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	maxActiveSessions := 0
	if params.Config != nil && params.Config.Auth != nil {
		maxActiveSessions = params.Config.Auth.MaxActiveSessions
	}

	return &userService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		authRepo:          params.AuthRepo,
		refreshTokenRepo:  params.RefreshTokenRepo,
		hasher:            params.Hasher,
		tokenService:      params.TokenService,
		googleAuthService: params.GoogleAuthService,
		maxActiveSessions: maxActiveSessions,
		logger:            params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterUser orchestrates the complete user registration process. A fresh
// account gets a user row, an email credential and an empty profile in one
// transaction.
func (srv *userService) RegisterUser(ctx context.Context, input *usecase.RegisterUserInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	var registeredUser *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		authRepo := repoFactory.AuthRepo()

		_, err := authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail.String(), input.Email)
		if err == nil {
			return domainerrors.ErrUserAlreadyExists.WrapMessage("email already registered")
		}
		if !errors.Is(err, repository.ErrAuthNotFound) {
			return errors.Wrap(err, "failed to find authentication")
		}

		if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
			srv.log(ctx).Warn("Password validation failed during registration", slog.String("email", input.Email), slog.Any("error", err))

			return errors.Wrap(domainerrors.ErrValidationFailed, "password does not meet security requirements")
		}

		hashedPassword, err := srv.hasher.Hash(input.Password)
		if err != nil {
			srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

			return errors.Wrap(err, "failed to hash password during registration")
		}

		newUser := &entity.User{
			Name:  input.Name,
			Email: input.Email,
			UserProfile: &entity.UserProfile{
				FavoriteMovies: []int64{},
				FavoriteTV:     []int64{},
			},
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		newAuth := &entity.Authentication{
			UserID:         newUser.ID,
			Provider:       entity.ProviderTypeEmail.String(),
			ProviderUserID: input.Email,
			PasswordHash:   hashedPassword,
		}

		if err := authRepo.CreateAuthentication(ctx, newAuth); err != nil {
			return errors.Wrap(err, "failed to create authentication during registration")
		}

		registeredUser = newUser

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to execute registration transaction", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute user registration transaction")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", registeredUser.ID))

	return &usecase.RegisterOutput{User: registeredUser}, nil
}

// Login orchestrates the user login process. Successful logins start at aal1;
// a second-factor verification upgrades the session later.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Debug("Starting user login", slog.String("email", input.Email))

	authRecord, err := srv.loadLoginAuth(ctx, input.Email)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

		if errors.Is(err, domainerrors.ErrInvalidCredentials) {
			return nil, errors.Wrap(err, "login failed")
		}

		return nil, errors.Wrap(err, "failed to load login authentication")
	}

	// Check password outside transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.Password, authRecord.PasswordHash) {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", domainerrors.ErrInvalidCredentials))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
	}

	loggedInUser, err := srv.loadLoginUser(ctx, authRecord.UserID)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to load login user")
	}

	// Generate new tokens outside transaction.
	accessToken, refreshTokenString, err := srv.tokenService.GenerateTokens(loggedInUser.ID, entity.AAL1)
	if err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	// Store refresh token.
	if err := srv.persistLoginRefreshToken(ctx, loggedInUser.ID, refreshTokenString); err != nil {
		srv.log(ctx).Warn("Login failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create refresh token during login")
	}
	srv.log(ctx).Debug("User logged in successfully", slog.Any("userID", loggedInUser.ID))

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		User:         loggedInUser,
	}, nil
}

func (srv *userService) loadLoginAuth(ctx context.Context, email string) (*entity.Authentication, error) {
	var authRecord *entity.Authentication

	// Load authentication from primary in a short transaction to avoid stale reads on replicas.
	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		authRepo := repoFactory.AuthRepo()

		var findAuthErr error
		authRecord, findAuthErr = authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail.String(), email)
		if findAuthErr != nil {
			if errors.Is(findAuthErr, repository.ErrAuthNotFound) {
				return errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed")
			}

			return errors.Wrap(findAuthErr, "failed to find authentication")
		}

		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "failed to execute login auth transaction")
	}

	return authRecord, nil
}

func (srv *userService) loadLoginUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	var loggedInUser *entity.User

	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		var findUserErr error
		loggedInUser, findUserErr = userRepo.FindByID(ctx, userID)
		if findUserErr != nil {
			return errors.Wrap(findUserErr, "failed to find user by id")
		}

		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "failed to execute login user transaction")
	}

	return loggedInUser, nil
}

func (srv *userService) persistLoginRefreshToken(ctx context.Context, userID uuid.UUID, refreshTokenString string) error {
	if srv.maxActiveSessions > 0 {
		// When session limit is enabled, keep lock/count/insert in one short transaction.
		if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
			return srv.storeRefreshToken(ctx, repoFactory, userID, refreshTokenString)
		}); err != nil {
			return errors.Wrap(err, "failed to execute user login transaction")
		}

		return nil
	}

	// No session limit: direct insert avoids unnecessary transaction overhead.
	if err := srv.storeRefreshTokenWithRepo(ctx, srv.refreshTokenRepo, userID, refreshTokenString); err != nil {
		return errors.Wrap(err, "failed to create refresh token during login")
	}

	return nil
}

// GoogleCallback handles the user login or registration via Google Sign-In.
func (srv *userService) GoogleCallback(ctx context.Context, input *usecase.GoogleCallbackInput) (*usecase.LoginOutput, error) {
	srv.log(ctx).Info("Handling Google callback")

	// Verify the ID token with Google.
	oauthUser, err := srv.googleAuthService.VerifyIDToken(ctx, input.IDToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to verify Google ID token")
	}

	var loggedInUser *entity.User
	var accessToken, refreshTokenString string

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		user, err := srv.findOrCreateGoogleUser(ctx, repoFactory, oauthUser)
		if err != nil {
			return err
		}
		loggedInUser = user

		accessToken, refreshTokenString, err = srv.tokenService.GenerateTokens(user.ID, entity.AAL1)
		if err != nil {
			return errors.Wrap(err, "failed to generate tokens for google auth")
		}

		return srv.storeRefreshToken(ctx, repoFactory, user.ID, refreshTokenString)
	})

	if err != nil {
		return nil, errors.Wrap(err, "failed to execute Google user authentication transaction")
	}

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		User:         loggedInUser,
	}, nil
}

// findOrCreateGoogleUser finds existing user or creates new one for Google authentication
func (srv *userService) findOrCreateGoogleUser(ctx context.Context, repoFactory repository.RepositoryFactory, oauthUser *service.OAuthUser) (*entity.User, error) {
	authRepo := repoFactory.AuthRepo()
	userRepo := repoFactory.UserRepo()

	// Try to find existing authentication record
	authRecord, err := authRepo.FindAuthentication(ctx, entity.ProviderTypeGoogle.String(), oauthUser.ID)
	if err != nil && !errors.Is(err, repository.ErrAuthNotFound) {
		return nil, errors.Wrap(err, "failed to find authentication")
	}

	// If user doesn't exist, create new one
	if errors.Is(err, repository.ErrAuthNotFound) {
		srv.log(ctx).Info("Google user not found, creating new user", slog.String("email", oauthUser.Email))

		newUser := &entity.User{
			Name:  oauthUser.Name,
			Email: oauthUser.Email,
			UserProfile: &entity.UserProfile{
				AvatarURL:      oauthUser.AvatarURL,
				FavoriteMovies: []int64{},
				FavoriteTV:     []int64{},
			},
		}

		if err := userRepo.Create(ctx, newUser); err != nil {
			return nil, errors.Wrap(err, "failed to create user for Google authentication")
		}

		newAuth := &entity.Authentication{
			UserID:         newUser.ID,
			Provider:       entity.ProviderTypeGoogle.String(),
			ProviderUserID: oauthUser.ID,
		}

		if err := authRepo.CreateAuthentication(ctx, newAuth); err != nil {
			return nil, errors.Wrap(err, "failed to create Google authentication")
		}

		return newUser, nil
	}

	srv.log(ctx).Info("Found existing Google user", slog.Any("userID", authRecord.UserID))

	user, err := userRepo.FindByID(ctx, authRecord.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find user by id for google auth")
	}

	return user, nil
}

// RefreshToken handles the process of issuing a new access token using a refresh token.
// The refresh token remains unchanged, and the new access token keeps the
// assurance level the session had when the refresh token was minted.
func (srv *userService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	srv.log(ctx).Info("Attempting to refresh access token")

	claims, err := srv.tokenService.ValidateToken(input.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "invalid refresh token")
	}

	var newAccessToken string

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		refreshRepo := repoFactory.RefreshTokenRepo()

		// Verify the refresh token exists in the database.
		tokenHash := srv.tokenService.HashToken(input.RefreshToken)

		if _, err := refreshRepo.FindRefreshTokenByHash(ctx, tokenHash); err != nil {
			return errors.Wrap(err, "refresh token not found or expired")
		}

		user, err := userRepo.FindByID(ctx, claims.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to find user")
		}

		// Generate only a new access token (refresh token remains unchanged).
		newAccessToken, _, err = srv.tokenService.GenerateTokens(user.ID, claims.Level)
		if err != nil {
			return errors.Wrap(err, "failed to generate new access token")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to execute refresh token transaction", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute refresh token transaction")
	}

	return &usecase.RefreshTokenOutput{
		AccessToken: newAccessToken,
	}, nil
}

// Logout handles the process of invalidating a user's session by deleting their refresh token.
func (srv *userService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	srv.log(ctx).Info("Attempting to log out")

	if _, err := srv.tokenService.ValidateToken(input.RefreshToken); err != nil {
		// Even if the token is invalid, we can proceed to delete it from the database.
		srv.log(ctx).Warn("Logout with invalid token", slog.Any("error", err))
	}

	tokenHash := srv.tokenService.HashToken(input.RefreshToken)

	// Single operation - use direct repository instance
	if err := srv.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, tokenHash); err != nil {
		srv.log(ctx).Error("Failed to delete refresh token", slog.Any("error", err))

		return errors.Wrap(err, "failed to delete refresh token")
	}
	srv.log(ctx).Info("Successfully logged out")

	return nil
}

// LogoutAllDevices handles the process of invalidating all user sessions by deleting all refresh tokens.
func (srv *userService) LogoutAllDevices(ctx context.Context, userID uuid.UUID) error {
	srv.log(ctx).Info("Attempting to log out from all devices", slog.Any("userID", userID))

	if err := srv.refreshTokenRepo.DeleteRefreshTokensByUserID(ctx, userID); err != nil {
		srv.log(ctx).Error("Failed to delete all refresh tokens", slog.Any("error", err), slog.Any("userID", userID))

		return errors.Wrap(err, "failed to delete all refresh tokens")
	}
	srv.log(ctx).Info("Successfully logged out from all devices", slog.Any("userID", userID))

	return nil
}

// GetActiveSessions retrieves all active sessions for a user.
func (srv *userService) GetActiveSessions(ctx context.Context, userID uuid.UUID) ([]*entity.RefreshToken, error) {
	srv.log(ctx).Debug("Getting active sessions", slog.Any("userID", userID))

	sessions, err := srv.refreshTokenRepo.FindRefreshTokensByUserID(ctx, userID)
	if err != nil {
		srv.log(ctx).Error("Failed to get active sessions", slog.Any("error", err), slog.Any("userID", userID))

		return nil, errors.Wrap(err, "failed to get active sessions")
	}

	return sessions, nil
}

// RevokeSession revokes a specific session by refresh token ID.
func (srv *userService) RevokeSession(ctx context.Context, userID, tokenID uuid.UUID) error {
	srv.log(ctx).Info("Attempting to revoke session", slog.Any("userID", userID), slog.Any("tokenID", tokenID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		refreshRepo := repoFactory.RefreshTokenRepo()

		// Verify the token belongs to the user before deleting
		token, err := refreshRepo.FindRefreshTokenByID(ctx, tokenID)
		if err != nil {
			return errors.Wrap(err, "failed to find refresh token")
		}

		if token.UserID != userID {
			return errors.Wrap(domainerrors.ErrForbidden, "token does not belong to user")
		}

		if err := refreshRepo.DeleteRefreshToken(ctx, tokenID); err != nil {
			return errors.Wrap(err, "failed to delete refresh token")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to revoke session", slog.Any("error", err), slog.Any("userID", userID), slog.Any("tokenID", tokenID))

		return errors.Wrap(err, "failed to revoke session")
	}
	srv.log(ctx).Info("Successfully revoked session", slog.Any("userID", userID), slog.Any("tokenID", tokenID))

	return nil
}

// ChangePassword rewrites the email credential's hash for an authenticated
// user. Accounts that only ever signed in through Google have no password to
// change, which is reported the same way as a wrong current password.
func (srv *userService) ChangePassword(ctx context.Context, userID uuid.UUID, input *usecase.ChangePasswordInput) error {
	srv.log(ctx).Info("Attempting to change password", slog.Any("userID", userID))

	auths, err := srv.authRepo.FindAuthenticationsByUserID(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "failed to load credentials for password change")
	}

	var emailAuth *entity.Authentication
	for _, auth := range auths {
		if auth.Provider == entity.ProviderTypeEmail.String() {
			emailAuth = auth

			break
		}
	}
	if emailAuth == nil {
		srv.log(ctx).Warn("Password change without email credential", slog.Any("userID", userID))

		return errors.Wrap(domainerrors.ErrInvalidCredentials, "account has no password credential")
	}

	// Check the current password outside any transaction (bcrypt is CPU-bound).
	if !srv.hasher.Check(input.OldPassword, emailAuth.PasswordHash) {
		srv.log(ctx).Warn("Password change with wrong current password", slog.Any("userID", userID))

		return errors.Wrap(domainerrors.ErrInvalidCredentials, "current password is incorrect")
	}

	if err := srv.hasher.ValidatePasswordStrength(input.NewPassword); err != nil {
		srv.log(ctx).Warn("Password validation failed during password change", slog.Any("userID", userID), slog.Any("error", err))

		return errors.Wrap(domainerrors.ErrValidationFailed, "password does not meet security requirements")
	}

	newHash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during password change", slog.Any("error", err))

		return errors.Wrap(err, "failed to hash password during password change")
	}

	if err := srv.authRepo.UpdatePasswordHash(ctx, emailAuth.ID, newHash); err != nil {
		srv.log(ctx).Error("Failed to update password hash", slog.Any("error", err), slog.Any("userID", userID))

		return errors.Wrap(err, "failed to update password hash")
	}
	srv.log(ctx).Info("Password changed", slog.Any("userID", userID))

	return nil
}

// DeleteAccount revokes every session, removes credentials and second factors,
// and soft-deletes the user row, all in one transaction.
func (srv *userService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	srv.log(ctx).Info("Attempting to delete account", slog.Any("userID", userID))

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.RefreshTokenRepo().DeleteRefreshTokensByUserID(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to revoke sessions during account deletion")
		}

		if err := repoFactory.FactorRepo().DeleteFactorsByUserID(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to remove factors during account deletion")
		}

		if err := repoFactory.AuthRepo().DeleteAuthenticationsByUserID(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to remove credentials during account deletion")
		}

		if err := repoFactory.UserRepo().Delete(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to delete user during account deletion")
		}

		return nil
	})

	if err != nil {
		srv.log(ctx).Error("Failed to delete account", slog.Any("error", err), slog.Any("userID", userID))

		return errors.Wrap(err, "failed to execute account deletion transaction")
	}
	srv.log(ctx).Info("Account deleted", slog.Any("userID", userID))

	return nil
}

// storeRefreshToken stores the refresh token in the database, enforcing the
// session limit under a row lock when one is configured.
func (srv *userService) storeRefreshToken(ctx context.Context, repoFactory repository.RepositoryFactory, userID uuid.UUID, refreshTokenString string) error {
	refreshRepo := repoFactory.RefreshTokenRepo()
	userRepo := repoFactory.UserRepo()

	if srv.maxActiveSessions > 0 {
		if err := userRepo.AcquireSessionMutex(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to lock user row for session limit check")
		}

		activeSessions, err := refreshRepo.CountActiveSessionsByUserID(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to count active sessions")
		}
		if activeSessions >= srv.maxActiveSessions {
			return errors.Wrap(
				domainerrors.ErrSessionLimitExceeded,
				"active session limit exceeded",
			)
		}
	}

	return srv.storeRefreshTokenWithRepo(ctx, refreshRepo, userID, refreshTokenString)
}

func (srv *userService) storeRefreshTokenWithRepo(ctx context.Context, refreshRepo repository.RefreshTokenRepository, userID uuid.UUID, refreshTokenString string) error {
	// Hash the refresh token
	refreshTokenHash := srv.tokenService.HashToken(refreshTokenString)

	newRefreshToken := &entity.RefreshToken{
		UserID:    userID,
		TokenHash: refreshTokenHash,
		ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
	}

	if err := refreshRepo.CreateRefreshToken(ctx, newRefreshToken); err != nil {
		return errors.Wrap(err, "failed to store refresh token")
	}

	return nil
}
