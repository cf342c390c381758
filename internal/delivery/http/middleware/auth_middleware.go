package middleware

import (
	"net/http"
	"strings"

	"cinevault/internal/domain/entity"
	domainerrors "cinevault/internal/domain/errors"
	"cinevault/internal/domain/service"
	"cinevault/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// ContextKeyUserID is where Authenticate stores the caller's user ID.
	ContextKeyUserID = "userID"

	// ContextKeyAssuranceLevel is where Authenticate stores the session's level.
	ContextKeyAssuranceLevel = "assuranceLevel"
)

// AuthMiddleware provides middleware for JWT authentication and step-up gating.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	mfaUC    usecase.MFAUsecase
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, mfaUC usecase.MFAUsecase) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, mfaUC: mfaUC}
}

// Authenticate validates the bearer access token and stores the caller's
// identity and assurance level on the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header is missing"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token format, must be Bearer token"})
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		}
		if claims.Type != "access" {
			// Refresh tokens are only accepted by the refresh endpoint.
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Access token required"})
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyAssuranceLevel, claims.Level)

		return next(c)
	}
}

// RequireStepUp blocks sessions that could reach a stronger assurance level
// but have not completed a second-factor challenge yet. Accounts without a
// verified factor pass through: there is nothing to step up to.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireStepUp(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := GetUserID(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User ID missing from context"})
		}

		state, err := m.mfaUC.GetAssuranceLevel(c.Request().Context(), userID, GetAssuranceLevel(c))
		if err != nil {
			return err
		}
		if state.StepUpRequired() {
			return domainerrors.ErrStepUpRequired
		}

		return next(c)
	}
}

// GetUserID extracts the authenticated user's ID set by Authenticate.
func GetUserID(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(ContextKeyUserID).(uuid.UUID)

	return userID, ok
}

// GetAssuranceLevel extracts the session's assurance level set by Authenticate.
// A missing value degrades to aal1.
func GetAssuranceLevel(c echo.Context) entity.AssuranceLevel {
	if level, ok := c.Get(ContextKeyAssuranceLevel).(entity.AssuranceLevel); ok && level.IsValid() {
		return level
	}

	return entity.AAL1
}
