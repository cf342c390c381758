package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cinevault/internal/domain/entity"
	domainerrors "cinevault/internal/domain/errors"
	"cinevault/internal/domain/service"
	"cinevault/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTokenService returns canned claims for the token "valid" and rejects
// everything else.
type stubTokenService struct {
	claims *service.Claims
}

func (s *stubTokenService) GenerateTokens(userID uuid.UUID, level entity.AssuranceLevel) (string, string, error) {
	return "access", "refresh", nil
}

func (s *stubTokenService) ValidateToken(tokenString string) (*service.Claims, error) {
	if tokenString != "valid" {
		return nil, errors.New("invalid token")
	}

	return s.claims, nil
}

func (s *stubTokenService) HashToken(token string) string { return token }

func (s *stubTokenService) GetRefreshTokenDuration() time.Duration { return time.Hour }

// stubMFAUsecase serves a fixed next level; only GetAssuranceLevel matters to
// the middleware.
type stubMFAUsecase struct {
	next entity.AssuranceLevel
	err  error
}

func (s *stubMFAUsecase) GetAssuranceLevel(ctx context.Context, userID uuid.UUID, currentLevel entity.AssuranceLevel) (*entity.AssuranceState, error) {
	if s.err != nil {
		return nil, s.err
	}

	return &entity.AssuranceState{CurrentLevel: currentLevel, NextLevel: s.next}, nil
}

func (s *stubMFAUsecase) ListFactors(ctx context.Context, userID uuid.UUID) ([]*entity.Factor, error) {
	return nil, nil
}

func (s *stubMFAUsecase) Enroll(ctx context.Context, userID uuid.UUID, input *usecase.EnrollInput) (*usecase.EnrollOutput, error) {
	return nil, nil
}

func (s *stubMFAUsecase) Challenge(ctx context.Context, userID, factorID uuid.UUID) (*usecase.ChallengeOutput, error) {
	return nil, nil
}

func (s *stubMFAUsecase) Verify(ctx context.Context, userID uuid.UUID, input *usecase.VerifyInput) (*usecase.VerifyOutput, error) {
	return nil, nil
}

func (s *stubMFAUsecase) ChallengeAndVerify(ctx context.Context, userID uuid.UUID, input *usecase.ChallengeAndVerifyInput) (*usecase.VerifyOutput, error) {
	return nil, nil
}

func (s *stubMFAUsecase) Unenroll(ctx context.Context, userID, factorID uuid.UUID) error {
	return nil
}

func newTestContext(t *testing.T, authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestAuthenticate_ValidAccessToken(t *testing.T) {
	userID := uuid.New()
	mw := NewAuthMiddleware(
		&stubTokenService{claims: &service.Claims{UserID: userID, Level: entity.AAL2, Type: "access"}},
		&stubMFAUsecase{next: entity.AAL2},
	)

	c, rec := newTestContext(t, "Bearer valid")
	err := mw.Authenticate(okHandler)(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	gotID, ok := GetUserID(c)
	require.True(t, ok)
	assert.Equal(t, userID, gotID)
	assert.Equal(t, entity.AAL2, GetAssuranceLevel(c))
}

func TestAuthenticate_MissingOrMalformedHeader(t *testing.T) {
	mw := NewAuthMiddleware(
		&stubTokenService{claims: &service.Claims{Type: "access"}},
		&stubMFAUsecase{},
	)

	for _, header := range []string{"", "Basic abc", "valid"} {
		c, rec := newTestContext(t, header)
		err := mw.Authenticate(okHandler)(c)

		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q must be rejected", header)
	}
}

func TestAuthenticate_RejectsRefreshTokens(t *testing.T) {
	mw := NewAuthMiddleware(
		&stubTokenService{claims: &service.Claims{UserID: uuid.New(), Level: entity.AAL1, Type: "refresh"}},
		&stubMFAUsecase{},
	)

	c, rec := newTestContext(t, "Bearer valid")
	err := mw.Authenticate(okHandler)(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireStepUp_Gate(t *testing.T) {
	tests := []struct {
		name    string
		current entity.AssuranceLevel
		next    entity.AssuranceLevel
		blocked bool
	}{
		{"aal1 session, no verified factor", entity.AAL1, entity.AAL1, false},
		{"aal1 session, verified factor exists", entity.AAL1, entity.AAL2, true},
		{"stepped-up session", entity.AAL2, entity.AAL2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := NewAuthMiddleware(
				&stubTokenService{claims: &service.Claims{UserID: uuid.New(), Level: tt.current, Type: "access"}},
				&stubMFAUsecase{next: tt.next},
			)

			c, rec := newTestContext(t, "Bearer valid")
			err := mw.Authenticate(mw.RequireStepUp(okHandler))(c)

			if tt.blocked {
				assert.True(t, errors.Is(err, domainerrors.ErrStepUpRequired))
			} else {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
			}
		})
	}
}

func TestRequireStepUp_WithoutAuthenticate(t *testing.T) {
	mw := NewAuthMiddleware(&stubTokenService{}, &stubMFAUsecase{})

	c, rec := newTestContext(t, "")
	err := mw.RequireStepUp(okHandler)(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
