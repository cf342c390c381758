package handler

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"time"

	"cinevault/internal/delivery/http/middleware"
	"cinevault/internal/delivery/http/response"
	"cinevault/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// MFAHandler holds dependencies for second-factor handlers.
type MFAHandler struct {
	uc     usecase.MFAUsecase
	logger *slog.Logger
}

// NewMFAHandler is the constructor for MFAHandler, injected by Fx.
func NewMFAHandler(uc usecase.MFAUsecase, logger *slog.Logger) *MFAHandler {
	return &MFAHandler{
		uc:     uc,
		logger: logger,
	}
}

type assuranceResponse struct {
	CurrentLevel   string `json:"current_level"`
	NextLevel      string `json:"next_level"`
	StepUpRequired bool   `json:"step_up_required"`
}

type factorResponse struct {
	ID           uuid.UUID `json:"id"`
	Type         string    `json:"type"`
	FriendlyName string    `json:"friendly_name"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type enrollRequest struct {
	FriendlyName string `json:"friendly_name"`
}

// enrollResponse carries the provisioning material. The secret and URI are
// returned exactly once; factor listings never include them again.
type enrollResponse struct {
	FactorID     uuid.UUID `json:"factor_id"`
	FactorType   string    `json:"factor_type"`
	Secret       string    `json:"secret"`
	URI          string    `json:"uri"`
	QRCodePNG    string    `json:"qr_code_png,omitempty"` // base64-encoded PNG
	FriendlyName string    `json:"friendly_name"`
}

type challengeRequest struct {
	FactorID uuid.UUID `json:"factor_id" validate:"required"`
}

type verifyRequest struct {
	FactorID    uuid.UUID `json:"factor_id" validate:"required"`
	ChallengeID uuid.UUID `json:"challenge_id" validate:"required"`
	Code        string    `json:"code" validate:"required"`
}

type challengeVerifyRequest struct {
	FactorID uuid.UUID `json:"factor_id" validate:"required"`
	Code     string    `json:"code" validate:"required"`
}

type verifyResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Level        string `json:"level"`
}

// GetAssuranceLevel reports the session's current and reachable levels.
func (h *MFAHandler) GetAssuranceLevel(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	state, err := h.uc.GetAssuranceLevel(c.Request().Context(), userID, middleware.GetAssuranceLevel(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, assuranceResponse{
		CurrentLevel:   state.CurrentLevel.String(),
		NextLevel:      state.NextLevel.String(),
		StepUpRequired: state.StepUpRequired(),
	})
}

// ListFactors lists the user's enrolled factors.
func (h *MFAHandler) ListFactors(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	factors, err := h.uc.ListFactors(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]factorResponse, 0, len(factors))
	for _, f := range factors {
		out = append(out, factorResponse{
			ID:           f.ID,
			Type:         f.Type,
			FriendlyName: f.FriendlyName,
			Status:       string(f.Status),
			CreatedAt:    f.CreatedAt,
		})
	}

	return response.Success(c, http.StatusOK, out)
}

// Enroll provisions a new TOTP factor.
func (h *MFAHandler) Enroll(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req enrollRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid enrollment input")
	}

	output, err := h.uc.Enroll(c.Request().Context(), userID, &usecase.EnrollInput{
		FriendlyName: req.FriendlyName,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := enrollResponse{
		FactorID:     output.FactorID,
		FactorType:   output.FactorType,
		Secret:       output.Secret,
		URI:          output.URI,
		FriendlyName: output.FriendlyName,
	}
	if len(output.QRCodePNG) > 0 {
		resp.QRCodePNG = base64.StdEncoding.EncodeToString(output.QRCodePNG)
	}

	return response.Success(c, http.StatusCreated, resp)
}

// Challenge opens a verification window against one factor.
func (h *MFAHandler) Challenge(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req challengeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid challenge input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "factor_id is required")
	}

	output, err := h.uc.Challenge(c.Request().Context(), userID, req.FactorID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, map[string]any{
		"challenge_id": output.ChallengeID,
		"expires_at":   output.ExpiresAt,
	})
}

// Verify submits a code against an open challenge.
func (h *MFAHandler) Verify(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req verifyRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid verification input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "factor_id, challenge_id and code are required")
	}

	output, err := h.uc.Verify(c.Request().Context(), userID, &usecase.VerifyInput{
		FactorID:    req.FactorID,
		ChallengeID: req.ChallengeID,
		Code:        req.Code,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, verifyResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		Level:        output.Level.String(),
	})
}

// ChallengeAndVerify issues a challenge and verifies the code in one call.
func (h *MFAHandler) ChallengeAndVerify(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req challengeVerifyRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid verification input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "factor_id and code are required")
	}

	output, err := h.uc.ChallengeAndVerify(c.Request().Context(), userID, &usecase.ChallengeAndVerifyInput{
		FactorID: req.FactorID,
		Code:     req.Code,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, verifyResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		Level:        output.Level.String(),
	})
}

// Unenroll removes one of the user's factors.
func (h *MFAHandler) Unenroll(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	factorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid factor ID")
	}

	if err := h.uc.Unenroll(c.Request().Context(), userID, factorID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Factor removed"})
}
