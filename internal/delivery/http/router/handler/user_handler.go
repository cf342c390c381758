// Package handler contains the HTTP handlers for the application.
package handler

import (
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

// UserHandler holds dependencies for auth and session handlers.
type UserHandler struct {
	uc     usecase.UserUsecase
	logger *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		uc:     uc,
		logger: logger,
	}
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type loginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         userResponse `json:"user"`
}

type sessionResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RegisterUser handles the user registration request.
func (h *UserHandler) RegisterUser(c echo.Context) error {
	var input *usecase.RegisterUserInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	output, err := h.uc.RegisterUser(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, userResponse{
		ID:        output.User.ID,
		Email:     output.User.Email,
		Name:      output.User.Name,
		CreatedAt: output.User.CreatedAt,
	})
}

// Login handles the email/password login request.
func (h *UserHandler) Login(c echo.Context) error {
	var input *usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}

	output, err := h.uc.Login(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, loginResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		User: userResponse{
			ID:        output.User.ID,
			Email:     output.User.Email,
			Name:      output.User.Name,
			CreatedAt: output.User.CreatedAt,
		},
	})
}

// GoogleCallback handles the Google Sign-In ID token exchange.
func (h *UserHandler) GoogleCallback(c echo.Context) error {
	var input *usecase.GoogleCallbackInput

	// Accept the token either as a form post or a JSON body.
	if idToken := c.FormValue("id_token"); idToken != "" {
		input = &usecase.GoogleCallbackInput{IDToken: idToken}
	} else if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid Google callback input")
	}

	if input == nil || input.IDToken == "" {
		return response.BadRequest(c, "INVALID_INPUT", "ID token is required")
	}

	output, err := h.uc.GoogleCallback(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, loginResponse{
		AccessToken:  output.AccessToken,
		RefreshToken: output.RefreshToken,
		User: userResponse{
			ID:        output.User.ID,
			Email:     output.User.Email,
			Name:      output.User.Name,
			CreatedAt: output.User.CreatedAt,
		},
	})
}

// RefreshToken handles the access token renewal request.
func (h *UserHandler) RefreshToken(c echo.Context) error {
	var input *usecase.RefreshTokenInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid refresh token input")
	}

	output, err := h.uc.RefreshToken(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"access_token": output.AccessToken,
	})
}

// Logout ends the session identified by the presented refresh token.
func (h *UserHandler) Logout(c echo.Context) error {
	var input *usecase.LogoutInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid logout input")
	}

	if err := h.uc.Logout(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

// LogoutAllDevices revokes every session of the authenticated user.
func (h *UserHandler) LogoutAllDevices(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	if err := h.uc.LogoutAllDevices(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "All sessions revoked"})
}

// GetActiveSessions lists the authenticated user's live sessions.
func (h *UserHandler) GetActiveSessions(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	sessions, err := h.uc.GetActiveSessions(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionResponse{
			ID:        s.ID,
			CreatedAt: s.CreatedAt,
			ExpiresAt: s.ExpiresAt,
		})
	}

	return response.Success(c, http.StatusOK, out)
}

// RevokeSession ends one session of the authenticated user by its ID.
func (h *UserHandler) RevokeSession(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid session ID")
	}

	if err := h.uc.RevokeSession(c.Request().Context(), userID, sessionID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Session revoked"})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword replaces the authenticated user's password.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password change input")
	}

	if req.OldPassword == "" || req.NewPassword == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Both the current and the new password are required")
	}

	err := h.uc.ChangePassword(c.Request().Context(), userID, &usecase.ChangePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Password changed"})
}

// DeleteAccount removes the authenticated user's account.
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	if err := h.uc.DeleteAccount(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Account deleted"})
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}
