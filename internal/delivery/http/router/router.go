// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"cinevault/internal/delivery/http/middleware"
	"cinevault/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler      *handler.UserHandler
	ProfileHandler   *handler.ProfileHandler
	FavoritesHandler *handler.FavoritesHandler
	MFAHandler       *handler.MFAHandler
	CatalogHandler   *handler.CatalogHandler
	AuthMiddleware   *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler      *handler.UserHandler
	profileHandler   *handler.ProfileHandler
	favoritesHandler *handler.FavoritesHandler
	mfaHandler       *handler.MFAHandler
	catalogHandler   *handler.CatalogHandler
	authMiddleware   *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:      params.UserHandler,
		profileHandler:   params.ProfileHandler,
		favoritesHandler: params.FavoritesHandler,
		mfaHandler:       params.MFAHandler,
		catalogHandler:   params.CatalogHandler,
		authMiddleware:   params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.userHandler.RegisterUser)
		authGroup.POST("/login", r.userHandler.Login)
		authGroup.POST("/google/callback", r.userHandler.GoogleCallback)
		authGroup.POST("/refresh", r.userHandler.RefreshToken)
		authGroup.POST("/logout", r.userHandler.Logout)
	}

	// User routes that require authentication
	userGroup := e.Group("/user")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.GET("/profile", r.profileHandler.GetProfile)
		userGroup.PATCH("/profile", r.profileHandler.UpdateProfile, r.authMiddleware.RequireStepUp)

		userGroup.PATCH("/password", r.userHandler.ChangePassword, r.authMiddleware.RequireStepUp)

		userGroup.GET("/sessions", r.userHandler.GetActiveSessions)
		userGroup.DELETE("/sessions/:id", r.userHandler.RevokeSession)
		userGroup.POST("/logout-all", r.userHandler.LogoutAllDevices)

		// Account deletion is destructive; sessions that can step up must
		// do so before it is allowed.
		userGroup.DELETE("/account", r.userHandler.DeleteAccount, r.authMiddleware.RequireStepUp)
	}

	// Favorites routes, one partition per media kind
	favoritesGroup := e.Group("/user/favorites")
	favoritesGroup.Use(r.authMiddleware.Authenticate)
	{
		favoritesGroup.GET("/:kind", r.favoritesHandler.Fetch)
		favoritesGroup.POST("/:kind", r.favoritesHandler.Add)
		favoritesGroup.POST("/:kind/toggle", r.favoritesHandler.Toggle)
		favoritesGroup.DELETE("/:kind/:id", r.favoritesHandler.Remove)
	}

	// Second-factor routes
	mfaGroup := e.Group("/auth/mfa")
	mfaGroup.Use(r.authMiddleware.Authenticate)
	{
		mfaGroup.GET("/aal", r.mfaHandler.GetAssuranceLevel)
		mfaGroup.GET("/factors", r.mfaHandler.ListFactors)
		mfaGroup.POST("/factors", r.mfaHandler.Enroll)
		mfaGroup.DELETE("/factors/:id", r.mfaHandler.Unenroll, r.authMiddleware.RequireStepUp)
		mfaGroup.POST("/challenge", r.mfaHandler.Challenge)
		mfaGroup.POST("/verify", r.mfaHandler.Verify)
		mfaGroup.POST("/challenge-verify", r.mfaHandler.ChallengeAndVerify)
	}

	// Catalog routes proxying the metadata provider; read-only, so they only
	// need a valid session, never step-up.
	catalogGroup := e.Group("/catalog")
	catalogGroup.Use(r.authMiddleware.Authenticate)
	{
		catalogGroup.GET("/search", r.catalogHandler.Search)
		catalogGroup.GET("/discover/movie", r.catalogHandler.Discover)
		catalogGroup.GET("/trending/:kind", r.catalogHandler.Trending)
		catalogGroup.GET("/:kind/:id", r.catalogHandler.GetDetail)
		catalogGroup.GET("/:kind/:id/credits", r.catalogHandler.GetCredits)
		catalogGroup.GET("/:kind/:id/images", r.catalogHandler.GetImages)
		catalogGroup.GET("/:kind/:id/videos", r.catalogHandler.GetVideos)
		catalogGroup.GET("/:kind/:id/reviews", r.catalogHandler.GetReviews)
		catalogGroup.GET("/:kind/:id/similar", r.catalogHandler.GetSimilar)
		catalogGroup.GET("/:kind/:id/recommendations", r.catalogHandler.GetRecommendations)
	}
}
