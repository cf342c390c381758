package main

import (
	"context"
	"log/slog"
	"os"

	"cinevault/config"
	"cinevault/internal/delivery"
	"cinevault/internal/delivery/http"
	"cinevault/internal/delivery/http/middleware"
	"cinevault/internal/delivery/http/router/handler"
	"cinevault/internal/domain/service"
	"cinevault/internal/infra/auth"
	"cinevault/internal/infra/auth/google"
	"cinevault/internal/infra/auth/totp"
	logs "cinevault/internal/infra/log"
	"cinevault/internal/infra/persistence/postgres"
	"cinevault/internal/infra/qrcode"
	"cinevault/internal/infra/tmdb"
	"cinevault/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			impl.NewChallengeJanitor,
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewProfileRepository,
			postgres.NewAuthRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewFactorRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			google.NewAuthService,
			totp.NewTOTPService,
			newQRCodeService,
			tmdb.NewClient,
		),
	)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		// Use default values if not configured
		return qrcode.NewQRCodeService(256, "M")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewProfileService,
			impl.NewFavoritesService,
			impl.NewMFAService,
			impl.NewCatalogService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewProfileHandler,
			handler.NewFavoritesHandler,
			handler.NewMFAHandler,
			handler.NewCatalogHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
