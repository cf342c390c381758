package impl

import (
	"context"
	"log/slog"
	"time"

	"cinevault/config"
	"cinevault/internal/domain/repository"

	"go.uber.org/fx"
)

const defaultSweepInterval = time.Minute

// ChallengeJanitor periodically purges expired verification challenges so the
// table does not accumulate dead windows. Expiry is still enforced at read
// time; the sweep only reclaims storage.
type ChallengeJanitor struct {
	factorRepo repository.FactorRepository
	interval   time.Duration
	logger     *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// ChallengeJanitorParams holds dependencies for ChallengeJanitor, injected by Fx.
type ChallengeJanitorParams struct {
	fx.In

	FactorRepo repository.FactorRepository
	Config     *config.Config
	Logger     *slog.Logger
}

// NewChallengeJanitor is the constructor for ChallengeJanitor and registers its
// start/stop hooks with the Fx lifecycle.
func NewChallengeJanitor(lc fx.Lifecycle, params ChallengeJanitorParams) *ChallengeJanitor {
	interval := defaultSweepInterval
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.MFA != nil &&
		params.Config.Auth.MFA.SweepInterval > 0 {
		interval = params.Config.Auth.MFA.SweepInterval
	}

	janitor := &ChallengeJanitor{
		factorRepo: params.FactorRepo,
		interval:   interval,
		logger:     params.Logger,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			janitor.start()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			return janitor.stop(ctx)
		},
	})

	return janitor
}

func (j *ChallengeJanitor) start() {
	ctx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel
	j.done = make(chan struct{})

	go j.run(ctx)

	j.logger.Info("Challenge janitor started", slog.Duration("interval", j.interval))
}

// stop cancels the sweep loop and waits for it to drain or the shutdown
// context to expire, whichever comes first.
func (j *ChallengeJanitor) stop(ctx context.Context) error {
	if j.cancel == nil {
		return nil
	}
	j.cancel()

	select {
	case <-j.done:
		j.logger.Info("Challenge janitor stopped")

		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *ChallengeJanitor) run(ctx context.Context) {
	defer close(j.done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *ChallengeJanitor) sweep(ctx context.Context) {
	purged, err := j.factorRepo.DeleteExpiredChallenges(ctx, time.Now())
	if err != nil {
		j.logger.Warn("Challenge sweep failed", slog.Any("error", err))

		return
	}
	if purged > 0 {
		j.logger.Debug("Purged expired challenges", slog.Int64("count", purged))
	}
}
