// Package app wires repositories, usecases and the HTTP layer into a
// runnable API.
package app

import (
	"context"
	"time"

	httpadp "crediya/internal/adapter/http"
	"crediya/internal/adapter/middleware"
	"crediya/internal/adapter/repository/postgres"
	"crediya/internal/config"
	"crediya/internal/infrastructure/cache"
	"crediya/internal/infrastructure/token"
	"crediya/internal/infrastructure/worker"
	"crediya/internal/usecase/admin"
	"crediya/internal/usecase/approval"
	"crediya/internal/usecase/auth"
	"crediya/internal/usecase/collection"
	"crediya/internal/usecase/customer"
	"crediya/internal/usecase/dashboard"
	"crediya/internal/usecase/inventory"
	"crediya/internal/usecase/loan"
	"crediya/internal/usecase/payment"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Echo       *echo.Echo
	Collection *collection.Usecase
	Dashboard  *dashboard.Usecase

	cfg *config.Config
	log *zap.Logger
}

func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	repos := postgres.NewRepos(db)
	tx := postgres.NewGormUoW(db)
	tokens := token.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)

	adminUC := admin.NewUsecase(repos.Users, repos.Stores)
	collectionUC := collection.NewUsecase(repos.Installments, tx, collection.Policy{
		Penalty:   cfg.Penalty(),
		GraceDays: cfg.GraceDays,
	}, log.Named("collection"))
	dashboardUC := dashboard.NewUsecase(
		postgres.NewDashboardRepository(db),
		repos.Payments,
		cache.NewStore(rdb, "crediya:"),
		cfg.DashboardCacheTTL,
		log.Named("dashboard"),
	)

	h := httpadp.Handlers{
		Health: httpadp.NewHandler(map[string]httpadp.Check{
			"db": func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		Auth:      httpadp.NewAuthHandler(auth.NewUsecase(repos.Users, adminUC, tokens, log.Named("auth"))),
		Loans:     httpadp.NewLoanHandler(loan.NewUsecase(repos, tx, log.Named("loan"))),
		Approvals: httpadp.NewApprovalHandler(approval.NewUsecase(tx, log.Named("approval"))),
		Payments:  httpadp.NewPaymentHandler(payment.NewUsecase(repos, tx, log.Named("payment"))),
		Customers: httpadp.NewCustomerHandler(customer.NewUsecase(repos.Customers)),
		Inventory: httpadp.NewInventoryHandler(inventory.NewUsecase(repos.Inventory)),
		Admin:     httpadp.NewAdminHandler(adminUC, collectionUC),
		Dashboard: httpadp.NewDashboardHandler(dashboardUC),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Recover(), echomw.RequestID(), middleware.RequestLogger(log.Named("http")))

	idemTTL := time.Duration(cfg.IdempTTLSecs) * time.Second
	httpadp.Register(e, h, tokens, repos.Users, middleware.Idempotency(rdb, idemTTL, log.Named("idempotency")))

	return &App{Echo: e, Collection: collectionUC, Dashboard: dashboardUC, cfg: cfg, log: log}
}

// Workers returns the background jobs that run next to the HTTP server.
func (a *App) Workers() []*worker.Periodic {
	return []*worker.Periodic{
		{
			Name:     "overdue-sweep",
			Interval: a.cfg.SweepInterval,
			Log:      a.log,
			Job: func(ctx context.Context) error {
				res, err := a.Collection.SweepOverdue(ctx, time.Now().UTC())
				if res.InstallmentsMarked > 0 {
					a.log.Info("overdue sweep",
						zap.Int("installments", res.InstallmentsMarked),
						zap.Int("loans", res.LoansMarked),
						zap.String("penalties", res.PenaltiesTotal.StringFixed(2)),
					)
				}
				return err
			},
		},
		{
			Name:     "dashboard-refresh",
			Interval: a.cfg.DashboardRefreshInterval,
			Log:      a.log,
			Job: func(ctx context.Context) error {
				_, err := a.Dashboard.Refresh(ctx)
				return err
			},
		},
	}
}
