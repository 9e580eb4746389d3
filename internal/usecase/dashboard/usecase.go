package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	domain "crediya/internal/domain/dashboard"
	"crediya/internal/domain/payment"
	"crediya/internal/infrastructure/cache"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const cacheKey = "dashboard:metrics"

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

type Usecase struct {
	repo     domain.Repository
	payments payment.Repository
	cache    Cache
	ttl      time.Duration
	log      *zap.Logger
	now      func() time.Time
}

// NewUsecase wires the aggregates. c may be nil, in which case every call
// recomputes.
func NewUsecase(repo domain.Repository, payments payment.Repository, c Cache, ttl time.Duration, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: repo, payments: payments, cache: c, ttl: ttl, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// Metrics serves the cached snapshot when present and computes it otherwise.
func (u *Usecase) Metrics(ctx context.Context) (*domain.Metrics, error) {
	if u.cache != nil {
		raw, err := u.cache.Get(ctx, cacheKey)
		switch {
		case err == nil:
			var m domain.Metrics
			if jerr := json.Unmarshal(raw, &m); jerr == nil {
				return &m, nil
			}
			u.log.Warn("dashboard cache entry unreadable, recomputing")
		case !errors.Is(err, cache.ErrCacheMiss):
			u.log.Warn("dashboard cache unavailable", zap.Error(err))
		}
	}
	return u.Refresh(ctx)
}

// Refresh recomputes the metrics and overwrites the cache entry.
func (u *Usecase) Refresh(ctx context.Context) (*domain.Metrics, error) {
	m, err := u.compute(ctx)
	if err != nil {
		return nil, err
	}
	if u.cache != nil {
		raw, err := json.Marshal(m)
		if err == nil {
			err = u.cache.Set(ctx, cacheKey, raw, u.ttl)
		}
		if err != nil {
			u.log.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return m, nil
}

func (u *Usecase) compute(ctx context.Context) (*domain.Metrics, error) {
	now := u.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	m := &domain.Metrics{GeneratedAt: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		m.LoansByStatus, err = u.repo.CountLoansByStatus(gctx)
		return err
	})
	g.Go(func() (err error) {
		m.PortfolioOutstanding, err = u.repo.SumOutstanding(gctx)
		return err
	})
	g.Go(func() (err error) {
		m.CollectedThisMonth, err = u.payments.SumBetween(gctx, monthStart, monthStart.AddDate(0, 1, 0))
		return err
	})
	g.Go(func() (err error) {
		m.OverdueInstallments, err = u.repo.CountOverdueInstallments(gctx)
		return err
	})
	g.Go(func() (err error) {
		m.Customers, err = u.repo.CountCustomers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return m, nil
}
