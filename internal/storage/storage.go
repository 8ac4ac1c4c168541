// Package storage owns the store client for the lifetime of a service:
// explicit open with a bounded liveness loop at startup, explicit close at
// shutdown.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/config"
	applog "storefront/internal/log"
	"storefront/internal/repos"
	mongorepo "storefront/internal/repos/mongo"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	DBName   string
	Users    repos.Users
	Products repos.Products
	Orders   repos.Orders
	Pinger   repos.Pinger

	close func(ctx context.Context) error
}

func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// Open connects the configured backend. The store must answer a ping within
// cfg.ConnectAttempts tries, cfg.ConnectDelay apart, or Open fails.
func Open(ctx context.Context, cfg config.Config) (*Store, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		return openSQLite(ctx, cfg)
	case config.DriverMongo:
		return openMongo(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.DBDriver)
	}
}

func openMongo(ctx context.Context, cfg config.Config) (*Store, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetServerSelectionTimeout(cfg.ConnectTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	pinger := mongorepo.Pinger{Client: client}
	if err := WaitReady(ctx, pinger, cfg.ConnectAttempts, cfg.ConnectDelay, cfg.ConnectTimeout); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	db := client.Database(cfg.DBName)
	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &Store{
		DBName:   cfg.DBName,
		Users:    mongorepo.NewUserRepository(db),
		Products: mongorepo.NewProductRepository(db),
		Orders:   mongorepo.NewOrderRepository(db),
		Pinger:   pinger,
		close:    client.Disconnect,
	}, nil
}

func openSQLite(ctx context.Context, cfg config.Config) (*Store, error) {
	db, err := repos.OpenDB(cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	pinger := repos.SQLitePinger{DB: db}
	if err := WaitReady(ctx, pinger, cfg.ConnectAttempts, cfg.ConnectDelay, cfg.ConnectTimeout); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{
		DBName:   cfg.DBName,
		Users:    repos.NewUserRepo(db),
		Products: repos.NewProductRepo(db),
		Orders:   repos.NewOrderRepo(db),
		Pinger:   pinger,
		close:    func(context.Context) error { return db.Close() },
	}, nil
}

var ErrNotReady = errors.New("store not reachable")

// WaitReady pings until success or attempts run out.
func WaitReady(ctx context.Context, p repos.Pinger, attempts int, delay, timeout time.Duration) error {
	var lastErr error
	for i := 1; i <= attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = p.Ping(pctx)
		cancel()
		if lastErr == nil {
			return nil
		}
		applog.Logger().Warn().Err(lastErr).Int("attempt", i).Int("of", attempts).Msg("store ping failed")
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("%w after %d attempts: %v", ErrNotReady, attempts, lastErr)
}
