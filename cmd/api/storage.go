package main

import (
	"context"
	"fmt"

	"walletx/config"
	"walletx/internal/adapter/storage/memory"
	mysqlStorage "walletx/internal/adapter/storage/mysql"
	pgStorage "walletx/internal/adapter/storage/postgres"
	"walletx/internal/core/ports"

	"github.com/rs/zerolog"
)

// backend is the storage selected by database.driver.
type backend struct {
	wallets    ports.WalletRepository
	txns       ports.TransactionRepository
	transactor ports.DBTransactor
	health     ports.HealthChecker
	close      func()
}

func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Database.Migrate {
			if err := pgStorage.Migrate(ctx, pool, log); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
		}
		return &backend{
			wallets:    pgStorage.NewWalletRepo(pool),
			txns:       pgStorage.NewTransactionRepo(pool),
			transactor: pgStorage.NewTransactor(pool, cfg.Apply.LockTimeout),
			health:     pgStorage.NewHealthCheck(pool),
			close:      pool.Close,
		}, nil

	case config.DriverMySQL:
		db, err := mysqlStorage.NewClient(ctx, cfg.Database, cfg.Log.Level, log)
		if err != nil {
			return nil, fmt.Errorf("connect mysql: %w", err)
		}
		if cfg.Database.Migrate {
			if err := mysqlStorage.Migrate(ctx, db, log); err != nil {
				_ = mysqlStorage.Close(db)
				return nil, fmt.Errorf("migrate mysql: %w", err)
			}
		}
		return &backend{
			wallets:    mysqlStorage.NewWalletRepo(db),
			txns:       mysqlStorage.NewTransactionRepo(db),
			transactor: mysqlStorage.NewTransactor(db, cfg.Apply.LockTimeout),
			health:     mysqlStorage.NewHealthChecker(db),
			close: func() {
				if err := mysqlStorage.Close(db); err != nil {
					log.Error().Err(err).Msg("close mysql")
				}
			},
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory storage, data is lost on exit")
		store := memory.NewStore()
		return &backend{
			wallets:    memory.NewWalletRepo(store),
			txns:       memory.NewTransactionRepo(store),
			transactor: store,
			health:     store,
			close:      func() {},
		}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}
