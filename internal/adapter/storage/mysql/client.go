// Package mysql is the MySQL storage backend, built on GORM.
package mysql

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"walletx/config"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	connectAttempts = 5
	connectInterval = 2 * time.Second
)

// DSN builds the driver connection string. ClientFoundRows makes an UPDATE
// report matched rows, so a zero-amount AdjustBalance still counts as applied.
func DSN(cfg config.DatabaseConfig) string {
	c := mysqldrv.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	c.DBName = cfg.DBName
	c.ParseTime = true
	c.Loc = time.UTC
	c.ClientFoundRows = true
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN()
}

// NewClient opens a GORM connection pool, retrying while MySQL starts up.
func NewClient(ctx context.Context, cfg config.DatabaseConfig, logLevel string, log zerolog.Logger) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 newLogger(logLevel),
		NowFunc:                func() time.Time { return time.Now().UTC() },
	}

	var db *gorm.DB
	var err error
	for i := 0; i < connectAttempts; i++ {
		db, err = gorm.Open(gormmysql.Open(DSN(cfg)), gormConfig)
		if err == nil {
			if err = ping(ctx, db); err == nil {
				break
			}
		}

		if i < connectAttempts-1 {
			log.Warn().Err(err).
				Int("attempt", i+1).
				Dur("retry_in", connectInterval).
				Msg("MySQL not reachable, retrying")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(connectInterval):
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to mysql after %d attempts: %w", connectAttempts, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}
	if cfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(int(cfg.MaxConns))
	}
	if cfg.MinConns > 0 {
		sqlDB.SetMaxIdleConns(int(cfg.MinConns))
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("dbname", cfg.DBName).
		Msg("MySQL connection pool established")

	return db, nil
}

func ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newLogger(level string) logger.Interface {
	var logLevel logger.LogLevel
	switch level {
	case "trace", "debug":
		logLevel = logger.Info
	case "info", "warn":
		logLevel = logger.Warn
	default:
		logLevel = logger.Error
	}
	return logger.Default.LogMode(logLevel)
}
