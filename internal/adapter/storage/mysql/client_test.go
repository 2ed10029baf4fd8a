package mysql

import (
	"testing"
	"time"

	"walletx/config"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host:     "db",
		Port:     3306,
		User:     "walletx",
		Password: "p@ss:word",
		DBName:   "ledger",
	})

	parsed, err := mysqldrv.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "walletx", parsed.User)
	assert.Equal(t, "p@ss:word", parsed.Passwd)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "db:3306", parsed.Addr)
	assert.Equal(t, "ledger", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.True(t, parsed.ClientFoundRows)
	assert.Equal(t, time.UTC, parsed.Loc)
	assert.Equal(t, "utf8mb4", parsed.Params["charset"])
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level string
		want  logger.Interface
	}{
		{"debug", logger.Default.LogMode(logger.Info)},
		{"info", logger.Default.LogMode(logger.Warn)},
		{"error", logger.Default.LogMode(logger.Error)},
		{"", logger.Default.LogMode(logger.Error)},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, newLogger(tt.level))
		})
	}
}

func TestLockWaitSeconds(t *testing.T) {
	assert.Equal(t, 1, lockWaitSeconds(100*time.Millisecond))
	assert.Equal(t, 1, lockWaitSeconds(time.Second))
	assert.Equal(t, 3, lockWaitSeconds(2500*time.Millisecond))
}
