package mysql

import (
	"testing"

	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// offlineDB opens a GORM handle that never dials the server, for rendering
// SQL with ToSQL and dry-run sessions. Default transactions are skipped,
// since opening one would dial.
func offlineDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		DSN:                       "walletx:secret@tcp(127.0.0.1:3306)/walletx?parseTime=true&loc=UTC",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	return db
}
