// Package storagetest поднимает временную SQLite базу с применёнными миграциями для тестов репозиториев.
package storagetest

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CourtBookingService/internal/infra/storage/migrations"
	"github.com/m04kA/SMC-CourtBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CourtBookingService/pkg/sqlbuilder"
)

// SQLiteDSN строка подключения к файлу базы с нужными для сервиса опциями
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_txlock=immediate&_busy_timeout=5000&_foreign_keys=on", path)
}

// OpenSQLite открывает новую базу в t.TempDir() и применяет миграции
func OpenSQLite(t *testing.T) (*dbmetrics.DB, sqlbuilder.Builder) {
	t.Helper()

	db, err := sql.Open(sqlbuilder.DriverSQLite, SQLiteDSN(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.NewMigrator(db, sqlbuilder.DriverSQLite).Run(context.Background()))

	return dbmetrics.Wrap(db, nil), sqlbuilder.MustNew(sqlbuilder.DriverSQLite)
}
