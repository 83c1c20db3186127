// Package sqlbuilder настраивает squirrel под диалект базы данных.
package sqlbuilder

import (
	"fmt"

	"github.com/Masterminds/squirrel"
)

// Поддерживаемые драйверы database/sql
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Builder построитель запросов с плейсхолдерами нужного диалекта
type Builder struct {
	squirrel.StatementBuilderType
	driver string
}

// New возвращает построитель для драйвера: $1 для postgres, ? для sqlite3
func New(driver string) (Builder, error) {
	switch driver {
	case DriverPostgres:
		return Builder{
			StatementBuilderType: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
			driver:               driver,
		}, nil
	case DriverSQLite:
		return Builder{
			StatementBuilderType: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
			driver:               driver,
		}, nil
	default:
		return Builder{}, fmt.Errorf("sqlbuilder: unsupported driver %q", driver)
	}
}

// MustNew как New, но паникует на неизвестном драйвере
func MustNew(driver string) Builder {
	b, err := New(driver)
	if err != nil {
		panic(err)
	}
	return b
}

// Driver имя драйвера
func (b Builder) Driver() string {
	return b.driver
}

// SupportsRowLocks поддерживает ли диалект SELECT ... FOR UPDATE
func (b Builder) SupportsRowLocks() bool {
	return b.driver == DriverPostgres
}

// SupportsAdvisoryLocks поддерживает ли диалект pg_advisory_xact_lock
func (b Builder) SupportsAdvisoryLocks() bool {
	return b.driver == DriverPostgres
}
