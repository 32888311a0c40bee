package database

import (
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	logx "pharmtrack/pkg/logger"
)

// Connect opens a SQLite database using the provided DSN.
func Connect(dsn string) *sqlx.DB {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		logx.Fatal().Err(err).Str("dsn", dsn).Msg("failed to connect to database")
	}
	db.SetMaxOpenConns(1)
	return db
}
