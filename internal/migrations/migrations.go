package migrations

import (
	"github.com/jmoiron/sqlx"

	logx "pharmtrack/pkg/logger"
)

// Run creates the database schema required for the inventory tracker.
func Run(db *sqlx.DB) {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS medicine (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity >= 0),
			price REAL NOT NULL CHECK (price >= 0),
			created_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS sale (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			medicine_id INTEGER NOT NULL REFERENCES medicine(id),
			quantity_sold INTEGER NOT NULL CHECK (quantity_sold > 0),
			total_price REAL NOT NULL,
			date_sold TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sale_medicine_id ON sale(medicine_id);`,
		`CREATE INDEX IF NOT EXISTS idx_sale_date_sold ON sale(date_sold);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			logx.Fatal().Err(err).Msg("migration failed")
		}
	}
}
