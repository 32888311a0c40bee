package seed

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	logx "pharmtrack/pkg/logger"
)

type demoMedicine struct {
	name     string
	quantity int64
	price    float64
}

type demoSale struct {
	medicine string
	quantity int64
}

var demoMedicines = []demoMedicine{
	{"Aspirin", 100, 5.99},
	{"Paracetamol", 150, 3.49},
	{"Ibuprofen", 80, 7.25},
	{"Amoxicillin 500mg", 40, 12.50},
	{"Cetirizine", 8, 4.75},
	{"Omeprazole", 0, 9.99},
}

var demoSales = []demoSale{
	{"Paracetamol", 10},
	{"Ibuprofen", 4},
}

// Run inserts the demonstration catalog and sales, but only into an empty
// store. Demo sales decrement demo stock the same way a recorded sale does.
func Run(db *sqlx.DB) {
	var count int64
	if err := db.Get(&count, `SELECT COUNT(*) FROM medicine`); err != nil {
		logx.Warn().Err(err).Msg("unable to check for existing medicines, skipping seed")
		return
	}
	if count > 0 {
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		logx.Warn().Err(err).Msg("unable to start seed transaction")
		return
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	ids := make(map[string]int64, len(demoMedicines))
	prices := make(map[string]float64, len(demoMedicines))
	for _, m := range demoMedicines {
		res, err := tx.Exec(
			`INSERT INTO medicine (name, quantity, price, created_at) VALUES (?, ?, ?, ?)`,
			m.name, m.quantity, m.price, now)
		if err != nil {
			logx.Warn().Err(err).Str("medicine", m.name).Msg("unable to seed medicine")
			return
		}
		id, err := res.LastInsertId()
		if err != nil {
			logx.Warn().Err(err).Str("medicine", m.name).Msg("unable to read seeded medicine id")
			return
		}
		ids[m.name] = id
		prices[m.name] = m.price
	}

	for _, s := range demoSales {
		total := decimal.NewFromFloat(prices[s.medicine]).Mul(decimal.NewFromInt(s.quantity)).Round(2)
		if _, err := tx.Exec(
			`INSERT INTO sale (medicine_id, quantity_sold, total_price, date_sold) VALUES (?, ?, ?, ?)`,
			ids[s.medicine], s.quantity, total.InexactFloat64(), now); err != nil {
			logx.Warn().Err(err).Str("medicine", s.medicine).Msg("unable to seed sale")
			return
		}
		if _, err := tx.Exec(
			`UPDATE medicine SET quantity = quantity - ? WHERE id = ? AND quantity >= ?`,
			s.quantity, ids[s.medicine], s.quantity); err != nil {
			logx.Warn().Err(err).Str("medicine", s.medicine).Msg("unable to decrement seeded stock")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		logx.Warn().Err(err).Msg("unable to commit seed data")
		return
	}
	logx.Info().Int("medicines", len(demoMedicines)).Int("sales", len(demoSales)).
		Msg("seeded demonstration data")
}
