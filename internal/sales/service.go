package sales

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"pharmtrack/domain"
	"pharmtrack/internal/apperr"
)

// Service owns the sales ledger: recording sales against the catalog with
// an atomic stock decrement, listing them, and deriving dashboard stats.
type Service struct {
	db *sqlx.DB
}

// New constructs a Service on top of the shared store.
func New(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// RecordInput carries the fields for a new sale. Pointers distinguish a
// missing field from a zero value.
type RecordInput struct {
	MedicineID   *int64 `json:"medicine_id"`
	QuantitySold *int64 `json:"quantity_sold"`
}

// Receipt is the result of a recorded sale.
type Receipt struct {
	Sale           domain.Sale
	RemainingStock int64
}

// List returns all sales, newest first, with the medicine name resolved.
func (s *Service) List(ctx context.Context) ([]domain.Sale, error) {
	sales := []domain.Sale{}
	err := s.db.SelectContext(ctx, &sales, `
		SELECT s.id, s.medicine_id, s.quantity_sold, s.total_price, s.date_sold,
		       COALESCE(m.name, 'Unknown') AS medicine_name
		FROM sale s
			LEFT JOIN medicine m ON m.id = s.medicine_id
		ORDER BY s.date_sold DESC, s.id DESC`)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "unable to list sales", err)
	}
	return sales, nil
}

// Record validates the input, then inserts the sale and decrements the
// medicine's stock inside one transaction. The decrement is guarded by the
// current stock level, so two concurrent sales can never oversell.
func (s *Service) Record(ctx context.Context, in RecordInput) (*Receipt, error) {
	if in.MedicineID == nil {
		return nil, apperr.New(apperr.Validation, "medicine_id is required")
	}
	if in.QuantitySold == nil {
		return nil, apperr.New(apperr.Validation, "quantity_sold is required")
	}
	qty := *in.QuantitySold
	if qty <= 0 {
		return nil, apperr.New(apperr.Validation, "quantity_sold must be greater than zero")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "unable to start sale transaction", err)
	}
	defer tx.Rollback()

	var med domain.Medicine
	err = tx.GetContext(ctx, &med,
		`SELECT id, name, quantity, price, created_at FROM medicine WHERE id = ?`, *in.MedicineID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.NotFound, "medicine not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "unable to load medicine", err)
	}
	if med.Quantity < qty {
		return nil, apperr.Newf(apperr.Conflict, "Insufficient stock. Available: %d", med.Quantity)
	}

	total := decimal.NewFromFloat(med.Price).Mul(decimal.NewFromInt(qty)).Round(2)
	now := time.Now().UTC().Format(time.RFC3339)

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sale (medicine_id, quantity_sold, total_price, date_sold) VALUES (?, ?, ?, ?)`,
		med.ID, qty, total.InexactFloat64(), now)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "unable to create sale record", err)
	}
	saleID, err := res.LastInsertId()
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "unable to read created sale id", err)
	}

	upd, err := tx.ExecContext(ctx,
		`UPDATE medicine SET quantity = quantity - ? WHERE id = ? AND quantity >= ?`,
		qty, med.ID, qty)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "unable to update stock", err)
	}
	affected, err := upd.RowsAffected()
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "unable to update stock", err)
	}
	if affected == 0 {
		// Lost a race with a concurrent sale; report the stock that is
		// actually left.
		var available int64
		if err := tx.GetContext(ctx, &available,
			`SELECT quantity FROM medicine WHERE id = ?`, med.ID); err != nil {
			return nil, apperr.Wrap(apperr.Store, "unable to load stock", err)
		}
		return nil, apperr.Newf(apperr.Conflict, "Insufficient stock. Available: %d", available)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Wrap(apperr.Store, "unable to finalize sale", err)
	}

	return &Receipt{
		Sale: domain.Sale{
			ID:           saleID,
			MedicineID:   med.ID,
			QuantitySold: qty,
			TotalPrice:   total.InexactFloat64(),
			DateSold:     &now,
			MedicineName: med.Name,
		},
		RemainingStock: med.Quantity - qty,
	}, nil
}

// Dashboard recomputes the aggregate stats from both tables on every call.
// Low stock deliberately counts out-of-stock rows too: the threshold rule
// is quantity < 10, zero included.
func (s *Service) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	err := s.db.GetContext(ctx, &stats, `
		SELECT COUNT(*) AS total_medicines,
		       COALESCE(SUM(CASE WHEN quantity < 10 THEN 1 ELSE 0 END), 0) AS low_stock_items,
		       COALESCE(SUM(CASE WHEN quantity = 0 THEN 1 ELSE 0 END), 0) AS out_of_stock_items
		FROM medicine`)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "unable to compute medicine stats", err)
	}

	type stockRow struct {
		Quantity int64   `db:"quantity"`
		Price    float64 `db:"price"`
	}
	var stock []stockRow
	if err := s.db.SelectContext(ctx, &stock, `SELECT quantity, price FROM medicine`); err != nil {
		return nil, apperr.Wrap(apperr.Store, "unable to load stock values", err)
	}
	value := decimal.Zero
	for _, row := range stock {
		value = value.Add(decimal.NewFromFloat(row.Price).Mul(decimal.NewFromInt(row.Quantity)))
	}
	stats.TotalValue = value.Round(2).InexactFloat64()

	var totals []float64
	if err := s.db.SelectContext(ctx, &totals, `SELECT total_price FROM sale`); err != nil {
		return nil, apperr.Wrap(apperr.Store, "unable to load sale totals", err)
	}
	revenue := decimal.Zero
	for _, t := range totals {
		revenue = revenue.Add(decimal.NewFromFloat(t))
	}
	stats.TotalSales = revenue.Round(2).InexactFloat64()

	return &stats, nil
}
