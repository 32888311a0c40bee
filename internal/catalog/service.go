package catalog

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"pharmtrack/domain"
	"pharmtrack/internal/apperr"
)

// Service owns the medicine catalog: list, create, partial update, and
// delete with the sales-history guard.
type Service struct {
	db *sqlx.DB
}

// New constructs a Service on top of the shared store.
func New(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// CreateInput carries the fields for a new medicine. Pointers distinguish
// a missing field from a zero value.
type CreateInput struct {
	Name     *string  `json:"name"`
	Quantity *int64   `json:"quantity"`
	Price    *float64 `json:"price"`
}

// UpdateInput carries an arbitrary subset of medicine fields.
type UpdateInput struct {
	Name     *string  `json:"name"`
	Quantity *int64   `json:"quantity"`
	Price    *float64 `json:"price"`
}

// List returns every medicine in the catalog.
func (s *Service) List(ctx context.Context) ([]domain.Medicine, error) {
	medicines := []domain.Medicine{}
	err := s.db.SelectContext(ctx, &medicines,
		`SELECT id, name, quantity, price, created_at FROM medicine ORDER BY id`)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "unable to list medicines", err)
	}
	return medicines, nil
}

// Get returns a single medicine by id.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Medicine, error) {
	var m domain.Medicine
	err := s.db.GetContext(ctx, &m,
		`SELECT id, name, quantity, price, created_at FROM medicine WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.NotFound, "medicine not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "unable to load medicine", err)
	}
	return &m, nil
}

// Create validates the input and inserts a new medicine row.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Medicine, error) {
	name, err := validName(in.Name)
	if err != nil {
		return nil, err
	}
	if in.Quantity == nil {
		return nil, apperr.New(apperr.Validation, "quantity is required")
	}
	if *in.Quantity < 0 {
		return nil, apperr.New(apperr.Validation, "quantity must not be negative")
	}
	if in.Price == nil {
		return nil, apperr.New(apperr.Validation, "price is required")
	}
	if *in.Price < 0 {
		return nil, apperr.New(apperr.Validation, "price must not be negative")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO medicine (name, quantity, price, created_at) VALUES (?, ?, ?, ?)`,
		name, *in.Quantity, *in.Price, now)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "unable to create medicine", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "unable to read created medicine id", err)
	}

	return &domain.Medicine{ID: id, Name: name, Quantity: *in.Quantity, Price: *in.Price, CreatedAt: &now}, nil
}

// Update applies a partial update to a medicine. Any invalid field aborts
// the whole update with no partial write.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*domain.Medicine, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name, err := validName(in.Name)
		if err != nil {
			return nil, err
		}
		m.Name = name
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, apperr.New(apperr.Validation, "quantity must not be negative")
		}
		m.Quantity = *in.Quantity
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, apperr.New(apperr.Validation, "price must not be negative")
		}
		m.Price = *in.Price
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE medicine SET name = ?, quantity = ?, price = ? WHERE id = ?`,
		m.Name, m.Quantity, m.Price, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.Store, "unable to update medicine", err)
	}
	return m, nil
}

// Delete removes a medicine unless any sale references it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	var refs int64
	err := s.db.GetContext(ctx, &refs, `SELECT COUNT(*) FROM sale WHERE medicine_id = ?`, id)
	if err != nil {
		return apperr.Wrap(apperr.Store, "unable to check sales history", err)
	}
	if refs > 0 {
		return apperr.New(apperr.Conflict, "cannot delete: sales history exists")
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM medicine WHERE id = ?`, id); err != nil {
		return apperr.Wrap(apperr.Store, "unable to delete medicine", err)
	}
	return nil
}

func validName(name *string) (string, error) {
	if name == nil {
		return "", apperr.New(apperr.Validation, "name is required")
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return "", apperr.New(apperr.Validation, "name must not be empty")
	}
	return trimmed, nil
}
