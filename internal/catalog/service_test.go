package catalog

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"pharmtrack/internal/apperr"
	"pharmtrack/internal/database"
	"pharmtrack/internal/migrations"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db := database.Connect(":memory:")
	t.Cleanup(func() { _ = db.Close() })
	migrations.Run(db)
	return db
}

func ptr[T any](v T) *T { return &v }

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, kind, ae.Kind)
}

func TestCreateTrimsNameAndIsListed(t *testing.T) {
	svc := New(newTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Name:     ptr("  Aspirin  "),
		Quantity: ptr(int64(100)),
		Price:    ptr(5.99),
	})
	require.NoError(t, err)
	require.Equal(t, "Aspirin", created.Name)
	require.Equal(t, int64(100), created.Quantity)
	require.Equal(t, 5.99, created.Price)
	require.NotNil(t, created.CreatedAt)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, created.ID, list[0].ID)
	require.Equal(t, "Aspirin", list[0].Name)
}

func TestCreateValidation(t *testing.T) {
	svc := New(newTestDB(t))
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"missing name", CreateInput{Quantity: ptr(int64(10)), Price: ptr(1.0)}},
		{"blank name", CreateInput{Name: ptr("   "), Quantity: ptr(int64(10)), Price: ptr(1.0)}},
		{"missing quantity", CreateInput{Name: ptr("Aspirin"), Price: ptr(1.0)}},
		{"negative quantity", CreateInput{Name: ptr("Aspirin"), Quantity: ptr(int64(-1)), Price: ptr(1.0)}},
		{"missing price", CreateInput{Name: ptr("Aspirin"), Quantity: ptr(int64(10))}},
		{"negative price", CreateInput{Name: ptr("Aspirin"), Quantity: ptr(int64(10)), Price: ptr(-0.01)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.in)
			requireKind(t, err, apperr.Validation)
		})
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list, "rejected creates must not persist rows")
}

func TestUpdatePartial(t *testing.T) {
	svc := New(newTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Name:     ptr("Ibuprofen"),
		Quantity: ptr(int64(80)),
		Price:    ptr(7.25),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateInput{Price: ptr(6.50)})
	require.NoError(t, err)
	require.Equal(t, "Ibuprofen", updated.Name)
	require.Equal(t, int64(80), updated.Quantity)
	require.Equal(t, 6.50, updated.Price)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 6.50, got.Price)
}

func TestUpdateInvalidFieldAbortsWholeUpdate(t *testing.T) {
	svc := New(newTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Name:     ptr("Cetirizine"),
		Quantity: ptr(int64(8)),
		Price:    ptr(4.75),
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, UpdateInput{
		Name:     ptr("Cetirizine 10mg"),
		Quantity: ptr(int64(-5)),
	})
	requireKind(t, err, apperr.Validation)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Cetirizine", got.Name, "no partial write on validation failure")
	require.Equal(t, int64(8), got.Quantity)
}

func TestUpdateNotFound(t *testing.T) {
	svc := New(newTestDB(t))

	_, err := svc.Update(context.Background(), 42, UpdateInput{Price: ptr(1.0)})
	requireKind(t, err, apperr.NotFound)
}

func TestDeleteRemovesRow(t *testing.T) {
	svc := New(newTestDB(t))
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Name:     ptr("Omeprazole"),
		Quantity: ptr(int64(0)),
		Price:    ptr(9.99),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	requireKind(t, err, apperr.NotFound)
}

func TestDeleteNotFound(t *testing.T) {
	svc := New(newTestDB(t))

	err := svc.Delete(context.Background(), 42)
	requireKind(t, err, apperr.NotFound)
}

func TestDeleteWithSalesHistoryConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := New(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Name:     ptr("Paracetamol"),
		Quantity: ptr(int64(150)),
		Price:    ptr(3.49),
	})
	require.NoError(t, err)

	_, err = db.Exec(
		`INSERT INTO sale (medicine_id, quantity_sold, total_price, date_sold) VALUES (?, ?, ?, ?)`,
		created.ID, 10, 34.90, "2026-08-29T10:00:00Z")
	require.NoError(t, err)

	err = svc.Delete(ctx, created.ID)
	requireKind(t, err, apperr.Conflict)
	require.EqualError(t, err, "cannot delete: sales history exists")

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, int64(150), got.Quantity, "medicine untouched after blocked delete")

	var saleCount int64
	require.NoError(t, db.Get(&saleCount, `SELECT COUNT(*) FROM sale`))
	require.Equal(t, int64(1), saleCount, "sales untouched after blocked delete")
}
