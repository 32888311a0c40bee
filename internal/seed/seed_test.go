package seed

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pharmtrack/internal/database"
	"pharmtrack/internal/migrations"
)

func TestRunSeedsEmptyStoreOnce(t *testing.T) {
	db := database.Connect(":memory:")
	t.Cleanup(func() { _ = db.Close() })
	migrations.Run(db)

	Run(db)

	var medicines, sales int64
	require.NoError(t, db.Get(&medicines, `SELECT COUNT(*) FROM medicine`))
	require.NoError(t, db.Get(&sales, `SELECT COUNT(*) FROM sale`))
	require.Equal(t, int64(6), medicines)
	require.Equal(t, int64(2), sales)

	// Demo sales must have drawn down demo stock.
	var paracetamol, ibuprofen int64
	require.NoError(t, db.Get(&paracetamol, `SELECT quantity FROM medicine WHERE name = 'Paracetamol'`))
	require.NoError(t, db.Get(&ibuprofen, `SELECT quantity FROM medicine WHERE name = 'Ibuprofen'`))
	require.Equal(t, int64(140), paracetamol)
	require.Equal(t, int64(76), ibuprofen)

	// A second run against a populated store is a no-op.
	Run(db)
	require.NoError(t, db.Get(&medicines, `SELECT COUNT(*) FROM medicine`))
	require.NoError(t, db.Get(&sales, `SELECT COUNT(*) FROM sale`))
	require.Equal(t, int64(6), medicines)
	require.Equal(t, int64(2), sales)
}
