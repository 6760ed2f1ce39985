package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artmax/salon-ledger/ledger"
	"github.com/artmax/salon-ledger/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func appt(date time.Time, hour, client string) ledger.Appointment {
	return ledger.Appointment{
		Date:         date,
		Time:         hour,
		ClientName:   client,
		Phone:        "11987654321",
		Service:      "Escova",
		Professional: "Evelyn",
	}
}

// =============================================================================
// APPOINTMENTS
// =============================================================================

func TestAppointments_MonotonicIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.CreateAppointment(ctx, appt(day(2024, time.June, 10), "14:00", "Maria Silva"))
	require.NoError(t, err)
	second, err := store.CreateAppointment(ctx, appt(day(2024, time.June, 10), "15:00", "Ana Costa"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestAppointments_OrderedByDateThenTime(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Inserted out of order on purpose.
	_, err := store.CreateAppointment(ctx, appt(day(2024, time.June, 11), "09:00", "C"))
	require.NoError(t, err)
	_, err = store.CreateAppointment(ctx, appt(day(2024, time.June, 10), "15:00", "B"))
	require.NoError(t, err)
	_, err = store.CreateAppointment(ctx, appt(day(2024, time.June, 10), "14:00", "A"))
	require.NoError(t, err)

	all, err := store.ListAppointments(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, "A", all[0].ClientName)
	assert.Equal(t, "B", all[1].ClientName)
	assert.Equal(t, "C", all[2].ClientName)
}

func TestAppointments_StatusDefaultsToScheduled(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateAppointment(ctx, appt(day(2024, time.June, 10), "14:00", "Maria Silva"))
	require.NoError(t, err)

	all, err := store.ListAppointments(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, ledger.StatusScheduled, all[0].Status)
}

func TestAppointments_WindowIsHalfOpen(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateAppointment(ctx, appt(day(2024, time.May, 31), "10:00", "before"))
	require.NoError(t, err)
	_, err = store.CreateAppointment(ctx, appt(day(2024, time.June, 1), "10:00", "first"))
	require.NoError(t, err)
	_, err = store.CreateAppointment(ctx, appt(day(2024, time.June, 30), "10:00", "last"))
	require.NoError(t, err)
	_, err = store.CreateAppointment(ctx, appt(day(2024, time.July, 1), "10:00", "after"))
	require.NoError(t, err)

	w := ledger.Month(2024, time.June)
	june, err := store.ListAppointments(ctx, &w)
	require.NoError(t, err)

	require.Len(t, june, 2)
	assert.Equal(t, "first", june[0].ClientName)
	assert.Equal(t, "last", june[1].ClientName)
}

func TestAppointments_ListingIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateAppointment(ctx, appt(day(2024, time.June, 10), "14:00", "Maria Silva"))
	require.NoError(t, err)

	w := ledger.Day(day(2024, time.June, 10))
	first, err := store.ListAppointments(ctx, &w)
	require.NoError(t, err)
	second, err := store.ListAppointments(ctx, &w)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAppointments_DeleteIsPermanent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateAppointment(ctx, appt(day(2024, time.June, 10), "14:00", "Maria Silva"))
	require.NoError(t, err)
	keep, err := store.CreateAppointment(ctx, appt(day(2024, time.June, 10), "15:00", "Ana Costa"))
	require.NoError(t, err)

	require.NoError(t, store.DeleteAppointments(ctx, id))

	all, err := store.ListAppointments(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, keep, all[0].ID)

	// Deleting an id that no longer exists is a no-op, not an error.
	assert.NoError(t, store.DeleteAppointments(ctx, id))
}

func TestAppointments_BulkDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := store.CreateAppointment(ctx, appt(day(2024, time.June, 10+i), "14:00", "bulk"))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.NoError(t, store.DeleteAppointments(ctx, ids...))

	all, err := store.ListAppointments(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

// =============================================================================
// SALES
// =============================================================================

func TestSales_AmountAndPayoutRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateSale(ctx, ledger.Sale{
		Date:         day(2024, time.June, 10),
		ClientName:   "Maria Silva",
		Amount:       decimal.RequireFromString("100.00"),
		Service:      "Escova",
		Professional: "Evelyn",
		Payout:       decimal.RequireFromString("50.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	sales, err := store.ListSales(ctx, nil)
	require.NoError(t, err)
	require.Len(t, sales, 1)

	assert.Equal(t, "100.00", sales[0].Amount.StringFixed(2))
	assert.Equal(t, "50.00", sales[0].Payout.StringFixed(2))
	assert.Equal(t, "Evelyn", sales[0].Professional)
	assert.Equal(t, day(2024, time.June, 10), sales[0].Date)
}

func TestSales_WindowFilter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, d := range []time.Time{day(2024, time.May, 20), day(2024, time.June, 5), day(2024, time.June, 25)} {
		_, err := store.CreateSale(ctx, ledger.Sale{
			Date: d, ClientName: "c", Amount: decimal.RequireFromString("10"), Payout: decimal.Zero,
		})
		require.NoError(t, err)
	}

	w := ledger.Month(2024, time.June)
	june, err := store.ListSales(ctx, &w)
	require.NoError(t, err)
	assert.Len(t, june, 2)
}

// =============================================================================
// EXPENSES
// =============================================================================

func TestExpenses_MostRecentFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateExpense(ctx, ledger.Expense{
		Date: day(2024, time.June, 1), Description: "tintas", Amount: decimal.RequireFromString("45.90"),
	})
	require.NoError(t, err)
	_, err = store.CreateExpense(ctx, ledger.Expense{
		Date: day(2024, time.June, 15), Description: "luz", Amount: decimal.RequireFromString("120.00"), Category: "contas",
	})
	require.NoError(t, err)
	// Same date as the first: higher id wins the tie.
	_, err = store.CreateExpense(ctx, ledger.Expense{
		Date: day(2024, time.June, 1), Description: "shampoo", Amount: decimal.RequireFromString("30.00"),
	})
	require.NoError(t, err)

	all, err := store.ListExpenses(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, "luz", all[0].Description)
	assert.Equal(t, "shampoo", all[1].Description)
	assert.Equal(t, "tintas", all[2].Description)
	assert.Equal(t, "contas", all[0].Category)
}
