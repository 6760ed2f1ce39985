package ledger

import "context"

// Store is the single persistent substrate shared by every component.
// Implementations must make each write durable before returning and must
// serialize writes to the same table; reads may run concurrently.
//
// A nil Window on the list methods means "everything".
type Store interface {
	// CreateAppointment appends an appointment and returns its assigned id.
	CreateAppointment(ctx context.Context, a Appointment) (int64, error)
	// CreateSale appends a sale (payout already computed) and returns its id.
	CreateSale(ctx context.Context, s Sale) (int64, error)
	// CreateExpense appends an expense and returns its id.
	CreateExpense(ctx context.Context, e Expense) (int64, error)

	// ListAppointments returns appointments ordered by (date, time) ascending.
	ListAppointments(ctx context.Context, w *Window) ([]Appointment, error)
	// ListSales returns sales ordered by (date, id) ascending.
	ListSales(ctx context.Context, w *Window) ([]Sale, error)
	// ListExpenses returns expenses ordered by date descending, id descending
	// (most recent first).
	ListExpenses(ctx context.Context, w *Window) ([]Expense, error)

	// Delete* remove rows by id. Deletion is permanent; there are no cascades
	// because no record references another. Unknown ids are ignored.
	DeleteAppointments(ctx context.Context, ids ...int64) error
	DeleteSales(ctx context.Context, ids ...int64) error
	DeleteExpenses(ctx context.Context, ids ...int64) error
}
