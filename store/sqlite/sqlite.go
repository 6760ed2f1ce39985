/*
Package sqlite is the embedded SQLite implementation of ledger.Store.

KEY TABLES:
  appointments: scheduled visits, ordered by (date, time)
  sales:        finalized checkouts with the computed payout
  expenses:     cost entries, listed most-recent-first

AMOUNTS:
  Currency columns are stored as decimal strings and parsed back with
  ledger.ParseAmount, which coerces malformed values to zero instead of
  failing the scan.

CONCURRENCY:
  One writer at a time via sync.RWMutex, so id assignment never races even
  when the store is shared across goroutines. Reads run concurrently under
  the read lock. No operation spans more than one table, so there are no
  multi-statement transactions to manage.

WAL MODE:
  The database is opened with WAL so readers never block the writer and every
  completed write is durable when the call returns.

USAGE:
  store, err := sqlite.New("./salon.db")   // ":memory:" for tests
  defer store.Close()

SEE ALSO:
  - ledger/store.go: interface definition
  - ledger/errors.go: StorageError wrapping
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/artmax/salon-ledger/ledger"
)

const dateLayout = "2006-01-02"

// Store implements ledger.Store on an embedded SQLite database.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ ledger.Store = (*Store)(nil)

// New opens (or creates) the database at path and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS appointments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		client_name TEXT NOT NULL,
		phone TEXT,
		service TEXT,
		professional TEXT,
		status TEXT NOT NULL DEFAULT 'scheduled'
	);

	CREATE INDEX IF NOT EXISTS idx_appointments_date
		ON appointments(date, time);

	CREATE TABLE IF NOT EXISTS sales (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		client_name TEXT NOT NULL,
		amount TEXT NOT NULL,
		service TEXT,
		professional TEXT,
		payout TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sales_date
		ON sales(date);
	CREATE INDEX IF NOT EXISTS idx_sales_professional
		ON sales(professional);

	CREATE TABLE IF NOT EXISTS expenses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		description TEXT NOT NULL,
		amount TEXT NOT NULL,
		category TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_expenses_date
		ON expenses(date DESC, id DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// APPOINTMENTS
// =============================================================================

// CreateAppointment appends an appointment row and returns its assigned id.
func (s *Store) CreateAppointment(ctx context.Context, a ledger.Appointment) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := a.Status
	if status == "" {
		status = ledger.StatusScheduled
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO appointments (date, time, client_name, phone, service, professional, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.Date.Format(dateLayout), a.Time, a.ClientName, a.Phone, a.Service, a.Professional, status,
	)
	if err != nil {
		return 0, &ledger.StorageError{Op: "create appointment", Err: err}
	}
	return lastID(res, "create appointment")
}

// ListAppointments returns appointments ordered by (date, time) ascending,
// optionally restricted to a window.
func (s *Store) ListAppointments(ctx context.Context, w *ledger.Window) ([]ledger.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, date, time, client_name, phone, service, professional, status
		FROM appointments`
	args := windowArgs(&query, w)
	query += ` ORDER BY date ASC, time ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &ledger.StorageError{Op: "list appointments", Err: err}
	}
	defer rows.Close()

	var out []ledger.Appointment
	for rows.Next() {
		var (
			a       ledger.Appointment
			date    string
			phone   sql.NullString
			service sql.NullString
			prof    sql.NullString
		)
		if err := rows.Scan(&a.ID, &date, &a.Time, &a.ClientName, &phone, &service, &prof, &a.Status); err != nil {
			return nil, &ledger.StorageError{Op: "scan appointment", Err: err}
		}
		a.Date = parseDate(date)
		a.Phone = phone.String
		a.Service = service.String
		a.Professional = prof.String
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteAppointments removes appointment rows by id.
func (s *Store) DeleteAppointments(ctx context.Context, ids ...int64) error {
	return s.deleteByID(ctx, "appointments", ids)
}

// =============================================================================
// SALES
// =============================================================================

// CreateSale appends a sale row and returns its assigned id. The payout must
// already be computed; the store never derives it.
func (s *Store) CreateSale(ctx context.Context, sale ledger.Sale) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sales (date, client_name, amount, service, professional, payout)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sale.Date.Format(dateLayout), sale.ClientName, sale.Amount.String(),
		sale.Service, sale.Professional, sale.Payout.String(),
	)
	if err != nil {
		return 0, &ledger.StorageError{Op: "create sale", Err: err}
	}
	return lastID(res, "create sale")
}

// ListSales returns sales ordered by (date, id) ascending, optionally
// restricted to a window.
func (s *Store) ListSales(ctx context.Context, w *ledger.Window) ([]ledger.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, date, client_name, amount, service, professional, payout
		FROM sales`
	args := windowArgs(&query, w)
	query += ` ORDER BY date ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &ledger.StorageError{Op: "list sales", Err: err}
	}
	defer rows.Close()

	var out []ledger.Sale
	for rows.Next() {
		var (
			sale           ledger.Sale
			date           string
			amount, payout string
			service, prof  sql.NullString
		)
		if err := rows.Scan(&sale.ID, &date, &sale.ClientName, &amount, &service, &prof, &payout); err != nil {
			return nil, &ledger.StorageError{Op: "scan sale", Err: err}
		}
		sale.Date = parseDate(date)
		sale.Amount = ledger.ParseAmount(amount)
		sale.Payout = ledger.ParseAmount(payout)
		sale.Service = service.String
		sale.Professional = prof.String
		out = append(out, sale)
	}
	return out, rows.Err()
}

// DeleteSales removes sale rows by id.
func (s *Store) DeleteSales(ctx context.Context, ids ...int64) error {
	return s.deleteByID(ctx, "sales", ids)
}

// =============================================================================
// EXPENSES
// =============================================================================

// CreateExpense appends an expense row and returns its assigned id.
func (s *Store) CreateExpense(ctx context.Context, e ledger.Expense) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (date, description, amount, category)
		VALUES (?, ?, ?, ?)`,
		e.Date.Format(dateLayout), e.Description, e.Amount.String(), e.Category,
	)
	if err != nil {
		return 0, &ledger.StorageError{Op: "create expense", Err: err}
	}
	return lastID(res, "create expense")
}

// ListExpenses returns expenses most-recent-first (date desc, id desc),
// optionally restricted to a window.
func (s *Store) ListExpenses(ctx context.Context, w *ledger.Window) ([]ledger.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, date, description, amount, category
		FROM expenses`
	args := windowArgs(&query, w)
	query += ` ORDER BY date DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &ledger.StorageError{Op: "list expenses", Err: err}
	}
	defer rows.Close()

	var out []ledger.Expense
	for rows.Next() {
		var (
			e        ledger.Expense
			date     string
			amount   string
			category sql.NullString
		)
		if err := rows.Scan(&e.ID, &date, &e.Description, &amount, &category); err != nil {
			return nil, &ledger.StorageError{Op: "scan expense", Err: err}
		}
		e.Date = parseDate(date)
		e.Amount = ledger.ParseAmount(amount)
		e.Category = category.String
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteExpenses removes expense rows by id.
func (s *Store) DeleteExpenses(ctx context.Context, ids ...int64) error {
	return s.deleteByID(ctx, "expenses", ids)
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Store) deleteByID(ctx context.Context, table string, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	// table is one of the three fixed names above, never caller input.
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id IN (%s)", table, placeholders), args...)
	if err != nil {
		return &ledger.StorageError{Op: "delete from " + table, Err: err}
	}
	return nil
}

// windowArgs appends a WHERE clause for the half-open window and returns the
// bound arguments. End is exclusive.
func windowArgs(query *string, w *ledger.Window) []any {
	if w == nil {
		return nil
	}
	*query += ` WHERE date >= ? AND date < ?`
	return []any{w.Start.Format(dateLayout), w.End.Format(dateLayout)}
}

func parseDate(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}

func lastID(res sql.Result, op string) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &ledger.StorageError{Op: op, Err: err}
	}
	return id, nil
}
