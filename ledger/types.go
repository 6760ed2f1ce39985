/*
Package ledger defines the persistent record types of the salon: appointments,
sales, and expenses, together with the store interface that owns them.

KEY CONCEPTS IN THIS FILE (types.go):
  - Appointment: A scheduled visit (client, service, professional, date/time)
  - Sale: A completed checkout, carrying the computed professional payout
  - Expense: A cost entry in the operating ledger
  - Window: A half-open calendar-date range used for day/month views

DESIGN PRINCIPLES:
  1. Precision: All currency fields use decimal.Decimal, never float64
  2. No cross-references: records do not point at each other; a sale is not
     tied to the appointment it fulfilled
  3. Append-by-convention: records are created and deleted, never updated

SEE ALSO:
  - store.go: Store interface definition
  - errors.go: ValidationError / StorageError taxonomy
  - store/sqlite: the embedded SQLite implementation
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RECORDS
// =============================================================================

// StatusScheduled is the default appointment status assigned on creation.
const StatusScheduled = "scheduled"

// Appointment is a scheduled client visit. Date holds the calendar date only;
// the time of day is kept as an "HH:MM" string, matching how the booking form
// captures it.
type Appointment struct {
	ID           int64
	Date         time.Time
	Time         string
	ClientName   string
	Phone        string
	Service      string
	Professional string
	Status       string
}

// Sale is a finalized checkout. Payout is the portion of Amount owed to the
// professional, computed by the commission engine before the record is
// persisted and never recomputed afterwards.
type Sale struct {
	ID           int64
	Date         time.Time
	ClientName   string
	Amount       decimal.Decimal
	Service      string
	Professional string
	Payout       decimal.Decimal
}

// Expense is a cost entry. Category is optional free text.
type Expense struct {
	ID          int64
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Category    string
}

// =============================================================================
// WINDOW - half-open date range [Start, End)
// =============================================================================

// Window filters records by calendar date. End is exclusive, so a month view
// is [first of month, first of next month).
type Window struct {
	Start time.Time
	End   time.Time
}

// Day returns the window covering a single calendar date.
func Day(d time.Time) Window {
	start := DateOnly(d)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

// Month returns the window [first of month, first of next month).
func Month(year int, month time.Month) Window {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// Contains reports whether a date falls inside the window.
func (w Window) Contains(d time.Time) bool {
	d = DateOnly(d)
	return !d.Before(w.Start) && d.Before(w.End)
}

// DateOnly truncates a time to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// AMOUNT PARSING
// =============================================================================

// ParseAmount converts a stored decimal string into a Decimal. Malformed
// values coerce to zero rather than failing the whole scan, so one dirty row
// cannot take down a monthly report.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
