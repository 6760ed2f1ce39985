/*
Package schedule is the business flow layer: it validates input, drives the
ledger store, calls the commission engine at checkout, and prepares (never
sends) client notifications.

FLOWS:
  Schedule      validate -> persist appointment -> confirmation payload
  Checkout      validate -> compute payout -> persist sale -> thanks payload
  RecordExpense validate -> persist expense
  Cancel        bulk delete, guarded by an explicit confirmation flag

All validation happens before any store mutation, so a failed call leaves no
partial writes. Every operation is a synchronous call that completes or fails
before returning; nothing here is long-running.

SEE ALSO:
  - commission: the payout strategies
  - notify: message payload construction
*/
package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/artmax/salon-ledger/commission"
	"github.com/artmax/salon-ledger/ledger"
	"github.com/artmax/salon-ledger/notify"
)

// ErrNotConfirmed is returned by Cancel when the caller did not set the
// confirmation flag. Deletion is irreversible and must be a deliberate,
// distinct call from listing.
var ErrNotConfirmed = errors.New("cancellation not confirmed")

// Rules holds the validation bounds. Defaults() matches the strictest shop
// variant.
type Rules struct {
	MinNameLen        int
	MinPhoneDigits    int
	MaxPhoneDigits    int
	MinDescriptionLen int
	MinSaleAmount     decimal.Decimal
	MaxSaleAmount     decimal.Decimal
}

// Defaults returns the strict validation bounds: names of at least 2 runes,
// 10-11 digit phones, sale amounts in [0.01, 10000.00], descriptions of at
// least 3 runes.
func Defaults() Rules {
	return Rules{
		MinNameLen:        2,
		MinPhoneDigits:    10,
		MaxPhoneDigits:    11,
		MinDescriptionLen: 3,
		MinSaleAmount:     decimal.RequireFromString("0.01"),
		MaxSaleAmount:     decimal.RequireFromString("10000.00"),
	}
}

// Clock supplies "today" for checkout and expense records; injected so tests
// can pin it.
type Clock func() time.Time

// Manager coordinates the flows. It holds no state of its own beyond its
// collaborators; there are no package-level singletons.
type Manager struct {
	store    ledger.Store
	strategy commission.Strategy
	rules    Rules
	now      Clock
}

// NewManager wires a manager. A nil clock means time.Now.
func NewManager(store ledger.Store, strategy commission.Strategy, rules Rules, clock Clock) *Manager {
	if clock == nil {
		clock = time.Now
	}
	return &Manager{store: store, strategy: strategy, rules: rules, now: clock}
}

// =============================================================================
// SCHEDULING
// =============================================================================

// ScheduleInput is a booking form submission.
type ScheduleInput struct {
	ClientName   string
	Phone        string
	Service      string
	Professional string
	Date         time.Time
	Time         string // "HH:MM"
}

// Schedule validates and persists an appointment, returning the stored record
// and a prepared (unsent) confirmation payload.
func (m *Manager) Schedule(ctx context.Context, in ScheduleInput) (ledger.Appointment, notify.Payload, error) {
	if err := m.validateName(in.ClientName); err != nil {
		return ledger.Appointment{}, notify.Payload{}, err
	}
	if err := m.validatePhone(in.Phone); err != nil {
		return ledger.Appointment{}, notify.Payload{}, err
	}
	hour, err := normalizeHour(in.Time)
	if err != nil {
		return ledger.Appointment{}, notify.Payload{}, err
	}

	a := ledger.Appointment{
		Date:         ledger.DateOnly(in.Date),
		Time:         hour,
		ClientName:   in.ClientName,
		Phone:        in.Phone,
		Service:      in.Service,
		Professional: in.Professional,
		Status:       ledger.StatusScheduled,
	}

	id, err := m.store.CreateAppointment(ctx, a)
	if err != nil {
		return ledger.Appointment{}, notify.Payload{}, err
	}
	a.ID = id

	payload := notify.NewPayload(notify.KindConfirmation, in.ClientName, in.Phone, in.Service, hour)
	return a, payload, nil
}

// ForDay returns the appointments on a calendar date, ordered by time.
func (m *Manager) ForDay(ctx context.Context, date time.Time) ([]ledger.Appointment, error) {
	w := ledger.Day(date)
	return m.store.ListAppointments(ctx, &w)
}

// ForMonth returns the appointments in [first of month, first of next month).
func (m *Manager) ForMonth(ctx context.Context, year int, month time.Month) ([]ledger.Appointment, error) {
	w := ledger.Month(year, month)
	return m.store.ListAppointments(ctx, &w)
}

// Appointments returns every appointment, ordered by (date, time).
func (m *Manager) Appointments(ctx context.Context) ([]ledger.Appointment, error) {
	return m.store.ListAppointments(ctx, nil)
}

// Cancel bulk-deletes appointments. The confirmed flag must be set by the
// caller; this mirrors the UI-level "are you sure" safeguard, not a storage
// one. Deletion is permanent.
func (m *Manager) Cancel(ctx context.Context, ids []int64, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}
	return m.store.DeleteAppointments(ctx, ids...)
}

// Reminders prepares the day's reminder payloads. Dispatch is a manual,
// human-triggered action; nothing schedules this automatically.
func (m *Manager) Reminders(ctx context.Context, date time.Time) ([]notify.Payload, error) {
	appointments, err := m.ForDay(ctx, date)
	if err != nil {
		return nil, err
	}
	payloads := make([]notify.Payload, 0, len(appointments))
	for _, a := range appointments {
		payloads = append(payloads, notify.NewPayload(notify.KindReminder, a.ClientName, a.Phone, a.Service, a.Time))
	}
	return payloads, nil
}

// =============================================================================
// CHECKOUT
// =============================================================================

// CheckoutInput is a point-of-sale submission. Phone is optional and only
// used to prepare the thanks message.
type CheckoutInput struct {
	ClientName   string
	Amount       decimal.Decimal
	Service      string
	Professional string
	Phone        string
}

// Checkout computes the professional's payout under the active strategy,
// persists the sale dated today, and optionally prepares a thanks payload
// when a phone was supplied. The payout is computed before the write and
// stored with the sale; it is never recomputed.
//
// Only the amount is validated here. The booking flow gates client names at
// scheduling time; checkout accepts whatever name the receptionist typed.
func (m *Manager) Checkout(ctx context.Context, in CheckoutInput) (ledger.Sale, *notify.Payload, error) {
	if in.Amount.LessThan(m.rules.MinSaleAmount) || in.Amount.GreaterThan(m.rules.MaxSaleAmount) {
		return ledger.Sale{}, nil, &ledger.ValidationError{
			Field: "amount",
			Reason: fmt.Sprintf("must be between %s and %s",
				m.rules.MinSaleAmount.StringFixed(2), m.rules.MaxSaleAmount.StringFixed(2)),
		}
	}

	sale := ledger.Sale{
		Date:         ledger.DateOnly(m.now()),
		ClientName:   in.ClientName,
		Amount:       in.Amount,
		Service:      in.Service,
		Professional: in.Professional,
		Payout:       m.strategy.Payout(in.Professional, in.Service, in.Amount),
	}

	id, err := m.store.CreateSale(ctx, sale)
	if err != nil {
		return ledger.Sale{}, nil, err
	}
	sale.ID = id

	var payload *notify.Payload
	if in.Phone != "" {
		p := notify.NewPayload(notify.KindThanks, in.ClientName, in.Phone, in.Service, "")
		payload = &p
	}
	return sale, payload, nil
}

// Sales returns sales, optionally windowed.
func (m *Manager) Sales(ctx context.Context, w *ledger.Window) ([]ledger.Sale, error) {
	return m.store.ListSales(ctx, w)
}

// DeleteSales removes sales by id. Permanent.
func (m *Manager) DeleteSales(ctx context.Context, ids ...int64) error {
	return m.store.DeleteSales(ctx, ids...)
}

// =============================================================================
// EXPENSES
// =============================================================================

// ExpenseInput is an expense ledger entry form submission.
type ExpenseInput struct {
	Description string
	Amount      decimal.Decimal
	Category    string
}

// RecordExpense validates and persists an expense dated today.
func (m *Manager) RecordExpense(ctx context.Context, in ExpenseInput) (ledger.Expense, error) {
	if runeLen(in.Description) < m.rules.MinDescriptionLen {
		return ledger.Expense{}, &ledger.ValidationError{
			Field:  "description",
			Reason: fmt.Sprintf("must be at least %d characters", m.rules.MinDescriptionLen),
		}
	}
	if !in.Amount.IsPositive() {
		return ledger.Expense{}, &ledger.ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}

	e := ledger.Expense{
		Date:        ledger.DateOnly(m.now()),
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
	}

	id, err := m.store.CreateExpense(ctx, e)
	if err != nil {
		return ledger.Expense{}, err
	}
	e.ID = id
	return e, nil
}

// Expenses returns expenses most-recent-first, optionally windowed.
func (m *Manager) Expenses(ctx context.Context, w *ledger.Window) ([]ledger.Expense, error) {
	return m.store.ListExpenses(ctx, w)
}

// DeleteExpenses removes expenses by id. Permanent.
func (m *Manager) DeleteExpenses(ctx context.Context, ids ...int64) error {
	return m.store.DeleteExpenses(ctx, ids...)
}

// =============================================================================
// VALIDATION
// =============================================================================

func (m *Manager) validateName(name string) error {
	if runeLen(name) < m.rules.MinNameLen {
		return &ledger.ValidationError{
			Field:  "client_name",
			Reason: fmt.Sprintf("must be at least %d characters", m.rules.MinNameLen),
		}
	}
	return nil
}

func (m *Manager) validatePhone(phone string) error {
	digits := len(notify.NormalizePhone(phone))
	if digits < m.rules.MinPhoneDigits || digits > m.rules.MaxPhoneDigits {
		return &ledger.ValidationError{
			Field: "phone",
			Reason: fmt.Sprintf("must have between %d and %d digits",
				m.rules.MinPhoneDigits, m.rules.MaxPhoneDigits),
		}
	}
	return nil
}

// normalizeHour parses a clock time and re-renders it zero-padded. The
// stored column sorts lexicographically, so "9:00" must become "09:00" or it
// would land after "10:00" in the day view.
func normalizeHour(s string) (string, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return "", &ledger.ValidationError{Field: "time", Reason: `must be a clock time like "14:30"`}
	}
	return t.Format("15:04"), nil
}

// runeLen counts runes of the trimmed string; names and descriptions are
// user-facing text, so byte length would miscount accents.
func runeLen(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}
