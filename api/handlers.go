/*
handlers.go - HTTP handlers for the salon ledger

PURPOSE:
  Exposes scheduling, checkout, the expense ledger, and monthly reporting
  over REST. Handles HTTP parsing, validation, and JSON serialization;
  all business rules live in schedule.Manager and package report.

ENDPOINTS:
  Appointments:
    POST   /api/appointments            Book a slot (returns WhatsApp confirmation)
    GET    /api/appointments            List (filter: ?date= or ?month=)
    DELETE /api/appointments            Cancel by ids (requires confirm)
    GET    /api/appointments/reminders  Reminder payloads for a day

  Checkout:
    POST   /api/checkout                Record a sale with computed payout
    GET    /api/sales                   List sales (filter: ?month=)
    DELETE /api/sales                   Delete sales by ids (requires confirm)

  Expenses:
    POST   /api/expenses                Record an expense
    GET    /api/expenses                List expenses (filter: ?month=)
    DELETE /api/expenses                Delete expenses by ids (requires confirm)

  Reports:
    GET    /api/report/summary          Monthly financial summary (?month=)
    GET    /api/report/professionals    Per-professional breakdown (?month=)

ERROR HANDLING:
  Errors map to JSON with an HTTP status:
  - 400: malformed body, validation failures, unconfirmed deletion
  - 500: storage failures
  Domain validation errors surface the offending field in the message.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/artmax/salon-ledger/ledger"
	"github.com/artmax/salon-ledger/report"
	"github.com/artmax/salon-ledger/schedule"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Manager    *schedule.Manager
	Aggregator report.Aggregator

	log      zerolog.Logger
	validate *validator.Validate
}

// NewHandler creates a handler backed by the given manager.
func NewHandler(m *schedule.Manager, agg report.Aggregator, log zerolog.Logger) *Handler {
	return &Handler{
		Manager:    m,
		Aggregator: agg,
		log:        log,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// decodeAndValidate parses the body into dst and runs struct validation.
// It writes the error response itself and reports whether to continue.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err)
		return false
	}
	return true
}

// =============================================================================
// APPOINTMENT HANDLERS
// =============================================================================

// CreateAppointment books a slot and returns the stored appointment plus a
// ready-to-send WhatsApp confirmation payload.
func (h *Handler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	app, confirmation, err := h.Manager.Schedule(r.Context(), schedule.ScheduleInput{
		ClientName:   req.ClientName,
		Phone:        req.Phone,
		Service:      req.Service,
		Professional: req.Professional,
		Date:         date,
		Time:         req.Time,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to book appointment", err)
		return
	}

	h.log.Info().Int64("id", app.ID).Str("date", req.Date).Str("time", req.Time).
		Str("professional", app.Professional).Msg("appointment booked")

	writeJSON(w, http.StatusCreated, AppointmentResponse{
		Appointment:  toAppointmentDTO(app),
		Confirmation: &confirmation,
	})
}

// ListAppointments returns appointments, optionally filtered by ?date= or
// ?month=. Without a filter the full book is returned.
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		apps []ledger.Appointment
		err  error
	)
	switch {
	case r.URL.Query().Get("date") != "":
		date, perr := parseDate(r.URL.Query().Get("date"))
		if perr != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", perr)
			return
		}
		apps, err = h.Manager.ForDay(ctx, date)
	case r.URL.Query().Get("month") != "":
		month, perr := parseMonth(r.URL.Query().Get("month"))
		if perr != nil {
			writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", perr)
			return
		}
		apps, err = h.Manager.ForMonth(ctx, month.Year(), month.Month())
	default:
		apps, err = h.Manager.Appointments(ctx)
	}
	if err != nil {
		h.writeDomainError(w, "Failed to list appointments", err)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentDTOs(apps))
}

// CancelAppointments removes appointments by id. The deletion is permanent
// and refused unless the request sets confirm.
func (h *Handler) CancelAppointments(w http.ResponseWriter, r *http.Request) {
	var req DeleteRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.Manager.Cancel(r.Context(), req.IDs, req.Confirm); err != nil {
		h.writeDomainError(w, "Failed to cancel appointments", err)
		return
	}

	h.log.Info().Ints64("ids", req.IDs).Msg("appointments cancelled")
	writeJSON(w, http.StatusOK, DeleteResponse{Status: "cancelled", Deleted: req.IDs})
}

// ListReminders returns reminder payloads for every appointment on the
// given day (?date=, default today is not assumed; the date is required).
func (h *Handler) ListReminders(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	payloads, err := h.Manager.Reminders(r.Context(), date)
	if err != nil {
		h.writeDomainError(w, "Failed to build reminders", err)
		return
	}

	writeJSON(w, http.StatusOK, payloads)
}

// =============================================================================
// CHECKOUT HANDLERS
// =============================================================================

// Checkout records a sale dated today. The payout is computed by the active
// commission strategy at write time and stored with the row.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount (use a decimal string like \"150.00\")", err)
		return
	}

	sale, thanks, err := h.Manager.Checkout(r.Context(), schedule.CheckoutInput{
		ClientName:   req.ClientName,
		Amount:       amount,
		Service:      req.Service,
		Professional: req.Professional,
		Phone:        req.Phone,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to record sale", err)
		return
	}

	h.log.Info().Int64("id", sale.ID).Str("professional", sale.Professional).
		Str("amount", sale.Amount.StringFixed(2)).Str("payout", sale.Payout.StringFixed(2)).
		Msg("sale recorded")

	writeJSON(w, http.StatusCreated, CheckoutResponse{
		Sale:   toSaleDTO(sale),
		Thanks: thanks,
	})
}

// ListSales returns sales, optionally filtered by ?month=.
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	window, ok := monthWindow(w, r)
	if !ok {
		return
	}

	sales, err := h.Manager.Sales(r.Context(), window)
	if err != nil {
		h.writeDomainError(w, "Failed to list sales", err)
		return
	}

	writeJSON(w, http.StatusOK, toSaleDTOs(sales))
}

// DeleteSales removes sales by id; permanent and requires confirm.
func (h *Handler) DeleteSales(w http.ResponseWriter, r *http.Request) {
	var req DeleteRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if !req.Confirm {
		writeError(w, http.StatusBadRequest, "Deletion is permanent; set confirm to proceed", nil)
		return
	}

	if err := h.Manager.DeleteSales(r.Context(), req.IDs...); err != nil {
		h.writeDomainError(w, "Failed to delete sales", err)
		return
	}

	h.log.Info().Ints64("ids", req.IDs).Msg("sales deleted")
	writeJSON(w, http.StatusOK, DeleteResponse{Status: "deleted", Deleted: req.IDs})
}

// =============================================================================
// EXPENSE HANDLERS
// =============================================================================

// CreateExpense records an expense dated today.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req CreateExpenseRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount (use a decimal string like \"35.00\")", err)
		return
	}

	exp, err := h.Manager.RecordExpense(r.Context(), schedule.ExpenseInput{
		Description: req.Description,
		Amount:      amount,
		Category:    req.Category,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to record expense", err)
		return
	}

	h.log.Info().Int64("id", exp.ID).Str("amount", exp.Amount.StringFixed(2)).Msg("expense recorded")
	writeJSON(w, http.StatusCreated, toExpenseDTO(exp))
}

// ListExpenses returns expenses, optionally filtered by ?month=, most
// recent first.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	window, ok := monthWindow(w, r)
	if !ok {
		return
	}

	exps, err := h.Manager.Expenses(r.Context(), window)
	if err != nil {
		h.writeDomainError(w, "Failed to list expenses", err)
		return
	}

	writeJSON(w, http.StatusOK, toExpenseDTOs(exps))
}

// DeleteExpenses removes expenses by id; permanent and requires confirm.
func (h *Handler) DeleteExpenses(w http.ResponseWriter, r *http.Request) {
	var req DeleteRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if !req.Confirm {
		writeError(w, http.StatusBadRequest, "Deletion is permanent; set confirm to proceed", nil)
		return
	}

	if err := h.Manager.DeleteExpenses(r.Context(), req.IDs...); err != nil {
		h.writeDomainError(w, "Failed to delete expenses", err)
		return
	}

	h.log.Info().Ints64("ids", req.IDs).Msg("expenses deleted")
	writeJSON(w, http.StatusOK, DeleteResponse{Status: "deleted", Deleted: req.IDs})
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetSummary returns the four headline metrics for a month (?month=, required).
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	monthStr := r.URL.Query().Get("month")
	month, err := parseMonth(monthStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return
	}
	window := ledger.Month(month.Year(), month.Month())

	ctx := r.Context()
	sales, err := h.Manager.Sales(ctx, &window)
	if err != nil {
		h.writeDomainError(w, "Failed to load sales", err)
		return
	}
	exps, err := h.Manager.Expenses(ctx, &window)
	if err != nil {
		h.writeDomainError(w, "Failed to load expenses", err)
		return
	}

	s := report.Summarize(sales, exps)
	writeJSON(w, http.StatusOK, SummaryDTO{
		Month:         monthStr,
		GrossRevenue:  s.GrossRevenue.StringFixed(2),
		TotalPayout:   s.TotalPayout.StringFixed(2),
		TotalExpenses: s.TotalExpenses.StringFixed(2),
		NetProfit:     s.NetProfit.StringFixed(2),
	})
}

// GetProfessionalTotals returns the per-professional revenue/payout rollup
// for a month, sorted by professional name for a stable wire order.
func (h *Handler) GetProfessionalTotals(w http.ResponseWriter, r *http.Request) {
	month, err := parseMonth(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return
	}
	window := ledger.Month(month.Year(), month.Month())

	sales, err := h.Manager.Sales(r.Context(), &window)
	if err != nil {
		h.writeDomainError(w, "Failed to load sales", err)
		return
	}

	groups := h.Aggregator.ByProfessional(sales)
	dtos := make([]ProfessionalTotalsDTO, 0, len(groups))
	for name, totals := range groups {
		dtos = append(dtos, ProfessionalTotalsDTO{
			Professional: name,
			GrossRevenue: totals.GrossRevenue.StringFixed(2),
			Payout:       totals.TotalPayout.StringFixed(2),
		})
	}
	sort.Slice(dtos, func(i, j int) bool { return dtos[i].Professional < dtos[j].Professional })

	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

// monthWindow parses an optional ?month= filter. A missing parameter yields
// a nil window (no filter); a malformed one writes a 400 and returns ok=false.
func monthWindow(w http.ResponseWriter, r *http.Request) (*ledger.Window, bool) {
	s := r.URL.Query().Get("month")
	if s == "" {
		return nil, true
	}
	month, err := parseMonth(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return nil, false
	}
	window := ledger.Month(month.Year(), month.Month())
	return &window, true
}

// writeDomainError maps domain errors to HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case ledger.IsValidation(err):
		writeError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, schedule.ErrNotConfirmed):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.log.Error().Err(err).Msg(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
