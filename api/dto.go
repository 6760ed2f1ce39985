/*
dto.go - Request/response data structures for the salon API

PURPOSE:
  Defines the JSON shapes exchanged with clients. Domain types (ledger,
  schedule, report) never cross the HTTP boundary directly; every response
  goes through a DTO so wire compatibility survives domain refactors.

CONVENTIONS:
  - Dates travel as "YYYY-MM-DD", months as "YYYY-MM".
  - Money travels as strings with two decimal places ("150.00"); floats
    never touch monetary values on the wire.
  - Request structs carry validator tags; handlers run them through a
    shared *validator.Validate before touching domain logic.

SEE ALSO:
  - handlers.go: Handler implementations
  - server.go: Router setup and middleware
*/
package api

import (
	"time"

	"github.com/artmax/salon-ledger/ledger"
	"github.com/artmax/salon-ledger/notify"
)

// =============================================================================
// REQUESTS
// =============================================================================

// CreateAppointmentRequest books a slot.
type CreateAppointmentRequest struct {
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Time         string `json:"time" validate:"required,datetime=15:04"`
	ClientName   string `json:"client_name" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	Service      string `json:"service" validate:"required"`
	Professional string `json:"professional" validate:"required"`
}

// CheckoutRequest records a completed service as a sale, dated today.
type CheckoutRequest struct {
	ClientName   string `json:"client_name" validate:"required"`
	Phone        string `json:"phone" validate:"omitempty"`
	Service      string `json:"service" validate:"required"`
	Professional string `json:"professional" validate:"required"`
	Amount       string `json:"amount" validate:"required"`
}

// CreateExpenseRequest records a business expense, dated today.
type CreateExpenseRequest struct {
	Description string `json:"description" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	Category    string `json:"category" validate:"omitempty"`
}

// DeleteRequest removes rows by id. Deletion is permanent, so the caller
// must set confirm explicitly; a bare id list is rejected.
type DeleteRequest struct {
	IDs     []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
	Confirm bool    `json:"confirm"`
}

// =============================================================================
// RESPONSES
// =============================================================================

// AppointmentDTO is the wire form of a booked slot.
type AppointmentDTO struct {
	ID           int64  `json:"id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	ClientName   string `json:"client_name"`
	Phone        string `json:"phone"`
	Service      string `json:"service"`
	Professional string `json:"professional"`
	Status       string `json:"status"`
}

// SaleDTO is the wire form of a checkout row. Amount and Payout are fixed
// to two decimal places.
type SaleDTO struct {
	ID           int64  `json:"id"`
	Date         string `json:"date"`
	ClientName   string `json:"client_name"`
	Service      string `json:"service"`
	Professional string `json:"professional"`
	Amount       string `json:"amount"`
	Payout       string `json:"payout"`
}

// ExpenseDTO is the wire form of an expense row.
type ExpenseDTO struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category,omitempty"`
}

// AppointmentResponse pairs the stored row with the confirmation message
// the receptionist forwards over WhatsApp.
type AppointmentResponse struct {
	Appointment  AppointmentDTO  `json:"appointment"`
	Confirmation *notify.Payload `json:"confirmation,omitempty"`
}

// CheckoutResponse pairs the stored sale with an optional thank-you message
// (present only when the client left a phone number).
type CheckoutResponse struct {
	Sale   SaleDTO         `json:"sale"`
	Thanks *notify.Payload `json:"thanks,omitempty"`
}

// SummaryDTO is the monthly financial summary.
type SummaryDTO struct {
	Month         string `json:"month"`
	GrossRevenue  string `json:"gross_revenue"`
	TotalPayout   string `json:"total_payout"`
	TotalExpenses string `json:"total_expenses"`
	NetProfit     string `json:"net_profit"`
}

// ProfessionalTotalsDTO is one row of the per-professional breakdown.
type ProfessionalTotalsDTO struct {
	Professional string `json:"professional"`
	GrossRevenue string `json:"gross_revenue"`
	Payout       string `json:"payout"`
}

// DeleteResponse acknowledges a confirmed deletion.
type DeleteResponse struct {
	Status  string  `json:"status"`
	Deleted []int64 `json:"deleted"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toAppointmentDTO(a ledger.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:           a.ID,
		Date:         a.Date.Format("2006-01-02"),
		Time:         a.Time,
		ClientName:   a.ClientName,
		Phone:        a.Phone,
		Service:      a.Service,
		Professional: a.Professional,
		Status:       a.Status,
	}
}

func toAppointmentDTOs(apps []ledger.Appointment) []AppointmentDTO {
	dtos := make([]AppointmentDTO, len(apps))
	for i, a := range apps {
		dtos[i] = toAppointmentDTO(a)
	}
	return dtos
}

func toSaleDTO(s ledger.Sale) SaleDTO {
	return SaleDTO{
		ID:           s.ID,
		Date:         s.Date.Format("2006-01-02"),
		ClientName:   s.ClientName,
		Service:      s.Service,
		Professional: s.Professional,
		Amount:       s.Amount.StringFixed(2),
		Payout:       s.Payout.StringFixed(2),
	}
}

func toSaleDTOs(sales []ledger.Sale) []SaleDTO {
	dtos := make([]SaleDTO, len(sales))
	for i, s := range sales {
		dtos[i] = toSaleDTO(s)
	}
	return dtos
}

func toExpenseDTO(e ledger.Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:          e.ID,
		Date:        e.Date.Format("2006-01-02"),
		Description: e.Description,
		Amount:      e.Amount.StringFixed(2),
		Category:    e.Category,
	}
}

func toExpenseDTOs(exps []ledger.Expense) []ExpenseDTO {
	dtos := make([]ExpenseDTO, len(exps))
	for i, e := range exps {
		dtos[i] = toExpenseDTO(e)
	}
	return dtos
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func parseMonth(s string) (time.Time, error) {
	return time.Parse("2006-01", s)
}
