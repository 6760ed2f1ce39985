package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artmax/salon-ledger/api"
	"github.com/artmax/salon-ledger/commission"
	"github.com/artmax/salon-ledger/report"
	"github.com/artmax/salon-ledger/schedule"
	"github.com/artmax/salon-ledger/store/sqlite"
)

// testDay is the fixed "today" every test server runs at.
var testDay = time.Date(2024, time.June, 10, 16, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	strategy := &commission.FlatRate{
		Rates: map[string]decimal.Decimal{
			"evelyn":  decimal.RequireFromString("0.5"),
			"eunides": decimal.RequireFromString("0"),
		},
		CaseInsensitive: true,
	}

	mgr := schedule.NewManager(store, strategy, schedule.Defaults(), func() time.Time { return testDay })
	h := api.NewHandler(mgr, report.Aggregator{}, zerolog.Nop())
	srv := httptest.NewServer(api.NewRouter(h, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		decoded = nil
	}
	return resp, decoded
}

func doJSONList(t *testing.T, url string) (*http.Response, []map[string]any) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

// =============================================================================
// APPOINTMENTS
// =============================================================================

func TestCreateAppointment_ReturnsConfirmation(t *testing.T) {
	srv := newTestServer(t)

	// GIVEN a valid booking request
	// WHEN posting it
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/appointments", map[string]any{
		"date":         "2024-06-15",
		"time":         "14:30",
		"client_name":  "Maria Silva",
		"phone":        "(11) 98765-4321",
		"service":      "Progressiva",
		"professional": "Evelyn",
	})

	// THEN the appointment is stored and a WhatsApp confirmation is prepared
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	app := body["appointment"].(map[string]any)
	assert.Equal(t, float64(1), app["id"])
	assert.Equal(t, "2024-06-15", app["date"])
	assert.Equal(t, "scheduled", app["status"])

	conf := body["confirmation"].(map[string]any)
	assert.Equal(t, "5511987654321", conf["recipient"])
	assert.Contains(t, conf["text"], "Maria Silva")
	assert.True(t, strings.HasPrefix(conf["link"].(string), "https://wa.me/5511987654321?text="))
}

func TestCreateAppointment_RejectsShortName(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/appointments", map[string]any{
		"date":         "2024-06-15",
		"time":         "14:30",
		"client_name":  "A",
		"phone":        "11987654321",
		"service":      "Corte",
		"professional": "Evelyn",
	})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["details"], "client_name")
}

func TestCreateAppointment_RejectsMissingFields(t *testing.T) {
	srv := newTestServer(t)

	// Body validation runs before domain logic: no date, no booking.
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/appointments", map[string]any{
		"client_name": "Maria Silva",
	})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListAppointments_FiltersByDate(t *testing.T) {
	srv := newTestServer(t)

	for _, day := range []string{"2024-06-15", "2024-06-16"} {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/appointments", map[string]any{
			"date":         day,
			"time":         "10:00",
			"client_name":  "Ana Costa",
			"phone":        "11987654321",
			"service":      "Luzes",
			"professional": "Eunides",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, list := doJSONList(t, srv.URL+"/api/appointments?date=2024-06-15")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list, 1)
	assert.Equal(t, "2024-06-15", list[0]["date"])

	resp, list = doJSONList(t, srv.URL+"/api/appointments?month=2024-06")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, list, 2)
}

func TestCancelAppointments_RequiresConfirm(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/appointments", map[string]any{
		"date":         "2024-06-15",
		"time":         "10:00",
		"client_name":  "Ana Costa",
		"phone":        "11987654321",
		"service":      "Luzes",
		"professional": "Eunides",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// WHEN cancelling without confirmation
	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/appointments", map[string]any{
		"ids": []int64{1},
	})
	// THEN the request is refused and the row survives
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, list := doJSONList(t, srv.URL+"/api/appointments")
	assert.Len(t, list, 1)

	// WHEN confirming
	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/appointments", map[string]any{
		"ids":     []int64{1},
		"confirm": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, list = doJSONList(t, srv.URL+"/api/appointments")
	assert.Empty(t, list)
}

func TestListReminders(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/appointments", map[string]any{
		"date":         "2024-06-15",
		"time":         "14:30",
		"client_name":  "Maria Silva",
		"phone":        "11987654321",
		"service":      "Progressiva",
		"professional": "Evelyn",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, list := doJSONList(t, srv.URL+"/api/appointments/reminders?date=2024-06-15")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list, 1)
	assert.Equal(t, "reminder", list[0]["kind"])
	assert.Contains(t, list[0]["text"], "Lembrete")
}

// =============================================================================
// CHECKOUT
// =============================================================================

func TestCheckout_ComputesPayout(t *testing.T) {
	srv := newTestServer(t)

	// GIVEN a R$100 sale under a 50% flat rate
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/checkout", map[string]any{
		"client_name":  "Maria Silva",
		"service":      "Progressiva",
		"professional": "Evelyn",
		"amount":       "100.00",
	})

	// THEN the stored sale carries the computed payout, dated today
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sale := body["sale"].(map[string]any)
	assert.Equal(t, "100.00", sale["amount"])
	assert.Equal(t, "50.00", sale["payout"])
	assert.Equal(t, "2024-06-10", sale["date"])
	_, hasThanks := body["thanks"]
	assert.False(t, hasThanks, "no phone, no thanks payload")
}

func TestCheckout_WithPhoneReturnsThanks(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/checkout", map[string]any{
		"client_name":  "Maria Silva",
		"phone":        "11987654321",
		"service":      "Corte",
		"professional": "Eunides",
		"amount":       "80.00",
	})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	thanks := body["thanks"].(map[string]any)
	assert.Equal(t, "thanks", thanks["kind"])
	assert.Equal(t, "5511987654321", thanks["recipient"])
}

func TestCheckout_RejectsMalformedAmount(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/checkout", map[string]any{
		"client_name":  "Maria Silva",
		"service":      "Corte",
		"professional": "Evelyn",
		"amount":       "abc",
	})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckout_RejectsAmountOutOfBounds(t *testing.T) {
	srv := newTestServer(t)

	for _, amount := range []string{"0", "-5.00", "10000.01"} {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/checkout", map[string]any{
			"client_name":  "Maria Silva",
			"service":      "Corte",
			"professional": "Evelyn",
			"amount":       amount,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "amount %s", amount)
	}
}

func TestDeleteSales_RequiresConfirm(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/checkout", map[string]any{
		"client_name":  "Maria Silva",
		"service":      "Corte",
		"professional": "Evelyn",
		"amount":       "80.00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/sales", map[string]any{
		"ids": []int64{1},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/sales", map[string]any{
		"ids":     []int64{1},
		"confirm": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, list := doJSONList(t, srv.URL+"/api/sales")
	assert.Empty(t, list)
}

// =============================================================================
// EXPENSES
// =============================================================================

func TestExpenses_CreateListDelete(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/expenses", map[string]any{
		"description": "Produtos de coloração",
		"amount":      "35.50",
		"category":    "insumos",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "35.50", body["amount"])
	assert.Equal(t, "2024-06-10", body["date"])

	resp, list := doJSONList(t, srv.URL+"/api/expenses?month=2024-06")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list, 1)
	assert.Equal(t, "Produtos de coloração", list[0]["description"])

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/expenses", map[string]any{
		"ids":     []int64{1},
		"confirm": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, list = doJSONList(t, srv.URL+"/api/expenses")
	assert.Empty(t, list)
}

func TestCreateExpense_RejectsShortDescription(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/expenses", map[string]any{
		"description": "ab",
		"amount":      "10.00",
	})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["details"], "description")
}

// =============================================================================
// REPORTS
// =============================================================================

func TestGetSummary_MonthlyMetrics(t *testing.T) {
	srv := newTestServer(t)

	// GIVEN two sales (Evelyn at 50%, Eunides at 0%) and one expense
	for _, sale := range []map[string]any{
		{"client_name": "Maria Silva", "service": "Progressiva", "professional": "Evelyn", "amount": "200.00"},
		{"client_name": "Ana Costa", "service": "Corte", "professional": "Eunides", "amount": "100.00"},
	} {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/checkout", sale)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/expenses", map[string]any{
		"description": "Aluguel",
		"amount":      "30.00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// WHEN requesting the summary for the month
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/report/summary?month=2024-06", nil)

	// THEN gross 300, payout 100 (half of Evelyn's 200), expenses 30, net 170
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "300.00", body["gross_revenue"])
	assert.Equal(t, "100.00", body["total_payout"])
	assert.Equal(t, "30.00", body["total_expenses"])
	assert.Equal(t, "170.00", body["net_profit"])
}

func TestGetSummary_EmptyMonthIsAllZero(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/report/summary?month=2024-01", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0.00", body["gross_revenue"])
	assert.Equal(t, "0.00", body["net_profit"])
}

func TestGetSummary_RequiresMonth(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/report/summary", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetProfessionalTotals_SortedByName(t *testing.T) {
	srv := newTestServer(t)

	for _, sale := range []map[string]any{
		{"client_name": "Maria Silva", "service": "Progressiva", "professional": "Evelyn", "amount": "200.00"},
		{"client_name": "Ana Costa", "service": "Corte", "professional": "Eunides", "amount": "100.00"},
		{"client_name": "Bia Ramos", "service": "Luzes", "professional": "Evelyn", "amount": "50.00"},
	} {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/checkout", sale)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, list := doJSONList(t, srv.URL+"/api/report/professionals?month=2024-06")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list, 2)

	assert.Equal(t, "Eunides", list[0]["professional"])
	assert.Equal(t, "100.00", list[0]["gross_revenue"])
	assert.Equal(t, "0.00", list[0]["payout"])

	assert.Equal(t, "Evelyn", list[1]["professional"])
	assert.Equal(t, "250.00", list[1]["gross_revenue"])
	assert.Equal(t, "125.00", list[1]["payout"])
}
