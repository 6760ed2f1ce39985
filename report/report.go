/*
Package report rolls up sales and expenses into the monthly financial view.

PURPOSE:
  Pure reductions over records the caller has already fetched and windowed.
  The package never touches the store and owns no notion of "current month";
  the reporting window is always a caller-supplied parameter.

GROUPING:
  Per-professional grouping keys on the stored professional string. Some shop
  variants lower-cased names before grouping and some did not, so the choice
  is a configuration knob (Normalization) rather than a silent default.
*/
package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/artmax/salon-ledger/ledger"
)

// Normalization controls how professional names are folded into group keys.
type Normalization string

const (
	// NormalizeExact groups by the exact stored string (default).
	NormalizeExact Normalization = "exact"
	// NormalizeLower lower-cases names before grouping, merging "Evelyn"
	// and "evelyn" rows written by inconsistent front ends.
	NormalizeLower Normalization = "lower"
)

// Summary is the monthly financial rollup.
type Summary struct {
	GrossRevenue  decimal.Decimal
	TotalPayout   decimal.Decimal
	TotalExpenses decimal.Decimal
	NetProfit     decimal.Decimal
}

// Totals is the per-professional slice of the rollup.
type Totals struct {
	GrossRevenue decimal.Decimal
	TotalPayout  decimal.Decimal
}

// Summarize reduces a window of sales and expenses to the four headline
// metrics. Empty inputs yield an all-zero summary.
func Summarize(sales []ledger.Sale, expenses []ledger.Expense) Summary {
	s := Summary{
		GrossRevenue:  decimal.Zero,
		TotalPayout:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, sale := range sales {
		s.GrossRevenue = s.GrossRevenue.Add(sale.Amount)
		s.TotalPayout = s.TotalPayout.Add(sale.Payout)
	}
	for _, e := range expenses {
		s.TotalExpenses = s.TotalExpenses.Add(e.Amount)
	}
	s.NetProfit = s.GrossRevenue.Sub(s.TotalPayout).Sub(s.TotalExpenses)
	return s
}

// Aggregator carries the grouping configuration. The zero value groups by
// exact stored name.
type Aggregator struct {
	GroupNormalization Normalization
}

// ByProfessional groups sales by professional and totals revenue and payout
// per group. Group totals always sum to the same gross revenue Summarize
// reports for the same sales.
func (a Aggregator) ByProfessional(sales []ledger.Sale) map[string]Totals {
	groups := make(map[string]Totals)
	for _, sale := range sales {
		key := sale.Professional
		if a.GroupNormalization == NormalizeLower {
			key = strings.ToLower(key)
		}
		t := groups[key]
		t.GrossRevenue = t.GrossRevenue.Add(sale.Amount)
		t.TotalPayout = t.TotalPayout.Add(sale.Payout)
		groups[key] = t
	}
	return groups
}
