/*
Package factory converts JSON strategy definitions into commission.Strategy
values. The active payout rule is a configuration choice, not code: the
operator edits a JSON document (env var or file) and restarts.

JSON SCHEMA:

  Flat professional rate:
    {"type": "flat_rate",
     "case_insensitive": true,
     "rates": {"evelyn": 1.0, "eunides": 0.0}}

  Per-service percentage for one professional:
    {"type": "service_rate",
     "professional": "Evelyn",
     "rates": {"escova": 0.4, "luzes": 0.6}}

  Per-service fixed-or-rate table:
    {"type": "service_table",
     "rules": {"corte":       {"type": "fixed", "value": 25.0},
               "progressiva": {"type": "rate",  "value": 0.35}}}

DEFAULTS:
  case_insensitive defaults to true: front ends store names capitalized while
  rule tables are written lower case, and a silent lookup miss would zero
  every payout. An empty document yields the shop's historical flat-rate rule
  (Evelyn 100%, Eunides 0%).
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/artmax/salon-ledger/commission"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// StrategyJSON is the JSON representation of a payout strategy.
type StrategyJSON struct {
	Type            string              `json:"type"`
	CaseInsensitive *bool               `json:"case_insensitive,omitempty"`
	Rates           map[string]float64  `json:"rates,omitempty"`
	Professional    string              `json:"professional,omitempty"`
	Rules           map[string]RuleJSON `json:"rules,omitempty"`
}

// RuleJSON is one service_table entry: {"type": "fixed"|"rate", "value": n}.
type RuleJSON struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

// Strategy type names accepted in the JSON document.
const (
	TypeFlatRate     = "flat_rate"
	TypeServiceRate  = "service_rate"
	TypeServiceTable = "service_table"
)

// =============================================================================
// PARSING
// =============================================================================

// ParseStrategy builds a Strategy from a JSON document. An empty document
// yields DefaultStrategy().
func ParseStrategy(raw string) (commission.Strategy, error) {
	if raw == "" {
		return DefaultStrategy(), nil
	}

	var doc StrategyJSON
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("invalid strategy JSON: %w", err)
	}
	return FromJSON(doc)
}

// FromJSON builds a Strategy from an already-decoded document.
func FromJSON(doc StrategyJSON) (commission.Strategy, error) {
	insensitive := true
	if doc.CaseInsensitive != nil {
		insensitive = *doc.CaseInsensitive
	}

	switch doc.Type {
	case TypeFlatRate:
		return commission.FlatRate{
			Rates:           decimalRates(doc.Rates, insensitive),
			CaseInsensitive: insensitive,
		}, nil

	case TypeServiceRate:
		return commission.ServiceRate{
			Professional:    doc.Professional,
			Rates:           decimalRates(doc.Rates, insensitive),
			CaseInsensitive: insensitive,
		}, nil

	case TypeServiceTable:
		rules := make(map[string]commission.Rule, len(doc.Rules))
		for service, r := range doc.Rules {
			kind, err := ruleKind(r.Type)
			if err != nil {
				return nil, fmt.Errorf("service %q: %w", service, err)
			}
			rules[foldKey(service, insensitive)] = commission.Rule{
				Kind:  kind,
				Value: decimal.NewFromFloat(r.Value),
			}
		}
		return commission.ServiceTable{Rules: rules, CaseInsensitive: insensitive}, nil

	default:
		return nil, fmt.Errorf("unknown strategy type %q", doc.Type)
	}
}

// DefaultStrategy is the shop's historical rule: Evelyn keeps her full sale
// amount, Eunides (the owner) takes no payout.
func DefaultStrategy() commission.Strategy {
	return commission.FlatRate{
		Rates: map[string]decimal.Decimal{
			"evelyn":  decimal.NewFromInt(1),
			"eunides": decimal.Zero,
		},
		CaseInsensitive: true,
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func decimalRates(in map[string]float64, insensitive bool) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(in))
	for key, rate := range in {
		out[foldKey(key, insensitive)] = decimal.NewFromFloat(rate)
	}
	return out
}

// foldKey lower-cases table keys when lookups are case-insensitive, so a
// document written with capitalized keys still matches.
func foldKey(key string, insensitive bool) string {
	if insensitive {
		return strings.ToLower(key)
	}
	return key
}

func ruleKind(s string) (commission.RuleKind, error) {
	switch s {
	case string(commission.RuleFixed):
		return commission.RuleFixed, nil
	case string(commission.RuleRate):
		return commission.RuleRate, nil
	default:
		return "", fmt.Errorf("unknown rule type %q (want \"fixed\" or \"rate\")", s)
	}
}
