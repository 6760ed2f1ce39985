/*
policies.go - The three payout strategy implementations

Each strategy is a plain struct configured by the factory. Rate values are
fractions of the sale amount (0.5 = 50%). Lookup misses pay zero.
*/
package commission

import "github.com/shopspring/decimal"

// =============================================================================
// FLAT RATE - payout = amount x rate(professional)
// =============================================================================

// FlatRate pays each professional a fixed fraction of every sale they perform.
type FlatRate struct {
	// Rates is keyed by professional name. Keys must be lower case when
	// CaseInsensitive is set.
	Rates map[string]decimal.Decimal

	// CaseInsensitive lower-cases the professional before lookup.
	CaseInsensitive bool
}

func (f FlatRate) Name() string { return "flat_rate" }

func (f FlatRate) Payout(professional, _ string, amount decimal.Decimal) decimal.Decimal {
	rate, ok := f.Rates[lookupKey(professional, f.CaseInsensitive)]
	if !ok {
		return decimal.Zero
	}
	return round(amount.Mul(rate))
}

func (f FlatRate) Validate(_ decimal.Decimal) []Warning {
	return validateRates("flat_rate", f.Rates)
}

// =============================================================================
// SERVICE RATE - payout = amount x rate(service), one earning professional
// =============================================================================

// ServiceRate pays one named professional a per-service fraction of the
// amount. Every other professional earns zero, as do services absent from
// the table.
type ServiceRate struct {
	Professional    string
	Rates           map[string]decimal.Decimal
	CaseInsensitive bool
}

func (s ServiceRate) Name() string { return "service_rate" }

func (s ServiceRate) Payout(professional, service string, amount decimal.Decimal) decimal.Decimal {
	if lookupKey(professional, s.CaseInsensitive) != lookupKey(s.Professional, s.CaseInsensitive) {
		return decimal.Zero
	}
	rate, ok := s.Rates[lookupKey(service, s.CaseInsensitive)]
	if !ok {
		return decimal.Zero
	}
	return round(amount.Mul(rate))
}

func (s ServiceRate) Validate(_ decimal.Decimal) []Warning {
	ws := validateRates("service_rate", s.Rates)
	if s.Professional == "" {
		ws = append(ws, Warning{
			Code:    "service_rate.no_professional",
			Message: "no earning professional configured; every payout will be zero",
		})
	}
	return ws
}

// =============================================================================
// SERVICE TABLE - per-service fixed-or-rate rules
// =============================================================================

// RuleKind tags a service rule as a fixed value or a rate on the amount.
type RuleKind string

const (
	RuleFixed RuleKind = "fixed"
	RuleRate  RuleKind = "rate"
)

// Rule is a tagged variant: Fixed(value) pays Value regardless of the sale
// amount, Rate(value) pays amount x Value.
type Rule struct {
	Kind  RuleKind
	Value decimal.Decimal
}

// Evaluate resolves the rule against a sale amount. Unknown kinds pay zero.
func (r Rule) Evaluate(amount decimal.Decimal) decimal.Decimal {
	switch r.Kind {
	case RuleFixed:
		return round(r.Value)
	case RuleRate:
		return round(amount.Mul(r.Value))
	default:
		return decimal.Zero
	}
}

// ServiceTable resolves the payout from a per-service rule table. Services
// absent from the table fall through to a zero-rate rule. The professional is
// ignored: under this shape the rule belongs to the service.
//
// A fixed rule may exceed the sale amount; the engine never clamps it.
// Validate reports the condition so the operator can fix the configuration.
type ServiceTable struct {
	Rules           map[string]Rule
	CaseInsensitive bool
}

func (t ServiceTable) Name() string { return "service_table" }

func (t ServiceTable) Payout(_, service string, amount decimal.Decimal) decimal.Decimal {
	rule, ok := t.Rules[lookupKey(service, t.CaseInsensitive)]
	if !ok {
		return decimal.Zero
	}
	return rule.Evaluate(amount)
}

func (t ServiceTable) Validate(maxSale decimal.Decimal) []Warning {
	var ws []Warning
	for service, rule := range t.Rules {
		switch rule.Kind {
		case RuleFixed:
			if rule.Value.IsNegative() {
				ws = append(ws, Warning{
					Code:    "service_table.negative_fixed",
					Message: "fixed payout for " + service + " is negative",
				})
			}
			if maxSale.IsPositive() && rule.Value.GreaterThan(maxSale) {
				ws = append(ws, Warning{
					Code: "service_table.fixed_exceeds_max_sale",
					Message: "fixed payout for " + service + " (" + rule.Value.StringFixed(2) +
						") exceeds the maximum sale amount " + maxSale.StringFixed(2),
				})
			}
		case RuleRate:
			ws = append(ws, rateWarnings("service_table", service, rule.Value)...)
		default:
			ws = append(ws, Warning{
				Code:    "service_table.unknown_rule_kind",
				Message: "rule for " + service + " has unknown kind " + string(rule.Kind),
			})
		}
	}
	return ws
}

// =============================================================================
// SHARED VALIDATION
// =============================================================================

var one = decimal.NewFromInt(1)

func validateRates(strategy string, rates map[string]decimal.Decimal) []Warning {
	var ws []Warning
	if len(rates) == 0 {
		ws = append(ws, Warning{
			Code:    strategy + ".empty_rates",
			Message: "no rates configured; every payout will be zero",
		})
	}
	for key, rate := range rates {
		ws = append(ws, rateWarnings(strategy, key, rate)...)
	}
	return ws
}

func rateWarnings(strategy, key string, rate decimal.Decimal) []Warning {
	var ws []Warning
	if rate.IsNegative() {
		ws = append(ws, Warning{
			Code:    strategy + ".negative_rate",
			Message: "rate for " + key + " is negative",
		})
	}
	if rate.GreaterThan(one) {
		ws = append(ws, Warning{
			Code:    strategy + ".rate_above_one",
			Message: "rate for " + key + " exceeds 1.0; payout would exceed the sale amount",
		})
	}
	return ws
}
