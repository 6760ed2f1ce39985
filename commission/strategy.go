/*
Package commission computes a professional's payout for a completed sale.

PURPOSE:
  The payout rule ("repasse") is the one piece of real business logic in the
  salon system, and the one the business keeps changing its mind about. The
  engine therefore exposes three interchangeable strategies, selected by
  configuration rather than hardcoded:

    FlatRate:     payout = amount x rate(professional)
    ServiceRate:  payout = amount x rate(service), for one named professional
    ServiceTable: payout = rule(service), where a rule is either a fixed
                  value or a rate on the amount

CONTRACT (all strategies):
  - Pure: same inputs and configuration always yield the same payout
  - Never negative
  - Unknown professional or service resolves to a ZERO payout, not an error
  - Rounded half-up to 2 decimal places at the point of computation
  - Under FlatRate and ServiceRate the payout never exceeds the sale amount
    (rates are fractions). ServiceTable fixed rules carry no such guarantee
    and are NOT clamped at runtime; Validate surfaces a misconfigured fixed
    value as a startup warning instead.

SEE ALSO:
  - factory: JSON configuration to Strategy conversion
  - schedule: calls Payout immediately before persisting a sale
*/
package commission

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Strategy is a pure payout rule. Implementations never touch the store.
type Strategy interface {
	// Name identifies the strategy shape for logs and config round-trips.
	Name() string

	// Payout returns the amount owed to the professional for this sale,
	// rounded to 2 decimal places.
	Payout(professional, service string, amount decimal.Decimal) decimal.Decimal

	// Validate checks the configuration and returns warnings for rules that
	// are suspicious but still honored at runtime. maxSale is the configured
	// upper bound on sale amounts; pass zero to skip bound checks.
	Validate(maxSale decimal.Decimal) []Warning
}

// Warning flags a configuration smell found at startup. Warnings never alter
// runtime behavior.
type Warning struct {
	Code    string
	Message string
}

func (w Warning) String() string { return w.Code + ": " + w.Message }

// round applies the engine-wide currency rounding: half-up, 2 places.
func round(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// lookupKey lower-cases the key when the strategy matches names
// case-insensitively. Booking forms capitalize professionals while rate
// tables tend to be keyed lower case, so insensitive matching is the default
// the factory applies.
func lookupKey(name string, caseInsensitive bool) string {
	if caseInsensitive {
		return strings.ToLower(name)
	}
	return name
}
