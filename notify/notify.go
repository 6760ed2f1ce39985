/*
Package notify builds WhatsApp message payloads for the salon's client
communications: booking confirmations, same-day reminders, and post-checkout
thanks.

The package only PREPARES messages. Dispatch (opening the wa.me link, or any
future gateway) belongs to the caller; nothing here performs I/O.

The templates carry the shop's pt-BR copy. Recipient numbers are
normalized to digits and prefixed with the Brazilian country code.
*/
package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Kind selects a message template.
type Kind string

const (
	KindConfirmation Kind = "confirmation"
	KindReminder     Kind = "reminder"
	KindThanks       Kind = "thanks"
)

// CountryCode prefixes every recipient number. The shop only serves Brazilian
// numbers.
const CountryCode = "55"

// Payload is a prepared, unsent message.
type Payload struct {
	ID        string `json:"id"`
	Kind      Kind   `json:"kind"`
	Recipient string `json:"recipient"` // country-code-prefixed digits
	Text      string `json:"text"`
	Link      string `json:"link"` // wa.me deep link carrying the text
}

// BuildMessage fills the template for a kind. Unknown kinds produce an empty
// string; the caller controls which kinds it exposes.
func BuildMessage(kind Kind, recipientName, service, hour string) string {
	switch kind {
	case KindConfirmation:
		return fmt.Sprintf("Olá %s! Confirmamos seu horário para %s às %s.", recipientName, service, hour)
	case KindReminder:
		return fmt.Sprintf("Olá %s! Lembrete do seu horário hoje às %s (%s).", recipientName, hour, service)
	case KindThanks:
		return fmt.Sprintf("Obrigada pela preferência, %s! Foi um prazer atender você (%s).", recipientName, service)
	default:
		return ""
	}
}

// NormalizePhone strips everything but digits.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Recipient returns the country-code-prefixed digit string for a raw phone.
func Recipient(phone string) string {
	return CountryCode + NormalizePhone(phone)
}

// WhatsAppLink builds the wa.me deep link carrying a prefilled message.
func WhatsAppLink(phone, text string) string {
	return "https://wa.me/" + Recipient(phone) + "?text=" + url.QueryEscape(text)
}

// NewPayload prepares a message of the given kind for a client.
func NewPayload(kind Kind, clientName, phone, service, hour string) Payload {
	text := BuildMessage(kind, clientName, service, hour)
	return Payload{
		ID:        uuid.NewString(),
		Kind:      kind,
		Recipient: Recipient(phone),
		Text:      text,
		Link:      WhatsAppLink(phone, text),
	}
}
