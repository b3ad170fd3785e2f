// Package whatsapp renders a cart into a pre-filled WhatsApp deep
// link addressed to the merchant.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tiendalink/backend/pkg/phone"
)

// ChatDomain is the WhatsApp click-to-chat host.
const ChatDomain = "wa.me"

// CurrencyPrefix is rendered in front of every amount in the message.
const CurrencyPrefix = "Q"

// Line is one order row in the composed message.
type Line struct {
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Details optionally pre-fills the shipping block of the message.
// Zero values leave the corresponding field blank for the shopper to
// complete inside WhatsApp.
type Details struct {
	Name    string
	Address string
	Note    string
}

// OrderLink builds the deep link for the given destination phone and
// order lines. The phone is normalized first; no validation happens
// at this layer.
func OrderLink(rawPhone string, lines []Line, details Details) string {
	return fmt.Sprintf("https://%s/%s?text=%s",
		ChatDomain,
		phone.Normalize(rawPhone),
		url.QueryEscape(ComposeMessage(lines, details)),
	)
}

// ComposeMessage renders the human-readable order summary.
func ComposeMessage(lines []Line, details Details) string {
	var b strings.Builder
	b.WriteString("Hola! 👋 Quiero hacer un pedido:\n\n")

	total := decimal.Zero
	for _, line := range lines {
		subtotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(subtotal)
		fmt.Fprintf(&b, "▪️ *%dx %s* - %s%s\n", line.Quantity, line.Title, CurrencyPrefix, formatAmount(subtotal))
	}

	fmt.Fprintf(&b, "\n💰 *TOTAL A PAGAR: %s%s*\n", CurrencyPrefix, formatAmount(total))
	b.WriteString("\n📍 *Mis Datos de Envío:*")
	b.WriteString("\nNombre: " + details.Name)
	b.WriteString("\nDirección: " + details.Address)
	b.WriteString("\nNota Adicional: " + details.Note)

	return b.String()
}

// formatAmount renders decimals the way shoppers expect: no trailing
// zeros, no decimal point on whole amounts.
func formatAmount(d decimal.Decimal) string {
	s := d.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
