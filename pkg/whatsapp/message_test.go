package whatsapp

import (
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestOrderLinkComposition(t *testing.T) {
	lines := []Line{
		{Title: "Hamburguesa Doble", Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
		{Title: "Pizza Familiar", Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
	}

	link := OrderLink("1234 5678", lines, Details{})

	const prefix = "https://wa.me/50212345678?text="
	if !strings.HasPrefix(link, prefix) {
		t.Fatalf("link should target normalized phone, got %s", link)
	}

	decoded, err := url.QueryUnescape(strings.TrimPrefix(link, prefix))
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}

	for _, want := range []string{
		"Hola! 👋 Quiero hacer un pedido:",
		"▪️ *2x Hamburguesa Doble* - Q100",
		"▪️ *1x Pizza Familiar* - Q100",
		"💰 *TOTAL A PAGAR: Q200*",
		"📍 *Mis Datos de Envío:*",
		"Nombre: ",
		"Dirección: ",
		"Nota Adicional: ",
	} {
		if !strings.Contains(decoded, want) {
			t.Errorf("decoded message missing %q:\n%s", want, decoded)
		}
	}
}

func TestComposeMessagePrefillsDetails(t *testing.T) {
	msg := ComposeMessage(
		[]Line{{Title: "Café", Quantity: 1, UnitPrice: decimal.NewFromInt(25)}},
		Details{Name: "Ana", Address: "Zona 10", Note: "Sin azúcar"},
	)

	for _, want := range []string{
		"Nombre: Ana",
		"Dirección: Zona 10",
		"Nota Adicional: Sin azúcar",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatAmountTrimsTrailingZeros(t *testing.T) {
	cases := map[string]string{
		"100":    "100",
		"100.00": "100",
		"50.50":  "50.5",
		"0.25":   "0.25",
	}
	for in, want := range cases {
		d, err := decimal.NewFromString(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got := formatAmount(d); got != want {
			t.Errorf("formatAmount(%s) = %q, want %q", in, got, want)
		}
	}
}
