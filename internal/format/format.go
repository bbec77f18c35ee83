// Package format holds the pt-BR presentation helpers shared by
// notifications, the conversation list and the PDF report.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// Currency renders a monetary value as BRL, e.g. 3500 -> "R$ 3.500,00".
func Currency(v decimal.Decimal) string {
	f, _ := v.Float64()
	return ptBR.Sprintf("R$ %v", number.Decimal(f, number.Scale(2)))
}

// CleanPhone strips everything that is not a digit. Phone numbers are
// stored and matched in this normalized form.
func CleanPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Phone renders a normalized 13-digit number (55 + DDD + 9 digits) as
// "(XX) XXXXX-XXXX". Anything else is returned untouched.
func Phone(phone string) string {
	cleaned := CleanPhone(phone)
	if len(cleaned) != 13 {
		return phone
	}
	return "(" + cleaned[2:4] + ") " + cleaned[4:9] + "-" + cleaned[9:]
}
