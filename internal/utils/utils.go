package utils

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxNameLength is the longest account name accepted after sanitizing.
const MaxNameLength = 50

var disallowedNameChars = regexp.MustCompile(`[^\w\s.\-]`)

// SanitizeInput removes every character that is not a word character,
// whitespace, '.' or '-', then trims surrounding whitespace.
func SanitizeInput(input string) string {
	return strings.TrimSpace(disallowedNameChars.ReplaceAllString(input, ""))
}

// NormalizeName applies the sanitize, uppercase, trim pipeline used for
// every account name before it is stored or compared.
func NormalizeName(name string) string {
	return strings.TrimSpace(strings.ToUpper(SanitizeInput(name)))
}

// ValidateAccountName reports whether a normalized name can be stored.
func ValidateAccountName(name string) bool {
	return name != "" && len(name) <= MaxNameLength
}

// MoneyScale is the number of decimal places stored for balances and amounts.
const MoneyScale = 2

// MoneyIntegerDigits is what NUMERIC(15, 2) leaves before the decimal point.
const MoneyIntegerDigits = 13

// MaxMoney is the exclusive upper bound on a balance or amount.
var MaxMoney = decimal.New(1, MoneyIntegerDigits)

// maxTrailingScale caps the exponent accepted past MoneyScale, so "1.50"
// padded with zeros still passes but "1e-20000000" is refused before any
// rescaling.
const maxTrailingScale = 18

// ValidateMoneyScale reports whether d fits the stored precision without
// rounding.
func ValidateMoneyScale(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp >= -MoneyScale {
		return true
	}
	if exp < -(MoneyScale + maxTrailingScale) {
		return false
	}
	return d.Equal(d.Round(MoneyScale))
}

// ValidateMoneyRange reports whether |d| < MaxMoney. It counts digits
// instead of comparing, which would rescale both operands.
func ValidateMoneyRange(d decimal.Decimal) bool {
	if d.IsZero() {
		return true
	}
	c := d.Coefficient()
	digits := int64(len(c.Abs(c).String()))
	return digits+int64(d.Exponent()) <= MoneyIntegerDigits
}
