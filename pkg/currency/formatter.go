package currency

import (
	"fmt"
	"math"
	"strings"
)

type style struct {
	thousands string
	decimal   string
	places    int
}

var styles = map[string]style{
	"IDR": {thousands: ".", decimal: ",", places: 0},
	"PLN": {thousands: " ", decimal: ",", places: 2},
	"EUR": {thousands: ".", decimal: ",", places: 2},
	"CZK": {thousands: " ", decimal: ",", places: 2},
	"USD": {thousands: ",", decimal: ".", places: 2},
	"GBP": {thousands: ",", decimal: ".", places: 2},
}

var defaultStyle = style{thousands: ",", decimal: ".", places: 2}

// Format renders amount as "<CODE> <grouped amount>", e.g. "PLN 1 234,50" or "IDR 1.500.000".
func Format(amount float64, code string) string {
	code = strings.ToUpper(code)
	s, ok := styles[code]
	if !ok {
		s = defaultStyle
	}

	scale := math.Pow10(s.places)
	rounded := math.Round(amount*scale) / scale

	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	str := fmt.Sprintf("%.*f", s.places, rounded)
	intPart, fracPart, _ := strings.Cut(str, ".")
	formatted := addThousandsSeparator(intPart, s.thousands)
	if s.places > 0 {
		formatted += s.decimal + fracPart
	}

	result := formatted
	if code != "" {
		result = code + " " + formatted
	}
	if negative {
		result = "-" + result
	}

	return result
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 || sep == "" {
		return s
	}

	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(s[i : i+3])
	}

	return b.String()
}
