package comparison

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Direction classifies how a limit or deductible moved between terms
type Direction string

const (
	DirectionUnchanged Direction = "unchanged"
	DirectionIncreased Direction = "increased"
	DirectionDecreased Direction = "decreased"
	DirectionChanged   Direction = "changed"
)

var (
	thousand = decimal.NewFromInt(1000)
	million  = decimal.NewFromInt(1000000)
)

// ParseAmounts parses a limit or deductible such as "25/50", "$300,000", "100/300/50" or "500K"
// into its numeric components. It returns false when any component is not numeric.
func ParseAmounts(raw string) ([]decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, false
	}

	parts := strings.Split(s, "/")
	amounts := make([]decimal.Decimal, 0, len(parts))
	for _, part := range parts {
		amount, ok := parseAmount(part)
		if !ok {
			return nil, false
		}
		amounts = append(amounts, amount)
	}
	return amounts, true
}

func parseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.NewReplacer("$", "", ",", "", " ", "", "%", "").Replace(s)
	if s == "" {
		return decimal.Zero, false
	}

	multiplier := decimal.NewFromInt(1)
	switch {
	case strings.HasSuffix(s, "K"):
		multiplier = thousand
		s = strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		multiplier = million
		s = strings.TrimSuffix(s, "M")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d.Mul(multiplier), true
}

// CompareAmounts classifies the move from one limit/deductible string to another.
// A move is an increase when every component is greater or equal and at least one is greater,
// a decrease symmetrically; anything else that differs is a change.
func CompareAmounts(from, to string) Direction {
	a, b := strings.TrimSpace(from), strings.TrimSpace(to)
	if strings.EqualFold(a, b) {
		return DirectionUnchanged
	}

	fromAmounts, okFrom := ParseAmounts(a)
	toAmounts, okTo := ParseAmounts(b)
	if !okFrom || !okTo || len(fromAmounts) != len(toAmounts) {
		return DirectionChanged
	}

	var greater, less int
	for i := range fromAmounts {
		switch toAmounts[i].Cmp(fromAmounts[i]) {
		case 1:
			greater++
		case -1:
			less++
		}
	}

	switch {
	case greater == 0 && less == 0:
		return DirectionUnchanged
	case less == 0:
		return DirectionIncreased
	case greater == 0:
		return DirectionDecreased
	default:
		return DirectionChanged
	}
}
