package scraper

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var shareSuffixes = map[byte]decimal.Decimal{
	'K': decimal.New(1, 3),
	'M': decimal.New(1, 6),
	'B': decimal.New(1, 9),
	'T': decimal.New(1, 12),
}

// ParseShares converts a Finviz share count such as "12.34M" into a number
// of shares. "-" and the empty string mean the value is absent.
func ParseShares(raw string) (decimal.NullDecimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" || s == "-" {
		return decimal.NullDecimal{}, nil
	}

	multiplier := decimal.New(1, 0)
	last := strings.ToUpper(s[len(s)-1:])[0]
	if m, ok := shareSuffixes[last]; ok {
		multiplier = m
		s = s[:len(s)-1]
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %q", ErrInvalidShares, raw)
	}
	return decimal.NewNullDecimal(d.Mul(multiplier)), nil
}
