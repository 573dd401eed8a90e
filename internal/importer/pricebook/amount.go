package pricebook

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var errBadAmount = errors.New("bad amount")

// parseAmount reads a price in minor units. Both separator conventions occur
// in till exports: "20000", "20.000", "20,000", "20.000,00", "20,000.00" and
// "20000.50" are all accepted. Fractions are rounded half away from zero.
func parseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")

	if s == "" {
		return 0, fmt.Errorf("%w: empty", errBadAmount)
	}

	d, err := decimal.NewFromString(normalize(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errBadAmount, s)
	}

	if d.IsNegative() {
		return 0, fmt.Errorf("%w: %q is negative", errBadAmount, s)
	}

	return d.Round(0).IntPart(), nil
}

// normalize rewrites s with '.' as the only, decimal, separator.
func normalize(s string) string {
	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")

	switch {
	case dot >= 0 && comma >= 0:
		// Whichever comes last separates the fraction.
		if comma > dot {
			return strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
		}

		return strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		return normalizeSingle(s, ",")
	case dot >= 0:
		return normalizeSingle(s, ".")
	}

	return s
}

// normalizeSingle handles a number using only sep. Repeated separators or a
// single one followed by exactly three digits group thousands; otherwise sep
// marks the fraction.
func normalizeSingle(s, sep string) string {
	if strings.Count(s, sep) > 1 || len(s)-strings.LastIndex(s, sep)-1 == 3 {
		return strings.ReplaceAll(s, sep, "")
	}

	return strings.Replace(s, sep, ".", 1)
}
