package catalog

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// expiryLayouts day-first forms are tried before month-first ones; stock sheets
// are kept in dd/mm order.
var expiryLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
	"2/1/2006",
	"01/2006",
	"01-2006",
	"1/2006",
	"01/06",
	"01-06",
	"Jan-2006",
	"Jan 2006",
	"January 2006",
	"Jan-06",
	"2006-01",
	"2006-01-02T15:04:05Z07:00",
}

// excel date serials of plausible expiry years (1954..2118)
const (
	minDateSerial = 20000
	maxDateSerial = 80000
)

var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ParseExpiry returns a UTC calendar date or nil when the cell holds no
// recognizable date. Month-only forms resolve to the first of the month.
func ParseExpiry(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range expiryLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	if serial, err := strconv.Atoi(raw); err == nil && serial >= minDateSerial && serial <= maxDateSerial {
		d := excelEpoch.AddDate(0, 0, serial)
		return &d
	}
	return nil
}

// ParseCount parses a quantity cell. Fractions are truncated; negative or
// unparseable input yields 0.
func ParseCount(raw string) int {
	clean, negative, ok := cleanNumber(raw)
	if !ok || negative {
		return 0
	}
	val, err := strconv.ParseFloat(clean, 64)
	if err != nil || val < 0 || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0
	}
	if val > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(val)
}

// ParseMoney parses a price cell into a decimal; negative or unparseable input yields 0.
func ParseMoney(raw string) decimal.Decimal {
	clean, negative, ok := cleanNumber(raw)
	if !ok || negative {
		return decimal.Zero
	}
	val, err := decimal.NewFromString(clean)
	if err != nil || val.IsNegative() {
		return decimal.Zero
	}
	return val
}

// cleanNumber cuts the cell down to its numeric span, drops thousands
// separators and turns a decimal comma into a dot.
func cleanNumber(raw string) (clean string, negative bool, ok bool) {
	raw = strings.TrimSpace(raw)
	first := strings.IndexFunc(raw, isDigit)
	if first < 0 {
		return "", false, false
	}
	last := strings.LastIndexFunc(raw, isDigit)
	prefix := raw[:first]
	negative = strings.Contains(prefix, "-") || strings.Contains(prefix, "(")

	var b strings.Builder
	for _, r := range raw[first : last+1] {
		if isDigit(r) || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	clean = b.String()

	dot := strings.LastIndex(clean, ".")
	comma := strings.LastIndex(clean, ",")
	switch {
	case dot >= 0 && comma >= 0:
		if dot > comma {
			clean = strings.ReplaceAll(clean, ",", "")
		} else {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.ReplaceAll(clean, ",", ".")
		}
	case dot >= 0:
		if strings.Count(clean, ".") > 1 {
			clean = strings.ReplaceAll(clean, ".", "")
		}
	case comma >= 0:
		if strings.Count(clean, ",") > 1 {
			clean = strings.ReplaceAll(clean, ",", "")
		} else if after := clean[comma+1:]; len(after) == 3 {
			clean = strings.ReplaceAll(clean, ",", "")
		} else {
			clean = strings.ReplaceAll(clean, ",", ".")
		}
	}
	return clean, negative, clean != ""
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
