package week

import (
	"errors"
	"strconv"
	"strings"

	"TurnipSentinel/internal/model"
)

// ErrEmptyInline is returned when an inline string holds no digits.
var ErrEmptyInline = errors.New("no prices in inline input")

// ParseInline reads the compact price syntax "95 90/85 80/79 ...": the
// purchase price first, then AM/PM pairs split by '/'. Any run of other
// non-digit characters separates values, and each '/' is a separator of its
// own, so "95 /85" leaves MON1 unknown. Zero and values above the price
// ceiling are treated as unknown. Values past SAT2 are ignored.
func ParseInline(s string) (model.Series, error) {
	s = strings.TrimFunc(s, func(r rune) bool { return !isDigit(r) })
	if s == "" {
		return model.Series{}, ErrEmptyInline
	}

	var (
		b     strings.Builder
		inRun bool
	)
	for _, r := range s {
		switch {
		case isDigit(r):
			b.WriteRune(r)
			inRun = false
		case r == '/':
			b.WriteByte(' ')
			inRun = false
		default:
			if !inRun {
				b.WriteByte(' ')
			}
			inRun = true
		}
	}

	var series model.Series
	for i, tok := range strings.Split(b.String(), " ") {
		if i >= model.SlotCount {
			break
		}
		v, err := strconv.Atoi(tok)
		if err != nil || v <= model.MinPrice || v > model.MaxPrice {
			continue
		}
		series.Set(model.Slot(i), v)
	}
	return series, nil
}

// FormatInline writes series in the syntax ParseInline reads. An unknown
// purchase price is written as 0 and trailing separators are dropped.
func FormatInline(series model.Series) string {
	var b strings.Builder
	if v, ok := series.Get(model.SlotSun); ok {
		b.WriteString(strconv.Itoa(v))
	} else {
		b.WriteByte('0')
	}
	b.WriteByte(' ')

	for s := model.FirstSellSlot; s < model.SlotCount; s++ {
		pm := s%2 == 0
		if pm {
			b.WriteByte('/')
		}
		if v, ok := series.Get(s); ok {
			b.WriteString(strconv.Itoa(v))
		}
		if pm {
			b.WriteByte(' ')
		}
	}
	return strings.TrimRightFunc(b.String(), func(r rune) bool { return !isDigit(r) })
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
