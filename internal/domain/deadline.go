package domain

import (
	"fmt"
	"strconv"
	"time"
)

// DeadlineLayout is the raw deadline format stored with tasks and quoted
// verbatim in reminder emails.
const DeadlineLayout = "2006-01-02 15:04"

// Ordinal returns n followed by its English ordinal suffix (1st, 2nd, 3rd,
// 4th, 11th, 12th, 13th, 21st...). Values whose last two digits fall in 11-13
// always take "th".
func Ordinal(n int) string {
	suffix := "th"
	if r := n % 100; r < 11 || r > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// ParseDeadline parses a raw deadline in DeadlineLayout.
func ParseDeadline(raw string) (time.Time, error) {
	t, err := time.Parse(DeadlineLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidDeadline, raw, err)
	}
	return t, nil
}

// FormatDeadline renders a raw "YYYY-MM-DD HH:MM" deadline for humans, e.g.
// "2025-03-12 23:59" becomes "March 12th, 2025, at 11:59 PM".
func FormatDeadline(raw string) (string, error) {
	t, err := ParseDeadline(raw)
	if err != nil {
		return "", err
	}
	return RenderDeadline(t), nil
}

// RenderDeadline renders t in the same form as FormatDeadline.
func RenderDeadline(t time.Time) string {
	return t.Format("January ") + Ordinal(t.Day()) + t.Format(", 2006, at 03:04 PM")
}
