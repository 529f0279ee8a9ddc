package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/naveenspark/fintrack/pkg/client"
	"github.com/naveenspark/fintrack/pkg/domain"
)

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// padRight pads s with spaces to width runes, truncating when longer.
func padRight(s string, width int) string {
	s = truncStr(s, width)
	if n := utf8.RuneCountInString(s); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return s
}

// formatMoney renders an amount with a currency sign, e.g. "$1,234.50".
func formatMoney(m domain.Money) string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	s := m.String()
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + frac
}

// formatSigned renders an amount with an explicit sign.
func formatSigned(m domain.Money) string {
	if m >= 0 {
		return "+" + formatMoney(m)
	}
	return formatMoney(m)
}

// monthRange returns the first and last day of the month containing d.
func monthRange(d domain.Date) (domain.Date, domain.Date) {
	first := domain.NewDate(d.Year(), d.Month(), 1)
	last := domain.NewDate(d.Year(), d.Month()+1, 0)
	return first, last
}

// yearRange returns January 1st and December 31st of d's year.
func yearRange(d domain.Date) (domain.Date, domain.Date) {
	return domain.NewDate(d.Year(), time.January, 1), domain.NewDate(d.Year(), time.December, 31)
}

// shiftMonth moves (month, year) by delta months.
func shiftMonth(month, year, delta int) (int, int) {
	t := time.Date(year, time.Month(month)+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return int(t.Month()), t.Year()
}

// errText is the user-facing text for err.
func errText(err error) string {
	return client.Message(err)
}

// bar renders a horizontal bar of width proportional to v/max.
func bar(v, maxV domain.Money, width int) string {
	if maxV <= 0 || v <= 0 || width <= 0 {
		return ""
	}
	n := int(int64(v) * int64(width) / int64(maxV))
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

// describeTransaction is the clipboard text for a transaction.
func describeTransaction(tx domain.Transaction) string {
	return fmt.Sprintf("%s  %s  %s  %s", tx.Date, tx.Description, formatSigned(tx.Signed()), tx.CategoryName())
}
