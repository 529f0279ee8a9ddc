package tui

import (
	"testing"
	"time"

	"github.com/naveenspark/fintrack/pkg/domain"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   domain.Money
		want string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{123450, "$1,234.50"},
		{100000000, "$1,000,000.00"},
		{-1205, "-$12.05"},
	}
	for _, tt := range tests {
		if got := formatMoney(tt.in); got != tt.want {
			t.Errorf("formatMoney(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSigned(t *testing.T) {
	if got := formatSigned(250); got != "+$2.50" {
		t.Errorf("formatSigned(250) = %q", got)
	}
	if got := formatSigned(-250); got != "-$2.50" {
		t.Errorf("formatSigned(-250) = %q", got)
	}
}

func TestMonthRange(t *testing.T) {
	tests := []struct {
		d           domain.Date
		first, last string
	}{
		{domain.NewDate(2024, time.February, 14), "2024-02-01", "2024-02-29"},
		{domain.NewDate(2023, time.February, 1), "2023-02-01", "2023-02-28"},
		{domain.NewDate(2024, time.December, 31), "2024-12-01", "2024-12-31"},
	}
	for _, tt := range tests {
		first, last := monthRange(tt.d)
		if first.String() != tt.first || last.String() != tt.last {
			t.Errorf("monthRange(%s) = %s..%s, want %s..%s", tt.d, first, last, tt.first, tt.last)
		}
	}
}

func TestYearRange(t *testing.T) {
	first, last := yearRange(domain.NewDate(2024, time.June, 3))
	if first.String() != "2024-01-01" || last.String() != "2024-12-31" {
		t.Errorf("yearRange = %s..%s", first, last)
	}
}

func TestShiftMonth(t *testing.T) {
	tests := []struct {
		month, year, delta int
		wantM, wantY       int
	}{
		{3, 2024, 1, 4, 2024},
		{12, 2024, 1, 1, 2025},
		{1, 2024, -1, 12, 2023},
		{6, 2024, -18, 12, 2022},
	}
	for _, tt := range tests {
		m, y := shiftMonth(tt.month, tt.year, tt.delta)
		if m != tt.wantM || y != tt.wantY {
			t.Errorf("shiftMonth(%d, %d, %d) = %d/%d, want %d/%d", tt.month, tt.year, tt.delta, m, y, tt.wantM, tt.wantY)
		}
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		v, maxV domain.Money
		width   int
		want    int
	}{
		{100, 100, 10, 10},
		{50, 100, 10, 5},
		{1, 1000, 10, 1},
		{0, 100, 10, 0},
		{10, 0, 10, 0},
	}
	for _, tt := range tests {
		if got := len([]rune(bar(tt.v, tt.maxV, tt.width))); got != tt.want {
			t.Errorf("bar(%d, %d, %d) = %d cells, want %d", tt.v, tt.maxV, tt.width, got, tt.want)
		}
	}
}

func TestDescribeTransaction(t *testing.T) {
	tx := domain.Transaction{
		ID: 1, Description: "Coffee", Amount: 450,
		Date: domain.NewDate(2024, time.March, 2), Type: domain.TransactionExpense,
	}
	want := "2024-03-02  Coffee  -$4.50  Uncategorized"
	if got := describeTransaction(tx); got != want {
		t.Errorf("describeTransaction = %q, want %q", got, want)
	}
}
