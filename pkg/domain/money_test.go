package domain

import (
	"encoding/json"
	"testing"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want Money
		ok   bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"0.01", 1, true},
		{"1.005", 101, true},
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{"-3.5", -350, true},
		{"+7", 700, true},
		{".5", 50, true},
		{"1e2", 10000, true},
		{"", 0, false},
		{".", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"12a", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMoney(tt.in)
			if tt.ok {
				if err != nil {
					t.Fatalf("ParseMoney(%q) error: %v", tt.in, err)
				}
				if got != tt.want {
					t.Errorf("ParseMoney(%q) = %d, want %d", tt.in, got, tt.want)
				}
				return
			}
			if err == nil {
				t.Errorf("ParseMoney(%q) = %d, want error", tt.in, got)
			}
		})
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		m    Money
		want string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{1234, "12.34"},
		{-1205, "-12.05"},
	}
	for _, tt := range tests {
		if got := tt.m.String(); got != tt.want {
			t.Errorf("Money(%d).String() = %q, want %q", tt.m, got, tt.want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	var v struct {
		A Money `json:"a"`
		B Money `json:"b"`
		C Money `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a": 12.5, "b": "7.25", "c": null}`), &v); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if v.A != 1250 || v.B != 725 || v.C != 0 {
		t.Errorf("got a=%d b=%d c=%d, want 1250 725 0", v.A, v.B, v.C)
	}

	data, err := json.Marshal(struct {
		Amount Money `json:"amount"`
	}{Amount: 1999})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(data) != `{"amount":19.99}` {
		t.Errorf("Marshal = %s, want {\"amount\":19.99}", data)
	}

	if err := json.Unmarshal([]byte(`{"a": true}`), &v); err == nil {
		t.Error("expected error for boolean amount")
	}
}
