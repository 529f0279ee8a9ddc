package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestEditRune(t *testing.T) {
	tests := []struct {
		name  string
		start string
		key   tea.KeyMsg
		want  string
	}{
		{"append to empty", "", key("4"), "4"},
		{"append digit", "12", key("."), "12."},
		{"space key", "coffee", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, "coffee "},
		{"literal space", "coffee", key(" "), "coffee "},
		{"backspace", "12.50", tea.KeyMsg{Type: tea.KeyBackspace}, "12.5"},
		{"backspace empty", "", tea.KeyMsg{Type: tea.KeyBackspace}, ""},
		{"backspace multibyte", "café", tea.KeyMsg{Type: tea.KeyBackspace}, "caf"},
		{"backspace emoji", "rent\U0001f3e0", tea.KeyMsg{Type: tea.KeyBackspace}, "rent"},
		{"fast typing appends", "Grocery ", key("run"), "Grocery run"},
		{"paste appends", "Grocery ", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("run"), Paste: true}, "Grocery run"},
		{"paste drops control runes", "", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a\tb\nc"), Paste: true}, "abc"},
		{"alt combo ignored", "abc", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x"), Alt: true}, "abc"},
		{"enter ignored", "abc", tea.KeyMsg{Type: tea.KeyEnter}, "abc"},
		{"arrow ignored", "abc", tea.KeyMsg{Type: tea.KeyLeft}, "abc"},
		{"ctrl combo ignored", "abc", tea.KeyMsg{Type: tea.KeyCtrlS}, "abc"},
		{"tab ignored", "abc", tea.KeyMsg{Type: tea.KeyTab}, "abc"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := editRune(tc.start, tc.key); got != tc.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", tc.start, tc.key.String(), got, tc.want)
			}
		})
	}
}

func TestEditRuneMaxInputLen(t *testing.T) {
	full := strings.Repeat("a", maxInputLen)
	if got := editRune(full, key("b")); got != full {
		t.Errorf("editRune at limit grew to %d runes", len([]rune(got)))
	}
	if got := editRune(full, tea.KeyMsg{Type: tea.KeyBackspace}); len(got) != maxInputLen-1 {
		t.Errorf("backspace at limit = %d runes, want %d", len(got), maxInputLen-1)
	}
	near := strings.Repeat("a", maxInputLen-2)
	paste := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("bcdef"), Paste: true}
	if got := editRune(near, paste); got != near+"bc" {
		t.Errorf("paste near limit = %d runes, want clamp to %d", len([]rune(got)), maxInputLen)
	}
}

func TestTruncStr(t *testing.T) {
	tests := []struct {
		s      string
		maxLen int
		want   string
	}{
		{"Groceries", 20, "Groceries"},
		{"Groceries", 9, "Groceries"},
		{"Groceries", 5, "Groc…"},
		{"", 5, ""},
		{"ab", 0, ""},
		{"日本語テキスト", 3, "日本…"},
	}
	for _, tt := range tests {
		if got := truncStr(tt.s, tt.maxLen); got != tt.want {
			t.Errorf("truncStr(%q, %d) = %q, want %q", tt.s, tt.maxLen, got, tt.want)
		}
	}
}

func TestTruncateToHeight(t *testing.T) {
	input := "a\nb\nc\nd\n"
	tests := []struct {
		max  int
		want string
	}{
		{2, "a\nb\n"},
		{4, input},
		{10, input},
		{0, input},
		{-1, input},
	}
	for _, tt := range tests {
		if got := truncateToHeight(input, tt.max); got != tt.want {
			t.Errorf("truncateToHeight(%d) = %q, want %q", tt.max, got, tt.want)
		}
	}
}

func newTestForm() form {
	return newForm(
		formField{label: "name"},
		formField{label: "secret", masked: true},
		formField{label: "kind", options: []string{"EXPENSE", "INCOME"}, value: "EXPENSE"},
	)
}

func TestFormNavigation(t *testing.T) {
	f := newTestForm()
	f.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if f.focus != 1 {
		t.Fatalf("focus after tab = %d, want 1", f.focus)
	}
	f.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if !f.onLast() {
		t.Fatal("expected focus on last field")
	}
	f.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	if f.focus != 0 {
		t.Errorf("tab should wrap, focus = %d", f.focus)
	}
	f.handleKey(tea.KeyMsg{Type: tea.KeyShiftTab})
	if f.focus != 2 {
		t.Errorf("shift+tab should wrap backwards, focus = %d", f.focus)
	}
}

func TestFormTypingAndValue(t *testing.T) {
	f := newTestForm()
	for _, k := range []string{" ", "b", "o", "b", " "} {
		f.handleKey(key(k))
	}
	if got := f.value(0); got != "bob" {
		t.Errorf("value = %q, want trimmed %q", got, "bob")
	}
	if consumed := f.handleKey(tea.KeyMsg{Type: tea.KeyCtrlX}); consumed {
		t.Error("ctrl+x should not be consumed")
	}
}

func TestFormAcceptsPaste(t *testing.T) {
	f := newTestForm()
	paste := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("down payment"), Paste: true}
	if !f.handleKey(paste) {
		t.Fatal("paste should be consumed")
	}
	if f.focus != 0 {
		t.Errorf("pasted words moved focus to %d", f.focus)
	}
	if got := f.value(0); got != "down payment" {
		t.Errorf("value = %q, want %q", got, "down payment")
	}
}

func TestFormPickerCycles(t *testing.T) {
	f := newTestForm()
	f.focus = 2
	f.handleKey(tea.KeyMsg{Type: tea.KeyRight})
	if got := f.value(2); got != "INCOME" {
		t.Errorf("after right = %q, want INCOME", got)
	}
	f.handleKey(tea.KeyMsg{Type: tea.KeyRight})
	if got := f.value(2); got != "EXPENSE" {
		t.Errorf("picker should wrap, got %q", got)
	}
	f.handleKey(tea.KeyMsg{Type: tea.KeyLeft})
	if got := f.value(2); got != "INCOME" {
		t.Errorf("after left = %q, want INCOME", got)
	}
	if f.handleKey(key("x")) {
		t.Error("typing into a picker should not be consumed")
	}
}

func TestFormPickerUnknownValueStartsAtFirst(t *testing.T) {
	f := newTestForm()
	f.focus = 2
	f.set(2, "Travel")
	f.cycle(1)
	if got := f.value(2); got != "INCOME" {
		t.Errorf("cycle from unknown = %q, want INCOME", got)
	}
}

func TestFormViewMasksSecrets(t *testing.T) {
	f := newTestForm()
	f.set(1, "hunter2")
	out := f.View()
	if strings.Contains(out, "hunter2") {
		t.Errorf("masked value leaked: %q", out)
	}
	if !strings.Contains(out, "•••••••") {
		t.Errorf("expected mask bullets in %q", out)
	}
	if !strings.Contains(out, "‹ EXPENSE ›") {
		t.Errorf("expected picker rendering in %q", out)
	}
}
