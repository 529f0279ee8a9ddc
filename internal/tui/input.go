package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 500

// editRune applies a keystroke to text for inline editing.
// Backspace removes the last rune; typed or pasted runes are appended with
// control characters dropped. Other keys leave text unchanged.
// Input is clamped to maxInputLen runes.
func editRune(text string, msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyBackspace:
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	case tea.KeySpace:
		return appendRunes(text, []rune{' '})
	case tea.KeyRunes:
		if msg.Alt {
			return text
		}
		return appendRunes(text, msg.Runes)
	}
	return text
}

func appendRunes(text string, add []rune) string {
	room := maxInputLen - utf8.RuneCountInString(text)
	var b strings.Builder
	b.WriteString(text)
	for _, r := range add {
		if room <= 0 {
			break
		}
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
		room--
	}
	return b.String()
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// formField is one labelled input of a form.
type formField struct {
	label       string
	value       string
	placeholder string
	masked      bool
	// options, when set, turn the field into a picker cycled with left/right.
	options []string
}

// form is a vertical list of fields with one focused.
type form struct {
	fields []formField
	focus  int
}

func newForm(fields ...formField) form {
	return form{fields: fields}
}

func (f *form) next() { f.focus = (f.focus + 1) % len(f.fields) }
func (f *form) prev() { f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields) }

func (f form) onLast() bool { return f.focus == len(f.fields)-1 }

func (f form) value(i int) string { return strings.TrimSpace(f.fields[i].value) }

func (f *form) set(i int, v string) { f.fields[i].value = v }

// cycle moves a picker field by delta through its options.
func (f *form) cycle(delta int) {
	fld := &f.fields[f.focus]
	if len(fld.options) == 0 {
		return
	}
	idx := 0
	for i, o := range fld.options {
		if o == fld.value {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(fld.options)) % len(fld.options)
	fld.value = fld.options[idx]
}

// handleKey applies navigation and editing keys. It reports whether the key
// was consumed.
func (f *form) handleKey(msg tea.KeyMsg) bool {
	key := msg.String()
	if msg.Type == tea.KeyRunes {
		key = ""
	}
	switch key {
	case "tab", "down":
		f.next()
	case "shift+tab", "up":
		f.prev()
	case "left", "right":
		if len(f.fields[f.focus].options) == 0 {
			return false
		}
		if key == "left" {
			f.cycle(-1)
		} else {
			f.cycle(1)
		}
	default:
		fld := &f.fields[f.focus]
		if len(fld.options) > 0 {
			return false
		}
		edited := editRune(fld.value, msg)
		if edited == fld.value && msg.Type != tea.KeyBackspace {
			return false
		}
		fld.value = edited
	}
	return true
}

func (f form) View() string {
	var b strings.Builder
	width := 0
	for _, fld := range f.fields {
		width = max(width, utf8.RuneCountInString(fld.label))
	}
	for i, fld := range f.fields {
		cursor := "  "
		style := metaStyle
		if i == f.focus {
			cursor = inputPromptStyle.Render("> ")
			style = selectedStyle
		}
		value := fld.value
		if fld.masked {
			value = strings.Repeat("•", utf8.RuneCountInString(value))
		}
		switch {
		case len(fld.options) > 0:
			value = "‹ " + value + " ›"
		case i == f.focus:
			value += "█"
		case value == "" && fld.placeholder != "":
			value = inputPlaceholderStyle.Render(fld.placeholder)
		}
		b.WriteString(cursor + style.Render(padRight(fld.label, width)) + "  " + value + "\n")
	}
	return b.String()
}
