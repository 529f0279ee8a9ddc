package main

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/fintrack/pkg/domain"
)

var ledgerGreetings = [...]string{
	"Your receipts called. They want to be entered.",
	"Every unrecorded coffee is a small mystery you chose to keep.",
	"The ledger is balanced. Nobody is in it.",
	"Budgets don't enforce themselves. Mostly they sulk.",
	"Your spending has a story. Right now it is being told by your bank.",
	"Income and expenses walk into a bar. Only one of them leaves.",
	"The month is half over. Do you know where your money went?",
	"A budget you never look at is just a wish with a number on it.",
	"Somewhere a category called Miscellaneous is growing unchecked.",
	"Net balance: unknown. Confidence: suspiciously high.",
	"The numbers are ready when you are.",
	"Compound interest is patient. The login prompt is less so.",
}

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2dd4bf")).Bold(true)
	quoteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cmdStyle   = lipgloss.NewStyle().Bold(true)
)

func printHelp(w io.Writer) {
	commands := []struct{ cmd, desc string }{
		{"fintrack", "Open the dashboard (interactive TUI)"},
		{"fintrack login", "Log in with username and password"},
		{"fintrack logout", "Clear the saved session"},
		{"fintrack whoami", "Show the logged-in user"},
		{"fintrack --version", "Show version"},
		{"fintrack help", "You are here"},
	}

	fmt.Fprintf(w, "\n  %s\n\n  Commands:\n", titleStyle.Render("F I N T R A C K"))
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), mutedStyle.Render(c.desc))
	}
	fmt.Fprintf(w, "\n  Flags:\n    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", "--ephemeral")), mutedStyle.Render("Keep the session in memory only"))
	fmt.Fprintf(w, "\n  %s\n\n", mutedStyle.Render("Settings: FINTRACK_* environment variables or ~/.fintrack/config.yaml"))
}

// printGreeting is shown when a command needs a session and there is none.
func printGreeting(w io.Writer) {
	msg := ledgerGreetings[rand.IntN(len(ledgerGreetings))]
	fmt.Fprintf(w, "\n%s\n\n%s\n\n%s\n\n",
		titleStyle.Render("FINTRACK"),
		quoteStyle.Render(msg),
		mutedStyle.Render("Not logged in. To start: fintrack login"))
}

func printUser(w io.Writer, u domain.User) {
	fmt.Fprintf(w, "%s  %s\n", titleStyle.Render(u.DisplayName()), mutedStyle.Render("@"+u.Username))
	if u.Email != "" {
		fmt.Fprintf(w, "%s\n", u.Email)
	}
}
