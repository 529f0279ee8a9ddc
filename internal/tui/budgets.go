package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/fintrack/pkg/client"
	"github.com/naveenspark/fintrack/pkg/domain"
)

type budgetsModel struct {
	client        *client.Client
	month         int
	year          int
	budgets       []domain.Budget
	cursor        int
	loading       bool
	confirmDelete bool
	status        string
	isErr         bool
}

// budgetsLoadedMsg carries the budgets of one month.
type budgetsLoadedMsg struct {
	month, year int
	budgets     []domain.Budget
	err         error
}

// budgetDeletedMsg reports a delete.
type budgetDeletedMsg struct {
	id  int64
	err error
}

// openBudgetFormMsg asks the App to open the budget form. A nil budget creates.
type openBudgetFormMsg struct {
	budget      *domain.Budget
	month, year int
}

func newBudgetsModel(c *client.Client, today domain.Date) budgetsModel {
	return budgetsModel{client: c, month: int(today.Month()), year: today.Year()}
}

func (m budgetsModel) reload() (budgetsModel, tea.Cmd) {
	m.loading = true
	c, month, year := m.client, m.month, m.year
	return m, func() tea.Msg {
		bs, err := c.ListBudgets(context.Background(), month, year)
		return budgetsLoadedMsg{month: month, year: year, budgets: bs, err: err}
	}
}

func (m budgetsModel) selected() (domain.Budget, bool) {
	if m.cursor < 0 || m.cursor >= len(m.budgets) {
		return domain.Budget{}, false
	}
	return m.budgets[m.cursor], true
}

func (m budgetsModel) Update(msg tea.Msg) (budgetsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case budgetsLoadedMsg:
		if msg.month != m.month || msg.year != m.year {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.status = errText(msg.err)
			m.isErr = true
			return m, nil
		}
		m.budgets = msg.budgets
		if m.cursor >= len(m.budgets) {
			m.cursor = max(0, len(m.budgets)-1)
		}
		return m, nil

	case budgetDeletedMsg:
		if msg.err != nil {
			m.status = errText(msg.err)
			m.isErr = true
			return m, nil
		}
		for i, b := range m.budgets {
			if b.ID == msg.id {
				m.budgets = append(m.budgets[:i], m.budgets[i+1:]...)
				break
			}
		}
		if m.cursor >= len(m.budgets) && m.cursor > 0 {
			m.cursor = len(m.budgets) - 1
		}
		m.status = "budget deleted"
		m.isErr = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m budgetsModel) handleKey(msg tea.KeyMsg) (budgetsModel, tea.Cmd) {
	if m.confirmDelete {
		m.confirmDelete = false
		b, ok := m.selected()
		if msg.String() != "y" || !ok {
			return m, nil
		}
		c := m.client
		return m, func() tea.Msg {
			return budgetDeletedMsg{id: b.ID, err: c.DeleteBudget(context.Background(), b.ID)}
		}
	}

	m.status = ""
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.budgets)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "[", "]":
		delta := 1
		if msg.String() == "[" {
			delta = -1
		}
		m.month, m.year = shiftMonth(m.month, m.year, delta)
		m.budgets = nil
		m.cursor = 0
		return m.reload()
	case "r":
		return m.reload()
	case "n":
		month, year := m.month, m.year
		return m, func() tea.Msg { return openBudgetFormMsg{month: month, year: year} }
	case "e", "enter":
		if b, ok := m.selected(); ok {
			return m, func() tea.Msg { return openBudgetFormMsg{budget: &b, month: b.Month, year: b.Year} }
		}
	case "d":
		if _, ok := m.selected(); ok {
			m.confirmDelete = true
		}
	}
	return m, nil
}

func (m budgetsModel) View() string {
	var b strings.Builder
	period := fmt.Sprintf("%s %d", time.Month(m.month), m.year)
	fmt.Fprintf(&b, "\n  %s  %s\n\n", sectionHeaderStyle.Render("Budgets"), accentStyle.Render(period))

	switch {
	case m.loading && len(m.budgets) == 0:
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
	case len(m.budgets) == 0:
		b.WriteString("  " + dimStyle.Render("no budgets for this month, press n to add one") + "\n")
	}

	var total domain.Money
	for i, bud := range m.budgets {
		total += bud.Amount
		line := fmt.Sprintf("%s  %12s", padRight(bud.CategoryName(), 24), formatMoney(bud.Amount))
		if i == m.cursor {
			b.WriteString(inputPromptStyle.Render("> ") + selectedRowBg.Render(line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	if len(m.budgets) > 0 {
		b.WriteString("  " + dimStyle.Render(fmt.Sprintf("%s  %12s", padRight("total", 24), formatMoney(total))) + "\n")
	}

	if m.confirmDelete {
		if bud, ok := m.selected(); ok {
			b.WriteString("\n  " + errStyle.Render(fmt.Sprintf("delete the %s budget? y to confirm", bud.CategoryName())) + "\n")
		}
	} else if m.status != "" {
		b.WriteString("\n  " + renderStatus(m.status, m.isErr) + "\n")
	}
	return b.String()
}

func (m budgetsModel) helpKeys() string {
	return helpBar("j/k", "nav", "[/]", "month", "n", "new", "e", "edit", "d", "delete", "r", "reload")
}
