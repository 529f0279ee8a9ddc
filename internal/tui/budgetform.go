package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/fintrack/pkg/client"
	"github.com/naveenspark/fintrack/pkg/domain"
)

const (
	budgetAmount = iota
	budgetMonth
	budgetYear
	budgetCategory
)

type budgetFormModel struct {
	client     *client.Client
	editing    *domain.Budget
	form       form
	categories []domain.Category
	submitting bool
	status     string
	isErr      bool
}

// budgetSavedMsg reports a create or update.
type budgetSavedMsg struct {
	budget *domain.Budget
	err    error
}

func newBudgetFormModel(c *client.Client, b *domain.Budget, month, year int) budgetFormModel {
	m := budgetFormModel{
		client: c,
		form: newForm(
			formField{label: "amount", placeholder: "250.00"},
			formField{label: "month", placeholder: "1-12"},
			formField{label: "year"},
			formField{label: "category", options: []string{noCategory}},
		),
	}
	m.form.set(budgetMonth, strconv.Itoa(month))
	m.form.set(budgetYear, strconv.Itoa(year))
	m.form.set(budgetCategory, noCategory)
	if b != nil {
		cp := *b
		m.editing = &cp
		m.form.set(budgetAmount, b.Amount.String())
		if b.Category != nil {
			m.form.set(budgetCategory, b.Category.Name)
		}
	}
	return m
}

func (m budgetFormModel) Init() tea.Cmd {
	return loadFormCategories(m.client)
}

func (m budgetFormModel) Update(msg tea.Msg) (budgetFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case formCategoriesMsg:
		if msg.err != nil {
			m.status = "categories unavailable: " + errText(msg.err)
			m.isErr = true
			return m, nil
		}
		m.categories = msg.cats
		m.form.fields[budgetCategory].options = categoryOptions(msg.cats)
		return m, nil

	case budgetSavedMsg:
		m.submitting = false
		if msg.err != nil {
			m.status = errText(msg.err)
			m.isErr = true
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+s":
			return m.submit()
		case "enter":
			if m.form.onLast() {
				return m.submit()
			}
			m.form.next()
			return m, nil
		}
		if m.form.handleKey(msg) {
			m.status = ""
		}
	}
	return m, nil
}

func (m budgetFormModel) input() (domain.BudgetInput, int64, error) {
	amount, err := domain.ParseMoney(m.form.value(budgetAmount))
	if err != nil {
		return domain.BudgetInput{}, 0, err
	}
	month, err := strconv.Atoi(m.form.value(budgetMonth))
	if err != nil {
		return domain.BudgetInput{}, 0, errors.New("month must be a number")
	}
	year, err := strconv.Atoi(m.form.value(budgetYear))
	if err != nil {
		return domain.BudgetInput{}, 0, errors.New("year must be a number")
	}
	in := domain.BudgetInput{Amount: amount, Month: month, Year: year}
	if err := in.Validate(); err != nil {
		return domain.BudgetInput{}, 0, err
	}
	catID := categoryID(m.categories, m.form.value(budgetCategory))
	if catID == 0 {
		return domain.BudgetInput{}, 0, errors.New("category is required")
	}
	return in, catID, nil
}

func (m budgetFormModel) submit() (budgetFormModel, tea.Cmd) {
	in, catID, err := m.input()
	if err != nil {
		m.status = err.Error()
		m.isErr = true
		return m, nil
	}

	m.submitting = true
	m.status = ""
	c, editing := m.client, m.editing
	return m, func() tea.Msg {
		ctx := context.Background()
		if editing != nil {
			b, err := c.UpdateBudget(ctx, editing.ID, in, catID)
			return budgetSavedMsg{budget: b, err: err}
		}
		b, err := c.CreateBudget(ctx, in, catID)
		return budgetSavedMsg{budget: b, err: err}
	}
}

func (m budgetFormModel) View() string {
	var b strings.Builder
	title := "New budget"
	if m.editing != nil {
		title = "Edit budget"
	}
	b.WriteString("\n  " + sectionHeaderStyle.Render(title) + "\n\n")
	b.WriteString(m.form.View())
	b.WriteString("\n  ")
	if m.submitting {
		b.WriteString(dimStyle.Render("saving..."))
	} else {
		b.WriteString(renderStatus(m.status, m.isErr))
	}
	return b.String()
}
