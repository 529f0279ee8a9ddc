package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/fintrack/pkg/client"
	"github.com/naveenspark/fintrack/pkg/domain"
)

const (
	txDescription = iota
	txAmount
	txDate
	txType
	txCategory
)

const noCategory = "(none)"

type txFormModel struct {
	client     *client.Client
	editing    *domain.Transaction
	form       form
	categories []domain.Category
	submitting bool
	status     string
	isErr      bool
}

// formCategoriesMsg carries the categories offered by a form's picker.
type formCategoriesMsg struct {
	cats []domain.Category
	err  error
}

// transactionSavedMsg reports a create or update.
type transactionSavedMsg struct {
	tx  *domain.Transaction
	err error
}

func newTxFormModel(c *client.Client, tx *domain.Transaction) txFormModel {
	m := txFormModel{
		client: c,
		form: newForm(
			formField{label: "description"},
			formField{label: "amount", placeholder: "12.50"},
			formField{label: "date", placeholder: domain.DateLayout},
			formField{label: "type", options: []string{string(domain.TransactionExpense), string(domain.TransactionIncome)}},
			formField{label: "category", options: []string{noCategory}},
		),
	}
	m.form.set(txDate, domain.Today().String())
	m.form.set(txType, string(domain.TransactionExpense))
	m.form.set(txCategory, noCategory)

	if tx != nil {
		cp := *tx
		m.editing = &cp
		m.form.set(txDescription, tx.Description)
		m.form.set(txAmount, tx.Amount.String())
		m.form.set(txDate, tx.Date.String())
		m.form.set(txType, string(tx.Type))
		if tx.Category != nil {
			m.form.set(txCategory, tx.Category.Name)
		}
	}
	return m
}

func (m txFormModel) Init() tea.Cmd {
	return loadFormCategories(m.client)
}

func loadFormCategories(c *client.Client) tea.Cmd {
	return func() tea.Msg {
		cats, err := c.ListCategories(context.Background())
		return formCategoriesMsg{cats: cats, err: err}
	}
}

// categoryOptions builds picker options for cats, led by noCategory.
func categoryOptions(cats []domain.Category) []string {
	opts := make([]string, 0, len(cats)+1)
	opts = append(opts, noCategory)
	for _, c := range cats {
		opts = append(opts, c.Name)
	}
	return opts
}

// categoryID resolves a picker value back to a category ID, 0 for none.
func categoryID(cats []domain.Category, name string) int64 {
	for _, c := range cats {
		if c.Name == name {
			return c.ID
		}
	}
	return 0
}

func (m txFormModel) Update(msg tea.Msg) (txFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case formCategoriesMsg:
		if msg.err != nil {
			m.status = "categories unavailable: " + errText(msg.err)
			m.isErr = true
			return m, nil
		}
		m.categories = msg.cats
		m.form.fields[txCategory].options = categoryOptions(msg.cats)
		return m, nil

	case transactionSavedMsg:
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

func (m txFormModel) input() (domain.TransactionInput, int64, error) {
	amount, err := domain.ParseMoney(m.form.value(txAmount))
	if err != nil {
		return domain.TransactionInput{}, 0, err
	}
	date, err := domain.ParseDate(m.form.value(txDate))
	if err != nil {
		return domain.TransactionInput{}, 0, err
	}
	typ, err := domain.ParseTransactionType(m.form.value(txType))
	if err != nil {
		return domain.TransactionInput{}, 0, err
	}
	in := domain.TransactionInput{
		Description: m.form.value(txDescription),
		Amount:      amount,
		Date:        date,
		Type:        typ,
	}
	if err := in.Validate(); err != nil {
		return domain.TransactionInput{}, 0, err
	}
	return in, categoryID(m.categories, m.form.value(txCategory)), nil
}

func (m txFormModel) submit() (txFormModel, tea.Cmd) {
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
			tx, err := c.UpdateTransaction(ctx, editing.ID, in, catID)
			return transactionSavedMsg{tx: tx, err: err}
		}
		tx, err := c.CreateTransaction(ctx, in, catID)
		return transactionSavedMsg{tx: tx, err: err}
	}
}

func (m txFormModel) View() string {
	var b strings.Builder
	title := "New transaction"
	if m.editing != nil {
		title = "Edit transaction"
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
