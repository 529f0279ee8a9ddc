package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/fintrack/pkg/client"
	"github.com/naveenspark/fintrack/pkg/domain"
)

type transactionsModel struct {
	client        *client.Client
	txs           []domain.Transaction
	cursor        int
	filter        domain.TransactionType // empty shows both types
	loading       bool
	confirmDelete bool
	status        string
	isErr         bool
	width         int
	height        int
}

// transactionsLoadedMsg carries a transaction listing for one filter.
type transactionsLoadedMsg struct {
	filter domain.TransactionType
	txs    []domain.Transaction
	err    error
}

// transactionDeletedMsg reports a delete.
type transactionDeletedMsg struct {
	id  int64
	err error
}

// openTxFormMsg asks the App to open the transaction form. A nil tx creates.
type openTxFormMsg struct {
	tx *domain.Transaction
}

func newTransactionsModel(c *client.Client) transactionsModel {
	return transactionsModel{client: c}
}

func (m transactionsModel) reload() (transactionsModel, tea.Cmd) {
	m.loading = true
	c, filter := m.client, m.filter
	return m, func() tea.Msg {
		txs, err := c.ListTransactions(context.Background(), domain.TransactionFilter{Type: filter})
		return transactionsLoadedMsg{filter: filter, txs: txs, err: err}
	}
}

func (m transactionsModel) selected() (domain.Transaction, bool) {
	if m.cursor < 0 || m.cursor >= len(m.txs) {
		return domain.Transaction{}, false
	}
	return m.txs[m.cursor], true
}

func (m transactionsModel) Update(msg tea.Msg) (transactionsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case transactionsLoadedMsg:
		if msg.filter != m.filter {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.status = errText(msg.err)
			m.isErr = true
			return m, nil
		}
		m.txs = msg.txs
		if m.cursor >= len(m.txs) {
			m.cursor = max(0, len(m.txs)-1)
		}
		return m, nil

	case transactionDeletedMsg:
		if msg.err != nil {
			m.status = errText(msg.err)
			m.isErr = true
			return m, nil
		}
		for i, tx := range m.txs {
			if tx.ID == msg.id {
				m.txs = append(m.txs[:i], m.txs[i+1:]...)
				break
			}
		}
		if m.cursor >= len(m.txs) && m.cursor > 0 {
			m.cursor = len(m.txs) - 1
		}
		m.status = "transaction deleted"
		m.isErr = false
		return m, nil

	case copyDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("copy failed: %v", msg.err)
			m.isErr = true
		} else {
			m.status = "copied!"
			m.isErr = false
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m transactionsModel) handleKey(msg tea.KeyMsg) (transactionsModel, tea.Cmd) {
	if m.confirmDelete {
		m.confirmDelete = false
		tx, ok := m.selected()
		if msg.String() != "y" || !ok {
			m.status = ""
			return m, nil
		}
		c := m.client
		return m, func() tea.Msg {
			return transactionDeletedMsg{id: tx.ID, err: c.DeleteTransaction(context.Background(), tx.ID)}
		}
	}

	m.status = ""
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.txs)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "t":
		switch m.filter {
		case "":
			m.filter = domain.TransactionIncome
		case domain.TransactionIncome:
			m.filter = domain.TransactionExpense
		default:
			m.filter = ""
		}
		m.cursor = 0
		return m.reload()
	case "r":
		return m.reload()
	case "n":
		return m, func() tea.Msg { return openTxFormMsg{} }
	case "e", "enter":
		if tx, ok := m.selected(); ok {
			return m, func() tea.Msg { return openTxFormMsg{tx: &tx} }
		}
	case "d":
		if _, ok := m.selected(); ok {
			m.confirmDelete = true
		}
	case "c":
		if tx, ok := m.selected(); ok {
			text := describeTransaction(tx)
			return m, func() tea.Msg {
				return copyDoneMsg{err: clipboard.WriteAll(text)}
			}
		}
	}
	return m, nil
}

func (m transactionsModel) filterLabel() string {
	switch m.filter {
	case domain.TransactionIncome:
		return "income only"
	case domain.TransactionExpense:
		return "expenses only"
	}
	return "all"
}

func (m transactionsModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s  %s\n\n", sectionHeaderStyle.Render("Transactions"), dimStyle.Render(m.filterLabel()))

	if m.loading && len(m.txs) == 0 {
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
	} else if len(m.txs) == 0 {
		b.WriteString("  " + dimStyle.Render("no transactions yet, press n to add one") + "\n")
	}

	rows := max(3, m.height-6)
	offset := 0
	if m.cursor >= rows {
		offset = m.cursor - rows + 1
	}
	descWidth := max(12, min(40, m.width-52))
	for i := offset; i < len(m.txs) && i < offset+rows; i++ {
		tx := m.txs[i]
		line := fmt.Sprintf("%s  %s  %s  %s",
			metaStyle.Render(tx.Date.String()),
			padRight(tx.Description, descWidth),
			typeStyle(tx.Type).Render(fmt.Sprintf("%13s", formatSigned(tx.Signed()))),
			dimStyle.Render(truncStr(tx.CategoryName(), 16)))
		if i == m.cursor {
			b.WriteString(inputPromptStyle.Render("> ") + selectedRowBg.Render(line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	if m.confirmDelete {
		if tx, ok := m.selected(); ok {
			b.WriteString("\n  " + errStyle.Render(fmt.Sprintf("delete %q? y to confirm", tx.Description)) + "\n")
		}
	} else if m.status != "" {
		b.WriteString("\n  " + renderStatus(m.status, m.isErr) + "\n")
	}
	return b.String()
}

func (m transactionsModel) helpKeys() string {
	return helpBar("j/k", "nav", "n", "new", "e", "edit", "d", "delete", "t", "type", "c", "copy", "r", "reload")
}
