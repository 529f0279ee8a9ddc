package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/fintrack/pkg/client"
	"github.com/naveenspark/fintrack/pkg/domain"
)

// categoryEdit is the inline editing state of the categories view.
type categoryEdit int

const (
	catBrowsing categoryEdit = iota
	catAdding
	catRenaming
	catConfirmDelete
)

type categoriesModel struct {
	client     *client.Client
	categories []domain.Category
	cursor     int
	edit       categoryEdit
	input      string
	loading    bool
	submitting bool
	status     string
	isErr      bool
}

// categoriesLoadedMsg carries the category listing.
type categoriesLoadedMsg struct {
	cats []domain.Category
	err  error
}

// categorySavedMsg reports a create or rename.
type categorySavedMsg struct {
	cat     *domain.Category
	renamed bool
	err     error
}

// categoryDeletedMsg reports a delete.
type categoryDeletedMsg struct {
	id  int64
	err error
}

func newCategoriesModel(c *client.Client) categoriesModel {
	return categoriesModel{client: c}
}

func (m categoriesModel) reload() (categoriesModel, tea.Cmd) {
	m.loading = true
	c := m.client
	return m, func() tea.Msg {
		cats, err := c.ListCategories(context.Background())
		return categoriesLoadedMsg{cats: cats, err: err}
	}
}

// editing reports whether keystrokes go to the inline input.
func (m categoriesModel) editing() bool {
	return m.edit != catBrowsing
}

func (m categoriesModel) selected() (domain.Category, bool) {
	if m.cursor < 0 || m.cursor >= len(m.categories) {
		return domain.Category{}, false
	}
	return m.categories[m.cursor], true
}

func (m categoriesModel) fail(err error) categoriesModel {
	m.status = errText(err)
	m.isErr = true
	return m
}

func (m categoriesModel) Update(msg tea.Msg) (categoriesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.categories = msg.cats
		if m.cursor >= len(m.categories) {
			m.cursor = max(0, len(m.categories)-1)
		}
		return m, nil

	case categorySavedMsg:
		m.submitting = false
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		m.edit = catBrowsing
		m.input = ""
		m.isErr = false
		if msg.renamed {
			m.status = "category renamed"
		} else {
			m.status = "category added"
		}
		return m.reload()

	case categoryDeletedMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}
		for i, c := range m.categories {
			if c.ID == msg.id {
				m.categories = append(m.categories[:i], m.categories[i+1:]...)
				break
			}
		}
		if m.cursor >= len(m.categories) && m.cursor > 0 {
			m.cursor = len(m.categories) - 1
		}
		m.status = "category deleted"
		m.isErr = false
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch m.edit {
		case catAdding, catRenaming:
			return m.handleInput(msg)
		case catConfirmDelete:
			return m.handleConfirm(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m categoriesModel) handleKey(msg tea.KeyMsg) (categoriesModel, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.categories)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "r":
		return m.reload()
	case "n":
		m.edit = catAdding
		m.input = ""
	case "e", "enter":
		if c, ok := m.selected(); ok {
			m.edit = catRenaming
			m.input = c.Name
		}
	case "d":
		if _, ok := m.selected(); ok {
			m.edit = catConfirmDelete
		}
	}
	return m, nil
}

func (m categoriesModel) handleInput(msg tea.KeyMsg) (categoriesModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.edit = catBrowsing
		m.input = ""
		m.status = ""
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.input)
		if name == "" {
			m.status = "name is required"
			m.isErr = true
			return m, nil
		}
		m.submitting = true
		c := m.client
		if m.edit == catRenaming {
			cat, _ := m.selected()
			return m, func() tea.Msg {
				updated, err := c.UpdateCategory(context.Background(), cat.ID, name)
				return categorySavedMsg{cat: updated, renamed: true, err: err}
			}
		}
		return m, func() tea.Msg {
			created, err := c.CreateCategory(context.Background(), name)
			return categorySavedMsg{cat: created, err: err}
		}
	}
	m.input = editRune(m.input, msg)
	return m, nil
}

func (m categoriesModel) handleConfirm(msg tea.KeyMsg) (categoriesModel, tea.Cmd) {
	m.edit = catBrowsing
	cat, ok := m.selected()
	if msg.String() != "y" || !ok {
		return m, nil
	}
	c := m.client
	return m, func() tea.Msg {
		return categoryDeletedMsg{id: cat.ID, err: c.DeleteCategory(context.Background(), cat.ID)}
	}
}

func (m categoriesModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s  %s\n\n", sectionHeaderStyle.Render("Categories"), dimStyle.Render(fmt.Sprintf("%d", len(m.categories))))

	switch {
	case m.loading && len(m.categories) == 0:
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
	case len(m.categories) == 0 && m.edit != catAdding:
		b.WriteString("  " + dimStyle.Render("no categories yet, press n to add one") + "\n")
	}

	for i, c := range m.categories {
		name := c.Name
		if i == m.cursor && m.edit == catRenaming {
			name = m.input + "█"
		}
		if i == m.cursor {
			b.WriteString(inputPromptStyle.Render("> ") + selectedStyle.Render(name) + "\n")
		} else {
			b.WriteString("  " + normalStyle.Render(name) + "\n")
		}
	}
	if m.edit == catAdding {
		b.WriteString(inputPromptStyle.Render("+ ") + m.input + "█\n")
	}

	switch {
	case m.submitting:
		b.WriteString("\n  " + dimStyle.Render("saving...") + "\n")
	case m.edit == catConfirmDelete:
		if c, ok := m.selected(); ok {
			b.WriteString("\n  " + errStyle.Render(fmt.Sprintf("delete %q? y to confirm", c.Name)) + "\n")
		}
	case m.status != "":
		b.WriteString("\n  " + renderStatus(m.status, m.isErr) + "\n")
	}
	return b.String()
}

func (m categoriesModel) helpKeys() string {
	if m.edit == catAdding || m.edit == catRenaming {
		return helpBar("enter", "save", "esc", "cancel")
	}
	return helpBar("j/k", "nav", "n", "new", "e", "rename", "d", "delete", "r", "reload")
}
