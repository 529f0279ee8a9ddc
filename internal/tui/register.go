package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/fintrack/pkg/client"
	"github.com/naveenspark/fintrack/pkg/domain"
)

const (
	regUsername = iota
	regPassword
	regEmail
	regFirstName
	regLastName
	regPhone
)

type registerModel struct {
	client     *client.Client
	form       form
	submitting bool
	status     string
	isErr      bool
}

// registerDoneMsg carries the result of account creation.
type registerDoneMsg struct {
	username string
	err      error
}

func newRegisterModel(c *client.Client) registerModel {
	return registerModel{
		client: c,
		form: newForm(
			formField{label: "username"},
			formField{label: "password", masked: true},
			formField{label: "email"},
			formField{label: "first name", placeholder: "optional"},
			formField{label: "last name", placeholder: "optional"},
			formField{label: "phone", placeholder: "optional"},
		),
	}
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerDoneMsg:
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

func (m registerModel) submit() (registerModel, tea.Cmd) {
	req := domain.RegisterRequest{
		Username:    m.form.value(regUsername),
		Password:    m.form.fields[regPassword].value,
		Email:       m.form.value(regEmail),
		FirstName:   m.form.value(regFirstName),
		LastName:    m.form.value(regLastName),
		PhoneNumber: m.form.value(regPhone),
	}
	if err := req.Validate(); err != nil {
		m.status = err.Error()
		m.isErr = true
		return m, nil
	}

	m.submitting = true
	m.status = ""
	c := m.client
	return m, func() tea.Msg {
		err := c.Register(context.Background(), req)
		return registerDoneMsg{username: req.Username, err: err}
	}
}

func (m registerModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + sectionHeaderStyle.Render("Create an account") + "\n\n")
	b.WriteString(m.form.View())
	b.WriteString("\n  ")
	if m.submitting {
		b.WriteString(dimStyle.Render("creating account..."))
	} else {
		b.WriteString(renderStatus(m.status, m.isErr))
	}
	return b.String()
}
