package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/fintrack/internal/session"
	"github.com/naveenspark/fintrack/pkg/client"
)

const (
	loginUsername = iota
	loginPassword
)

type loginModel struct {
	session    *session.Store
	client     *client.Client
	form       form
	submitting bool
	status     string
	isErr      bool
}

// loginDoneMsg carries the result of a sign-in attempt.
type loginDoneMsg struct {
	err error
}

func newLoginModel(s *session.Store, c *client.Client) loginModel {
	return loginModel{
		session: s,
		client:  c,
		form: newForm(
			formField{label: "username"},
			formField{label: "password", masked: true},
		),
	}
}

// withNotice returns a fresh login form showing status.
func (m loginModel) withNotice(status string, isErr bool, username string) loginModel {
	n := newLoginModel(m.session, m.client)
	n.status = status
	n.isErr = isErr
	if username != "" {
		n.form.set(loginUsername, username)
		n.form.focus = loginPassword
	}
	return n
}

func (m loginModel) Init() tea.Cmd {
	return nil
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.status = errText(msg.err)
			m.isErr = true
			m.form.set(loginPassword, "")
			m.form.focus = loginPassword
			return m, nil
		}
		m.status = ""
		m.form.set(loginPassword, "")
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

func (m loginModel) submit() (loginModel, tea.Cmd) {
	username := m.form.value(loginUsername)
	password := m.form.fields[loginPassword].value
	if username == "" || password == "" {
		m.status = "username and password are required"
		m.isErr = true
		return m, nil
	}

	m.submitting = true
	m.status = ""
	s, c := m.session, m.client
	return m, func() tea.Msg {
		return loginDoneMsg{err: s.SignIn(context.Background(), c, username, password)}
	}
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + sectionHeaderStyle.Render("Log in") + "\n\n")
	b.WriteString(m.form.View())
	b.WriteString("\n  ")
	if m.submitting {
		b.WriteString(dimStyle.Render("signing in..."))
	} else {
		b.WriteString(renderStatus(m.status, m.isErr))
	}
	return b.String()
}
