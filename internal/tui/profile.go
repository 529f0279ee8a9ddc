package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/fintrack/internal/browser"
	"github.com/naveenspark/fintrack/internal/session"
	"github.com/naveenspark/fintrack/pkg/client"
	"github.com/naveenspark/fintrack/pkg/domain"
)

const (
	profileFirst = iota
	profileLast
	profileEmail
	profilePhone
	profileAddress
	profilePicture
	profileBirth
	profilePassword
)

type profileModel struct {
	session    *session.Store
	client     *client.Client
	editing    bool
	form       form
	submitting bool
	status     string
	isErr      bool
}

// profileSavedMsg reports a profile update.
type profileSavedMsg struct {
	user *domain.User
	err  error
}

// logoutMsg asks the App to end the session.
type logoutMsg struct{}

// browserOpenedMsg reports a browser launch.
type browserOpenedMsg struct{ err error }

func newProfileModel(s *session.Store, c *client.Client) profileModel {
	return profileModel{session: s, client: c}
}

func profileForm(u domain.User) form {
	f := newForm(
		formField{label: "first name"},
		formField{label: "last name"},
		formField{label: "email"},
		formField{label: "phone"},
		formField{label: "address"},
		formField{label: "picture url", placeholder: "https://"},
		formField{label: "date of birth", placeholder: domain.DateLayout},
		formField{label: "new password", masked: true, placeholder: "unchanged"},
	)
	f.set(profileFirst, u.FirstName)
	f.set(profileLast, u.LastName)
	f.set(profileEmail, u.Email)
	f.set(profilePhone, u.PhoneNumber)
	f.set(profileAddress, u.Address)
	f.set(profilePicture, u.ProfilePictureURL)
	if !u.DateOfBirth.IsZero() {
		f.set(profileBirth, u.DateOfBirth.String())
	}
	return f
}

// changes builds an update holding only the fields that differ from u.
func (m profileModel) changes(u domain.User) (domain.UserUpdate, error) {
	var upd domain.UserUpdate
	diff := func(i int, current string, dst **string) {
		if v := m.form.value(i); v != current {
			*dst = &v
		}
	}
	diff(profileFirst, u.FirstName, &upd.FirstName)
	diff(profileLast, u.LastName, &upd.LastName)
	diff(profileEmail, u.Email, &upd.Email)
	diff(profilePhone, u.PhoneNumber, &upd.PhoneNumber)
	diff(profileAddress, u.Address, &upd.Address)
	diff(profilePicture, u.ProfilePictureURL, &upd.ProfilePictureURL)

	if v := m.form.value(profileBirth); v != "" {
		d, err := domain.ParseDate(v)
		if err != nil {
			return domain.UserUpdate{}, errors.New("date of birth must look like " + domain.DateLayout)
		}
		if !d.Equal(u.DateOfBirth.Time) {
			upd.DateOfBirth = &d
		}
	}
	if pw := m.form.fields[profilePassword].value; pw != "" {
		upd.Password = &pw
	}
	return upd, nil
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileSavedMsg:
		m.submitting = false
		if msg.err != nil {
			m.status = errText(msg.err)
			m.isErr = true
			return m, nil
		}
		if err := m.session.ReplaceProfile(context.Background(), *msg.user); err != nil {
			m.status = err.Error()
			m.isErr = true
			return m, nil
		}
		m.editing = false
		m.status = "profile updated"
		m.isErr = false
		return m, nil

	case browserOpenedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			m.isErr = true
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		if m.editing {
			return m.handleFormKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m profileModel) handleKey(msg tea.KeyMsg) (profileModel, tea.Cmd) {
	u, ok := m.session.User()
	if !ok {
		return m, nil
	}
	m.status = ""
	switch msg.String() {
	case "e":
		m.editing = true
		m.form = profileForm(u)
	case "o":
		if u.ProfilePictureURL == "" {
			m.status = "no profile picture set"
			m.isErr = true
			return m, nil
		}
		link := u.ProfilePictureURL
		return m, func() tea.Msg { return browserOpenedMsg{err: browser.Open(link)} }
	case "x":
		return m, func() tea.Msg { return logoutMsg{} }
	}
	return m, nil
}

func (m profileModel) handleFormKey(msg tea.KeyMsg) (profileModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.status = ""
		return m, nil
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
	return m, nil
}

func (m profileModel) submit() (profileModel, tea.Cmd) {
	u, ok := m.session.User()
	if !ok {
		return m, nil
	}
	upd, err := m.changes(u)
	if err != nil {
		m.status = err.Error()
		m.isErr = true
		return m, nil
	}
	if upd.UserPatch.IsEmpty() && upd.Password == nil {
		m.editing = false
		m.status = "nothing to update"
		m.isErr = false
		return m, nil
	}

	m.submitting = true
	m.status = ""
	c, id := m.client, u.ID
	return m, func() tea.Msg {
		updated, err := c.UpdateUser(context.Background(), id, upd)
		return profileSavedMsg{user: updated, err: err}
	}
}

func (m profileModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + sectionHeaderStyle.Render("Profile") + "\n\n")

	if m.editing {
		b.WriteString(m.form.View())
		b.WriteString("\n  ")
		if m.submitting {
			b.WriteString(dimStyle.Render("saving..."))
		} else {
			b.WriteString(renderStatus(m.status, m.isErr))
		}
		return b.String()
	}

	u, ok := m.session.User()
	if !ok {
		b.WriteString("  " + dimStyle.Render("not logged in") + "\n")
		return b.String()
	}

	row := func(label, value string) {
		if value == "" {
			value = dimStyle.Render("-")
		}
		fmt.Fprintf(&b, "  %s  %s\n", metaStyle.Render(padRight(label, 14)), value)
	}
	row("name", accentStyle.Render(u.DisplayName()))
	row("username", u.Username)
	row("email", u.Email)
	row("phone", u.PhoneNumber)
	row("address", u.Address)
	if !u.DateOfBirth.IsZero() {
		row("date of birth", u.DateOfBirth.String())
	} else {
		row("date of birth", "")
	}
	row("picture", truncStr(u.ProfilePictureURL, 48))
	if exp := m.session.Snapshot().ExpiresAt; !exp.IsZero() {
		row("session until", exp.Local().Format("2006-01-02 15:04"))
	}

	if m.status != "" {
		b.WriteString("\n  " + renderStatus(m.status, m.isErr) + "\n")
	}
	return b.String()
}

func (m profileModel) helpKeys() string {
	if m.editing {
		return helpBar("tab", "next", "ctrl+s", "save", "esc", "cancel")
	}
	return helpBar("e", "edit", "o", "open picture", "x", "log out")
}
