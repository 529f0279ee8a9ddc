package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/fintrack/internal/session"
	"github.com/naveenspark/fintrack/pkg/client"
	"github.com/naveenspark/fintrack/pkg/domain"
)

type view int

const (
	viewLogin view = iota
	viewRegister
	viewDashboard
	viewTransactions
	viewBudgets
	viewCategories
	viewProfile
	viewTxForm
	viewBudgetForm
)

// reconcileDoneMsg carries the result of the startup profile refresh.
type reconcileDoneMsg struct{ err error }

// App is the root Bubbletea model.
type App struct {
	session      *session.Store
	client       *client.Client
	apiURL       string
	view         view
	login        loginModel
	register     registerModel
	dashboard    dashboardModel
	transactions transactionsModel
	txForm       txFormModel
	budgets      budgetsModel
	budgetForm   budgetFormModel
	categories   categoriesModel
	profile      profileModel
	helpOpen     bool
	width        int
	height       int
	frame        int // logo shimmer animation frame
}

// NewApp creates the TUI. It starts on the dashboard when s holds a session
// and on the login form otherwise.
func NewApp(s *session.Store, c *client.Client) App {
	a := App{
		session:  s,
		client:   c,
		apiURL:   c.BaseURL(),
		login:    newLoginModel(s, c),
		register: newRegisterModel(c),
		profile:  newProfileModel(s, c),
	}
	a.resetData()
	if s.IsAuthenticated() {
		a.view = viewDashboard
		a.dashboard.loading = true
	}
	return a
}

// resetData drops every view holding the previous user's data.
func (a *App) resetData() {
	a.dashboard = newDashboardModel(a.client)
	a.transactions = newTransactionsModel(a.client)
	a.budgets = newBudgetsModel(a.client, domain.Today())
	a.categories = newCategoriesModel(a.client)
	a.profile = newProfileModel(a.session, a.client)
	a.dashboard.width, a.dashboard.height = a.width, a.bodyHeight()
	a.transactions.width, a.transactions.height = a.width, a.bodyHeight()
}

func (a App) Init() tea.Cmd {
	if !a.session.IsAuthenticated() {
		return shimmerTickCmd()
	}
	s := a.session
	reconcile := func() tea.Msg {
		return reconcileDoneMsg{err: s.Reconcile(context.Background())}
	}
	return tea.Batch(shimmerTickCmd(), a.dashboard.load(), reconcile)
}

// Chrome: header(2) + tabs(1) + help(1) = 4 lines
const chromeLines = 4

func (a App) bodyHeight() int {
	return max(0, a.height-chromeLines)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := a.update(msg)
	return m.gate(), cmd
}

// gate returns to the login form once the session is gone.
func (a App) gate() App {
	if a.session.IsAuthenticated() || a.view == viewLogin || a.view == viewRegister {
		return a
	}
	a.view = viewLogin
	a.helpOpen = false
	a.login = a.login.withNotice("session ended, please log in again", true, "")
	a.resetData()
	return a
}

func (a App) update(msg tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		body := tea.WindowSizeMsg{Width: msg.Width, Height: a.bodyHeight()}
		a.dashboard, _ = a.dashboard.Update(body)
		a.transactions, _ = a.transactions.Update(body)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case reconcileDoneMsg:
		return a, nil

	case loginDoneMsg:
		a.login, _ = a.login.Update(msg)
		if msg.err != nil || !a.session.IsAuthenticated() {
			return a, nil
		}
		a.resetData()
		a.login = newLoginModel(a.session, a.client)
		a.view = viewDashboard
		a.dashboard, cmd = a.dashboard.reload()
		return a, cmd

	case registerDoneMsg:
		a.register, _ = a.register.Update(msg)
		if msg.err != nil {
			return a, nil
		}
		a.register = newRegisterModel(a.client)
		a.login = a.login.withNotice("account created, log in to continue", false, msg.username)
		a.view = viewLogin
		return a, nil

	case logoutMsg:
		a.session.Logout(context.Background())
		a.view = viewLogin
		a.login = a.login.withNotice("logged out", false, "")
		a.resetData()
		return a, nil

	case dashboardLoadedMsg:
		a.dashboard, cmd = a.dashboard.Update(msg)
		return a, cmd

	case transactionsLoadedMsg, transactionDeletedMsg:
		a.transactions, cmd = a.transactions.Update(msg)
		return a, cmd

	case budgetsLoadedMsg, budgetDeletedMsg:
		a.budgets, cmd = a.budgets.Update(msg)
		return a, cmd

	case categoriesLoadedMsg, categorySavedMsg, categoryDeletedMsg:
		a.categories, cmd = a.categories.Update(msg)
		return a, cmd

	case profileSavedMsg, browserOpenedMsg:
		a.profile, cmd = a.profile.Update(msg)
		return a, cmd

	case openTxFormMsg:
		a.txForm = newTxFormModel(a.client, msg.tx)
		a.view = viewTxForm
		return a, a.txForm.Init()

	case openBudgetFormMsg:
		a.budgetForm = newBudgetFormModel(a.client, msg.budget, msg.month, msg.year)
		a.view = viewBudgetForm
		return a, a.budgetForm.Init()

	case formCategoriesMsg:
		switch a.view {
		case viewTxForm:
			a.txForm, cmd = a.txForm.Update(msg)
		case viewBudgetForm:
			a.budgetForm, cmd = a.budgetForm.Update(msg)
		}
		return a, cmd

	case transactionSavedMsg:
		a.txForm, _ = a.txForm.Update(msg)
		if msg.err != nil || a.view != viewTxForm {
			return a, nil
		}
		a.view = viewTransactions
		a.transactions.status, a.transactions.isErr = "transaction saved", false
		a.transactions, cmd = a.transactions.reload()
		return a, cmd

	case budgetSavedMsg:
		a.budgetForm, _ = a.budgetForm.Update(msg)
		if msg.err != nil || a.view != viewBudgetForm {
			return a, nil
		}
		a.view = viewBudgets
		if msg.budget != nil && (msg.budget.Month != a.budgets.month || msg.budget.Year != a.budgets.year) {
			a.budgets.month, a.budgets.year = msg.budget.Month, msg.budget.Year
			a.budgets.budgets = nil
		}
		a.budgets, cmd = a.budgets.reload()
		a.budgets.status, a.budgets.isErr = "budget saved", false
		return a, cmd

	case tea.KeyMsg:
		if handled, next, cmd := a.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	switch a.view {
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewRegister:
		a.register, cmd = a.register.Update(msg)
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewTransactions:
		a.transactions, cmd = a.transactions.Update(msg)
	case viewTxForm:
		a.txForm, cmd = a.txForm.Update(msg)
	case viewBudgets:
		a.budgets, cmd = a.budgets.Update(msg)
	case viewBudgetForm:
		a.budgetForm, cmd = a.budgetForm.Update(msg)
	case viewCategories:
		a.categories, cmd = a.categories.Update(msg)
	case viewProfile:
		a.profile, cmd = a.profile.Update(msg)
	}
	return a, cmd
}

// handleGlobalKey processes keys that are not owned by the current view.
func (a App) handleGlobalKey(msg tea.KeyMsg) (bool, App, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return true, a, tea.Quit
	}

	if a.helpOpen {
		switch key {
		case "q":
			return true, a, tea.Quit
		case "h", "?", "esc":
			a.helpOpen = false
		}
		return true, a, nil
	}

	switch a.view {
	case viewLogin:
		if key == "ctrl+n" {
			a.view = viewRegister
			return true, a, nil
		}
		if key == "esc" {
			return true, a, tea.Quit
		}
	case viewRegister:
		if key == "esc" {
			a.view = viewLogin
			return true, a, nil
		}
	case viewTxForm:
		if key == "esc" && !a.txForm.submitting {
			a.view = viewTransactions
			return true, a, nil
		}
	case viewBudgetForm:
		if key == "esc" && !a.budgetForm.submitting {
			a.view = viewBudgets
			return true, a, nil
		}
	}

	if a.isEditing() {
		return false, a, nil
	}

	switch key {
	case "q":
		return true, a, tea.Quit
	case "h", "?":
		a.helpOpen = true
		return true, a, nil
	case "1", "2", "3", "4", "5":
		next, cmd := a.switchTo(tabs[key[0]-'1'].v)
		return true, next, cmd
	}
	return false, a, nil
}

// switchTo shows v, reloading list views.
func (a App) switchTo(v view) (App, tea.Cmd) {
	if a.view == v {
		return a, nil
	}
	a.view = v
	var cmd tea.Cmd
	switch v {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.reload()
	case viewTransactions:
		a.transactions, cmd = a.transactions.reload()
	case viewBudgets:
		a.budgets, cmd = a.budgets.reload()
	case viewCategories:
		a.categories, cmd = a.categories.reload()
	}
	return a, cmd
}

func (a App) isEditing() bool {
	switch a.view {
	case viewLogin, viewRegister, viewTxForm, viewBudgetForm:
		return true
	case viewTransactions:
		return a.transactions.confirmDelete
	case viewBudgets:
		return a.budgets.confirmDelete
	case viewCategories:
		return a.categories.editing()
	case viewProfile:
		return a.profile.editing
	}
	return false
}

type tabEntry struct {
	key  string
	name string
	v    view
}

var tabs = []tabEntry{
	{"1", "Dashboard", viewDashboard},
	{"2", "Transactions", viewTransactions},
	{"3", "Budgets", viewBudgets},
	{"4", "Categories", viewCategories},
	{"5", "Profile", viewProfile},
}

// activeTab maps form views to the tab they belong to.
func (a App) activeTab() view {
	switch a.view {
	case viewTxForm:
		return viewTransactions
	case viewBudgetForm:
		return viewBudgets
	}
	return a.view
}

func center(s string, width int) string {
	pad := max(0, (width-lipgloss.Width(s))/2)
	return strings.Repeat(" ", pad) + s
}

func (a App) View() string {
	header := center(renderShimmerLogo(a.frame), a.width) + "\n"
	if u, ok := a.session.User(); ok {
		header += center(metaStyle.Render(u.DisplayName()), a.width)
	} else if a.session.IsAuthenticated() {
		header += center(metaStyle.Render("logged in"), a.width)
	}

	var tabBar strings.Builder
	if a.session.IsAuthenticated() {
		colWidth := a.width / len(tabs)
		active := a.activeTab()
		for _, t := range tabs {
			var label string
			if t.v == active {
				label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
			} else {
				label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
			}
			labelWidth := lipgloss.Width(label)
			leftPad := max(0, (colWidth-labelWidth)/2)
			rightPad := max(0, colWidth-labelWidth-leftPad)
			tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
		}
	}

	var body, help string
	tabsHelp := helpEntry("1-5", "tabs") + " "
	tail := "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
	switch a.view {
	case viewLogin:
		body = a.login.View()
		help = helpBar("tab", "next", "enter", "log in", "ctrl+n", "register", "esc", "quit")
	case viewRegister:
		body = a.register.View()
		help = helpBar("tab", "next", "ctrl+s", "create", "esc", "back")
	case viewDashboard:
		body = a.dashboard.View()
		help = " " + tabsHelp + a.dashboard.helpKeys() + tail
	case viewTransactions:
		body = a.transactions.View()
		help = " " + tabsHelp + a.transactions.helpKeys() + tail
	case viewTxForm:
		body = a.txForm.View()
		help = helpBar("tab", "next", "←/→", "pick", "ctrl+s", "save", "esc", "cancel")
	case viewBudgets:
		body = a.budgets.View()
		help = " " + tabsHelp + a.budgets.helpKeys() + tail
	case viewBudgetForm:
		body = a.budgetForm.View()
		help = helpBar("tab", "next", "←/→", "pick", "ctrl+s", "save", "esc", "cancel")
	case viewCategories:
		body = a.categories.View()
		help = " " + tabsHelp + a.categories.helpKeys() + tail
	case viewProfile:
		body = a.profile.View()
		help = " " + tabsHelp + a.profile.helpKeys() + tail
	}

	if a.helpOpen {
		body = helpView(a.apiURL)
		help = helpBar("esc", "close", "q", "quit")
	}

	body = strings.TrimRight(truncateToHeight(body, a.bodyHeight()), "\n")
	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabBar.String(), body, help)
}
