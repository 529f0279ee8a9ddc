package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/naveenspark/fintrack/pkg/client"
	"github.com/naveenspark/fintrack/pkg/domain"
)

// dashboardRange selects the reporting window.
type dashboardRange int

const (
	rangeMonth dashboardRange = iota
	rangeYear
)

func (r dashboardRange) String() string {
	if r == rangeYear {
		return "this year"
	}
	return "this month"
}

type dashboardModel struct {
	client   *client.Client
	today    domain.Date
	rng      dashboardRange
	summary  *domain.Summary
	spending []domain.CategorySpending
	trends   []domain.TrendPoint
	loading  bool
	loaded   bool
	status   string
	isErr    bool
	width    int
	height   int
}

// dashboardLoadedMsg carries the three dashboard reports.
type dashboardLoadedMsg struct {
	rng      dashboardRange
	summary  *domain.Summary
	spending []domain.CategorySpending
	trends   []domain.TrendPoint
	err      error
}

// copyDoneMsg reports a clipboard write.
type copyDoneMsg struct{ err error }

func newDashboardModel(c *client.Client) dashboardModel {
	return dashboardModel{client: c, today: domain.Today()}
}

func (m dashboardModel) bounds() (domain.Date, domain.Date) {
	if m.rng == rangeYear {
		return yearRange(m.today)
	}
	return monthRange(m.today)
}

func (m dashboardModel) period() domain.PeriodType {
	if m.rng == rangeYear {
		return domain.PeriodMonthly
	}
	return domain.PeriodDaily
}

// reload marks the model loading and returns the fetch command.
func (m dashboardModel) reload() (dashboardModel, tea.Cmd) {
	m.loading = true
	m.status = ""
	return m, m.load()
}

// load fetches the summary, spending and trend reports concurrently.
func (m dashboardModel) load() tea.Cmd {
	c := m.client
	rng := m.rng
	start, end := m.bounds()
	period := m.period()
	return func() tea.Msg {
		msg := dashboardLoadedMsg{rng: rng}
		g, ctx := errgroup.WithContext(context.Background())
		g.Go(func() error {
			s, err := c.Summary(ctx, start, end)
			msg.summary = s
			return err
		})
		g.Go(func() error {
			sp, err := c.SpendingByCategory(ctx, start, end)
			msg.spending = sp
			return err
		})
		g.Go(func() error {
			tr, err := c.Trends(ctx, start, end, period)
			msg.trends = tr
			return err
		})
		msg.err = g.Wait()
		return msg
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		if msg.rng != m.rng {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.status = errText(msg.err)
			m.isErr = true
			return m, nil
		}
		m.loaded = true
		m.summary = msg.summary
		m.spending = msg.spending
		m.trends = msg.trends
		m.status = ""
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
		switch msg.String() {
		case "r":
			return m.reload()
		case "m":
			if m.rng == rangeMonth {
				m.rng = rangeYear
			} else {
				m.rng = rangeMonth
			}
			return m.reload()
		case "c":
			if m.summary == nil {
				return m, nil
			}
			text := m.summaryText()
			return m, func() tea.Msg {
				return copyDoneMsg{err: clipboard.WriteAll(text)}
			}
		}
	}
	return m, nil
}

func (m dashboardModel) summaryText() string {
	start, end := m.bounds()
	s := m.summary
	return fmt.Sprintf("%s to %s: income %s, expenses %s, net %s",
		start, end, formatMoney(s.TotalIncome), formatMoney(s.TotalExpenses), formatSigned(s.NetBalance))
}

func (m dashboardModel) View() string {
	var b strings.Builder
	start, end := m.bounds()
	fmt.Fprintf(&b, "\n  %s  %s\n\n",
		sectionHeaderStyle.Render("Overview"), dimStyle.Render(fmt.Sprintf("%s (%s to %s)", m.rng, start, end)))

	switch {
	case m.loading && !m.loaded:
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
	case m.summary != nil:
		s := m.summary
		fmt.Fprintf(&b, "  %s %s   %s %s   %s %s\n",
			metaStyle.Render("income"), incomeStyle.Render(formatMoney(s.TotalIncome)),
			metaStyle.Render("expenses"), expenseStyle.Render(formatMoney(s.TotalExpenses)),
			metaStyle.Render("net"), signedStyle(s.NetBalance).Render(formatSigned(s.NetBalance)))
	}

	if len(m.spending) > 0 {
		b.WriteString("\n  " + sectionHeaderStyle.Render("Spending by category") + "\n")
		top := m.spending[0].Amount
		barWidth := max(10, min(40, m.width-40))
		for _, sp := range m.spending {
			fmt.Fprintf(&b, "  %s %12s  %s\n",
				normalStyle.Render(padRight(sp.Category, 18)),
				expenseStyle.Render(formatMoney(sp.Amount)),
				barStyle.Render(bar(sp.Amount, top, barWidth)))
		}
	} else if m.loaded {
		b.WriteString("\n  " + dimStyle.Render("no spending in this period") + "\n")
	}

	if len(m.trends) > 0 {
		b.WriteString("\n  " + sectionHeaderStyle.Render("Income vs expenses") + "\n")
		for _, p := range m.trends {
			fmt.Fprintf(&b, "  %s %12s %12s %13s\n",
				metaStyle.Render(padRight(p.Period, 10)),
				incomeStyle.Render(formatMoney(p.Income)),
				expenseStyle.Render(formatMoney(p.Expense)),
				signedStyle(p.Net()).Render(formatSigned(p.Net())))
		}
	}

	if m.status != "" {
		b.WriteString("\n  " + renderStatus(m.status, m.isErr) + "\n")
	}
	return b.String()
}

func (m dashboardModel) helpKeys() string {
	return helpBar("m", "month/year", "r", "reload", "c", "copy summary")
}
