package ui

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/savioxavier/termlink"

	"github.com/integrail/snapsearch/pkg/search"
)

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF88")).Background(lipgloss.Color("#444444"))
	labelStyle    = lipgloss.NewStyle().Width(20)
	siteStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	buttonStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#5555AA")).Padding(0, 2)
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dialogStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(72)
	infoStyle     = dialogStyle.BorderForeground(lipgloss.Color("2"))
	warningStyle  = dialogStyle.BorderForeground(lipgloss.Color("3"))
	errorStyle    = dialogStyle.BorderForeground(lipgloss.Color("#FF3333"))
	dialogTitle   = lipgloss.NewStyle().Bold(true)
	dialogDismiss = hintStyle.Render("press any key to continue")
)

// Searcher runs one search. *search.Orchestrator implements it.
type Searcher interface {
	Execute(ctx context.Context, term, siteName string) search.Outcome
}

type dialogKind int

const (
	noDialog dialogKind = iota
	infoDialog
	warningDialog
	errorDialog
)

type dialog struct {
	kind  dialogKind
	title string
	text  string
}

type outcomeMsg struct {
	outcome search.Outcome
}

// Form is the interactive search form: a term input, a site selector and a
// search trigger. Outcomes are shown as dialogs until dismissed.
type Form struct {
	ctx        context.Context
	searcher   Searcher
	sites      []string
	siteIdx    int
	term       textinput.Model
	loader     spinner.Model
	inProgress bool
	dialog     dialog
}

func NewForm(ctx context.Context, searcher Searcher, sites []string, defaultSite string) *Form {
	ti := textinput.New()
	ti.Placeholder = "search term"
	ti.CharLimit = 256
	ti.Width = 40
	ti.Prompt = "┃ "
	ti.Focus()

	return &Form{
		ctx:      ctx,
		searcher: searcher,
		sites:    sites,
		siteIdx:  max(lo.IndexOf(sites, defaultSite), 0),
		term:     ti,
		loader: spinner.New(
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("205"))),
			spinner.WithSpinner(spinner.Dot),
		),
	}
}

// Site returns the selected site name, or "" when there is nothing to select.
func (m *Form) Site() string {
	if len(m.sites) == 0 {
		return ""
	}
	return m.sites[m.siteIdx]
}

func (m *Form) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case outcomeMsg:
		m.inProgress = false
		m.dialog = outcomeDialog(msg.outcome)
		return m, nil
	case spinner.TickMsg:
		if !m.inProgress {
			return m, nil
		}
		var cmd tea.Cmd
		m.loader, cmd = m.loader.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if m.inProgress {
			return m, nil
		}
		if m.dialog.kind != noDialog {
			m.dialog = dialog{}
			return m, nil
		}
		switch msg.Type {
		case tea.KeyUp:
			m.cycleSite(-1)
			return m, nil
		case tea.KeyDown, tea.KeyTab:
			m.cycleSite(1)
			return m, nil
		case tea.KeyEnter:
			return m, m.submit()
		}
	}

	var cmd tea.Cmd
	m.term, cmd = m.term.Update(msg)
	return m, cmd
}

func (m *Form) cycleSite(delta int) {
	if len(m.sites) == 0 {
		return
	}
	m.siteIdx = (m.siteIdx + delta + len(m.sites)) % len(m.sites)
}

func (m *Form) submit() tea.Cmd {
	term, site := m.term.Value(), m.Site()
	if strings.TrimSpace(term) == "" || site == "" {
		m.dialog = dialog{kind: warningDialog, title: "Input Error", text: search.InputWarning}
		return nil
	}
	m.inProgress = true
	return tea.Batch(m.loader.Tick, m.search(term, site))
}

func (m *Form) search(term, site string) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg{outcome: m.searcher.Execute(m.ctx, term, site)}
	}
}

func outcomeDialog(o search.Outcome) dialog {
	if !o.Succeeded() {
		return dialog{kind: errorDialog, title: "Error", text: o.Message}
	}
	target := o.ScreenshotPath
	if abs, err := filepath.Abs(target); err == nil {
		target = abs
	}
	return dialog{
		kind:  infoDialog,
		title: "Success",
		text: "Search completed successfully. Screenshot saved at " +
			termlink.ColorLink(o.ScreenshotPath, "file://"+target, "italic green") + ".",
	}
}

func (m *Form) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(" Search a website and capture the results ") + "\n\n")
	b.WriteString(labelStyle.Render("Enter search term:") + m.term.View() + "\n")
	b.WriteString(labelStyle.Render("Select website:") + siteStyle.Render("◀ "+m.Site()+" ▶") + " " + hintStyle.Render("(↑/↓/Tab)") + "\n\n")

	switch {
	case m.inProgress:
		b.WriteString(m.loader.View() + " Searching " + m.Site() + "...")
	case m.dialog.kind != noDialog:
		style := map[dialogKind]lipgloss.Style{
			infoDialog:    infoStyle,
			warningDialog: warningStyle,
			errorDialog:   errorStyle,
		}[m.dialog.kind]
		b.WriteString(style.Render(dialogTitle.Render(m.dialog.title) + "\n" + m.dialog.text + "\n" + dialogDismiss))
	default:
		b.WriteString(buttonStyle.Render("Search") + " " + hintStyle.Render("(Enter; Esc to quit)"))
	}
	return b.String() + "\n\n"
}
