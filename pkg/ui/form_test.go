package ui

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/integrail/snapsearch/pkg/search"
	"github.com/integrail/snapsearch/pkg/sites"
)

type fakeSearcher struct {
	mu      sync.Mutex
	calls   [][2]string
	outcome search.Outcome
}

func (f *fakeSearcher) Execute(_ context.Context, term, siteName string) search.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, [2]string{term, siteName})
	return f.outcome
}

func newTestForm(outcome search.Outcome) (*Form, *fakeSearcher) {
	s := &fakeSearcher{outcome: outcome}
	r := sites.NewRegistry()
	return NewForm(context.Background(), s, r.Names(), r.Default()), s
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func typeText(m *Form, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

// run executes cmd and feeds the resulting messages back into the form,
// skipping spinner ticks.
func run(m *Form, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			run(m, c)
		}
	case outcomeMsg:
		m.Update(msg)
	}
}

func TestSiteSelectorDefaultsAndCycles(t *testing.T) {
	RegisterTestingT(t)
	m, _ := newTestForm(search.Success("x.png"))

	Expect(m.Site()).To(Equal("Python.org"))
	m.Update(key(tea.KeyDown))
	Expect(m.Site()).To(Equal("Google"))
	m.Update(key(tea.KeyUp))
	m.Update(key(tea.KeyUp))
	Expect(m.Site()).To(Equal("Bing"))
	Expect(m.View()).To(ContainSubstring("Bing"))
	m.Update(key(tea.KeyTab))
	Expect(m.Site()).To(Equal("Python.org"))
	m.Update(key(tea.KeyLeft))
	m.Update(key(tea.KeyRight))
	Expect(m.Site()).To(Equal("Python.org"))
}

func TestBlankTermShowsWarningWithoutSearching(t *testing.T) {
	RegisterTestingT(t)
	m, s := newTestForm(search.Success("x.png"))
	typeText(m, "   ")

	_, cmd := m.Update(key(tea.KeyEnter))

	Expect(cmd).To(BeNil())
	Expect(s.calls).To(BeEmpty())
	Expect(m.dialog.kind).To(Equal(warningDialog))
	Expect(m.View()).To(ContainSubstring(search.InputWarning))

	m.Update(key(tea.KeySpace))
	Expect(m.dialog.kind).To(Equal(noDialog))
}

func TestNoSitesShowsWarning(t *testing.T) {
	RegisterTestingT(t)
	s := &fakeSearcher{}
	m := NewForm(context.Background(), s, nil, "Python.org")
	typeText(m, "selenium")

	m.Update(key(tea.KeyEnter))

	Expect(s.calls).To(BeEmpty())
	Expect(m.dialog.kind).To(Equal(warningDialog))
}

func TestSuccessfulSearchShowsInfo(t *testing.T) {
	RegisterTestingT(t)
	m, s := newTestForm(search.Success("screenshot_20240101_120000.png"))
	typeText(m, "selenium")

	_, cmd := m.Update(key(tea.KeyEnter))
	Expect(cmd).NotTo(BeNil())
	Expect(m.inProgress).To(BeTrue())
	Expect(m.View()).To(ContainSubstring("Searching Python.org"))

	// input is ignored while the search runs
	m.Update(key(tea.KeyDown))
	Expect(m.Site()).To(Equal("Python.org"))

	run(m, cmd)

	Expect(s.calls).To(Equal([][2]string{{"selenium", "Python.org"}}))
	Expect(m.inProgress).To(BeFalse())
	Expect(m.dialog.kind).To(Equal(infoDialog))
	Expect(m.dialog.text).To(ContainSubstring("Search completed successfully. Screenshot saved at"))
	Expect(m.dialog.text).To(ContainSubstring("screenshot_20240101_120000.png"))
}

func TestFailedSearchShowsError(t *testing.T) {
	RegisterTestingT(t)
	outcome := search.Failure(search.ResultVerificationFailure, errors.New("Error with search results: page reports no results"))
	m, _ := newTestForm(outcome)
	m.Update(key(tea.KeyDown))
	m.Update(key(tea.KeyDown))
	m.Update(key(tea.KeyDown))
	typeText(m, "xyzxyz_no_such_term")

	_, cmd := m.Update(key(tea.KeyEnter))
	run(m, cmd)

	Expect(m.dialog.kind).To(Equal(errorDialog))
	Expect(m.View()).To(ContainSubstring("Error with search results"))
}

func TestEscQuits(t *testing.T) {
	RegisterTestingT(t)
	m, _ := newTestForm(search.Success("x.png"))

	_, cmd := m.Update(key(tea.KeyEsc))

	Expect(cmd).NotTo(BeNil())
	Expect(cmd()).To(Equal(tea.QuitMsg{}))
}
