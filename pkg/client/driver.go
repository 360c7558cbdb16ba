package client

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/integrail/snapsearch/pkg/browser"
)

const screenshotName = "search"

// ZapReporter forwards program progress to log at debug level.
func ZapReporter(log *zap.Logger) Reporter {
	return zapReporter{log: log}
}

type zapReporter struct {
	log *zap.Logger
}

func (r zapReporter) Report(msg string) {
	r.log.Debug(msg)
}

type driver struct {
	cfg      Config
	reporter Reporter
}

// NewDriver returns a browser.Driver whose sessions run on a remote
// Browser-as-a-Service backend.
func NewDriver(cfg Config, reporter Reporter) browser.Driver {
	return &driver{cfg: cfg, reporter: reporter}
}

func (d *driver) Start(ctx context.Context) (browser.Session, error) {
	p, err := NewProgram(ctx, d.cfg, d.reporter)
	if err != nil {
		return nil, err
	}
	return &session{program: p}, nil
}

type session struct {
	program Program
}

func (s *session) Navigate(url string) error {
	return s.program.Navigate(url)
}

func (s *session) WaitPresent(loc browser.Locator, timeout time.Duration) error {
	return s.program.WaitReady(loc.Selector(), timeout)
}

func (s *session) Clear(loc browser.Locator) error {
	return s.program.Clear(loc.Selector())
}

func (s *session) SendKeys(loc browser.Locator, text string) error {
	if err := s.program.Click(loc.Selector()); err != nil {
		return err
	}
	return s.program.SendKeys(text)
}

func (s *session) Submit(loc browser.Locator) error {
	return s.program.Submit(loc.Selector())
}

func (s *session) PageSource() (string, error) {
	return s.program.OuterHtml("html")
}

func (s *session) SaveScreenshot(path string) error {
	return s.program.SaveScreenshot(screenshotName, path)
}

func (s *session) Close() error {
	return s.program.Stop()
}
