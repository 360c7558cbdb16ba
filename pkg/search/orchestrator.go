package search

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/integrail/snapsearch/pkg/browser"
	"github.com/integrail/snapsearch/pkg/sites"
)

// NoResultsMarker is the only text recognised as "the search found nothing".
// Other renderings of an empty result page are reported as success.
const NoResultsMarker = "No results found."

const DefaultWaitTimeout = 10 * time.Second

// InputWarning is shown to the operator when the term or the site is blank.
const InputWarning = "Please enter a search term and select a website."

var (
	ErrBlankInput = errors.New("blank search term or site")
	ErrNoResults  = errors.New("page reports no results")
)

type Request struct {
	Term string
	Site sites.Site
}

// ScreenshotName returns the file name a screenshot taken at t is saved under.
func ScreenshotName(t time.Time) string {
	return fmt.Sprintf("screenshot_%s.png", t.Format("20060102_150405"))
}

type Option func(o *Orchestrator)

func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) {
		o.log = log
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

func WithWaitTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		o.waitTimeout = timeout
	}
}

func WithScreenshotDir(dir string) Option {
	return func(o *Orchestrator) {
		o.screenshotDir = dir
	}
}

// Orchestrator runs the search workflow against one browser session per
// call. Calls are serialised.
type Orchestrator struct {
	sites         *sites.Registry
	driver        browser.Driver
	log           *zap.Logger
	now           func() time.Time
	waitTimeout   time.Duration
	screenshotDir string

	mu sync.Mutex
}

func New(registry *sites.Registry, driver browser.Driver, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		sites:       registry,
		driver:      driver,
		log:         zap.NewNop(),
		now:         time.Now,
		waitTimeout: DefaultWaitTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Execute searches for term on the named site and screenshots the results.
// It never returns an error or panics: every failure is folded into the
// returned Outcome.
func (o *Orchestrator) Execute(ctx context.Context, term, siteName string) Outcome {
	o.mu.Lock()
	defer o.mu.Unlock()

	log := o.log.With(zap.String("site", siteName), zap.String("term", term))
	if strings.TrimSpace(term) == "" || strings.TrimSpace(siteName) == "" {
		log.Error("Input error", zap.Stringer("stage", InvalidInput), zap.Error(ErrBlankInput))
		outcome := Failure(InvalidInput, ErrBlankInput)
		outcome.Message = InputWarning
		return outcome
	}
	site, err := o.sites.Lookup(siteName)
	if err != nil {
		log.Error("Error selecting website", zap.Stringer("stage", UnknownSite), zap.Error(err))
		return Failure(UnknownSite, err)
	}

	r := &run{
		Orchestrator: o,
		req:          Request{Term: term, Site: site},
		log:          log,
	}
	return r.execute(ctx)
}

type run struct {
	*Orchestrator
	req   Request
	log   *zap.Logger
	state State
}

func (r *run) enter(next State) {
	r.log.Debug("state transition", zap.Stringer("from", r.state), zap.Stringer("to", next))
	r.state = next
}

func (r *run) fail(stage Stage, err error) Outcome {
	r.enter(Failed)
	r.log.Error(err.Error(), zap.Stringer("stage", stage))
	return Failure(stage, err)
}

func (r *run) execute(ctx context.Context) (outcome Outcome) {
	r.enter(Starting)
	session, err := r.start(ctx)
	if err != nil {
		outcome = r.fail(StartupFailure, errors.Wrap(err, "Error starting WebDriver or opening website"))
		r.enter(Released)
		return outcome
	}
	r.log.Info("WebDriver started successfully.")

	defer func() {
		outcome = r.release(session, outcome)
	}()
	defer func() {
		if p := recover(); p != nil {
			outcome = r.fail(failureStage(r.state), errors.Errorf("unexpected fault: %v", p))
		}
	}()
	return r.workflow(session)
}

func (r *run) start(ctx context.Context) (session browser.Session, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("unexpected fault: %v", p)
		}
	}()
	session, err = r.driver.Start(ctx)
	if err == nil && session == nil {
		err = errors.New("driver returned no session")
	}
	return session, err
}

func (r *run) workflow(session browser.Session) Outcome {
	site := r.req.Site
	if err := session.Navigate(site.BaseURL); err != nil {
		return r.fail(StartupFailure, errors.Wrap(err, "Error starting WebDriver or opening website"))
	}
	r.log.Info(fmt.Sprintf("Website %s opened successfully.", site.BaseURL))

	r.enter(Searching)
	if err := r.submit(session, browser.Name(site.SearchField)); err != nil {
		return r.fail(SearchFailure, errors.Wrap(err, "Error performing search"))
	}
	r.log.Info(fmt.Sprintf("Search for '%s' executed on %s.", r.req.Term, site.Name))

	r.enter(Verifying)
	if err := r.verify(session); err != nil {
		return r.fail(ResultVerificationFailure, errors.Wrap(err, "Error with search results"))
	}
	r.log.Info("Search results found.")

	r.enter(Capturing)
	path := filepath.Join(r.screenshotDir, ScreenshotName(r.now()))
	if err := session.SaveScreenshot(path); err != nil {
		return r.fail(CaptureFailure, errors.Wrap(err, "Error saving screenshot"))
	}
	r.log.Info(fmt.Sprintf("Screenshot saved at %s.", path))

	r.enter(Done)
	return Success(path)
}

func (r *run) submit(session browser.Session, field browser.Locator) error {
	if err := session.WaitPresent(field, r.waitTimeout); err != nil {
		return err
	}
	if err := session.Clear(field); err != nil {
		return err
	}
	if err := session.SendKeys(field, r.req.Term); err != nil {
		return err
	}
	return session.Submit(field)
}

func (r *run) verify(session browser.Session) error {
	if err := session.WaitPresent(browser.Tag("body"), r.waitTimeout); err != nil {
		return err
	}
	html, err := session.PageSource()
	if err != nil {
		return err
	}
	if strings.Contains(html, NoResultsMarker) {
		return errors.Wrapf(ErrNoResults, "page contains %q", NoResultsMarker)
	}
	return nil
}

// release closes the session. A close error only replaces a successful
// outcome; an earlier failure is kept and the close error is just logged.
func (r *run) release(session browser.Session, outcome Outcome) Outcome {
	err := closeSession(session)
	r.enter(Released)
	if err == nil {
		r.log.Debug("WebDriver closed.")
		return outcome
	}
	err = errors.Wrap(err, "Error closing WebDriver")
	r.log.Error(err.Error(), zap.Stringer("stage", CleanupFailure))
	if !outcome.Succeeded() {
		return outcome
	}
	failure := Failure(CleanupFailure, err)
	failure.ScreenshotPath = outcome.ScreenshotPath
	return failure
}

func closeSession(session browser.Session) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("unexpected fault: %v", p)
		}
	}()
	return session.Close()
}
