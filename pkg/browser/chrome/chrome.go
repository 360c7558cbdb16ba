package chrome

import (
	"context"
	"os"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/integrail/snapsearch/pkg/browser"
)

type Options struct {
	Headless bool
	ExecPath string
	Width    int
	Height   int
	// Flags are passed to the Chrome command line as --name=value.
	Flags map[string]string
}

type driver struct {
	opts Options
}

// NewDriver returns a browser.Driver that launches a local Chrome for each
// session and talks to it over the DevTools protocol.
func NewDriver(opts Options) browser.Driver {
	return &driver{opts: opts}
}

func (d *driver) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", d.opts.Headless),
		chromedp.WindowSize(lo.If(d.opts.Width > 0, d.opts.Width).Else(1920), lo.If(d.opts.Height > 0, d.opts.Height).Else(1080)),
	)
	if d.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(d.opts.ExecPath))
	}
	for name, value := range d.opts.Flags {
		opts = append(opts, chromedp.Flag(name, flagValue(value)))
	}
	return opts
}

// flagValue maps "true"/"false"/"" to booleans so that chromedp emits bare
// switches for them.
func flagValue(v string) any {
	switch v {
	case "", "true":
		return true
	case "false":
		return false
	default:
		return v
	}
}

func (d *driver) Start(ctx context.Context) (browser.Session, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, d.allocatorOptions()...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	// the first Run launches the browser
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		allocCancel()
		return nil, errors.Wrapf(err, "failed to start chrome")
	}
	return &session{
		ctx:         tabCtx,
		cancel:      tabCancel,
		allocCancel: allocCancel,
	}, nil
}

type session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

func (s *session) Navigate(url string) error {
	if err := chromedp.Run(s.ctx, chromedp.Navigate(url)); err != nil {
		return errors.Wrapf(err, "failed to navigate to %s", url)
	}
	return nil
}

func (s *session) WaitPresent(loc browser.Locator, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	err := chromedp.Run(ctx, chromedp.WaitReady(loc.Selector(), chromedp.ByQuery))
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.Wrapf(browser.ErrTimeout, "%s not present after %s", loc, timeout)
	}
	return errors.Wrapf(err, "failed to wait for %s", loc)
}

func (s *session) Clear(loc browser.Locator) error {
	if err := chromedp.Run(s.ctx, chromedp.Clear(loc.Selector(), chromedp.ByQuery)); err != nil {
		return errors.Wrapf(err, "failed to clear %s", loc)
	}
	return nil
}

func (s *session) SendKeys(loc browser.Locator, text string) error {
	if err := chromedp.Run(s.ctx, chromedp.SendKeys(loc.Selector(), text, chromedp.ByQuery)); err != nil {
		return errors.Wrapf(err, "failed to type into %s", loc)
	}
	return nil
}

func (s *session) Submit(loc browser.Locator) error {
	if err := chromedp.Run(s.ctx, chromedp.SendKeys(loc.Selector(), kb.Enter, chromedp.ByQuery)); err != nil {
		return errors.Wrapf(err, "failed to submit %s", loc)
	}
	return nil
}

func (s *session) PageSource() (string, error) {
	var html string
	if err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", errors.Wrapf(err, "failed to read page source")
	}
	return html, nil
}

func (s *session) SaveScreenshot(path string) error {
	var buf []byte
	if err := chromedp.Run(s.ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return errors.Wrapf(err, "failed to capture screenshot")
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write screenshot to %s", path)
	}
	return nil
}

func (s *session) Close() error {
	defer s.allocCancel()
	defer s.cancel()
	if err := chromedp.Cancel(s.ctx); err != nil {
		return errors.Wrapf(err, "failed to close chrome")
	}
	return nil
}
