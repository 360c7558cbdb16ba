package client

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/savioxavier/termlink"

	"github.com/integrail/snapsearch/pkg/client/dto"
	"github.com/integrail/snapsearch/pkg/util"
)

// Program drives one remote browser session command by command.
type Program interface {
	SessionID() string
	Navigate(url string) error
	WaitReady(selector string, timeout time.Duration) error
	Click(selector string) error
	Clear(selector string) error
	SendKeys(text string) error
	Submit(selector string) error
	OuterHtml(selector string) (string, error)
	TakeScreenshot(name string) ([]byte, error)
	SaveScreenshot(name string, fileName string) error
	Stop() error
}

type Reporter interface {
	Report(msg string)
}

type Config struct {
	UseProxy       bool     `json:"useProxy" yaml:"useProxy" mapstructure:"useProxy"`
	LocalDebug     bool     `json:"localDebug" yaml:"localDebug" mapstructure:"localDebug"`
	Url            string   `json:"url" yaml:"url" mapstructure:"url"`
	ApiKey         string   `json:"apiKey" yaml:"apiKey" mapstructure:"apiKey"`
	Timeout        string   `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	MessageTimeout string   `json:"messageTimeout" yaml:"messageTimeout" mapstructure:"messageTimeout"`
	Secrets        []string `json:"secrets" yaml:"secrets" mapstructure:"secrets"`
	Values         []string `json:"values" yaml:"values" mapstructure:"values"`
}

// NewProgram opens a session on the backend and blocks until the backend
// has announced its ID. cfg.Secrets and cfg.Values (name=value) are sent
// with every command.
func NewProgram(ctx context.Context, cfg Config, reporter Reporter) (Program, error) {
	client := NewClient(cfg.Url, cfg.ApiKey, time.Second*30)
	ctx, cancel := context.WithCancel(ctx)

	p := &program{
		client:         client,
		ctx:            ctx,
		cancel:         cancel,
		reporter:       reporter,
		messageTimeout: lo.If(cfg.MessageTimeout != "", cfg.MessageTimeout).Else("60s"),
		secrets:        util.SliceToMap(cfg.Secrets),
		values:         util.SliceToMap(cfg.Values),
	}

	ready := make(chan error, 1)
	go func() {
		defer cancel()
		res, wait, err := client.RunAsync(ctx, dto.Config{
			Browser: dto.BrowserOpts{
				Headful:          cfg.LocalDebug,
				ReturnScreenshot: lo.ToPtr(true),
				Timeout:          cfg.Timeout,
			},
			UseRandomProxy: lo.ToPtr(cfg.UseProxy),
		})
		if err != nil {
			ready <- err
			return
		}
		if res.Error != "" {
			ready <- errors.Errorf("%s", res.Error)
			return
		}
		p.sessionID = res.SessionID
		ready <- nil
		wait()
		reporter.Report(fmt.Sprintf("Session %s has been terminated", res.SessionID))
	}()

	reporter.Report("Waiting for sessionID...")
	var err error
	select {
	case err = <-ready:
	case <-ctx.Done():
		select {
		case err = <-ready:
		default:
			err = ctx.Err()
		}
	}
	if err != nil {
		cancel()
		return nil, errors.Wrapf(err, "failed to start session")
	}
	reporter.Report("Got sessionID: " + p.sessionID)

	return p, nil
}

type program struct {
	client         Client
	ctx            context.Context
	cancel         func()
	sessionID      string
	reporter       Reporter
	messageTimeout string
	secrets        map[string]string
	values         map[string]string
}

func (p *program) SessionID() string {
	return p.sessionID
}

// quote renders s as a single quoted program string literal.
func quote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`).Replace(s) + "'"
}

// call renders a program invocation, e.g. call("click", "#id") is click('#id').
func call(fn string, args ...string) string {
	return fmt.Sprintf("%s(%s)", fn, strings.Join(lo.Map(args, func(a string, _ int) string { return quote(a) }), ", "))
}

func (p *program) message(prog string) dto.BrowserMessageIn {
	return dto.BrowserMessageIn{
		SessionID: p.sessionID,
		Program:   prog,
		Secrets:   p.secrets,
		Values:    p.values,
		Timeout:   p.messageTimeout,
	}
}

func (p *program) run(msg dto.BrowserMessageIn) (*dto.BrowserMessageOut, error) {
	p.reporter.Report(fmt.Sprintf("Executing %+v...", msg.Sanitized()))
	res, err := p.client.Message(p.ctx, msg)
	p.reporter.Report(fmt.Sprintf("Got result: %v (%s), %v", lo.FromPtr(res).Value, lo.FromPtr(res).Error, err))
	if err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, errors.Errorf("%s", res.Error)
	}
	return res, nil
}

func (p *program) runProgram(prog string) (*dto.BrowserMessageOut, error) {
	return p.run(p.message(prog))
}

func (p *program) Navigate(url string) error {
	_, err := p.runProgram(call("navigate", url))
	return err
}

func (p *program) WaitReady(selector string, timeout time.Duration) error {
	msg := p.message(call("waitReady", selector))
	msg.OperationTimeout = lo.ToPtr(timeout.String())
	_, err := p.run(msg)
	return err
}

func (p *program) Click(selector string) error {
	_, err := p.runProgram(call("click", selector))
	return err
}

func (p *program) Clear(selector string) error {
	_, err := p.runProgram(call("clear", selector))
	return err
}

func (p *program) SendKeys(text string) error {
	_, err := p.runProgram(call("sendKeys", text))
	return err
}

func (p *program) Submit(selector string) error {
	_, err := p.runProgram(call("submit", selector))
	return err
}

func (p *program) OuterHtml(selector string) (string, error) {
	res, err := p.runProgram(call("outerHtml", selector))
	if err != nil {
		return "", err
	}
	html, ok := res.Value.(string)
	if !ok {
		return res.OutHTML, nil
	}
	return html, nil
}

func (p *program) TakeScreenshot(name string) ([]byte, error) {
	res, err := p.runProgram(call("takeScreenshot", name))
	if err != nil {
		return nil, err
	}
	if len(res.Screenshots[name]) == 0 {
		return nil, errors.Errorf("screenshot with name %s wasn't returned", name)
	}
	return res.Screenshots[name], nil
}

func (p *program) SaveScreenshot(name string, fileName string) error {
	screenshot, err := p.TakeScreenshot(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(fileName, screenshot, 0o644); err != nil {
		p.reporter.Report(fmt.Sprintf("failed to save %q to %s: %q", name, fileName, err.Error()))
		return errors.Wrapf(err, "failed to save screenshot to %s", fileName)
	}
	p.reporter.Report(fmt.Sprintf("%q saved to ", name) +
		termlink.ColorLink(name, fmt.Sprintf("file://%s", fileName), "italic green"))
	return nil
}

// Stop asks the backend to end the session and releases the local stream.
func (p *program) Stop() error {
	defer p.cancel()
	msg := p.message(call("log", "stop"))
	msg.StopSession = lo.ToPtr(true)
	_, err := p.run(msg)
	return err
}
