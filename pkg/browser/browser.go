package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// ErrTimeout is returned by Session.WaitPresent when the element did not
// appear within the requested duration.
var ErrTimeout = errors.New("timed out waiting for element")

type By int

const (
	ByName By = iota
	ByTag
)

func (b By) String() string {
	switch b {
	case ByName:
		return "name"
	case ByTag:
		return "tag"
	default:
		return fmt.Sprintf("By(%d)", int(b))
	}
}

// Locator identifies a single element on the page.
type Locator struct {
	By    By
	Value string
}

func Name(name string) Locator {
	return Locator{By: ByName, Value: name}
}

func Tag(tag string) Locator {
	return Locator{By: ByTag, Value: tag}
}

// Selector renders the locator as a CSS selector.
func (l Locator) Selector() string {
	if l.By == ByName {
		return fmt.Sprintf("[name=%q]", l.Value)
	}
	return l.Value
}

func (l Locator) String() string {
	return l.By.String() + "=" + l.Value
}

// Driver starts browser sessions.
type Driver interface {
	Start(ctx context.Context) (Session, error)
}

// Session is one open browser. Every call may fail; Close must be called
// exactly once when the caller is done with it.
type Session interface {
	Navigate(url string) error
	WaitPresent(loc Locator, timeout time.Duration) error
	Clear(loc Locator) error
	SendKeys(loc Locator, text string) error
	// Submit presses Enter in the element.
	Submit(loc Locator) error
	// PageSource returns the rendered HTML of the whole document.
	PageSource() (string, error)
	SaveScreenshot(path string) error
	Close() error
}
