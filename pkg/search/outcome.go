package search

import (
	"fmt"

	"github.com/pkg/errors"
)

// Stage classifies where an invocation failed. The zero value means it did
// not fail.
type Stage int

const (
	StageNone Stage = iota
	InvalidInput
	UnknownSite
	StartupFailure
	SearchFailure
	ResultVerificationFailure
	CaptureFailure
	CleanupFailure
)

var stageNames = map[Stage]string{
	StageNone:                 "None",
	InvalidInput:              "InvalidInput",
	UnknownSite:               "UnknownSite",
	StartupFailure:            "StartupFailure",
	SearchFailure:             "SearchFailure",
	ResultVerificationFailure: "ResultVerificationFailure",
	CaptureFailure:            "CaptureFailure",
	CleanupFailure:            "CleanupFailure",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Outcome is the single result of one Execute call: either a success carrying
// the screenshot path, or a failure carrying the stage and a message.
type Outcome struct {
	Stage          Stage  `json:"stage,omitempty" yaml:"stage,omitempty"`
	Message        string `json:"message,omitempty" yaml:"message,omitempty"`
	ScreenshotPath string `json:"screenshotPath,omitempty" yaml:"screenshotPath,omitempty"`
	cause          error
}

func Success(screenshotPath string) Outcome {
	return Outcome{ScreenshotPath: screenshotPath}
}

func Failure(stage Stage, err error) Outcome {
	return Outcome{Stage: stage, Message: err.Error(), cause: err}
}

func (o Outcome) Succeeded() bool {
	return o.Stage == StageNone
}

// Err returns nil for a success and a *StageError otherwise.
func (o Outcome) Err() error {
	if o.Succeeded() {
		return nil
	}
	return &StageError{Stage: o.Stage, Message: o.Message, cause: o.cause}
}

func (o Outcome) String() string {
	if o.Succeeded() {
		return fmt.Sprintf("Search completed successfully. Screenshot saved at %s.", o.ScreenshotPath)
	}
	return fmt.Sprintf("%s: %s", o.Stage, o.Message)
}

type StageError struct {
	Stage   Stage
	Message string
	cause   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

func (e *StageError) Cause() error {
	return e.cause
}

func (e *StageError) Unwrap() error {
	return e.cause
}

// StageOf returns the stage of err if it is a *StageError, StageNone otherwise.
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return StageNone
}
