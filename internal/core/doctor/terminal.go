package doctor

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/term"
)

// Minimum terminal size for a usable card view.
const (
	minTermWidth  = 40
	minTermHeight = 12
)

// Package-level variables to allow test overrides.
var (
	isTerminalFunc = term.IsTerminal
	termSizeFunc   = term.GetSize
)

// TerminalCheck verifies that stdout is an interactive terminal large
// enough to render the card view.
type TerminalCheck struct{}

// NewTerminalCheck creates a new terminal check.
func NewTerminalCheck() *TerminalCheck {
	return &TerminalCheck{}
}

func (c *TerminalCheck) Name() string {
	return "Terminal"
}

func (c *TerminalCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	fd := int(os.Stdout.Fd())
	if !isTerminalFunc(fd) {
		result.Items = append(result.Items, CheckItem{
			Label:  "stdout",
			Status: StatusWarn,
			Detail: "not a terminal",
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "stdout",
		Status: StatusPass,
		Detail: "interactive terminal",
	})

	w, h, err := termSizeFunc(fd)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "size",
			Status: StatusWarn,
			Detail: fmt.Sprintf("cannot determine: %v", err),
		})
		return result
	}

	if w < minTermWidth || h < minTermHeight {
		result.Items = append(result.Items, CheckItem{
			Label:  "size",
			Status: StatusWarn,
			Detail: fmt.Sprintf("%dx%d is below the %dx%d minimum for the card view", w, h, minTermWidth, minTermHeight),
		})
		return result
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "size",
		Status: StatusPass,
		Detail: fmt.Sprintf("%dx%d", w, h),
	})
	return result
}
