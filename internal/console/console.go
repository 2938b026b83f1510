// Package console prints the human-readable mirror of monitor events. Wording here is
// for operators and may differ from the log file.
package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

type Console struct {
	mu      sync.Mutex
	out     io.Writer
	healthy *color.Color
	warn    *color.Color
	err     *color.Color
	info    *color.Color
}

func New(out io.Writer) *Console {
	if out == nil {
		out = color.Output
	}
	return &Console{
		out:     out,
		healthy: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow, color.Bold),
		err:     color.New(color.FgRed),
		info:    color.New(color.FgCyan),
	}
}

func (c *Console) Healthy(format string, args ...any) {
	c.print(c.healthy, format, args...)
}

func (c *Console) Warn(format string, args ...any) {
	c.print(c.warn, "WARNING "+format, args...)
}

func (c *Console) Error(format string, args ...any) {
	c.print(c.err, "ERROR "+format, args...)
}

func (c *Console) Info(format string, args ...any) {
	c.print(c.info, format, args...)
}

func (c *Console) print(col *color.Color, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = col.Fprintln(c.out, fmt.Sprintf(format, args...))
}
