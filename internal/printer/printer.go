// Package printer writes human-facing command output with consistent
// styling. Commands fetch the printer from the context with Ctx.
package printer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/colonyops/tracklog/internal/core/styles"
)

type ctxKey struct{}

// Printer writes styled lines to an output and an error stream.
type Printer struct {
	out io.Writer
	err io.Writer
}

// New creates a Printer. Errors and warnings go to errw.
func New(out, errw io.Writer) *Printer {
	return &Printer{out: out, err: errw}
}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Printer) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Ctx returns the Printer stored in ctx, or one bound to stdout/stderr.
func Ctx(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return New(os.Stdout, os.Stderr)
}

// Out returns the output writer, for tables and JSON.
func (p *Printer) Out() io.Writer { return p.out }

// Printf writes an unstyled line.
func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

// Section writes a header line.
func (p *Printer) Section(title string) {
	_, _ = fmt.Fprintln(p.out, styles.CommandHeaderStyle.Render(title))
}

// Successf writes a line prefixed with a check mark.
func (p *Printer) Successf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, styles.SuccessStyle.Render("✔")+" "+fmt.Sprintf(format, args...))
}

// Infof writes a muted informational line.
func (p *Printer) Infof(format string, args ...any) {
	_, _ = fmt.Fprintln(p.out, styles.TextMutedStyle.Render("•")+" "+fmt.Sprintf(format, args...))
}

// Warnf writes a warning line to the error stream.
func (p *Printer) Warnf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.err, styles.WarningStyle.Render("!")+" "+fmt.Sprintf(format, args...))
}

// Errorf writes an error line to the error stream.
func (p *Printer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintln(p.err, styles.ErrorStyle.Render("✘")+" "+fmt.Sprintf(format, args...))
}
