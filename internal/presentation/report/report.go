// Package report renders a compiled system as a markdown summary.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"gonum.org/v1/gonum/floats"

	"github.com/aretw0/galvani/internal/presentation/tui"
	"github.com/aretw0/galvani/pkg/discretise"
	"github.com/aretw0/galvani/pkg/model"
)

// Markdown describes sys, compiled from m: sizes, the state layout and the
// equation of every unknown.
func Markdown(m *model.Model, sys *discretise.System) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", sys.Name)

	differential := sys.Differential()
	fmt.Fprintf(&sb, "- **Submodels**: %s\n", strings.Join(m.Submodels, ", "))
	fmt.Fprintf(&sb, "- **Published variables**: %d\n", m.Variables.Len())
	fmt.Fprintf(&sb, "- **State size**: %d (%d differential, %d algebraic)\n", sys.Len(), differential, sys.Len()-differential)
	if norm, err := sys.Norm(0, sys.Y0); err == nil {
		fmt.Fprintf(&sb, "- **Residual norm at t=0**: %.6g\n", norm)
	} else {
		fmt.Fprintf(&sb, "- **Residual norm at t=0**: unavailable (%v)\n", err)
	}

	sb.WriteString("\n## State layout\n\n")
	sb.WriteString("| Variable | Domain | Slice | Kind | y0 |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, e := range sys.Layout.Entries {
		kind := "algebraic"
		if e.Differential {
			kind = "differential"
		}
		domain := strings.Join(e.Domain, ", ")
		if domain == "" {
			domain = "-"
		}
		fmt.Fprintf(&sb, "| %s | %s | %d:%d | %s | %s |\n", cell(e.Variable), cell(domain), e.Start, e.Stop, kind, valueRange(e.Y0))
	}

	sb.WriteString("\n## Equations\n\n")
	for v, expr := range m.RHS.All() {
		fmt.Fprintf(&sb, "- `d(%s)/dt = %s`\n", v.Name(), expr)
	}
	for v, expr := range m.Algebraic.All() {
		fmt.Fprintf(&sb, "- `0 = %s` (for %s)\n", expr, v.Name())
	}
	return sb.String()
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func valueRange(y []float64) string {
	if len(y) == 0 {
		return "-"
	}
	lo, hi := floats.Min(y), floats.Max(y)
	if lo == hi {
		return fmt.Sprintf("%.6g", lo)
	}
	return fmt.Sprintf("%.6g .. %.6g", lo, hi)
}

// Write prints markdown to w, rendered with glamour when w is a terminal.
func Write(w io.Writer, markdown string) error {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		_, err := io.WriteString(w, markdown)
		return err
	}

	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		width = 0
	}
	render, err := tui.NewRenderer(width)
	if err != nil {
		return err
	}
	out, err := render(markdown)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
