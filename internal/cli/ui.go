package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorRed   = lipgloss.Color("167")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleFailure = lipgloss.NewStyle().Foreground(colorRed)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconFailure = "✗"
	iconArrow   = "→"
)

// printer writes styled status lines to a command's output.
type printer struct {
	w io.Writer
}

func (p printer) title(s string) {
	fmt.Fprintln(p.w, styleTitle.Render(s))
}

func (p printer) success(format string, args ...any) {
	fmt.Fprintln(p.w, styleSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func (p printer) failure(format string, args ...any) {
	fmt.Fprintln(p.w, styleFailure.Render(iconFailure)+" "+fmt.Sprintf(format, args...))
}

// file prints an output file line.
func (p printer) file(path string) {
	fmt.Fprintln(p.w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

func (p printer) keyValue(key, value string) {
	fmt.Fprintln(p.w, styleKey.Render(key)+" "+styleValue.Render(value))
}

// row prints cells padded to the given widths.
func (p printer) row(widths []int, cells ...string) {
	line := ""
	for i, c := range cells {
		style := lipgloss.NewStyle()
		if i < len(widths) {
			style = style.Width(widths[i])
		}
		line += style.Render(c)
	}
	fmt.Fprintln(p.w, line)
}
