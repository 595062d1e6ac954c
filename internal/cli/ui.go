package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Status lines go to stdout; logs and the spinner go to stderr so that
// `--json` output and redirected listings stay clean.
var stdout io.Writer = os.Stdout

// =============================================================================
// Palette & Styles
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // teal
	colorGood   = lipgloss.Color("35")  // green
	colorWarn   = lipgloss.Color("220") // amber
	colorBad    = lipgloss.Color("167") // soft red
	colorCmd    = lipgloss.Color("75")  // light blue
	colorBright = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	// StyleTitle renders pattern names and headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorFaint)
	// StyleValue renders paths, addresses and other values.
	StyleValue = lipgloss.NewStyle().Foreground(colorBright)
	// StyleWarning renders warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleCommand     = lipgloss.NewStyle().Foreground(colorCmd)
	styleKey         = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
)

// =============================================================================
// Status Lines
// =============================================================================

// status is a line prefix: an icon in its own color.
type status struct {
	icon  string
	style lipgloss.Style
}

var (
	statusOK   = status{"✓", lipgloss.NewStyle().Foreground(colorGood)}
	statusFail = status{"✗", lipgloss.NewStyle().Foreground(colorBad)}
	statusWarn = status{"!", lipgloss.NewStyle().Foreground(colorWarn)}
	statusInfo = status{"›", lipgloss.NewStyle().Foreground(colorMuted)}
)

func (s status) println(msg string) {
	fmt.Fprintln(stdout, s.style.Render(s.icon)+" "+msg)
}

func printSuccess(format string, args ...any) { statusOK.println(fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { statusFail.println(fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { statusInfo.println(fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	statusWarn.println(StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written (or listed) file path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printPatternStats prints "kind · on/total mirrors (pct) · cached|fresh".
func printPatternStats(kind string, onCount, total int, cached bool) {
	parts := []string{StyleDim.Render(kind)}
	if total > 0 {
		pct := 100 * float64(onCount) / float64(total)
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d/%d mirrors (%.1f%%)", onCount, total, pct)))
	}
	if cached {
		parts = append(parts, statusOK.style.Render("cached"))
	} else {
		parts = append(parts, statusInfo.style.Render("fresh"))
	}
	fmt.Fprintln(stdout, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
