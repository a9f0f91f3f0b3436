package demo

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

const bannerWidth = 78

// ConsoleReporter prints steps as plain text blocks
type ConsoleReporter struct {
	w io.Writer
}

// NewConsoleReporter writes step blocks to w
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w}
}

// OnStep prints the step heading, a rule and the step message
func (c *ConsoleReporter) OnStep(_ context.Context, step Step) {
	fmt.Fprintf(c.w, "STEP %d: %s\n", step.Number, step.Name)
	fmt.Fprintln(c.w, strings.Repeat("-", bannerWidth))
	fmt.Fprintln(c.w, step.Message)
	fmt.Fprintln(c.w)
}

// Header prints the opening banner
func (c *ConsoleReporter) Header() {
	fmt.Fprint(c.w, "\n\n")
	WriteBanner(c.w, "", "AIMM Toy Demonstration - Synthetic Data Workflow", "")
	fmt.Fprintln(c.w)
}

// Footer prints the closing banner
func (c *ConsoleReporter) Footer() {
	WriteBanner(c.w,
		"",
		"Demonstration Complete",
		"",
		"Remember: This is entirely synthetic and illustrative.",
		"It demonstrates the schema, not the AIMM model.",
		"",
	)
	fmt.Fprintln(c.w)
}

// WriteBanner draws a double-line box with each line centered
func WriteBanner(w io.Writer, lines ...string) {
	fmt.Fprintln(w, "╔"+strings.Repeat("═", bannerWidth)+"╗")
	for _, line := range lines {
		fmt.Fprintln(w, "║"+center("  "+line, bannerWidth)+"║")
	}
	fmt.Fprintln(w, "╚"+strings.Repeat("═", bannerWidth)+"╝")
}

func center(s string, width int) string {
	if strings.TrimSpace(s) == "" {
		return strings.Repeat(" ", width)
	}
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}
