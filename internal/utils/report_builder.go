package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ReportBuilder provides a fluent interface for building plain text reports
type ReportBuilder struct {
	lines     []string
	separator string
	width     int
}

// NewReportBuilder creates a new report builder
func NewReportBuilder() *ReportBuilder {
	return &ReportBuilder{
		separator: "=",
		width:     40,
	}
}

// WithSeparator sets the separator character
func (rb *ReportBuilder) WithSeparator(sep string) *ReportBuilder {
	if sep != "" {
		rb.separator = sep
	}
	return rb
}

// WithWidth sets the separator width
func (rb *ReportBuilder) WithWidth(width int) *ReportBuilder {
	rb.width = width
	return rb
}

// Header adds a title underlined by a separator
func (rb *ReportBuilder) Header(text string) *ReportBuilder {
	rb.lines = append(rb.lines, text, rb.rule())
	return rb
}

// Section adds a blank line and a section title
func (rb *ReportBuilder) Section(title string) *ReportBuilder {
	rb.lines = append(rb.lines, "", title)
	return rb
}

// AddLine adds a single line
func (rb *ReportBuilder) AddLine(text string) *ReportBuilder {
	rb.lines = append(rb.lines, text)
	return rb
}

// AddBullet adds an indented bulleted line
func (rb *ReportBuilder) AddBullet(text string) *ReportBuilder {
	rb.lines = append(rb.lines, "  • "+text)
	return rb
}

// AddKeyValues adds "key: value" lines with the values aligned. Keys are
// written in the order given.
func (rb *ReportBuilder) AddKeyValues(pairs ...[2]string) *ReportBuilder {
	keyWidth := 0
	for _, p := range pairs {
		keyWidth = max(keyWidth, utf8.RuneCountInString(p[0]))
	}
	for _, p := range pairs {
		pad := strings.Repeat(" ", keyWidth-utf8.RuneCountInString(p[0]))
		rb.lines = append(rb.lines, fmt.Sprintf("%s:%s %s", p[0], pad, p[1]))
	}
	return rb
}

// AddSeparator adds a separator line
func (rb *ReportBuilder) AddSeparator() *ReportBuilder {
	rb.lines = append(rb.lines, rb.rule())
	return rb
}

func (rb *ReportBuilder) rule() string {
	return strings.Repeat(rb.separator, rb.width)
}

// Build returns the report with a trailing newline
func (rb *ReportBuilder) Build() string {
	if len(rb.lines) == 0 {
		return ""
	}
	return strings.Join(rb.lines, "\n") + "\n"
}
