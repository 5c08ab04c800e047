package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// MessageType selects the colour and marker of a Box
type MessageType int

const (
	InfoMessage MessageType = iota
	SuccessMessage
	WarningMessage
	ErrorMessage
	QuestionMessage
)

const (
	topLeft     = "╭"
	topRight    = "╮"
	bottomLeft  = "╰"
	bottomRight = "╯"
	horizontal  = "─"
	vertical    = "│"

	// frame is the border plus inner padding on both sides
	frame = 6
)

type boxStyle struct {
	style  lipgloss.Style
	marker string
}

var boxStyles = map[MessageType]boxStyle{
	InfoMessage:     {lipgloss.NewStyle().Foreground(lipgloss.Color("86")), "ℹ"},
	SuccessMessage:  {lipgloss.NewStyle().Foreground(lipgloss.Color("42")), "✓"},
	WarningMessage:  {lipgloss.NewStyle().Foreground(lipgloss.Color("178")), "⚠"},
	ErrorMessage:    {lipgloss.NewStyle().Foreground(lipgloss.Color("196")), "✗"},
	QuestionMessage: {lipgloss.NewStyle().Foreground(lipgloss.Color("99")), "?"},
}

// Box builds a rounded message box. The title line carries the type marker;
// content lines are wrapped to the box width.
type Box struct {
	messageType MessageType
	title       string
	content     []string
	width       int
}

// NewBox creates a box sized to the terminal
func NewBox(messageType MessageType, title string) *Box {
	return &Box{
		messageType: messageType,
		title:       title,
		width:       getTerminalWidth() - 8,
	}
}

// WithWidth sets the maximum outer width of the box
func (b *Box) WithWidth(width int) *Box {
	if width > frame+1 {
		b.width = width
	}
	return b
}

// AddLine adds a line of text
func (b *Box) AddLine(text string) *Box {
	b.content = append(b.content, text)
	return b
}

// AddBullet adds a bulleted line
func (b *Box) AddBullet(text string) *Box {
	b.content = append(b.content, "• "+text)
	return b
}

// AddKeyValue adds a "key: value" line
func (b *Box) AddKeyValue(key string, value interface{}) *Box {
	b.content = append(b.content, fmt.Sprintf("%s: %v", key, value))
	return b
}

// Render returns the box as a string without a trailing newline
func (b *Box) Render() string {
	bs, ok := boxStyles[b.messageType]
	if !ok {
		bs = boxStyles[InfoMessage]
	}

	// the title shares its row with the marker and a space
	titleWidth := b.width - frame - utf8.RuneCountInString(bs.marker) - 1
	titleLines := wrapText(b.title, titleWidth)

	var lines []string
	for _, line := range b.content {
		lines = append(lines, wrapText(line, b.width-frame)...)
	}

	inner := utf8.RuneCountInString(titleLines[0]) + utf8.RuneCountInString(bs.marker) + 1
	for _, line := range titleLines[1:] {
		inner = max(inner, utf8.RuneCountInString(line))
	}
	for _, line := range lines {
		inner = max(inner, utf8.RuneCountInString(line))
	}

	edge := bs.style.Render(vertical)
	row := func(text string) string {
		return fmt.Sprintf("%s  %s%s  %s\n", edge, text, strings.Repeat(" ", inner-utf8.RuneCountInString(text)), edge)
	}

	var sb strings.Builder
	sb.WriteString(bs.style.Render(topLeft+strings.Repeat(horizontal, inner+4)+topRight) + "\n")

	first := titleLines[0]
	pad := inner - utf8.RuneCountInString(first) - utf8.RuneCountInString(bs.marker) - 1
	sb.WriteString(fmt.Sprintf("%s  %s %s%s  %s\n", edge,
		bs.style.Bold(true).Render(bs.marker), bs.style.Render(first), strings.Repeat(" ", pad), edge))
	for _, line := range titleLines[1:] {
		sb.WriteString(row(line))
	}
	for _, line := range lines {
		sb.WriteString(row(line))
	}

	sb.WriteString(bs.style.Render(bottomLeft + strings.Repeat(horizontal, inner+4) + bottomRight))
	return sb.String()
}

// Fprint writes the rendered box and a newline to w
func (b *Box) Fprint(w io.Writer) error {
	_, err := fmt.Fprintln(w, b.Render())
	return err
}

// getTerminalWidth returns the width of stdout, or 80 when it is not a terminal
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// wrapText wraps text on word boundaries. Words longer than maxWidth are
// split. The result always has at least one line.
func wrapText(text string, maxWidth int) []string {
	if maxWidth < 1 {
		maxWidth = 1
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := ""
	for _, word := range words {
		for utf8.RuneCountInString(word) > maxWidth {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
			r := []rune(word)
			lines = append(lines, string(r[:maxWidth]))
			word = string(r[maxWidth:])
		}

		switch {
		case current == "":
			current = word
		case utf8.RuneCountInString(current)+1+utf8.RuneCountInString(word) <= maxWidth:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
