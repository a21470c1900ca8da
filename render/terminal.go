package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tsawler/debrief/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#101F38")).
			Background(lipgloss.Color("#8BC34A")).
			Padding(0, 1).
			MarginBottom(1)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4F81BD"))
	shiftStyle   = lipgloss.NewStyle().Bold(true)
	bulletStyle  = lipgloss.NewStyle().PaddingLeft(2)
)

// Terminal renders blocks for a terminal preview. Nested headings are
// indented by level; a width of zero disables wrapping.
func Terminal(blocks []model.Block, width int) string {
	var sb strings.Builder
	for _, b := range blocks {
		var style lipgloss.Style
		line := b.Text
		indent := 0

		switch b.Kind {
		case model.BlockTitle:
			style = titleStyle
		case model.BlockHeading:
			style = headingStyle
			indent = (b.Level - 1) * 2
			if b.Level == 1 {
				style = style.Underline(true)
			}
		case model.BlockParagraph:
			style = shiftStyle
		case model.BlockBullet:
			style = bulletStyle
			line = "• " + line
		default:
			continue
		}

		if b.Color != "" {
			style = style.Foreground(lipgloss.Color("#" + b.Color))
		}
		if b.Bold {
			style = style.Bold(true)
		}
		if indent > 0 {
			style = style.MarginLeft(indent)
		}
		if width > 0 {
			style = style.Width(width)
		}

		sb.WriteString(style.Render(line))
		sb.WriteString("\n")
	}
	return sb.String()
}
