package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/goliatone/go-eticket/pkg/fieldadapter"
	"github.com/goliatone/go-eticket/pkg/model"
	"github.com/goliatone/go-eticket/pkg/render"
)

const defaultWordWrap = 80

// Markdown builds a review summary of the answered fields, one table per step.
// Booleans are shown with the option label they were answered through and
// unanswered fields are left out.
func Markdown(steps []model.Step, values map[string]any, mapping fieldadapter.Mapping) string {
	var b strings.Builder
	for _, section := range render.Summarize(steps, values, mapping) {
		fmt.Fprintf(&b, "## %s\n\n", escapeCell(section.Title))
		b.WriteString("| Question | Answer |\n|---|---|\n")
		for _, row := range section.Rows {
			fmt.Fprintf(&b, "| %s | %s |\n", escapeCell(row.Label), escapeCell(row.Answer))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderMarkdown renders markdown for a terminal with the named glamour
// style. width <= 0 uses the default word wrap.
func RenderMarkdown(markdown, style string, width int) (string, error) {
	if width <= 0 {
		width = defaultWordWrap
	}
	if style == "" {
		style = "notty"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("tui: markdown renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("tui: render markdown: %w", err)
	}
	return out, nil
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
