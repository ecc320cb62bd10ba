package server

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-eticket/internal/store"
	"github.com/goliatone/go-eticket/pkg/model"
	"github.com/goliatone/go-eticket/pkg/render"
	"github.com/goliatone/go-eticket/pkg/render/template/gotemplate"
	"github.com/goliatone/go-eticket/pkg/renderers/vanilla"
)

//go:embed templates/*.tmpl
var pageTemplates embed.FS

func newPageEngine() (*gotemplate.Engine, error) {
	files, err := fs.Sub(pageTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("server: page templates: %w", err)
	}
	engine, err := gotemplate.New(gotemplate.WithFS(files))
	if err != nil {
		return nil, fmt.Errorf("server: page templates: %w", err)
	}
	return engine, nil
}

func (s *Server) renderReview(draft *store.Draft, sections []render.SummarySection) ([]byte, error) {
	view := make([]map[string]any, 0, len(sections))
	for _, section := range sections {
		rows := make([]map[string]any, 0, len(section.Rows))
		for _, row := range section.Rows {
			rows = append(rows, map[string]any{"label": row.Label, "answer": row.Answer})
		}
		view = append(view, map[string]any{
			"title":    section.Title,
			"edit_url": stepURL(model.Step{ID: section.StepID, PerTraveler: section.Traveler >= 0, Traveler: section.Traveler}),
			"rows":     rows,
		})
	}
	out, err := s.pages.RenderTemplate("review", map[string]any{
		"draft_id":    draft.ID,
		"draft_input": render.DraftInputName,
		"travelers":   travelerCount(draft.Travelers),
		"submitted":   draft.Submitted,
		"sections":    view,
		"stylesheet":  "/assets/" + vanilla.StylesheetName,
		"action":      "/submit",
	})
	if err != nil {
		return nil, fmt.Errorf("server: render review: %w", err)
	}
	return []byte(out), nil
}

func travelerCount(n int) string {
	if n == 1 {
		return "1 traveler"
	}
	return fmt.Sprintf("%d travelers", n)
}
