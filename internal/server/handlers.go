package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-eticket/internal/store"
	"github.com/goliatone/go-eticket/pkg/formstate"
	"github.com/goliatone/go-eticket/pkg/model"
	"github.com/goliatone/go-eticket/pkg/orchestrator"
	"github.com/goliatone/go-eticket/pkg/render"
	"github.com/goliatone/go-eticket/pkg/requirements"
	"github.com/goliatone/go-eticket/pkg/steps"
	"github.com/goliatone/go-eticket/pkg/visibility/expr"
	"github.com/goliatone/go-eticket/pkg/wizard"
)

const reviewPath = "/review"

var errBadRequest = errors.New("server: bad request")

const errConflictMessage = "declaration changed in another window, reload to continue"

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	draft, err := s.currentDraft(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	travelers, explicit, err := parseTravelers(r.URL.Query().Get("travelers"), s.cfg.Travelers)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if draft != nil && !draft.Submitted && !explicit {
		nav, err := s.navigator(draft)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		http.Redirect(w, r, stepURL(nav.Current()), http.StatusSeeOther)
		return
	}

	draft = store.NewDraft(travelers, s.cfg.Now())
	nav, err := s.navigator(draft)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	draft.State = nav.State()
	if err := s.createDraft(r, draft); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.bindDraft(w, r, draft); err != nil {
		s.fail(w, r, err)
		return
	}
	if s.metrics != nil {
		s.metrics.DraftCreated()
	}
	s.logger.Info("draft created", zap.String("draft", draft.ID), zap.Int("travelers", travelers))
	http.Redirect(w, r, stepURL(nav.Current()), http.StatusSeeOther)
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	draft, nav, ok := s.loadNavigator(w, r)
	if !ok {
		return
	}
	if !s.moveTo(w, r, nav) {
		return
	}
	s.renderStep(w, r, draft, nav, http.StatusOK)
}

func (s *Server) handleStepSubmit(w http.ResponseWriter, r *http.Request) {
	draft, nav, ok := s.loadNavigator(w, r)
	if !ok {
		return
	}
	if draft.Submitted {
		http.Error(w, "declaration already submitted", http.StatusConflict)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}
	if !s.moveTo(w, r, nav) {
		return
	}

	step := nav.Current()
	if err := bindStep(nav.Form(), step, r.PostForm, s.cfg.Mapping); err != nil {
		s.fail(w, r, err)
		return
	}

	err := nav.Next()
	var invalid *wizard.ValidationError
	switch {
	case errors.As(err, &invalid):
		s.recordDraft(draft, nav)
		if err := s.saveDraft(r, draft); err != nil {
			s.failSave(w, r, err)
			return
		}
		s.stepSubmitted(step, invalid.Failures)
		s.logger.Debug("step rejected",
			zap.String("draft", draft.ID),
			zap.String("step", step.ID),
			zap.Int("failures", len(invalid.Failures)),
		)
		s.renderStep(w, r, draft, nav, http.StatusUnprocessableEntity)
	case errors.Is(err, wizard.ErrLastStep):
		s.recordDraft(draft, nav)
		if err := s.saveDraft(r, draft); err != nil {
			s.failSave(w, r, err)
			return
		}
		s.stepSubmitted(step, nil)
		http.Redirect(w, r, reviewPath, http.StatusSeeOther)
	case err != nil:
		s.fail(w, r, err)
	default:
		s.recordDraft(draft, nav)
		if err := s.saveDraft(r, draft); err != nil {
			s.failSave(w, r, err)
			return
		}
		s.stepSubmitted(step, nil)
		http.Redirect(w, r, stepURL(nav.Current()), http.StatusSeeOther)
	}
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	draft, nav, ok := s.loadNavigator(w, r)
	if !ok {
		return
	}
	all := nav.Wizard().Steps
	last := all[len(all)-1]
	if !nav.Visited(last.ID, last.Traveler) {
		http.Redirect(w, r, stepURL(nav.Current()), http.StatusSeeOther)
		return
	}

	sections := render.Summarize(all, draft.Values, s.cfg.Mapping)
	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, map[string]any{"id": draft.ID, "sections": sections})
		return
	}

	page, err := s.renderReview(draft, sections)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

type receipt struct {
	ID          string            `json:"id"`
	Travelers   int               `json:"travelers"`
	SubmittedAt time.Time         `json:"submittedAt"`
	Declaration steps.Declaration `json:"declaration"`
}

type rejection struct {
	Error    string            `json:"error"`
	Step     string            `json:"step"`
	Traveler int               `json:"traveler"`
	Redirect string            `json:"redirect"`
	Fields   map[string]string `json:"fields"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	draft, err := s.currentDraft(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if draft == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no declaration in progress"})
		return
	}
	if draft.Submitted {
		s.writeReceipt(w, r, draft, nil)
		return
	}

	nav, err := s.navigator(draft)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	err = nav.Complete()
	var invalid *wizard.ValidationError
	if errors.As(err, &invalid) {
		s.recordDraft(draft, nav)
		if err := s.saveDraft(r, draft); err != nil {
			s.failSubmitSave(w, r, err)
			return
		}
		current := nav.Current()
		writeJSON(w, http.StatusUnprocessableEntity, rejection{
			Error:    "declaration has invalid fields",
			Step:     invalid.StepID,
			Traveler: invalid.Traveler,
			Redirect: stepURL(current),
			Fields:   invalid.Failures,
		})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.recordDraft(draft, nav)
	draft.Submitted = true
	if err := s.saveDraft(r, draft); err != nil {
		s.failSubmitSave(w, r, err)
		return
	}
	if s.metrics != nil {
		s.metrics.DeclarationSubmitted()
	}
	s.logger.Info("declaration submitted", zap.String("draft", draft.ID), zap.Int("travelers", draft.Travelers))
	s.writeReceipt(w, r, draft, nav.Form())
}

// writeReceipt answers with the typed declaration decoded from form, or from
// the stored values when form is nil.
func (s *Server) writeReceipt(w http.ResponseWriter, r *http.Request, draft *store.Draft, form *formstate.Form) {
	if form == nil {
		form = formstate.New(formstate.WithValues(draft.Values))
	}
	decl, err := steps.DecodeDeclaration(form)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt{
		ID:          draft.ID,
		Travelers:   draft.Travelers,
		SubmittedAt: draft.UpdatedAt,
		Declaration: decl,
	})
}

// loadNavigator resolves the session draft and its navigator. Requests
// without a draft are sent to the start page.
func (s *Server) loadNavigator(w http.ResponseWriter, r *http.Request) (*store.Draft, *wizard.Navigator, bool) {
	draft, err := s.currentDraft(r)
	if err != nil {
		s.fail(w, r, err)
		return nil, nil, false
	}
	if draft == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return nil, nil, false
	}
	nav, err := s.navigator(draft)
	if err != nil {
		s.fail(w, r, err)
		return nil, nil, false
	}
	return draft, nav, true
}

// moveTo positions nav on the step named in the URL. Unknown steps are 404;
// steps not reached yet redirect to the current one.
func (s *Server) moveTo(w http.ResponseWriter, r *http.Request, nav *wizard.Navigator) bool {
	traveler, err := travelerParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	err = nav.GoTo(chi.URLParam(r, "step"), traveler)
	switch {
	case err == nil:
		return true
	case errors.Is(err, wizard.ErrUnknownStep):
		http.NotFound(w, r)
	case errors.Is(err, wizard.ErrNotVisited):
		http.Redirect(w, r, stepURL(nav.Current()), http.StatusSeeOther)
	default:
		s.fail(w, r, err)
	}
	return false
}

func (s *Server) navigator(draft *store.Draft) (*wizard.Navigator, error) {
	catalog := s.orch.Catalog()
	wiz, err := catalog.Wizard(draft.Travelers)
	if err != nil {
		return nil, fmt.Errorf("server: build wizard: %w", err)
	}
	form := formstate.New(
		formstate.WithValues(draft.Values),
		formstate.WithRules(catalog.Rules()),
	)
	for path, messages := range draft.Errors {
		form.SetErrors(path, messages...)
	}
	nav, err := wizard.New(wiz, form,
		wizard.WithRules(catalog.Rules()),
		wizard.WithState(draft.State),
		wizard.WithEvaluator(expr.New(expr.WithMapping(s.cfg.Mapping))),
	)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	return nav, nil
}

func (s *Server) recordDraft(draft *store.Draft, nav *wizard.Navigator) {
	form := nav.Form()
	draft.Values = form.Values()
	draft.Errors = form.Errors()
	draft.State = nav.State()
}

func (s *Server) stepSubmitted(step model.Step, failures map[string]string) {
	if s.metrics == nil {
		return
	}
	fields := make([]string, 0, len(failures))
	for path := range failures {
		fields = append(fields, requirements.CanonicalPath(path))
	}
	s.metrics.StepSubmitted(step.ID, fields)
}

func (s *Server) renderStep(w http.ResponseWriter, r *http.Request, draft *store.Draft, nav *wizard.Navigator, status int) {
	step := nav.Current()
	progress := nav.Progress()

	opts := render.RenderOptions{
		Action:       stepURL(step),
		Errors:       stepErrors(nav.Form(), step),
		HiddenFields: render.MergeHiddenFields(nil, render.StepFields(step.ID, step.Traveler)...),
		Progress: &render.Progress{
			Step:    progress.Step,
			Total:   progress.Total,
			Percent: progress.Percent,
		},
		SubmitLabel: "Continue",
	}
	if nav.IsLast() {
		opts.SubmitLabel = "Review declaration"
	}
	if idx := progress.Step - 1; idx > 0 {
		opts.BackURL = stepURL(nav.Wizard().Steps[idx-1])
	}

	out, err := s.orch.Generate(r.Context(), orchestrator.Request{
		StepID:        step.ID,
		Traveler:      step.Traveler,
		Values:        draft.Values,
		ThemeName:     s.cfg.ThemeName,
		ThemeVariant:  s.cfg.ThemeVariant,
		RenderOptions: opts,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

// failSave reports a lost write race as 409 so the browser reloads the
// draft instead of overwriting answers saved from another tab.
func (s *Server) failSave(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrConflict) {
		s.logger.Info("draft write conflict", zap.String("path", r.URL.Path))
		http.Error(w, errConflictMessage, http.StatusConflict)
		return
	}
	s.fail(w, r, err)
}

func (s *Server) failSubmitSave(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrConflict) {
		s.logger.Info("draft write conflict", zap.String("path", r.URL.Path))
		writeJSON(w, http.StatusConflict, map[string]string{"error": errConflictMessage})
		return
	}
	s.fail(w, r, err)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func stepErrors(form *formstate.Form, step model.Step) map[string][]string {
	out := make(map[string][]string)
	for _, path := range step.Paths() {
		if messages := form.ErrorsFor(path); len(messages) > 0 {
			out[path] = messages
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// stepURL addresses a step; per-traveler steps carry their slot.
func stepURL(step model.Step) string {
	target := "/steps/" + url.PathEscape(step.ID)
	if step.PerTraveler {
		target += "?traveler=" + strconv.Itoa(step.Traveler)
	}
	return target
}

// travelerParam reads the slot from the query string, falling back to the
// hidden _traveler input. Missing means slot 0.
func travelerParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("traveler")
	if raw == "" && r.PostForm != nil {
		raw = r.PostForm.Get(render.TravelerInputName)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 || n >= steps.MaxTravelers {
		return 0, fmt.Errorf("%w: traveler %q", errBadRequest, raw)
	}
	return n, nil
}

// parseTravelers reads the group size; explicit reports whether it was given.
func parseTravelers(raw string, fallback int) (int, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > steps.MaxTravelers {
		return 0, true, fmt.Errorf("%w: travelers must be between 1 and %d", errBadRequest, steps.MaxTravelers)
	}
	return n, true, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}
