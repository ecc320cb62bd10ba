package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/goliatone/go-eticket/internal/store"
)

// currentDraft loads the draft referenced by the session cookie. A missing,
// malformed or expired reference yields (nil, nil).
func (s *Server) currentDraft(r *http.Request) (*store.Draft, error) {
	session, err := s.sessions.Get(r, s.cfg.SessionName)
	if err != nil {
		// Tampered or rotated cookies start a fresh session.
		s.logger.Debug("discarding session cookie")
		return nil, nil
	}
	id, _ := session.Values[draftSessionKey].(string)
	if !store.ValidID(id) {
		return nil, nil
	}
	draft, err := s.store.Load(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("server: load draft: %w", err)
	}
	return draft, nil
}

// bindDraft points the session cookie at draft.
func (s *Server) bindDraft(w http.ResponseWriter, r *http.Request, draft *store.Draft) error {
	session, _ := s.sessions.Get(r, s.cfg.SessionName)
	session.Values[draftSessionKey] = draft.ID
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("server: save session: %w", err)
	}
	return nil
}

// createDraft stores a draft that no other request can hold yet.
func (s *Server) createDraft(r *http.Request, draft *store.Draft) error {
	if err := s.store.Save(r.Context(), draft); err != nil {
		return fmt.Errorf("server: save draft: %w", err)
	}
	return nil
}

// saveDraft writes a loaded draft back. It fails with store.ErrConflict when
// another request saved the draft after it was loaded.
func (s *Server) saveDraft(r *http.Request, draft *store.Draft) error {
	if err := s.store.Update(r.Context(), draft); err != nil {
		return fmt.Errorf("server: save draft: %w", err)
	}
	return nil
}
