package api

import (
	"net/http"

	"github.com/pauljones0/dealflow-hub/internal/email"
	"github.com/pauljones0/dealflow-hub/internal/listing"
	"github.com/pauljones0/dealflow-hub/internal/models"
)

type setMainRequest struct {
	DealID int64 `json:"dealId"`
}

func (s *Server) handleNewDraft(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, s.emails.NewDraft())
}

// handleEmailCandidates lists the deals an editor picks from, featured first.
func (s *Server) handleEmailCandidates(w http.ResponseWriter, r *http.Request) {
	all, ok := s.allDeals(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, listing.EmailOrder(all))
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.draftResult(w, r)(s.emails.Draft(id))
}

func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.emails.DeleteDraft(id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetMain(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req setMainRequest
	if err := models.DecodeStrict(r.Body, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.draftResult(w, r)(s.emails.SetMain(r.Context(), id, req.DealID))
}

func (s *Server) handleClearMain(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.draftResult(w, r)(s.emails.ClearMain(id))
}

func (s *Server) handleToggleSecondary(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	dealID, err := pathID(r, "dealID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.draftResult(w, r)(s.emails.ToggleSecondary(r.Context(), id, dealID))
}

func (s *Server) handleRenderDraft(w http.ResponseWriter, r *http.Request) {
	id, err := draftID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.renderResult(w, r)(s.emails.Render(r.Context(), id))
}

// handleRenderSelection renders a selection posted in the body without
// keeping a draft.
func (s *Server) handleRenderSelection(w http.ResponseWriter, r *http.Request) {
	var sel email.Selection
	if err := models.DecodeStrict(r.Body, &sel); err != nil {
		writeError(w, r, err)
		return
	}
	s.renderResult(w, r)(s.emails.RenderSelection(r.Context(), sel))
}

func (s *Server) draftResult(w http.ResponseWriter, r *http.Request) func(email.Draft, error) {
	return func(d email.Draft, err error) {
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func (s *Server) renderResult(w http.ResponseWriter, r *http.Request) func(email.Rendered, error) {
	return func(out email.Rendered, err error) {
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}
