package api

import (
	"net/http"
	"strings"

	"github.com/pauljones0/dealflow-hub/internal/models"
)

// handleListBanners returns every banner, or the active banners of one
// position in priority order when ?position is given.
func (s *Server) handleListBanners(w http.ResponseWriter, r *http.Request) {
	var (
		banners []models.Banner
		err     error
	)
	if position := strings.TrimSpace(r.URL.Query().Get("position")); position != "" {
		banners, err = s.banners.GetByPosition(r.Context(), position)
	} else {
		banners, err = s.banners.GetAll(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, banners)
}

func (s *Server) handleCreateBanner(w http.ResponseWriter, r *http.Request) {
	var b models.Banner
	if err := models.DecodeStrict(r.Body, &b); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.banners.Create(r.Context(), b)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetBanner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.bannerResult(w, r)(s.banners.GetByID(r.Context(), id))
}

func (s *Server) handleUpdateBanner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	patch, err := models.DecodePatch[models.BannerPatch](r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.bannerResult(w, r)(s.banners.Update(r.Context(), id, patch))
}

func (s *Server) handleDeleteBanner(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.bannerResult(w, r)(s.banners.Delete(r.Context(), id))
}

func (s *Server) bannerResult(w http.ResponseWriter, r *http.Request) func(models.Banner, error) {
	return func(b models.Banner, err error) {
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}
