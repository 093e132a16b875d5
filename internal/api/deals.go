package api

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/pauljones0/dealflow-hub/internal/listing"
	"github.com/pauljones0/dealflow-hub/internal/models"
	"github.com/pauljones0/dealflow-hub/internal/util"
)

type dealDetail struct {
	Deal     models.Deal      `json:"deal"`
	Comments []models.Comment `json:"comments"`
}

type updateRequest struct {
	Content string `json:"content"`
}

type moveRequest struct {
	Column models.Column `json:"column"`
}

func (s *Server) allDeals(w http.ResponseWriter, r *http.Request) ([]models.Deal, bool) {
	all, err := s.deals.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return all, true
}

func (s *Server) handleListDeals(w http.ResponseWriter, r *http.Request) {
	all, ok := s.allDeals(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	category := q.Get("category")
	if category == "all" {
		category = ""
	}
	writeJSON(w, http.StatusOK, listing.Apply(all, listing.Options{
		Category: category,
		Status:   q.Get("status"),
		SortBy:   q.Get("sortBy"),
		Query:    q.Get("q"),
	}))
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	all, ok := s.allDeals(w, r)
	if !ok {
		return
	}
	limit := util.SafeAtoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = s.trendingLimit
	}
	writeJSON(w, http.StatusOK, listing.Trending(all, limit))
}

func (s *Server) handleFeatured(w http.ResponseWriter, r *http.Request) {
	all, ok := s.allDeals(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, listing.Featured(all))
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	all, ok := s.allDeals(w, r)
	if !ok {
		return
	}
	counts := listing.CategoryCounts(all)
	if counts == nil {
		counts = []listing.CategoryCount{}
	}
	writeJSON(w, http.StatusOK, counts)
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	all, ok := s.allDeals(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, listing.NewBoard(listing.Search(all, r.URL.Query().Get("q"))))
}

func (s *Server) handleSwipe(w http.ResponseWriter, r *http.Request) {
	all, ok := s.allDeals(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, listing.SwipeQueue(all))
}

func (s *Server) handleSubmitDeal(w http.ResponseWriter, r *http.Request) {
	var sub models.DealSubmission
	if err := models.DecodeStrict(r.Body, &sub); err != nil {
		writeError(w, r, err)
		return
	}
	d, err := s.deals.Submit(r.Context(), sub)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// handleGetDeal loads the deal and its thread concurrently.
func (s *Server) handleGetDeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var detail dealDetail
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		d, err := s.deals.Get(ctx, id)
		detail.Deal = d
		return err
	})
	g.Go(func() error {
		c, err := s.deals.Comments(ctx, id)
		detail.Comments = c
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleUpdateDeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	patch, err := models.DecodePatch[models.DealPatch](r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := s.deals.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeleteDeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	d, err := s.deals.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if s.emails != nil {
		s.emails.RemoveDeal(id)
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleVoteDeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.votes.allow(r, "deal"); err != nil {
		writeError(w, r, err)
		return
	}
	s.dealResult(w, r)(s.deals.Vote(r.Context(), id))
}

func (s *Server) handleAddUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateRequest
	if err := models.DecodeStrict(r.Body, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.dealResult(w, r)(s.deals.AddUpdate(r.Context(), id, req.Content))
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req moveRequest
	if err := models.DecodeStrict(r.Body, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.dealResult(w, r)(s.deals.Move(r.Context(), id, req.Column))
}

func (s *Server) handleIgnore(w http.ResponseWriter, r *http.Request) {
	s.dealAction(w, r, s.deals.Ignore)
}

func (s *Server) handleFavorite(w http.ResponseWriter, r *http.Request) {
	s.dealAction(w, r, s.deals.Favorite)
}

func (s *Server) handleToggleFeatured(w http.ResponseWriter, r *http.Request) {
	s.dealAction(w, r, s.deals.ToggleFeatured)
}

func (s *Server) handleToggleStatus(w http.ResponseWriter, r *http.Request) {
	s.dealAction(w, r, s.deals.ToggleStatus)
}

// dealAction runs a body-less operation on the deal named in the path.
func (s *Server) dealAction(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id int64) (models.Deal, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.dealResult(w, r)(op(r.Context(), id))
}

func (s *Server) dealResult(w http.ResponseWriter, r *http.Request) func(models.Deal, error) {
	return func(d models.Deal, err error) {
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}
