package api

import (
	"net/http"

	"github.com/pauljones0/dealflow-hub/internal/models"
)

type commentRequest struct {
	Username string `json:"username"`
	Content  string `json:"content"`
	ParentID *int64 `json:"parentId"`
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	comments, err := s.deals.Comments(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) handlePostComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req commentRequest
	if err := models.DecodeStrict(r.Body, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := s.deals.PostComment(r.Context(), id, models.Comment{
		Username: req.Username,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	patch, err := models.DecodePatch[models.CommentPatch](r.Body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.commentResult(w, r)(s.deals.UpdateComment(r.Context(), id, patch))
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.commentResult(w, r)(s.deals.DeleteComment(r.Context(), id))
}

func (s *Server) handleVoteComment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.votes.allow(r, "comment"); err != nil {
		writeError(w, r, err)
		return
	}
	s.commentResult(w, r)(s.deals.VoteComment(r.Context(), id))
}

func (s *Server) commentResult(w http.ResponseWriter, r *http.Request) func(models.Comment, error) {
	return func(c models.Comment, err error) {
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}
