package deals

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/pauljones0/dealflow-hub/internal/models"
)

// Comments returns the thread of a deal in posting order.
func (s *Service) Comments(ctx context.Context, dealID int64) ([]models.Comment, error) {
	if _, err := s.deals.GetByID(ctx, dealID); err != nil {
		return nil, err
	}
	return s.comments.GetByDealID(ctx, dealID)
}

// PostComment attaches a comment to a deal. A reply must point at a
// top-level comment of the same deal, which keeps threads two levels deep.
func (s *Service) PostComment(ctx context.Context, dealID int64, c models.Comment) (models.Comment, error) {
	if _, err := s.deals.GetByID(ctx, dealID); err != nil {
		return models.Comment{}, err
	}

	c.DealID = dealID
	c.Username = strings.TrimSpace(c.Username)
	c.Content = strings.TrimSpace(c.Content)

	if c.ParentID != nil {
		parent, err := s.comments.GetByID(ctx, *c.ParentID)
		if errors.Is(err, models.ErrNotFound) {
			return models.Comment{}, models.NewValidationError("parentId", "Parent comment does not exist")
		}
		if err != nil {
			return models.Comment{}, err
		}
		if parent.DealID != dealID {
			return models.Comment{}, models.NewValidationError("parentId", "Parent comment belongs to another deal")
		}
		// A reply sits one level below its parent.
		depth := 2
		if parent.ParentID != nil {
			depth++
		}
		if depth > models.MaxCommentDepth {
			return models.Comment{}, models.NewValidationError("parentId", "Replies can only be nested one level deep")
		}
	}

	created, err := s.comments.Create(ctx, c)
	if err != nil {
		return models.Comment{}, err
	}
	s.record("comment", "create")
	slog.Info("Comment posted", "id", created.ID, "deal_id", dealID, "username", created.Username)
	return created, nil
}

func (s *Service) UpdateComment(ctx context.Context, id int64, patch models.CommentPatch) (models.Comment, error) {
	if patch.Content != nil {
		content := strings.TrimSpace(*patch.Content)
		patch.Content = &content
	}
	c, err := s.comments.Update(ctx, id, patch)
	if err != nil {
		return models.Comment{}, err
	}
	s.record("comment", "update")
	return c, nil
}

// DeleteComment removes a comment and every reply below it. Seeded threads
// may be deeper than new replies are allowed to be.
func (s *Service) DeleteComment(ctx context.Context, id int64) (models.Comment, error) {
	c, err := s.comments.Delete(ctx, id)
	if err != nil {
		return models.Comment{}, err
	}
	s.record("comment", "delete")

	ctx = context.WithoutCancel(ctx)
	pending := []int64{id}
	for len(pending) > 0 {
		parent := pending[0]
		pending = pending[1:]
		removed, err := s.comments.DeleteReplies(ctx, parent)
		if err != nil {
			slog.Warn("Failed to delete comment replies", "id", parent, "error", err)
			break
		}
		for _, r := range removed {
			pending = append(pending, r.ID)
		}
	}
	return c, nil
}

func (s *Service) VoteComment(ctx context.Context, id int64) (models.Comment, error) {
	c, err := s.comments.Vote(ctx, id)
	if err != nil {
		return models.Comment{}, err
	}
	s.record("comment", "vote")
	return c, nil
}
