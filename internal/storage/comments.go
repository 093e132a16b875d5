package storage

import (
	"context"

	"github.com/pauljones0/dealflow-hub/internal/models"
)

// CommentStore holds discussion threads for all deals.
type CommentStore struct {
	t table[models.Comment]
}

func NewCommentStore(seed []models.Comment, opts ...Option) *CommentStore {
	s := &CommentStore{
		t: table[models.Comment]{
			entity: "comment",
			id:     func(c *models.Comment) int64 { return c.ID },
			setID:  func(c *models.Comment, id int64) { c.ID = id },
			clone:  models.Comment.Clone,
			opts:   buildOptions(opts),
		},
	}
	s.t.seed(seed)
	return s
}

func (s *CommentStore) GetAll(ctx context.Context) ([]models.Comment, error) {
	return s.t.list(ctx, nil)
}

func (s *CommentStore) GetByID(ctx context.Context, id int64) (models.Comment, error) {
	return s.t.get(ctx, id)
}

// GetByDealID returns the comments of one deal in posting order.
func (s *CommentStore) GetByDealID(ctx context.Context, dealID int64) ([]models.Comment, error) {
	return s.t.list(ctx, func(c *models.Comment) bool { return c.DealID == dealID })
}

// Create stamps c with the next id, the current time and zero votes.
func (s *CommentStore) Create(ctx context.Context, c models.Comment) (models.Comment, error) {
	now := s.t.opts.now()
	return s.t.insert(ctx, c, func(rec *models.Comment) {
		rec.Timestamp = now
		rec.Votes = 0
	})
}

func (s *CommentStore) Update(ctx context.Context, id int64, patch models.CommentPatch) (models.Comment, error) {
	return s.t.mutate(ctx, id, func(c *models.Comment) error {
		*c = patch.Apply(*c)
		return nil
	})
}

func (s *CommentStore) Delete(ctx context.Context, id int64) (models.Comment, error) {
	return s.t.remove(ctx, id)
}

// DeleteByDealID removes every comment of a deal and returns them.
func (s *CommentStore) DeleteByDealID(ctx context.Context, dealID int64) ([]models.Comment, error) {
	return s.t.removeWhere(ctx, func(c *models.Comment) bool { return c.DealID == dealID })
}

// DeleteReplies removes every reply to parentID and returns them.
func (s *CommentStore) DeleteReplies(ctx context.Context, parentID int64) ([]models.Comment, error) {
	return s.t.removeWhere(ctx, func(c *models.Comment) bool { return c.ParentID != nil && *c.ParentID == parentID })
}

func (s *CommentStore) Vote(ctx context.Context, id int64) (models.Comment, error) {
	return s.t.mutate(ctx, id, func(c *models.Comment) error {
		c.Votes++
		return nil
	})
}
