package deals

import (
	"context"

	"github.com/pauljones0/dealflow-hub/internal/models"
)

// DealStore abstracts the storage layer for deal data.
type DealStore interface {
	GetAll(ctx context.Context) ([]models.Deal, error)
	GetByID(ctx context.Context, id int64) (models.Deal, error)
	Create(ctx context.Context, d models.Deal) (models.Deal, error)
	Update(ctx context.Context, id int64, patch models.DealPatch) (models.Deal, error)
	UpdateFunc(ctx context.Context, id int64, fn func(current models.Deal) (models.DealPatch, error)) (models.Deal, error)
	Delete(ctx context.Context, id int64) (models.Deal, error)
	Vote(ctx context.Context, id int64) (models.Deal, error)
	AddUpdate(ctx context.Context, id int64, content string) (models.Deal, error)
	Ignore(ctx context.Context, id int64) (models.Deal, error)
	AddToFavorites(ctx context.Context, id int64) (models.Deal, error)
}

// CommentStore abstracts the storage layer for comment threads.
type CommentStore interface {
	GetByID(ctx context.Context, id int64) (models.Comment, error)
	GetByDealID(ctx context.Context, dealID int64) ([]models.Comment, error)
	Create(ctx context.Context, c models.Comment) (models.Comment, error)
	Update(ctx context.Context, id int64, patch models.CommentPatch) (models.Comment, error)
	Delete(ctx context.Context, id int64) (models.Comment, error)
	DeleteReplies(ctx context.Context, parentID int64) ([]models.Comment, error)
	DeleteByDealID(ctx context.Context, dealID int64) ([]models.Comment, error)
	Vote(ctx context.Context, id int64) (models.Comment, error)
}

// SubmissionValidator checks public deal submissions.
type SubmissionValidator interface {
	ValidateSubmission(s models.DealSubmission) error
}

// Announcer abstracts the notification layer for featured deals.
type Announcer interface {
	Send(ctx context.Context, deal models.Deal) (string, error)
	Update(ctx context.Context, messageID string, deal models.Deal) error
}

// Recorder counts successful mutations by entity and operation.
type Recorder interface {
	RecordMutation(entity, op string)
}
