package deals

import (
	"context"
	"errors"
	"testing"

	"github.com/pauljones0/dealflow-hub/internal/models"
)

func TestService_PostComment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, seedDeal(1, models.StatusActive, false), seedDeal(2, models.StatusActive, false))

	top := int64(1)
	reply := int64(2)

	tests := []struct {
		name      string
		dealID    int64
		comment   models.Comment
		wantErr   error
		wantField string
	}{
		{
			name:    "Top level",
			dealID:  2,
			comment: models.Comment{Username: " carol ", Content: "Nice"},
		},
		{
			name:    "Reply to top level",
			dealID:  1,
			comment: models.Comment{ParentID: &top, Username: "dave", Content: "Agreed"},
		},
		{
			name:    "Unknown deal",
			dealID:  9,
			comment: models.Comment{Username: "x", Content: "y"},
			wantErr: models.ErrNotFound,
		},
		{
			name:      "Reply to a reply",
			dealID:    1,
			comment:   models.Comment{ParentID: &reply, Username: "x", Content: "y"},
			wantErr:   models.ErrValidation,
			wantField: "parentId",
		},
		{
			name:      "Parent on another deal",
			dealID:    2,
			comment:   models.Comment{ParentID: &top, Username: "x", Content: "y"},
			wantErr:   models.ErrValidation,
			wantField: "parentId",
		},
		{
			name:      "Blank content",
			dealID:    1,
			comment:   models.Comment{Username: "x", Content: "  "},
			wantErr:   models.ErrValidation,
			wantField: "content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := f.svc.PostComment(ctx, tt.dealID, tt.comment)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("PostComment() error = %v, want %v", err, tt.wantErr)
				}
				if tt.wantField != "" {
					var ve *models.ValidationError
					if !errors.As(err, &ve) || ve.Fields[tt.wantField] == "" {
						t.Errorf("PostComment() fields = %v, want %s", err, tt.wantField)
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("PostComment() error = %v", err)
			}
			if c.DealID != tt.dealID || c.Votes != 0 || !c.Timestamp.Equal(now) {
				t.Errorf("PostComment() = %+v", c)
			}
		})
	}
}

// failingComments fails every parent lookup with err.
type failingComments struct {
	CommentStore
	err error
}

func (f failingComments) GetByID(context.Context, int64) (models.Comment, error) {
	return models.Comment{}, f.err
}

func TestService_PostCommentParentLookupError(t *testing.T) {
	storeErr := errors.New("comment store unavailable")
	tests := []struct {
		name           string
		err            error
		wantErr        error
		wantValidation bool
	}{
		{"missing parent", models.ErrNotFound, models.ErrValidation, true},
		{"store failure", storeErr, storeErr, false},
		{"deadline", context.DeadlineExceeded, context.DeadlineExceeded, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, seedDeal(1, models.StatusActive, false))
			f.svc.comments = failingComments{CommentStore: f.comments, err: tt.err}

			parent := int64(1)
			_, err := f.svc.PostComment(context.Background(), 1, models.Comment{ParentID: &parent, Username: "x", Content: "y"})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("PostComment() error = %v, want %v", err, tt.wantErr)
			}
			if got := errors.Is(err, models.ErrValidation); got != tt.wantValidation {
				t.Errorf("PostComment() validation = %v, want %v", got, tt.wantValidation)
			}
		})
	}
}

func TestService_CommentsOfMissingDeal(t *testing.T) {
	f := newFixture(t, seedDeal(1, models.StatusActive, false))

	got, err := f.svc.Comments(context.Background(), 1)
	if err != nil || len(got) != 2 {
		t.Fatalf("Comments(1) = %v, %v", got, err)
	}
	if _, err := f.svc.Comments(context.Background(), 3); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Comments(3) error = %v", err)
	}
}

func TestService_DeleteCommentRemovesReplies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, seedDeal(1, models.StatusActive, false))

	if _, err := f.svc.DeleteComment(ctx, 1); err != nil {
		t.Fatalf("DeleteComment() error = %v", err)
	}
	if _, err := f.comments.GetByID(ctx, 2); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("reply survived its parent: %v", err)
	}
}

func TestService_DeleteCommentRemovesDeepThread(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, seedDeal(1, models.StatusActive, false))

	// Seed data can hold a reply to a reply.
	parent := int64(2)
	if _, err := f.comments.Create(ctx, models.Comment{DealID: 1, ParentID: &parent, Username: "c", Content: "deep"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := f.svc.DeleteComment(ctx, 1); err != nil {
		t.Fatalf("DeleteComment() error = %v", err)
	}
	left, _ := f.comments.GetByDealID(ctx, 1)
	if len(left) != 0 {
		t.Errorf("comments left after deleting thread root: %v", left)
	}
}

func TestService_UpdateAndVoteComment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, seedDeal(1, models.StatusActive, false))

	content := " edited "
	c, err := f.svc.UpdateComment(ctx, 2, models.CommentPatch{Content: &content})
	if err != nil {
		t.Fatalf("UpdateComment() error = %v", err)
	}
	if c.Content != "edited" || c.ParentID == nil || *c.ParentID != 1 {
		t.Errorf("UpdateComment() = %+v", c)
	}

	blank := ""
	if _, err := f.svc.UpdateComment(ctx, 2, models.CommentPatch{Content: &blank}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("UpdateComment(blank) error = %v", err)
	}

	c, err = f.svc.VoteComment(ctx, 2)
	if err != nil || c.Votes != 1 {
		t.Errorf("VoteComment() = %d, %v", c.Votes, err)
	}
	if _, err := f.svc.VoteComment(ctx, 40); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("VoteComment() on missing id error = %v", err)
	}
}
