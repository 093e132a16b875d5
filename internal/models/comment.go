package models

import "time"

// MaxCommentDepth bounds threads to a top-level comment and one level of replies.
const MaxCommentDepth = 2

// Comment is a user remark attached to a deal.
type Comment struct {
	ID        int64     `json:"id"`
	DealID    int64     `json:"dealId" validate:"gt=0"`
	ParentID  *int64    `json:"parentId"`
	Username  string    `json:"username" validate:"required"`
	Content   string    `json:"content" validate:"required"`
	Timestamp time.Time `json:"timestamp"`
	Votes     int       `json:"votes"`
}

func (c Comment) Clone() Comment {
	out := c
	if c.ParentID != nil {
		p := *c.ParentID
		out.ParentID = &p
	}
	return out
}

// CommentPatch holds the editable parts of a comment.
type CommentPatch struct {
	ID      *int64  `json:"id,omitempty"`
	Content *string `json:"content,omitempty"`
}

func (p CommentPatch) Apply(c Comment) Comment {
	out := c.Clone()
	if p.Content != nil {
		out.Content = *p.Content
	}
	out.ID = c.ID
	return out
}
