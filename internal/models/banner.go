package models

// Banner is a promotional unit shown in a page slot such as the sidebar.
type Banner struct {
	ID          int64  `json:"id"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl" validate:"omitempty,url"`
	Link        string `json:"link" validate:"omitempty,url"`
	Position    string `json:"position" validate:"required"`
	Priority    int    `json:"priority"`
	Active      bool   `json:"active"`
}

type BannerPatch struct {
	ID          *int64  `json:"id,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Link        *string `json:"link,omitempty"`
	Position    *string `json:"position,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

func (p BannerPatch) Apply(b Banner) Banner {
	out := b
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.ImageURL != nil {
		out.ImageURL = *p.ImageURL
	}
	if p.Link != nil {
		out.Link = *p.Link
	}
	if p.Position != nil {
		out.Position = *p.Position
	}
	if p.Priority != nil {
		out.Priority = *p.Priority
	}
	if p.Active != nil {
		out.Active = *p.Active
	}
	out.ID = b.ID
	return out
}
